package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	petmatch "github.com/kailas-cloud/petmatch/pkg/sdk"
)

var submitCmd = &cobra.Command{
	Use:   "submit <lost|found>",
	Short: "Submit a pet report",
	Long:  "Store a report. A found report is matched against every active lost report immediately.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubmit,
}

var previewCmd = &cobra.Command{
	Use:   "preview <lost|found>",
	Short: "Score a report without storing it",
	Long:  "Score a report against the opposite side. Nothing is stored or retired.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

var listCmd = &cobra.Command{
	Use:   "list [lost|found]",
	Short: "List stored reports, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List matches, highest score first",
	Args:  cobra.NoArgs,
	RunE:  runMatches,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the record store and embedding provider",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

// Report flags
var (
	reportName    string
	reportColor   string
	reportBreed   string
	reportDesc    string
	reportImages  []string
	reportLat     float64
	reportLon     float64
	reportAddress string
	contactName   string
	contactPhone  string
	contactEmail  string
	previewAll    bool
)

func init() {
	rootCmd.AddCommand(submitCmd, previewCmd, listCmd, matchesCmd, healthCmd)

	for _, c := range []*cobra.Command{submitCmd, previewCmd} {
		f := c.Flags()
		f.StringVar(&reportName, "name", "", "Pet name")
		f.StringVar(&reportColor, "color", "", "Coat color")
		f.StringVar(&reportBreed, "breed", "", "Breed")
		f.StringVar(&reportDesc, "description", "", "Free-text description")
		f.StringSliceVar(&reportImages, "image", nil, "Image URL (repeatable)")
		f.Float64Var(&reportLat, "lat", 0, "Latitude")
		f.Float64Var(&reportLon, "lon", 0, "Longitude")
		f.StringVar(&reportAddress, "address", "", "Address where the pet was lost or found")
		f.StringVar(&contactName, "contact-name", "", "Owner or reporter name")
		f.StringVar(&contactPhone, "contact-phone", "", "Owner or reporter phone")
		f.StringVar(&contactEmail, "contact-email", "", "Owner or reporter email")
	}
	previewCmd.Flags().BoolVar(&previewAll, "all", false, "Include candidates below the threshold")
}

func reportFromFlags(cmd *cobra.Command, status string) petmatch.Report {
	r := petmatch.Report{
		Status:      petmatch.Status(strings.ToLower(status)),
		Name:        reportName,
		Color:       reportColor,
		Breed:       reportBreed,
		Description: reportDesc,
		Images:      reportImages,
		Address:     reportAddress,
		Contact:     petmatch.Contact{Name: contactName, Phone: contactPhone, Email: contactEmail},
	}
	if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon") {
		r.Location = &petmatch.Location{Lat: reportLat, Lon: reportLon}
	}
	return r
}

func runSubmit(cmd *cobra.Command, args []string) error {
	res, err := globalClient.Pets().Submit(cmd.Context(), reportFromFlags(cmd, args[0]))
	if err != nil {
		if res.ID != "" {
			_ = printJSON(cmd.OutOrStdout(), res)
		}
		return fmt.Errorf("failed to submit report: %w", err)
	}
	return printJSON(cmd.OutOrStdout(), res)
}

func runPreview(cmd *cobra.Command, args []string) error {
	candidates, err := globalClient.Pets().Preview(cmd.Context(), reportFromFlags(cmd, args[0]),
		petmatch.PreviewOptions{All: previewAll})
	if err != nil {
		return fmt.Errorf("failed to preview report: %w", err)
	}
	return printJSON(cmd.OutOrStdout(), candidates)
}

func runList(cmd *cobra.Command, args []string) error {
	var status petmatch.Status
	if len(args) == 1 {
		status = petmatch.Status(strings.ToLower(args[0]))
	}
	pets, err := globalClient.Pets().List(cmd.Context(), status)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}
	return printJSON(cmd.OutOrStdout(), pets)
}

func runMatches(cmd *cobra.Command, _ []string) error {
	matches, err := globalClient.Pets().Matches(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list matches: %w", err)
	}
	return printJSON(cmd.OutOrStdout(), matches)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	h := globalClient.Health(cmd.Context())
	if err := printJSON(cmd.OutOrStdout(), h); err != nil {
		return err
	}
	if !h.Healthy() {
		return fmt.Errorf("status %s", h.Status)
	}
	return nil
}
