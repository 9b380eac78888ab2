package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/petmatch/internal/version"
	petmatch "github.com/kailas-cloud/petmatch/pkg/sdk"
)

var globalClient *petmatch.Client

// Flags
var (
	storeDriver   string
	storeAddr     string
	storePassword string
	storeDB       int
	openAIKey     string
	openAIBaseURL string
	openAIModel   string
	threshold     float64
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:           "petmatchctl",
	Short:         "Operate on lost and found pet reports",
	Long:          "Submit, preview and list pet reports and matches against a petmatch record store.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if !needsClient(cmd) {
			return nil
		}
		client, err := petmatch.New(cmd.Context(), clientOptions(cmd)...)
		if err != nil {
			return fmt.Errorf("failed to open client: %w", err)
		}
		globalClient = client
		return nil
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		closeClient()
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "petmatchctl", version.String())
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&storeDriver, "store", envOr("PETMATCH_STORE", "valkey"), "Record store: valkey, redis or memory")
	flags.StringVar(&storeAddr, "addr", envOr("PETMATCH_ADDR", "localhost:6379"), "Record store address")
	flags.StringVar(&storePassword, "password", os.Getenv("PETMATCH_PASSWORD"), "Record store password")
	flags.IntVar(&storeDB, "db", 0, "Logical database (redis/valkey)")
	flags.StringVar(&openAIKey, "openai-key", os.Getenv("OPENAI_API_KEY"), "Embedding API key; empty disables embeddings")
	flags.StringVar(&openAIBaseURL, "openai-base-url", os.Getenv("EMBEDDING_BASE_URL"), "OpenAI-compatible base URL")
	flags.StringVar(&openAIModel, "model", envOr("EMBEDDING_MODEL", "clip-vit-b-32"), "Embedding model for images and breeds")
	flags.Float64Var(&threshold, "threshold", 0.7, "Match threshold")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log every operation to stderr")

	rootCmd.AddCommand(versionCmd)
}

func clientOptions(cmd *cobra.Command) []petmatch.Option {
	var opts []petmatch.Option
	switch storeDriver {
	case "memory":
		opts = append(opts, petmatch.WithMemory())
	case "redis":
		opts = append(opts, petmatch.WithRedis(storeAddr, storePassword), petmatch.WithDB(storeDB))
	default:
		opts = append(opts, petmatch.WithValkey(storeAddr, storePassword), petmatch.WithDB(storeDB))
	}
	if openAIKey != "" || openAIBaseURL != "" {
		opts = append(opts, petmatch.WithOpenAI(openAIKey, openAIBaseURL, openAIModel))
	}
	opts = append(opts, petmatch.WithThreshold(threshold))
	if verbose {
		h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, petmatch.WithLogger(slog.New(h)))
	}
	return opts
}

func closeClient() {
	if globalClient != nil {
		globalClient.Close()
		globalClient = nil
	}
}

// needsClient is false for commands that never touch the record store.
func needsClient(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "version", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return false
	}
	return cmd.Parent() == nil || cmd.Parent().Name() != "completion"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
