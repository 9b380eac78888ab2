package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/petmatch/internal/domain/geo"
)

// Input is a pet report as submitted, with every field alias accepted at the boundary.
// Normalize turns it into the canonical Report.
type Input struct {
	Status string `json:"status"`
	Type   string `json:"type"`

	Name    string `json:"name"`
	PetName string `json:"petName"`

	Color       string `json:"color"`
	Breed       string `json:"breed"`
	Description string `json:"description"`
	Notes       string `json:"notes"`

	PhotoURLs     []string `json:"photoUrls"`
	ImageURL      string   `json:"image_url"`
	ImageURLCamel string   `json:"imageUrl"`
	PhotoURL      string   `json:"photoUrl"`

	Latitude  json.RawMessage `json:"latitude,omitempty"`
	Longitude json.RawMessage `json:"longitude,omitempty"`
	Location  *GeoPoint       `json:"location,omitempty"`
	Address   string          `json:"address"`

	OwnerName     string `json:"ownerName"`
	OwnerPhone    string `json:"ownerPhone"`
	OwnerEmail    string `json:"ownerEmail"`
	ReporterName  string `json:"reporterName"`
	ReporterPhone string `json:"reporterPhone"`
	ReporterEmail string `json:"reporterEmail"`
}

// GeoPoint is a GeoJSON point; Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Issue describes an input value that was dropped during normalization.
// Issues never reject a report; the field is treated as absent.
type Issue struct {
	Field  string
	Reason string
}

func (i Issue) String() string { return i.Field + ": " + i.Reason }

// RawStatus returns the status as given, preferring status over the legacy type field.
func (in *Input) RawStatus() string {
	if s := strings.TrimSpace(in.Status); s != "" {
		return s
	}
	return strings.TrimSpace(in.Type)
}

// Normalize validates the status and maps aliases onto one canonical Report.
// Precedence: status > type; photoUrls list, then image_url > imageUrl > photoUrl;
// latitude/longitude > GeoJSON location; description > notes; name > petName.
func Normalize(in *Input, now time.Time) (Report, []Issue, error) {
	status, err := ParseStatus(in.RawStatus())
	if err != nil {
		return Report{}, nil, err
	}

	coords, issues := in.coordinates()

	r, err := New(Fields{
		Status:      status,
		Name:        firstNonEmpty(in.Name, in.PetName),
		Color:       strings.TrimSpace(in.Color),
		Breed:       strings.TrimSpace(in.Breed),
		Description: firstNonEmpty(in.Description, in.Notes),
		Images:      ResolveImages(in.PhotoURLs, in.ImageURL, in.ImageURLCamel, in.PhotoURL),
		Coordinates: coords,
		Address:     strings.TrimSpace(in.Address),
		Contact:     in.contact(),
	}, now)
	if err != nil {
		return Report{}, issues, err
	}
	return r, issues, nil
}

// ResolveImages merges the list field with the first non-empty single field.
// A single value that holds commas and does not start with http is split on commas.
// The result is de-duplicated preserving insertion order.
func ResolveImages(list []string, singles ...string) []string {
	urls := make([]string, 0, len(list)+1)
	for _, u := range list {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}

	single := firstNonEmpty(singles...)
	if single != "" {
		if strings.Contains(single, ",") && !strings.HasPrefix(single, "http") {
			for _, part := range strings.Split(single, ",") {
				if part = strings.TrimSpace(part); part != "" {
					urls = append(urls, part)
				}
			}
		} else {
			urls = append(urls, single)
		}
	}

	return dedupe(urls)
}

func (in *Input) coordinates() (*Coordinates, []Issue) {
	var issues []Issue

	latSet, lonSet := present(in.Latitude), present(in.Longitude)
	if latSet || lonSet {
		lat, latErr := parseNumber(in.Latitude)
		lon, lonErr := parseNumber(in.Longitude)
		switch {
		case latErr != nil:
			issues = append(issues, Issue{Field: "latitude", Reason: latErr.Error()})
		case lonErr != nil:
			issues = append(issues, Issue{Field: "longitude", Reason: lonErr.Error()})
		case !geo.ValidateCoordinates(lat, lon):
			issues = append(issues, Issue{Field: "coordinates", Reason: fmt.Sprintf("out of range: %f,%f", lat, lon)})
		default:
			return &Coordinates{Lat: lat, Lon: lon}, nil
		}
	}

	if in.Location != nil {
		p := in.Location
		switch {
		case p.Type != "" && !strings.EqualFold(p.Type, "Point"):
			issues = append(issues, Issue{Field: "location", Reason: "unsupported geometry " + p.Type})
		case len(p.Coordinates) != 2:
			issues = append(issues, Issue{Field: "location", Reason: "expected [longitude, latitude]"})
		case !geo.ValidateCoordinates(p.Coordinates[1], p.Coordinates[0]):
			issues = append(issues, Issue{Field: "location", Reason: "out of range"})
		default:
			return &Coordinates{Lat: p.Coordinates[1], Lon: p.Coordinates[0]}, issues
		}
	}

	return nil, issues
}

func (in *Input) contact() Contact {
	return Contact{
		Name:  firstNonEmpty(in.OwnerName, in.ReporterName),
		Phone: firstNonEmpty(in.OwnerPhone, in.ReporterPhone),
		Email: firstNonEmpty(in.OwnerEmail, in.ReporterEmail),
	}
}

// present reports whether a raw JSON value carries something other than null or "".
func present(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	return len(v) > 0 && !bytes.Equal(v, []byte("null")) && !bytes.Equal(v, []byte(`""`))
}

// parseNumber accepts a JSON number or a numeric string.
func parseNumber(raw json.RawMessage) (float64, error) {
	if !present(raw) {
		return 0, fmt.Errorf("missing")
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("not a number: %s", string(raw))
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return f, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
