package petmatch

import (
	"time"

	"github.com/kailas-cloud/petmatch/internal/domain/match"
	"github.com/kailas-cloud/petmatch/internal/domain/report"
)

// Status is the side of a report: lost or found.
type Status string

// Status constants.
const (
	Lost  Status = "lost"
	Found Status = "found"
)

// Location is a WGS84 point.
type Location struct {
	Lat float64
	Lon float64
}

// Contact identifies the owner (lost) or reporter (found).
type Contact struct {
	Name  string
	Phone string
	Email string
}

// Report is a pet report to submit or preview.
type Report struct {
	Status      Status
	Name        string
	Color       string
	Breed       string
	Description string
	Images      []string
	Location    *Location
	Address     string
	Contact     Contact
}

// Pet is a stored report.
type Pet struct {
	ID          string
	Status      Status
	Name        string
	Color       string
	Breed       string
	Description string
	Images      []string
	Location    *Location
	Address     string
	Contact     Contact
	CreatedAt   time.Time
}

// MatchResult is one match created while processing a found report.
type MatchResult struct {
	MatchID string
	LostID  string
	Score   float64
}

// SubmitResult is returned by PetService.Submit.
// Matches is set for found reports only.
type SubmitResult struct {
	ID      string
	Status  Status
	Matches []MatchResult
}

// Match is a stored lost/found pairing.
type Match struct {
	ID        string
	LostID    string
	FoundID   string
	Score     float64
	CreatedAt time.Time
}

// Candidate is a scored report returned by a preview.
type Candidate struct {
	PetID          string
	Score          float64
	AboveThreshold bool
}

// PreviewOptions tune PetService.Preview.
type PreviewOptions struct {
	// Opposite overrides the side searched against.
	Opposite Status
	// All includes candidates below the threshold.
	All bool
}

func toInternalInput(r *Report) *report.Input {
	in := &report.Input{
		Status:      string(r.Status),
		Name:        r.Name,
		Color:       r.Color,
		Breed:       r.Breed,
		Description: r.Description,
		PhotoURLs:   append([]string(nil), r.Images...),
		Address:     r.Address,
	}
	if r.Location != nil {
		in.Location = &report.GeoPoint{
			Type:        "Point",
			Coordinates: []float64{r.Location.Lon, r.Location.Lat},
		}
	}
	if r.Status == Found {
		in.ReporterName, in.ReporterPhone, in.ReporterEmail = r.Contact.Name, r.Contact.Phone, r.Contact.Email
	} else {
		in.OwnerName, in.OwnerPhone, in.OwnerEmail = r.Contact.Name, r.Contact.Phone, r.Contact.Email
	}
	return in
}

func fromInternalReport(r *report.Report) Pet {
	p := Pet{
		ID:          r.ID(),
		Status:      Status(r.Status()),
		Name:        r.Name(),
		Color:       r.Color(),
		Breed:       r.Breed(),
		Description: r.Description(),
		Images:      r.Images(),
		Address:     r.Address(),
		Contact:     Contact(r.Contact()),
		CreatedAt:   r.CreatedAt(),
	}
	if c := r.Coordinates(); c != nil {
		p.Location = &Location{Lat: c.Lat, Lon: c.Lon}
	}
	return p
}

func fromInternalResults(results []match.Result) []MatchResult {
	out := make([]MatchResult, len(results))
	for i, m := range results {
		out[i] = MatchResult{MatchID: m.MatchID, LostID: m.LostID, Score: m.Score}
	}
	return out
}

func fromInternalRecord(r *match.Record) Match {
	return Match{
		ID:        r.ID(),
		LostID:    r.LostID(),
		FoundID:   r.FoundID(),
		Score:     r.Score(),
		CreatedAt: r.CreatedAt(),
	}
}

func fromInternalCandidates(cs []match.Candidate) []Candidate {
	out := make([]Candidate, len(cs))
	for i, c := range cs {
		out[i] = Candidate{PetID: c.ReportID, Score: c.Score, AboveThreshold: c.AboveCutoff}
	}
	return out
}
