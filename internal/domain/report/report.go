// Package report holds the pet report aggregate and its boundary normalization.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/petmatch/internal/domain"
	"github.com/kailas-cloud/petmatch/internal/domain/geo"
)

// Coordinates is a validated latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Contact is who to reach about a report: the owner for lost pets, the reporter for found ones.
type Contact struct {
	Name  string
	Phone string
	Email string
}

// IsZero reports whether no contact detail is set.
func (c Contact) IsZero() bool {
	return c.Name == "" && c.Phone == "" && c.Email == ""
}

// Fields are the descriptive attributes of a report, used to build one.
type Fields struct {
	Status      Status
	Name        string
	Color       string
	Breed       string
	Description string
	Images      []string
	Coordinates *Coordinates
	Address     string
	Contact     Contact
}

// Report is the pet report aggregate. Immutable after creation except for the
// store-assigned identity.
type Report struct {
	id          string
	status      Status
	name        string
	color       string
	breed       string
	description string
	images      []string
	coords      *Coordinates
	address     string
	contact     Contact
	createdAt   time.Time
}

// New validates f and creates a Report stamped with createdAt.
// Images are de-duplicated preserving order.
func New(f Fields, createdAt time.Time) (Report, error) {
	if !f.Status.Valid() {
		return Report{}, domain.NewValidationError("status", "must be lost or found")
	}
	if f.Coordinates != nil && !geo.ValidateCoordinates(f.Coordinates.Lat, f.Coordinates.Lon) {
		return Report{}, domain.NewValidationError("coordinates",
			fmt.Sprintf("out of range: lat=%f lon=%f", f.Coordinates.Lat, f.Coordinates.Lon))
	}

	r := Reconstruct("", f, createdAt.UTC())
	r.images = dedupe(f.Images)
	return r, nil
}

// Reconstruct creates a Report without validation (storage hydration).
func Reconstruct(id string, f Fields, createdAt time.Time) Report {
	var coords *Coordinates
	if f.Coordinates != nil {
		c := *f.Coordinates
		coords = &c
	}
	return Report{
		id:          id,
		status:      f.Status,
		name:        f.Name,
		color:       f.Color,
		breed:       f.Breed,
		description: f.Description,
		images:      append([]string(nil), f.Images...),
		coords:      coords,
		address:     f.Address,
		contact:     f.Contact,
		createdAt:   createdAt,
	}
}

// ID returns the store-assigned identifier (empty before insert).
func (r *Report) ID() string { return r.id }

// SetID assigns the identity handed out by the store.
func (r *Report) SetID(id string) { r.id = id }

// Status returns lost or found.
func (r *Report) Status() Status { return r.status }

// Name returns the pet name, if any.
func (r *Report) Name() string { return r.name }

// Color returns the coat color.
func (r *Report) Color() string { return r.color }

// Breed returns the breed as reported. Compared case-sensitively by the scoring engine.
func (r *Report) Breed() string { return r.breed }

// Description returns the free-text notes.
func (r *Report) Description() string { return r.description }

// Images returns a copy of the ordered image references.
func (r *Report) Images() []string { return append([]string(nil), r.images...) }

// PrimaryImage returns the first image reference, or "" if there is none.
func (r *Report) PrimaryImage() string {
	if len(r.images) == 0 {
		return ""
	}
	return r.images[0]
}

// Coordinates returns the location, or nil when unknown.
func (r *Report) Coordinates() *Coordinates {
	if r.coords == nil {
		return nil
	}
	c := *r.coords
	return &c
}

// Address returns the free-form address.
func (r *Report) Address() string { return r.address }

// Contact returns the owner or reporter contact.
func (r *Report) Contact() Contact { return r.contact }

// CreatedAt returns the creation timestamp (UTC).
func (r *Report) CreatedAt() time.Time { return r.createdAt }

// Fields returns the descriptive attributes (copy).
func (r *Report) Fields() Fields {
	return Fields{
		Status:      r.status,
		Name:        r.name,
		Color:       r.color,
		Breed:       r.breed,
		Description: r.description,
		Images:      r.Images(),
		Coordinates: r.Coordinates(),
		Address:     r.address,
		Contact:     r.contact,
	}
}

// DescribeText joins the non-empty descriptive parts: name, color, breed, description.
func (r *Report) DescribeText() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{r.name, r.color, r.breed, r.description} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func dedupe(refs []string) []string {
	if len(refs) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(refs))
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}
	return out
}
