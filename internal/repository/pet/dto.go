package pet

import (
	"time"

	"github.com/kailas-cloud/petmatch/internal/domain/report"
)

// petDoc is the stored JSON shape. Both image fields are written so that
// readers using either the list or the single reference see the same data.
type petDoc struct {
	Status      string      `json:"status"`
	Name        string      `json:"name,omitempty"`
	Color       string      `json:"color,omitempty"`
	Breed       string      `json:"breed,omitempty"`
	Description string      `json:"description,omitempty"`
	PhotoURLs   []string    `json:"photoUrls"`
	ImageURL    string      `json:"image_url,omitempty"`
	Latitude    *float64    `json:"latitude,omitempty"`
	Longitude   *float64    `json:"longitude,omitempty"`
	Address     string      `json:"address,omitempty"`
	Contact     *contactDoc `json:"contact,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type contactDoc struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

func toDoc(r *report.Report) petDoc {
	d := petDoc{
		Status:      string(r.Status()),
		Name:        r.Name(),
		Color:       r.Color(),
		Breed:       r.Breed(),
		Description: r.Description(),
		PhotoURLs:   r.Images(),
		ImageURL:    r.PrimaryImage(),
		Address:     r.Address(),
		CreatedAt:   r.CreatedAt(),
	}
	if d.PhotoURLs == nil {
		d.PhotoURLs = []string{}
	}
	if c := r.Coordinates(); c != nil {
		d.Latitude, d.Longitude = &c.Lat, &c.Lon
	}
	if c := r.Contact(); !c.IsZero() {
		d.Contact = &contactDoc{Name: c.Name, Phone: c.Phone, Email: c.Email}
	}
	return d
}

func fromDoc(id string, d *petDoc) report.Report {
	f := report.Fields{
		Status:      report.Status(d.Status),
		Name:        d.Name,
		Color:       d.Color,
		Breed:       d.Breed,
		Description: d.Description,
		Images:      report.ResolveImages(d.PhotoURLs, d.ImageURL),
		Address:     d.Address,
	}
	if d.Latitude != nil && d.Longitude != nil {
		f.Coordinates = &report.Coordinates{Lat: *d.Latitude, Lon: *d.Longitude}
	}
	if d.Contact != nil {
		f.Contact = report.Contact{Name: d.Contact.Name, Phone: d.Contact.Phone, Email: d.Contact.Email}
	}
	return report.Reconstruct(id, f, d.CreatedAt)
}
