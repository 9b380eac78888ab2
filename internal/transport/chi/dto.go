package chi

import (
	"time"

	"github.com/kailas-cloud/petmatch/internal/domain/match"
	"github.com/kailas-cloud/petmatch/internal/domain/report"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type partialErrorResponse struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	PetID   string          `json:"pet_id"`
	Matches []matchResponse `json:"matches"`
}

type submitResponse struct {
	Message string          `json:"message"`
	PetID   string          `json:"pet_id"`
	Status  string          `json:"status"`
	Matches []matchResponse `json:"matches,omitempty"`
}

type matchResponse struct {
	ID         string     `json:"id"`
	LostPetID  string     `json:"lost_pet_id"`
	FoundPetID string     `json:"found_pet_id"`
	MatchScore float64    `json:"match_score"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

type matchListResponse struct {
	Matches []matchResponse `json:"matches"`
}

type candidateResponse struct {
	PetID          string  `json:"pet_id"`
	Score          float64 `json:"score"`
	AboveThreshold bool    `json:"above_threshold"`
}

type previewResponse struct {
	Target     string              `json:"target"`
	Candidates []candidateResponse `json:"candidates"`
}

type locationResponse struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type contactResponse struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// petResponse carries both the image list and the single primary reference.
type petResponse struct {
	ID          string            `json:"id"`
	Status      string            `json:"status"`
	Name        string            `json:"name,omitempty"`
	Color       string            `json:"color,omitempty"`
	Breed       string            `json:"breed,omitempty"`
	Description string            `json:"description,omitempty"`
	PhotoURLs   []string          `json:"photoUrls"`
	ImageURL    string            `json:"image_url,omitempty"`
	Latitude    *float64          `json:"latitude,omitempty"`
	Longitude   *float64          `json:"longitude,omitempty"`
	Location    *locationResponse `json:"location,omitempty"`
	Address     string            `json:"address,omitempty"`
	Contact     *contactResponse  `json:"contact,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func petToDTO(r *report.Report) petResponse {
	p := petResponse{
		ID:          r.ID(),
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
	if p.PhotoURLs == nil {
		p.PhotoURLs = []string{}
	}
	if c := r.Coordinates(); c != nil {
		lat, lon := c.Lat, c.Lon
		p.Latitude, p.Longitude = &lat, &lon
		p.Location = &locationResponse{Type: "Point", Coordinates: [2]float64{lon, lat}}
	}
	if c := r.Contact(); !c.IsZero() {
		p.Contact = &contactResponse{Name: c.Name, Phone: c.Phone, Email: c.Email}
	}
	return p
}

func matchResultsToDTO(foundID string, results []match.Result) []matchResponse {
	out := make([]matchResponse, len(results))
	for i, m := range results {
		out[i] = matchResponse{
			ID:         m.MatchID,
			LostPetID:  m.LostID,
			FoundPetID: foundID,
			MatchScore: m.Score,
		}
	}
	return out
}

func matchRecordToDTO(m *match.Record) matchResponse {
	created := m.CreatedAt()
	return matchResponse{
		ID:         m.ID(),
		LostPetID:  m.LostID(),
		FoundPetID: m.FoundID(),
		MatchScore: m.Score(),
		CreatedAt:  &created,
	}
}
