package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/petmatch/internal/domain/report"
)

const petColumns = `id, status, name, color, breed, description, photo_urls,
	latitude, longitude, address, contact_name, contact_phone, contact_email, created_at`

// PetsRepo implements usecase/matching.PetRepository.
type PetsRepo struct {
	db    *sql.DB
	newID func() string
}

// NewPetsRepo creates a pets repository.
func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db, newID: uuid.NewString}
}

// Insert assigns a new id to r and stores it.
func (r *PetsRepo) Insert(ctx context.Context, rep *report.Report) (string, error) {
	images, err := json.Marshal(nonNil(rep.Images()))
	if err != nil {
		return "", fmt.Errorf("marshal images: %w", err)
	}

	var lat, lon sql.NullFloat64
	if c := rep.Coordinates(); c != nil {
		lat = sql.NullFloat64{Float64: c.Lat, Valid: true}
		lon = sql.NullFloat64{Float64: c.Lon, Valid: true}
	}
	contact := rep.Contact()

	id := r.newID()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		id,
		string(rep.Status()),
		rep.Name(),
		rep.Color(),
		rep.Breed(),
		rep.Description(),
		string(images),
		lat,
		lon,
		rep.Address(),
		contact.Name,
		contact.Phone,
		contact.Email,
		rep.CreatedAt(),
	)
	if err != nil {
		return "", fmt.Errorf("insert pet: %w", err)
	}

	rep.SetID(id)
	return id, nil
}

// Find returns reports matching f in creation order.
func (r *PetsRepo) Find(ctx context.Context, f report.Filter) ([]report.Report, error) {
	query := `SELECT ` + petColumns + ` FROM pets`
	var args []any
	if f.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, string(*f.Status))
	}
	query += ` ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pets: %w", err)
	}
	defer rows.Close()

	out := make([]report.Report, 0)
	for rows.Next() {
		rep, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pets: %w", err)
	}
	return out, nil
}

// Delete removes a report, reporting whether it existed.
func (r *PetsRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete pet %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete pet %s: rows affected: %w", id, err)
	}
	return n > 0, nil
}

func scanPet(rows *sql.Rows) (report.Report, error) {
	var (
		id, status, images string
		f                  report.Fields
		lat, lon           sql.NullFloat64
		createdAt          time.Time
	)
	if err := rows.Scan(
		&id,
		&status,
		&f.Name,
		&f.Color,
		&f.Breed,
		&f.Description,
		&images,
		&lat,
		&lon,
		&f.Address,
		&f.Contact.Name,
		&f.Contact.Phone,
		&f.Contact.Email,
		&createdAt,
	); err != nil {
		return report.Report{}, fmt.Errorf("scan pet: %w", err)
	}

	f.Status = report.Status(status)
	if err := json.Unmarshal([]byte(images), &f.Images); err != nil {
		return report.Report{}, fmt.Errorf("decode images of pet %s: %w", id, err)
	}
	if lat.Valid && lon.Valid {
		f.Coordinates = &report.Coordinates{Lat: lat.Float64, Lon: lon.Float64}
	}
	return report.Reconstruct(id, f, createdAt.UTC()), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
