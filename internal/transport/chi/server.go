// Package chi is the HTTP transport: JSON handlers for the pet matching workflow on a chi router.
package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kailas-cloud/petmatch/internal/domain"
	"github.com/kailas-cloud/petmatch/internal/domain/match"
	"github.com/kailas-cloud/petmatch/internal/domain/report"
	healthuc "github.com/kailas-cloud/petmatch/internal/usecase/health"
	"github.com/kailas-cloud/petmatch/internal/usecase/matching"
)

// maxBodyBytes bounds a report body. Images are references, never inline bytes.
const maxBodyBytes = 1 << 20

// petService is the consumer interface for the matching workflow (ISP).
type petService interface {
	Submit(ctx context.Context, in *report.Input) (matching.SubmitResult, error)
	Preview(ctx context.Context, in *report.Input, opts matching.PreviewOptions) ([]match.Candidate, error)
	ListReports(ctx context.Context, status *report.Status) ([]report.Report, error)
	ListMatches(ctx context.Context) ([]match.Record, error)
}

// healthService is the consumer interface for health checks (ISP).
type healthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server holds the HTTP handlers.
type Server struct {
	pets          petService
	health        healthService
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(pets petService, health healthService) *Server {
	return &Server{
		pets:          pets,
		health:        health,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/pets", s.SubmitPet)
	r.Get("/pets", s.ListPets)
	r.Post("/pets/lost", s.submitAs(report.StatusLost))
	r.Post("/pets/found", s.submitAs(report.StatusFound))
	r.Post("/pets/preview", s.PreviewPet)
	r.Get("/pets/matches", s.ListMatches)
	r.Get("/matches", s.ListMatches)
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// SubmitPet handles POST /pets. Found reports are matched before the response.
func (s *Server) SubmitPet(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	s.submit(w, r, in)
}

// submitAs forces the status, ignoring status and type in the body.
func (s *Server) submitAs(status report.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := s.decodeInput(w, r)
		if !ok {
			return
		}
		in.Status, in.Type = string(status), ""
		s.submit(w, r, in)
	}
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, in *report.Input) {
	res, err := s.pets.Submit(r.Context(), in)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := submitResponse{
		Message: "Pet added",
		PetID:   res.ID,
		Status:  string(res.Status),
	}
	if res.Status == report.StatusFound {
		resp.Message = "Found pet added"
		resp.Matches = matchResultsToDTO(res.ID, res.Matches)
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ListPets handles GET /pets?status=lost|found. The legacy type parameter is an alias.
// Unknown values list every report.
func (s *Server) ListPets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw := q.Get("status")
	if raw == "" {
		raw = q.Get("type")
	}

	var status *report.Status
	if st, err := report.ParseStatus(raw); err == nil {
		status = &st
	}

	reports, err := s.pets.ListReports(r.Context(), status)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]petResponse, len(reports))
	for i := range reports {
		items[i] = petToDTO(&reports[i])
	}
	writeJSON(w, http.StatusOK, items)
}

// PreviewPet handles POST /pets/preview?opposite=lost|found&all=true.
// Nothing is stored or deleted.
func (s *Server) PreviewPet(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInput(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	opposite := strings.ToLower(strings.TrimSpace(q.Get("opposite")))
	if err := validateStatusParam("opposite", opposite); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	var opts matching.PreviewOptions
	if opposite != "" {
		st := report.Status(opposite)
		opts.Opposite = &st
	}
	opts.IncludeBelowThreshold = q.Get("all") == "true"

	candidates, err := s.pets.Preview(r.Context(), in, opts)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	target := ""
	if opts.Opposite != nil {
		target = string(*opts.Opposite)
	} else if st, err := report.ParseStatus(in.RawStatus()); err == nil {
		target = string(st.Opposite())
	}

	items := make([]candidateResponse, len(candidates))
	for i, c := range candidates {
		items[i] = candidateResponse{PetID: c.ReportID, Score: c.Score, AboveThreshold: c.AboveCutoff}
	}
	writeJSON(w, http.StatusOK, previewResponse{Target: target, Candidates: items})
}

// ListMatches handles GET /pets/matches and GET /matches, highest score first.
func (s *Server) ListMatches(w http.ResponseWriter, r *http.Request) {
	records, err := s.pets.ListMatches(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]matchResponse, len(records))
	for i := range records {
		items[i] = matchRecordToDTO(&records[i])
	}
	writeJSON(w, http.StatusOK, matchListResponse{Matches: items})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	rep := s.health.Check(r.Context())

	checks := make(map[string]string, len(rep.Checks))
	for k, v := range rep.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if rep.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(rep.Status),
		Checks: checks,
	})
}

func (s *Server) decodeInput(w http.ResponseWriter, r *http.Request) (*report.Input, bool) {
	var in report.Input
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}
	if err := validateInput(&in); err != nil {
		s.handleDomainError(w, r, err)
		return nil, false
	}
	return &in, true
}

// NotFound writes a JSON 404 for unknown routes.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, codeNotFound, domain.ErrNotFound.Error())
}

// MethodNotAllowed writes a JSON 405.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
