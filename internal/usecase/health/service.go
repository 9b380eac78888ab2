// Package health aggregates store and embedding provider availability.
package health

import (
	"context"
	"sort"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the record store is unreachable. Nothing can be matched.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

const storeCheck = "store"

// defaultCheckTimeout bounds each component probe.
const defaultCheckTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Components returns check names in stable order.
func (r Report) Components() []string {
	names := make([]string, 0, len(r.Checks))
	for name := range r.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Service coordinates health checks.
type Service struct {
	store     StorePinger
	providers map[string]EmbeddingChecker
	timeout   time.Duration
}

// New creates a Service for the record store.
func New(store StorePinger) *Service {
	return &Service{
		store:     store,
		providers: make(map[string]EmbeddingChecker),
		timeout:   defaultCheckTimeout,
	}
}

// WithProvider adds a named embedding provider check. nil checkers are ignored.
func (s *Service) WithProvider(name string, c EmbeddingChecker) *Service {
	if c != nil {
		s.providers[name] = c
	}
	return s
}

// WithTimeout overrides the per-component probe timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.providers)+1)

	checks[storeCheck] = s.probe(ctx, s.store.Ping)
	for name, p := range s.providers {
		checks["embedding_"+name] = s.probe(ctx, p.HealthCheck)
	}

	status := Healthy
	switch {
	case checks[storeCheck] == CheckError:
		status = Unhealthy
	default:
		for _, v := range checks {
			if v == CheckError {
				status = Degraded
				break
			}
		}
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) probe(ctx context.Context, fn func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
