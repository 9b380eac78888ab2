package report

// Filter selects reports in a store scan. A nil Status matches every report.
type Filter struct {
	Status *Status
}

// ByStatus returns a filter that matches a single status.
func ByStatus(s Status) Filter {
	return Filter{Status: &s}
}

// Matches reports whether r passes the filter.
func (f Filter) Matches(r *Report) bool {
	return f.Status == nil || r.Status() == *f.Status
}
