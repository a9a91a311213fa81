package service

import (
	"context"

	"github.com/vbonduro/salonbook/internal/store"
)

const (
	RootMessage = "Lady Salon Brașov API is running"

	maxDiagnosticLen = 80
)

// Diagnostics is the body of the /test endpoint. Values are display strings
// and never include secrets.
type Diagnostics struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      *string  `json:"database_url"`
	DatabaseName     *string  `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// statusReporter is the subset of store.DocumentStore that DiagnosticsService requires.
type statusReporter interface {
	Status(ctx context.Context) store.Status
}

type DiagnosticsService struct {
	store           statusReporter
	databaseURLSet  bool
	databaseNameSet bool
}

func NewDiagnosticsService(st statusReporter, databaseURLSet, databaseNameSet bool) *DiagnosticsService {
	return &DiagnosticsService{store: st, databaseURLSet: databaseURLSet, databaseNameSet: databaseNameSet}
}

// Report describes backend and store health. It never fails.
func (s *DiagnosticsService) Report(ctx context.Context) Diagnostics {
	d := Diagnostics{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}

	st := s.store.Status(ctx)
	if !st.Enabled {
		d.Database = "⚠️ Available but not initialized"
		return d
	}

	d.Database = "✅ Available"
	d.DatabaseURL = presence(s.databaseURLSet)
	d.DatabaseName = presence(s.databaseNameSet)

	if st.Err != nil {
		d.Database = "⚠️ Connected but Error: " + Truncate(st.Err.Error(), maxDiagnosticLen)
		return d
	}

	if st.Collections != nil {
		d.Collections = st.Collections
	}
	d.Database = "✅ Connected & Working"
	d.ConnectionStatus = "Connected"
	return d
}

func presence(set bool) *string {
	v := "❌ Not Set"
	if set {
		v = "✅ Set"
	}
	return &v
}

// Truncate shortens s to at most n characters.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// SEOKeywords are the search phrases the frontend uses for pre-render hints.
func SEOKeywords() []string {
	return []string{
		"salon înfrumusețare Brașov",
		"coafor Brașov",
		"manichiură Brașov",
		"tratamente faciale Brașov",
		"masaj Brașov",
		"laminare sprâncene Brașov",
	}
}
