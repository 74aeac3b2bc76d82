// Package session owns the per-session analysis state. A session is created
// on upload, replaced wholesale on a new upload, and never shared between
// users; every downstream artifact is derivable from its Dataset.
package session

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/datateller/datateller/internal/config"
	"github.com/datateller/datateller/internal/dataset"
	"github.com/datateller/datateller/internal/insight"
	"github.com/datateller/datateller/internal/profile"
	"github.com/datateller/datateller/internal/report"
	"github.com/datateller/datateller/internal/viz"
)

// Session holds the current dataset and everything computed from it.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Name      string

	Dataset  *dataset.Dataset
	Profile  *profile.Result
	Insights []insight.Insight
	Charts   []viz.Chart
}

// New runs the full analysis pipeline over a freshly loaded dataset.
// Chart failures are logged and skipped; profiling failures abort.
func New(name string, ds *dataset.Dataset, cfg *config.Global) (*Session, error) {
	res, err := profile.Profile(ds, profile.Options{TopK: cfg.TopK})
	if err != nil {
		return nil, err
	}
	insights := insight.Generate(res, cfg.Thresholds())

	vopt := viz.Options{MaxBoxCategories: cfg.MaxBoxCategories}
	specs := viz.BuildCatalog(ds, res, vopt)
	charts := viz.RenderCatalog(ds, res, specs, vopt, func(err error) {
		log.Printf("chart skipped: %v", err)
	})

	return &Session{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Name:      name,
		Dataset:   ds,
		Profile:   res,
		Insights:  insights,
		Charts:    charts,
	}, nil
}

// BuildReport assembles a fresh report from the session state. Reports are
// rebuilt on every generate action rather than cached.
func (s *Session) BuildReport(cfg *config.Global) *report.Report {
	return report.Assemble(s.Profile, s.Insights, s.Charts, report.Options{TopInsights: cfg.TopInsights})
}
