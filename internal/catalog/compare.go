package catalog

import (
	"context"
	"sort"

	"github.com/seenimoa/solarsim/internal/simulator"
	"github.com/seenimoa/solarsim/pkg/models"
)

// Comparison is the estimate for one panel type at a fixed site.
type Comparison struct {
	Panel  models.PanelType           `json:"panel"`
	Result *models.SimulationResponse `json:"result,omitempty"`
	Error  string                     `json:"error,omitempty"`
	Kind   simulator.ErrorKind        `json:"kind,omitempty"`
}

// Compare estimates every catalog panel at locationID over roofSizeM2 and
// orders the results by payback period, fastest first. Rejected estimates
// sort last in catalog order. A roof that fits no panel is rejected up front
// with the simulator's *ValidationError.
func (s *Store) Compare(ctx context.Context, locationID int64, roofSizeM2 float64, concurrency int) ([]Comparison, error) {
	if err := simulator.ValidateRoof(roofSizeM2); err != nil {
		return nil, err
	}
	loc, err := s.Location(ctx, locationID)
	if err != nil {
		return nil, err
	}
	panels, err := s.Panels(ctx)
	if err != nil {
		return nil, err
	}

	reqs := make([]models.SimulationRequest, len(panels))
	for i, p := range panels {
		reqs[i] = loc.Request(p, roofSizeM2)
	}
	items := simulator.EstimateBatch(ctx, reqs, concurrency)

	out := make([]Comparison, len(panels))
	for i, it := range items {
		out[i] = Comparison{Panel: panels[i], Result: it.Result, Error: it.Error, Kind: it.Kind}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Result, out[j].Result
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.EstimatedROIYears < b.EstimatedROIYears
		}
	})
	return out, nil
}
