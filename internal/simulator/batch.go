package simulator

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/solarsim/pkg/models"
)

// BatchItem is the outcome of one request in a batch. Exactly one of
// Result and Error is set.
type BatchItem struct {
	Index  int                        `json:"index"`
	Result *models.SimulationResponse `json:"result,omitempty"`
	Error  string                     `json:"error,omitempty"`
	Kind   ErrorKind                  `json:"kind,omitempty"`
}

// EstimateBatch runs Estimate over reqs with at most limit in flight.
// Items are returned in input order. A rejected request only fails its own
// item; once ctx is done the remaining items report the context error.
func EstimateBatch(ctx context.Context, reqs []models.SimulationRequest, limit int) []BatchItem {
	items := make([]BatchItem, len(reqs))
	if limit <= 0 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i := range reqs {
		g.Go(func() error {
			items[i].Index = i
			if err := ctx.Err(); err != nil {
				items[i].Error = err.Error()
				return nil
			}
			res, err := Estimate(reqs[i])
			if err != nil {
				items[i].Error = err.Error()
				var ve *ValidationError
				if errors.As(err, &ve) {
					items[i].Kind = ve.Kind
				}
				return nil
			}
			items[i].Result = res
			return nil
		})
	}
	_ = g.Wait()

	return items
}
