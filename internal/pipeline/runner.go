package pipeline

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/funvibe/lattice/internal/config"
)

// RunSuite runs every case of suite through p. Cases are independent and
// run concurrently, at most jobs at a time (jobs <= 0 means no limit).
// Results are returned in case order.
func RunSuite(ctx context.Context, p *Pipeline, suite *config.Suite, path string, jobs int, logger logrus.FieldLogger) ([]*PipelineContext, error) {
	results := make([]*PipelineContext, len(suite.Cases))
	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i := range suite.Cases {
		i := i // per-iteration copy (go directive < 1.22)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			caseLogger := logger.WithField("case", suite.Cases[i].Name)
			results[i] = p.Run(NewPipelineContext(suite, path, i, caseLogger))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
