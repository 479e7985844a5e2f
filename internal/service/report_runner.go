package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	appErrors "github.com/noah-isme/campusiq-api/pkg/errors"
)

// step is one data store query of a report.
type step struct {
	label string
	run   func(ctx context.Context) error
}

// fetch adapts a repository call into a step that stores its result in dst.
func fetch[T any](label string, dst *T, query func(ctx context.Context) (T, error)) step {
	return step{label: label, run: func(ctx context.Context) error {
		value, err := query(ctx)
		if err != nil {
			return err
		}
		*dst = value
		return nil
	}}
}

// reportRunner executes the independent queries of a report concurrently.
// The first failure cancels the remaining queries and fails the whole report.
type reportRunner struct {
	metrics *MetricsService
	logger  *zap.Logger
	limit   int
}

func newReportRunner(metrics *MetricsService, logger *zap.Logger, limit int) reportRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limit <= 0 {
		limit = 1
	}
	return reportRunner{metrics: metrics, logger: logger, limit: limit}
}

func (r reportRunner) run(ctx context.Context, report string, steps ...step) error {
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)
	for _, st := range steps {
		st := st
		g.Go(func() error {
			began := time.Now()
			err := st.run(gctx)
			r.metrics.ObserveDBQuery(st.label, time.Since(began))
			if err != nil {
				r.logger.Warn("analytics query failed", zap.String("report", report), zap.String("query", st.label), zap.Error(err))
				return appErrors.DataStore(err, fmt.Sprintf("failed to load %s", report))
			}
			return nil
		})
	}
	err := g.Wait()
	r.metrics.ObserveReport(report, err, time.Since(start))
	return err
}
