// Package runner drives the scan over the discovered file set. Files are
// independent — each gets its own ScanState — so they fan out over a
// bounded worker pool; the report aggregator restores presentation order.
package runner

import (
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/user/hanscan/pkg/config"
	"github.com/user/hanscan/pkg/engine"
	"github.com/user/hanscan/pkg/logging"
	"github.com/user/hanscan/pkg/walker"
)

// Runner owns the engine pieces for one scan run.
type Runner struct {
	scanner *engine.FileScanner
	jobs    int
}

// New builds the matcher, classifier, and file scanner from the rule set.
// A bad exclusion pattern surfaces here and is fatal to the run.
func New(cfg *config.Config) (*Runner, error) {
	matcher, err := engine.NewMatcher(cfg.Rules)
	if err != nil {
		return nil, fmt.Errorf("build matcher: %w", err)
	}
	classifier := engine.NewClassifier(matcher, cfg.Rules)
	return &Runner{
		scanner: engine.NewFileScanner(matcher, classifier),
		jobs:    cfg.Scan.Jobs,
	}, nil
}

// Run scans every target on a worker pool and returns the filled report.
// Within a file, lines stay strictly sequential; only files run in
// parallel, each with its own state.
func (r *Runner) Run(targets []walker.Target) (*engine.Report, error) {
	report := engine.NewReport()

	pool, err := ants.NewPool(r.jobs, ants.WithPanicHandler(func(p interface{}) {
		logging.Error("scan worker panic", zap.Any("panic", p))
	}))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, t := range targets {
		t := t
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if findings := r.scanner.ScanFile(t.Path, t.Kind); len(findings) > 0 {
				report.AddFindings(findings)
			}
		}); err != nil {
			wg.Done()
			logging.Warn("submit failed, scanning inline", zap.String("file", t.Path), zap.Error(err))
			if findings := r.scanner.ScanFile(t.Path, t.Kind); len(findings) > 0 {
				report.AddFindings(findings)
			}
		}
	}
	wg.Wait()

	logging.Info("scan complete",
		zap.Int("files", len(targets)),
		zap.Int("findings", report.Len()),
	)
	return report, nil
}
