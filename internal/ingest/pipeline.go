package ingest

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/czaloom/mental-health-iot-example/internal/metrics"
	"github.com/czaloom/mental-health-iot-example/internal/scoring"
	"github.com/czaloom/mental-health-iot-example/pkg/types"
)

// Source yields raw observations one at a time. Next returns io.EOF at end
// of input and a *types.RowError for a malformed row; the pipeline keeps
// reading after row errors. csvsource.Reader implements Source.
type Source interface {
	Next() (types.Observation, error)
	Source() string
}

// Inserter is the slice of the record store the pipeline needs.
type Inserter interface {
	Insert(ctx context.Context, rec *types.StressRecord) (string, error)
}

// Summary aggregates the outcome of one ingestion run.
type Summary struct {
	// TotalSeen counts every row read from the source, malformed ones included.
	TotalSeen int `json:"scanned"`

	// HighStressStored counts rows persisted as high-stress records.
	HighStressStored int `json:"high_stress"`

	// ParseFailures counts malformed rows that were skipped.
	ParseFailures int `json:"parse_failures"`
}

// Pipeline scores a stream of observations and persists the high-stress ones.
type Pipeline struct {
	store     Inserter
	threshold int
	now       func() time.Time // injectable for deterministic tests

	// Notify, when set, is called with each record after its insert commits.
	// The alert server hooks the rule engine in here.
	Notify func(*types.StressRecord)
}

// New creates a Pipeline. A threshold <= 0 falls back to the scoring default.
func New(store Inserter, threshold int) *Pipeline {
	if threshold <= 0 {
		threshold = scoring.DefaultThreshold
	}
	return &Pipeline{store: store, threshold: threshold, now: time.Now}
}

// Run streams src to completion. It returns the summary of everything
// processed so far even when it fails partway: malformed rows are counted
// and skipped, scoring validation failures are treated the same way, and a
// store failure aborts the run with a StorageError.
func (p *Pipeline) Run(ctx context.Context, src Source) (Summary, error) {
	var sum Summary
	start := p.now()
	slog.Info("ingest: starting run", "source", src.Source(), "threshold", p.threshold)

	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		obs, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if types.IsRowError(err) {
				sum.TotalSeen++
				sum.ParseFailures++
				metrics.RowsScanned.Inc()
				metrics.ParseFailures.Inc()
				slog.Debug("ingest: skipping malformed row", "source", src.Source(), "err", err)
				continue
			}
			return sum, err
		}
		sum.TotalSeen++
		metrics.RowsScanned.Inc()

		out, err := scoring.Score(obs, p.threshold)
		if err != nil {
			// Non-finite values that survived parsing are a per-row problem,
			// not a reason to abort the run.
			sum.ParseFailures++
			metrics.ParseFailures.Inc()
			slog.Debug("ingest: skipping unscorable row", "source", src.Source(), "err", err)
			continue
		}
		metrics.ScoreDistribution.Observe(float64(out.Score))

		if !out.HighStress {
			continue
		}

		rec := types.NewRecord(obs, out.Score)
		id, err := p.store.Insert(ctx, rec)
		if err != nil {
			// The store is authoritative about what it keeps. A record it
			// refuses (run threshold below the store's own) is skipped, not
			// a reason to abort.
			if types.IsValidation(err) {
				slog.Warn("ingest: store refused record", "source", src.Source(), "err", err)
				continue
			}
			metrics.InsertErrors.Inc()
			if types.IsStorage(err) {
				return sum, err
			}
			return sum, types.Storagef("insert", err)
		}
		sum.HighStressStored++
		metrics.HighStressStored.Inc()
		if p.Notify != nil {
			p.Notify(rec)
		}
		slog.Info("ingest: stored high stress record",
			"record_id", id,
			"location_id", obs.LocationID,
			"score", out.Score,
		)
	}

	slog.Info("ingest: run complete",
		"source", src.Source(),
		"scanned", sum.TotalSeen,
		"high_stress", sum.HighStressStored,
		"parse_failures", sum.ParseFailures,
		"elapsed", p.now().Sub(start),
	)
	return sum, nil
}
