package alerts

import (
	"context"

	"github.com/czaloom/mental-health-iot-example/internal/config"
	"github.com/czaloom/mental-health-iot-example/internal/metrics"
	"github.com/czaloom/mental-health-iot-example/internal/store"
	"github.com/czaloom/mental-health-iot-example/pkg/types"
)

// Service retrieves the most recent high-stress records for callers.
type Service struct {
	store        store.Interface
	defaultLimit int
}

// NewService wires a Service to the record store. A defaultLimit <= 0 falls
// back to the configured default.
func NewService(st store.Interface, defaultLimit int) *Service {
	if defaultLimit <= 0 {
		defaultLimit = config.DefaultAlertLimit
	}
	return &Service{store: st, defaultLimit: defaultLimit}
}

// Alerts returns the stored high-stress records matching q. An omitted limit
// (zero) takes the service default; an explicitly non-positive limit is a
// ValidationError. Ordering defaults to most-recent-first with a score
// tie-break. An empty store yields an empty slice.
func (s *Service) Alerts(ctx context.Context, q types.AlertQuery) ([]types.StressRecord, error) {
	if q.Limit == 0 {
		q.Limit = s.defaultLimit
	}
	metrics.AlertQueries.Inc()
	return s.store.RecentHighStress(ctx, q)
}
