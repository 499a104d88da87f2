package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/czaloom/mental-health-iot-example/internal/config"
	"github.com/czaloom/mental-health-iot-example/pkg/types"
)

// Interface abstracts the underlying database implementation.
type Interface interface {
	Open() error
	Close() error

	// Insert persists one high-stress record as a single atomic row commit,
	// assigns its RecordID, and returns the id. Records with a score below
	// the configured threshold are rejected with a ValidationError.
	Insert(ctx context.Context, rec *types.StressRecord) (string, error)

	// RecentHighStress returns at most q.Limit stored records. The default
	// ordering is descending timestamp with a descending score tie-break.
	// An empty table yields an empty slice, never an error.
	RecentHighStress(ctx context.Context, q types.AlertQuery) ([]types.StressRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)
}

// DataStore implements the shared query logic on a GORM handle. The
// per-backend types embed it and provide Open.
type DataStore struct {
	DB        *gorm.DB
	Threshold int
}

// New selects a backend from the database configuration. threshold is the
// score invariant every inserted record must satisfy.
func New(cfg config.DatabaseConfig, threshold int) (Interface, error) {
	switch cfg.Driver {
	case "sqlite":
		return &SQLiteStore{DataStore: DataStore{Threshold: threshold}, Config: cfg.SQLite}, nil
	case "mysql":
		return &MySQLStore{DataStore: DataStore{Threshold: threshold}, Config: cfg.MySQL}, nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}
}

// Insert implements Interface.
func (ds *DataStore) Insert(ctx context.Context, rec *types.StressRecord) (string, error) {
	if ds.DB == nil {
		return "", types.Storagef("insert", fmt.Errorf("store is not open"))
	}
	if rec.Score < ds.Threshold {
		return "", types.Validationf("score",
			"record score %d is below the high-stress threshold %d", rec.Score, ds.Threshold)
	}
	if rec.RecordID == "" {
		rec.RecordID = uuid.NewString()
	}

	if err := ds.DB.WithContext(ctx).Create(rec).Error; err != nil {
		return "", types.Storagef("insert", err)
	}
	return rec.RecordID, nil
}

// RecentHighStress implements Interface.
func (ds *DataStore) RecentHighStress(ctx context.Context, q types.AlertQuery) ([]types.StressRecord, error) {
	if ds.DB == nil {
		return nil, types.Storagef("query", fmt.Errorf("store is not open"))
	}
	order, err := orderClause(q)
	if err != nil {
		return nil, err
	}

	records := make([]types.StressRecord, 0, q.Limit)
	tx := ds.DB.WithContext(ctx).Order(order).Limit(q.Limit).Offset(q.Offset)
	if err := tx.Find(&records).Error; err != nil {
		return nil, types.Storagef("query", err)
	}
	return records, nil
}

// Count implements Interface.
func (ds *DataStore) Count(ctx context.Context) (int64, error) {
	if ds.DB == nil {
		return 0, types.Storagef("count", fmt.Errorf("store is not open"))
	}
	var n int64
	if err := ds.DB.WithContext(ctx).Model(&types.StressRecord{}).Count(&n).Error; err != nil {
		return 0, types.Storagef("count", err)
	}
	return n, nil
}

// Close releases the underlying connection pool.
func (ds *DataStore) Close() error {
	if ds.DB == nil {
		return nil
	}
	sqlDB, err := ds.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// orderClause validates the query shape and builds the ORDER BY expression.
// The sort column and direction are matched against fixed sets — never
// interpolated from raw request input.
func orderClause(q types.AlertQuery) (string, error) {
	if q.Limit <= 0 {
		return "", types.Validationf("limit", "must be a positive integer, got %d", q.Limit)
	}
	if q.Offset < 0 {
		return "", types.Validationf("offset", "must not be negative, got %d", q.Offset)
	}

	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = types.OrderByTimestamp
	}
	direction := q.Direction
	if direction == "" {
		direction = types.DirectionDesc
	}

	switch orderBy {
	case types.OrderByTimestamp, types.OrderByScore:
	default:
		return "", types.Validationf("order_by", "must be %q or %q, got %q",
			types.OrderByTimestamp, types.OrderByScore, orderBy)
	}
	switch direction {
	case types.DirectionAsc, types.DirectionDesc:
	default:
		return "", types.Validationf("direction", "must be %q or %q, got %q",
			types.DirectionAsc, types.DirectionDesc, direction)
	}

	// Tie-break recency ordering by score so equal timestamps rank the more
	// stressed record first.
	if orderBy == types.OrderByTimestamp {
		return fmt.Sprintf("timestamp %s, score %s", direction, direction), nil
	}
	return fmt.Sprintf("score %s, timestamp %s", direction, direction), nil
}

// migrate creates or updates the high_stress_alerts table and its indexes.
func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&types.StressRecord{}); err != nil {
		return fmt.Errorf("store: auto-migration: %w", err)
	}
	return nil
}
