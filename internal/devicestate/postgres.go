package devicestate

import (
	"context"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/intelcon-group/gt06-gateway/internal/logging"
)

// deviceStateField is a single hash field: one row per (key, field)
// pair, mirroring the Redis backend's hash semantics on top of a
// relational table. This lets an operator who already runs Postgres
// for fleet data point the device-state store at that same database
// instead of standing up Redis.
type deviceStateField struct {
	Key   string `gorm:"column:key;primaryKey"`
	Field string `gorm:"column:field;primaryKey"`
	Value string `gorm:"column:value"`
}

func (deviceStateField) TableName() string { return "device_state_fields" }

// PostgresStore is a gorm-backed Store implementation.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore opens dsn and migrates the device_state_fields
// table. A connection failure is fatal, matching the Redis backend's
// startup policy: the store is load-bearing.
func NewPostgresStore(dsn string) *PostgresStore {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("device state store (postgres) unreachable: %v", err)
	}

	if err := db.AutoMigrate(&deviceStateField{}); err != nil {
		logging.Fatal("device state store (postgres) migration failed: %v", err)
	}

	return &PostgresStore{db: db}
}

func (s *PostgresStore) HGet(ctx context.Context, key, field string) (string, bool, error) {
	var row deviceStateField
	err := s.db.WithContext(ctx).
		Where("key = ? AND field = ?", key, field).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

func (s *PostgresStore) HMGet(ctx context.Context, key string, fields ...string) ([]string, []bool, error) {
	var rows []deviceStateField
	if err := s.db.WithContext(ctx).
		Where("key = ? AND field IN ?", key, fields).
		Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	byField := make(map[string]string, len(rows))
	for _, r := range rows {
		byField[r.Field] = r.Value
	}

	values := make([]string, len(fields))
	oks := make([]bool, len(fields))
	for i, f := range fields {
		if v, ok := byField[f]; ok {
			values[i] = v
			oks[i] = true
		}
	}
	return values, oks, nil
}

func (s *PostgresStore) HSet(ctx context.Context, key, field, value string) error {
	row := deviceStateField{Key: key, Field: field, Value: value}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}, {Name: "field"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&row).Error
}
