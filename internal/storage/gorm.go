package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// KVEntry est la ligne SQLite qui porte un slot clé/valeur.
type KVEntry struct {
	Key       string `gorm:"column:slot_key;primaryKey;size:255"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName pins the table name used by migrations.
func (KVEntry) TableName() string {
	return "kv_entries"
}

// GormBackend stores slots in a SQL table through GORM.
type GormBackend struct {
	db *gorm.DB
}

// OpenGormBackend opens the SQLite database at path and migrates the slot table.
func OpenGormBackend(path string) (*GormBackend, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	b := NewGormBackend(db)
	if err := b.Migrate(); err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}

// NewGormBackend wraps an existing GORM handle. The caller is responsible for migration.
func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

// Migrate creates or updates the kv_entries table.
func (b *GormBackend) Migrate() error {
	if err := b.db.AutoMigrate(&KVEntry{}); err != nil {
		return fmt.Errorf("failed to migrate kv_entries: %w", err)
	}
	return nil
}

func (b *GormBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var entry KVEntry
	if err := b.db.WithContext(ctx).Where("slot_key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return entry.Value, nil
}

func (b *GormBackend) Set(ctx context.Context, key string, value []byte) error {
	entry := KVEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (b *GormBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	return sqlDB.Close()
}
