package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type kvRow struct {
	Key       string    `gorm:"column:kv_key;primaryKey"`
	Value     []byte    `gorm:"column:kv_value"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (kvRow) TableName() string {
	return "engagement_kv"
}

type KVRepository struct {
	DB *gorm.DB
}

func NewKVRepository(db *gorm.DB) (*KVRepository, error) {
	if err := db.AutoMigrate(&kvRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate engagement_kv: %w", err)
	}

	return &KVRepository{DB: db}, nil
}

func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var row kvRow
	err := r.DB.WithContext(ctx).First(&row, "kv_key = ?", key).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query engagement_kv: %w", err)
	}

	return row.Value, nil
}

func (r *KVRepository) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	row := kvRow{
		Key:   key,
		Value: value,
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "kv_key"}},
			UpdateAll: true,
		},
	).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert engagement_kv: %w", err)
	}

	return nil
}
