package repository

import (
	"context"

	"dualshot/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MetaRepository struct {
	db *gorm.DB
}

func NewMetaRepository(db *gorm.DB) *MetaRepository {
	return &MetaRepository{db: db}
}

// Get 读取键值，不存在返回 ErrNotFound
func (r *MetaRepository) Get(ctx context.Context, key string) (string, error) {
	var m model.Meta
	if err := r.db.WithContext(ctx).Where("meta_key = ?", key).First(&m).Error; err != nil {
		return "", translate(err)
	}
	return m.Value, nil
}

// Set 写入或覆盖键值
func (r *MetaRepository) Set(ctx context.Context, key, value string) error {
	m := model.Meta{Key: key, Value: value}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value", "updated_at"}),
	}).Create(&m).Error
	return translate(err)
}
