package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LocalStorageRepository is a namespaced key/value store standing in for a
// browser's local storage. Each session gets its own namespace.
type LocalStorageRepository struct {
	db *gorm.DB
}

func NewLocalStorageRepository(db *gorm.DB) *LocalStorageRepository {
	return &LocalStorageRepository{db: db}
}

type localStorageModel struct {
	Namespace string    `gorm:"column:namespace;primaryKey;size:64"`
	Key       string    `gorm:"column:key;primaryKey;size:64"`
	Value     []byte    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (localStorageModel) TableName() string { return "local_storage" }

func (r *LocalStorageRepository) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	var m localStorageModel
	err := r.db.WithContext(ctx).
		Where("namespace = ? AND key = ?", namespace, key).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return m.Value, true, nil
}

// SetMany upserts all values in one transaction.
func (r *LocalStorageRepository) SetMany(ctx context.Context, namespace string, values map[string][]byte) error {
	if len(values) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]localStorageModel, 0, len(values))
	for k, v := range values {
		rows = append(rows, localStorageModel{Namespace: namespace, Key: k, Value: v, UpdatedAt: now})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rows).Error
	})
}

func (r *LocalStorageRepository) DeleteKeys(ctx context.Context, namespace string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("namespace = ? AND key IN ?", namespace, keys).
		Delete(&localStorageModel{}).Error
}
