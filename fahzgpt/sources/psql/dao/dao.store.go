package dao

import (
	"context"
	"errors"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/sources/psql/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoreDAO reads and writes whole keyed JSON records. Callers own the
// record layout; the DAO never looks inside the value.
type StoreDAO struct {
	DB *gorm.DB
}

func NewStoreDAO(db *gorm.DB) *StoreDAO {
	return &StoreDAO{DB: db}
}

// Get returns the record value, or nil when the key has never been written.
func (dao *StoreDAO) Get(ctx context.Context, key string) ([]byte, error) {
	var rec models.StoreRecord
	err := dao.DB.WithContext(ctx).Where("key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.Value, nil
}

// Put overwrites the record in full.
func (dao *StoreDAO) Put(ctx context.Context, key string, value []byte) error {
	rec := models.StoreRecord{Key: key, Value: value}
	return dao.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rec).Error
}

// Delete removes the record; missing keys are not an error.
func (dao *StoreDAO) Delete(ctx context.Context, key string) error {
	return dao.DB.WithContext(ctx).Where("key = ?", key).Delete(&models.StoreRecord{}).Error
}
