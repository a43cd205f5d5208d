package store

import (
	"time"

	"warescan-service/internal/model"
	"warescan-service/internal/scope"
	"warescan-service/prometheus"

	"gorm.io/gorm"
)

// GormStore persists package collections in PostgreSQL through gorm. Save
// replaces the scope's rows inside one transaction, which gives the
// all-or-nothing guarantee the engine relies on.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an initialized gorm DB.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Load implements Store.
func (s *GormStore) Load(sc scope.ID) ([]model.Package, error) {
	defer prometheus.TrackDBOperation("load_collection")(time.Now())

	var pkgs []model.Package
	result := s.db.Where("owner_id = ?", uint(sc)).Order("date_added").Find(&pkgs)
	if result.Error != nil {
		return nil, result.Error
	}
	return pkgs, nil
}

// Save implements Store.
func (s *GormStore) Save(sc scope.ID, pkgs []model.Package) ([]model.Package, error) {
	defer prometheus.TrackDBOperation("save_collection")(time.Now())

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", uint(sc)).Delete(&model.Package{}).Error; err != nil {
			return err
		}
		if len(pkgs) == 0 {
			return nil
		}
		return tx.Create(&pkgs).Error
	})
	if err != nil {
		return nil, err
	}
	return Clone(pkgs), nil
}
