// Package catalog manages the admin-curated library of reusable placeholder
// field definitions. Deletion is two-phase: a soft delete hides a field from
// listings, and only an already-hidden field may be permanently removed.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Aswajit1997/Dicert/internal/model"
	"github.com/Aswajit1997/Dicert/internal/storage"
)

var (
	ErrFieldNotFound  = errors.New("template field not found")
	ErrNotSoftDeleted = errors.New("field must be removed from the catalog before permanent deletion")
	ErrAssetRequired  = errors.New("file fields require an uploaded asset")
)

const assetFolder = "Admin/Template/TemplateFields"

// Service handles field catalog business logic
type Service struct {
	db    *gorm.DB
	store storage.ObjectStore
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, store storage.ObjectStore) *Service {
	return &Service{db: db, store: store}
}

// Add creates a catalog entry. File-type fields must carry an asset, which
// is stored and becomes the field's default value.
func (s *Service) Add(ctx context.Context, field model.TemplateField, asset []byte, assetName string) (*model.TemplateField, error) {
	if field.FieldType == model.FieldTypeFile {
		if len(asset) == 0 {
			return nil, ErrAssetRequired
		}
		url, err := s.store.Store(ctx, asset, storage.RandomizeName(assetName), assetFolder)
		if err != nil {
			return nil, fmt.Errorf("failed to store field asset: %w", err)
		}
		field.DefaultValue = url
	}

	field.ID = 0
	field.IsDeleted = false
	if err := s.db.Create(&field).Error; err != nil {
		return nil, err
	}
	return &field, nil
}

// Update edits a catalog entry in place. A new asset replaces the stored
// default value for file fields; otherwise the existing value is kept.
func (s *Service) Update(ctx context.Context, id int, field model.TemplateField, asset []byte, assetName string) (*model.TemplateField, error) {
	existing, err := s.get(id)
	if err != nil {
		return nil, err
	}

	existing.FieldName = field.FieldName
	existing.HTMLPlaceholder = field.HTMLPlaceholder
	existing.InputFrom = field.InputFrom
	existing.FieldType = field.FieldType
	if field.DefaultValue != "" {
		existing.DefaultValue = field.DefaultValue
	}

	if existing.FieldType == model.FieldTypeFile && len(asset) > 0 {
		url, err := s.store.Store(ctx, asset, storage.RandomizeName(assetName), assetFolder)
		if err != nil {
			return nil, fmt.Errorf("failed to store field asset: %w", err)
		}
		existing.DefaultValue = url
	}

	if err := s.db.Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// SoftDelete hides a field from catalog listings without destroying it.
func (s *Service) SoftDelete(id int) error {
	field, err := s.get(id)
	if err != nil {
		return err
	}
	field.IsDeleted = true
	return s.db.Save(field).Error
}

// PermanentDelete destroys a field record. Only allowed once the field has
// been soft deleted, so an accidental click can't remove catalog data.
func (s *Service) PermanentDelete(id int) error {
	field, err := s.get(id)
	if err != nil {
		return err
	}
	if !field.IsDeleted {
		return ErrNotSoftDeleted
	}
	return s.db.Delete(field).Error
}

// List returns the visible catalog, newest first.
func (s *Service) List() ([]model.TemplateField, error) {
	var fields []model.TemplateField
	err := s.db.Where("is_deleted = ?", false).
		Order("created_at DESC").Find(&fields).Error
	if err != nil {
		return nil, err
	}
	return fields, nil
}

func (s *Service) get(id int) (*model.TemplateField, error) {
	var field model.TemplateField
	if err := s.db.First(&field, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFieldNotFound
		}
		return nil, err
	}
	return &field, nil
}
