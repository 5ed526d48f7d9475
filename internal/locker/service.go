// Package locker manages a recipient's eLocker: folders and directly
// uploaded certificates.
package locker

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"gorm.io/gorm"

	"github.com/Aswajit1997/Dicert/internal/model"
	"github.com/Aswajit1997/Dicert/internal/storage"
	"github.com/Aswajit1997/Dicert/internal/uniqueid"
)

// DefaultIssuedFolder is the destination folder for issuer-originated
// certificates, created on a recipient's locker the first time an issuer
// generates a certificate for them.
const DefaultIssuedFolder = "Issued on DiCert"

var (
	ErrFolderExists        = errors.New("folder with the same name already exists")
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrUnsupportedFormat   = errors.New("unsupported certificate format")
)

// Service handles eLocker business logic
type Service struct {
	db    *gorm.DB
	store storage.ObjectStore
	alloc *uniqueid.Allocator
}

// NewService creates a new locker service
func NewService(db *gorm.DB, store storage.ObjectStore) *Service {
	return &Service{db: db, store: store, alloc: uniqueid.NewAllocator(db)}
}

// EnsureLocker returns the user's eLocker, creating it on first use.
func (s *Service) EnsureLocker(userID int) (*model.ELocker, error) {
	var el model.ELocker
	err := s.db.Where("user_id = ?", userID).First(&el).Error
	if err == nil {
		return &el, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	el = model.ELocker{UserID: userID}
	if err := s.db.Create(&el).Error; err != nil {
		return nil, err
	}
	return &el, nil
}

// EnsureFolder returns the user's folder with the given name, creating it
// if absent. Two concurrent first-time issuances can race here; the loser
// hits the per-user unique name constraint and re-fetches the winner's row.
func (s *Service) EnsureFolder(userID int, name string) (*model.Folder, error) {
	if _, err := s.EnsureLocker(userID); err != nil {
		return nil, err
	}

	var folder model.Folder
	err := s.db.Where("user_id = ? AND name = ?", userID, name).First(&folder).Error
	if err == nil {
		return &folder, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	folder = model.Folder{UserID: userID, Name: name}
	if createErr := s.db.Create(&folder).Error; createErr != nil {
		// Duplicate-name rejection means another request created it first.
		if fetchErr := s.db.Where("user_id = ? AND name = ?", userID, name).First(&folder).Error; fetchErr != nil {
			return nil, createErr
		}
	}
	return &folder, nil
}

// CreateFolder creates a new named folder, rejecting duplicates.
func (s *Service) CreateFolder(userID int, name string) (*model.Folder, error) {
	if _, err := s.EnsureLocker(userID); err != nil {
		return nil, err
	}

	var existing model.Folder
	err := s.db.Where("user_id = ? AND name = ?", userID, name).First(&existing).Error
	if err == nil {
		return nil, ErrFolderExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	folder := model.Folder{UserID: userID, Name: name}
	if err := s.db.Create(&folder).Error; err != nil {
		return nil, err
	}
	return &folder, nil
}

// UploadCertificate stores a recipient-provided certificate file and
// records it as an active certificate with no issuer.
func (s *Service) UploadCertificate(ctx context.Context, userID int, filename string, data []byte) (*model.Certificate, error) {
	if _, err := s.EnsureLocker(userID); err != nil {
		return nil, err
	}

	format := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	if !model.ValidFormat(format) {
		return nil, ErrUnsupportedFormat
	}

	url, err := s.store.Store(ctx, data, storage.RandomizeName(filename),
		fmt.Sprintf("Recipient/Certificates/%d", userID))
	if err != nil {
		return nil, fmt.Errorf("failed to store certificate file: %w", err)
	}

	code, err := s.alloc.AllocateCode()
	if err != nil {
		return nil, err
	}

	cert := model.Certificate{
		ID:          s.alloc.NewRecordID(),
		Name:        filename,
		Format:      format,
		ArtifactURL: url,
		SizeBytes:   int64(len(data)),
		UserID:      userID,
		UniqueCode:  code,
	}
	if err := s.db.Create(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

// AddCertificateToFolder moves a recipient's certificate into a named
// folder, creating the folder if needed.
func (s *Service) AddCertificateToFolder(userID int, certificateID, folderName string) (*model.Certificate, error) {
	var cert model.Certificate
	if err := s.db.Where("id = ? AND user_id = ?", certificateID, userID).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}

	folder, err := s.EnsureFolder(userID, folderName)
	if err != nil {
		return nil, err
	}

	cert.FolderID = &folder.ID
	if err := s.db.Save(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

// ToggleFavorite flips the favorite flag on a recipient's certificate.
func (s *Service) ToggleFavorite(userID int, certificateID string) (*model.Certificate, error) {
	var cert model.Certificate
	if err := s.db.Where("id = ? AND user_id = ?", certificateID, userID).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}

	cert.IsFavorite = !cert.IsFavorite
	if err := s.db.Save(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

// ListCertificates returns a recipient's certificates, optionally filtered
// to one folder.
func (s *Service) ListCertificates(userID int, folderID *int) ([]model.Certificate, error) {
	q := s.db.Where("user_id = ?", userID)
	if folderID != nil {
		q = q.Where("folder_id = ?", *folderID)
	}

	var certs []model.Certificate
	if err := q.Order("created_at DESC").Find(&certs).Error; err != nil {
		return nil, err
	}
	return certs, nil
}
