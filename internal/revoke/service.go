// Package revoke implements the move of a certificate identity from the
// active store to the revoked store. The move is copy-then-delete: the
// revoked copy must be durably written before the active record goes away,
// so a crash in between duplicates the identity instead of losing it. The
// Reconciler cleans such duplicates up.
package revoke

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Aswajit1997/Dicert/internal/model"
)

var (
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrNotAuthorized       = errors.New("certificate not issued by you")
)

// Move copies cert into the revoked store under the same primary key and
// then deletes the active record. Never reverse the order.
func Move(db *gorm.DB, cert model.Certificate, revokedFrom string) (*model.RevokedCertificate, error) {
	revoked := cert.ToRevoked(revokedFrom)
	if err := db.Create(&revoked).Error; err != nil {
		return nil, fmt.Errorf("failed to copy certificate %s into revoked store: %w", cert.ID, err)
	}

	if err := db.Delete(&model.Certificate{}, "id = ?", cert.ID).Error; err != nil {
		// The identity is now duplicated, not lost; the reconciler will
		// re-attempt the delete.
		return nil, fmt.Errorf("revoked copy of %s written but active delete failed: %w", cert.ID, err)
	}
	return &revoked, nil
}

// Service handles direct issuer-initiated revocation, bypassing disputes.
type Service struct {
	db *gorm.DB
}

// NewService creates a new revocation service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// RevokeOne revokes a single certificate owned by the calling issuer.
func (s *Service) RevokeOne(issuerID int, certificateID string) (*model.RevokedCertificate, error) {
	var cert model.Certificate
	if err := s.db.Where("id = ?", certificateID).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}

	if cert.IssuerID == nil || *cert.IssuerID != issuerID {
		return nil, ErrNotAuthorized
	}

	return Move(s.db, cert, model.RevokedFromIssuer)
}

// RevokeBulk revokes a batch of certificates. Authorization is
// all-or-nothing: any id in the batch not issued by the caller aborts the
// whole batch before anything is deleted, and the offending ids are
// returned. The per-certificate moves themselves are sequential and not
// transactionally atomic across the batch.
func (s *Service) RevokeBulk(issuerID int, ids []string) (int, []string, error) {
	var certs []model.Certificate
	if err := s.db.Where("id IN ?", ids).Find(&certs).Error; err != nil {
		return 0, nil, err
	}

	var unauthorized []string
	for _, cert := range certs {
		if cert.IssuerID == nil || *cert.IssuerID != issuerID {
			unauthorized = append(unauthorized, cert.ID)
		}
	}
	if len(unauthorized) > 0 {
		return 0, unauthorized, ErrNotAuthorized
	}

	revoked := 0
	for _, cert := range certs {
		if _, err := Move(s.db, cert, model.RevokedFromIssuer); err != nil {
			return revoked, nil, err
		}
		revoked++
	}
	return revoked, nil, nil
}

// RevokedCertificateInfo is a revoked-certificate listing row with issuer
// details resolved.
type RevokedCertificateInfo struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Format           string `json:"format"`
	ArtifactURL      string `json:"filePath"`
	RevokedFrom      string `json:"revokedFrom"`
	IssuerID         *int   `json:"issuerId"`
	OrganizationName string `json:"organizationName"`
	IssuerEmail      string `json:"issuerEmail"`
}

// ListRevoked returns revoked certificates with issuer info, newest first,
// searching by certificate name or organization name.
func (s *Service) ListRevoked(page, pageSize int, search string) ([]RevokedCertificateInfo, int64, error) {
	base := s.db.Model(&model.RevokedCertificate{}).
		Joins("LEFT JOIN issuers ON issuers.id = revoked_certificates.issuer_id")

	if search != "" {
		pattern := "%" + search + "%"
		base = base.Where("revoked_certificates.name LIKE ? OR issuers.organization_name LIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []RevokedCertificateInfo
	err := base.
		Select("revoked_certificates.id, revoked_certificates.name, revoked_certificates.format, " +
			"revoked_certificates.artifact_url, revoked_certificates.revoked_from, " +
			"revoked_certificates.issuer_id, issuers.organization_name, issuers.email AS issuer_email").
		Order("revoked_certificates.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Scan(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
