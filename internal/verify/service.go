// Package verify resolves QR proofs and unique codes against the active
// certificate store. A revoked certificate is indistinguishable from one
// that never existed.
package verify

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Aswajit1997/Dicert/internal/auth"
	"github.com/Aswajit1997/Dicert/internal/model"
	"github.com/Aswajit1997/Dicert/internal/proof"
)

var (
	ErrInvalidProof  = errors.New("image does not carry a valid certificate proof")
	ErrNotFound      = errors.New("no active certificate matches this proof")
	ErrNotAuthorized = errors.New("you are not a party to this certificate")
)

// Service handles verification business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new verification service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// VerifyQR decodes a QR image, parses its proof payload and resolves the
// referenced certificate in the active store. Only the issuing issuer and
// the owning recipient may verify. Recipients, issuers and admins come
// from separate tables with independent id sequences, so the caller's
// role is part of the identity check, not just the number.
func (s *Service) VerifyQR(callerID int, callerRole string, image []byte) (*model.Certificate, error) {
	text, err := proof.Decode(image)
	if err != nil {
		return nil, ErrInvalidProof
	}
	payload, err := proof.Parse(text)
	if err != nil {
		return nil, ErrInvalidProof
	}

	var cert model.Certificate
	if err := s.db.Where("id = ?", payload.CertificateID).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !isParty(callerID, callerRole, &cert) {
		return nil, ErrNotAuthorized
	}
	return &cert, nil
}

// VerifyCode resolves a certificate by its unique code. Issuer-facing:
// only the issuer that issued the certificate gets a positive answer.
func (s *Service) VerifyCode(issuerID int, code string) (*model.Certificate, error) {
	var cert model.Certificate
	if err := s.db.Where("unique_code = ?", code).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if cert.IssuerID == nil || *cert.IssuerID != issuerID {
		return nil, ErrNotAuthorized
	}
	return &cert, nil
}

func isParty(callerID int, callerRole string, cert *model.Certificate) bool {
	switch callerRole {
	case auth.RoleIssuer:
		return cert.IssuerID != nil && *cert.IssuerID == callerID
	case auth.RoleUser:
		return cert.UserID == callerID
	}
	return false
}
