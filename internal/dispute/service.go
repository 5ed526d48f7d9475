// Package dispute implements the error-report lifecycle and its coupling to
// certificate revocation.
//
// State machine: pending -> {confirmed_valid | revoked}; revoked ->
// resolved. confirmed_valid and resolved are terminal and allow a fresh
// report for the same certificate; pending and revoked block one. The
// report's location discriminator is always derived from its status, never
// written independently.
package dispute

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Aswajit1997/Dicert/internal/model"
	"github.com/Aswajit1997/Dicert/internal/revoke"
	"github.com/Aswajit1997/Dicert/internal/storage"
)

var (
	ErrReportNotFound      = errors.New("error report not found")
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrAlreadyReported     = errors.New("this certificate has already been reported")
	ErrNoIssuer            = errors.New("certificate has no issuer to adjudicate the report")
	ErrNotPending          = errors.New("this report has already been revoked or resolved")
	ErrAlreadyRevoked      = errors.New("this report has already been revoked")
	ErrNotAuthorized       = errors.New("you are not authorized to act on this certificate")
	ErrNotRevokedYet       = errors.New("certificate is not revoked yet")
)

// Service handles dispute business logic
type Service struct {
	db    *gorm.DB
	store storage.ObjectStore
}

// NewService creates a new dispute service
func NewService(db *gorm.DB, store storage.ObjectStore) *Service {
	return &Service{db: db, store: store}
}

// CreateReport opens a dispute against an active certificate. At most one
// unresolved report may exist per certificate identity; the issuer is
// snapshotted from the certificate for listing filters only.
func (s *Service) CreateReport(ctx context.Context, reportedBy int, certificateID, message string, attachment []byte, attachmentName string) (*model.ErrorReport, error) {
	var cert model.Certificate
	if err := s.db.Where("id = ?", certificateID).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}

	if cert.IssuerID == nil {
		return nil, ErrNoIssuer
	}

	var existing int64
	err := s.db.Model(&model.ErrorReport{}).
		Where("certificate_ref = ? AND status IN ?", certificateID,
			[]string{model.ReportStatusPending, model.ReportStatusRevoked}).
		Count(&existing).Error
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrAlreadyReported
	}

	attachmentURL := ""
	if len(attachment) > 0 {
		url, err := s.store.Store(ctx, attachment, storage.RandomizeName(attachmentName), "Recipient/ErrorReport")
		if err != nil {
			return nil, fmt.Errorf("failed to store report attachment: %w", err)
		}
		attachmentURL = url
	}

	report := model.ErrorReport{
		CertificateRef:      certificateID,
		CertificateLocation: model.LocationForStatus(model.ReportStatusPending),
		ReportedBy:          reportedBy,
		IssuedBy:            *cert.IssuerID,
		ErrorMessage:        message,
		AttachmentURL:       attachmentURL,
		Status:              model.ReportStatusPending,
	}
	if err := s.db.Create(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// ConfirmValid closes a pending report in the issuer's favor; the
// certificate stays active. Authorization is checked against the live
// certificate's issuer, not the snapshot taken at report time.
func (s *Service) ConfirmValid(issuerID, reportID int) (*model.ErrorReport, error) {
	report, err := s.getReport(reportID)
	if err != nil {
		return nil, err
	}

	if report.Status != model.ReportStatusPending {
		return nil, ErrNotPending
	}

	cert, err := s.activeCertificate(report.CertificateRef)
	if err != nil {
		return nil, err
	}
	if cert.IssuerID == nil || *cert.IssuerID != issuerID {
		return nil, ErrNotAuthorized
	}

	report.Status = model.ReportStatusConfirmedValid
	report.CertificateLocation = model.LocationForStatus(report.Status)
	if err := s.db.Save(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

// Revoke upholds a report: the certificate identity moves to the revoked
// store and the report follows it. Guarded against double revocation.
func (s *Service) Revoke(issuerID, reportID int) (*model.ErrorReport, error) {
	report, err := s.getReport(reportID)
	if err != nil {
		return nil, err
	}

	if report.Status == model.ReportStatusRevoked {
		return nil, ErrAlreadyRevoked
	}

	cert, err := s.activeCertificate(report.CertificateRef)
	if err != nil {
		return nil, err
	}
	if cert.IssuerID == nil || *cert.IssuerID != issuerID {
		return nil, ErrNotAuthorized
	}

	if _, err := revoke.Move(s.db, *cert, model.RevokedFromErrorReport); err != nil {
		return nil, err
	}

	report.Status = model.ReportStatusRevoked
	report.CertificateLocation = model.LocationForStatus(report.Status)
	if err := s.db.Save(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

// Resolve closes a revoked report. Rejected unless the certificate has
// actually moved to the revoked store.
func (s *Service) Resolve(reportID int) (*model.ErrorReport, error) {
	report, err := s.getReport(reportID)
	if err != nil {
		return nil, err
	}

	if report.CertificateLocation != model.LocationRevoked {
		return nil, ErrNotRevokedYet
	}

	var revokedCount int64
	if err := s.db.Model(&model.RevokedCertificate{}).
		Where("id = ?", report.CertificateRef).Count(&revokedCount).Error; err != nil {
		return nil, err
	}
	if revokedCount == 0 {
		return nil, ErrNotRevokedYet
	}

	report.Status = model.ReportStatusResolved
	report.CertificateLocation = model.LocationForStatus(report.Status)
	if err := s.db.Save(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

func (s *Service) getReport(reportID int) (*model.ErrorReport, error) {
	var report model.ErrorReport
	if err := s.db.First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (s *Service) activeCertificate(id string) (*model.Certificate, error) {
	var cert model.Certificate
	if err := s.db.Where("id = ?", id).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}
	return &cert, nil
}
