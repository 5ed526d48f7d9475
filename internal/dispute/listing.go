package dispute

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Aswajit1997/Dicert/internal/model"
)

// ReportInfo is an error report joined with whichever store currently
// holds the disputed certificate.
type ReportInfo struct {
	Report          model.ErrorReport `json:"report"`
	CertificateName string            `json:"certificateName"`
	CertificateURL  string            `json:"certificateUrl"`
	UniqueCode      string            `json:"uniqueCode"`
	RecipientName   string            `json:"recipientName"`
}

// ListByReporter returns the reports filed by a recipient, newest first.
func (s *Service) ListByReporter(reportedBy int) ([]ReportInfo, error) {
	var reports []model.ErrorReport
	err := s.db.Where("reported_by = ?", reportedBy).
		Order("created_at DESC").Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return s.resolveAll(reports)
}

// ListByIssuer returns the reports filed against an issuer's certificates,
// optionally bounded to a created-at window.
func (s *Service) ListByIssuer(issuerID int, from, to *time.Time) ([]ReportInfo, error) {
	query := s.db.Where("issued_by = ?", issuerID)
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var reports []model.ErrorReport
	if err := query.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return s.resolveAll(reports)
}

// ListAll returns every report, optionally filtered by status. Admin view.
func (s *Service) ListAll(status string) ([]ReportInfo, error) {
	query := s.db.Session(&gorm.Session{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var reports []model.ErrorReport
	if err := query.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return s.resolveAll(reports)
}

// resolveAll looks up the disputed certificate for each report in the
// store its location discriminator points at. A dangling reference (the
// certificate vanished from both stores) yields the report with blank
// certificate fields rather than an error.
func (s *Service) resolveAll(reports []model.ErrorReport) ([]ReportInfo, error) {
	infos := make([]ReportInfo, 0, len(reports))
	for _, report := range reports {
		info := ReportInfo{Report: report}
		name, url, code, userID, err := s.lookupCertificate(report)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			infos = append(infos, info)
			continue
		}
		info.CertificateName = name
		info.CertificateURL = url
		info.UniqueCode = code

		var user model.User
		if err := s.db.First(&user, userID).Error; err == nil {
			info.RecipientName = user.Name
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *Service) lookupCertificate(report model.ErrorReport) (name, url, code string, userID int, err error) {
	if report.CertificateLocation == model.LocationRevoked {
		var revoked model.RevokedCertificate
		if err = s.db.Where("id = ?", report.CertificateRef).First(&revoked).Error; err != nil {
			return
		}
		return revoked.Name, revoked.ArtifactURL, revoked.UniqueCode, revoked.UserID, nil
	}

	var cert model.Certificate
	if err = s.db.Where("id = ?", report.CertificateRef).First(&cert).Error; err != nil {
		return
	}
	return cert.Name, cert.ArtifactURL, cert.UniqueCode, cert.UserID, nil
}
