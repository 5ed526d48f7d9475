// Package issue implements the certificate issuance pipeline: single and
// bulk generation from a template, with per-recipient identity allocation,
// QR proof embedding, rendering and delivery into the recipient's locker.
package issue

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Aswajit1997/Dicert/internal/auth"
	"github.com/Aswajit1997/Dicert/internal/locker"
	"github.com/Aswajit1997/Dicert/internal/model"
	"github.com/Aswajit1997/Dicert/internal/proof"
	"github.com/Aswajit1997/Dicert/internal/render"
	"github.com/Aswajit1997/Dicert/internal/storage"
	"github.com/Aswajit1997/Dicert/internal/substitute"
	"github.com/Aswajit1997/Dicert/internal/uniqueid"
)

var ErrNoRows = errors.New("no recipient rows to issue")

// Auto-created recipients get this credential until they claim the account.
// TODO: replace with an invite-token flow so no fixed password exists.
const defaultRecipientPassword = "user@123"

const (
	qrFolder      = "Issuer/UsersCertificate/QRCode"
	artifactsRoot = "Issuer/GeneratedCertificates"
)

// RowResult reports the outcome of one recipient row, in input order.
type RowResult struct {
	Email       string             `json:"email"`
	Certificate *model.Certificate `json:"certificate,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// Service handles issuance business logic
type Service struct {
	db       *gorm.DB
	store    storage.ObjectStore
	renderer render.Renderer
	alloc    *uniqueid.Allocator
	lockers  *locker.Service
	log      *logrus.Entry
}

// NewService creates a new issuance service
func NewService(db *gorm.DB, store storage.ObjectStore, renderer render.Renderer, alloc *uniqueid.Allocator, lockers *locker.Service) *Service {
	return &Service{
		db:       db,
		store:    store,
		renderer: renderer,
		alloc:    alloc,
		lockers:  lockers,
		log:      logrus.WithField("component", "issuance"),
	}
}

// GenerateFromRows runs the issuance pipeline over recipient rows
// sequentially. Rows without an email are skipped, a failed row is reported
// in its result slot without aborting the batch, and results come back in
// input order. Single issuance is a one-row batch.
func (s *Service) GenerateFromRows(ctx context.Context, issuerID int, tpl *model.Template, format string, overrides []model.FieldBinding, rows []map[string]string) ([]RowResult, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	if format == "" {
		format = model.FormatPNG
	}
	if !model.ValidFormat(format) {
		return nil, locker.ErrUnsupportedFormat
	}

	results := make([]RowResult, 0, len(rows))
	for _, row := range rows {
		email := row["email"]
		if email == "" {
			s.log.Warn("skipping row without email")
			results = append(results, RowResult{Error: "row has no email"})
			continue
		}

		cert, err := s.generateOne(ctx, issuerID, tpl, format, overrides, row)
		if err != nil {
			s.log.WithError(err).WithField("email", email).Error("failed to issue certificate")
			results = append(results, RowResult{Email: email, Error: err.Error()})
			continue
		}
		results = append(results, RowResult{Email: email, Certificate: cert})
	}
	return results, nil
}

// generateOne issues a single certificate: the record id and unique code
// are allocated first so the QR proof baked into the artifact references
// the exact row persisted at the end.
func (s *Service) generateOne(ctx context.Context, issuerID int, tpl *model.Template, format string, overrides []model.FieldBinding, row map[string]string) (*model.Certificate, error) {
	user, err := s.findOrCreateUser(row)
	if err != nil {
		return nil, err
	}

	folder, err := s.lockers.EnsureFolder(user.ID, locker.DefaultIssuedFolder)
	if err != nil {
		return nil, err
	}

	fieldsToUse := tpl.CustomFields
	if overrides != nil {
		fieldsToUse = overrides
	}

	html := substitute.ApplyRow(tpl.MarkupHTML, row)
	html = substitute.Apply(html, fieldsToUse)

	code, err := s.alloc.AllocateCode()
	if err != nil {
		return nil, err
	}
	html = substitute.ReplaceUniqueID(html, code)

	certName := certificateName(fieldsToUse, code)
	recordID := s.alloc.NewRecordID()

	qrURL, err := s.storeQR(ctx, user.ID, issuerID, certName, recordID, code)
	if err != nil {
		return nil, err
	}
	html = substitute.EmbedQR(html, qrURL)

	artifact, err := s.renderer.Render(ctx, html, fmt.Sprintf("%s/%d", artifactsRoot, issuerID), format)
	if err != nil {
		return nil, err
	}

	cert := model.Certificate{
		ID:           recordID,
		Name:         certName,
		Format:       format,
		ArtifactURL:  artifact.URL,
		SizeBytes:    artifact.SizeBytes,
		UserID:       user.ID,
		FolderID:     &folder.ID,
		IssuerID:     &issuerID,
		RenderedHTML: html,
		TemplateID:   &tpl.ID,
		CustomFields: fieldsToUse,
		DataFields:   rowBindings(row),
		UniqueCode:   code,
	}
	if err := s.db.Create(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

// findOrCreateUser resolves the recipient account by email, creating one
// with the default credential when none exists.
func (s *Service) findOrCreateUser(row map[string]string) (*model.User, error) {
	email := row["email"]

	var user model.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	name := row["recipientName"]
	if name == "" {
		name = "Unnamed User"
	}
	hashed, err := auth.HashPassword(defaultRecipientPassword)
	if err != nil {
		return nil, err
	}
	user = model.User{Name: name, Email: email, PasswordHash: hashed}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	if _, err := s.lockers.EnsureLocker(user.ID); err != nil {
		return nil, err
	}
	return &user, nil
}

// storeQR encodes the proof payload and uploads the QR image named after
// the certificate's unique code.
func (s *Service) storeQR(ctx context.Context, userID, issuerID int, certName, recordID, code string) (string, error) {
	png, err := proof.Encode(proof.Payload{
		UserID:          userID,
		IssuerID:        issuerID,
		CertificateName: certName,
		CertificateID:   recordID,
	})
	if err != nil {
		return "", err
	}
	return s.store.Store(ctx, png, code+"_qr.png", qrFolder)
}

// certificateName picks the display name from the certificateName binding,
// falling back to the unique code.
func certificateName(fields []model.FieldBinding, code string) string {
	for _, f := range fields {
		if f.FieldName == model.FieldCertificateName && f.Value != "" && f.Value != model.FieldCertificateName {
			return f.Value
		}
	}
	return code + " Certificate"
}

// rowBindings converts a CSV row into text bindings for persistence.
func rowBindings(row map[string]string) []model.FieldBinding {
	bindings := make([]model.FieldBinding, 0, len(row))
	for name, value := range row {
		bindings = append(bindings, model.FieldBinding{
			FieldName: name,
			FieldType: model.FieldTypeText,
			Value:     value,
		})
	}
	return bindings
}

// IssuedCertificateInfo is a certificate joined with its recipient for the
// issuer's dashboard.
type IssuedCertificateInfo struct {
	Certificate    model.Certificate `json:"certificate"`
	RecipientName  string            `json:"recipientName"`
	RecipientEmail string            `json:"recipientEmail"`
}

// ListIssued returns an issuer's certificates newest first, searchable by
// certificate name or recipient name, paginated.
func (s *Service) ListIssued(issuerID, page, limit int, search string) ([]IssuedCertificateInfo, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	query := s.db.Model(&model.Certificate{}).
		Joins("LEFT JOIN users ON users.id = certificates.user_id").
		Where("certificates.issuer_id = ?", issuerID)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("certificates.name LIKE ? OR users.name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var raw []struct {
		model.Certificate
		RecipientName  string
		RecipientEmail string
	}
	err := query.
		Select("certificates.*, users.name AS recipient_name, users.email AS recipient_email").
		Order("certificates.created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Scan(&raw).Error
	if err != nil {
		return nil, 0, err
	}

	infos := make([]IssuedCertificateInfo, 0, len(raw))
	for _, r := range raw {
		infos = append(infos, IssuedCertificateInfo{
			Certificate:    r.Certificate,
			RecipientName:  r.RecipientName,
			RecipientEmail: r.RecipientEmail,
		})
	}
	return infos, total, nil
}
