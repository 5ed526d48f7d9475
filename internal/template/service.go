// Package template implements certificate template authoring: storing raw
// markup with its typed field bindings, rendering a preview image, and
// deriving the blank CSV header issuers download for bulk issuance.
package template

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Aswajit1997/Dicert/internal/model"
	"github.com/Aswajit1997/Dicert/internal/render"
	"github.com/Aswajit1997/Dicert/internal/substitute"
)

var ErrTemplateNotFound = errors.New("template not found")

const previewFolder = "Admin/templateImages"

// Service handles template business logic
type Service struct {
	db       *gorm.DB
	renderer render.Renderer
}

// NewService creates a new template service
func NewService(db *gorm.DB, renderer render.Renderer) *Service {
	return &Service{db: db, renderer: renderer}
}

// Create stores a new template. The reserved certificateName binding is
// injected into the custom fields regardless of what the caller sent, and
// a preview is rendered with every current binding value applied.
func (s *Service) Create(ctx context.Context, createdBy int, name, markup string, customFields, dataFields []model.FieldBinding) (*model.Template, error) {
	customFields = injectCertificateName(customFields)

	previewHTML, previewURL, err := s.buildPreview(ctx, markup, customFields, dataFields)
	if err != nil {
		return nil, err
	}

	tpl := model.Template{
		Name:         name,
		MarkupHTML:   markup,
		PreviewHTML:  previewHTML,
		PreviewURL:   previewURL,
		CustomFields: customFields,
		DataFields:   dataFields,
		CreatedBy:    createdBy,
	}
	if err := s.db.Create(&tpl).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

// Edit replaces a template's markup and bindings and re-renders the
// preview. Fields left nil keep their stored value.
func (s *Service) Edit(ctx context.Context, id int, name, markup *string, customFields, dataFields []model.FieldBinding) (*model.Template, error) {
	tpl, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		tpl.Name = *name
	}
	if markup != nil {
		tpl.MarkupHTML = *markup
	}
	if customFields != nil {
		tpl.CustomFields = injectCertificateName(customFields)
	}
	if dataFields != nil {
		tpl.DataFields = dataFields
	}

	previewHTML, previewURL, err := s.buildPreview(ctx, tpl.MarkupHTML, tpl.CustomFields, tpl.DataFields)
	if err != nil {
		return nil, err
	}
	tpl.PreviewHTML = previewHTML
	tpl.PreviewURL = previewURL

	if err := s.db.Save(tpl).Error; err != nil {
		return nil, err
	}
	return tpl, nil
}

// Get fetches a template by id.
func (s *Service) Get(id int) (*model.Template, error) {
	var tpl model.Template
	if err := s.db.First(&tpl, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

// List returns templates newest first, optionally filtered by a substring
// match on name or preview markup.
func (s *Service) List(search string) ([]model.Template, error) {
	query := s.db.Session(&gorm.Session{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR preview_html LIKE ?", like, like)
	}

	var templates []model.Template
	if err := query.Order("created_at DESC").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// Delete removes a template. Certificates already issued from it keep
// their rendered markup and are unaffected.
func (s *Service) Delete(id int) error {
	result := s.db.Delete(&model.Template{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// BlankCSVHeader derives the bulk-issuance CSV header from a template's
// data fields. The email column is prepended when the bindings don't
// already carry one.
func (s *Service) BlankCSVHeader(id int) ([]string, error) {
	tpl, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	header := make([]string, 0, len(tpl.DataFields)+1)
	hasEmail := false
	for _, f := range tpl.DataFields {
		if f.FieldName == "email" {
			hasEmail = true
		}
		header = append(header, f.FieldName)
	}
	if !hasEmail {
		header = append([]string{"email"}, header...)
	}
	return header, nil
}

// buildPreview substitutes every binding into the markup, stamps the
// uniqueId token with a placeholder value, and renders the result to a PNG.
func (s *Service) buildPreview(ctx context.Context, markup string, customFields, dataFields []model.FieldBinding) (html, url string, err error) {
	html = substitute.Apply(markup, customFields)
	html = substitute.Apply(html, dataFields)
	html = substitute.ReplaceUniqueID(html, substitute.PreviewUniqueID)

	result, err := s.renderer.Render(ctx, html, previewFolder, model.FormatPNG)
	if err != nil {
		return "", "", fmt.Errorf("failed to render template preview: %w", err)
	}
	return html, result.URL, nil
}

// injectCertificateName strips any caller-supplied certificateName binding
// and appends the canonical one, so the reserved field is always present
// exactly once and always typed text.
func injectCertificateName(fields []model.FieldBinding) []model.FieldBinding {
	out := make([]model.FieldBinding, 0, len(fields)+1)
	for _, f := range fields {
		if f.FieldName == model.FieldCertificateName {
			continue
		}
		out = append(out, f)
	}
	out = append(out, model.FieldBinding{
		FieldName: model.FieldCertificateName,
		FieldType: model.FieldTypeText,
		Value:     model.FieldCertificateName,
	})
	return out
}
