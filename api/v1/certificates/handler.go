// Package certificates exposes issuance, verification and revocation APIs
// for issuing organizations.
package certificates

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Aswajit1997/Dicert/internal/httpx"
	"github.com/Aswajit1997/Dicert/internal/issue"
	"github.com/Aswajit1997/Dicert/internal/locker"
	"github.com/Aswajit1997/Dicert/internal/model"
	"github.com/Aswajit1997/Dicert/internal/revoke"
	"github.com/Aswajit1997/Dicert/internal/template"
	"github.com/Aswajit1997/Dicert/internal/verify"
)

// GenerateRequest represents single certificate generation request
type GenerateRequest struct {
	TemplateID   int                  `json:"templateId" binding:"required"`
	Format       string               `json:"format"`
	CustomFields []model.FieldBinding `json:"customFields"`
	Row          map[string]string    `json:"recipient" binding:"required"`
}

// ListRequest represents issued certificates listing request
type ListRequest struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Search string `form:"search"`
}

// VerifyCodeRequest represents unique-code verification request
type VerifyCodeRequest struct {
	UniqueCode string `json:"uniqueId" binding:"required"`
}

// RevokeRequest represents single revocation request
type RevokeRequest struct {
	CertificateID string `json:"certificateId" binding:"required"`
}

// RevokeBulkRequest represents bulk revocation request
type RevokeBulkRequest struct {
	CertificateIDs []string `json:"certificateIds" binding:"required,min=1"`
}

// Handler handles certificates API
type Handler struct {
	templates *template.Service
	issuance  *issue.Service
	verifier  *verify.Service
	revoker   *revoke.Service
}

// NewHandler creates a new certificates handler
func NewHandler(templates *template.Service, issuance *issue.Service, verifier *verify.Service, revoker *revoke.Service) *Handler {
	return &Handler{templates: templates, issuance: issuance, verifier: verifier, revoker: revoker}
}

// Generate handles POST /api/v1/certificates/generate
func (h *Handler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
		return
	}

	tpl, err := h.templates.Get(req.TemplateID)
	if err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound(err.Error()))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to fetch template", err))
		return
	}

	issuerID := c.GetInt("uid")
	results, err := h.issuance.GenerateFromRows(c.Request.Context(), issuerID, tpl, req.Format, req.CustomFields,
		[]map[string]string{req.Row})
	if err != nil {
		failIssue(c, err)
		return
	}

	if results[0].Error != "" {
		httpx.FailErr(c, httpx.ErrExternalError(results[0].Error, nil))
		return
	}
	httpx.OK(c, results[0].Certificate)
}

// GenerateBulk handles POST /api/v1/certificates/generate-bulk
// (multipart: templateId, format, csv file)
func (h *Handler) GenerateBulk(c *gin.Context) {
	templateID, err := intForm(c, "templateId")
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid templateId"))
		return
	}

	tpl, err := h.templates.Get(templateID)
	if err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound(err.Error()))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to fetch template", err))
		return
	}

	fileHeader, err := c.FormFile("csv")
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing("csv file is required"))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("failed to open csv file"))
		return
	}
	defer f.Close()

	rows, err := parseRows(f)
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("malformed csv: "+err.Error()))
		return
	}

	issuerID := c.GetInt("uid")
	results, err := h.issuance.GenerateFromRows(c.Request.Context(), issuerID, tpl, c.PostForm("format"), nil, rows)
	if err != nil {
		failIssue(c, err)
		return
	}

	issued := 0
	for _, r := range results {
		if r.Error == "" {
			issued++
		}
	}
	httpx.OK(c, gin.H{
		"issued":  issued,
		"failed":  len(results) - issued,
		"results": results,
	})
}

// ListIssued handles GET /api/v1/certificates/issued
func (h *Handler) ListIssued(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 10
	}

	issuerID := c.GetInt("uid")
	infos, total, err := h.issuance.ListIssued(issuerID, req.Page, req.Limit, req.Search)
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to list issued certificates", err))
		return
	}
	httpx.OKItems(c, infos, total, req.Page, req.Limit)
}

// VerifyQR handles POST /api/v1/certificates/verify-qr (multipart: image)
func (h *Handler) VerifyQR(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing("image file is required"))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("failed to open image"))
		return
	}
	defer f.Close()

	image, err := io.ReadAll(f)
	if err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("failed to read image", err))
		return
	}

	cert, err := h.verifier.VerifyQR(c.GetInt("uid"), c.GetString("role"), image)
	if err != nil {
		failVerify(c, err)
		return
	}
	httpx.OK(c, cert)
}

// VerifyCode handles POST /api/v1/certificates/verify-code
func (h *Handler) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
		return
	}

	cert, err := h.verifier.VerifyCode(c.GetInt("uid"), req.UniqueCode)
	if err != nil {
		failVerify(c, err)
		return
	}
	httpx.OK(c, cert)
}

// Revoke handles POST /api/v1/certificates/revoke
func (h *Handler) Revoke(c *gin.Context) {
	var req RevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
		return
	}

	revoked, err := h.revoker.RevokeOne(c.GetInt("uid"), req.CertificateID)
	if err != nil {
		failRevoke(c, err)
		return
	}
	httpx.OK(c, revoked)
}

// RevokeBulk handles POST /api/v1/certificates/revoke-bulk
func (h *Handler) RevokeBulk(c *gin.Context) {
	var req RevokeBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
		return
	}

	moved, unauthorized, err := h.revoker.RevokeBulk(c.GetInt("uid"), req.CertificateIDs)
	if err != nil {
		if errors.Is(err, revoke.ErrNotAuthorized) {
			httpx.FailErr(c, httpx.ErrForbidden("batch includes certificates not issued by you").WithData(gin.H{
				"unauthorizedIds": unauthorized,
			}))
			return
		}
		failRevoke(c, err)
		return
	}
	httpx.OK(c, gin.H{"revoked": moved})
}

// parseRows reads a header CSV into one map per data row. Header names are
// trimmed; blank lines are skipped by the csv reader.
func parseRows(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func intForm(c *gin.Context, key string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(c.PostForm(key)))
}

func failIssue(c *gin.Context, err error) {
	switch {
	case errors.Is(err, issue.ErrNoRows):
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
	case errors.Is(err, locker.ErrUnsupportedFormat):
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
	default:
		httpx.FailErr(c, httpx.ErrExternalError("issuance failed", err))
	}
}

func failVerify(c *gin.Context, err error) {
	switch {
	case errors.Is(err, verify.ErrInvalidProof):
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
	case errors.Is(err, verify.ErrNotFound):
		httpx.FailErr(c, httpx.ErrNotFound(err.Error()))
	case errors.Is(err, verify.ErrNotAuthorized):
		httpx.FailErr(c, httpx.ErrForbidden(err.Error()))
	default:
		httpx.FailErr(c, httpx.ErrDatabaseError("verification failed", err))
	}
}

func failRevoke(c *gin.Context, err error) {
	switch {
	case errors.Is(err, revoke.ErrCertificateNotFound):
		httpx.FailErr(c, httpx.ErrNotFound(err.Error()))
	case errors.Is(err, revoke.ErrNotAuthorized):
		httpx.FailErr(c, httpx.ErrForbidden(err.Error()))
	default:
		httpx.FailErr(c, httpx.ErrDatabaseError("revocation failed", err))
	}
}
