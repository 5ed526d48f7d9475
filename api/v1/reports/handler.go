// Package reports exposes the error-report (dispute) API for recipients,
// issuers and administrators.
package reports

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aswajit1997/Dicert/internal/dispute"
	"github.com/Aswajit1997/Dicert/internal/httpx"
)

// ActRequest identifies the report a transition applies to.
type ActRequest struct {
	ReportID int `json:"reportId" binding:"required"`
}

// Handler handles error report API
type Handler struct {
	svc *dispute.Service
}

// NewHandler creates a new reports handler
func NewHandler(svc *dispute.Service) *Handler {
	return &Handler{svc: svc}
}

// Create handles POST /api/v1/reports/create
// (multipart: certificateId, message, optional attachment)
func (h *Handler) Create(c *gin.Context) {
	certificateID := c.PostForm("certificateId")
	message := c.PostForm("message")
	if certificateID == "" || message == "" {
		httpx.FailErr(c, httpx.ErrParamMissing("certificateId and message are required"))
		return
	}

	var attachment []byte
	var attachmentName string
	if fileHeader, err := c.FormFile("attachment"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("failed to open attachment"))
			return
		}
		defer f.Close()
		attachment, err = io.ReadAll(f)
		if err != nil {
			httpx.FailErr(c, httpx.ErrInternalError("failed to read attachment", err))
			return
		}
		attachmentName = fileHeader.Filename
	}

	report, err := h.svc.CreateReport(c.Request.Context(), c.GetInt("uid"), certificateID, message, attachment, attachmentName)
	if err != nil {
		failDispute(c, err)
		return
	}
	httpx.OK(c, report)
}

// ConfirmValid handles POST /api/v1/reports/confirm-valid
func (h *Handler) ConfirmValid(c *gin.Context) {
	var req ActRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
		return
	}

	report, err := h.svc.ConfirmValid(c.GetInt("uid"), req.ReportID)
	if err != nil {
		failDispute(c, err)
		return
	}
	httpx.OK(c, report)
}

// Revoke handles POST /api/v1/reports/revoke
func (h *Handler) Revoke(c *gin.Context) {
	var req ActRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
		return
	}

	report, err := h.svc.Revoke(c.GetInt("uid"), req.ReportID)
	if err != nil {
		failDispute(c, err)
		return
	}
	httpx.OK(c, report)
}

// Resolve handles POST /api/v1/reports/resolve
func (h *Handler) Resolve(c *gin.Context) {
	var req ActRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
		return
	}

	report, err := h.svc.Resolve(req.ReportID)
	if err != nil {
		failDispute(c, err)
		return
	}
	httpx.OK(c, report)
}

// Mine handles GET /api/v1/reports/mine — reports the caller filed.
func (h *Handler) Mine(c *gin.Context) {
	infos, err := h.svc.ListByReporter(c.GetInt("uid"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to list reports", err))
		return
	}
	httpx.OK(c, infos)
}

// AgainstMe handles GET /api/v1/reports/against-me — reports filed against
// the calling issuer's certificates, optionally bounded by from/to dates.
func (h *Handler) AgainstMe(c *gin.Context) {
	from, err := parseDate(c.Query("from"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid from date, want YYYY-MM-DD"))
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid to date, want YYYY-MM-DD"))
		return
	}

	infos, err := h.svc.ListByIssuer(c.GetInt("uid"), from, to)
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to list reports", err))
		return
	}
	httpx.OK(c, infos)
}

// ListAll handles GET /api/v1/reports — admin view over every report.
func (h *Handler) ListAll(c *gin.Context) {
	infos, err := h.svc.ListAll(c.Query("status"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to list reports", err))
		return
	}
	httpx.OK(c, infos)
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func failDispute(c *gin.Context, err error) {
	switch {
	case errors.Is(err, dispute.ErrReportNotFound),
		errors.Is(err, dispute.ErrCertificateNotFound):
		httpx.FailErr(c, httpx.ErrNotFound(err.Error()))
	case errors.Is(err, dispute.ErrAlreadyReported):
		httpx.FailErr(c, httpx.ErrAlreadyExists(err.Error()))
	case errors.Is(err, dispute.ErrNoIssuer):
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
	case errors.Is(err, dispute.ErrNotPending),
		errors.Is(err, dispute.ErrAlreadyRevoked),
		errors.Is(err, dispute.ErrNotRevokedYet):
		httpx.FailErr(c, httpx.ErrStateConflict(err.Error()))
	case errors.Is(err, dispute.ErrNotAuthorized):
		httpx.FailErr(c, httpx.ErrForbidden(err.Error()))
	default:
		httpx.FailErr(c, httpx.ErrDatabaseError("report operation failed", err))
	}
}
