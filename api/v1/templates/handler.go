// Package templates exposes the template authoring API.
package templates

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Aswajit1997/Dicert/internal/httpx"
	"github.com/Aswajit1997/Dicert/internal/model"
	"github.com/Aswajit1997/Dicert/internal/template"
)

// CreateRequest represents create template request
type CreateRequest struct {
	Name         string               `json:"templateName" binding:"required"`
	MarkupHTML   string               `json:"templateHTML" binding:"required"`
	CustomFields []model.FieldBinding `json:"customFields"`
	DataFields   []model.FieldBinding `json:"csvFields"`
}

// UpdateRequest represents update template request
type UpdateRequest struct {
	ID           int                  `json:"id" binding:"required"`
	Name         *string              `json:"templateName"`
	MarkupHTML   *string              `json:"templateHTML"`
	CustomFields []model.FieldBinding `json:"customFields"`
	DataFields   []model.FieldBinding `json:"csvFields"`
}

// DeleteRequest represents delete template request
type DeleteRequest struct {
	ID int `json:"id" binding:"required"`
}

// Handler handles templates API
type Handler struct {
	svc *template.Service
}

// NewHandler creates a new templates handler
func NewHandler(svc *template.Service) *Handler {
	return &Handler{svc: svc}
}

// Create handles POST /api/v1/templates/create
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
		return
	}

	uid := c.GetInt("uid")
	tpl, err := h.svc.Create(c.Request.Context(), uid, req.Name, req.MarkupHTML, req.CustomFields, req.DataFields)
	if err != nil {
		httpx.FailErr(c, httpx.ErrExternalError("failed to create template", err))
		return
	}
	httpx.OK(c, tpl)
}

// Update handles POST /api/v1/templates/update
func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
		return
	}

	tpl, err := h.svc.Edit(c.Request.Context(), req.ID, req.Name, req.MarkupHTML, req.CustomFields, req.DataFields)
	if err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound(err.Error()))
			return
		}
		httpx.FailErr(c, httpx.ErrExternalError("failed to update template", err))
		return
	}
	httpx.OK(c, tpl)
}

// Get handles GET /api/v1/templates/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid template id"))
		return
	}

	tpl, err := h.svc.Get(id)
	if err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound(err.Error()))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to fetch template", err))
		return
	}
	httpx.OK(c, tpl)
}

// List handles GET /api/v1/templates
func (h *Handler) List(c *gin.Context) {
	templates, err := h.svc.List(c.Query("search"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to list templates", err))
		return
	}
	httpx.OK(c, templates)
}

// Delete handles POST /api/v1/templates/delete
func (h *Handler) Delete(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
		return
	}

	if err := h.svc.Delete(req.ID); err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound(err.Error()))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to delete template", err))
		return
	}
	httpx.OKMsg(c, "template deleted", nil)
}

// BlankCSV handles GET /api/v1/templates/:id/blank-csv and streams the
// header row issuers fill in for bulk issuance.
func (h *Handler) BlankCSV(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid template id"))
		return
	}

	header, err := h.svc.BlankCSVHeader(id)
	if err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound(err.Error()))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to build CSV header", err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="recipients.csv"`)
	c.Header("Content-Type", "text/csv")
	w := csv.NewWriter(c.Writer)
	if err := w.Write(header); err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("failed to write CSV", err))
		return
	}
	w.Flush()
	c.Status(http.StatusOK)
}
