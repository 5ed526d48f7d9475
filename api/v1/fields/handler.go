// Package fields exposes the admin field catalog API.
package fields

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Aswajit1997/Dicert/internal/catalog"
	"github.com/Aswajit1997/Dicert/internal/httpx"
	"github.com/Aswajit1997/Dicert/internal/model"
)

// Handler handles field catalog API
type Handler struct {
	svc *catalog.Service
}

// NewHandler creates a new field catalog handler
func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

// Add handles POST /api/v1/fields/add (multipart: field metadata + optional asset)
func (h *Handler) Add(c *gin.Context) {
	field, asset, assetName, ok := bindFieldForm(c)
	if !ok {
		return
	}

	created, err := h.svc.Add(c.Request.Context(), field, asset, assetName)
	if err != nil {
		failCatalog(c, err)
		return
	}
	httpx.OK(c, created)
}

// Update handles POST /api/v1/fields/update
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.PostForm("id"))
	if err != nil || id <= 0 {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid field id"))
		return
	}

	field, asset, assetName, ok := bindFieldForm(c)
	if !ok {
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), id, field, asset, assetName)
	if err != nil {
		failCatalog(c, err)
		return
	}
	httpx.OK(c, updated)
}

// SoftDeleteRequest identifies the field to act on.
type SoftDeleteRequest struct {
	ID int `json:"id" binding:"required"`
}

// SoftDelete handles POST /api/v1/fields/delete
func (h *Handler) SoftDelete(c *gin.Context) {
	var req SoftDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
		return
	}

	if err := h.svc.SoftDelete(req.ID); err != nil {
		failCatalog(c, err)
		return
	}
	httpx.OKMsg(c, "field removed from catalog", nil)
}

// PermanentDelete handles POST /api/v1/fields/delete-permanent
func (h *Handler) PermanentDelete(c *gin.Context) {
	var req SoftDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
		return
	}

	if err := h.svc.PermanentDelete(req.ID); err != nil {
		failCatalog(c, err)
		return
	}
	httpx.OKMsg(c, "field permanently deleted", nil)
}

// List handles GET /api/v1/fields
func (h *Handler) List(c *gin.Context) {
	fields, err := h.svc.List()
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to list fields", err))
		return
	}
	httpx.OK(c, fields)
}

// bindFieldForm reads the multipart form shared by Add and Update.
func bindFieldForm(c *gin.Context) (field model.TemplateField, asset []byte, assetName string, ok bool) {
	field = model.TemplateField{
		FieldName:       c.PostForm("fieldName"),
		HTMLPlaceholder: c.PostForm("htmlPlaceholder"),
		DefaultValue:    c.PostForm("placeHolder"),
		InputFrom:       c.PostForm("inputFrom"),
		FieldType:       c.PostForm("fieldType"),
	}
	if field.FieldName == "" {
		httpx.FailErr(c, httpx.ErrParamMissing("fieldName is required"))
		return field, nil, "", false
	}

	fileHeader, err := c.FormFile("asset")
	if err != nil {
		// Asset is optional; text fields carry none.
		return field, nil, "", true
	}

	f, err := fileHeader.Open()
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("failed to open uploaded asset"))
		return field, nil, "", false
	}
	defer f.Close()

	asset, err = io.ReadAll(f)
	if err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("failed to read uploaded asset", err))
		return field, nil, "", false
	}
	return field, asset, fileHeader.Filename, true
}

func failCatalog(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrFieldNotFound):
		httpx.FailErr(c, httpx.ErrNotFound(err.Error()))
	case errors.Is(err, catalog.ErrNotSoftDeleted):
		httpx.FailErr(c, httpx.ErrStateConflict(err.Error()))
	case errors.Is(err, catalog.ErrAssetRequired):
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
	default:
		httpx.FailErr(c, httpx.ErrDatabaseError("catalog operation failed", err))
	}
}
