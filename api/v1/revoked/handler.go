// Package revoked exposes the admin listing over the revoked store.
package revoked

import (
	"github.com/gin-gonic/gin"

	"github.com/Aswajit1997/Dicert/internal/httpx"
	"github.com/Aswajit1997/Dicert/internal/revoke"
)

// ListRequest represents revoked certificates listing request
type ListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Search   string `form:"search"`
}

// Handler handles revoked certificates API
type Handler struct {
	svc *revoke.Service
}

// NewHandler creates a new revoked certificates handler
func NewHandler(svc *revoke.Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /api/v1/revoked
func (h *Handler) List(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 15
	}

	items, total, err := h.svc.ListRevoked(req.Page, req.PageSize, req.Search)
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to list revoked certificates", err))
		return
	}
	httpx.OKItems(c, items, total, req.Page, req.PageSize)
}
