// Package locker exposes the recipient eLocker API.
package locker

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Aswajit1997/Dicert/internal/httpx"
	lockersvc "github.com/Aswajit1997/Dicert/internal/locker"
)

// CreateFolderRequest represents create folder request
type CreateFolderRequest struct {
	Name string `json:"name" binding:"required"`
}

// MoveRequest represents add-certificate-to-folder request
type MoveRequest struct {
	CertificateID string `json:"certificateId" binding:"required"`
	FolderName    string `json:"folderName" binding:"required"`
}

// FavoriteRequest represents toggle favorite request
type FavoriteRequest struct {
	CertificateID string `json:"certificateId" binding:"required"`
}

// Handler handles eLocker API
type Handler struct {
	svc *lockersvc.Service
}

// NewHandler creates a new locker handler
func NewHandler(svc *lockersvc.Service) *Handler {
	return &Handler{svc: svc}
}

// CreateFolder handles POST /api/v1/locker/folders/create
func (h *Handler) CreateFolder(c *gin.Context) {
	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
		return
	}

	folder, err := h.svc.CreateFolder(c.GetInt("uid"), req.Name)
	if err != nil {
		if errors.Is(err, lockersvc.ErrFolderExists) {
			httpx.FailErr(c, httpx.ErrAlreadyExists(err.Error()))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to create folder", err))
		return
	}
	httpx.OK(c, folder)
}

// Upload handles POST /api/v1/locker/certificates/upload (multipart: file)
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing("file is required"))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("failed to open file"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("failed to read file", err))
		return
	}

	cert, err := h.svc.UploadCertificate(c.Request.Context(), c.GetInt("uid"), fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, lockersvc.ErrUnsupportedFormat) {
			httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
			return
		}
		httpx.FailErr(c, httpx.ErrExternalError("failed to store certificate", err))
		return
	}
	httpx.OK(c, cert)
}

// Move handles POST /api/v1/locker/certificates/move
func (h *Handler) Move(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
		return
	}

	cert, err := h.svc.AddCertificateToFolder(c.GetInt("uid"), req.CertificateID, req.FolderName)
	if err != nil {
		if errors.Is(err, lockersvc.ErrCertificateNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound(err.Error()))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to move certificate", err))
		return
	}
	httpx.OK(c, cert)
}

// ToggleFavorite handles POST /api/v1/locker/certificates/favorite
func (h *Handler) ToggleFavorite(c *gin.Context) {
	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
		return
	}

	cert, err := h.svc.ToggleFavorite(c.GetInt("uid"), req.CertificateID)
	if err != nil {
		if errors.Is(err, lockersvc.ErrCertificateNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound(err.Error()))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to toggle favorite", err))
		return
	}
	httpx.OK(c, cert)
}

// List handles GET /api/v1/locker/certificates?folderId=N
func (h *Handler) List(c *gin.Context) {
	var folderID *int
	if raw := c.Query("folderId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid folderId"))
			return
		}
		folderID = &id
	}

	certs, err := h.svc.ListCertificates(c.GetInt("uid"), folderID)
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to list certificates", err))
		return
	}
	httpx.OK(c, certs)
}
