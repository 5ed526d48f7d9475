// Package auth exposes registration, login and OTP endpoints for the three
// actor types: recipients, issuing organizations and administrators.
package auth

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Aswajit1997/Dicert/internal/auth"
	"github.com/Aswajit1997/Dicert/internal/config"
	"github.com/Aswajit1997/Dicert/internal/httpx"
	"github.com/Aswajit1997/Dicert/internal/locker"
	"github.com/Aswajit1997/Dicert/internal/model"
	"github.com/Aswajit1997/Dicert/internal/otp"
)

// RegisterUserRequest represents recipient registration request
type RegisterUserRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	CountryCode string `json:"countryCode"`
	PhoneNumber string `json:"phoneNumber"`
}

// RegisterIssuerRequest represents issuer registration request
type RegisterIssuerRequest struct {
	OrganizationName    string `json:"organizationName" binding:"required"`
	OrganizationAddress string `json:"organizationAddress" binding:"required"`
	Email               string `json:"email" binding:"required,email"`
	CACNumber           string `json:"cacNumber" binding:"required"`
	Password            string `json:"password" binding:"required,min=6"`
	CountryCode         string `json:"countryCode"`
	PhoneNumber         string `json:"phoneNumber" binding:"required"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents login response data
type LoginResponse struct {
	Token    string `json:"token"`
	ExpireAt string `json:"expireAt"`
	Actor    Actor  `json:"actor"`
}

// Actor represents the authenticated principal in a response
type Actor struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// OTPRequest asks for a one-time code to be issued for an account.
type OTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=user issuer admin"`
}

// OTPVerifyRequest carries a code back for verification.
type OTPVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=user issuer admin"`
	Code  string `json:"code" binding:"required,len=6"`
}

// Handler handles auth API
type Handler struct {
	db      *gorm.DB
	cfg     *config.Config
	otp     *otp.Store
	lockers *locker.Service
}

// NewHandler creates a new auth handler
func NewHandler(db *gorm.DB, cfg *config.Config, otpStore *otp.Store, lockers *locker.Service) *Handler {
	return &Handler{db: db, cfg: cfg, otp: otpStore, lockers: lockers}
}

// RegisterUser handles POST /api/v1/auth/user/register
func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return
	}

	var count int64
	if err := h.db.Model(&model.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to check existing account", err))
		return
	}
	if count > 0 {
		httpx.FailErr(c, httpx.ErrAlreadyExists("an account with this email already exists"))
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("failed to hash password", err))
		return
	}

	user := model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		CountryCode:  req.CountryCode,
		PhoneNumber:  req.PhoneNumber,
	}
	if err := h.db.Create(&user).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to create account", err))
		return
	}

	// Every recipient gets an eLocker on signup.
	if _, err := h.lockers.EnsureLocker(user.ID); err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to create eLocker", err))
		return
	}

	httpx.OK(c, Actor{ID: user.ID, Name: user.Name, Email: user.Email, Role: auth.RoleUser})
}

// RegisterIssuer handles POST /api/v1/auth/issuer/register
func (h *Handler) RegisterIssuer(c *gin.Context) {
	var req RegisterIssuerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return
	}

	var count int64
	if err := h.db.Model(&model.Issuer{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to check existing account", err))
		return
	}
	if count > 0 {
		httpx.FailErr(c, httpx.ErrAlreadyExists("an organization with this email already exists"))
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("failed to hash password", err))
		return
	}

	issuer := model.Issuer{
		OrganizationName:    req.OrganizationName,
		OrganizationAddress: req.OrganizationAddress,
		Email:               req.Email,
		CACNumber:           req.CACNumber,
		PasswordHash:        hashed,
		CountryCode:         req.CountryCode,
		PhoneNumber:         req.PhoneNumber,
	}
	if err := h.db.Create(&issuer).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to create account", err))
		return
	}

	httpx.OK(c, Actor{ID: issuer.ID, Name: issuer.OrganizationName, Email: issuer.Email, Role: auth.RoleIssuer})
}

// LoginUser handles POST /api/v1/auth/user/login
func (h *Handler) LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	var user model.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		h.failLogin(c, err)
		return
	}
	if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
		httpx.FailErr(c, httpx.ErrInvalidToken("invalid credentials"))
		return
	}

	h.issueToken(c, user.ID, user.Name, user.Email, auth.RoleUser)
}

// LoginIssuer handles POST /api/v1/auth/issuer/login
func (h *Handler) LoginIssuer(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	var issuer model.Issuer
	if err := h.db.Where("email = ?", req.Email).First(&issuer).Error; err != nil {
		h.failLogin(c, err)
		return
	}
	if !issuer.Active {
		httpx.FailErr(c, httpx.ErrForbidden("organization account is deactivated"))
		return
	}
	if err := auth.ComparePassword(issuer.PasswordHash, req.Password); err != nil {
		httpx.FailErr(c, httpx.ErrInvalidToken("invalid credentials"))
		return
	}

	h.issueToken(c, issuer.ID, issuer.OrganizationName, issuer.Email, auth.RoleIssuer)
}

// LoginAdmin handles POST /api/v1/auth/admin/login
func (h *Handler) LoginAdmin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	var admin model.Admin
	if err := h.db.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		h.failLogin(c, err)
		return
	}
	if err := auth.ComparePassword(admin.PasswordHash, req.Password); err != nil {
		httpx.FailErr(c, httpx.ErrInvalidToken("invalid credentials"))
		return
	}

	h.issueToken(c, admin.ID, admin.Name, admin.Email, auth.RoleAdmin)
}

// RequestOTP handles POST /api/v1/auth/otp/request
func (h *Handler) RequestOTP(c *gin.Context) {
	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return
	}

	code, err := h.otp.Create(c.Request.Context(), req.Role, req.Email)
	if err != nil {
		httpx.FailErr(c, httpx.ErrExternalError("failed to issue OTP", err))
		return
	}

	// The code travels out of band; echoing it here is for the mailer hook.
	httpx.OKMsg(c, "OTP issued", gin.H{"ttlSeconds": 180, "code": code})
}

// VerifyOTP handles POST /api/v1/auth/otp/verify
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return
	}

	if err := h.otp.Verify(c.Request.Context(), req.Role, req.Email, req.Code); err != nil {
		if errors.Is(err, otp.ErrInvalidOTP) {
			httpx.FailErr(c, httpx.ErrInvalidToken("invalid or expired OTP"))
			return
		}
		httpx.FailErr(c, httpx.ErrExternalError("failed to verify OTP", err))
		return
	}

	httpx.OKMsg(c, "OTP verified", nil)
}

func (h *Handler) failLogin(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Unknown account and wrong password answer the same way.
		httpx.FailErr(c, httpx.ErrInvalidToken("invalid credentials"))
		return
	}
	httpx.FailErr(c, httpx.ErrDatabaseError("database error", err))
}

func (h *Handler) issueToken(c *gin.Context, id int, name, email, role string) {
	expireAt := time.Now().Add(time.Duration(h.cfg.JWT.ExpireMinutes) * time.Minute)
	token, err := auth.GenerateToken(id, email, role, expireAt, h.cfg.JWT.Issuer)
	if err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("failed to generate token", err))
		return
	}

	httpx.OK(c, LoginResponse{
		Token:    token,
		ExpireAt: expireAt.Format(time.RFC3339),
		Actor:    Actor{ID: id, Name: name, Email: email, Role: role},
	})
}
