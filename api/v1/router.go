package v1

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	authapi "github.com/Aswajit1997/Dicert/api/v1/auth"
	"github.com/Aswajit1997/Dicert/api/v1/certificates"
	"github.com/Aswajit1997/Dicert/api/v1/fields"
	lockerapi "github.com/Aswajit1997/Dicert/api/v1/locker"
	"github.com/Aswajit1997/Dicert/api/v1/middleware"
	"github.com/Aswajit1997/Dicert/api/v1/reports"
	"github.com/Aswajit1997/Dicert/api/v1/revoked"
	"github.com/Aswajit1997/Dicert/api/v1/templates"
	"github.com/Aswajit1997/Dicert/internal/auth"
	"github.com/Aswajit1997/Dicert/internal/catalog"
	"github.com/Aswajit1997/Dicert/internal/config"
	"github.com/Aswajit1997/Dicert/internal/dispute"
	"github.com/Aswajit1997/Dicert/internal/httpx"
	"github.com/Aswajit1997/Dicert/internal/issue"
	"github.com/Aswajit1997/Dicert/internal/locker"
	"github.com/Aswajit1997/Dicert/internal/otp"
	"github.com/Aswajit1997/Dicert/internal/render"
	"github.com/Aswajit1997/Dicert/internal/revoke"
	"github.com/Aswajit1997/Dicert/internal/storage"
	"github.com/Aswajit1997/Dicert/internal/template"
	"github.com/Aswajit1997/Dicert/internal/uniqueid"
	"github.com/Aswajit1997/Dicert/internal/verify"

	"github.com/go-redis/redis/v8"
)

// Deps carries the shared collaborators handlers are built from.
type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Config   *config.Config
	Store    storage.ObjectStore
	Renderer render.Renderer
}

// SetupRouter sets up the API v1 routes
func SetupRouter(r *gin.Engine, deps Deps) {
	alloc := uniqueid.NewAllocator(deps.DB)
	lockerSvc := locker.NewService(deps.DB, deps.Store)
	templateSvc := template.NewService(deps.DB, deps.Renderer)
	catalogSvc := catalog.NewService(deps.DB, deps.Store)
	issueSvc := issue.NewService(deps.DB, deps.Store, deps.Renderer, alloc, lockerSvc)
	revokeSvc := revoke.NewService(deps.DB)
	disputeSvc := dispute.NewService(deps.DB, deps.Store)
	verifySvc := verify.NewService(deps.DB)
	otpStore := otp.NewStore(deps.Redis)

	authHandler := authapi.NewHandler(deps.DB, deps.Config, otpStore, lockerSvc)
	fieldsHandler := fields.NewHandler(catalogSvc)
	templatesHandler := templates.NewHandler(templateSvc)
	certsHandler := certificates.NewHandler(templateSvc, issueSvc, verifySvc, revokeSvc)
	reportsHandler := reports.NewHandler(disputeSvc)
	lockerHandler := lockerapi.NewHandler(lockerSvc)
	revokedHandler := revoked.NewHandler(revokeSvc)

	v1 := r.Group("/api/v1")
	{
		// Public routes (no authentication required)
		v1.GET("/ping", pingHandler)

		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/user/register", authHandler.RegisterUser)
			authGroup.POST("/user/login", authHandler.LoginUser)
			authGroup.POST("/issuer/register", authHandler.RegisterIssuer)
			authGroup.POST("/issuer/login", authHandler.LoginIssuer)
			authGroup.POST("/admin/login", authHandler.LoginAdmin)
			authGroup.POST("/otp/request", authHandler.RequestOTP)
			authGroup.POST("/otp/verify", authHandler.VerifyOTP)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/me", meHandler)

			// Field catalog: admin only
			fieldsGroup := protected.Group("/fields", middleware.RoleRequired(auth.RoleAdmin))
			{
				fieldsGroup.GET("", fieldsHandler.List)
				fieldsGroup.POST("/add", fieldsHandler.Add)
				fieldsGroup.POST("/update", fieldsHandler.Update)
				fieldsGroup.POST("/delete", fieldsHandler.SoftDelete)
				fieldsGroup.POST("/delete-permanent", fieldsHandler.PermanentDelete)
			}

			// Templates: admin authors, issuers read
			templatesGroup := protected.Group("/templates")
			{
				templatesGroup.GET("", templatesHandler.List)
				templatesGroup.GET("/:id", templatesHandler.Get)
				templatesGroup.GET("/:id/blank-csv", templatesHandler.BlankCSV)

				adminOnly := templatesGroup.Group("", middleware.RoleRequired(auth.RoleAdmin))
				adminOnly.POST("/create", templatesHandler.Create)
				adminOnly.POST("/update", templatesHandler.Update)
				adminOnly.POST("/delete", templatesHandler.Delete)
			}

			// Certificates: issuer operations plus shared verification
			certsGroup := protected.Group("/certificates")
			{
				certsGroup.POST("/verify-qr", certsHandler.VerifyQR)

				issuerOnly := certsGroup.Group("", middleware.RoleRequired(auth.RoleIssuer))
				issuerOnly.POST("/generate", certsHandler.Generate)
				issuerOnly.POST("/generate-bulk", certsHandler.GenerateBulk)
				issuerOnly.GET("/issued", certsHandler.ListIssued)
				issuerOnly.POST("/verify-code", certsHandler.VerifyCode)
				issuerOnly.POST("/revoke", certsHandler.Revoke)
				issuerOnly.POST("/revoke-bulk", certsHandler.RevokeBulk)
			}

			// Error reports
			reportsGroup := protected.Group("/reports")
			{
				reportsGroup.GET("", middleware.RoleRequired(auth.RoleAdmin), reportsHandler.ListAll)
				reportsGroup.POST("/resolve", middleware.RoleRequired(auth.RoleAdmin), reportsHandler.Resolve)

				reportsGroup.POST("/create", middleware.RoleRequired(auth.RoleUser), reportsHandler.Create)
				reportsGroup.GET("/mine", middleware.RoleRequired(auth.RoleUser), reportsHandler.Mine)

				reportsGroup.GET("/against-me", middleware.RoleRequired(auth.RoleIssuer), reportsHandler.AgainstMe)
				reportsGroup.POST("/confirm-valid", middleware.RoleRequired(auth.RoleIssuer), reportsHandler.ConfirmValid)
				reportsGroup.POST("/revoke", middleware.RoleRequired(auth.RoleIssuer), reportsHandler.Revoke)
			}

			// eLocker: recipients only
			lockerGroup := protected.Group("/locker", middleware.RoleRequired(auth.RoleUser))
			{
				lockerGroup.POST("/folders/create", lockerHandler.CreateFolder)
				lockerGroup.POST("/certificates/upload", lockerHandler.Upload)
				lockerGroup.POST("/certificates/move", lockerHandler.Move)
				lockerGroup.POST("/certificates/favorite", lockerHandler.ToggleFavorite)
				lockerGroup.GET("/certificates", lockerHandler.List)
			}

			// Revoked store: admin listing
			revokedGroup := protected.Group("/revoked", middleware.RoleRequired(auth.RoleAdmin))
			{
				revokedGroup.GET("", revokedHandler.List)
			}
		}
	}
}

// pingHandler handles the ping request using unified response
func pingHandler(c *gin.Context) {
	httpx.OK(c, gin.H{
		"pong": true,
	})
}

// meHandler returns current actor information
func meHandler(c *gin.Context) {
	uid, _ := c.Get("uid")
	email, _ := c.Get("email")
	role, _ := c.Get("role")

	httpx.OK(c, gin.H{
		"uid":   uid,
		"email": email,
		"role":  role,
	})
}
