package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"biblioteca/internal/config"
	"biblioteca/internal/middleware"
	"biblioteca/internal/repository"
	"biblioteca/internal/service"
	"biblioteca/web"
)

// Services bundles the collaborators the HTTP surface needs.
type Services struct {
	Auth     service.AuthService
	Catalog  service.CatalogService
	Comments service.CommentService
	Notifier service.NotifierService
	Users    repository.UserRepository
}

// NewRouter wires the full HTTP surface: sessions, identity resolution,
// rate limiting on the credential routes, and the page handlers.
func NewRouter(cfg *config.Config, logger *slog.Logger, db *gorm.DB, svcs Services, loginLimiter gin.HandlerFunc) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = cfg.UploadMaxBytes

	r.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.html")))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("biblioteca_session", store))
	r.Use(middleware.ResolveUser(svcs.Auth))

	authHandler := NewAuthHandler(svcs.Auth, svcs.Notifier, logger)
	catalogHandler := NewCatalogHandler(svcs.Catalog, svcs.Comments, logger)
	mailHandler := NewMailHandler(svcs.Notifier)
	adminHandler := NewAdminHandler(svcs.Catalog, svcs.Comments, svcs.Users, cfg.UploadMaxBytes, logger)

	r.GET("/healthz", healthz(db))

	r.GET("/", authHandler.Index)
	r.GET("/login", authHandler.LoginForm)
	r.POST("/login", loginLimiter, authHandler.Login)
	r.GET("/register", authHandler.RegisterForm)
	r.POST("/register", loginLimiter, authHandler.Register)

	authed := r.Group("/", middleware.RequireUser())
	{
		authed.GET("/logout", authHandler.Logout)
		authed.GET("/biblioteca", catalogHandler.Biblioteca)
		authed.POST("/agregar_comentario", catalogHandler.AddComment)
		authed.GET("/enviar_correo", mailHandler.Form)
		authed.POST("/enviar_correo", mailHandler.Send)

		// Privileged checks happen inside the handlers and services, not
		// through a role middleware.
		authed.GET("/admin", adminHandler.Dashboard)
		authed.POST("/admin/upload_pdf", adminHandler.UploadPDF)
		authed.POST("/admin/delete_book/:id", adminHandler.DeleteBook)
		authed.POST("/admin/delete_comment/:id", adminHandler.DeleteComment)
	}

	return r
}

// healthz reports liveness and database reachability.
func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
