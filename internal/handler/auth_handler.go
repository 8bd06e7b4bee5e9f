package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"biblioteca/internal/dto"
	"biblioteca/internal/middleware"
	"biblioteca/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
	notifier    service.NotifierService
	logger      *slog.Logger
}

func NewAuthHandler(authService service.AuthService, notifier service.NotifierService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		notifier:    notifier,
		logger:      logger,
	}
}

// Index routes the bare domain to the catalog or the login form.
func (h *AuthHandler) Index(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusSeeOther, "/biblioteca")
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusSeeOther, "/biblioteca")
		return
	}
	render(c, http.StatusOK, "login.html", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusSeeOther, "/biblioteca")
		return
	}

	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		flash(c, "Email o contraseña inválidos.")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	user, err := h.authService.Login(form.Email, form.Password)
	if err != nil {
		// same notice for unknown email and wrong password
		flash(c, "Email o contraseña inválidos.")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		h.logger.Error("failed to save session", "error", err)
		c.String(http.StatusInternalServerError, "error interno")
		return
	}

	c.Redirect(http.StatusSeeOther, "/biblioteca")
}

func (h *AuthHandler) RegisterForm(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusSeeOther, "/biblioteca")
		return
	}
	render(c, http.StatusOK, "register.html", nil)
}

func (h *AuthHandler) Register(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusSeeOther, "/biblioteca")
		return
	}

	var form dto.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		flash(c, "Revisa los datos del formulario: todos los campos son obligatorios y la contraseña debe tener al menos 8 caracteres.")
		c.Redirect(http.StatusSeeOther, "/register")
		return
	}

	user, err := h.authService.Register(form.FirstName, form.LastName, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateEmail) {
			flash(c, "Este correo electrónico ya ha sido registrado.")
			c.Redirect(http.StatusSeeOther, "/register")
			return
		}
		h.logger.Error("registration failed", "error", err)
		c.String(http.StatusInternalServerError, "error interno")
		return
	}

	// Welcome mail is fire-and-forget: a failed delivery never rolls back
	// the registration.
	if err := h.notifier.SendWelcome(c.Request.Context(), user); err != nil {
		h.logger.Warn("welcome mail not delivered", "email", user.Email)
	}

	flash(c, "¡Cuenta creada! Por favor, inicia sesión.")
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(middleware.SessionUserKey)
	session.Save()
	c.Redirect(http.StatusSeeOther, "/login")
}
