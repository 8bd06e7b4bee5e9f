package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"biblioteca/internal/dto"
	"biblioteca/internal/middleware"
	"biblioteca/internal/service"
)

type MailHandler struct {
	notifier service.NotifierService
}

func NewMailHandler(notifier service.NotifierService) *MailHandler {
	return &MailHandler{notifier: notifier}
}

func (h *MailHandler) Form(c *gin.Context) {
	render(c, http.StatusOK, "enviar_correo.html", nil)
}

// Send dispatches one outbound mail on behalf of the logged-in user.
// Delivery failure is a flash notice, not an error page.
func (h *MailHandler) Send(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var form dto.SendMailForm
	if err := c.ShouldBind(&form); err != nil {
		flash(c, "Revisa los datos del correo: destinatario, asunto y cuerpo son obligatorios.")
		c.Redirect(http.StatusSeeOther, "/enviar_correo")
		return
	}

	err := h.notifier.Send(c.Request.Context(), user, form.To, form.Subject, form.Body)
	if errors.Is(err, service.ErrDeliveryFailed) {
		flash(c, "Error al enviar el correo.")
	} else {
		flash(c, "Correo enviado exitosamente.")
	}

	c.Redirect(http.StatusSeeOther, "/enviar_correo")
}
