package dto

// SendMailForm binds the outbound mail form.
type SendMailForm struct {
	To      string `form:"destinatario" binding:"required,email"`
	Subject string `form:"asunto" binding:"required,max=200"`
	Body    string `form:"cuerpo" binding:"required"`
}
