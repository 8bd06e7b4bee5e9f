package handler

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"biblioteca/internal/middleware"
)

// flash queues a one-shot notice for the next rendered page.
func flash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	session.Save()
}

// takeFlashes drains queued notices.
func takeFlashes(c *gin.Context) []string {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	session.Save()

	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			messages = append(messages, s)
		}
	}
	return messages
}

// render executes a template with the current identity and pending flashes
// merged into the data.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = middleware.CurrentUser(c)
	data["Flashes"] = takeFlashes(c)
	c.HTML(status, name, data)
}
