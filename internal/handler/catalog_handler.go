package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"biblioteca/internal/dto"
	"biblioteca/internal/middleware"
	"biblioteca/internal/service"
)

type CatalogHandler struct {
	catalogService service.CatalogService
	commentService service.CommentService
	logger         *slog.Logger
}

func NewCatalogHandler(catalogService service.CatalogService, commentService service.CommentService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		commentService: commentService,
		logger:         logger,
	}
}

// Biblioteca renders the catalog with every document and the comment feed.
func (h *CatalogHandler) Biblioteca(c *gin.Context) {
	documents, err := h.catalogService.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list documents", "error", err)
		c.String(http.StatusInternalServerError, "error interno")
		return
	}

	comments, err := h.commentService.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list comments", "error", err)
		c.String(http.StatusInternalServerError, "error interno")
		return
	}

	render(c, http.StatusOK, "biblioteca.html", gin.H{
		"Documents": documents,
		"Comments":  comments,
	})
}

// AddComment appends a comment to a document and redirects back to the
// catalog.
func (h *CatalogHandler) AddComment(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var form dto.AddCommentForm
	if err := c.ShouldBind(&form); err != nil {
		flash(c, "Comentario inválido.")
		c.Redirect(http.StatusSeeOther, "/biblioteca")
		return
	}

	_, err := h.commentService.Add(c.Request.Context(), user.ID, form.DocumentID, form.Content)
	switch {
	case err == nil:
		flash(c, "Comentario añadido.")
	case errors.Is(err, service.ErrEmptyContent):
		flash(c, "El comentario no puede estar vacío.")
	case errors.Is(err, service.ErrNotFound):
		flash(c, "El documento ya no existe.")
	default:
		h.logger.Error("failed to add comment", "error", err)
		c.String(http.StatusInternalServerError, "error interno")
		return
	}

	c.Redirect(http.StatusSeeOther, "/biblioteca")
}
