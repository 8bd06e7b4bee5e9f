package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"biblioteca/internal/dto"
	"biblioteca/internal/middleware"
	"biblioteca/internal/repository"
	"biblioteca/internal/service"
)

type AdminHandler struct {
	catalogService service.CatalogService
	commentService service.CommentService
	userRepo       repository.UserRepository
	uploadMaxBytes int64
	logger         *slog.Logger
}

func NewAdminHandler(
	catalogService service.CatalogService,
	commentService service.CommentService,
	userRepo repository.UserRepository,
	uploadMaxBytes int64,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		catalogService: catalogService,
		commentService: commentService,
		userRepo:       userRepo,
		uploadMaxBytes: uploadMaxBytes,
		logger:         logger,
	}
}

// denyUnprivileged flashes a notice and redirects ordinary users to the
// catalog. Returns true when the request was rejected.
func (h *AdminHandler) denyUnprivileged(c *gin.Context) bool {
	user := middleware.CurrentUser(c)
	if user != nil && user.IsPrivileged() {
		return false
	}
	flash(c, "No tienes permisos para acceder a esta sección.")
	c.Redirect(http.StatusSeeOther, "/biblioteca")
	c.Abort()
	return true
}

// Dashboard lists users, documents and comments for moderation.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	if h.denyUnprivileged(c) {
		return
	}

	users, err := h.userRepo.ListAll()
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		c.String(http.StatusInternalServerError, "error interno")
		return
	}

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

	render(c, http.StatusOK, "admin.html", gin.H{
		"Users":     users,
		"Documents": documents,
		"Comments":  comments,
	})
}

// UploadPDF handles the multipart document upload.
func (h *AdminHandler) UploadPDF(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var form dto.UploadDocumentForm
	if err := c.ShouldBind(&form); err != nil {
		flash(c, "El título del documento es obligatorio.")
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}

	fileHeader, err := c.FormFile("archivo")
	if err != nil {
		flash(c, "Selecciona un archivo PDF para subir.")
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}
	if fileHeader.Size > h.uploadMaxBytes {
		flash(c, "El archivo supera el tamaño máximo permitido.")
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("failed to open uploaded file", "error", err)
		c.String(http.StatusInternalServerError, "error interno")
		return
	}
	defer file.Close()

	_, err = h.catalogService.Upload(c.Request.Context(), user, form.Title, form.Description, fileHeader.Filename, file)
	switch {
	case err == nil:
		flash(c, "Documento subido a la biblioteca.")
	case errors.Is(err, service.ErrUnauthorized):
		flash(c, "No tienes permisos para realizar esta acción.")
		c.Redirect(http.StatusSeeOther, "/biblioteca")
		return
	case errors.Is(err, service.ErrUnsupportedFileType):
		flash(c, "Solo se aceptan archivos PDF.")
	case errors.Is(err, service.ErrDuplicateFilename):
		flash(c, "Ya existe un documento con ese nombre de archivo.")
	default:
		h.logger.Error("failed to upload document", "error", err)
		c.String(http.StatusInternalServerError, "error interno")
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin")
}

// DeleteBook removes a document, its comments and (best-effort) its file.
func (h *AdminHandler) DeleteBook(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		flash(c, "Identificador de documento inválido.")
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}

	fileMissing, err := h.catalogService.Delete(c.Request.Context(), user, id)
	switch {
	case err == nil && fileMissing:
		flash(c, "Documento eliminado. El archivo físico no se encontró en el disco.")
	case err == nil:
		flash(c, "Documento eliminado.")
	case errors.Is(err, service.ErrUnauthorized):
		flash(c, "No tienes permisos para realizar esta acción.")
		c.Redirect(http.StatusSeeOther, "/biblioteca")
		return
	case errors.Is(err, service.ErrNotFound):
		flash(c, "El documento ya no existe.")
	default:
		h.logger.Error("failed to delete document", "document_id", id, "error", err)
		c.String(http.StatusInternalServerError, "error interno")
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin")
}

// DeleteComment removes a single comment.
func (h *AdminHandler) DeleteComment(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		flash(c, "Identificador de comentario inválido.")
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}

	err = h.commentService.Delete(c.Request.Context(), user, id)
	switch {
	case err == nil:
		flash(c, "Comentario eliminado.")
	case errors.Is(err, service.ErrUnauthorized):
		flash(c, "No tienes permisos para realizar esta acción.")
		c.Redirect(http.StatusSeeOther, "/biblioteca")
		return
	case errors.Is(err, service.ErrNotFound):
		flash(c, "El comentario ya no existe.")
	default:
		h.logger.Error("failed to delete comment", "comment_id", id, "error", err)
		c.String(http.StatusInternalServerError, "error interno")
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin")
}
