package dto

// AddCommentForm binds the comment form. Content is validated in the
// service so a blank submission maps to the typed empty-content error.
type AddCommentForm struct {
	DocumentID int64  `form:"documento_id" binding:"required"`
	Content    string `form:"contenido" binding:"max=5000"`
}
