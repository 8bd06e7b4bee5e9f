package dto

// UploadDocumentForm binds the metadata fields of the multipart upload.
// The file itself is read from the "archivo" part.
type UploadDocumentForm struct {
	Title       string `form:"titulo" binding:"required,max=200"`
	Description string `form:"descripcion" binding:"max=2000"`
}
