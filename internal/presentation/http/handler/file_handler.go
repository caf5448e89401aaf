package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sigortaci/acente-api/internal/application/service"
	"github.com/sigortaci/acente-api/internal/presentation/http/dto/response"
	"github.com/sigortaci/acente-api/pkg/apperror"
)

// uploadField is the multipart field carrying the file
const uploadField = "file"

// FileHandler handles uploads and policy attachments
type FileHandler struct {
	fileService *service.FileService
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService *service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// Upload stores a file that a later policy create/update can reference
func (h *FileHandler) Upload(c *gin.Context) {
	input, closeFn, err := uploadInput(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeFn()

	stored, err := h.fileService.Upload(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, stored)
}

// List returns a policy's attachments
func (h *FileHandler) List(c *gin.Context) {
	policyID, err := ParseID(c, "id", "policy")
	if err != nil {
		response.Error(c, err)
		return
	}

	files, err := h.fileService.ListFiles(c.Request.Context(), policyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, files)
}

// Attach uploads a file straight onto a policy
func (h *FileHandler) Attach(c *gin.Context) {
	policyID, err := ParseID(c, "id", "policy")
	if err != nil {
		response.Error(c, err)
		return
	}

	input, closeFn, err := uploadInput(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeFn()

	file, err := h.fileService.AttachFile(c.Request.Context(), policyID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, file)
}

// Delete removes one attachment
func (h *FileHandler) Delete(c *gin.Context) {
	policyID, err := ParseID(c, "id", "policy")
	if err != nil {
		response.Error(c, err)
		return
	}
	fileID, err := ParseID(c, "fileId", "file")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.fileService.DeleteFile(c.Request.Context(), policyID, fileID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func uploadInput(c *gin.Context) (*service.UploadInput, func(), error) {
	header, err := c.FormFile(uploadField)
	if err != nil {
		return nil, nil, apperror.NewFieldError(uploadField, "is required")
	}

	f, err := header.Open()
	if err != nil {
		return nil, nil, apperror.NewStorageError(err)
	}

	return &service.UploadInput{
		Name: header.Filename,
		Size: header.Size,
		Body: f,
	}, func() { _ = f.Close() }, nil
}
