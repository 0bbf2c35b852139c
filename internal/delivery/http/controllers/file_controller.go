package controllers

import (
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"invitesmanager/internal/delivery/http/helpers"
	"invitesmanager/internal/domain"
)

const maxUploadBytes = 32 << 20

// UploadImagesRequest is the JSON form of POST /files.
type UploadImagesRequest struct {
	EventID string   `json:"eventId" validate:"required,uuid"`
	Images  []string `json:"images" validate:"required,min=1,dive,required"`
}

// FileUsageRequest tags one file.
type FileUsageRequest struct {
	ID    string `json:"id" validate:"required,uuid"`
	Usage string `json:"usage" validate:"len=1"`
}

// UpdateUsageRequest is the request body for PUT /files.
type UpdateUsageRequest struct {
	Files []FileUsageRequest `json:"files" validate:"required,min=1,dive"`
}

// FileListSuccessResponse is the success response envelope for endpoints returning files.
type FileListSuccessResponse struct {
	Data  []*domain.File    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// FileController serves /files.
type FileController struct {
	Responder
	Service domain.FileService
}

func NewFileController(responder Responder, svc domain.FileService) *FileController {
	return &FileController{
		Responder: responder,
		Service:   svc,
	}
}

// Upload godoc
// @Summary Upload event media
// @Description application/json uploads base64 images (downscaled before storage). multipart/form-data uploads one audio file in field "audio" with the event id in field "eventId".
// @Tags files
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param body body UploadImagesRequest false "Images (JSON form)"
// @Param eventId formData string false "Event ID (multipart form)"
// @Param audio formData file false "Audio file (multipart form)"
// @Success 201 {object} controllers.FileListSuccessResponse "data contains the stored files"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /files [post]
func (c *FileController) Upload(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		c.uploadAudio(w, r)
		return
	}
	c.uploadImages(w, r)
}

func (c *FileController) uploadImages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	var req UploadImagesRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	images, details := decodeImages(req.Images)
	if len(details) > 0 {
		helpers.WriteValidationError(w, details)
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	files, err := c.Service.UploadImages(r.Context(), who, req.EventID, images)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, files)
}

func (c *FileController) uploadAudio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	eventID := strings.TrimSpace(r.FormValue("eventId"))
	if _, err := uuid.Parse(eventID); err != nil {
		helpers.WriteValidationError(w, []helpers.FieldError{{Field: "eventId", Message: "must be a valid UUID"}})
		return
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		helpers.WriteValidationError(w, []helpers.FieldError{{Field: "audio", Message: "is required"}})
		return
	}
	defer file.Close()

	who, ok := caller(w, r)
	if !ok {
		return
	}
	contentType := header.Header.Get("Content-Type")
	stored, err := c.Service.UploadAudio(r.Context(), who, eventID, header.Filename, contentType, file, header.Size)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, []*domain.File{stored})
}

// ListFiles godoc
// @Summary List the files of an event
// @Tags files
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} controllers.FileListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /files/{id} [get]
func (c *FileController) ListFiles(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	files, err := c.Service.ListByEvent(r.Context(), who, eventID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if files == nil {
		files = []*domain.File{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, files)
}

// UpdateUsage godoc
// @Summary Tag files with a usage marker
// @Description Every tag is a single character. All updates are applied in one transaction.
// @Tags files
// @Accept json
// @Security BearerAuth
// @Param body body UpdateUsageRequest true "Usage tags"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /files [put]
func (c *FileController) UpdateUsage(w http.ResponseWriter, r *http.Request) {
	var req UpdateUsageRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	updates := make([]domain.UsageUpdate, len(req.Files))
	for i, f := range req.Files {
		updates[i] = domain.UsageUpdate{ID: f.ID, Usage: f.Usage}
	}
	if err := c.Service.UpdateUsage(r.Context(), who, updates); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteFiles godoc
// @Summary Delete files
// @Description Each stored object is removed before its row; a storage failure keeps the row so the call can be retried.
// @Tags files
// @Accept json
// @Security BearerAuth
// @Param body body IDsRequest true "File IDs"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /files [delete]
func (c *FileController) DeleteFiles(w http.ResponseWriter, r *http.Request) {
	var req IDsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), who, req.IDs); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
