package controllers

import (
	"net/http"

	"invitesmanager/internal/delivery/http/helpers"
	"invitesmanager/internal/domain"
)

// CreateAlbumRequest is the request body for POST /gallery.
type CreateAlbumRequest struct {
	EventID string `json:"eventId" validate:"required,uuid"`
	Name    string `json:"name" validate:"required,max=255"`
}

// RenameAlbumRequest is the request body for PUT /gallery/{id}.
type RenameAlbumRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// AddImagesRequest is the request body for POST /gallery/images.
type AddImagesRequest struct {
	AlbumID string   `json:"albumId" validate:"required,uuid"`
	Images  []string `json:"images" validate:"required,min=1,dive,required"`
}

// ImageOrderRequest moves one image.
type ImageOrderRequest struct {
	ID    string `json:"id" validate:"required,uuid"`
	Order int    `json:"order" validate:"min=0"`
}

// ReorderImagesRequest is the request body for PUT /gallery/images.
type ReorderImagesRequest struct {
	Images []ImageOrderRequest `json:"images" validate:"required,min=1,dive"`
}

// AlbumSuccessResponse is the success response envelope for endpoints returning one album.
type AlbumSuccessResponse struct {
	Data  *domain.Album     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AlbumListSuccessResponse is the success response envelope for GET /gallery/{id} (200).
type AlbumListSuccessResponse struct {
	Data  []*domain.Album   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AlbumImageListSuccessResponse is the success response envelope for endpoints returning images.
type AlbumImageListSuccessResponse struct {
	Data  []*domain.AlbumImage `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// GalleryController serves /gallery.
type GalleryController struct {
	Responder
	Service domain.GalleryService
}

func NewGalleryController(responder Responder, svc domain.GalleryService) *GalleryController {
	return &GalleryController{
		Responder: responder,
		Service:   svc,
	}
}

// ListAlbums godoc
// @Summary List the active albums of an event
// @Tags gallery
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} controllers.AlbumListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /gallery/{id} [get]
func (c *GalleryController) ListAlbums(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	albums, err := c.Service.ListAlbums(r.Context(), who, eventID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if albums == nil {
		albums = []*domain.Album{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, albums)
}

// CreateAlbum godoc
// @Summary Create an album
// @Tags gallery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateAlbumRequest true "Album data"
// @Success 201 {object} controllers.AlbumSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /gallery [post]
func (c *GalleryController) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req CreateAlbumRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	album, err := c.Service.CreateAlbum(r.Context(), who, req.EventID, req.Name)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, album)
}

// RenameAlbum godoc
// @Summary Rename an album
// @Tags gallery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Album ID (UUID)"
// @Param body body RenameAlbumRequest true "New name"
// @Success 200 {object} controllers.AlbumSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /gallery/{id} [put]
func (c *GalleryController) RenameAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req RenameAlbumRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	album, err := c.Service.RenameAlbum(r.Context(), who, id, req.Name)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, album)
}

// DeactivateAlbum godoc
// @Summary Deactivate an album
// @Tags gallery
// @Security BearerAuth
// @Param id path string true "Album ID (UUID)"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /gallery/{id} [delete]
func (c *GalleryController) DeactivateAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeactivateAlbum(r.Context(), who, id); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckAlbum godoc
// @Summary Whether an event already has an active album with this name
// @Tags gallery
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "Event ID (UUID)"
// @Param album path string true "Album name"
// @Success 200 {object} helpers.APIResponse "data contains exists"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /gallery/check-album/{eventId}/{album} [get]
func (c *GalleryController) CheckAlbum(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventId")
	if !ok {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	exists, err := c.Service.AlbumExists(r.Context(), who, eventID, r.PathValue("album"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ExistsResponse{Exists: exists})
}

// ListImages godoc
// @Summary List the images of an album in display order
// @Tags gallery
// @Produce json
// @Security BearerAuth
// @Param id path string true "Album ID (UUID)"
// @Success 200 {object} controllers.AlbumImageListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /gallery/images/{id} [get]
func (c *GalleryController) ListImages(w http.ResponseWriter, r *http.Request) {
	albumID, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	images, err := c.Service.ListImages(r.Context(), who, albumID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if images == nil {
		images = []*domain.AlbumImage{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, images)
}

// AddImages godoc
// @Summary Add base64 images to an album
// @Description Images are appended after the current last position.
// @Tags gallery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AddImagesRequest true "Images"
// @Success 201 {object} controllers.AlbumImageListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /gallery/images [post]
func (c *GalleryController) AddImages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	var req AddImagesRequest
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
	added, err := c.Service.AddImages(r.Context(), who, req.AlbumID, images)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, added)
}

// ReorderImages godoc
// @Summary Reorder album images
// @Description All moves are applied in one transaction.
// @Tags gallery
// @Accept json
// @Security BearerAuth
// @Param body body ReorderImagesRequest true "New positions"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /gallery/images [put]
func (c *GalleryController) ReorderImages(w http.ResponseWriter, r *http.Request) {
	var req ReorderImagesRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	orders := make([]domain.ImageOrder, len(req.Images))
	for i, img := range req.Images {
		orders[i] = domain.ImageOrder{ID: img.ID, SortOrder: img.Order}
	}
	if err := c.Service.ReorderImages(r.Context(), who, orders); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeactivateImage godoc
// @Summary Remove an image from its album
// @Tags gallery
// @Security BearerAuth
// @Param id path string true "Image ID (UUID)"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /gallery/images/{id} [delete]
func (c *GalleryController) DeactivateImage(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeactivateImage(r.Context(), who, id); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
