package controllers

import (
	"net/http"

	"invitesmanager/internal/delivery/http/helpers"
	"invitesmanager/internal/domain"
)

// ListErrorLogsResponse is the response body for GET /logs.
type ListErrorLogsResponse struct {
	Items      []*domain.ErrorLog     `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListErrorLogsSuccessResponse is the success response envelope for GET /logs (200).
type ListErrorLogsSuccessResponse struct {
	Data  ListErrorLogsResponse `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

type ErrorLogController struct {
	Responder
}

func NewErrorLogController(responder Responder) *ErrorLogController {
	return &ErrorLogController{Responder: responder}
}

// ListErrorLogs godoc
// @Summary List recent error log entries
// @Description Entries inside the retention window, newest first. Query: page, page_size.
// @Tags logs
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} controllers.ListErrorLogsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /logs [get]
func (c *ErrorLogController) ListErrorLogs(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	entries, total, err := c.ErrorLog.List(r.Context(), params)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []*domain.ErrorLog{}
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListErrorLogsResponse{Items: entries, Pagination: meta})
}
