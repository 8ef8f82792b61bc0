// Package response defines the standard JSON envelope for all endpoints.
//
// Success: {"success": true, "data": {...}, "meta": {...}}
// Error:   {"success": false, "error": "...", "errors": {...}}
//
// Every handler must respond through these helpers so clients can rely
// on a single shape.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success is the envelope for successful responses.
type Success struct {
	Success bool           `json:"success"`
	Data    any            `json:"data"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Error is the envelope for error responses.
type Error struct {
	Success bool `json:"success"`

	// Message is a human-readable error description. Internal error
	// text must never leak here.
	Message string `json:"error"`

	// Errors carries optional field-level validation details.
	Errors map[string][]string `json:"errors,omitempty"`
}

// Pagination describes the meta block attached by Paginated.
type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

// OK sends a 200 response with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Success{Success: true, Data: data})
}

// OKWithMeta sends a 200 response with data and metadata.
func OKWithMeta(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, Success{Success: true, Data: data, Meta: meta})
}

// Created sends a 201 response with the created resource.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Success{Success: true, Data: data})
}

// NoContent sends a 204 response with no body.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated sends a 200 response with a pagination meta block.
func Paginated(c *gin.Context, items any, page, perPage, total int) {
	pages := 0
	if perPage > 0 {
		pages = (total + perPage - 1) / perPage
	}
	OKWithMeta(c, items, map[string]any{
		"pagination": Pagination{
			Page:    page,
			PerPage: perPage,
			Total:   total,
			Pages:   pages,
		},
	})
}

// Fail sends an error response with the given status code.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Error{Success: false, Message: message})
}

// BadRequest sends a 400 response, optionally with field-level errors.
func BadRequest(c *gin.Context, message string, errs map[string][]string) {
	c.JSON(http.StatusBadRequest, Error{Success: false, Message: message, Errors: errs})
}

// Unauthorized sends a 401 response.
func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 response.
func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, message)
}

// NotFound sends a 404 response.
func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message)
}

// Conflict sends a 409 response.
func Conflict(c *gin.Context, message string) {
	Fail(c, http.StatusConflict, message)
}

// UnprocessableEntity sends a 422 response with field-level errors.
func UnprocessableEntity(c *gin.Context, message string, errs map[string][]string) {
	c.JSON(http.StatusUnprocessableEntity, Error{Success: false, Message: message, Errors: errs})
}

// ServerError sends a 500 response with a generic message.
func ServerError(c *gin.Context) {
	Fail(c, http.StatusInternalServerError, "Internal server error")
}

// ServiceUnavailable sends a 503 response.
func ServiceUnavailable(c *gin.Context, message string) {
	Fail(c, http.StatusServiceUnavailable, message)
}
