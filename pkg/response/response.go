package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lendhive/service-rental/pkg/domain"
)

// Body is the envelope every endpoint returns.
type Body struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

// Meta carries pagination metadata on list responses.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// Success writes a 200 with the payload.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Created writes a 201 with the payload.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

// Paginated writes a 200 list response with pagination metadata.
func Paginated(c *gin.Context, items any, total int64, page, limit int) {
	totalPages := 0
	if limit > 0 && total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	c.JSON(http.StatusOK, Body{
		Success: true,
		Data:    items,
		Meta: &Meta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1 && total > 0,
		},
	})
}

// BadRequest writes a 400 with the message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Error: message})
}

// Unauthorized writes a 401 with the message.
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Body{Success: false, Error: message})
}

// Error maps a domain error kind to an HTTP status. Anything without a kind is
// an infrastructure failure and becomes an opaque 500.
func Error(c *gin.Context, err error) {
	kind, ok := domain.KindOf(err)
	if !ok {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, Body{Success: false, Error: "internal server error"})
		return
	}

	status := http.StatusBadRequest
	switch kind {
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindForbidden:
		status = http.StatusForbidden
	case domain.KindValidation, domain.KindOutOfBounds, domain.KindSelfBooking:
		status = http.StatusBadRequest
	case domain.KindInvalidState, domain.KindUnavailable, domain.KindAlreadyRated, domain.KindConflict:
		status = http.StatusConflict
	}
	c.JSON(status, Body{Success: false, Error: err.Error()})
}
