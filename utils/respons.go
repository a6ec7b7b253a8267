package utils

import (
	"math"

	"github.com/gin-gonic/gin"
)

// APIResponse adalah envelope seragam untuk semua endpoint.
type APIResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination untuk endpoint list.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination menghitung totalPages dari total baris.
func NewPagination(page, limit int, total int64) Pagination {
	pages := int(math.Ceil(float64(total) / float64(limit)))
	if pages < 1 {
		pages = 1
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Success: code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondPage seperti RespondJSON tapi menyertakan blok pagination.
func RespondPage(c *gin.Context, code int, message string, data interface{}, p Pagination) {
	c.JSON(code, APIResponse{
		Success:    code >= 200 && code < 300,
		Message:    message,
		Data:       data,
		Pagination: &p,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, APIResponse{
		Success: false,
		Error:   err.Error(),
	})
}
