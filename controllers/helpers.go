package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ErrNoPermission untuk akses yang rolenya tidak cocok.
var ErrNoPermission = &CustomError{"You do not have permission"}

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// pageParams membaca ?page= dan ?limit= dengan default yang aman.
func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
