package util

import (
	"errors"
	"net/http"

	"github.com/charfaouimohammed/Atend-X/internal/errs"

	"github.com/gin-gonic/gin"
)

// Response is the data part of the unified success envelope.
type Response map[string]interface{}

// Business codes carried next to the HTTP status.
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeNotFound     = 40401
	CodeServerErr    = 50001
)

// Success writes the unified success envelope.
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error writes the unified error envelope.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// WriteError maps an error kind to its HTTP status and envelope. This is the
// single place transport codes are decided; services return errs sentinels.
func WriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrValidation), errors.Is(err, errs.ErrNoFace),
		errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrSessionClosed):
		Error(c, http.StatusBadRequest, CodeInvalidParam, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		Error(c, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, errs.ErrAuth):
		Error(c, http.StatusUnauthorized, CodeAuth, err.Error())
	default:
		Error(c, http.StatusInternalServerError, CodeServerErr, "internal server error")
	}
}
