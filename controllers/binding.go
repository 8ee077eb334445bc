package controllers

import (
	"errors"
	"io"
	"net/http"

	"pixelnote/constants"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes the body into obj and writes the error response itself
// when that fails. message is used for malformed or invalid payloads.
func bindJSON(ctx *gin.Context, obj any, message string) bool {
	return handleBindError(ctx, ctx.ShouldBindJSON(obj), message)
}

// bindOptionalJSON is bindJSON for endpoints where an empty body means {}.
func bindOptionalJSON(ctx *gin.Context, obj any, message string) bool {
	err := ctx.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		return true
	}
	return handleBindError(ctx, err, message)
}

func handleBindError(ctx *gin.Context, err error, message string) bool {
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": constants.ErrBodyTooLarge})
		return false
	}
	ctx.JSON(http.StatusBadRequest, gin.H{"error": message})
	return false
}
