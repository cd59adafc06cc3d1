package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/bizlink-dev/bizlink/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error to its HTTP status. Anything outside the
// taxonomy is a storage or programming fault and answers a generic 500
// without leaking detail.
func respondError(ctx *gin.Context, err error) {
	var appErr *apperrors.Error

	if errors.As(err, &appErr) {
		ctx.JSON(appErr.HTTPStatus(), gin.H{"error": appErr.Message})
		return
	}

	log.Printf("Internal error: %v", err)
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
