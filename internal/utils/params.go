package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func paramID(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, errors.New(name + " not found")
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		return 0, errors.New("invalid " + name)
	}

	return uint(id), nil
}

func GetProfileID(ctx *gin.Context) (uint, error) {
	return paramID(ctx, "profile_id")
}

func GetInvitationID(ctx *gin.Context) (uint, error) {
	return paramID(ctx, "invitation_id")
}

func GetMemberID(ctx *gin.Context) (uint, error) {
	return paramID(ctx, "member_id")
}

// GetPagination reads page/limit query parameters, tolerating absence and
// garbage; the services clamp the final values.
func GetPagination(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	return page, limit
}
