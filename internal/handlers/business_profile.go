package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bizlink-dev/bizlink/db"
	"github.com/bizlink-dev/bizlink/internal/models"
	"github.com/bizlink-dev/bizlink/internal/services"
	"github.com/bizlink-dev/bizlink/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateBusinessProfileRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	Industry    string            `json:"industry"`
	Website     string            `json:"website"`
	LogoURL     string            `json:"logo_url"`
	Links       map[string]string `json:"links"`
}

type UpdateBusinessProfileRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	Industry    string            `json:"industry"`
	Website     string            `json:"website"`
	LogoURL     string            `json:"logo_url"`
	Links       map[string]string `json:"links"`
}

type BusinessProfileResponse struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Industry    string            `json:"industry,omitempty"`
	Website     string            `json:"website,omitempty"`
	LogoURL     string            `json:"logo_url,omitempty"`
	Links       map[string]string `json:"links,omitempty"`
	OwnerID     uint              `json:"owner_id"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
}

func profileResponse(profile models.BusinessProfile) BusinessProfileResponse {
	resp := BusinessProfileResponse{
		ID:          profile.ID,
		Name:        profile.Name,
		Description: profile.Description,
		Industry:    profile.Industry,
		Website:     profile.Website,
		LogoURL:     profile.LogoURL,
		OwnerID:     profile.OwnerID,
		IsActive:    profile.IsActive,
		CreatedAt:   profile.CreatedAt,
	}

	if len(profile.Links) > 0 {
		_ = json.Unmarshal(profile.Links, &resp.Links)
	}

	return resp
}

func marshalLinks(links map[string]string) (datatypes.JSON, error) {
	if len(links) == 0 {
		return nil, nil
	}

	raw, err := json.Marshal(links)

	if err != nil {
		return nil, err
	}

	return datatypes.JSON(raw), nil
}

func CreateBusinessProfile(ctx *gin.Context) {
	var body CreateBusinessProfileRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	links, err := marshalLinks(body.Links)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid links format"})
		return
	}

	profile := models.BusinessProfile{
		Name:        body.Name,
		Description: body.Description,
		Industry:    body.Industry,
		Website:     body.Website,
		LogoURL:     body.LogoURL,
		Links:       links,
		OwnerID:     userID,
		IsActive:    true,
	}

	if err := db.DB.Create(&profile).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create business profile"})
		return
	}

	ctx.JSON(http.StatusCreated, profileResponse(profile))
}

// ListMyBusinessProfiles returns pages the caller owns or collaborates on.
func ListMyBusinessProfiles(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var profiles []models.BusinessProfile

	err = db.DB.
		Distinct("business_profiles.*").
		Joins("LEFT JOIN memberships ON memberships.business_profile_id = business_profiles.id AND memberships.user_id = ?", userID).
		Where("business_profiles.owner_id = ? OR memberships.user_id = ?", userID, userID).
		Find(&profiles).Error

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve business profiles"})
		return
	}

	response := make([]BusinessProfileResponse, 0, len(profiles))

	for _, profile := range profiles {
		response = append(response, profileResponse(profile))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetBusinessProfile(ctx *gin.Context) {
	profileID, err := utils.GetProfileID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profile models.BusinessProfile

	if err := db.DB.First(&profile, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Business profile not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve business profile"})
		}
		return
	}

	ctx.JSON(http.StatusOK, profileResponse(profile))
}

func UpdateBusinessProfile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	profileID, err := utils.GetProfileID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body UpdateBusinessProfileRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var profile models.BusinessProfile

	if err := db.DB.Where("id = ? AND owner_id = ?", profileID, userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Business profile not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve business profile"})
		}
		return
	}

	links, err := marshalLinks(body.Links)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid links format"})
		return
	}

	profile.Name = body.Name
	profile.Description = body.Description
	profile.Industry = body.Industry
	profile.Website = body.Website
	profile.LogoURL = body.LogoURL
	profile.Links = links

	if err := db.DB.Save(&profile).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update business profile"})
		return
	}

	ctx.JSON(http.StatusOK, profileResponse(profile))
}

func DeactivateBusinessProfile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	profileID, err := utils.GetProfileID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := services.DeactivateProfile(profileID, userID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"profile": summary})
}

func ReactivateBusinessProfile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	profileID, err := utils.GetProfileID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := services.ReactivateProfile(profileID, userID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"profile": summary})
}

func DeleteBusinessProfile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	profileID, err := utils.GetProfileID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.DeleteProfile(profileID, userID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
