package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campusiq-api/internal/middleware"
	"github.com/noah-isme/campusiq-api/internal/models"
	appErrors "github.com/noah-isme/campusiq-api/pkg/errors"
)

func callerFromContext(c *gin.Context) (models.Caller, error) {
	claims := middleware.Claims(c)
	if claims == nil {
		return models.Caller{}, appErrors.ErrUnauthorized
	}
	return claims.Caller(), nil
}
