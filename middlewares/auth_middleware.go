package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"pixelnote/apperr"
	"pixelnote/constants"
	"pixelnote/models"
	"pixelnote/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware guards every protected route. A missing bearer token is a
// 401, a token that fails verification is a 400. On success the verified
// user id is the only owner id handlers may use.
func AuthMiddleware(authService services.IAuthService, log *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, ok := BearerToken(ctx)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": constants.ErrAccessDenied})
			return
		}

		user, err := authService.Verify(ctx.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, apperr.ErrInvalidToken) {
				ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": constants.ErrInvalidToken})
				return
			}
			log.Error("Token verification failed", zap.Error(err))
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": constants.ErrUnexpected})
			return
		}

		ctx.Set(constants.ContextUserID, user.ID)
		ctx.Set(constants.ContextUser, *user)

		ctx.Next()
	}
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(ctx *gin.Context) (string, bool) {
	header := ctx.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// CurrentUser returns the identity set by AuthMiddleware.
func CurrentUser(ctx *gin.Context) (models.UserSummary, bool) {
	value, exists := ctx.Get(constants.ContextUser)
	if !exists {
		return models.UserSummary{}, false
	}
	user, ok := value.(models.UserSummary)
	return user, ok
}

// CurrentUserID returns the owner id set by AuthMiddleware.
func CurrentUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(constants.ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok && id != 0
}
