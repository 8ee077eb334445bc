package controllers

import (
	"errors"
	"net/http"

	"pixelnote/apperr"
	"pixelnote/constants"
	"pixelnote/dto"
	"pixelnote/middlewares"
	"pixelnote/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type IAuthController interface {
	Register(ctx *gin.Context)
	Login(ctx *gin.Context)
	Verify(ctx *gin.Context)
	Logout(ctx *gin.Context)
}

type AuthController struct {
	service services.IAuthService
	log     *zap.Logger
}

func NewAuthController(service services.IAuthService, log *zap.Logger) IAuthController {
	return &AuthController{service: service, log: log}
}

func (c *AuthController) Register(ctx *gin.Context) {
	var input dto.RegisterInput
	if !bindJSON(ctx, &input, constants.ErrEmailPasswordNeeded) {
		return
	}

	userID, err := c.service.Register(ctx.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrDuplicateIdentity) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrEmailExists})
			return
		}
		c.log.Error("Register failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": constants.ErrUnexpected})
		return
	}

	c.log.Info("User registered", zap.Uint("user_id", userID))
	ctx.JSON(http.StatusCreated, dto.RegisterResponse{UserID: userID})
}

func (c *AuthController) Login(ctx *gin.Context) {
	var input dto.LoginInput
	if !bindJSON(ctx, &input, constants.ErrEmailPasswordNeeded) {
		return
	}

	result, err := c.service.Login(ctx.Request.Context(), input.Email, input.Password)
	if err != nil {
		// Same answer for both so accounts cannot be enumerated
		if errors.Is(err, apperr.ErrUnknownIdentity) || errors.Is(err, apperr.ErrInvalidCredential) {
			c.log.Debug("Login rejected", zap.Error(err))
			ctx.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrInvalidLogin})
			return
		}
		c.log.Error("Login failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": constants.ErrUnexpected})
		return
	}

	ctx.JSON(http.StatusOK, dto.LoginResponse{
		Token: result.Token,
		User:  result.User,
	})
}

// Verify runs behind AuthMiddleware, so reaching it means the token is good.
func (c *AuthController) Verify(ctx *gin.Context) {
	user, ok := middlewares.CurrentUser(ctx)
	if !ok {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": constants.ErrAccessDenied})
		return
	}
	ctx.JSON(http.StatusOK, dto.VerifyResponse{Valid: true, User: user})
}

func (c *AuthController) Logout(ctx *gin.Context) {
	tokenString, ok := middlewares.BearerToken(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": constants.ErrAccessDenied})
		return
	}

	if err := c.service.Logout(ctx.Request.Context(), tokenString); err != nil {
		if errors.Is(err, apperr.ErrInvalidToken) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrInvalidToken})
			return
		}
		c.log.Error("Logout failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": constants.ErrUnexpected})
		return
	}

	ctx.JSON(http.StatusOK, dto.DeleteResponse{OK: true})
}
