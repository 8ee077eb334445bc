package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"pixelnote/apperr"
	"pixelnote/constants"
	"pixelnote/dto"
	"pixelnote/middlewares"
	"pixelnote/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IItemController serves one collection. The router mounts one per variant.
type IItemController interface {
	FindAll(ctx *gin.Context)
	FindById(ctx *gin.Context)
	Create(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

type ItemController struct {
	service services.IItemService
	log     *zap.Logger
}

func NewItemController(service services.IItemService, log *zap.Logger) IItemController {
	return &ItemController{
		service: service,
		log:     log.With(zap.String("collection", service.Variant().Collection())),
	}
}

func (c *ItemController) userID(ctx *gin.Context) (uint, bool) {
	userID, ok := middlewares.CurrentUserID(ctx)
	if !ok {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": constants.ErrAccessDenied})
	}
	return userID, ok
}

func (c *ItemController) itemID(ctx *gin.Context) (uint, bool) {
	itemID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || itemID == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrInvalidID})
		return 0, false
	}
	return uint(itemID), true
}

func (c *ItemController) fail(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": constants.ErrItemNotFound})
	case errors.Is(err, apperr.ErrNoOpUpdate):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": constants.ErrNothingToUpdate})
	default:
		c.log.Error(op+" item error", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": constants.ErrUnexpected})
	}
}

func (c *ItemController) FindAll(ctx *gin.Context) {
	userID, ok := c.userID(ctx)
	if !ok {
		return
	}

	items, err := c.service.FindAll(ctx.Request.Context(), userID)
	if err != nil {
		c.fail(ctx, "List", err)
		return
	}

	ctx.JSON(http.StatusOK, items)
}

func (c *ItemController) FindById(ctx *gin.Context) {
	userID, ok := c.userID(ctx)
	if !ok {
		return
	}
	itemID, ok := c.itemID(ctx)
	if !ok {
		return
	}

	item, err := c.service.FindById(ctx.Request.Context(), itemID, userID)
	if err != nil {
		c.fail(ctx, "Get", err)
		return
	}

	ctx.JSON(http.StatusOK, item)
}

func (c *ItemController) Create(ctx *gin.Context) {
	userID, ok := c.userID(ctx)
	if !ok {
		return
	}

	var input dto.CreateItemInput
	if !bindOptionalJSON(ctx, &input, constants.ErrInvalidInput) {
		return
	}

	newItem, err := c.service.Create(ctx.Request.Context(), input, userID)
	if err != nil {
		c.fail(ctx, "Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, newItem)
}

func (c *ItemController) Update(ctx *gin.Context) {
	userID, ok := c.userID(ctx)
	if !ok {
		return
	}
	itemID, ok := c.itemID(ctx)
	if !ok {
		return
	}

	var input dto.UpdateItemInput
	if !bindOptionalJSON(ctx, &input, constants.ErrInvalidInput) {
		return
	}

	updatedItem, err := c.service.Update(ctx.Request.Context(), itemID, userID, input)
	if err != nil {
		c.fail(ctx, "Update", err)
		return
	}

	ctx.JSON(http.StatusOK, updatedItem)
}

func (c *ItemController) Delete(ctx *gin.Context) {
	userID, ok := c.userID(ctx)
	if !ok {
		return
	}
	itemID, ok := c.itemID(ctx)
	if !ok {
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), itemID, userID); err != nil {
		c.fail(ctx, "Delete", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.DeleteResponse{OK: true})
}
