package handlers

import (
	"net/http"
	"strconv"

	"github.com/blink-dev/blink/internal/apperr"
	"github.com/blink-dev/blink/internal/models"
	"github.com/blink-dev/blink/internal/services"
	"github.com/blink-dev/blink/internal/types"
	"github.com/blink-dev/blink/internal/utils"
	"github.com/gin-gonic/gin"
)

type CreateBlinkRequest struct {
	Name         string `json:"name" binding:"required"`
	TargetURL    string `json:"target_url" binding:"required,url"`
	RedirectCode string `json:"redirect_code" binding:"omitempty,min=4,max=16,alphanum"`
}

type UpdateBlinkRequest struct {
	Name      string `json:"name"`
	TargetURL string `json:"target_url" binding:"omitempty,url"`
}

type BlinkHandler struct {
	blinks *services.BlinkService
}

func NewBlinkHandler(blinks *services.BlinkService) *BlinkHandler {
	return &BlinkHandler{blinks: blinks}
}

func blinkResponse(blink models.Blink) types.BlinkResponse {
	return types.BlinkResponse{
		ID:           blink.ID,
		WorkspaceID:  blink.WorkspaceID,
		CreatorID:    blink.CreatorID,
		Name:         blink.Name,
		TargetURL:    blink.TargetURL,
		RedirectCode: blink.RedirectCode,
		CreatedAt:    blink.CreatedAt,
	}
}

func (h *BlinkHandler) Create(ctx *gin.Context) {
	identity, err := utils.GetIdentity(ctx)

	if err != nil {
		fail(ctx, apperr.AuthenticationRequired())
		return
	}

	member, err := utils.GetMembership(ctx)

	if err != nil {
		fail(ctx, apperr.AuthenticationRequired())
		return
	}

	var body CreateBlinkRequest

	if err := ctx.BindJSON(&body); err != nil {
		fail(ctx, apperr.Validation("invalid request body"))
		return
	}

	blink, err := h.blinks.Create(ctx.Request.Context(), member.WorkspaceID, identity.UserID, body.Name, body.TargetURL, body.RedirectCode)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, blinkResponse(*blink))
}

func (h *BlinkHandler) List(ctx *gin.Context) {
	member, err := utils.GetMembership(ctx)

	if err != nil {
		fail(ctx, apperr.AuthenticationRequired())
		return
	}

	blinks, err := h.blinks.List(ctx.Request.Context(), member.WorkspaceID)

	if err != nil {
		fail(ctx, err)
		return
	}

	response := make([]types.BlinkResponse, 0, len(blinks))

	for _, blink := range blinks {
		response = append(response, blinkResponse(blink))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *BlinkHandler) Get(ctx *gin.Context) {
	member, err := utils.GetMembership(ctx)

	if err != nil {
		fail(ctx, apperr.AuthenticationRequired())
		return
	}

	blinkID, err := strconv.ParseUint(ctx.Param("blink_id"), 10, 64)

	if err != nil {
		fail(ctx, apperr.Validation("invalid blink id"))
		return
	}

	blink, err := h.blinks.Get(ctx.Request.Context(), member.WorkspaceID, uint(blinkID))

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, blinkResponse(*blink))
}

// Update relies on RequireBlinkWriter having loaded and authorized the blink.
func (h *BlinkHandler) Update(ctx *gin.Context) {
	blink, err := utils.GetBlink(ctx)

	if err != nil {
		fail(ctx, apperr.AuthenticationRequired())
		return
	}

	var body UpdateBlinkRequest

	if err := ctx.BindJSON(&body); err != nil {
		fail(ctx, apperr.Validation("invalid request body"))
		return
	}

	if body.Name == "" && body.TargetURL == "" {
		fail(ctx, apperr.Validation("no valid fields to update"))
		return
	}

	updated, err := h.blinks.Update(ctx.Request.Context(), &blink, body.Name, body.TargetURL)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, blinkResponse(*updated))
}

func (h *BlinkHandler) Delete(ctx *gin.Context) {
	blink, err := utils.GetBlink(ctx)

	if err != nil {
		fail(ctx, apperr.AuthenticationRequired())
		return
	}

	if err := h.blinks.Delete(ctx.Request.Context(), &blink); err != nil {
		fail(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
