package handlers

import (
	"net/http"

	"github.com/blink-dev/blink/internal/apperr"
	"github.com/blink-dev/blink/internal/services"
	"github.com/blink-dev/blink/internal/types"
	"github.com/blink-dev/blink/internal/utils"
	"github.com/gin-gonic/gin"
)

type CreateWorkspaceRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateWorkspaceRequest struct {
	Name string `json:"name" binding:"required"`
}

type WorkspaceHandler struct {
	workspaces *services.WorkspaceService
}

func NewWorkspaceHandler(workspaces *services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces}
}

func (h *WorkspaceHandler) Create(ctx *gin.Context) {
	identity, err := utils.GetIdentity(ctx)

	if err != nil {
		fail(ctx, apperr.AuthenticationRequired())
		return
	}

	var body CreateWorkspaceRequest

	if err := ctx.BindJSON(&body); err != nil {
		fail(ctx, apperr.Validation("invalid request body"))
		return
	}

	workspace, err := h.workspaces.Create(ctx.Request.Context(), identity.UserID, body.Name)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.WorkspaceResponse{
		ID:   workspace.ID,
		Name: workspace.Name,
	})
}

func (h *WorkspaceHandler) List(ctx *gin.Context) {
	identity, err := utils.GetIdentity(ctx)

	if err != nil {
		fail(ctx, apperr.AuthenticationRequired())
		return
	}

	workspaces, err := h.workspaces.ListForUser(ctx.Request.Context(), identity.UserID)

	if err != nil {
		fail(ctx, err)
		return
	}

	response := make([]types.WorkspaceResponse, 0, len(workspaces))

	for _, workspace := range workspaces {
		response = append(response, types.WorkspaceResponse{
			ID:   workspace.ID,
			Name: workspace.Name,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *WorkspaceHandler) Get(ctx *gin.Context) {
	member, err := utils.GetMembership(ctx)

	if err != nil {
		fail(ctx, apperr.AuthenticationRequired())
		return
	}

	workspace, err := h.workspaces.Get(ctx.Request.Context(), member.WorkspaceID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.WorkspaceResponse{
		ID:   workspace.ID,
		Name: workspace.Name,
	})
}

func (h *WorkspaceHandler) Update(ctx *gin.Context) {
	member, err := utils.GetMembership(ctx)

	if err != nil {
		fail(ctx, apperr.AuthenticationRequired())
		return
	}

	var body UpdateWorkspaceRequest

	if err := ctx.BindJSON(&body); err != nil {
		fail(ctx, apperr.Validation("invalid request body"))
		return
	}

	workspace, err := h.workspaces.Update(ctx.Request.Context(), member.WorkspaceID, body.Name)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.WorkspaceResponse{
		ID:   workspace.ID,
		Name: workspace.Name,
	})
}

func (h *WorkspaceHandler) Delete(ctx *gin.Context) {
	member, err := utils.GetMembership(ctx)

	if err != nil {
		fail(ctx, apperr.AuthenticationRequired())
		return
	}

	if err := h.workspaces.Delete(ctx.Request.Context(), member.WorkspaceID); err != nil {
		fail(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
