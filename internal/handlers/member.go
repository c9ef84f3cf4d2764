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

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

type UpdateMemberRequest struct {
	Role string `json:"role" binding:"required"`
}

type MemberHandler struct {
	workspaces *services.WorkspaceService
}

func NewMemberHandler(workspaces *services.WorkspaceService) *MemberHandler {
	return &MemberHandler{workspaces: workspaces}
}

func memberResponse(member models.WorkspaceMember) types.MemberResponse {
	return types.MemberResponse{
		UserID: member.UserID,
		Name:   member.User.Name,
		Email:  member.User.Email,
		Role:   string(member.Role),
	}
}

func (h *MemberHandler) List(ctx *gin.Context) {
	member, err := utils.GetMembership(ctx)

	if err != nil {
		fail(ctx, apperr.AuthenticationRequired())
		return
	}

	members, err := h.workspaces.ListMembers(ctx.Request.Context(), member.WorkspaceID)

	if err != nil {
		fail(ctx, err)
		return
	}

	response := make([]types.MemberResponse, 0, len(members))

	for _, m := range members {
		response = append(response, memberResponse(m))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *MemberHandler) Add(ctx *gin.Context) {
	member, err := utils.GetMembership(ctx)

	if err != nil {
		fail(ctx, apperr.AuthenticationRequired())
		return
	}

	var body AddMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		fail(ctx, apperr.Validation("invalid request body"))
		return
	}

	added, err := h.workspaces.AddMember(ctx.Request.Context(), member.WorkspaceID, body.Email, models.Role(body.Role))

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, memberResponse(*added))
}

func (h *MemberHandler) UpdateRole(ctx *gin.Context) {
	member, err := utils.GetMembership(ctx)

	if err != nil {
		fail(ctx, apperr.AuthenticationRequired())
		return
	}

	userID, err := strconv.ParseUint(ctx.Param("user_id"), 10, 64)

	if err != nil {
		fail(ctx, apperr.Validation("invalid user id"))
		return
	}

	var body UpdateMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		fail(ctx, apperr.Validation("invalid request body"))
		return
	}

	updated, err := h.workspaces.UpdateMemberRole(ctx.Request.Context(), member.WorkspaceID, uint(userID), models.Role(body.Role))

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, memberResponse(*updated))
}

// Remove deletes a membership. Administrators can remove anyone; a default
// member may only remove themself (leaving the workspace). The last-member
// guard lives in the service.
func (h *MemberHandler) Remove(ctx *gin.Context) {
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

	userID, err := strconv.ParseUint(ctx.Param("user_id"), 10, 64)

	if err != nil {
		fail(ctx, apperr.Validation("invalid user id"))
		return
	}

	target := uint(userID)

	if target != identity.UserID && !member.Role.AtLeast(models.RoleAdministrator) {
		fail(ctx, apperr.AccessDenied(ctx.Request.URL.Path))
		return
	}

	if err := h.workspaces.RemoveMember(ctx.Request.Context(), member.WorkspaceID, target); err != nil {
		fail(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
