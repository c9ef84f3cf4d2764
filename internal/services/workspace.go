package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/blink-dev/blink/internal/apperr"
	"github.com/blink-dev/blink/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkspaceService struct {
	log *slog.Logger
	db  *gorm.DB
}

// lockForUpdate takes a row lock where the dialect supports it. sqlite has no
// SELECT ... FOR UPDATE; its single-writer transactions serialize anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func NewWorkspaceService(log *slog.Logger, db *gorm.DB) *WorkspaceService {
	return &WorkspaceService{log: log, db: db}
}

// Create makes the workspace and enrolls the creator as its administrator in
// the same transaction, so a workspace never exists without a member.
func (s *WorkspaceService) Create(ctx context.Context, creatorID uint, name string) (*models.Workspace, error) {
	const op = "workspace.create"

	workspace := models.Workspace{Name: name}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&workspace).Error; err != nil {
			return err
		}

		member := models.WorkspaceMember{
			WorkspaceID: workspace.ID,
			UserID:      creatorID,
			Role:        models.RoleAdministrator,
		}

		return tx.Create(&member).Error
	})

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("workspace created", slog.String("op", op), slog.Uint64("workspace_id", uint64(workspace.ID)))

	return &workspace, nil
}

// ListForUser returns the workspaces the user is a member of.
func (s *WorkspaceService) ListForUser(ctx context.Context, userID uint) ([]models.Workspace, error) {
	var workspaces []models.Workspace

	err := s.db.WithContext(ctx).
		Joins("JOIN workspace_members ON workspace_members.workspace_id = workspaces.id").
		Where("workspace_members.user_id = ? AND workspace_members.deleted_at IS NULL", userID).
		Find(&workspaces).Error

	if err != nil {
		return nil, err
	}

	return workspaces, nil
}

func (s *WorkspaceService) Get(ctx context.Context, workspaceID uint) (*models.Workspace, error) {
	var workspace models.Workspace

	err := s.db.WithContext(ctx).First(&workspace, workspaceID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("workspace")
	}

	if err != nil {
		return nil, err
	}

	return &workspace, nil
}

func (s *WorkspaceService) Update(ctx context.Context, workspaceID uint, name string) (*models.Workspace, error) {
	workspace, err := s.Get(ctx, workspaceID)

	if err != nil {
		return nil, err
	}

	workspace.Name = name

	if err := s.db.WithContext(ctx).Save(workspace).Error; err != nil {
		return nil, err
	}

	return workspace, nil
}

// Delete removes the workspace with its memberships and blinks.
func (s *WorkspaceService) Delete(ctx context.Context, workspaceID uint) error {
	const op = "workspace.delete"

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workspace_id = ?", workspaceID).Delete(&models.Blink{}).Error; err != nil {
			return err
		}

		if err := tx.Unscoped().Where("workspace_id = ?", workspaceID).Delete(&models.WorkspaceMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Workspace{}, workspaceID).Error
	})

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("workspace deleted", slog.String("op", op), slog.Uint64("workspace_id", uint64(workspaceID)))

	return nil
}

func (s *WorkspaceService) ListMembers(ctx context.Context, workspaceID uint) ([]models.WorkspaceMember, error) {
	var members []models.WorkspaceMember

	err := s.db.WithContext(ctx).
		Preload("User").
		Where("workspace_id = ?", workspaceID).
		Find(&members).Error

	if err != nil {
		return nil, err
	}

	return members, nil
}

// AddMember enrolls the user with the given email. Adding someone who is
// already a member is a conflict.
func (s *WorkspaceService) AddMember(ctx context.Context, workspaceID uint, email string, role models.Role) (*models.WorkspaceMember, error) {
	if !role.Valid() {
		return nil, apperr.Validation("unknown role")
	}

	var user models.User

	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user")
	}

	if err != nil {
		return nil, err
	}

	member := models.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      user.ID,
		Role:        role,
	}

	if err := s.db.WithContext(ctx).Create(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("user is already a member of this workspace")
		}
		return nil, err
	}

	member.User = user

	return &member, nil
}

func (s *WorkspaceService) UpdateMemberRole(ctx context.Context, workspaceID, userID uint, role models.Role) (*models.WorkspaceMember, error) {
	if !role.Valid() {
		return nil, apperr.Validation("unknown role")
	}

	var member models.WorkspaceMember

	err := s.db.WithContext(ctx).
		Preload("User").
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("member")
	}

	if err != nil {
		return nil, err
	}

	member.Role = role

	if err := s.db.WithContext(ctx).Save(&member).Error; err != nil {
		return nil, err
	}

	return &member, nil
}

// RemoveMember deletes the membership unless it is the workspace's last one.
// The count and the delete run in one transaction with the workspace's member
// rows locked, so two concurrent removals cannot both observe "not last" and
// jointly empty the workspace.
func (s *WorkspaceService) RemoveMember(ctx context.Context, workspaceID, userID uint) error {
	const op = "workspace.remove_member"

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var members []models.WorkspaceMember

		err := lockForUpdate(tx).
			Where("workspace_id = ?", workspaceID).
			Find(&members).Error

		if err != nil {
			return err
		}

		var target *models.WorkspaceMember

		for i := range members {
			if members[i].UserID == userID {
				target = &members[i]
				break
			}
		}

		if target == nil {
			return apperr.NotFound("member")
		}

		if len(members) <= 1 {
			return apperr.Conflict("workspace must retain at least one member")
		}

		// Unscoped: the row must really go, or the (workspace_id, user_id)
		// unique index keeps the dead membership and the user can never rejoin.
		return tx.Unscoped().Delete(target).Error
	})

	if err != nil {
		return err
	}

	s.log.Info("member removed", slog.String("op", op), slog.Uint64("workspace_id", uint64(workspaceID)), slog.Uint64("user_id", uint64(userID)))

	return nil
}
