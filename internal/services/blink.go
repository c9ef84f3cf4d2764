package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/blink-dev/blink/internal/apperr"
	"github.com/blink-dev/blink/internal/models"
	"github.com/blink-dev/blink/internal/shortcode"
	"gorm.io/gorm"
)

type BlinkService struct {
	log   *slog.Logger
	db    *gorm.DB
	alloc *shortcode.Allocator
}

func NewBlinkService(log *slog.Logger, db *gorm.DB, gen shortcode.CodeGenerator) *BlinkService {
	taken := func(ctx context.Context, code string) (bool, error) {
		var count int64

		err := db.WithContext(ctx).Model(&models.Blink{}).Where("redirect_code = ?", code).Count(&count).Error

		if err != nil {
			return false, err
		}

		return count > 0, nil
	}

	return &BlinkService{
		log:   log,
		db:    db,
		alloc: shortcode.NewAllocator(gen, taken),
	}
}

// Create stores a blink under the workspace. An empty customCode means the
// allocator picks a free one; a supplied code skips generation but passes the
// same uniqueness check. Either way uniqueness is global across workspaces,
// and the unique index turns an allocate/insert race into a Conflict instead
// of a double booking.
func (s *BlinkService) Create(ctx context.Context, workspaceID, creatorID uint, name, targetURL, customCode string) (*models.Blink, error) {
	const op = "blink.create"

	code := customCode

	if code == "" {
		allocated, err := s.alloc.AllocateUnused(ctx)

		if err != nil {
			return nil, err
		}

		code = allocated
	} else {
		var count int64

		err := s.db.WithContext(ctx).Model(&models.Blink{}).Where("redirect_code = ?", code).Count(&count).Error

		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if count > 0 {
			return nil, apperr.Conflict("redirect code already in use")
		}
	}

	blink := models.Blink{
		WorkspaceID:  workspaceID,
		CreatorID:    &creatorID,
		Name:         name,
		TargetURL:    targetURL,
		RedirectCode: code,
	}

	if err := s.db.WithContext(ctx).Create(&blink).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("redirect code already in use")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("blink created", slog.String("op", op), slog.Uint64("blink_id", uint64(blink.ID)), slog.String("code", code))

	return &blink, nil
}

func (s *BlinkService) List(ctx context.Context, workspaceID uint) ([]models.Blink, error) {
	var blinks []models.Blink

	err := s.db.WithContext(ctx).Where("workspace_id = ?", workspaceID).Find(&blinks).Error

	if err != nil {
		return nil, err
	}

	return blinks, nil
}

func (s *BlinkService) Get(ctx context.Context, workspaceID, blinkID uint) (*models.Blink, error) {
	var blink models.Blink

	err := s.db.WithContext(ctx).Where("id = ? AND workspace_id = ?", blinkID, workspaceID).First(&blink).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("blink")
	}

	if err != nil {
		return nil, err
	}

	return &blink, nil
}

// Update changes name and/or target URL. The redirect code is immutable:
// published short links must keep working.
func (s *BlinkService) Update(ctx context.Context, blink *models.Blink, name, targetURL string) (*models.Blink, error) {
	if name != "" {
		blink.Name = name
	}

	if targetURL != "" {
		blink.TargetURL = targetURL
	}

	if err := s.db.WithContext(ctx).Save(blink).Error; err != nil {
		return nil, err
	}

	return blink, nil
}

func (s *BlinkService) Delete(ctx context.Context, blink *models.Blink) error {
	const op = "blink.delete"

	if err := s.db.WithContext(ctx).Delete(blink).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("blink deleted", slog.String("op", op), slog.Uint64("blink_id", uint64(blink.ID)))

	return nil
}

// Resolve finds the blink behind a public redirect code.
func (s *BlinkService) Resolve(ctx context.Context, code string) (*models.Blink, error) {
	var blink models.Blink

	err := s.db.WithContext(ctx).Where("redirect_code = ?", code).First(&blink).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("redirect code")
	}

	if err != nil {
		return nil, err
	}

	return &blink, nil
}
