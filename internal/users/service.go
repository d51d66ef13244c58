package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultHistoryWindow is how many recent recipes are excluded from new plans.
const DefaultHistoryWindow = 5

type Service struct {
	Repo   Repo
	Window int
}

func NewService(repo Repo, window int) *Service {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	return &Service{Repo: repo, Window: window}
}

// RecentRecipeIDs returns the user's last Window recipe ids, most recent first.
func (s *Service) RecentRecipeIDs(ctx context.Context, userID string) ([]int, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.Repo.RecentRecipeIDs(ctx, userID, s.Window)
}

// AppendRecipeHistory records recipes the user has been served.
func (s *Service) AppendRecipeHistory(ctx context.Context, userID string, recipeIDs []int) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if len(recipeIDs) == 0 {
		return fmt.Errorf("%w: recipeIds must not be empty", ErrInvalidInput)
	}
	for _, id := range recipeIDs {
		if id <= 0 {
			return fmt.Errorf("%w: recipe id %d must be positive", ErrInvalidInput, id)
		}
	}
	return s.Repo.AppendRecipeIDs(ctx, userID, recipeIDs)
}
