package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
)

// CategoryInput carries the fields of a category creation request.
type CategoryInput struct {
	Name  string               `json:"name"`
	Type  core.TransactionType `json:"type"`
	Color string               `json:"color"`
	Icon  string               `json:"icon"`
}

// CategoryService lists and creates per-user categories.
type CategoryService struct {
	store Store
}

func NewCategoryService(store Store) *CategoryService {
	return &CategoryService{store: store}
}

func (s *CategoryService) List(ctx context.Context, userID int64) ([]core.Category, error) {
	cats, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *CategoryService) Create(ctx context.Context, userID int64, in CategoryInput) (core.Category, error) {
	cat, err := s.store.CreateCategory(ctx, core.Category{
		UserID: &userID,
		Name:   in.Name,
		Type:   in.Type,
		Color:  in.Color,
		Icon:   in.Icon,
	})
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}

	slog.InfoContext(ctx, "Category created", "category_id", cat.ID, "user_id", userID)
	return cat, nil
}
