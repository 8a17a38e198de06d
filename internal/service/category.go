package service

import (
	"context"
	"regexp"

	"github.com/driftwood-dev/driftwood/internal/domain"
)

type CategoryService interface {
	Create(ctx context.Context, creationData domain.CategoryCreationData) (domain.CategoryId, error)
	Get(ctx context.Context, slug domain.CategorySlug) (domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Delete(ctx context.Context, slug domain.CategorySlug) error
}

type CategoryStorage interface {
	CreateCategory(ctx context.Context, creationData domain.CategoryCreationData) (domain.CategoryId, error)
	GetCategory(ctx context.Context, slug domain.CategorySlug) (domain.Category, error)
	GetCategories(ctx context.Context) ([]domain.Category, error)
	DeleteCategory(ctx context.Context, slug domain.CategorySlug) error
}

type Category struct {
	storage CategoryStorage
}

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,31}$`)

func NewCategory(storage CategoryStorage) CategoryService {
	return &Category{storage}
}

func (c *Category) Create(ctx context.Context, creationData domain.CategoryCreationData) (domain.CategoryId, error) {
	if !slugPattern.MatchString(creationData.Slug) {
		return -1, badRequest("Slug must be lowercase letters, digits or dashes")
	}
	if creationData.Name == "" {
		return -1, badRequest("Name can't be empty")
	}
	return c.storage.CreateCategory(ctx, creationData)
}

func (c *Category) Get(ctx context.Context, slug domain.CategorySlug) (domain.Category, error) {
	return c.storage.GetCategory(ctx, slug)
}

func (c *Category) List(ctx context.Context) ([]domain.Category, error) {
	return c.storage.GetCategories(ctx)
}

func (c *Category) Delete(ctx context.Context, slug domain.CategorySlug) error {
	return c.storage.DeleteCategory(ctx, slug)
}
