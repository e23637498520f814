package ports

import (
	"context"

	"toplist/models"

	"github.com/google/uuid"
)

// ItemRepository is the typed row-store interface for catalog items
type ItemRepository interface {
	Insert(ctx context.Context, item models.ItemCreate) (*models.Item, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	Update(ctx context.Context, id uuid.UUID, fields models.ItemUpdate) (*models.Item, error)

	// Find returns rows matching category/subcategory; name narrows to an
	// exact (case-insensitive) name match when non-empty.
	Find(ctx context.Context, category models.Category, subcategory, name string) ([]models.Item, error)

	Search(ctx context.Context, filters models.ItemSearchFilters, limit, offset int) ([]models.Item, error)

	// GroupsByCategory returns the distinct non-empty group values used by
	// existing items in a category, sorted.
	GroupsByCategory(ctx context.Context, category models.Category) ([]string, error)
}
