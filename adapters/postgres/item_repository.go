package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	apperrors "toplist/internal/errors"
	"toplist/models"
	"toplist/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const itemColumns = `id, name, category, subcategory, group_name, description,
	item_year, item_year_to, reference_url, image_url,
	view_count, selection_count, created_at, updated_at`

// ItemRepositoryImpl implements ItemRepository for PostgreSQL
type ItemRepositoryImpl struct {
	db *sqlx.DB
}

// NewItemRepository creates a new PostgreSQL item repository
func NewItemRepository(db *sqlx.DB) ports.ItemRepository {
	return &ItemRepositoryImpl{db: db}
}

// Insert creates a new catalog item and returns the stored row
func (r *ItemRepositoryImpl) Insert(ctx context.Context, item models.ItemCreate) (*models.Item, error) {
	id := uuid.New()

	var row models.Item
	err := r.db.GetContext(ctx, &row, `
		INSERT INTO items (id, name, category, subcategory, group_name, description,
			item_year, item_year_to, reference_url, image_url,
			view_count, selection_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, 0, NOW(), NOW())
		RETURNING `+itemColumns,
		id, item.Name, item.Category, item.Subcategory, item.Group, item.Description,
		item.ItemYear, item.ItemYearTo, item.ReferenceURL, item.ImageURL)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return nil, apperrors.DuplicateItem(fmt.Sprintf("item %q already exists in %s/%s", item.Name, item.Category, item.Subcategory))
		}
		return nil, err
	}

	return &row, nil
}

// GetByID retrieves an item by its ID
func (r *ItemRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	err := r.db.GetContext(ctx, &item, `
		SELECT `+itemColumns+`
		FROM items
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update applies non-nil fields to an existing item and returns the row
func (r *ItemRepositoryImpl) Update(ctx context.Context, id uuid.UUID, fields models.ItemUpdate) (*models.Item, error) {
	set := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	next := 2

	add := func(column string, value interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", column, next))
		args = append(args, value)
		next++
	}

	if fields.Name != nil {
		add("name", *fields.Name)
	}
	if fields.Group != nil {
		add("group_name", *fields.Group)
	}
	if fields.Description != nil {
		add("description", *fields.Description)
	}
	if fields.ItemYear != nil {
		add("item_year", *fields.ItemYear)
	}
	if fields.ItemYearTo != nil {
		add("item_year_to", *fields.ItemYearTo)
	}
	if fields.ReferenceURL != nil {
		add("reference_url", *fields.ReferenceURL)
	}
	if fields.ImageURL != nil {
		add("image_url", *fields.ImageURL)
	}

	var item models.Item
	query := fmt.Sprintf(`
		UPDATE items SET %s
		WHERE id = $1
		RETURNING %s`, strings.Join(set, ", "), itemColumns)
	err := r.db.GetContext(ctx, &item, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Find returns rows matching category/subcategory, optionally narrowed to
// an exact case-insensitive name
func (r *ItemRepositoryImpl) Find(ctx context.Context, category models.Category, subcategory, name string) ([]models.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE category = $1 AND subcategory = $2`
	args := []interface{}{category, subcategory}

	if name != "" {
		query += ` AND LOWER(name) = LOWER($3)`
		args = append(args, name)
	}
	query += ` ORDER BY name`

	var items []models.Item
	err := r.db.SelectContext(ctx, &items, query, args...)
	return items, err
}

// Search returns items matching the filters with pagination
func (r *ItemRepositoryImpl) Search(ctx context.Context, filters models.ItemSearchFilters, limit, offset int) ([]models.Item, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	next := 1

	add := func(clause string, value interface{}) {
		where = append(where, fmt.Sprintf(clause, next))
		args = append(args, value)
		next++
	}

	if filters.Category != "" {
		add("category = $%d", filters.Category)
	}
	if filters.Subcategory != "" {
		add("subcategory = $%d", filters.Subcategory)
	}
	if filters.SearchQuery != "" {
		add("(name ILIKE $%d OR description ILIKE $%[1]d)", "%"+filters.SearchQuery+"%")
	}
	if filters.YearFrom != nil {
		add("item_year >= $%d", *filters.YearFrom)
	}
	if filters.YearTo != nil {
		add("item_year <= $%d", *filters.YearTo)
	}

	orderBy := "name"
	switch filters.SortBy {
	case "popularity":
		orderBy = "selection_count DESC"
	case "recent":
		orderBy = "created_at DESC"
	}

	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM items
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		itemColumns, strings.Join(where, " AND "), orderBy, next, next+1)
	args = append(args, limit, offset)

	var items []models.Item
	err := r.db.SelectContext(ctx, &items, query, args...)
	return items, err
}

// GroupsByCategory returns the distinct non-empty groups used in a category
func (r *ItemRepositoryImpl) GroupsByCategory(ctx context.Context, category models.Category) ([]string, error) {
	var groups []string
	err := r.db.SelectContext(ctx, &groups, `
		SELECT DISTINCT group_name
		FROM items
		WHERE category = $1 AND group_name IS NOT NULL AND group_name <> ''
		ORDER BY group_name
	`, category)
	return groups, err
}
