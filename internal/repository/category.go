package repository

import (
	"context"

	"github.com/ledgerly/ledgerly/internal/database"
	"github.com/ledgerly/ledgerly/internal/finerr"
	"github.com/ledgerly/ledgerly/internal/models"
)

type CategoryRepository struct {
	db *database.DB
}

func NewCategoryRepository(db *database.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Note: a category's type is not cross-checked against the transactions filed
// under it; mismatches are allowed.
func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO category (user_id, name, type, color, icon)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING category_id, created_at`,
		c.UserID, c.Name, c.Type, c.Color, c.Icon,
	).Scan(&c.CategoryID, &c.CreatedAt)
	return normalizeErr(err)
}

func (r *CategoryRepository) GetByID(ctx context.Context, categoryID, userID int64) (*models.Category, error) {
	c := &models.Category{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT category_id, user_id, name, type, color, icon, created_at
		 FROM category WHERE category_id = $1 AND user_id = $2`,
		categoryID, userID,
	).Scan(&c.CategoryID, &c.UserID, &c.Name, &c.Type, &c.Color, &c.Icon, &c.CreatedAt)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return c, nil
}

func (r *CategoryRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Category, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT category_id, user_id, name, type, color, icon, created_at
		 FROM category WHERE user_id = $1 ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, normalizeErr(err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.CategoryID, &c.UserID, &c.Name, &c.Type, &c.Color, &c.Icon, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Update(ctx context.Context, c *models.Category) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE category SET name = $1, type = $2, color = $3, icon = $4
		 WHERE category_id = $5 AND user_id = $6`,
		c.Name, c.Type, c.Color, c.Icon, c.CategoryID, c.UserID,
	)
	if err != nil {
		return normalizeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return finerr.NotFoundf("category %d", c.CategoryID)
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, categoryID, userID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM category WHERE category_id = $1 AND user_id = $2`,
		categoryID, userID,
	)
	if err != nil {
		return normalizeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return finerr.NotFoundf("category %d", categoryID)
	}
	return nil
}
