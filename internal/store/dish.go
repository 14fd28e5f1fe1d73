package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"bubbles/internal/models"
)

// DishStore manages menu dishes in the database. Categories are not a
// separate table — they are the distinct category strings present across
// dishes, so category operations are projections and bulk updates here.
type DishStore struct {
	db *sql.DB
}

// NewDishStore returns a new DishStore backed by the given database.
func NewDishStore(db *sql.DB) *DishStore {
	return &DishStore{db: db}
}

const dishColumns = `id, name, description, price, image_url, category, is_featured, discount_price, currency, created_at, updated_at`

func scanDish(scanner interface{ Scan(...any) error }) (*models.Dish, error) {
	var d models.Dish
	err := scanner.Scan(
		&d.ID, &d.Name, &d.Description, &d.Price, &d.ImageURL,
		&d.Category, &d.IsFeatured, &d.DiscountPrice, &d.Currency,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func collectDishes(rows *sql.Rows) ([]models.Dish, error) {
	defer rows.Close()
	var dishes []models.Dish
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dish: %w", err)
		}
		dishes = append(dishes, *d)
	}
	return dishes, rows.Err()
}

// List returns dishes newest-first, optionally filtered by category.
// An empty category returns everything.
func (s *DishStore) List(category string) ([]models.Dish, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if category == "" {
		rows, err = s.db.Query(`SELECT ` + dishColumns + ` FROM dishes ORDER BY updated_at DESC`)
	} else {
		rows, err = s.db.Query(`SELECT `+dishColumns+` FROM dishes WHERE category = $1 ORDER BY updated_at DESC`, category)
	}
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	return collectDishes(rows)
}

// ListForMenu returns all dishes ordered for public menu display:
// by category, then by name.
func (s *DishStore) ListForMenu() ([]models.Dish, error) {
	rows, err := s.db.Query(`SELECT ` + dishColumns + ` FROM dishes ORDER BY category ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list menu dishes: %w", err)
	}
	return collectDishes(rows)
}

// Featured returns dishes flagged for the landing page banner.
func (s *DishStore) Featured() ([]models.Dish, error) {
	rows, err := s.db.Query(`SELECT ` + dishColumns + ` FROM dishes WHERE is_featured ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list featured dishes: %w", err)
	}
	return collectDishes(rows)
}

// FindByID retrieves a dish by ID. Returns nil if not found.
func (s *DishStore) FindByID(id uuid.UUID) (*models.Dish, error) {
	row := s.db.QueryRow(`SELECT `+dishColumns+` FROM dishes WHERE id = $1`, id)
	d, err := scanDish(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find dish by id: %w", err)
	}
	return d, nil
}

// Create inserts a new dish and returns it.
func (s *DishStore) Create(d *models.Dish) (*models.Dish, error) {
	if d.Currency == "" {
		d.Currency = models.DefaultCurrency
	}
	row := s.db.QueryRow(`
		INSERT INTO dishes (name, description, price, image_url, category, is_featured, discount_price, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+dishColumns,
		d.Name, d.Description, d.Price, d.ImageURL, d.Category, d.IsFeatured, d.DiscountPrice, d.Currency,
	)
	result, err := scanDish(row)
	if err != nil {
		return nil, fmt.Errorf("create dish: %w", err)
	}
	return result, nil
}

// Update modifies an existing dish.
func (s *DishStore) Update(d *models.Dish) error {
	_, err := s.db.Exec(`
		UPDATE dishes SET
			name = $1, description = $2, price = $3, image_url = $4, category = $5,
			is_featured = $6, discount_price = $7, currency = $8, updated_at = NOW()
		WHERE id = $9
	`, d.Name, d.Description, d.Price, d.ImageURL, d.Category, d.IsFeatured, d.DiscountPrice, d.Currency, d.ID)
	if err != nil {
		return fmt.Errorf("update dish: %w", err)
	}
	return nil
}

// Delete removes a dish by ID.
func (s *DishStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM dishes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dish: %w", err)
	}
	return nil
}

// Categories returns the distinct category values currently present,
// ordered alphabetically. A category with no dishes does not exist.
func (s *DishStore) Categories() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT category FROM dishes ORDER BY category ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CountByCategory returns how many dishes carry the given category string.
func (s *DishStore) CountByCategory(category string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM dishes WHERE category = $1`, category).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count dishes in category: %w", err)
	}
	return n, nil
}

// DeleteByCategory removes every dish whose category equals the given
// string and returns how many rows were deleted. This is the cascading
// side of "remove category"; the single statement is atomic.
func (s *DishStore) DeleteByCategory(category string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM dishes WHERE category = $1`, category)
	if err != nil {
		return 0, fmt.Errorf("delete dishes in category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete dishes rows affected: %w", err)
	}
	return n, nil
}
