package repository

import (
	"context"
	"fmt"

	"plant-store/internal/domain"
	"plant-store/internal/query"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// in_stock is nullable; a missing value reads as in stock.
const plantColumns = `id::text, name, price, categories, COALESCE(in_stock, TRUE), description, image, created_at, updated_at`

type postgresPlantRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPlantRepository creates a PlantRepository backed by a pgx pool
func NewPostgresPlantRepository(pool *pgxpool.Pool) PlantRepository {
	return &postgresPlantRepository{pool: pool}
}

// Create inserts a new plant using parameterized queries
func (r *postgresPlantRepository) Create(ctx context.Context, plant *domain.Plant) error {
	query := `
		INSERT INTO plants (name, price, categories, in_stock, description, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id::text
	`

	err := r.pool.QueryRow(
		ctx,
		query,
		plant.Name,
		plant.Price,
		plant.Categories,
		plant.InStock,
		plant.Description,
		plant.Image,
		plant.CreatedAt,
		plant.UpdatedAt,
	).Scan(&plant.ID)

	if err != nil {
		return fmt.Errorf("failed to create plant: %w", err)
	}

	return nil
}

// List retrieves every plant matching the predicate
func (r *postgresPlantRepository) List(ctx context.Context, predicate query.Predicate) ([]domain.Plant, error) {
	whereClause, args := predicate.SQL(1)

	sql := fmt.Sprintf(`SELECT %s FROM plants %s`, plantColumns, whereClause)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list plants: %w", err)
	}
	defer rows.Close()

	plants := []domain.Plant{}
	for rows.Next() {
		plant, err := scanPlant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plant: %w", err)
		}
		plants = append(plants, plant)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plants: %w", err)
	}

	return plants, nil
}

// Categories retrieves the distinct category values in byte order
func (r *postgresPlantRepository) Categories(ctx context.Context) ([]string, error) {
	return r.collectStrings(ctx, `
		SELECT DISTINCT c.value COLLATE "C" AS value
		FROM plants, unnest(categories) AS c(value)
		ORDER BY value ASC
	`)
}

// ImageRefs retrieves every image reference in use
func (r *postgresPlantRepository) ImageRefs(ctx context.Context) ([]string, error) {
	return r.collectStrings(ctx, `SELECT DISTINCT image FROM plants WHERE image <> ''`)
}

// DeleteAll removes every plant
func (r *postgresPlantRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM plants`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete plants: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresPlantRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *postgresPlantRepository) collectStrings(ctx context.Context, sql string) ([]string, error) {
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query values: %w", err)
	}

	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect values: %w", err)
	}

	return values, nil
}

func scanPlant(row pgx.Row) (domain.Plant, error) {
	var plant domain.Plant
	err := row.Scan(
		&plant.ID,
		&plant.Name,
		&plant.Price,
		&plant.Categories,
		&plant.InStock,
		&plant.Description,
		&plant.Image,
		&plant.CreatedAt,
		&plant.UpdatedAt,
	)
	return plant, err
}
