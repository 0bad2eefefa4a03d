package colorchecks

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/colorcheck/internal/dbx"
	"github.com/dmitrijs2005/colorcheck/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, check *models.ColorCheck) (*models.ColorCheck, error) {
	query :=
		`INSERT INTO color_checks (hex_color, pantone, notes, status, points, alternative_hex, created_at, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		check.HexColor, check.Pantone, check.Notes, string(check.Status),
		models.EncodePoints(check.Points), check.AlternativeHex, check.CreatedAt, check.UserID,
	).Scan(&check.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return check, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter Filter) ([]*models.ColorCheck, error) {
	query, args := buildListQuery(filter, func(n int) string { return "$" + strconv.Itoa(n) })

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.ColorCheck{}
	for rows.Next() {
		var (
			c      models.ColorCheck
			status string
			points string
		)
		if err := rows.Scan(&c.ID, &c.HexColor, &c.Pantone, &c.Notes, &status, &points,
			&c.AlternativeHex, &c.CreatedAt, &c.UserID, &c.UserName); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		c.Status = models.Status(status)
		c.Points = models.DecodePoints(points)
		c.CreatedAt = c.CreatedAt.UTC()
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
