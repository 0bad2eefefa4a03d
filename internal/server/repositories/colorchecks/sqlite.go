package colorchecks

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/colorcheck/internal/dbx"
	"github.com/dmitrijs2005/colorcheck/internal/server/models"
)

// SQLiteRepository stores created_at as unix nanoseconds so that ordering
// is exact.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, check *models.ColorCheck) (*models.ColorCheck, error) {
	query := `INSERT INTO color_checks (hex_color, pantone, notes, status, points, alternative_hex, created_at, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		check.HexColor, check.Pantone, check.Notes, string(check.Status),
		models.EncodePoints(check.Points), check.AlternativeHex, check.CreatedAt.UnixNano(), check.UserID,
	).Scan(&check.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return check, nil
}

func (r *SQLiteRepository) List(ctx context.Context, filter Filter) ([]*models.ColorCheck, error) {
	query, args := buildListQuery(filter, func(int) string { return "?" })

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.ColorCheck{}
	for rows.Next() {
		var (
			c         models.ColorCheck
			status    string
			points    string
			createdAt int64
		)
		if err := rows.Scan(&c.ID, &c.HexColor, &c.Pantone, &c.Notes, &status, &points,
			&c.AlternativeHex, &createdAt, &c.UserID, &c.UserName); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		c.Status = models.Status(status)
		c.Points = models.DecodePoints(points)
		c.CreatedAt = time.Unix(0, createdAt).UTC()
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
