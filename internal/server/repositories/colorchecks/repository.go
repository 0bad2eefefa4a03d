// Package colorchecks persists color check records. Records are append-only:
// there is no update or delete.
package colorchecks

import (
	"context"

	"github.com/dmitrijs2005/colorcheck/internal/server/models"
)

// Filter narrows a listing. Zero values mean "no restriction".
type Filter struct {
	// UserID limits the listing to one owner's records.
	UserID int64
	// Limit caps the number of rows returned.
	Limit int
}

type Repository interface {
	// Create inserts check and sets its ID. CreatedAt must already be set.
	Create(ctx context.Context, check *models.ColorCheck) (*models.ColorCheck, error)
	// List returns records newest first, ties broken by id descending.
	List(ctx context.Context, filter Filter) ([]*models.ColorCheck, error)
}

const selectColumns = `SELECT c.id, c.hex_color, c.pantone, c.notes, c.status, c.points,
		c.alternative_hex, c.created_at, c.user_id, u.username
		FROM color_checks c JOIN users u ON u.id = c.user_id`

// buildListQuery appends the filter to selectColumns. placeholder renders the
// n-th (1-based) bind parameter for the dialect.
func buildListQuery(filter Filter, placeholder func(n int) string) (string, []any) {
	query := selectColumns
	var args []any

	if filter.UserID != 0 {
		args = append(args, filter.UserID)
		query += ` WHERE c.user_id = ` + placeholder(len(args))
	}

	query += ` ORDER BY c.created_at DESC, c.id DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT ` + placeholder(len(args))
	}
	return query, args
}
