package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/colorcheck/internal/dbx"
	"github.com/dmitrijs2005/colorcheck/internal/logging"
	"github.com/dmitrijs2005/colorcheck/internal/server/models"
	"github.com/dmitrijs2005/colorcheck/internal/server/policy"
	"github.com/dmitrijs2005/colorcheck/internal/server/repositories/colorchecks"
	"github.com/dmitrijs2005/colorcheck/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/colorcheck/internal/server/validation"
)

// CreateCheckInput is the body of a direct color check.
type CreateCheckInput struct {
	HexColor string
	Pantone  string
	Notes    string
	Points   []string
}

// RequestCheckInput is the body of a color request. It never carries an
// observed hex color.
type RequestCheckInput struct {
	Pantone        string
	Points         []string
	AlternativeHex string
}

type CheckService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewCheckService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *CheckService {
	return &CheckService{db: db, repomanager: m, logger: l.With("module", "check_service"), now: time.Now}
}

// Create records a color check through the direct path. Admin records are
// approved on creation, everyone else's are pending.
func (s *CheckService) Create(ctx context.Context, caller *models.User, in CreateCheckInput) (*models.ColorCheck, error) {
	if err := policy.RequireCaller(caller); err != nil {
		return nil, err
	}

	pantone, err := validation.NormalizePantone(in.Pantone)
	if err != nil {
		return nil, err
	}
	hex, err := validation.ValidateHex(in.HexColor)
	if err != nil {
		return nil, err
	}
	points, err := validation.ValidatePoints(in.Points)
	if err != nil {
		return nil, err
	}

	check := &models.ColorCheck{
		Pantone:   pantone,
		HexColor:  hex,
		Notes:     in.Notes,
		Points:    points,
		Status:    policy.InitialStatus(caller, policy.PathDirect),
		UserID:    caller.ID,
		UserName:  caller.UserName,
		CreatedAt: s.timestamp(),
	}

	if _, err := s.repomanager.ColorChecks(s.db).Create(ctx, check); err != nil {
		return nil, fmt.Errorf("error creating color check: %w", err)
	}

	s.logger.Info(ctx, "color check created", "id", check.ID, "status", check.Status, "user", caller.UserName)
	return check, nil
}

// Request records a pending color request. The insert runs in its own
// transaction; on failure nothing is kept and the store error is returned.
func (s *CheckService) Request(ctx context.Context, caller *models.User, in RequestCheckInput) (*models.ColorCheck, error) {
	if err := policy.RequireCaller(caller); err != nil {
		return nil, err
	}

	pantone, err := validation.NormalizePantone(in.Pantone)
	if err != nil {
		return nil, err
	}
	alt, err := validation.ValidateHex(in.AlternativeHex)
	if err != nil {
		return nil, err
	}
	points, err := validation.ValidatePoints(in.Points)
	if err != nil {
		return nil, err
	}

	check := &models.ColorCheck{
		Pantone:        pantone,
		AlternativeHex: alt,
		Points:         points,
		Status:         policy.InitialStatus(caller, policy.PathRequest),
		UserID:         caller.ID,
		UserName:       caller.UserName,
		CreatedAt:      s.timestamp(),
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := s.repomanager.ColorChecks(tx).Create(ctx, check)
		return err
	})
	if err != nil {
		s.logger.Error(ctx, "color request failed", "error", err, "user", caller.UserName)
		return nil, err
	}

	s.logger.Info(ctx, "color request saved", "id", check.ID, "user", caller.UserName)
	return check, nil
}

// List returns the caller's visible records, newest first, capped.
func (s *CheckService) List(ctx context.Context, caller *models.User) ([]*models.ColorCheck, error) {
	return s.list(ctx, caller, policy.PathDirect)
}

// ListRequests is List without the cap.
func (s *CheckService) ListRequests(ctx context.Context, caller *models.User) ([]*models.ColorCheck, error) {
	return s.list(ctx, caller, policy.PathRequest)
}

func (s *CheckService) list(ctx context.Context, caller *models.User, path policy.Path) ([]*models.ColorCheck, error) {
	if err := policy.RequireCaller(caller); err != nil {
		return nil, err
	}

	filter := colorchecks.Filter{
		UserID: policy.OwnerScope(caller),
		Limit:  policy.ListLimit(path),
	}
	list, err := s.repomanager.ColorChecks(s.db).List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing color checks: %w", err)
	}
	return list, nil
}

// timestamp is truncated to what PostgreSQL timestamptz keeps.
func (s *CheckService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}
