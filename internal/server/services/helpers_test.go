package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dmitrijs2005/colorcheck/internal/dbx"
	"github.com/dmitrijs2005/colorcheck/internal/server/models"
	"github.com/dmitrijs2005/colorcheck/internal/server/repositories/colorchecks"
	"github.com/dmitrijs2005/colorcheck/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/colorcheck/internal/server/repositories/users"
	"github.com/dmitrijs2005/colorcheck/internal/server/testutil"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func newStore(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()
	return testutil.NewSQLiteDB(t), repomanager.NewSQLiteRepositoryManager()
}

func seedUser(t *testing.T, s *UserService, name, password string, role models.Role) *models.User {
	t.Helper()
	u, err := s.Provision(context.Background(), CreateUserInput{UserName: name, Password: password, Role: string(role)})
	require.NoError(t, err)
	return u
}

var errStore = errors.New("store unavailable")

type fakeUsersRepo struct {
	getOut *models.User
	getErr error

	assignOut string
	assignErr error
	assigned  int

	createErr error
	listErr   error
}

func (f *fakeUsersRepo) GetUserByLogin(context.Context, string) (*models.User, error) {
	return f.getOut, f.getErr
}

func (f *fakeUsersRepo) GetUserByToken(context.Context, string) (*models.User, error) {
	return f.getOut, f.getErr
}

func (f *fakeUsersRepo) AssignTokenIfAbsent(context.Context, int64, string) (string, error) {
	f.assigned++
	return f.assignOut, f.assignErr
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return u, nil
}

func (f *fakeUsersRepo) List(context.Context) ([]*models.User, error) {
	return nil, f.listErr
}

type fakeChecksRepo struct {
	createErr error
	listErr   error
	filter    colorchecks.Filter
}

func (f *fakeChecksRepo) Create(_ context.Context, c *models.ColorCheck) (*models.ColorCheck, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c.ID = 1
	return c, nil
}

func (f *fakeChecksRepo) List(_ context.Context, filter colorchecks.Filter) ([]*models.ColorCheck, error) {
	f.filter = filter
	return []*models.ColorCheck{}, f.listErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	c *fakeChecksRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.u }
func (m *fakeRepoManager) ColorChecks(dbx.DBTX) colorchecks.Repository  { return m.c }
