package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"hrsuite/internal/model"
	"hrsuite/internal/permission"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeProfiles struct {
	profiles map[string]model.Profile
	lastRole string
}

func newFakeProfiles(list ...model.Profile) *fakeProfiles {
	f := &fakeProfiles{profiles: make(map[string]model.Profile)}
	for _, p := range list {
		f.profiles[p.ID.String()] = p
	}
	return f
}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (*model.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) GetByEmployeeID(context.Context, string) (*model.Profile, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfiles) Create(_ context.Context, p *model.Profile) error {
	f.profiles[p.ID.String()] = *p
	return nil
}

func (f *fakeProfiles) Update(ctx context.Context, p *model.Profile) error {
	return f.Create(ctx, p)
}

func (f *fakeProfiles) List(_ context.Context, role string, _, _ int) ([]model.Profile, int64, error) {
	f.lastRole = role
	var out []model.Profile
	for _, p := range f.profiles {
		if role == "" || p.Role == role {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func TestUpdateUserRole(t *testing.T) {
	target := model.Profile{ID: uuid.New(), Email: "jane@company.com", Role: "employee"}
	profiles := newFakeProfiles(target)
	audit := &fakeAudit{}
	svc := NewUserService(&fakeTx{}, profiles, audit)
	ctx := context.Background()

	res, err := svc.UpdateUserRole(ctx, actor(permission.RoleAdmin, "ADMIN001"), target.ID.String(), UpdateRoleRequest{Role: "hr"})
	require.NoError(t, err)
	assert.Equal(t, permission.RoleHR, res.Role)
	assert.Equal(t, "hr", profiles.profiles[target.ID.String()].Role)
	assert.Equal(t, []string{model.ActionChangeRole}, audit.actions())
}

func TestUpdateUserRoleRules(t *testing.T) {
	target := model.Profile{ID: uuid.New(), Email: "jane@company.com", Role: "employee"}
	svc := NewUserService(&fakeTx{}, newFakeProfiles(target), &fakeAudit{})
	ctx := context.Background()
	admin := actor(permission.RoleAdmin, "ADMIN001")

	_, err := svc.UpdateUserRole(ctx, admin, target.ID.String(), UpdateRoleRequest{Role: "superuser"})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.UpdateUserRole(ctx, admin, target.ID.String(), UpdateRoleRequest{Role: "master"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateUserRole(ctx, admin, admin.ID, UpdateRoleRequest{Role: "hr"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateUserRole(ctx, admin, uuid.NewString(), UpdateRoleRequest{Role: "hr"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateUserRole(ctx, actor(permission.RoleMaster, ""), target.ID.String(), UpdateRoleRequest{Role: "master"})
	assert.NoError(t, err)
}

func TestListUsersMapsUnknownRolesToEmployee(t *testing.T) {
	profiles := newFakeProfiles(
		model.Profile{ID: uuid.New(), Email: "a@company.com", Role: "admin"},
		model.Profile{ID: uuid.New(), Email: "b@company.com", Role: "legacy"},
	)
	svc := NewUserService(&fakeTx{}, profiles, &fakeAudit{})

	users, total, err := svc.ListUsers(context.Background(), "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	roles := map[string]permission.Role{}
	for _, u := range users {
		roles[u.Email] = u.Role
	}
	assert.Equal(t, permission.RoleAdmin, roles["a@company.com"])
	assert.Equal(t, permission.RoleEmployee, roles["b@company.com"])

	_, _, err = svc.ListUsers(context.Background(), "nope", 1, 20)
	assert.ErrorIs(t, err, ErrInvalid)
}

type fakeStats struct {
	amount string
	err    error
	day    time.Time
}

func (f *fakeStats) CountEmployees(_ context.Context, status string) (int64, error) {
	if status == "" {
		return 10, f.err
	}
	return 8, f.err
}

func (f *fakeStats) HeadcountByDepartment(context.Context) ([]model.DepartmentCount, error) {
	return nil, nil
}

func (f *fakeStats) CountPresent(_ context.Context, day time.Time) (int64, error) {
	f.day = day
	return 6, nil
}

func (f *fakeStats) CountOnLeave(context.Context, time.Time) (int64, error) { return 1, nil }
func (f *fakeStats) CountPendingLeave(context.Context) (int64, error)       { return 2, nil }

func (f *fakeStats) PendingExpenses(context.Context) (int64, string, error) {
	return 3, f.amount, nil
}

func TestGetStatistics(t *testing.T) {
	repo := &fakeStats{amount: "125.50"}
	svc := NewStatisticsService(repo)

	stats, err := svc.GetStatistics(context.Background(), time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalEmployees)
	assert.Equal(t, int64(8), stats.ActiveEmployees)
	assert.Equal(t, int64(6), stats.PresentToday)
	assert.Equal(t, int64(2), stats.PendingLeaveRequests)
	assert.True(t, decimal.RequireFromString("125.5").Equal(stats.PendingExpenseAmount))
	assert.NotNil(t, stats.Departments)
	assert.Equal(t, 0, repo.day.Hour())

	repo.err = errors.New("db down")
	_, err = svc.GetStatistics(context.Background(), time.Now())
	assert.Error(t, err)
}
