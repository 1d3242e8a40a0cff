package service

import (
	"context"
	"sync"

	"hrsuite/internal/auth"
	"hrsuite/internal/model"
	"hrsuite/internal/permission"
	"hrsuite/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func actor(role permission.Role, employeeID string) *auth.Identity {
	return &auth.Identity{
		ID:          uuid.NewString(),
		Email:       string(role) + "@company.test",
		Role:        role,
		Permissions: permission.For(role),
		EmployeeID:  employeeID,
	}
}

// fakeTx runs fn inline without a database
type fakeTx struct {
	calls int
}

func (f *fakeTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []model.AuditLog
	err     error
}

func (f *fakeAudit) Log(_ context.Context, entry *model.AuditLog) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAudit) List(_ context.Context, filter repository.AuditFilter) ([]model.AuditLog, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []model.AuditLog
	for _, e := range f.entries {
		if filter.ActorID != "" && e.ActorID != filter.ActorID {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		matched = append(matched, e)
	}
	if filter.Limit <= 0 {
		return matched, int64(len(matched)), nil
	}
	start := (filter.Page - 1) * filter.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], int64(len(matched)), nil
}

func (f *fakeAudit) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeEmployees struct {
	rows map[string]*model.Employee
}

func newFakeEmployees() *fakeEmployees {
	return &fakeEmployees{rows: make(map[string]*model.Employee)}
}

func (f *fakeEmployees) Create(_ context.Context, e *model.Employee) error {
	e.ID = uuid.New()
	row := *e
	f.rows[e.ID.String()] = &row
	return nil
}

func (f *fakeEmployees) GetByID(_ context.Context, id string) (*model.Employee, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *row
	return &found, nil
}

func (f *fakeEmployees) GetByEmployeeID(_ context.Context, employeeID string) (*model.Employee, error) {
	for _, row := range f.rows {
		if row.EmployeeID == employeeID {
			found := *row
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployees) List(_ context.Context, filter repository.ListFilter) ([]model.Employee, int64, error) {
	var out []model.Employee
	for _, row := range f.rows {
		if filter.Department != "" && row.Department != filter.Department {
			continue
		}
		out = append(out, *row)
	}
	return out, int64(len(out)), nil
}

func (f *fakeEmployees) Update(_ context.Context, e *model.Employee) error {
	row := *e
	f.rows[e.ID.String()] = &row
	return nil
}

func (f *fakeEmployees) Delete(_ context.Context, id string) error {
	delete(f.rows, id)
	return nil
}

type fakeAttendance struct {
	rows       map[string]*model.Attendance
	lastFilter repository.ListFilter
}

func newFakeAttendance() *fakeAttendance {
	return &fakeAttendance{rows: make(map[string]*model.Attendance)}
}

func (f *fakeAttendance) Create(_ context.Context, r *model.Attendance) error {
	r.ID = uuid.New()
	row := *r
	f.rows[r.ID.String()] = &row
	return nil
}

func (f *fakeAttendance) GetByID(_ context.Context, id string) (*model.Attendance, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *row
	return &found, nil
}

func (f *fakeAttendance) List(_ context.Context, filter repository.ListFilter) ([]model.Attendance, int64, error) {
	f.lastFilter = filter
	var out []model.Attendance
	for _, row := range f.rows {
		if filter.EmployeeID != "" && row.EmployeeID != filter.EmployeeID {
			continue
		}
		out = append(out, *row)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendance) Update(_ context.Context, r *model.Attendance) error {
	row := *r
	f.rows[r.ID.String()] = &row
	return nil
}

type fakeLeave struct {
	rows       map[uuid.UUID]*model.LeaveRequest
	lastFilter repository.ListFilter
}

func newFakeLeave() *fakeLeave {
	return &fakeLeave{rows: make(map[uuid.UUID]*model.LeaveRequest)}
}

func (f *fakeLeave) Create(_ context.Context, r *model.LeaveRequest) error {
	r.ID = uuid.New()
	row := *r
	f.rows[r.ID] = &row
	return nil
}

func (f *fakeLeave) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*model.LeaveRequest, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *row
	return &found, nil
}

func (f *fakeLeave) List(_ context.Context, filter repository.ListFilter) ([]model.LeaveRequest, int64, error) {
	f.lastFilter = filter
	var out []model.LeaveRequest
	for _, row := range f.rows {
		if filter.EmployeeID != "" && row.EmployeeID != filter.EmployeeID {
			continue
		}
		out = append(out, *row)
	}
	return out, int64(len(out)), nil
}

func (f *fakeLeave) Update(_ context.Context, r *model.LeaveRequest) error {
	row := *r
	f.rows[r.ID] = &row
	return nil
}

type fakeExpenses struct {
	rows       map[uuid.UUID]*model.Expense
	lastFilter repository.ListFilter
}

func newFakeExpenses() *fakeExpenses {
	return &fakeExpenses{rows: make(map[uuid.UUID]*model.Expense)}
}

func (f *fakeExpenses) Create(_ context.Context, e *model.Expense) error {
	e.ID = uuid.New()
	row := *e
	f.rows[e.ID] = &row
	return nil
}

func (f *fakeExpenses) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*model.Expense, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *row
	return &found, nil
}

func (f *fakeExpenses) List(_ context.Context, filter repository.ListFilter) ([]model.Expense, int64, error) {
	f.lastFilter = filter
	var out []model.Expense
	for _, row := range f.rows {
		if filter.EmployeeID != "" && row.EmployeeID != filter.EmployeeID {
			continue
		}
		out = append(out, *row)
	}
	return out, int64(len(out)), nil
}

func (f *fakeExpenses) Update(_ context.Context, e *model.Expense) error {
	row := *e
	f.rows[e.ID] = &row
	return nil
}

type fakeAnnouncements struct {
	rows      []model.Announcement
	lastLimit int
}

func (f *fakeAnnouncements) Create(_ context.Context, a *model.Announcement) error {
	a.ID = uuid.New()
	f.rows = append(f.rows, *a)
	return nil
}

func (f *fakeAnnouncements) List(_ context.Context, limit int) ([]model.Announcement, error) {
	f.lastLimit = limit
	return append([]model.Announcement(nil), f.rows...), nil
}

type recordingHub struct {
	events []string
	data   []interface{}
}

func (h *recordingHub) Broadcast(event string, data interface{}) {
	h.events = append(h.events, event)
	h.data = append(h.data, data)
}
