package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/model"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/repository"
	pkgerrors "github.com/edmundobop/plataforma-bravo-web-sub001/pkg/errors"
)

// ── Mock UnitRepository ──

type mockUnitRepo struct {
	units map[string]*model.Unit
}

func newMockUnitRepo() *mockUnitRepo {
	return &mockUnitRepo{units: map[string]*model.Unit{
		"unit-1": {UnitID: "unit-1", Name: "1º Batalhão", City: "Cuiabá", IsActive: true},
	}}
}

func (m *mockUnitRepo) GetByID(_ context.Context, id string) (*model.Unit, error) {
	if u, ok := m.units[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUnitRepo) List(_ context.Context) ([]model.Unit, error) {
	var result []model.Unit
	for _, u := range m.units {
		if u.IsActive {
			result = append(result, *u)
		}
	}
	return result, nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) addOperational(id, name, unitID string, group *string) {
	m.users[id] = &model.User{
		UserID:             id,
		Name:               name,
		RegistrationNumber: "mat-" + id,
		Role:               model.RoleMember,
		Sector:             model.SectorOperational,
		DutyGroup:          group,
		UnitID:             unitID,
		IsActive:           true,
	}
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByRegistrationNumber(_ context.Context, registration string) (*model.User, error) {
	for _, u := range m.users {
		if u.RegistrationNumber == registration {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListEligible(_ context.Context, unitID string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.UnitID == unitID && u.EligibleForDuty() {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		gi, gj := result[i].DutyGroup, result[j].DutyGroup
		switch {
		case gi == nil && gj != nil:
			return false
		case gi != nil && gj == nil:
			return true
		case gi != nil && gj != nil && *gi != *gj:
			return *gi < *gj
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (m *mockUserRepo) ListByUnit(_ context.Context, unitID string, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if u.UnitID == unitID {
			all = append(all, *u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) ListByRole(_ context.Context, unitID, role string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.UnitID == unitID && u.Role == role && u.IsActive {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) ListLabeled(_ context.Context, unitID string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.UnitID == unitID && u.DutyGroup != nil {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	stored, ok := m.users[user.UserID]
	if !ok || stored.Version != user.Version {
		return pkgerrors.ErrOptimisticLock
	}
	user.Version++
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) UpdateDutyGroup(_ context.Context, userID string, group *string, _ string) error {
	u, ok := m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.DutyGroup = group
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	u, ok := m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

// ── Mock ScheduleEntryRepository ──

type mockEntryRepo struct {
	entries map[string]*model.ScheduleEntry
	nextID  int
}

func newMockEntryRepo() *mockEntryRepo {
	return &mockEntryRepo{entries: make(map[string]*model.ScheduleEntry)}
}

func (m *mockEntryRepo) Create(_ context.Context, entry *model.ScheduleEntry) error {
	if entry.EntryID == "" {
		m.nextID++
		entry.EntryID = fmt.Sprintf("entry-%d", m.nextID)
	}
	stored := *entry
	m.entries[entry.EntryID] = &stored
	return nil
}

func (m *mockEntryRepo) GetByID(_ context.Context, id string) (*model.ScheduleEntry, error) {
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEntryRepo) ListByUnitBetween(_ context.Context, unitID string, from, to time.Time) ([]model.ScheduleEntry, error) {
	var result []model.ScheduleEntry
	for _, e := range m.entries {
		if e.UnitID == unitID && !e.StartsAt.Before(from) && e.StartsAt.Before(to) {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartsAt.Before(result[j].StartsAt) })
	return result, nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.Assignment
	nextID      int
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[string]*model.Assignment)}
}

func (m *mockAssignmentRepo) BatchCreate(_ context.Context, assignments []model.Assignment) error {
	for i := range assignments {
		a := assignments[i]
		if a.AssignmentID == "" {
			m.nextID++
			a.AssignmentID = fmt.Sprintf("assign-%d", m.nextID)
		}
		if a.Version == 0 {
			a.Version = 1
		}
		m.assignments[a.AssignmentID] = &a
	}
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	if a, ok := m.assignments[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) GetByUserAndDate(_ context.Context, userID string, date time.Time) (*model.Assignment, error) {
	key := date.Format("2006-01-02")
	for _, a := range m.assignments {
		if a.UserID == userID && a.DutyDate.Format("2006-01-02") == key {
			copied := *a
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ListByEntry(_ context.Context, entryID string) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if a.EntryID == entryID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListByUserBetween(_ context.Context, userID string, from, to time.Time) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if a.UserID == userID && !a.DutyDate.Before(from) && a.DutyDate.Before(to) {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DutyDate.Before(result[j].DutyDate) })
	return result, nil
}

func (m *mockAssignmentRepo) ListByUnitBetween(_ context.Context, unitID string, from, to time.Time) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if a.UnitID == unitID && !a.DutyDate.Before(from) && a.DutyDate.Before(to) {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DutyDate.Before(result[j].DutyDate) })
	return result, nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, assignment *model.Assignment) error {
	stored, ok := m.assignments[assignment.AssignmentID]
	if !ok || stored.Version != assignment.Version {
		return pkgerrors.ErrOptimisticLock
	}
	assignment.Version++
	copied := *assignment
	m.assignments[assignment.AssignmentID] = &copied
	return nil
}

// ── Mock SwapRequestRepository ──

type mockSwapRepo struct {
	swaps map[string]*model.SwapRequest
	// assignments mirrors the join the real repository performs when
	// scoping pending swaps to a unit.
	assignments *mockAssignmentRepo
	nextID      int
}

func newMockSwapRepo() *mockSwapRepo {
	return &mockSwapRepo{swaps: make(map[string]*model.SwapRequest)}
}

func (m *mockSwapRepo) Create(_ context.Context, swap *model.SwapRequest) error {
	if swap.SwapRequestID == "" {
		m.nextID++
		swap.SwapRequestID = fmt.Sprintf("swap-%d", m.nextID)
	}
	if swap.Version == 0 {
		swap.Version = 1
	}
	copied := *swap
	m.swaps[swap.SwapRequestID] = &copied
	return nil
}

func (m *mockSwapRepo) GetByID(_ context.Context, id string) (*model.SwapRequest, error) {
	if s, ok := m.swaps[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSwapRepo) ListByParty(_ context.Context, userID string, offset, limit int) ([]model.SwapRequest, int64, error) {
	var all []model.SwapRequest
	for _, s := range m.swaps {
		if s.RequesterID == userID || s.SubstituteID == userID {
			all = append(all, *s)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockSwapRepo) ListPendingByUnit(_ context.Context, unitID string) ([]model.SwapRequest, error) {
	var result []model.SwapRequest
	for _, s := range m.swaps {
		if s.Status != model.SwapStatusPending {
			continue
		}
		a, ok := m.assignments.assignments[s.AssignmentID]
		if !ok || a.UnitID != unitID {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSwapRepo) Update(_ context.Context, swap *model.SwapRequest) error {
	stored, ok := m.swaps[swap.SwapRequestID]
	if !ok || stored.Version != swap.Version {
		return pkgerrors.ErrOptimisticLock
	}
	swap.Version++
	copied := *swap
	m.swaps[swap.SwapRequestID] = &copied
	return nil
}

// ── Mock SwapHistoryRepository ──

type mockSwapHistoryRepo struct {
	records []model.SwapHistory
	nextID  int
}

func newMockSwapHistoryRepo() *mockSwapHistoryRepo {
	return &mockSwapHistoryRepo{}
}

func (m *mockSwapHistoryRepo) Create(_ context.Context, record *model.SwapHistory) error {
	if record.HistoryID == "" {
		m.nextID++
		record.HistoryID = fmt.Sprintf("hist-%d", m.nextID)
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	m.records = append(m.records, *record)
	return nil
}

func (m *mockSwapHistoryRepo) ListByRequest(_ context.Context, swapRequestID string) ([]model.SwapHistory, error) {
	var result []model.SwapHistory
	for _, r := range m.records {
		if r.SwapRequestID == swapRequestID {
			result = append(result, r)
		}
	}
	return result, nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications []model.Notification
	nextID        int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	m.nextID++
	notification.NotificationID = fmt.Sprintf("notif-%d", m.nextID)
	m.notifications = append(m.notifications, *notification)
	return nil
}

func (m *mockNotificationRepo) BatchCreate(ctx context.Context, notifications []model.Notification) error {
	for i := range notifications {
		if err := m.Create(ctx, &notifications[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	var all []model.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		all = append(all, n)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, notificationID, userID string) error {
	for i := range m.notifications {
		if m.notifications[i].NotificationID == notificationID && m.notifications[i].UserID == userID {
			m.notifications[i].IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for i := range m.notifications {
		if m.notifications[i].UserID == userID {
			m.notifications[i].IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) byUser(userID string) []model.Notification {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result
}

// ── test repository with a rollback-capable transaction runner ──

type mockRepos struct {
	unit        *mockUnitRepo
	user        *mockUserRepo
	entry       *mockEntryRepo
	assignment  *mockAssignmentRepo
	swap        *mockSwapRepo
	swapHistory *mockSwapHistoryRepo
	notif       *mockNotificationRepo
}

func (m *mockRepos) snapshot() *mockRepos {
	s := &mockRepos{
		unit:        &mockUnitRepo{units: make(map[string]*model.Unit, len(m.unit.units))},
		user:        &mockUserRepo{users: make(map[string]*model.User, len(m.user.users))},
		entry:       &mockEntryRepo{entries: make(map[string]*model.ScheduleEntry, len(m.entry.entries)), nextID: m.entry.nextID},
		assignment:  &mockAssignmentRepo{assignments: make(map[string]*model.Assignment, len(m.assignment.assignments)), nextID: m.assignment.nextID},
		swap:        &mockSwapRepo{swaps: make(map[string]*model.SwapRequest, len(m.swap.swaps)), nextID: m.swap.nextID},
		swapHistory: &mockSwapHistoryRepo{records: append([]model.SwapHistory(nil), m.swapHistory.records...), nextID: m.swapHistory.nextID},
		notif:       &mockNotificationRepo{notifications: append([]model.Notification(nil), m.notif.notifications...), nextID: m.notif.nextID},
	}
	for k, v := range m.unit.units {
		copied := *v
		s.unit.units[k] = &copied
	}
	for k, v := range m.user.users {
		copied := *v
		s.user.users[k] = &copied
	}
	for k, v := range m.entry.entries {
		copied := *v
		s.entry.entries[k] = &copied
	}
	for k, v := range m.assignment.assignments {
		copied := *v
		s.assignment.assignments[k] = &copied
	}
	for k, v := range m.swap.swaps {
		copied := *v
		s.swap.swaps[k] = &copied
	}
	return s
}

func (m *mockRepos) restore(s *mockRepos) {
	m.unit.units = s.unit.units
	m.user.users = s.user.users
	m.entry.entries = s.entry.entries
	m.entry.nextID = s.entry.nextID
	m.assignment.assignments = s.assignment.assignments
	m.assignment.nextID = s.assignment.nextID
	m.swap.swaps = s.swap.swaps
	m.swap.nextID = s.swap.nextID
	m.swapHistory.records = s.swapHistory.records
	m.swapHistory.nextID = s.swapHistory.nextID
	m.notif.notifications = s.notif.notifications
	m.notif.nextID = s.notif.nextID
}

// newTestRepository builds a Repository over fresh mocks whose Transaction
// rolls back all in-memory writes when fn fails, so tests can assert that
// aborted operations never leave partial state behind.
func newTestRepository() (*repository.Repository, *mockRepos) {
	mocks := &mockRepos{
		unit:        newMockUnitRepo(),
		user:        newMockUserRepo(),
		entry:       newMockEntryRepo(),
		assignment:  newMockAssignmentRepo(),
		swap:        newMockSwapRepo(),
		swapHistory: newMockSwapHistoryRepo(),
		notif:       newMockNotificationRepo(),
	}
	mocks.swap.assignments = mocks.assignment
	repo := &repository.Repository{
		Unit:         mocks.unit,
		User:         mocks.user,
		Entry:        mocks.entry,
		Assignment:   mocks.assignment,
		Swap:         mocks.swap,
		SwapHistory:  mocks.swapHistory,
		Notification: mocks.notif,
	}
	repo.Tx = func(_ context.Context, fn func(*repository.Repository) error) error {
		before := mocks.snapshot()
		if err := fn(repo); err != nil {
			mocks.restore(before)
			return err
		}
		return nil
	}
	return repo, mocks
}

func strPtr(s string) *string { return &s }
