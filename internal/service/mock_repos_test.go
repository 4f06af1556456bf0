package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"pharmacy-roster/backend/internal/model"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id 与 username 双索引
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[user.UserID] = user
	m.users["username:"+user.Username] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if u, ok := m.users["username:"+username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	m.users["username:"+user.Username] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for key, u := range m.users {
		if key == u.UserID {
			all = append(all, *u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
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

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	var total int64
	for key, u := range m.users {
		if key == u.UserID {
			total++
		}
	}
	return total, nil
}

// ── Mock StaffRepository ──

type mockStaffRepo struct {
	staff map[string]*model.Staff
	seq   int
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{staff: make(map[string]*model.Staff)}
}

func (m *mockStaffRepo) Create(_ context.Context, staff *model.Staff) error {
	if staff.StaffID == "" {
		m.seq++
		staff.StaffID = fmt.Sprintf("staff-%d", m.seq)
	}
	if staff.Version == 0 {
		staff.Version = 1
	}
	m.staff[staff.StaffID] = staff
	return nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id string) (*model.Staff, error) {
	if s, ok := m.staff[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStaffRepo) Update(_ context.Context, staff *model.Staff) error {
	m.staff[staff.StaffID] = staff
	return nil
}

func (m *mockStaffRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.staff, id)
	return nil
}

func (m *mockStaffRepo) List(_ context.Context) ([]model.Staff, error) {
	var result []model.Staff
	for _, s := range m.staff {
		result = append(result, *s)
	}
	// 与 GORM 实现一致：角色优先、再按显示顺序
	sort.Slice(result, func(i, j int) bool {
		if result[i].Role != result[j].Role {
			return result[i].Role > result[j].Role // pharmacist > clerk
		}
		return result[i].SortOrder < result[j].SortOrder
	})
	return result, nil
}

func (m *mockStaffRepo) ListByRole(_ context.Context, role string) ([]model.Staff, error) {
	var result []model.Staff
	for _, s := range m.staff {
		if s.Role == role {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SortOrder < result[j].SortOrder })
	return result, nil
}

func (m *mockStaffRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var total int64
	for _, s := range m.staff {
		if s.Role == role {
			total++
		}
	}
	return total, nil
}

func (m *mockStaffRepo) MaxSortOrder(_ context.Context, role string) (int, error) {
	max := 0
	for _, s := range m.staff {
		if s.Role == role && s.SortOrder > max {
			max = s.SortOrder
		}
	}
	return max, nil
}

// ── Mock StaffMarkRepository ──

type mockStaffMarkRepo struct {
	marks map[string]*model.StaffMark // key: staff_id + date
}

func newMockStaffMarkRepo() *mockStaffMarkRepo {
	return &mockStaffMarkRepo{marks: make(map[string]*model.StaffMark)}
}

func markKey(staffID string, date time.Time) string {
	return staffID + ":" + date.Format("2006-01-02")
}

func (m *mockStaffMarkRepo) Upsert(_ context.Context, mark *model.StaffMark) error {
	if mark.MarkID == "" {
		mark.MarkID = "mark-" + markKey(mark.StaffID, mark.Date)
	}
	m.marks[markKey(mark.StaffID, mark.Date)] = mark
	return nil
}

func (m *mockStaffMarkRepo) Delete(_ context.Context, staffID string, date time.Time) error {
	delete(m.marks, markKey(staffID, date))
	return nil
}

func (m *mockStaffMarkRepo) ListByStaff(_ context.Context, staffID string) ([]model.StaffMark, error) {
	var result []model.StaffMark
	for _, mk := range m.marks {
		if mk.StaffID == staffID {
			result = append(result, *mk)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *mockStaffMarkRepo) ListByDateRange(_ context.Context, from, to time.Time) ([]model.StaffMark, error) {
	var result []model.StaffMark
	for _, mk := range m.marks {
		if !mk.Date.Before(from) && !mk.Date.After(to) {
			result = append(result, *mk)
		}
	}
	return result, nil
}

// ── Mock RequirementRepository / CoverageRuleRepository ──

type mockRequirementRepo struct {
	items map[string]*model.HourlyRequirement
}

func newMockRequirementRepo() *mockRequirementRepo {
	return &mockRequirementRepo{items: make(map[string]*model.HourlyRequirement)}
}

func (m *mockRequirementRepo) List(_ context.Context) ([]model.HourlyRequirement, error) {
	var result []model.HourlyRequirement
	for _, r := range m.items {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Hour < result[j].Hour })
	return result, nil
}

func (m *mockRequirementRepo) BatchUpsert(_ context.Context, items []model.HourlyRequirement) error {
	for i := range items {
		item := items[i]
		m.items[item.Hour] = &item
	}
	return nil
}

type mockCoverageRuleRepo struct {
	rules map[int]*model.CoverageRule
}

func newMockCoverageRuleRepo() *mockCoverageRuleRepo {
	return &mockCoverageRuleRepo{rules: make(map[int]*model.CoverageRule)}
}

func (m *mockCoverageRuleRepo) List(_ context.Context) ([]model.CoverageRule, error) {
	var result []model.CoverageRule
	for _, r := range m.rules {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Weekday < result[j].Weekday })
	return result, nil
}

func (m *mockCoverageRuleRepo) BatchUpsert(_ context.Context, rules []model.CoverageRule) error {
	for i := range rules {
		rule := rules[i]
		m.rules[rule.Weekday] = &rule
	}
	return nil
}

// ── Mock ScheduleRunRepository ──

type mockScheduleRunRepo struct {
	runs map[string]*model.ScheduleRun
	seq  int
}

func newMockScheduleRunRepo() *mockScheduleRunRepo {
	return &mockScheduleRunRepo{runs: make(map[string]*model.ScheduleRun)}
}

func (m *mockScheduleRunRepo) Create(_ context.Context, run *model.ScheduleRun) error {
	if run.RunID == "" {
		m.seq++
		run.RunID = fmt.Sprintf("run-%d", m.seq)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	m.runs[run.RunID] = run
	return nil
}

func (m *mockScheduleRunRepo) GetByID(_ context.Context, id string) (*model.ScheduleRun, error) {
	if r, ok := m.runs[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRunRepo) GetLatestActive(_ context.Context) (*model.ScheduleRun, error) {
	var latest *model.ScheduleRun
	for _, r := range m.runs {
		if r.Status != "active" {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (m *mockScheduleRunRepo) Update(_ context.Context, run *model.ScheduleRun) error {
	m.runs[run.RunID] = run
	return nil
}

func (m *mockScheduleRunRepo) ArchiveActive(_ context.Context, _ string) error {
	for _, r := range m.runs {
		if r.Status == "active" {
			r.Status = "archived"
		}
	}
	return nil
}

// ── Mock ScheduleBlockRepository ──

type mockScheduleBlockRepo struct {
	blocks []model.ScheduleBlock
	seq    int
}

func newMockScheduleBlockRepo() *mockScheduleBlockRepo {
	return &mockScheduleBlockRepo{}
}

func (m *mockScheduleBlockRepo) BatchCreate(_ context.Context, blocks []model.ScheduleBlock) error {
	for i := range blocks {
		m.seq++
		blocks[i].BlockID = fmt.Sprintf("block-%d", m.seq)
		m.blocks = append(m.blocks, blocks[i])
	}
	return nil
}

func (m *mockScheduleBlockRepo) ListByRun(_ context.Context, runID string) ([]model.ScheduleBlock, error) {
	var result []model.ScheduleBlock
	for _, b := range m.blocks {
		if b.RunID == runID {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime < result[j].StartTime
		}
		return result[i].StaffID < result[j].StaffID
	})
	return result, nil
}

func (m *mockScheduleBlockRepo) DeleteByRun(_ context.Context, runID string) error {
	out := m.blocks[:0]
	for _, b := range m.blocks {
		if b.RunID != runID {
			out = append(out, b)
		}
	}
	m.blocks = out
	return nil
}

// ── Mock ScheduleOverrideRepository ──

type mockScheduleOverrideRepo struct {
	overrides map[string]*model.ScheduleOverride // key: run_id + date + staff_id
}

func newMockScheduleOverrideRepo() *mockScheduleOverrideRepo {
	return &mockScheduleOverrideRepo{overrides: make(map[string]*model.ScheduleOverride)}
}

func overrideKey(runID string, date time.Time, staffID string) string {
	return runID + ":" + date.Format("2006-01-02") + ":" + staffID
}

func (m *mockScheduleOverrideRepo) Upsert(_ context.Context, override *model.ScheduleOverride) error {
	key := overrideKey(override.RunID, override.Date, override.StaffID)
	if override.OverrideID == "" {
		override.OverrideID = "ov-" + key
	}
	m.overrides[key] = override
	return nil
}

func (m *mockScheduleOverrideRepo) Get(_ context.Context, runID string, date time.Time, staffID string) (*model.ScheduleOverride, error) {
	if ov, ok := m.overrides[overrideKey(runID, date, staffID)]; ok {
		return ov, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleOverrideRepo) ListByRun(_ context.Context, runID string) ([]model.ScheduleOverride, error) {
	var result []model.ScheduleOverride
	for _, ov := range m.overrides {
		if ov.RunID == runID {
			result = append(result, *ov)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].OverrideID < result[j].OverrideID
	})
	return result, nil
}

func (m *mockScheduleOverrideRepo) Delete(_ context.Context, runID string, date time.Time, staffID string) error {
	delete(m.overrides, overrideKey(runID, date, staffID))
	return nil
}

func (m *mockScheduleOverrideRepo) DeleteByRun(_ context.Context, runID string) error {
	for key, ov := range m.overrides {
		if ov.RunID == runID {
			delete(m.overrides, key)
		}
	}
	return nil
}

func (m *mockScheduleOverrideRepo) DeleteByRunAndDate(_ context.Context, runID string, date time.Time) error {
	for key, ov := range m.overrides {
		if ov.RunID == runID && ov.Date.Format("2006-01-02") == date.Format("2006-01-02") {
			delete(m.overrides, key)
		}
	}
	return nil
}
