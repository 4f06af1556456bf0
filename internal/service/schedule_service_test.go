package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"pharmacy-roster/backend/config"
	"pharmacy-roster/backend/internal/dto"
	"pharmacy-roster/backend/internal/model"
	"pharmacy-roster/backend/internal/repository"
	"pharmacy-roster/backend/internal/roster"
)

// ── 测试辅助 ──

type scheduleTestDeps struct {
	staff     *mockStaffRepo
	marks     *mockStaffMarkRepo
	runs      *mockScheduleRunRepo
	blocks    *mockScheduleBlockRepo
	overrides *mockScheduleOverrideRepo
}

func setupTestScheduleService() (ScheduleService, *scheduleTestDeps) {
	deps := &scheduleTestDeps{
		staff:     newMockStaffRepo(),
		marks:     newMockStaffMarkRepo(),
		runs:      newMockScheduleRunRepo(),
		blocks:    newMockScheduleBlockRepo(),
		overrides: newMockScheduleOverrideRepo(),
	}

	reqRepo := newMockRequirementRepo()
	covRepo := newMockCoverageRuleRepo()
	// 标准模式配置：全周 09:00-21:00 覆盖，各整点需求 2
	items := make([]model.HourlyRequirement, 0, 13)
	for _, h := range roster.TrackedHours() {
		items = append(items, model.HourlyRequirement{Hour: h, Required: 2})
	}
	_ = reqRepo.BatchUpsert(context.Background(), items)
	rules := make([]model.CoverageRule, 0, 7)
	for wd := 0; wd < 7; wd++ {
		rules = append(rules, model.CoverageRule{Weekday: wd, Enabled: true, StartTime: "09:00", EndTime: "21:00"})
	}
	_ = covRepo.BatchUpsert(context.Background(), rules)

	repo := &repository.Repository{
		Staff:       deps.staff,
		StaffMark:   deps.marks,
		Requirement: reqRepo,
		Coverage:    covRepo,
		Run:         deps.runs,
		Block:       deps.blocks,
		Override:    deps.overrides,
	}
	cfg := &config.Config{
		Schedule: config.ScheduleConfig{CoverageGuard: 8, FillGuard: 24},
	}
	svc := NewScheduleService(cfg, repo, zap.NewNop())
	return svc, deps
}

// seedTestRoster 填入一组够用的排班人力：2 药师（含主管带钥匙）+ 2 门市（1 人带钥匙）
func seedTestRoster(deps *scheduleTestDeps) (pharmacist, clerk *model.Staff) {
	pharmacist = &model.Staff{Name: "王药师", Role: "pharmacist", StaffType: "manager", Score: 1, HasKey: true, SortOrder: 1}
	second := &model.Staff{Name: "林药师", Role: "pharmacist", StaffType: "general", Score: 1, SortOrder: 2}
	clerk = &model.Staff{Name: "门市1", Role: "clerk", StaffType: "general", Score: 1, HasKey: true, SortOrder: 1}
	fourth := &model.Staff{Name: "门市2", Role: "clerk", StaffType: "general", Score: 1, SortOrder: 2}
	ctx := context.Background()
	_ = deps.staff.Create(ctx, pharmacist)
	_ = deps.staff.Create(ctx, second)
	_ = deps.staff.Create(ctx, clerk)
	_ = deps.staff.Create(ctx, fourth)
	return pharmacist, clerk
}

// createTestRun 直接落一个空基线的运行（不经过 Generate）
func createTestRun(deps *scheduleTestDeps, startDate string) *model.ScheduleRun {
	date, _ := roster.ParseDateKey(startDate)
	run := &model.ScheduleRun{StartDate: date, Status: "active"}
	_ = deps.runs.Create(context.Background(), run)
	return run
}

// ── 生成测试 ──

func TestGenerate_PersistsRunAndBlocks(t *testing.T) {
	svc, deps := setupTestScheduleService()
	seedTestRoster(deps)

	result, err := svc.Generate(context.Background(), &dto.GenerateScheduleRequest{
		StartDate: "2026-09-07",
	}, "admin-id")

	if err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}
	if len(result.Days) != roster.HorizonDays {
		t.Fatalf("期望 %d 天，实际=%d", roster.HorizonDays, len(result.Days))
	}
	if result.Status != "active" {
		t.Errorf("新运行状态应为 active，实际=%s", result.Status)
	}
	if result.Days[0].Date != "2026-09-07" {
		t.Errorf("首日应为起始日，实际=%s", result.Days[0].Date)
	}

	blocks, _ := deps.blocks.ListByRun(context.Background(), result.RunID)
	if len(blocks) == 0 {
		t.Error("基线班次应已落库")
	}
	if len(result.Stats) != 4 {
		t.Errorf("期望 4 人统计，实际=%d", len(result.Stats))
	}
}

func TestGenerate_ArchivesPreviousRun(t *testing.T) {
	svc, deps := setupTestScheduleService()
	seedTestRoster(deps)

	first, err := svc.Generate(context.Background(), &dto.GenerateScheduleRequest{
		StartDate: "2026-09-07",
	}, "admin-id")
	if err != nil {
		t.Fatalf("首次 Generate 失败: %v", err)
	}
	second, err := svc.Generate(context.Background(), &dto.GenerateScheduleRequest{
		StartDate: "2026-10-05",
	}, "admin-id")
	if err != nil {
		t.Fatalf("二次 Generate 失败: %v", err)
	}

	old, _ := deps.runs.GetByID(context.Background(), first.RunID)
	if old.Status != "archived" {
		t.Errorf("旧运行应被归档，实际状态=%s", old.Status)
	}
	latest, err := svc.GetLatest(context.Background())
	if err != nil {
		t.Fatalf("GetLatest 失败: %v", err)
	}
	if latest.RunID != second.RunID {
		t.Errorf("GetLatest 应返回新运行 %s，实际=%s", second.RunID, latest.RunID)
	}
}

// ── 查询测试 ──

func TestGetLatest_NoActiveRun(t *testing.T) {
	svc, _ := setupTestScheduleService()

	_, err := svc.GetLatest(context.Background())
	if !errors.Is(err, ErrNoActiveRun) {
		t.Errorf("期望 ErrNoActiveRun，实际: %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _ := setupTestScheduleService()

	_, err := svc.GetByID(context.Background(), "no-such-run")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("期望 ErrRunNotFound，实际: %v", err)
	}
}

// ── 覆写测试 ──

func TestSetOverride_ShiftChangesView(t *testing.T) {
	svc, deps := setupTestScheduleService()
	pharmacist, _ := seedTestRoster(deps)
	run := createTestRun(deps, "2026-09-07")

	result, err := svc.SetOverride(context.Background(), run.RunID, &dto.SetOverrideRequest{
		Date:    "2026-09-08",
		StaffID: pharmacist.StaffID,
		Kind:    "SHIFT",
		Code:    "P8A",
	}, "admin-id")

	if err != nil {
		t.Fatalf("SetOverride 应成功: %v", err)
	}

	found := false
	for _, b := range result.Days[1].Pharmacists {
		if b.StaffID == pharmacist.StaffID && b.Code == "P8A" {
			found = true
		}
	}
	if !found {
		t.Error("覆写后该日应出现 P8A 班次")
	}
}

func TestSetOverride_InvalidShiftCode(t *testing.T) {
	svc, deps := setupTestScheduleService()
	_, clerk := seedTestRoster(deps)
	run := createTestRun(deps, "2026-09-07")

	// P6A 是药师班别，门市不可用
	_, err := svc.SetOverride(context.Background(), run.RunID, &dto.SetOverrideRequest{
		Date:    "2026-09-08",
		StaffID: clerk.StaffID,
		Kind:    "SHIFT",
		Code:    "P6A",
	}, "admin-id")

	if !errors.Is(err, ErrInvalidShiftCode) {
		t.Errorf("期望 ErrInvalidShiftCode，实际: %v", err)
	}
}

func TestSetOverride_MarkDefaultHours(t *testing.T) {
	svc, deps := setupTestScheduleService()
	pharmacist, _ := seedTestRoster(deps)
	run := createTestRun(deps, "2026-09-07")

	result, err := svc.SetOverride(context.Background(), run.RunID, &dto.SetOverrideRequest{
		Date:     "2026-09-08",
		StaffID:  pharmacist.StaffID,
		Kind:     "MARK",
		MarkType: "ANNUAL",
	}, "admin-id")

	if err != nil {
		t.Fatalf("SetOverride 应成功: %v", err)
	}

	date, _ := roster.ParseDateKey("2026-09-08")
	stored, err := deps.overrides.Get(context.Background(), run.RunID, date, pharmacist.StaffID)
	if err != nil {
		t.Fatalf("覆写应已落库: %v", err)
	}
	if stored.Hours != roster.MarkDefaultHours {
		t.Errorf("计时标记未携带时数应默认 %.0fh，实际=%.1f", float64(roster.MarkDefaultHours), stored.Hours)
	}

	// 视图中该日应出现对应标记
	found := false
	for _, m := range result.Days[1].Marks {
		if m.StaffID == pharmacist.StaffID && m.Type == "ANNUAL" {
			found = true
		}
	}
	if !found {
		t.Error("覆写后该日标记应包含 ANNUAL")
	}
}

func TestSetOverride_RunNotFound(t *testing.T) {
	svc, deps := setupTestScheduleService()
	pharmacist, _ := seedTestRoster(deps)

	_, err := svc.SetOverride(context.Background(), "no-such-run", &dto.SetOverrideRequest{
		Date:    "2026-09-08",
		StaffID: pharmacist.StaffID,
		Kind:    "NONE",
	}, "admin-id")

	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("期望 ErrRunNotFound，实际: %v", err)
	}
}

// ── 单格循环测试 ──

func TestCycleCell_AdvancesThroughSequence(t *testing.T) {
	svc, deps := setupTestScheduleService()
	pharmacist, _ := seedTestRoster(deps)
	run := createTestRun(deps, "2026-09-07")

	ctx := context.Background()
	date, _ := roster.ParseDateKey("2026-09-08")
	seq := roster.CycleSequence(roster.RolePharmacist)

	// 空白格起步，循环前三步应依次落下序列中的班别
	for step := 1; step <= 3; step++ {
		if _, err := svc.CycleCell(ctx, run.RunID, &dto.CycleCellRequest{
			Date:    "2026-09-08",
			StaffID: pharmacist.StaffID,
		}, "admin-id"); err != nil {
			t.Fatalf("第 %d 次 CycleCell 失败: %v", step, err)
		}

		stored, err := deps.overrides.Get(ctx, run.RunID, date, pharmacist.StaffID)
		if err != nil {
			t.Fatalf("覆写应已落库: %v", err)
		}
		if stored.Kind != "SHIFT" || stored.Code != seq[step] {
			t.Errorf("第 %d 次循环期望 SHIFT/%s，实际 %s/%s", step, seq[step], stored.Kind, stored.Code)
		}
	}
}

func TestCycleCell_MarkAndBackToBlank(t *testing.T) {
	svc, deps := setupTestScheduleService()
	pharmacist, _ := seedTestRoster(deps)
	run := createTestRun(deps, "2026-09-07")

	ctx := context.Background()
	date, _ := roster.ParseDateKey("2026-09-08")

	// 从 SUPPORT（序列末位标记）再点一次应回到空白
	if _, err := svc.SetOverride(ctx, run.RunID, &dto.SetOverrideRequest{
		Date:     "2026-09-08",
		StaffID:  pharmacist.StaffID,
		Kind:     "MARK",
		MarkType: "SUPPORT",
	}, "admin-id"); err != nil {
		t.Fatalf("SetOverride 失败: %v", err)
	}

	if _, err := svc.CycleCell(ctx, run.RunID, &dto.CycleCellRequest{
		Date:    "2026-09-08",
		StaffID: pharmacist.StaffID,
	}, "admin-id"); err != nil {
		t.Fatalf("CycleCell 失败: %v", err)
	}

	stored, err := deps.overrides.Get(ctx, run.RunID, date, pharmacist.StaffID)
	if err != nil {
		t.Fatalf("覆写应已落库: %v", err)
	}
	if stored.Kind != "NONE" {
		t.Errorf("SUPPORT 之后应回到空白（NONE），实际 Kind=%s", stored.Kind)
	}
	if stored.MarkType != "" {
		t.Errorf("NONE 覆写不应残留标记类型，实际=%s", stored.MarkType)
	}
}

// ── 清空覆写测试 ──

func TestClearOverrides_SingleDay(t *testing.T) {
	svc, deps := setupTestScheduleService()
	pharmacist, clerk := seedTestRoster(deps)
	run := createTestRun(deps, "2026-09-07")

	ctx := context.Background()
	for _, ov := range []struct {
		date    string
		staffID string
	}{
		{"2026-09-08", pharmacist.StaffID},
		{"2026-09-09", clerk.StaffID},
	} {
		if _, err := svc.SetOverride(ctx, run.RunID, &dto.SetOverrideRequest{
			Date:     ov.date,
			StaffID:  ov.staffID,
			Kind:     "MARK",
			MarkType: "OFF",
		}, "admin-id"); err != nil {
			t.Fatalf("SetOverride 失败: %v", err)
		}
	}

	day := "2026-09-08"
	if _, err := svc.ClearOverrides(ctx, run.RunID, &dto.ClearOverridesRequest{Date: &day}, "admin-id"); err != nil {
		t.Fatalf("ClearOverrides 失败: %v", err)
	}

	remaining, _ := deps.overrides.ListByRun(ctx, run.RunID)
	if len(remaining) != 1 {
		t.Fatalf("期望剩 1 条覆写，实际=%d", len(remaining))
	}
	if roster.DateKey(remaining[0].Date) != "2026-09-09" {
		t.Errorf("应仅清除 2026-09-08 的覆写，剩余=%s", roster.DateKey(remaining[0].Date))
	}
}

func TestClearOverrides_WholeRun(t *testing.T) {
	svc, deps := setupTestScheduleService()
	pharmacist, clerk := seedTestRoster(deps)
	run := createTestRun(deps, "2026-09-07")

	ctx := context.Background()
	for _, staffID := range []string{pharmacist.StaffID, clerk.StaffID} {
		if _, err := svc.SetOverride(ctx, run.RunID, &dto.SetOverrideRequest{
			Date:     "2026-09-08",
			StaffID:  staffID,
			Kind:     "MARK",
			MarkType: "OFF",
		}, "admin-id"); err != nil {
			t.Fatalf("SetOverride 失败: %v", err)
		}
	}

	if _, err := svc.ClearOverrides(ctx, run.RunID, &dto.ClearOverridesRequest{}, "admin-id"); err != nil {
		t.Fatalf("ClearOverrides 失败: %v", err)
	}

	remaining, _ := deps.overrides.ListByRun(ctx, run.RunID)
	if len(remaining) != 0 {
		t.Errorf("整个运行的覆写应被清空，实际剩 %d 条", len(remaining))
	}
}
