package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"pharmacy-roster/backend/config"
	"pharmacy-roster/backend/internal/dto"
	"pharmacy-roster/backend/internal/model"
	"pharmacy-roster/backend/internal/repository"
	"pharmacy-roster/backend/internal/roster"
)

// ── 测试辅助 ──

func setupTestExportService() (ExportService, ScheduleService, *scheduleTestDeps) {
	deps := &scheduleTestDeps{
		staff:     newMockStaffRepo(),
		marks:     newMockStaffMarkRepo(),
		runs:      newMockScheduleRunRepo(),
		blocks:    newMockScheduleBlockRepo(),
		overrides: newMockScheduleOverrideRepo(),
	}

	reqRepo := newMockRequirementRepo()
	covRepo := newMockCoverageRuleRepo()
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
	scheduleSvc := NewScheduleService(cfg, repo, zap.NewNop())
	exportSvc := NewExportService(repo, scheduleSvc, zap.NewNop())
	return exportSvc, scheduleSvc, deps
}

// ── Excel 导出测试 ──

func TestExportExcel_Success(t *testing.T) {
	exportSvc, scheduleSvc, deps := setupTestExportService()
	seedTestRoster(deps)

	view, err := scheduleSvc.Generate(context.Background(), &dto.GenerateScheduleRequest{
		StartDate: "2026-09-07",
	}, "admin-id")
	if err != nil {
		t.Fatalf("Generate 失败: %v", err)
	}

	buf, filename, err := exportSvc.ExportExcel(context.Background(), view.RunID)
	if err != nil {
		t.Fatalf("ExportExcel 应成功: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("导出内容不应为空")
	}
	// xlsx 是 zip 容器，以 PK 开头
	if head := buf.Bytes()[:2]; head[0] != 'P' || head[1] != 'K' {
		t.Errorf("导出内容应为 xlsx（zip）格式，头部=%q", head)
	}
	if !strings.Contains(filename, "2026-09-07") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名应含起始日与 .xlsx 后缀，实际=%s", filename)
	}
}

func TestExportExcel_RunNotFound(t *testing.T) {
	exportSvc, _, _ := setupTestExportService()

	_, _, err := exportSvc.ExportExcel(context.Background(), "no-such-run")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("期望 ErrRunNotFound，实际: %v", err)
	}
}

// ── ICS 导出测试 ──

func TestExportICS_Success(t *testing.T) {
	exportSvc, scheduleSvc, deps := setupTestExportService()
	pharmacist, _ := seedTestRoster(deps)

	view, err := scheduleSvc.Generate(context.Background(), &dto.GenerateScheduleRequest{
		StartDate: "2026-09-07",
	}, "admin-id")
	if err != nil {
		t.Fatalf("Generate 失败: %v", err)
	}

	buf, filename, err := exportSvc.ExportICS(context.Background(), view.RunID, pharmacist.StaffID)
	if err != nil {
		t.Fatalf("ExportICS 应成功: %v", err)
	}

	content := buf.String()
	if !strings.Contains(content, "BEGIN:VCALENDAR") || !strings.Contains(content, "BEGIN:VEVENT") {
		t.Error("导出内容应为含事件的 iCalendar")
	}
	if !strings.Contains(content, pharmacist.Name) {
		t.Errorf("事件摘要应包含员工姓名 %s", pharmacist.Name)
	}
	if !strings.Contains(filename, pharmacist.Name) || !strings.HasSuffix(filename, ".ics") {
		t.Errorf("文件名应含员工姓名与 .ics 后缀，实际=%s", filename)
	}
}

func TestExportICS_OnlyTargetStaffEvents(t *testing.T) {
	exportSvc, scheduleSvc, deps := setupTestExportService()
	pharmacist, clerk := seedTestRoster(deps)

	view, err := scheduleSvc.Generate(context.Background(), &dto.GenerateScheduleRequest{
		StartDate: "2026-09-07",
	}, "admin-id")
	if err != nil {
		t.Fatalf("Generate 失败: %v", err)
	}

	buf, _, err := exportSvc.ExportICS(context.Background(), view.RunID, clerk.StaffID)
	if err != nil {
		t.Fatalf("ExportICS 应成功: %v", err)
	}
	if strings.Contains(buf.String(), pharmacist.Name) {
		t.Error("单人导出不应包含他人班次")
	}
}

func TestExportICS_NoBlocks(t *testing.T) {
	exportSvc, _, deps := setupTestExportService()
	pharmacist, _ := seedTestRoster(deps)
	run := createTestRun(deps, "2026-09-07") // 空基线，无任何班次

	_, _, err := exportSvc.ExportICS(context.Background(), run.RunID, pharmacist.StaffID)
	if !errors.Is(err, ErrExportNoBlocks) {
		t.Errorf("期望 ErrExportNoBlocks，实际: %v", err)
	}
}

func TestExportICS_StaffNotFound(t *testing.T) {
	exportSvc, scheduleSvc, deps := setupTestExportService()
	seedTestRoster(deps)

	view, err := scheduleSvc.Generate(context.Background(), &dto.GenerateScheduleRequest{
		StartDate: "2026-09-07",
	}, "admin-id")
	if err != nil {
		t.Fatalf("Generate 失败: %v", err)
	}

	_, _, err = exportSvc.ExportICS(context.Background(), view.RunID, "no-such-staff")
	if !errors.Is(err, ErrStaffNotFound) {
		t.Errorf("期望 ErrStaffNotFound，实际: %v", err)
	}
}
