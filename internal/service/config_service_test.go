package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"pharmacy-roster/backend/internal/dto"
	"pharmacy-roster/backend/internal/repository"
)

// ── 测试辅助 ──

func setupTestConfigService() (ConfigService, *mockRequirementRepo, *mockCoverageRuleRepo) {
	reqRepo := newMockRequirementRepo()
	covRepo := newMockCoverageRuleRepo()
	repo := &repository.Repository{
		Requirement: reqRepo,
		Coverage:    covRepo,
	}
	svc := NewConfigService(repo, zap.NewNop())
	return svc, reqRepo, covRepo
}

// ── 配置更新测试 ──

func TestUpdateRequirements(t *testing.T) {
	svc, _, _ := setupTestConfigService()

	result, err := svc.UpdateRequirements(context.Background(), &dto.UpdateRequirementsRequest{
		Items: []dto.HourlyRequirementItem{
			{Hour: "09:00", Required: 2},
			{Hour: "10:00", Required: 3},
		},
	}, "admin-id")

	if err != nil {
		t.Fatalf("UpdateRequirements 应成功: %v", err)
	}
	if len(result.Requirements) != 2 {
		t.Fatalf("期望 2 条需求，实际=%d", len(result.Requirements))
	}
	if result.Requirements[1].Hour != "10:00" || result.Requirements[1].Required != 3 {
		t.Errorf("需求未正确写入: %+v", result.Requirements[1])
	}
}

func TestUpdateRequirements_UpsertOverwrites(t *testing.T) {
	svc, _, _ := setupTestConfigService()

	if _, err := svc.UpdateRequirements(context.Background(), &dto.UpdateRequirementsRequest{
		Items: []dto.HourlyRequirementItem{{Hour: "09:00", Required: 2}},
	}, "admin-id"); err != nil {
		t.Fatalf("首次写入失败: %v", err)
	}

	result, err := svc.UpdateRequirements(context.Background(), &dto.UpdateRequirementsRequest{
		Items: []dto.HourlyRequirementItem{{Hour: "09:00", Required: 5}},
	}, "admin-id")
	if err != nil {
		t.Fatalf("二次写入失败: %v", err)
	}
	if len(result.Requirements) != 1 {
		t.Fatalf("同一整点应覆盖而非新增，实际=%d 条", len(result.Requirements))
	}
	if result.Requirements[0].Required != 5 {
		t.Errorf("期望 Required=5，实际=%d", result.Requirements[0].Required)
	}
}

func TestUpdateCoverage(t *testing.T) {
	svc, _, _ := setupTestConfigService()

	result, err := svc.UpdateCoverage(context.Background(), &dto.UpdateCoverageRequest{
		Rules: []dto.CoverageRuleItem{
			{Weekday: 1, Enabled: true, StartTime: "09:00", EndTime: "21:00"},
			{Weekday: 6, Enabled: false, StartTime: "09:00", EndTime: "21:00"},
		},
	}, "admin-id")

	if err != nil {
		t.Fatalf("UpdateCoverage 应成功: %v", err)
	}
	if len(result.Coverage) != 2 {
		t.Fatalf("期望 2 条规则，实际=%d", len(result.Coverage))
	}
	if !result.Coverage[0].Enabled || result.Coverage[1].Enabled {
		t.Errorf("启用状态未正确写入: %+v", result.Coverage)
	}
}

// ── 预设模式测试 ──

func TestApplyPreset_Standard(t *testing.T) {
	svc, _, _ := setupTestConfigService()

	result, err := svc.ApplyPreset(context.Background(), &dto.ApplyPresetRequest{Preset: "standard"}, "admin-id")
	if err != nil {
		t.Fatalf("ApplyPreset 应成功: %v", err)
	}

	// 09:00~21:00 共 13 个追踪整点，需求均为 2
	if len(result.Requirements) != 13 {
		t.Fatalf("期望 13 条整点需求，实际=%d", len(result.Requirements))
	}
	for _, item := range result.Requirements {
		if item.Required != 2 {
			t.Errorf("标准模式整点 %s 需求应为 2，实际=%d", item.Hour, item.Required)
		}
	}

	// 全周启用 09:00-21:00
	if len(result.Coverage) != 7 {
		t.Fatalf("期望 7 条覆盖规则，实际=%d", len(result.Coverage))
	}
	for _, rule := range result.Coverage {
		if !rule.Enabled {
			t.Errorf("标准模式周 %d 应启用覆盖", rule.Weekday)
		}
		if rule.StartTime != "09:00" || rule.EndTime != "21:00" {
			t.Errorf("标准模式覆盖时段应为 09:00-21:00，实际=%s-%s", rule.StartTime, rule.EndTime)
		}
	}
}

func TestApplyPreset_Relaxed(t *testing.T) {
	svc, _, _ := setupTestConfigService()

	result, err := svc.ApplyPreset(context.Background(), &dto.ApplyPresetRequest{Preset: "relaxed"}, "admin-id")
	if err != nil {
		t.Fatalf("ApplyPreset 应成功: %v", err)
	}

	for _, item := range result.Requirements {
		if item.Required != 1 {
			t.Errorf("宽松模式整点 %s 需求应为 1，实际=%d", item.Hour, item.Required)
		}
	}
	for _, rule := range result.Coverage {
		weekend := rule.Weekday == 0 || rule.Weekday == 6
		if weekend && rule.Enabled {
			t.Errorf("宽松模式周末（周 %d）不应启用覆盖", rule.Weekday)
		}
		if !weekend && !rule.Enabled {
			t.Errorf("宽松模式工作日（周 %d）应启用覆盖", rule.Weekday)
		}
		if rule.Enabled && (rule.StartTime != "10:00" || rule.EndTime != "20:00") {
			t.Errorf("宽松模式覆盖时段应为 10:00-20:00，实际=%s-%s", rule.StartTime, rule.EndTime)
		}
	}
}
