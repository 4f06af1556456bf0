package service

import (
	"context"

	"go.uber.org/zap"

	"pharmacy-roster/backend/internal/dto"
	"pharmacy-roster/backend/internal/model"
	"pharmacy-roster/backend/internal/repository"
	"pharmacy-roster/backend/internal/roster"
)

// ConfigService 排班配置业务接口（整点需求 + 药师覆盖规则）
type ConfigService interface {
	GetConfig(ctx context.Context) (*dto.ScheduleConfigResponse, error)
	UpdateRequirements(ctx context.Context, req *dto.UpdateRequirementsRequest, callerID string) (*dto.ScheduleConfigResponse, error)
	UpdateCoverage(ctx context.Context, req *dto.UpdateCoverageRequest, callerID string) (*dto.ScheduleConfigResponse, error)
	ApplyPreset(ctx context.Context, req *dto.ApplyPresetRequest, callerID string) (*dto.ScheduleConfigResponse, error)
}

type configService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewConfigService 创建 ConfigService 实例
func NewConfigService(repo *repository.Repository, logger *zap.Logger) ConfigService {
	return &configService{repo: repo, logger: logger}
}

func (s *configService) GetConfig(ctx context.Context) (*dto.ScheduleConfigResponse, error) {
	return s.buildConfigResponse(ctx)
}

func (s *configService) UpdateRequirements(ctx context.Context, req *dto.UpdateRequirementsRequest, callerID string) (*dto.ScheduleConfigResponse, error) {
	items := make([]model.HourlyRequirement, 0, len(req.Items))
	for _, it := range req.Items {
		item := model.HourlyRequirement{Hour: it.Hour, Required: it.Required}
		item.CreatedBy = &callerID
		item.UpdatedBy = &callerID
		items = append(items, item)
	}

	if err := s.repo.Requirement.BatchUpsert(ctx, items); err != nil {
		s.logger.Error("更新整点需求失败", zap.Error(err))
		return nil, err
	}
	return s.buildConfigResponse(ctx)
}

func (s *configService) UpdateCoverage(ctx context.Context, req *dto.UpdateCoverageRequest, callerID string) (*dto.ScheduleConfigResponse, error) {
	rules := make([]model.CoverageRule, 0, len(req.Rules))
	for _, r := range req.Rules {
		rule := model.CoverageRule{
			Weekday:   r.Weekday,
			Enabled:   r.Enabled,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
		}
		rule.CreatedBy = &callerID
		rule.UpdatedBy = &callerID
		rules = append(rules, rule)
	}

	if err := s.repo.Coverage.BatchUpsert(ctx, rules); err != nil {
		s.logger.Error("更新覆盖规则失败", zap.Error(err))
		return nil, err
	}
	return s.buildConfigResponse(ctx)
}

// ApplyPreset 套用预设模式：
//
//	standard — 全周启用 09:00-21:00 严格覆盖，各整点需求 2
//	relaxed  — 仅周一至周五启用 10:00-20:00 覆盖，各整点需求 1
func (s *configService) ApplyPreset(ctx context.Context, req *dto.ApplyPresetRequest, callerID string) (*dto.ScheduleConfigResponse, error) {
	required := 2
	start, end := "09:00", "21:00"
	weekdaysOnly := false
	if req.Preset == "relaxed" {
		required = 1
		start, end = "10:00", "20:00"
		weekdaysOnly = true
	}

	items := make([]model.HourlyRequirement, 0, len(roster.TrackedHours()))
	for _, h := range roster.TrackedHours() {
		item := model.HourlyRequirement{Hour: h, Required: required}
		item.CreatedBy = &callerID
		item.UpdatedBy = &callerID
		items = append(items, item)
	}

	rules := make([]model.CoverageRule, 0, 7)
	for wd := 0; wd < 7; wd++ {
		enabled := true
		if weekdaysOnly && (wd == 0 || wd == 6) {
			enabled = false
		}
		rule := model.CoverageRule{
			Weekday:   wd,
			Enabled:   enabled,
			StartTime: start,
			EndTime:   end,
		}
		rule.CreatedBy = &callerID
		rule.UpdatedBy = &callerID
		rules = append(rules, rule)
	}

	if err := s.repo.Requirement.BatchUpsert(ctx, items); err != nil {
		s.logger.Error("套用预设需求失败", zap.Error(err))
		return nil, err
	}
	if err := s.repo.Coverage.BatchUpsert(ctx, rules); err != nil {
		s.logger.Error("套用预设覆盖失败", zap.Error(err))
		return nil, err
	}

	return s.buildConfigResponse(ctx)
}

func (s *configService) buildConfigResponse(ctx context.Context) (*dto.ScheduleConfigResponse, error) {
	items, err := s.repo.Requirement.List(ctx)
	if err != nil {
		s.logger.Error("查询整点需求失败", zap.Error(err))
		return nil, err
	}
	rules, err := s.repo.Coverage.List(ctx)
	if err != nil {
		s.logger.Error("查询覆盖规则失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.ScheduleConfigResponse{
		Requirements: make([]dto.HourlyRequirementItem, 0, len(items)),
		Coverage:     make([]dto.CoverageRuleItem, 0, len(rules)),
	}
	for _, it := range items {
		resp.Requirements = append(resp.Requirements, dto.HourlyRequirementItem{
			Hour:     it.Hour,
			Required: it.Required,
		})
	}
	for _, r := range rules {
		resp.Coverage = append(resp.Coverage, dto.CoverageRuleItem{
			Weekday:   r.Weekday,
			Enabled:   r.Enabled,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
		})
	}
	return resp, nil
}
