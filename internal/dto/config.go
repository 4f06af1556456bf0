package dto

// ── 排班配置模块 DTO ──

// HourlyRequirementItem 单个整点的人力需求
type HourlyRequirementItem struct {
	Hour     string `json:"hour"     binding:"required,len=5"`
	Required int    `json:"required" binding:"min=0,max=20"`
}

// UpdateRequirementsRequest 批量更新整点需求请求
type UpdateRequirementsRequest struct {
	Items []HourlyRequirementItem `json:"items" binding:"required,dive"`
}

// CoverageRuleItem 某星期几的药师覆盖规则
type CoverageRuleItem struct {
	Weekday   int    `json:"weekday"    binding:"min=0,max=6"`
	Enabled   bool   `json:"enabled"`
	StartTime string `json:"start_time" binding:"required,len=5"`
	EndTime   string `json:"end_time"   binding:"required,len=5"`
}

// UpdateCoverageRequest 批量更新覆盖规则请求
type UpdateCoverageRequest struct {
	Rules []CoverageRuleItem `json:"rules" binding:"required,dive"`
}

// ApplyPresetRequest 套用预设模式请求
// standard: 全周启用 09:00-21:00 覆盖，各整点需求 2
// relaxed:  仅工作日启用 10:00-20:00 覆盖，各整点需求 1
type ApplyPresetRequest struct {
	Preset string `json:"preset" binding:"required,oneof=standard relaxed"`
}

// ScheduleConfigResponse 排班配置完整视图
type ScheduleConfigResponse struct {
	Requirements []HourlyRequirementItem `json:"requirements"`
	Coverage     []CoverageRuleItem      `json:"coverage"`
}
