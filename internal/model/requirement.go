package model

// HourlyRequirement 整点人力需求表 — 对应 hourly_requirements
// 每个追踪整点（09:00~21:00）一条记录
type HourlyRequirement struct {
	RequirementID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"requirement_id"`
	Hour          string `gorm:"type:varchar(5);not null;uniqueIndex"           json:"hour"` // "09:00" 格式
	Required      int    `gorm:"not null;default:0"                             json:"required"`
	BaseModel
}

// TableName 指定表名
func (HourlyRequirement) TableName() string { return "hourly_requirements" }

// CoverageRule 药师严格覆盖规则表 — 对应 coverage_rules
// 按星期几（0=周日 ~ 6=周六）各一条
type CoverageRule struct {
	RuleID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"rule_id"`
	Weekday   int    `gorm:"not null;uniqueIndex"                           json:"weekday"`
	Enabled   bool   `gorm:"not null;default:false"                         json:"enabled"`
	StartTime string `gorm:"type:varchar(5);not null;default:'09:00'"       json:"start_time"`
	EndTime   string `gorm:"type:varchar(5);not null;default:'21:00'"       json:"end_time"`
	BaseModel
}

// TableName 指定表名
func (CoverageRule) TableName() string { return "coverage_rules" }
