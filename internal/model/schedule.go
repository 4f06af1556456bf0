package model

import "time"

// ScheduleRun 排班运行表 — 对应 schedule_runs
// 一次生成的 28 天基线；覆写叠加在基线之上，最终视图读取时重算
type ScheduleRun struct {
	RunID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"run_id"`
	StartDate time.Time `gorm:"type:date;not null"                             json:"start_date"`
	Status    string    `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | archived
	BaseModel

	// 关联
	Blocks    []ScheduleBlock    `gorm:"foreignKey:RunID;references:RunID" json:"blocks,omitempty"`
	Overrides []ScheduleOverride `gorm:"foreignKey:RunID;references:RunID" json:"overrides,omitempty"`
}

// TableName 指定表名
func (ScheduleRun) TableName() string { return "schedule_runs" }

// ScheduleBlock 基线班次表 — 对应 schedule_blocks
// 警示、钥匙状态、统计均不落库，读取时由引擎重算
type ScheduleBlock struct {
	BlockID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"block_id"`
	RunID     string    `gorm:"type:uuid;not null;index"                       json:"run_id"`
	Date      time.Time `gorm:"type:date;not null"                             json:"date"`
	StaffID   string    `gorm:"type:uuid;not null"                             json:"staff_id"`
	Code      string    `gorm:"type:varchar(10);not null"                      json:"code"` // P6A/S6A 等班别代码
	StartTime string    `gorm:"type:varchar(5);not null"                       json:"start_time"`
	EndTime   string    `gorm:"type:varchar(5);not null"                       json:"end_time"`
	Hours     float64   `gorm:"type:numeric(4,1);not null"                     json:"hours"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (ScheduleBlock) TableName() string { return "schedule_blocks" }

// ScheduleOverride 单格覆写表 — 对应 schedule_overrides
// 每 (运行, 日期, 员工) 最多一条；NONE 表示强制清空该格
type ScheduleOverride struct {
	OverrideID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"     json:"override_id"`
	RunID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_overrides_cell"  json:"run_id"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:idx_overrides_cell"  json:"date"`
	StaffID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_overrides_cell"  json:"staff_id"`
	Kind       string    `gorm:"type:varchar(10);not null"                          json:"kind"` // SHIFT | MARK | NONE
	Code       string    `gorm:"type:varchar(10)"                                   json:"code,omitempty"`
	MarkType   string    `gorm:"type:varchar(10)"                                   json:"mark_type,omitempty"`
	Hours      float64   `gorm:"type:numeric(4,1);not null;default:0"               json:"hours"`
	BaseModel
}

// TableName 指定表名
func (ScheduleOverride) TableName() string { return "schedule_overrides" }
