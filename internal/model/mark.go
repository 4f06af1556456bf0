package model

import "time"

// StaffMark 员工日期标记表 — 对应 staff_marks
// 每人每天最多一条；NONE 不落库（删除该行即视为 NONE）
type StaffMark struct {
	MarkID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"      json:"mark_id"`
	StaffID string    `gorm:"type:uuid;not null;uniqueIndex:idx_staff_marks_date" json:"staff_id"`
	Date    time.Time `gorm:"type:date;not null;uniqueIndex:idx_staff_marks_date" json:"date"`
	Type    string    `gorm:"type:varchar(10);not null"                           json:"type"` // OFF | PUBLIC | ANNUAL | COMP | SUPPORT
	Hours   float64   `gorm:"type:numeric(4,1);not null;default:0"                json:"hours"`
	BaseModel
}

// TableName 指定表名
func (StaffMark) TableName() string { return "staff_marks" }
