package dto

// ── 排班模块 DTO ──

// GenerateScheduleRequest 生成排班请求
type GenerateScheduleRequest struct {
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
}

// SetOverrideRequest 单格覆写请求
// Kind=SHIFT 时 Code 必填；Kind=MARK 时 MarkType 必填；Kind=NONE 清空该格
type SetOverrideRequest struct {
	Date     string  `json:"date"      binding:"required,datetime=2006-01-02"`
	StaffID  string  `json:"staff_id"  binding:"required,uuid"`
	Kind     string  `json:"kind"      binding:"required,oneof=SHIFT MARK NONE"`
	Code     string  `json:"code"      binding:"omitempty,max=10"`
	MarkType string  `json:"mark_type" binding:"omitempty,oneof=OFF PUBLIC ANNUAL COMP SUPPORT"`
	Hours    float64 `json:"hours"     binding:"omitempty,min=0,max=24"`
}

// CycleCellRequest 单格循环点击请求
type CycleCellRequest struct {
	Date    string `json:"date"     binding:"required,datetime=2006-01-02"`
	StaffID string `json:"staff_id" binding:"required,uuid"`
}

// ClearOverridesRequest 清空覆写请求
type ClearOverridesRequest struct {
	Date *string `json:"date" binding:"omitempty,datetime=2006-01-02"` // 为空时清空整个运行的覆写
}

// BlockResponse 班次响应
type BlockResponse struct {
	StaffID   string  `json:"staff_id"`
	StaffName string  `json:"staff_name"`
	Code      string  `json:"code"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Hours     float64 `json:"hours"`
}

// KeyStatusResponse 开/关店钥匙检查结果
type KeyStatusResponse struct {
	OK      bool   `json:"ok"`
	Holder  string `json:"holder,omitempty"`
	Suggest string `json:"suggest,omitempty"`
}

// KeyStateResponse 当日钥匙状态
type KeyStateResponse struct {
	Open  *KeyStatusResponse `json:"open,omitempty"`
	Close *KeyStatusResponse `json:"close,omitempty"`
	Notes []string           `json:"notes,omitempty"`
}

// DayResponse 单日排班响应
type DayResponse struct {
	Date        string           `json:"date"`
	Pharmacists []BlockResponse  `json:"pharmacists"`
	Clerks      []BlockResponse  `json:"clerks"`
	Marks       []MarkResponse   `json:"marks,omitempty"`
	Warnings    []string         `json:"warnings"`
	Key         KeyStateResponse `json:"key"`
}

// ShiftStatResponse 逐人班次统计响应
type ShiftStatResponse struct {
	StaffID       string  `json:"staff_id"`
	Name          string  `json:"name"`
	Role          string  `json:"role"`
	Morning       int     `json:"morning"`
	Evening       int     `json:"evening"`
	Full          int     `json:"full"`
	Other         int     `json:"other"`
	BaseHours     float64 `json:"base_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
}

// ScheduleResponse 排班完整视图（基线 + 覆写叠加后的最终结果）
type ScheduleResponse struct {
	RunID     string              `json:"run_id"`
	StartDate string              `json:"start_date"`
	Status    string              `json:"status"`
	Days      []DayResponse       `json:"days"`
	Stats     []ShiftStatResponse `json:"stats"`
	CreatedAt string              `json:"created_at"`
}
