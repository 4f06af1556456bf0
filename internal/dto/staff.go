package dto

// ── 员工模块 DTO ──

// CreateStaffRequest 新增员工请求
type CreateStaffRequest struct {
	Name      string `json:"name"       binding:"required,min=1,max=20"`
	Role      string `json:"role"       binding:"required,oneof=pharmacist clerk"`
	StaffType string `json:"staff_type" binding:"omitempty,oneof=manager general"`
	Score     int    `json:"score"      binding:"omitempty,min=1,max=5"`
	HasKey    bool   `json:"has_key"`
}

// UpdateStaffRequest 更新员工请求（可选字段语义：nil 表示不修改）
type UpdateStaffRequest struct {
	Name      *string `json:"name"       binding:"omitempty,min=1,max=20"`
	StaffType *string `json:"staff_type" binding:"omitempty,oneof=manager general"`
	Score     *int    `json:"score"      binding:"omitempty,min=1,max=5"`
	HasKey    *bool   `json:"has_key"`
	Version   int     `json:"version"    binding:"required,min=1"`
}

// ResizeStaffRequest 调整某角色员工数量请求
// 多出的按序补充默认员工，减少的从尾部删除
type ResizeStaffRequest struct {
	Role  string `json:"role"  binding:"required,oneof=pharmacist clerk"`
	Count int    `json:"count" binding:"min=0,max=50"`
}

// SetMarkRequest 设置员工日期标记请求
// Type 为 NONE 时等价于清除标记
type SetMarkRequest struct {
	Date  string  `json:"date"  binding:"required,datetime=2006-01-02"`
	Type  string  `json:"type"  binding:"required,oneof=NONE OFF PUBLIC ANNUAL COMP SUPPORT"`
	Hours float64 `json:"hours" binding:"omitempty,min=0,max=24"`
}

// StaffResponse 员工响应
type StaffResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	StaffType string `json:"staff_type"`
	Score     int    `json:"score"`
	HasKey    bool   `json:"has_key"`
	SortOrder int    `json:"sort_order"`
	Version   int    `json:"version"`
}

// MarkResponse 员工日期标记响应
type MarkResponse struct {
	StaffID string  `json:"staff_id"`
	Date    string  `json:"date"`
	Type    string  `json:"type"`
	Hours   float64 `json:"hours"`
}
