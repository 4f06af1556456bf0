package model

// Staff 员工表 — 对应 staff
type Staff struct {
	StaffID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"staff_id"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	Role      string `gorm:"type:varchar(20);not null"                      json:"role"`       // pharmacist | clerk
	StaffType string `gorm:"type:varchar(20);not null;default:'general'"    json:"staff_type"` // manager | general
	Score     int    `gorm:"not null;default:1"                             json:"score"`      // 人力分数权重
	HasKey    bool   `gorm:"not null;default:false"                         json:"has_key"`
	SortOrder int    `gorm:"not null;default:0"                             json:"sort_order"`
	VersionedModel

	// 关联
	Marks []StaffMark `gorm:"foreignKey:StaffID;references:StaffID" json:"marks,omitempty"`
}

// TableName 指定表名
func (Staff) TableName() string { return "staff" }
