package roster

import "time"

// ── 基础领域类型 ──
//
// 本包是纯计算层：不做 I/O、不依赖存储，所有函数对相同输入产生相同输出。
// Service 层负责把数据库记录转换为这里的值类型。

// Role 人员角色
type Role string

const (
	RolePharmacist Role = "pharmacist" // 药师
	RoleClerk      Role = "clerk"      // 门市
)

// StaffType 人力类别
const (
	StaffTypeManager = "manager" // 当班主管
	StaffTypeGeneral = "general" // 一般人力
)

// MarkType 休假/支援标记类型
type MarkType string

const (
	MarkNone    MarkType = "NONE"    // 无标记（可排班）
	MarkOff     MarkType = "OFF"     // 休
	MarkPublic  MarkType = "PUBLIC"  // 公假
	MarkAnnual  MarkType = "ANNUAL"  // 特休
	MarkComp    MarkType = "COMP"    // 补休
	MarkSupport MarkType = "SUPPORT" // 外出支援
)

// MarkDefaultHours 带时数标记的默认时数
const MarkDefaultHours = 8

// Mark 某人某日的标记。PUBLIC/ANNUAL/COMP/SUPPORT 的 Hours 计入该人时数累计
type Mark struct {
	Type  MarkType `json:"type"`
	Hours float64  `json:"hours,omitempty"`
}

// NeedsHours 该标记类型是否需要填写时数
func (t MarkType) NeedsHours() bool {
	switch t {
	case MarkPublic, MarkAnnual, MarkComp, MarkSupport:
		return true
	}
	return false
}

// Person 参与排班的人员。Marks 以 ISO 日期字符串为键，每人每日至多一条
type Person struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Role      Role            `json:"role"`
	StaffType string          `json:"staff_type"`
	Score     int             `json:"score"`
	HasKey    bool            `json:"has_key"`
	Marks     map[string]Mark `json:"marks,omitempty"`
}

// MarkOn 取某日标记，缺省为 NONE
func (p *Person) MarkOn(dateStr string) Mark {
	if m, ok := p.Marks[dateStr]; ok {
		return m
	}
	return Mark{Type: MarkNone}
}

// Block 某人某日的一段已排班次（由模板实例化）
type Block struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Start string  `json:"start"`
	End   string  `json:"end"`
	Hours float64 `json:"hours"`
	Code  string  `json:"code"`
}

// KeyStatus 开/关店钥匙检查结果
type KeyStatus struct {
	OK      bool   `json:"ok"`
	Holder  string `json:"holder,omitempty"`  // 检查通过时的持钥匙者
	Suggest string `json:"suggest,omitempty"` // 检查失败时建议转移的对象
}

// KeyState 一日的钥匙状态
type KeyState struct {
	Open  *KeyStatus `json:"open"`
	Close *KeyStatus `json:"close"`
	Notes []string   `json:"notes"`
}

// Day 一个日历日的排班结果
type Day struct {
	Date        time.Time `json:"date"`
	Pharmacists []Block   `json:"pharmacists"`
	Clerks      []Block   `json:"clerks"`
	Warnings    []string  `json:"warnings"`
	Key         KeyState  `json:"key"`
}

// CoverageRule 某星期几的药师严格覆盖规则
type CoverageRule struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// ShiftStat 单人班型统计与时数累计
type ShiftStat struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Role          Role    `json:"role"`
	Morning       int     `json:"morning"`
	Evening       int     `json:"evening"`
	Full          int     `json:"full"`
	Other         int     `json:"other"`
	BaseHours     float64 `json:"base_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
}

// Input 一次 28 天排班运行的全部输入
type Input struct {
	StartDate          time.Time
	Pharmacists        []Person
	Clerks             []Person
	HourlyRequirements map[string]int
	CoverageByWeekday  map[int]CoverageRule

	// 守卫上限：防止点值退化的需求表导致循环不收敛。
	// 超限不视为错误，仅在该日产生警示。0 表示使用默认值
	CoverageGuard int
	FillGuard     int
}

// Result 排班结果：28 天明细 + 逐人统计
type Result struct {
	Days  []Day       `json:"days"`
	Stats []ShiftStat `json:"stats"`
}

// OverrideKind 覆写规则类别
type OverrideKind string

const (
	OverrideShift OverrideKind = "SHIFT" // 强制指定班别
	OverrideMark  OverrideKind = "MARK"  // 强制休假/支援标记
	OverrideNone  OverrideKind = "NONE"  // 强制空白（不排班、无标记）
)

// OverrideRule 单格覆写规则
type OverrideRule struct {
	Kind     OverrideKind `json:"kind"`
	Role     Role         `json:"role,omitempty"`
	Code     string       `json:"code,omitempty"`
	MarkType MarkType     `json:"mark_type,omitempty"`
	Hours    float64      `json:"hours,omitempty"`
}

// Overrides 覆写集合：日期 → 人员 → 规则
type Overrides map[string]map[string]OverrideRule

// 营业常量：09:00 开店、22:00 关店，人力分数按整点 09:00–21:00 追踪
const (
	OpenClock  = "09:00"
	CloseClock = "22:00"

	// HorizonDays 排班窗口固定 28 天
	HorizonDays = 28

	defaultCoverageGuard = 8
	defaultFillGuard     = 24
)

// trackedHours 人力分数追踪的整点
var trackedHours = []string{
	"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00",
	"16:00", "17:00", "18:00", "19:00", "20:00", "21:00",
}

// TrackedHours 返回追踪整点列表的副本
func TrackedHours() []string {
	out := make([]string, len(trackedHours))
	copy(out, trackedHours)
	return out
}
