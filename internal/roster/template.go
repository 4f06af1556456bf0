package roster

// ── 班别模板目录 ──
//
// 固定目录：6h/8h/10h/12h 四档，Hours 为不含休息的上班时数。
// 12h 档（P12/S12）仅作兜底，一般补位流程不会选到它。

// Template 班别模板：不可变目录条目
type Template struct {
	Code  string  `json:"code"`
	Start string  `json:"start"`
	End   string  `json:"end"`
	Hours float64 `json:"hours"`
}

var pharmacistTemplates = []Template{
	{Code: "P6A", Start: "09:00", End: "15:30", Hours: 6},
	{Code: "P6B", Start: "15:30", End: "22:00", Hours: 6},
	{Code: "P8A", Start: "09:00", End: "17:30", Hours: 8},
	{Code: "P8B", Start: "12:30", End: "21:00", Hours: 8},
	{Code: "P10A", Start: "09:00", End: "20:00", Hours: 10},
	{Code: "P10B", Start: "11:00", End: "22:00", Hours: 10},
}

var clerkTemplates = []Template{
	{Code: "S6A", Start: "09:00", End: "15:30", Hours: 6},
	{Code: "S6B", Start: "15:30", End: "22:00", Hours: 6},
	{Code: "S8A", Start: "09:00", End: "17:30", Hours: 8},
	{Code: "S8B", Start: "13:30", End: "22:00", Hours: 8},
	{Code: "S10", Start: "11:00", End: "22:00", Hours: 10},
}

var fallbackTemplates = map[Role]Template{
	RolePharmacist: {Code: "P12", Start: "09:00", End: "22:00", Hours: 12},
	RoleClerk:      {Code: "S12", Start: "09:00", End: "22:00", Hours: 12},
}

// TemplatesShortFirst 返回某角色的常规候选模板，按时数升序（不含 12h 兜底档）
func TemplatesShortFirst(role Role) []Template {
	var src []Template
	if role == RoleClerk {
		src = clerkTemplates
	} else {
		src = pharmacistTemplates
	}
	out := make([]Template, len(src))
	copy(out, src)
	return out
}

// FallbackTemplate 某角色的 12h 兜底模板
func FallbackTemplate(role Role) Template {
	return fallbackTemplates[role]
}

// TemplateByCode 按代码查找模板（含兜底档）
func TemplateByCode(role Role, code string) (Template, bool) {
	if fb := fallbackTemplates[role]; fb.Code == code {
		return fb, true
	}
	for _, t := range TemplatesShortFirst(role) {
		if t.Code == code {
			return t, true
		}
	}
	return Template{}, false
}

// ShiftType 班型分类
type ShiftType string

const (
	ShiftMorning ShiftType = "morning"
	ShiftEvening ShiftType = "evening"
	ShiftFull    ShiftType = "full"
	ShiftOther   ShiftType = "other"
)

// shiftTypeOf 班型分类规则：超过 10h 为全班；09:00 开始为早班；22:00 结束为晚班。
// 分类依据模板固定的起讫时刻，与合并显示无关
func shiftTypeOf(start, end string, hours float64) ShiftType {
	if hours > 10 {
		return ShiftFull
	}
	if toMinutes(start) == toMinutes(OpenClock) {
		return ShiftMorning
	}
	if toMinutes(end) == toMinutes(CloseClock) {
		return ShiftEvening
	}
	return ShiftOther
}

// TypeOf 模板的班型分类
func (t Template) TypeOf() ShiftType {
	return shiftTypeOf(t.Start, t.End, t.Hours)
}

// blockFor 以模板为某人实例化一段班次
func blockFor(p *Person, tpl Template) Block {
	return Block{
		ID:    p.ID,
		Name:  p.Name,
		Start: tpl.Start,
		End:   tpl.End,
		Hours: tpl.Hours,
		Code:  tpl.Code,
	}
}
