package roster

// ── 公平性状态 ──
//
// 贯穿 28 天循环的逐人累计量，作为显式状态随排班运行传递，
// 不使用包级单例，便于并行 what-if 运行与单日独立测试。

type shiftCounts struct {
	morning int
	evening int
}

// FairnessState 逐人早/晚班次数与时数累计
type FairnessState struct {
	load   map[string]float64
	counts map[string]shiftCounts
}

// NewFairnessState 创建空的公平性状态
func NewFairnessState() *FairnessState {
	return &FairnessState{
		load:   make(map[string]float64),
		counts: make(map[string]shiftCounts),
	}
}

// AddLoad 累计某人时数（班次时数或带时数标记）
func (f *FairnessState) AddLoad(id string, hours float64) {
	f.load[id] += hours
}

// Load 某人累计时数
func (f *FairnessState) Load(id string) float64 {
	return f.load[id]
}

// AddCount 按模板班型更新早/晚计数
func (f *FairnessState) AddCount(id string, tpl Template) {
	c := f.counts[id]
	switch tpl.TypeOf() {
	case ShiftMorning:
		c.morning++
	case ShiftEvening:
		c.evening++
	}
	f.counts[id] = c
}

// BalanceFor 早/晚平衡值：待排班型的同型次数减异型次数，越小越该排。
// 排早班优先选「晚多早少」者，排晚班反之；全班与其他班型恒为 0
func (f *FairnessState) BalanceFor(id string, st ShiftType) int {
	c := f.counts[id]
	switch st {
	case ShiftMorning:
		return c.morning - c.evening
	case ShiftEvening:
		return c.evening - c.morning
	}
	return 0
}

// closedYesterday 某人前一日是否有恰在关店时刻结束的班次。
// 用于「晚接早」惩罚：昨晚 22:00 下班者今日尽量不排 09:00 早班
func closedYesterday(days []Day, dayIdx int, personID string) bool {
	if dayIdx == 0 {
		return false
	}
	closeT := toMinutes(CloseClock)
	y := days[dayIdx-1]
	for _, b := range y.Pharmacists {
		if b.ID == personID && toMinutes(b.End) == closeT {
			return true
		}
	}
	for _, b := range y.Clerks {
		if b.ID == personID && toMinutes(b.End) == closeT {
			return true
		}
	}
	return false
}

// WorkedClosingShiftYesterday 导出版本
func WorkedClosingShiftYesterday(days []Day, dayIdx int, personID string) bool {
	return closedYesterday(days, dayIdx, personID)
}
