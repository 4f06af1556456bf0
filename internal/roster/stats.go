package roster

// ── 统计汇总 ──

// longShiftHours 超过该时数的部分计为加班
const longShiftHours = 10

// CalculateShiftStats 逐人汇总班型次数与时数。
// 班型按班次固定起讫时刻分类；每段班次最多计 10h 基本时数，
// 超出部分计加班；带时数标记（公/特/补/支）计入基本时数
func CalculateShiftStats(days []Day, people []Person) []ShiftStat {
	stats := make([]ShiftStat, len(people))
	pos := make(map[string]int, len(people))
	for i, p := range people {
		stats[i] = ShiftStat{ID: p.ID, Name: p.Name, Role: p.Role}
		pos[p.ID] = i
	}

	addBlock := func(b Block) {
		i, ok := pos[b.ID]
		if !ok {
			return
		}
		switch shiftTypeOf(b.Start, b.End, b.Hours) {
		case ShiftMorning:
			stats[i].Morning++
		case ShiftEvening:
			stats[i].Evening++
		case ShiftFull:
			stats[i].Full++
		default:
			stats[i].Other++
		}
		base := b.Hours
		if base > longShiftHours {
			base = longShiftHours
			stats[i].OvertimeHours += b.Hours - longShiftHours
		}
		stats[i].BaseHours += base
	}

	for _, d := range days {
		for _, b := range d.Pharmacists {
			addBlock(b)
		}
		for _, b := range d.Clerks {
			addBlock(b)
		}

		ds := DateKey(d.Date)
		for j := range people {
			if m := people[j].MarkOn(ds); m.Type.NeedsHours() {
				stats[pos[people[j].ID]].BaseHours += m.Hours
			}
		}
	}

	return stats
}
