package roster

// ── 单格状态循环 ──
//
// 点击单元格按固定顺序推进：
// NONE → 角色班别代码（短到长，不含 12h 兜底档）→ OFF → PUBLIC →
// ANNUAL → COMP → SUPPORT → 回到 NONE。
// 12h 代码仅能通过严格覆盖兜底产生，不进入循环。

var markCycleTail = []MarkType{MarkOff, MarkPublic, MarkAnnual, MarkComp, MarkSupport}

// CycleSequence 某角色的完整循环序列（状态字符串形式）
func CycleSequence(role Role) []string {
	seq := []string{string(MarkNone)}
	for _, t := range TemplatesShortFirst(role) {
		seq = append(seq, t.Code)
	}
	for _, m := range markCycleTail {
		seq = append(seq, string(m))
	}
	return seq
}

// NextCellState 由单元格当前有效状态推进到下一状态。
// current 为班别代码、标记类型或 "NONE"；无法识别时视为 NONE。
// 休假类返回 MARK 规则（带默认时数，OFF 除外），班别返回 SHIFT 规则
func NextCellState(current string, role Role) OverrideRule {
	seq := CycleSequence(role)

	idx := 0
	for i, s := range seq {
		if s == current {
			idx = i
			break
		}
	}
	next := seq[(idx+1)%len(seq)]

	switch MarkType(next) {
	case MarkNone:
		return OverrideRule{Kind: OverrideNone}
	case MarkOff:
		return OverrideRule{Kind: OverrideMark, Role: role, MarkType: MarkOff}
	case MarkPublic, MarkAnnual, MarkComp, MarkSupport:
		return OverrideRule{Kind: OverrideMark, Role: role, MarkType: MarkType(next), Hours: MarkDefaultHours}
	}
	return OverrideRule{Kind: OverrideShift, Role: role, Code: next}
}
