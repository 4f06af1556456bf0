package roster

import "sort"

// ── 覆写与重算 ──
//
// 覆写从不增量修补：先对基线做结构化深拷贝，逐日替换被覆写人员的
// 班次，然后对所有 28 天（而非仅被覆写的日子）整体丢弃并重建警示与
// 钥匙状态。警示正确性由全量重算保证，不会因手动编辑而过期；
// 代价 O(天数 × 整点数)，在固定 28 天 / 13 整点范围内可接受。

// deepCopyDays 结构化克隆日列表，避免与基线共享底层切片
func deepCopyDays(days []Day) []Day {
	out := make([]Day, len(days))
	for i, d := range days {
		nd := Day{
			Date:        d.Date,
			Pharmacists: make([]Block, len(d.Pharmacists)),
			Clerks:      make([]Block, len(d.Clerks)),
			Warnings:    make([]string, len(d.Warnings)),
			Key:         KeyState{Notes: make([]string, len(d.Key.Notes))},
		}
		copy(nd.Pharmacists, d.Pharmacists)
		copy(nd.Clerks, d.Clerks)
		copy(nd.Warnings, d.Warnings)
		copy(nd.Key.Notes, d.Key.Notes)
		if d.Key.Open != nil {
			v := *d.Key.Open
			nd.Key.Open = &v
		}
		if d.Key.Close != nil {
			v := *d.Key.Close
			nd.Key.Close = &v
		}
		out[i] = nd
	}
	return out
}

// ApplyOverrides 在基线排班上套用覆写并全量重算。
// SHIFT 规则按代码从目录实例化班次；MARK 与 NONE 仅移除原班次。
// 未知班别代码仅跳过该条覆写；未知人员 ID 仍会落块，姓名以 ID 顶替。
// 纯函数：重复调用产生完全相同的结果
func ApplyOverrides(baseDays []Day, overrides Overrides, pharmacists, clerks []Person,
	req map[string]int, coverage map[int]CoverageRule) Result {

	days := deepCopyDays(baseDays)
	idx := indexPeople(pharmacists, clerks)

	for i := range days {
		day := &days[i]
		ov, ok := overrides[DateKey(day.Date)]
		if !ok {
			continue
		}

		// 遍历顺序固定，保证结果可复现
		pids := make([]string, 0, len(ov))
		for pid := range ov {
			pids = append(pids, pid)
		}
		sort.Strings(pids)

		for _, pid := range pids {
			rule := ov[pid]

			day.Pharmacists = removePersonBlocks(day.Pharmacists, pid)
			day.Clerks = removePersonBlocks(day.Clerks, pid)

			if rule.Kind != OverrideShift {
				continue
			}
			tpl, found := TemplateByCode(rule.Role, rule.Code)
			if !found {
				continue // 未知班别代码：跳过该条覆写
			}
			name := pid
			if p, ok := idx[pid]; ok {
				name = p.Name
			}
			block := Block{ID: pid, Name: name, Start: tpl.Start, End: tpl.End, Hours: tpl.Hours, Code: tpl.Code}
			if rule.Role == RoleClerk {
				day.Clerks = append(day.Clerks, block)
			} else {
				day.Pharmacists = append(day.Pharmacists, block)
			}
		}
	}

	// 所有日子的警示与钥匙状态整体重建
	for i := range days {
		dow := int(days[i].Date.Weekday())
		runDayChecks(&days[i], idx, req, coverage[dow])
	}

	people := make([]Person, 0, len(pharmacists)+len(clerks))
	people = append(people, pharmacists...)
	people = append(people, clerks...)

	return Result{
		Days:  days,
		Stats: CalculateShiftStats(days, people),
	}
}

func removePersonBlocks(blocks []Block, personID string) []Block {
	out := blocks[:0]
	for _, b := range blocks {
		if b.ID != personID {
			out = append(out, b)
		}
	}
	return out
}
