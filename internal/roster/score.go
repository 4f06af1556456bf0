package roster

// ── 人力分数 ──

// peopleIndex 以人员 ID 建立索引，逐日计分前构建一次
type peopleIndex map[string]*Person

func indexPeople(groups ...[]Person) peopleIndex {
	idx := make(peopleIndex)
	for _, g := range groups {
		for i := range g {
			idx[g[i].ID] = &g[i]
		}
	}
	return idx
}

// scoreOf 未登记的 ID 计 0 分；已登记但分数未设定时按 1 分计
func (idx peopleIndex) scoreOf(id string) int {
	p, ok := idx[id]
	if !ok {
		return 0
	}
	if p.Score > 0 {
		return p.Score
	}
	return 1
}

// hourScore 某整点的人力分数：对区间 [start, end) 覆盖该整点的每个
// 不同人员 ID 求 score 之和。同一人多段重叠只计一次
func hourScore(blocks []Block, idx peopleIndex, hour string) int {
	covered := make(map[string]struct{})
	for _, b := range blocks {
		if coversHour(b.Start, b.End, hour) {
			covered[b.ID] = struct{}{}
		}
	}
	total := 0
	for id := range covered {
		total += idx.scoreOf(id)
	}
	return total
}

// HourScore 导出版本：people 为参与计分的人员（按 ID 去重后求和）
func HourScore(blocks []Block, people []Person, hour string) int {
	return hourScore(blocks, indexPeople(people), hour)
}

// hourShortageAt 某整点的缺口（need - actual，下限 0）
func hourShortageAt(blocks []Block, idx peopleIndex, req map[string]int, hour string) int {
	lack := req[hour] - hourScore(blocks, idx, hour)
	if lack < 0 {
		return 0
	}
	return lack
}

// totalShortage 全部追踪整点的缺口总和
func totalShortage(blocks []Block, idx peopleIndex, req map[string]int) int {
	sum := 0
	for _, h := range trackedHours {
		sum += hourShortageAt(blocks, idx, req, h)
	}
	return sum
}

// hasManagerAtHour 某整点是否有当班主管在班
func hasManagerAtHour(blocks []Block, idx peopleIndex, hour string) bool {
	for _, b := range blocks {
		p, ok := idx[b.ID]
		if !ok || p.StaffType != StaffTypeManager {
			continue
		}
		if coversHour(b.Start, b.End, hour) {
			return true
		}
	}
	return false
}
