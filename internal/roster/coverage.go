package roster

import "sort"

// EnsuresCoverage 判断 blocks 是否无缝铺满 [windowStart, windowEnd]。
// 按起始时刻排序后扫线：已越过的段跳过，出现缺口立即失败，
// 否则推进游标并在到达终点时提前成功。允许重叠与冗余段。
// 空块列表仅在退化窗口（start >= end）时视为覆盖
func EnsuresCoverage(blocks []Block, windowStart, windowEnd string) bool {
	type seg struct{ s, e int }
	segs := make([]seg, 0, len(blocks))
	for _, b := range blocks {
		segs = append(segs, seg{s: toMinutes(b.Start), e: toMinutes(b.End)})
	}
	sort.Slice(segs, func(i, j int) bool { return segs[i].s < segs[j].s })

	cur := toMinutes(windowStart)
	goal := toMinutes(windowEnd)
	for _, sg := range segs {
		if sg.e <= cur {
			continue
		}
		if sg.s > cur {
			return false // 缺口
		}
		if sg.e > cur {
			cur = sg.e
		}
		if cur >= goal {
			return true
		}
	}
	return cur >= goal
}
