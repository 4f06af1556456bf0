package roster

// shortageGain 候选「人 × 模板」放入后能降低多少缺口总和。
// 对每个追踪整点：模板覆盖则以 (当前分 + 该人 score) 重新计缺口，
// 否则缺口不变；累加前后差值。gain <= 0 表示该候选对当前需求向量
// 无贡献，调用方必须拒绝（避免无效或冗余放置）
func shortageGain(blocks []Block, idx peopleIndex, req map[string]int, tpl Template, personID string) int {
	score := idx.scoreOf(personID)
	gain := 0
	for _, h := range trackedHours {
		need := req[h]
		if need == 0 || !coversHour(tpl.Start, tpl.End, h) {
			continue
		}
		cur := hourScore(blocks, idx, h)
		beforeLack := need - cur
		if beforeLack < 0 {
			beforeLack = 0
		}
		afterLack := need - (cur + score)
		if afterLack < 0 {
			afterLack = 0
		}
		gain += beforeLack - afterLack
	}
	return gain
}

// ShortageGain 导出版本，供外部评估单次放置的边际收益
func ShortageGain(blocks []Block, people []Person, req map[string]int, tpl Template, personID string) int {
	return shortageGain(blocks, indexPeople(people), req, tpl, personID)
}

// canPlace 同人同日班次不可重叠（允许早+晚两段不重叠共存）
func canPlace(placed []Block, personID string, tpl Template) bool {
	s, e := toMinutes(tpl.Start), toMinutes(tpl.End)
	for _, b := range placed {
		if b.ID != personID {
			continue
		}
		bs, be := toMinutes(b.Start), toMinutes(b.End)
		lo, hi := s, e
		if bs > lo {
			lo = bs
		}
		if be < hi {
			hi = be
		}
		if lo < hi {
			return false
		}
	}
	return true
}
