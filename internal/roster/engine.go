package roster

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ── 28 天排班引擎 ──
//
// 逐日严格按序执行各阶段；每个阶段只追加班次，不移除前序阶段已放的班
// （唯一例外是「仅剩一名可上班人员」的 12h 兜底）。守卫循环耗尽不是
// 致命错误：降级为该日警示并继续下一天，不可行性只能通过 Warnings 观察。

var weekdayNames = []string{"日", "一", "二", "三", "四", "五", "六"}

// candidateRank 候选排序的组合键，按字段顺序逐项比较：
// 短班优先 → 无晚接早惩罚优先 → 早/晚平衡更小优先 →
// 单位效益更高优先 → 总收益更高优先 → 开始更早优先
type candidateRank struct {
	hours   float64
	penalty int
	balance int
	eff     float64
	gain    int
	start   int
}

func (b candidateRank) betterThan(a *candidateRank) bool {
	if a == nil {
		return true
	}
	if b.hours != a.hours {
		return b.hours < a.hours
	}
	if b.penalty != a.penalty {
		return b.penalty < a.penalty
	}
	if b.balance != a.balance {
		return b.balance < a.balance
	}
	if b.eff != a.eff {
		return b.eff > a.eff
	}
	if b.gain != a.gain {
		return b.gain > a.gain
	}
	return b.start < a.start
}

type engine struct {
	in            Input
	days          []Day
	fair          *FairnessState
	idx           peopleIndex
	coverageGuard int
	fillGuard     int
}

// BuildSchedule 生成 28 天排班。纯函数：相同输入产生相同输出，
// 不修改调用方持有的 Person 记录
func BuildSchedule(in Input) Result {
	e := &engine{
		in:            in,
		fair:          NewFairnessState(),
		idx:           indexPeople(in.Pharmacists, in.Clerks),
		coverageGuard: in.CoverageGuard,
		fillGuard:     in.FillGuard,
	}
	if e.coverageGuard <= 0 {
		e.coverageGuard = defaultCoverageGuard
	}
	if e.fillGuard <= 0 {
		e.fillGuard = defaultFillGuard
	}

	e.days = make([]Day, HorizonDays)
	for i := range e.days {
		e.days[i] = Day{
			Date:        in.StartDate.AddDate(0, 0, i),
			Pharmacists: []Block{},
			Clerks:      []Block{},
			Warnings:    []string{},
			Key:         KeyState{Notes: []string{}},
		}
	}

	// 公/特/补/支的时数先计入累计（不产生班次）
	for i := range e.days {
		ds := DateKey(e.days[i].Date)
		for _, g := range [][]Person{in.Pharmacists, in.Clerks} {
			for j := range g {
				if m := g[j].MarkOn(ds); m.Type.NeedsHours() {
					e.fair.AddLoad(g[j].ID, m.Hours)
				}
			}
		}
	}

	for dayIdx := range e.days {
		e.buildDay(dayIdx)
	}

	people := make([]Person, 0, len(in.Pharmacists)+len(in.Clerks))
	people = append(people, in.Pharmacists...)
	people = append(people, in.Clerks...)

	return Result{
		Days:  e.days,
		Stats: CalculateShiftStats(e.days, people),
	}
}

func (e *engine) buildDay(dayIdx int) {
	day := &e.days[dayIdx]
	ds := DateKey(day.Date)
	dow := int(day.Date.Weekday())

	pAvail := availablePeople(e.in.Pharmacists, ds)
	cAvail := availablePeople(e.in.Clerks, ds)

	// A) 药师严格覆盖（最高原则，按星期几规则启用）
	rule := e.in.CoverageByWeekday[dow]
	if rule.Enabled {
		e.coverageFill(day, dayIdx, RolePharmacist, pAvail, rule.Start, rule.End)
	}

	// A2) 门市混合覆盖：开店到关店至少一名门市在班（与星期几开关无关）
	e.coverageFill(day, dayIdx, RoleClerk, cAvail, OpenClock, CloseClock)

	// B) 以人力分数表补齐剩余缺口（跨角色比较）
	e.residualFill(day, dayIdx, pAvail, cAvail)

	// C) 未画休假者至少上一段 6h（按上下半日缺口择边）
	e.mandatoryPresence(day, dayIdx, cAvail, RoleClerk)
	e.mandatoryPresence(day, dayIdx, pAvail, RolePharmacist)

	// D–F) 主管 / 钥匙 / 覆盖与分数复核：只检查不补位
	runDayChecks(day, e.idx, e.in.HourlyRequirements, rule)
}

// availablePeople 过滤出某日无任何标记（可排班）的人员
func availablePeople(people []Person, dateStr string) []*Person {
	out := make([]*Person, 0, len(people))
	for i := range people {
		if people[i].MarkOn(dateStr).Type == MarkNone {
			out = append(out, &people[i])
		}
	}
	return out
}

func hasShiftToday(day *Day, personID string) bool {
	for _, b := range day.Pharmacists {
		if b.ID == personID {
			return true
		}
	}
	for _, b := range day.Clerks {
		if b.ID == personID {
			return true
		}
	}
	return false
}

// roleBlocks 返回某角色在该日的班次列表指针
func roleBlocks(day *Day, role Role) *[]Block {
	if role == RoleClerk {
		return &day.Clerks
	}
	return &day.Pharmacists
}

func (e *engine) place(day *Day, role Role, p *Person, tpl Template) {
	list := roleBlocks(day, role)
	*list = append(*list, blockFor(p, tpl))
	e.fair.AddLoad(p.ID, tpl.Hours)
	e.fair.AddCount(p.ID, tpl)
}

// coverageFill 用 6→8→10 模板把覆盖窗口叠满；唯一可上班者未覆盖时
// 允许一次 12h 兜底。候选收益按窗口内每整点 1 分的伪需求评估
func (e *engine) coverageFill(day *Day, dayIdx int, role Role, avail []*Person, needS, needE string) {
	list := roleBlocks(day, role)
	coverOK := func() bool { return EnsuresCoverage(*list, needS, needE) }

	if !coverOK() && len(avail) == 1 && !hasShiftToday(day, avail[0].ID) {
		fb := FallbackTemplate(role)
		if canPlace(*list, avail[0].ID, fb) {
			e.place(day, role, avail[0], fb)
		}
	}

	pseudo := make(map[string]int, len(trackedHours))
	for _, h := range trackedHours {
		if toMinutes(needS) <= toMinutes(h) && toMinutes(h) < toMinutes(needE) {
			pseudo[h] = 1
		}
	}

	for guard := 0; !coverOK() && guard < e.coverageGuard; guard++ {
		var best *candidateRank
		var bestPerson *Person
		var bestTpl Template

		for _, p := range avail {
			if hasShiftToday(day, p.ID) {
				continue
			}
			for _, tpl := range TemplatesShortFirst(role) {
				if !canPlace(*list, p.ID, tpl) {
					continue
				}
				gain := shortageGain(*list, e.idx, pseudo, tpl, p.ID)
				if gain <= 0 {
					continue
				}

				rank := candidateRank{
					hours:   tpl.Hours,
					penalty: morningAfterClosePenalty(e.days, dayIdx, p.ID, tpl),
					balance: e.fair.BalanceFor(p.ID, tpl.TypeOf()),
					eff:     float64(gain) / tpl.Hours,
					gain:    gain,
					start:   toMinutes(tpl.Start),
				}
				if rank.betterThan(best) {
					r := rank
					best, bestPerson, bestTpl = &r, p, tpl
				}
			}
		}

		if best == nil {
			break
		}
		e.place(day, role, bestPerson, bestTpl)
	}
}

// morningAfterClosePenalty 晚接早惩罚：昨晚关店下班且今日为早班模板时为 1
func morningAfterClosePenalty(days []Day, dayIdx int, personID string, tpl Template) int {
	if closedYesterday(days, dayIdx, personID) && toMinutes(tpl.Start) == toMinutes(OpenClock) {
		return 1
	}
	return 0
}

// residualFill 以真实人力分数表为目标逐步补位；药师与门市候选同场比较。
// 守卫耗尽仍有缺口且存在整日未排的门市时，放一名 12h 兜底
func (e *engine) residualFill(day *Day, dayIdx int, pAvail, cAvail []*Person) {
	req := e.in.HourlyRequirements

	combined := func() []Block {
		all := make([]Block, 0, len(day.Pharmacists)+len(day.Clerks))
		all = append(all, day.Pharmacists...)
		all = append(all, day.Clerks...)
		return all
	}

	for guard := 0; totalShortage(combined(), e.idx, req) > 0 && guard < e.fillGuard; guard++ {
		var best *candidateRank
		var bestPerson *Person
		var bestRole Role
		var bestTpl Template

		evaluate := func(role Role, pool []*Person) {
			list := roleBlocks(day, role)
			for _, p := range pool {
				if hasShiftToday(day, p.ID) {
					continue
				}
				for _, tpl := range TemplatesShortFirst(role) {
					if !canPlace(*list, p.ID, tpl) {
						continue
					}
					gain := shortageGain(combined(), e.idx, req, tpl, p.ID)
					if gain <= 0 {
						continue
					}

					ticks := 0
					for _, h := range trackedHours {
						if coversHour(tpl.Start, tpl.End, h) {
							ticks++
						}
					}
					if ticks == 0 {
						ticks = 1
					}

					rank := candidateRank{
						hours:   tpl.Hours,
						penalty: morningAfterClosePenalty(e.days, dayIdx, p.ID, tpl),
						balance: e.fair.BalanceFor(p.ID, tpl.TypeOf()),
						eff:     float64(gain) / float64(ticks),
						gain:    gain,
						start:   toMinutes(tpl.Start),
					}
					if rank.betterThan(best) {
						r := rank
						best, bestPerson, bestRole, bestTpl = &r, p, role, tpl
					}
				}
			}
		}

		evaluate(RoleClerk, cAvail)
		evaluate(RolePharmacist, pAvail)

		if best == nil {
			break
		}
		e.place(day, bestRole, bestPerson, bestTpl)
	}

	// 兜底：仍有缺口时，找一名今日尚无班的门市放 12h
	if totalShortage(combined(), e.idx, req) > 0 {
		for _, c := range cAvail {
			if hasShiftToday(day, c.ID) {
				continue
			}
			fb := FallbackTemplate(RoleClerk)
			if canPlace(day.Clerks, c.ID, fb) {
				e.place(day, RoleClerk, c, fb)
			}
			break
		}
	}
}

// mandatoryPresence 可上班但尚无班者每人排一段 6h：比较上/下半日缺口
// 择需求较大的一边；若该选择会形成晚接早则对调
func (e *engine) mandatoryPresence(day *Day, dayIdx int, avail []*Person, role Role) {
	req := e.in.HourlyRequirements

	segLack := func(start, end string) int {
		all := make([]Block, 0, len(day.Pharmacists)+len(day.Clerks))
		all = append(all, day.Pharmacists...)
		all = append(all, day.Clerks...)
		sum := 0
		for _, h := range trackedHours {
			if toMinutes(start) <= toMinutes(h) && toMinutes(h) < toMinutes(end) {
				sum += hourShortageAt(all, e.idx, req, h)
			}
		}
		return sum
	}

	am, pm := halfDayTemplates(role)
	list := roleBlocks(day, role)

	for _, p := range avail {
		if hasShiftToday(day, p.ID) {
			continue
		}
		lackAM := segLack(am.Start, am.End)
		lackPM := segLack(pm.Start, pm.End)

		tpl, alt := am, pm
		if lackPM > lackAM {
			tpl, alt = pm, am
		}
		if tpl.Code == am.Code && closedYesterday(e.days, dayIdx, p.ID) {
			tpl, alt = alt, tpl
		}

		if canPlace(*list, p.ID, tpl) {
			e.place(day, role, p, tpl)
		} else if canPlace(*list, p.ID, alt) {
			e.place(day, role, p, alt)
		}
	}
}

// halfDayTemplates 某角色的上/下半日 6h 模板
func halfDayTemplates(role Role) (Template, Template) {
	tpls := TemplatesShortFirst(role)
	return tpls[0], tpls[1]
}

// ── 检查阶段（生成与覆写重算共用，保证警示语义一致） ──

// runDayChecks 清除并重建该日的警示与钥匙状态：
// 主管在班 → 钥匙开/关店 → 药师严格覆盖 → 门市混合覆盖 → 逐整点人力分数。
// 全部为只检查不补位
func runDayChecks(day *Day, idx peopleIndex, req map[string]int, rule CoverageRule) {
	day.Warnings = []string{}
	day.Key = KeyState{Notes: []string{}}

	storeBlocks := make([]Block, 0, len(day.Clerks)+len(day.Pharmacists))
	storeBlocks = append(storeBlocks, day.Clerks...)
	storeBlocks = append(storeBlocks, day.Pharmacists...)

	// 主管：每整点必须有当班主管，缺则警示一次（不自动加班）
	for _, h := range trackedHours {
		if !hasManagerAtHour(storeBlocks, idx, h) {
			day.Warnings = append(day.Warnings, fmt.Sprintf("%s 时段缺少当班主管", h))
			break
		}
	}

	checkKeyState(day, storeBlocks, idx)

	dow := int(day.Date.Weekday())
	if rule.Enabled && !EnsuresCoverage(day.Pharmacists, rule.Start, rule.End) {
		day.Warnings = append(day.Warnings,
			fmt.Sprintf("药师覆盖不足：周%s %s-%s 覆盖未完整", weekdayNames[dow], rule.Start, rule.End))
	}
	if !EnsuresCoverage(storeBlocks, OpenClock, CloseClock) {
		day.Warnings = append(day.Warnings,
			fmt.Sprintf("门市人力不足：%s-%s 覆盖未完整", OpenClock, CloseClock))
	}

	for _, h := range trackedHours {
		need := req[h]
		if need == 0 {
			continue
		}
		actual := hourScore(storeBlocks, idx, h)
		if actual < need {
			day.Warnings = append(day.Warnings,
				fmt.Sprintf("%s 时段人力分数不足：需要%d分，实际%d分", h, need, actual))
		}
	}
}

// checkKeyState 开店与关店时刻的持钥匙者检查；缺钥匙时建议
// 把钥匙转移给当日最早上班 / 最晚下班者
func checkKeyState(day *Day, storeBlocks []Block, idx peopleIndex) {
	openT := toMinutes(OpenClock)
	closeT := toMinutes(CloseClock)

	hasKey := func(id string) bool {
		p, ok := idx[id]
		return ok && p.HasKey
	}

	var holderOpen, holderClose string
	for _, b := range storeBlocks {
		if !hasKey(b.ID) {
			continue
		}
		if holderOpen == "" && toMinutes(b.Start) <= openT && openT < toMinutes(b.End) {
			holderOpen = b.ID
		}
		if holderClose == "" && toMinutes(b.End) >= closeT {
			holderClose = b.ID
		}
	}

	if holderOpen != "" {
		day.Key.Open = &KeyStatus{OK: true, Holder: holderOpen}
	} else if earliest := earliestBlock(storeBlocks); earliest != nil {
		day.Key.Open = &KeyStatus{OK: false, Suggest: earliest.ID}
		day.Key.Notes = append(day.Key.Notes, fmt.Sprintf("%s 无持钥匙者在班，建议转移钥匙给当日最早上班者", OpenClock))
	} else {
		day.Key.Open = &KeyStatus{OK: false}
		day.Key.Notes = append(day.Key.Notes, fmt.Sprintf("%s 无人上班，无法转移钥匙", OpenClock))
	}

	if holderClose != "" {
		day.Key.Close = &KeyStatus{OK: true, Holder: holderClose}
	} else if latest := latestBlock(storeBlocks); latest != nil {
		day.Key.Close = &KeyStatus{OK: false, Suggest: latest.ID}
		day.Key.Notes = append(day.Key.Notes, fmt.Sprintf("%s 无持钥匙者在班，建议转移钥匙给当日最晚下班者", CloseClock))
	} else {
		day.Key.Close = &KeyStatus{OK: false}
		day.Key.Notes = append(day.Key.Notes, fmt.Sprintf("%s 无人上班，无法转移钥匙", CloseClock))
	}

	if len(day.Key.Notes) > 0 {
		day.Warnings = append(day.Warnings, "钥匙提醒："+strings.Join(day.Key.Notes, "；"))
	}
}

func earliestBlock(blocks []Block) *Block {
	if len(blocks) == 0 {
		return nil
	}
	sorted := make([]Block, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return toMinutes(sorted[i].Start) < toMinutes(sorted[j].Start)
	})
	return &sorted[0]
}

func latestBlock(blocks []Block) *Block {
	if len(blocks) == 0 {
		return nil
	}
	sorted := make([]Block, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return toMinutes(sorted[i].End) > toMinutes(sorted[j].End)
	})
	return &sorted[0]
}

// HorizonDates 返回自 startDate 起 28 天的日期序列
func HorizonDates(startDate time.Time) []time.Time {
	out := make([]time.Time, HorizonDays)
	for i := range out {
		out[i] = startDate.AddDate(0, 0, i)
	}
	return out
}
