package roster

import "testing"

func TestShortageGain_ZeroRequirement(t *testing.T) {
	// 需求向量全 0 时任何候选收益为 0，调用方必须拒绝放置
	people := scorePeople()
	req := map[string]int{}
	tpl, _ := TemplateByCode(RolePharmacist, "P8A")

	if got := ShortageGain(nil, people, req, tpl, "p1"); got != 0 {
		t.Errorf("零需求下收益应为 0，实际 %d", got)
	}
}

func TestShortageGain_ReducesShortage(t *testing.T) {
	people := scorePeople()
	req := map[string]int{"09:00": 2, "10:00": 2, "11:00": 2}
	tpl, _ := TemplateByCode(RolePharmacist, "P6A") // 09:00-15:30

	// 空班表：p2（1分）覆盖三个缺口整点，各降 1
	if got := ShortageGain(nil, people, req, tpl, "p2"); got != 3 {
		t.Errorf("期望收益 3，实际 %d", got)
	}
	// p1（2分）同样三个整点，各降 2
	if got := ShortageGain(nil, people, req, tpl, "p1"); got != 6 {
		t.Errorf("期望收益 6，实际 %d", got)
	}
}

func TestShortageGain_SaturatedHourContributesNothing(t *testing.T) {
	people := scorePeople()
	req := map[string]int{"09:00": 1}
	blocks := []Block{blk("c1", "09:00", "15:30")} // 09:00 已满足
	tpl, _ := TemplateByCode(RolePharmacist, "P6A")

	if got := ShortageGain(blocks, people, req, tpl, "p2"); got != 0 {
		t.Errorf("已饱和整点不应再有收益，实际 %d", got)
	}
}

func TestShortageGain_UncoveredHoursIgnored(t *testing.T) {
	people := scorePeople()
	// 仅晚间有需求，早班模板不覆盖
	req := map[string]int{"20:00": 2, "21:00": 2}
	tpl, _ := TemplateByCode(RolePharmacist, "P6A") // 09:00-15:30

	if got := ShortageGain(nil, people, req, tpl, "p2"); got != 0 {
		t.Errorf("模板未覆盖的整点不应计收益，实际 %d", got)
	}
}

func TestCanPlace_RejectsOverlap(t *testing.T) {
	placed := []Block{blk("p1", "09:00", "15:30")}
	overlapping, _ := TemplateByCode(RolePharmacist, "P8B") // 12:30-21:00
	adjacent, _ := TemplateByCode(RolePharmacist, "P6B")    // 15:30-22:00

	if canPlace(placed, "p1", overlapping) {
		t.Error("同人时间重叠不可放置")
	}
	if !canPlace(placed, "p1", adjacent) {
		t.Error("同人早+晚两段不重叠应允许")
	}
	if !canPlace(placed, "p2", overlapping) {
		t.Error("不同人重叠应允许")
	}
}
