package roster

import "testing"

func scorePeople() []Person {
	return []Person{
		{ID: "p1", Name: "药师一", Role: RolePharmacist, StaffType: StaffTypeManager, Score: 2},
		{ID: "p2", Name: "药师二", Role: RolePharmacist, StaffType: StaffTypeGeneral, Score: 1},
		{ID: "c1", Name: "门市一", Role: RoleClerk, StaffType: StaffTypeGeneral, Score: 1},
	}
}

func TestHourScore_Basic(t *testing.T) {
	people := scorePeople()
	blocks := []Block{
		blk("p1", "09:00", "17:30"),
		blk("c1", "09:00", "15:30"),
	}

	if got := HourScore(blocks, people, "10:00"); got != 3 {
		t.Errorf("10:00 期望 3 分（2+1），实际 %d", got)
	}
	if got := HourScore(blocks, people, "16:00"); got != 2 {
		t.Errorf("16:00 期望 2 分（仅 p1），实际 %d", got)
	}
}

func TestHourScore_DeduplicatesSamePerson(t *testing.T) {
	// 同一人两段重叠班次在同一整点只计一次
	people := scorePeople()
	blocks := []Block{
		blk("p1", "09:00", "12:00"),
		blk("p1", "10:00", "14:00"),
	}
	if got := HourScore(blocks, people, "10:00"); got != 2 {
		t.Errorf("同一人重叠班次应只计一次：期望 2，实际 %d", got)
	}
}

func TestHourScore_HalfOpenInterval(t *testing.T) {
	// 区间为左闭右开：恰在整点开始计入，恰在整点结束不计
	people := scorePeople()
	blocks := []Block{blk("p2", "11:00", "15:00")}

	if got := HourScore(blocks, people, "11:00"); got != 1 {
		t.Errorf("起始时刻应计入：期望 1，实际 %d", got)
	}
	if got := HourScore(blocks, people, "15:00"); got != 0 {
		t.Errorf("结束时刻不应计入：期望 0，实际 %d", got)
	}
}

func TestHourScore_UnknownPersonContributesZero(t *testing.T) {
	blocks := []Block{blk("ghost", "09:00", "12:00")}
	if got := HourScore(blocks, scorePeople(), "10:00"); got != 0 {
		t.Errorf("名单外人员不计分：期望 0，实际 %d", got)
	}
}

func TestHourScore_ZeroScoreDefaultsToOne(t *testing.T) {
	// 已登记但 score 未设定（0）的人员按 1 分计
	people := []Person{{ID: "p9", Name: "药师九", Role: RolePharmacist}}
	blocks := []Block{blk("p9", "09:00", "12:00")}
	if got := HourScore(blocks, people, "10:00"); got != 1 {
		t.Errorf("未设定分数的人员按 1 分计：期望 1，实际 %d", got)
	}
}

func TestHasManagerAtHour(t *testing.T) {
	people := scorePeople()
	idx := indexPeople(people)
	blocks := []Block{
		blk("p1", "09:00", "15:30"), // 主管
		blk("c1", "15:30", "22:00"),
	}
	if !hasManagerAtHour(blocks, idx, "10:00") {
		t.Error("10:00 有主管在班")
	}
	if hasManagerAtHour(blocks, idx, "18:00") {
		t.Error("18:00 无主管在班")
	}
}
