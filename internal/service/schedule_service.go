package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pharmacy-roster/backend/config"
	"pharmacy-roster/backend/internal/dto"
	"pharmacy-roster/backend/internal/model"
	"pharmacy-roster/backend/internal/repository"
	"pharmacy-roster/backend/internal/roster"
)

// ── 排班模块业务错误 ──

var (
	ErrRunNotFound      = errors.New("排班运行不存在")
	ErrNoActiveRun      = errors.New("当前没有生效中的排班")
	ErrInvalidShiftCode = errors.New("该角色不存在此班别代码")
)

// ScheduleService 排班业务接口。
// 数据库只保存基线班次与覆写规则；警示、钥匙状态与统计
// 每次读取时由引擎全量重算，保证视图永不过期
type ScheduleService interface {
	// 生成 28 天排班
	Generate(ctx context.Context, req *dto.GenerateScheduleRequest, callerID string) (*dto.ScheduleResponse, error)
	// 获取指定运行的完整视图
	GetByID(ctx context.Context, runID string) (*dto.ScheduleResponse, error)
	// 获取当前生效中的运行视图
	GetLatest(ctx context.Context) (*dto.ScheduleResponse, error)
	// 写入单格覆写
	SetOverride(ctx context.Context, runID string, req *dto.SetOverrideRequest, callerID string) (*dto.ScheduleResponse, error)
	// 单格循环点击
	CycleCell(ctx context.Context, runID string, req *dto.CycleCellRequest, callerID string) (*dto.ScheduleResponse, error)
	// 清空覆写
	ClearOverrides(ctx context.Context, runID string, req *dto.ClearOverridesRequest, callerID string) (*dto.ScheduleResponse, error)
}

type scheduleService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{cfg: cfg, repo: repo, logger: logger}
}

// Generate 生成一次 28 天排班：归档旧运行，保存新基线
func (s *scheduleService) Generate(ctx context.Context, req *dto.GenerateScheduleRequest, callerID string) (*dto.ScheduleResponse, error) {
	startDate, err := roster.ParseDateKey(req.StartDate)
	if err != nil {
		return nil, err
	}

	pharmacists, clerks, err := s.loadPeople(ctx, startDate)
	if err != nil {
		return nil, err
	}
	reqMap, covMap, err := s.loadRosterConfig(ctx)
	if err != nil {
		return nil, err
	}

	result := roster.BuildSchedule(roster.Input{
		StartDate:          startDate,
		Pharmacists:        pharmacists,
		Clerks:             clerks,
		HourlyRequirements: reqMap,
		CoverageByWeekday:  covMap,
		CoverageGuard:      s.cfg.Schedule.CoverageGuard,
		FillGuard:          s.cfg.Schedule.FillGuard,
	})

	if err := s.repo.Run.ArchiveActive(ctx, callerID); err != nil {
		s.logger.Error("归档旧排班失败", zap.Error(err))
		return nil, err
	}

	run := &model.ScheduleRun{
		StartDate: startDate,
		Status:    "active",
		BaseModel: model.BaseModel{CreatedBy: &callerID},
	}
	if err := s.repo.Run.Create(ctx, run); err != nil {
		s.logger.Error("创建排班运行失败", zap.Error(err))
		return nil, err
	}

	blocks := make([]model.ScheduleBlock, 0, len(result.Days)*4)
	for _, day := range result.Days {
		for _, b := range day.Pharmacists {
			blocks = append(blocks, blockRecord(run.RunID, day.Date, b))
		}
		for _, b := range day.Clerks {
			blocks = append(blocks, blockRecord(run.RunID, day.Date, b))
		}
	}
	if err := s.repo.Block.BatchCreate(ctx, blocks); err != nil {
		s.logger.Error("保存基线班次失败", zap.Error(err), zap.String("run_id", run.RunID))
		return nil, err
	}

	s.logger.Info("排班生成完成",
		zap.String("run_id", run.RunID),
		zap.String("start_date", req.StartDate),
		zap.Int("blocks", len(blocks)),
		zap.String("created_by", callerID))

	return s.buildView(ctx, run)
}

// GetByID 获取指定运行的完整视图
func (s *scheduleService) GetByID(ctx context.Context, runID string) (*dto.ScheduleResponse, error) {
	run, err := s.repo.Run.GetByID(ctx, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return s.buildView(ctx, run)
}

// GetLatest 获取当前生效中的运行视图
func (s *scheduleService) GetLatest(ctx context.Context) (*dto.ScheduleResponse, error) {
	run, err := s.repo.Run.GetLatestActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveRun
		}
		return nil, err
	}
	return s.buildView(ctx, run)
}

// SetOverride 写入单格覆写并返回重算后的视图
func (s *scheduleService) SetOverride(ctx context.Context, runID string, req *dto.SetOverrideRequest, callerID string) (*dto.ScheduleResponse, error) {
	run, err := s.repo.Run.GetByID(ctx, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	staff, err := s.repo.Staff.GetByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	date, err := roster.ParseDateKey(req.Date)
	if err != nil {
		return nil, err
	}

	override := &model.ScheduleOverride{
		RunID:     run.RunID,
		Date:      date,
		StaffID:   staff.StaffID,
		Kind:      req.Kind,
		BaseModel: model.BaseModel{CreatedBy: &callerID, UpdatedBy: &callerID},
	}
	switch req.Kind {
	case string(roster.OverrideShift):
		if _, ok := roster.TemplateByCode(roster.Role(staff.Role), req.Code); !ok {
			return nil, ErrInvalidShiftCode
		}
		override.Code = req.Code
	case string(roster.OverrideMark):
		mt := roster.MarkType(req.MarkType)
		if mt != roster.MarkOff && !mt.NeedsHours() {
			return nil, ErrInvalidMarkType
		}
		override.MarkType = req.MarkType
		if mt.NeedsHours() {
			override.Hours = req.Hours
			if override.Hours == 0 {
				override.Hours = roster.MarkDefaultHours
			}
		}
	}

	if err := s.repo.Override.Upsert(ctx, override); err != nil {
		s.logger.Error("保存覆写失败", zap.Error(err), zap.String("run_id", runID))
		return nil, err
	}
	return s.buildView(ctx, run)
}

// CycleCell 按固定顺序把单元格切换到下一个状态：
// 空白 → 本角色全部常规班别 → 休/假/支援标记 → 空白
func (s *scheduleService) CycleCell(ctx context.Context, runID string, req *dto.CycleCellRequest, callerID string) (*dto.ScheduleResponse, error) {
	run, err := s.repo.Run.GetByID(ctx, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	staff, err := s.repo.Staff.GetByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	date, err := roster.ParseDateKey(req.Date)
	if err != nil {
		return nil, err
	}

	current, err := s.effectiveCellState(ctx, run.RunID, date, staff)
	if err != nil {
		return nil, err
	}
	rule := roster.NextCellState(current, roster.Role(staff.Role))

	override := &model.ScheduleOverride{
		RunID:     run.RunID,
		Date:      date,
		StaffID:   staff.StaffID,
		Kind:      string(rule.Kind),
		Code:      rule.Code,
		MarkType:  string(rule.MarkType),
		Hours:     rule.Hours,
		BaseModel: model.BaseModel{CreatedBy: &callerID, UpdatedBy: &callerID},
	}
	if rule.Kind == roster.OverrideNone {
		override.MarkType = ""
	}
	if err := s.repo.Override.Upsert(ctx, override); err != nil {
		s.logger.Error("保存覆写失败", zap.Error(err), zap.String("run_id", runID))
		return nil, err
	}
	return s.buildView(ctx, run)
}

// ClearOverrides 清空覆写并返回基线重算视图。Date 为空时清空整个运行
func (s *scheduleService) ClearOverrides(ctx context.Context, runID string, req *dto.ClearOverridesRequest, callerID string) (*dto.ScheduleResponse, error) {
	run, err := s.repo.Run.GetByID(ctx, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}

	if req.Date != nil {
		date, err := roster.ParseDateKey(*req.Date)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Override.DeleteByRunAndDate(ctx, run.RunID, date); err != nil {
			return nil, err
		}
	} else {
		if err := s.repo.Override.DeleteByRun(ctx, run.RunID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("覆写已清空",
		zap.String("run_id", runID),
		zap.Bool("single_day", req.Date != nil),
		zap.String("cleared_by", callerID))
	return s.buildView(ctx, run)
}

// ── 内部装配 ──

// loadPeople 把员工与其标记装配为引擎人员列表，按角色分组
func (s *scheduleService) loadPeople(ctx context.Context, startDate time.Time) (pharmacists, clerks []roster.Person, err error) {
	staffList, err := s.repo.Staff.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	marks, err := s.repo.StaffMark.ListByDateRange(ctx, startDate, startDate.AddDate(0, 0, roster.HorizonDays-1))
	if err != nil {
		return nil, nil, err
	}

	markIndex := make(map[string]map[string]roster.Mark, len(staffList))
	for _, m := range marks {
		if markIndex[m.StaffID] == nil {
			markIndex[m.StaffID] = make(map[string]roster.Mark)
		}
		markIndex[m.StaffID][roster.DateKey(m.Date)] = roster.Mark{
			Type:  roster.MarkType(m.Type),
			Hours: m.Hours,
		}
	}

	for _, st := range staffList {
		p := roster.Person{
			ID:        st.StaffID,
			Name:      st.Name,
			Role:      roster.Role(st.Role),
			StaffType: st.StaffType,
			Score:     st.Score,
			HasKey:    st.HasKey,
			Marks:     markIndex[st.StaffID],
		}
		if p.Role == roster.RoleClerk {
			clerks = append(clerks, p)
		} else {
			pharmacists = append(pharmacists, p)
		}
	}
	return pharmacists, clerks, nil
}

// loadRosterConfig 读取整点需求与药师覆盖规则
func (s *scheduleService) loadRosterConfig(ctx context.Context) (map[string]int, map[int]roster.CoverageRule, error) {
	reqs, err := s.repo.Requirement.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	rules, err := s.repo.Coverage.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	reqMap := make(map[string]int, len(reqs))
	for _, r := range reqs {
		reqMap[r.Hour] = r.Required
	}
	covMap := make(map[int]roster.CoverageRule, len(rules))
	for _, r := range rules {
		covMap[r.Weekday] = roster.CoverageRule{Enabled: r.Enabled, Start: r.StartTime, End: r.EndTime}
	}
	return reqMap, covMap, nil
}

// buildView 读取基线与覆写，套用覆写全量重算后转换为响应。
// MARK 类覆写同时并入人员标记，确保时数统计与当日标记展示一致
func (s *scheduleService) buildView(ctx context.Context, run *model.ScheduleRun) (*dto.ScheduleResponse, error) {
	pharmacists, clerks, err := s.loadPeople(ctx, run.StartDate)
	if err != nil {
		return nil, err
	}
	reqMap, covMap, err := s.loadRosterConfig(ctx)
	if err != nil {
		return nil, err
	}
	blockRows, err := s.repo.Block.ListByRun(ctx, run.RunID)
	if err != nil {
		return nil, err
	}
	ovRows, err := s.repo.Override.ListByRun(ctx, run.RunID)
	if err != nil {
		return nil, err
	}

	roleIndex := make(map[string]roster.Role, len(pharmacists)+len(clerks))
	nameIndex := make(map[string]string, len(pharmacists)+len(clerks))
	for _, p := range pharmacists {
		roleIndex[p.ID] = p.Role
		nameIndex[p.ID] = p.Name
	}
	for _, c := range clerks {
		roleIndex[c.ID] = c.Role
		nameIndex[c.ID] = c.Name
	}

	baseDays := assembleBaseDays(run.StartDate, blockRows, roleIndex, nameIndex)

	overrides := make(roster.Overrides)
	for _, row := range ovRows {
		key := roster.DateKey(row.Date)
		if overrides[key] == nil {
			overrides[key] = make(map[string]roster.OverrideRule)
		}
		overrides[key][row.StaffID] = roster.OverrideRule{
			Kind:     roster.OverrideKind(row.Kind),
			Role:     roleIndex[row.StaffID],
			Code:     row.Code,
			MarkType: roster.MarkType(row.MarkType),
			Hours:    row.Hours,
		}
		// MARK 覆写替换该人当日标记；SHIFT/NONE 清除原标记
		switch roster.OverrideKind(row.Kind) {
		case roster.OverrideMark:
			setPersonMark(pharmacists, clerks, row.StaffID, key, roster.Mark{
				Type:  roster.MarkType(row.MarkType),
				Hours: row.Hours,
			})
		default:
			clearPersonMark(pharmacists, clerks, row.StaffID, key)
		}
	}

	result := roster.ApplyOverrides(baseDays, overrides, pharmacists, clerks, reqMap, covMap)
	people := make([]roster.Person, 0, len(pharmacists)+len(clerks))
	people = append(people, pharmacists...)
	people = append(people, clerks...)
	return toScheduleResponse(run, result, people), nil
}

// effectiveCellState 计算单元格当前有效状态：覆写优先，其次基线班次，再次员工标记
func (s *scheduleService) effectiveCellState(ctx context.Context, runID string, date time.Time, staff *model.Staff) (string, error) {
	ov, err := s.repo.Override.Get(ctx, runID, date, staff.StaffID)
	if err == nil {
		switch roster.OverrideKind(ov.Kind) {
		case roster.OverrideShift:
			return ov.Code, nil
		case roster.OverrideMark:
			return ov.MarkType, nil
		default:
			return "", nil
		}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	blocks, err := s.repo.Block.ListByRun(ctx, runID)
	if err != nil {
		return "", err
	}
	key := roster.DateKey(date)
	for _, b := range blocks {
		if b.StaffID == staff.StaffID && roster.DateKey(b.Date) == key {
			return b.Code, nil
		}
	}

	marks, err := s.repo.StaffMark.ListByStaff(ctx, staff.StaffID)
	if err != nil {
		return "", err
	}
	for _, m := range marks {
		if roster.DateKey(m.Date) == key {
			return m.Type, nil
		}
	}
	return "", nil
}

// assembleBaseDays 把落库班次还原为引擎日结构，覆盖全部 28 天
func assembleBaseDays(startDate time.Time, rows []model.ScheduleBlock, roleIndex map[string]roster.Role, nameIndex map[string]string) []roster.Day {
	byDate := make(map[string][]model.ScheduleBlock, roster.HorizonDays)
	for _, row := range rows {
		key := roster.DateKey(row.Date)
		byDate[key] = append(byDate[key], row)
	}

	dates := roster.HorizonDates(startDate)
	days := make([]roster.Day, len(dates))
	for i, d := range dates {
		day := roster.Day{Date: d}
		for _, row := range byDate[roster.DateKey(d)] {
			name := nameIndex[row.StaffID]
			if name == "" {
				name = row.StaffID
			}
			block := roster.Block{
				ID:    row.StaffID,
				Name:  name,
				Start: row.StartTime,
				End:   row.EndTime,
				Hours: row.Hours,
				Code:  row.Code,
			}
			if roleIndex[row.StaffID] == roster.RoleClerk {
				day.Clerks = append(day.Clerks, block)
			} else {
				day.Pharmacists = append(day.Pharmacists, block)
			}
		}
		days[i] = day
	}
	return days
}

func setPersonMark(pharmacists, clerks []roster.Person, staffID, dateKey string, mark roster.Mark) {
	for _, group := range [][]roster.Person{pharmacists, clerks} {
		for i := range group {
			if group[i].ID != staffID {
				continue
			}
			if group[i].Marks == nil {
				group[i].Marks = make(map[string]roster.Mark)
			}
			group[i].Marks[dateKey] = mark
			return
		}
	}
}

func clearPersonMark(pharmacists, clerks []roster.Person, staffID, dateKey string) {
	for _, group := range [][]roster.Person{pharmacists, clerks} {
		for i := range group {
			if group[i].ID == staffID {
				delete(group[i].Marks, dateKey)
				return
			}
		}
	}
}

func blockRecord(runID string, date time.Time, b roster.Block) model.ScheduleBlock {
	return model.ScheduleBlock{
		RunID:     runID,
		Date:      date,
		StaffID:   b.ID,
		Code:      b.Code,
		StartTime: b.Start,
		EndTime:   b.End,
		Hours:     b.Hours,
	}
}

// toScheduleResponse 把引擎结果转换为响应 DTO
func toScheduleResponse(run *model.ScheduleRun, result roster.Result, people []roster.Person) *dto.ScheduleResponse {
	days := make([]dto.DayResponse, len(result.Days))
	for i, d := range result.Days {
		key := roster.DateKey(d.Date)

		var dayMarks []dto.MarkResponse
		for pi := range people {
			m := people[pi].MarkOn(key)
			if m.Type == roster.MarkNone {
				continue
			}
			dayMarks = append(dayMarks, dto.MarkResponse{
				StaffID: people[pi].ID,
				Date:    key,
				Type:    string(m.Type),
				Hours:   m.Hours,
			})
		}

		days[i] = dto.DayResponse{
			Date:        key,
			Pharmacists: toBlockResponses(d.Pharmacists),
			Clerks:      toBlockResponses(d.Clerks),
			Marks:       dayMarks,
			Warnings:    d.Warnings,
			Key:         toKeyStateResponse(d.Key),
		}
	}

	stats := make([]dto.ShiftStatResponse, len(result.Stats))
	for i, st := range result.Stats {
		stats[i] = dto.ShiftStatResponse{
			StaffID:       st.ID,
			Name:          st.Name,
			Role:          string(st.Role),
			Morning:       st.Morning,
			Evening:       st.Evening,
			Full:          st.Full,
			Other:         st.Other,
			BaseHours:     st.BaseHours,
			OvertimeHours: st.OvertimeHours,
		}
	}

	return &dto.ScheduleResponse{
		RunID:     run.RunID,
		StartDate: roster.DateKey(run.StartDate),
		Status:    run.Status,
		Days:      days,
		Stats:     stats,
		CreatedAt: run.CreatedAt.Format(time.RFC3339),
	}
}

func toBlockResponses(blocks []roster.Block) []dto.BlockResponse {
	out := make([]dto.BlockResponse, len(blocks))
	for i, b := range blocks {
		out[i] = dto.BlockResponse{
			StaffID:   b.ID,
			StaffName: b.Name,
			Code:      b.Code,
			StartTime: b.Start,
			EndTime:   b.End,
			Hours:     b.Hours,
		}
	}
	return out
}

func toKeyStateResponse(k roster.KeyState) dto.KeyStateResponse {
	out := dto.KeyStateResponse{Notes: k.Notes}
	if k.Open != nil {
		out.Open = &dto.KeyStatusResponse{OK: k.Open.OK, Holder: k.Open.Holder, Suggest: k.Open.Suggest}
	}
	if k.Close != nil {
		out.Close = &dto.KeyStatusResponse{OK: k.Close.OK, Holder: k.Close.Holder, Suggest: k.Close.Suggest}
	}
	return out
}
