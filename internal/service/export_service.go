package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pharmacy-roster/backend/internal/dto"
	"pharmacy-roster/backend/internal/repository"
	"pharmacy-roster/backend/internal/roster"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
	ErrExportNoBlocks     = errors.New("该员工在此排班中无班次")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - Excel 导出整个运行：员工 × 28 天网格 + 逐人统计 Sheet
//   - ICS 导出单人班次，供员工订阅个人日历
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 导出内容基于覆写叠加后的最终视图，与页面所见一致
type ExportService interface {
	// ExportExcel 导出排班运行为 Excel
	ExportExcel(ctx context.Context, runID string) (*bytes.Buffer, string, error)
	// ExportICS 导出单名员工的班次为 iCalendar
	ExportICS(ctx context.Context, runID, staffID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo     *repository.Repository
	schedule ScheduleService
	logger   *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, schedule ScheduleService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, schedule: schedule, logger: logger}
}

var weekdayNames = []string{"日", "一", "二", "三", "四", "五", "六"}

// ═══════════════════════════════════════════════════════════
// ExportExcel — 导出排班运行为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "排班表"：行头为员工（药师在前，按显示顺序），列头为 28 个日期
//   - 单元格：班别代码（如 P6A）或标记（休/公假/特休/补休/支援）
//   - Sheet "班次统计"：逐人早/晚/全天/其他班次数与时数累计
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportExcel(ctx context.Context, runID string) (*bytes.Buffer, string, error) {
	view, err := s.schedule.GetByID(ctx, runID)
	if err != nil {
		return nil, "", err
	}
	staffList, err := s.repo.Staff.List(ctx)
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, "", err
	}

	// 单元格内容索引: "staffID:date" → 显示文本
	cellIndex := make(map[string]string)
	for _, day := range view.Days {
		for _, b := range day.Pharmacists {
			cellIndex[b.StaffID+":"+day.Date] = b.Code
		}
		for _, b := range day.Clerks {
			cellIndex[b.StaffID+":"+day.Date] = b.Code
		}
		for _, m := range day.Marks {
			cellIndex[m.StaffID+":"+day.Date] = markLabel(m.Type)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "排班表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 列宽：姓名、角色列较宽，日期列紧凑
	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "B", 8)
	lastCol := colName(1 + len(view.Days))
	f.SetColWidth(sheetName, "C", lastCol, 7)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	endDate := ""
	if n := len(view.Days); n > 0 {
		endDate = view.Days[n-1].Date
	}
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("药局排班表 %s ~ %s", view.StartDate, endDate))
	f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "姓名")
	f.SetCellValue(sheetName, cell("B", row), "角色")
	for i, day := range view.Days {
		d, err := roster.ParseDateKey(day.Date)
		if err != nil {
			continue
		}
		f.SetCellValue(sheetName, cell(colName(2+i), row), fmt.Sprintf("%s 周%s", d.Format("01/02"), weekdayNames[int(d.Weekday())]))
	}

	// 数据行：药师在前，与页面显示顺序一致
	row = 3
	for _, st := range staffList {
		f.SetCellValue(sheetName, cell("A", row), st.Name)
		f.SetCellValue(sheetName, cell("B", row), roleLabel(st.Role))
		for i, day := range view.Days {
			text := cellIndex[st.StaffID+":"+day.Date]
			if text == "" {
				text = "-"
			}
			f.SetCellValue(sheetName, cell(colName(2+i), row), text)
		}
		row++
	}

	if err := s.writeStatsSheet(f, headerStyle, view.Stats); err != nil {
		s.logger.Error("写入统计 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("药局排班_%s.xlsx", view.StartDate)
	return buf, filename, nil
}

// writeStatsSheet 追加逐人班次统计 Sheet
func (s *exportService) writeStatsSheet(f *excelize.File, headerStyle int, stats []dto.ShiftStatResponse) error {
	sheetName := "班次统计"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "H", 10)

	headers := []string{"姓名", "角色", "早班", "晚班", "全天", "其他", "正常时数", "加班时数"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
		f.SetCellStyle(sheetName, cell(colName(i), 1), cell(colName(i), 1), headerStyle)
	}

	row := 2
	for _, st := range stats {
		f.SetCellValue(sheetName, cell("A", row), st.Name)
		f.SetCellValue(sheetName, cell("B", row), roleLabel(st.Role))
		f.SetCellValue(sheetName, cell("C", row), st.Morning)
		f.SetCellValue(sheetName, cell("D", row), st.Evening)
		f.SetCellValue(sheetName, cell("E", row), st.Full)
		f.SetCellValue(sheetName, cell("F", row), st.Other)
		f.SetCellValue(sheetName, cell("G", row), st.BaseHours)
		f.SetCellValue(sheetName, cell("H", row), st.OvertimeHours)
		row++
	}
	return nil
}

// ═══════════════════════════════════════════════════════════
// ExportICS — 导出单人班次为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每个班次生成一个 VEVENT，时间取班次起止钟点；
// UID 由运行、日期与员工组合，重复导入日历客户端时覆盖而非重复

func (s *exportService) ExportICS(ctx context.Context, runID, staffID string) (*bytes.Buffer, string, error) {
	staff, err := s.repo.Staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrStaffNotFound
		}
		return nil, "", err
	}
	view, err := s.schedule.GetByID(ctx, runID)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//pharmacy-roster//schedule//ZH")

	now := time.Now()
	count := 0
	for _, day := range view.Days {
		date, err := roster.ParseDateKey(day.Date)
		if err != nil {
			continue
		}
		blocks := append([]dto.BlockResponse{}, day.Pharmacists...)
		blocks = append(blocks, day.Clerks...)
		for _, b := range blocks {
			if b.StaffID != staffID {
				continue
			}
			event := cal.AddEvent(fmt.Sprintf("%s-%s-%s@pharmacy-roster", runID, day.Date, staffID))
			event.SetCreatedTime(now)
			event.SetDtStampTime(now)
			event.SetStartAt(clockOn(date, b.StartTime))
			event.SetEndAt(clockOn(date, b.EndTime))
			event.SetSummary(fmt.Sprintf("%s %s", staff.Name, b.Code))
			event.SetDescription(fmt.Sprintf("%s-%s（%.1f 小时）", b.StartTime, b.EndTime, b.Hours))
			count++
		}
	}
	if count == 0 {
		return nil, "", ErrExportNoBlocks
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("班表_%s_%s.ics", staff.Name, view.StartDate)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// clockOn 把 "15:04" 钟点落到指定日期
func clockOn(date time.Time, clock string) time.Time {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}

func roleLabel(role string) string {
	if role == string(roster.RoleClerk) {
		return "门市"
	}
	return "药师"
}

func markLabel(markType string) string {
	switch roster.MarkType(markType) {
	case roster.MarkOff:
		return "休"
	case roster.MarkPublic:
		return "公假"
	case roster.MarkAnnual:
		return "特休"
	case roster.MarkComp:
		return "补休"
	case roster.MarkSupport:
		return "支援"
	}
	return markType
}
