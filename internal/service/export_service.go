package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"clinic-route/config"
	"clinic-route/internal/model"
	"clinic-route/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoVisits     = errors.New("该周暂无访问")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 导出直接读库，不依赖调用方的周会话。
// 以 bytes.Buffer 返回，由 Handler 层设置响应头后写入。
type ExportService interface {
	// ExportWeek 周路线导出为 Excel：行 = 施术者，列 = 月..日
	ExportWeek(ctx context.Context, week string) (*bytes.Buffer, string, error)
	// ExportStaffCalendar 单个施术者的一周访问导出为 iCalendar
	ExportStaffCalendar(ctx context.Context, week, staffID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	cfg    *config.ScheduleConfig
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.ScheduleConfig, repo *repository.Repository, logger *zap.Logger) ExportService {
	loc, err := cfg.Location()
	if err != nil {
		loc = time.UTC
	}
	return &exportService{repo: repo, cfg: cfg, loc: loc, now: time.Now, logger: logger}
}

// weekData 导出所需的一周数据
type weekData struct {
	week         Week
	staffs       []model.Staff
	visits       []model.WeeklyVisit
	patients     map[string]*model.Patient
	autoRoutes   []StaffRoute
	manualRoutes []StaffRoute
}

func (s *exportService) loadWeekData(ctx context.Context, rawWeek string) (*weekData, error) {
	week, err := ParseWeek(rawWeek, s.now(), s.loc)
	if err != nil {
		return nil, err
	}
	staffs, err := s.repo.Staff.List(ctx)
	if err != nil {
		s.logger.Error("查询施术者失败", zap.Error(err))
		return nil, err
	}
	visits, err := s.repo.WeeklyVisit.ListByDateRange(ctx, week.Start, week.End())
	if err != nil {
		s.logger.Error("查询本周访问失败", zap.Error(err))
		return nil, err
	}
	ids := make([]string, 0, len(visits))
	for _, v := range visits {
		ids = append(ids, v.PatientID)
	}
	patients, err := s.repo.Patient.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("查询患者失败", zap.Error(err))
		return nil, err
	}
	byID := make(map[string]*model.Patient, len(patients))
	for i := range patients {
		byID[patients[i].ID] = &patients[i]
	}

	autoRoutes, manualRoutes := BuildWeeklyRoutes(week, visits, staffs, byID)
	return &weekData{
		week:         week,
		staffs:       staffs,
		visits:       visits,
		patients:     byID,
		autoRoutes:   autoRoutes,
		manualRoutes: manualRoutes,
	}, nil
}

// ═══════════════════════════════════════════════════════════
// ExportWeek：周路线 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 标题行：周一 ~ 周日日期范围
//   - 表头：施术者 | 分区 | 月 (5/5) … 日 (5/11) | 合计
//   - 单元格：当天访问标签，按时间换行排列

func (s *exportService) ExportWeek(ctx context.Context, rawWeek string) (*bytes.Buffer, string, error) {
	data, err := s.loadWeekData(ctx, rawWeek)
	if err != nil {
		return nil, "", err
	}
	if len(data.visits) == 0 {
		return nil, "", ErrExportNoVisits
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "周路线"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "B", 8)
	f.SetColWidth(sheetName, colName(2), colName(8), 30)
	f.SetColWidth(sheetName, colName(9), colName(9), 8)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	wrapStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})

	week := data.week
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("周路线 %s ~ %s", week.String(), week.End().Format(dateLayout)))
	f.MergeCell(sheetName, "A1", cell(colName(9), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	row := 2
	f.SetCellValue(sheetName, cell("A", row), "施术者")
	f.SetCellValue(sheetName, cell("B", row), "分区")
	dates := week.Dates()
	for _, d := range AllWeekdays {
		f.SetCellValue(sheetName, cell(colName(2+int(d)), row),
			fmt.Sprintf("%s (%d/%d)", d.Label(), dates[d].Month(), dates[d].Day()))
	}
	f.SetCellValue(sheetName, cell(colName(9), row), "合计")
	f.SetCellStyle(sheetName, cell("A", row), cell(colName(9), row), headerStyle)

	row = 3
	writeZone := func(zone string, routes []StaffRoute) {
		for i := range routes {
			r := &routes[i]
			f.SetCellValue(sheetName, cell("A", row), r.StaffName)
			f.SetCellValue(sheetName, cell("B", row), zone)
			for _, d := range AllWeekdays {
				labels := make([]string, 0, len(r.Days[d]))
				for _, e := range r.Days[d] {
					labels = append(labels, e.Label)
				}
				text := "-"
				if len(labels) > 0 {
					text = strings.Join(labels, "\n")
				}
				f.SetCellValue(sheetName, cell(colName(2+int(d)), row), text)
			}
			f.SetCellValue(sheetName, cell(colName(9), row), r.Count())
			f.SetCellStyle(sheetName, cell("A", row), cell(colName(9), row), wrapStyle)
			row++
		}
	}
	writeZone("自动", data.autoRoutes)
	writeZone("手动", data.manualRoutes)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("周路线_%s.xlsx", week.String())
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportStaffCalendar：施术者一周访问 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 事件时长：访问自身时长 > 患者施术时长 > 配置默认值

func (s *exportService) ExportStaffCalendar(ctx context.Context, rawWeek, staffID string) (*bytes.Buffer, string, error) {
	staff, err := s.repo.Staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrStaffNotFound
		}
		s.logger.Error("查询施术者失败", zap.String("staff_id", staffID), zap.Error(err))
		return nil, "", err
	}

	data, err := s.loadWeekData(ctx, rawWeek)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//clinic-route//weekly routes//JA")
	cal.SetXWRCalName(fmt.Sprintf("%s %s", staff.Name, data.week.String()))
	cal.SetXWRTimezone(s.loc.String())

	stamp := s.now().UTC()
	count := 0
	for i := range data.visits {
		v := &data.visits[i]
		if v.StaffID != staff.ID {
			continue
		}
		startMin, err := ParseClock(v.Time)
		if err != nil {
			s.logger.Warn("访问时间格式无效，跳过", zap.String("visit_id", v.ID), zap.String("time", v.Time))
			continue
		}
		d := v.DateValue()
		start := time.Date(d.Year(), d.Month(), d.Day(), startMin/60, startMin%60, 0, 0, s.loc)
		end := start.Add(time.Duration(s.visitMinutes(v, data.patients[v.PatientID])) * time.Minute)

		name := v.PatientID
		if p := data.patients[v.PatientID]; p != nil {
			name = p.Name
		}

		event := cal.AddEvent(v.ID + "@clinic-route")
		event.SetDtStampTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(name)
		if v.IsManual {
			event.SetDescription("手动登记")
		} else {
			event.SetDescription("自动排班")
		}
		count++
	}
	if count == 0 {
		return nil, "", ErrExportNoVisits
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("%s_%s.ics", staff.Name, data.week.String())
	return buf, filename, nil
}

func (s *exportService) visitMinutes(v *model.WeeklyVisit, p *model.Patient) int {
	if v.Duration != nil && *v.Duration > 0 {
		return *v.Duration
	}
	if p != nil && p.TreatmentDuration != nil && *p.TreatmentDuration > 0 {
		return *p.TreatmentDuration
	}
	if s.cfg.DefaultVisitDuration > 0 {
		return s.cfg.DefaultVisitDuration
	}
	return 30
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
