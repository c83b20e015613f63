package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"clinic-route/config"
	"clinic-route/internal/dto"
	"clinic-route/internal/model"
	"clinic-route/internal/repository"
	pkgerrors "clinic-route/pkg/errors"
)

// ── 周路线模块业务错误 ──

var (
	ErrNoAutoStaff        = errors.New("没有可自动排班的施术者")
	ErrStaffNotFound      = errors.New("施术者不存在")
	ErrPatientNotFound    = errors.New("患者不存在")
	ErrVisitNotFound      = errors.New("访问记录不存在")
	ErrInvalidWeekday     = errors.New("星期无效，应为 月/火/水/木/金/土/日")
	ErrInvalidVisitStatus = errors.New("访问状态无效")
	ErrPreviousWeekEmpty  = errors.New("上周没有可复制的访问")
	ErrDuplicateVisit     = errors.New("该患者在此日期时间已有访问")
)

// WeeklyRouteService 周路线业务接口
type WeeklyRouteService interface {
	// 加载周视图并刷新会话
	GetWeek(ctx context.Context, req *dto.WeekQuery, callerID string) (*dto.WeeklyRouteResponse, error)
	// 自动排班（dry_run 时只返回预览）
	Generate(ctx context.Context, req *dto.GenerateRequest, callerID string) (*dto.GenerateResponse, error)
	// 移动访问
	MoveVisit(ctx context.Context, req *dto.MoveVisitRequest, callerID string) (*dto.WeeklyRouteResponse, error)
	// 删除访问
	DeleteVisit(ctx context.Context, req *dto.DeleteVisitRequest, callerID string) (*dto.WeeklyRouteResponse, error)
	// 手动登记单条访问
	ManualAdd(ctx context.Context, req *dto.ManualAddRequest, callerID string) (*dto.WeeklyRouteResponse, error)
	// 更新访问状态
	UpdateVisitStatus(ctx context.Context, visitID string, req *dto.UpdateVisitStatusRequest, callerID string) (*dto.VisitStatusResponse, error)
	// 复制上周
	CopyPreviousWeek(ctx context.Context, req *dto.WeekQuery, callerID string) (*dto.BatchResultResponse, error)
	// 手动患者批量分配
	ManualBatchAssign(ctx context.Context, req *dto.ManualBatchRequest, callerID string) (*dto.BatchResultResponse, error)
	// 丢弃周会话
	DiscardSession(ctx context.Context, req *dto.WeekQuery, callerID string) error
}

type weeklyRouteService struct {
	repo      *repository.Repository
	sessions  SessionStore
	allocator *SlotAllocator
	cfg       *config.ScheduleConfig
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

// NewWeeklyRouteService 创建 WeeklyRouteService 实例
func NewWeeklyRouteService(cfg *config.ScheduleConfig, repo *repository.Repository, sessions SessionStore, logger *zap.Logger) WeeklyRouteService {
	loc, err := cfg.Location()
	if err != nil {
		logger.Warn("排班时区无效，使用 UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.UTC
	}
	return &weeklyRouteService{
		repo:      repo,
		sessions:  sessions,
		allocator: NewSlotAllocator(logger),
		cfg:       cfg,
		loc:       loc,
		now:       time.Now,
		logger:    logger,
	}
}

// ════════════════════════════════════════════════════════════
// GetWeek
// ════════════════════════════════════════════════════════════

func (s *weeklyRouteService) GetWeek(ctx context.Context, req *dto.WeekQuery, callerID string) (*dto.WeeklyRouteResponse, error) {
	week, err := s.parseWeek(req.Week)
	if err != nil {
		return nil, err
	}
	sess, err := s.loadWeek(ctx, week, callerID)
	if err != nil {
		return nil, err
	}
	return toWeeklyRouteResponse(week, sess), nil
}

// ════════════════════════════════════════════════════════════
// Generate：排班 → 查重 → 单事务写入 → 重新加载
// ════════════════════════════════════════════════════════════

func (s *weeklyRouteService) Generate(ctx context.Context, req *dto.GenerateRequest, callerID string) (*dto.GenerateResponse, error) {
	week, err := s.parseWeek(req.Week)
	if err != nil {
		return nil, err
	}

	staffs, err := s.repo.Staff.ListAutoSchedule(ctx)
	if err != nil {
		s.logger.Error("查询自动排班施术者失败", zap.Error(err))
		return nil, err
	}
	if len(staffs) == 0 {
		return nil, ErrNoAutoStaff
	}

	patients, err := s.repo.Patient.List(ctx)
	if err != nil {
		s.logger.Error("查询患者失败", zap.Error(err))
		return nil, err
	}

	result := s.allocator.Allocate(AllocationInput{Week: week, Patients: patients, Staffs: staffs})

	resp := &dto.GenerateResponse{
		DryRun:     req.DryRun,
		Proposed:   len(result.Proposed),
		Unassigned: toUnassignedResponses(result.Unassigned),
	}

	if req.DryRun {
		resp.Preview = toStaffRouteResponses(week, result.Routes)
		return resp, nil
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		toInsert := make([]model.WeeklyVisit, 0, len(result.Proposed))
		for _, pv := range result.Proposed {
			exists, err := tx.WeeklyVisit.ExistsByNaturalKey(ctx, pv.PatientID, pv.Date, pv.Time)
			if err != nil {
				return err
			}
			if exists {
				resp.SkippedDuplicates++
				continue
			}
			toInsert = append(toInsert, pv.toModel(callerID))
		}
		if err := tx.WeeklyVisit.BatchCreate(ctx, toInsert); err != nil {
			return err
		}
		resp.Inserted = len(toInsert)
		return nil
	})
	if err != nil {
		s.logger.Error("写入自动排班结果失败", zap.String("week", week.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("自动排班完成",
		zap.String("week", week.String()),
		zap.Int("proposed", resp.Proposed),
		zap.Int("inserted", resp.Inserted),
		zap.Int("skipped_duplicates", resp.SkippedDuplicates),
		zap.Int("unassigned", len(resp.Unassigned)),
	)

	sess, err := s.loadWeek(ctx, week, callerID)
	if err != nil {
		return nil, err
	}
	resp.Week = toWeeklyRouteResponse(week, sess)
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// MoveVisit：先写库，成功后再改本地视图
// ════════════════════════════════════════════════════════════

func (s *weeklyRouteService) MoveVisit(ctx context.Context, req *dto.MoveVisitRequest, callerID string) (*dto.WeeklyRouteResponse, error) {
	week, err := s.parseWeek(req.Week)
	if err != nil {
		return nil, err
	}
	day, ok := ParseWeekday(req.ToDay)
	if !ok {
		return nil, ErrInvalidWeekday
	}
	hhmm, err := NormalizeClock(req.ToTime)
	if err != nil {
		return nil, ErrInvalidTime
	}

	sess, err := s.session(ctx, week, callerID)
	if err != nil {
		return nil, err
	}
	visitID, err := sess.Resolve(req.Label, req.VisitID)
	if err != nil {
		s.logger.Warn("移动目标无法定位", zap.String("label", req.Label), zap.String("visit_id", req.VisitID))
		return nil, err
	}
	source, _ := sess.Find(visitID)

	staff, err := s.repo.Staff.GetByID(ctx, req.ToStaffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		s.logger.Error("查询施术者失败", zap.String("staff_id", req.ToStaffID), zap.Error(err))
		return nil, err
	}

	manual := source.IsManual
	if req.Manual != nil {
		manual = *req.Manual
	}
	date := week.DateOf(day)

	err = s.repo.WeeklyVisit.UpdatePlacement(ctx, visitID, repository.VisitPlacement{
		StaffID:   staff.ID,
		Date:      date,
		Time:      hhmm,
		IsManual:  manual,
		UpdatedBy: auditID(callerID),
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.discard(ctx, week, callerID)
		}
		s.logger.Error("移动访问失败", zap.String("visit_id", visitID), zap.Error(err))
		return nil, err
	}

	// 保留标记与附注，只改担当、日期、时间与分区
	moved, _ := sess.Remove(visitID)
	moved.StaffID = staff.ID
	moved.Date = date.Format(dateLayout)
	moved.Time = hhmm
	moved.IsManual = manual
	moved.relabel()
	sess.Place(moved, staff.Name, day)

	s.save(ctx, sess)
	return toWeeklyRouteResponse(week, sess), nil
}

// ════════════════════════════════════════════════════════════
// DeleteVisit：删除后整体重新加载
// ════════════════════════════════════════════════════════════

func (s *weeklyRouteService) DeleteVisit(ctx context.Context, req *dto.DeleteVisitRequest, callerID string) (*dto.WeeklyRouteResponse, error) {
	week, err := s.parseWeek(req.Week)
	if err != nil {
		return nil, err
	}

	sess, err := s.session(ctx, week, callerID)
	if err != nil {
		return nil, err
	}
	visitID, err := sess.Resolve(req.Label, req.VisitID)
	if err != nil {
		s.logger.Warn("删除目标无法定位", zap.String("label", req.Label), zap.String("visit_id", req.VisitID))
		return nil, err
	}

	if err := s.repo.WeeklyVisit.Delete(ctx, visitID); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.discard(ctx, week, callerID)
		}
		s.logger.Error("删除访问失败", zap.String("visit_id", visitID), zap.Error(err))
		return nil, err
	}
	sess.Remove(visitID)

	fresh, err := s.loadWeek(ctx, week, callerID)
	if err != nil {
		return nil, err
	}
	return toWeeklyRouteResponse(week, fresh), nil
}

// ════════════════════════════════════════════════════════════
// ManualAdd
// ════════════════════════════════════════════════════════════

func (s *weeklyRouteService) ManualAdd(ctx context.Context, req *dto.ManualAddRequest, callerID string) (*dto.WeeklyRouteResponse, error) {
	week, err := s.parseWeek(req.Week)
	if err != nil {
		return nil, err
	}
	day, ok := ParseWeekday(req.Day)
	if !ok {
		return nil, ErrInvalidWeekday
	}
	hhmm, err := NormalizeClock(req.Time)
	if err != nil {
		return nil, ErrInvalidTime
	}

	staff, err := s.repo.Staff.GetByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		s.logger.Error("查询施术者失败", zap.String("staff_id", req.StaffID), zap.Error(err))
		return nil, err
	}
	patient, err := s.repo.Patient.GetByID(ctx, req.PatientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		s.logger.Error("查询患者失败", zap.String("patient_id", req.PatientID), zap.Error(err))
		return nil, err
	}

	date := week.DateOf(day)
	exists, err := s.repo.WeeklyVisit.ExistsByNaturalKey(ctx, patient.ID, date, hhmm)
	if err != nil {
		s.logger.Error("访问查重失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateVisit
	}

	duration := req.Duration
	if duration == nil {
		duration = patient.TreatmentDuration
	}
	visit := model.WeeklyVisit{
		StaffID:   staff.ID,
		PatientID: patient.ID,
		Date:      dateValue(date),
		Time:      hhmm,
		IsManual:  true,
		Duration:  duration,
		Status:    model.VisitStatusScheduled,
	}
	visit.CreatedBy = auditID(callerID)
	visit.UpdatedBy = auditID(callerID)

	if err := s.repo.WeeklyVisit.BatchCreate(ctx, []model.WeeklyVisit{visit}); err != nil {
		s.logger.Error("手动登记访问失败", zap.Error(err))
		return nil, err
	}

	sess, err := s.loadWeek(ctx, week, callerID)
	if err != nil {
		return nil, err
	}
	return toWeeklyRouteResponse(week, sess), nil
}

// ════════════════════════════════════════════════════════════
// UpdateVisitStatus：以 id 为冲突目标 upsert 状态
// ════════════════════════════════════════════════════════════

func (s *weeklyRouteService) UpdateVisitStatus(ctx context.Context, visitID string, req *dto.UpdateVisitStatusRequest, callerID string) (*dto.VisitStatusResponse, error) {
	if !model.IsValidVisitStatus(req.Status) {
		return nil, ErrInvalidVisitStatus
	}

	if err := s.repo.WeeklyVisit.UpsertStatus(ctx, visitID, req.Status, auditID(callerID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitNotFound
		}
		s.logger.Error("更新访问状态失败", zap.String("visit_id", visitID), zap.Error(err))
		return nil, err
	}

	// 同步已缓存的周视图
	if visit, err := s.repo.WeeklyVisit.GetByID(ctx, visitID); err == nil {
		week := WeekOf(visit.DateValue(), nil)
		if sess, err := s.sessions.Load(ctx, callerID, week.String()); err == nil && sess.SetStatus(visitID, req.Status) {
			s.save(ctx, sess)
		}
	}

	return &dto.VisitStatusResponse{ID: visitID, Status: req.Status}, nil
}

// ════════════════════════════════════════════════════════════
// CopyPreviousWeek：上周记录整体平移 7 天，不与本周查重
// ════════════════════════════════════════════════════════════

func (s *weeklyRouteService) CopyPreviousWeek(ctx context.Context, req *dto.WeekQuery, callerID string) (*dto.BatchResultResponse, error) {
	week, err := s.parseWeek(req.Week)
	if err != nil {
		return nil, err
	}
	prev := week.Previous()

	resp := &dto.BatchResultResponse{}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		source, err := tx.WeeklyVisit.ListByDateRange(ctx, prev.Start, prev.End())
		if err != nil {
			return err
		}
		if len(source) == 0 {
			return ErrPreviousWeekEmpty
		}
		resp.Source = len(source)

		copies := make([]model.WeeklyVisit, 0, len(source))
		for i := range source {
			copies = append(copies, shiftVisit(&source[i], 7, callerID))
		}
		if err := tx.WeeklyVisit.BatchCreate(ctx, copies); err != nil {
			return err
		}
		resp.Inserted = len(copies)
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrPreviousWeekEmpty) {
			s.logger.Error("复制上周失败", zap.String("week", week.String()), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("复制上周完成", zap.String("week", week.String()), zap.Int("inserted", resp.Inserted))

	sess, err := s.loadWeek(ctx, week, callerID)
	if err != nil {
		return nil, err
	}
	resp.Week = toWeeklyRouteResponse(week, sess)
	return resp, nil
}

// shiftVisit 除日期外字段不变，状态重置为 scheduled
func shiftVisit(src *model.WeeklyVisit, days int, callerID string) model.WeeklyVisit {
	v := model.WeeklyVisit{
		StaffID:   src.StaffID,
		PatientID: src.PatientID,
		Date:      dateValue(src.DateValue().AddDate(0, 0, days)),
		Time:      src.Time,
		IsManual:  src.IsManual,
		Duration:  src.Duration,
		Status:    model.VisitStatusScheduled,
	}
	v.CreatedBy = auditID(callerID)
	v.UpdatedBy = auditID(callerID)
	return v
}

// ════════════════════════════════════════════════════════════
// ManualBatchAssign：手动患者的希望时间全部登记到指定施术者
// ════════════════════════════════════════════════════════════

func (s *weeklyRouteService) ManualBatchAssign(ctx context.Context, req *dto.ManualBatchRequest, callerID string) (*dto.BatchResultResponse, error) {
	week, err := s.parseWeek(req.Week)
	if err != nil {
		return nil, err
	}

	staffName := strings.TrimSpace(req.StaffName)
	if staffName == "" {
		staffName = s.cfg.ManualBatchStaffName
	}
	staff, err := s.repo.Staff.GetByName(ctx, staffName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		s.logger.Error("查询施术者失败", zap.String("name", staffName), zap.Error(err))
		return nil, err
	}

	patients, err := s.repo.Patient.List(ctx)
	if err != nil {
		s.logger.Error("查询患者失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.BatchResultResponse{}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		current, err := tx.WeeklyVisit.ListByDateRange(ctx, week.Start, week.End())
		if err != nil {
			return err
		}
		taken := make(map[string]bool, len(current))
		for i := range current {
			taken[naturalKey(current[i].PatientID, current[i].DateString(), current[i].Time)] = true
		}

		var toInsert []model.WeeklyVisit
		for i := range patients {
			p := &patients[i]
			if !p.IsManual() {
				continue
			}
			entries, err := p.PreferredEntries()
			if err != nil || len(entries) == 0 {
				continue
			}
			for _, day := range AllWeekdays {
				raw, ok := entries[day.Label()]
				if !ok || raw == nil || raw == "" {
					continue
				}
				resp.Source++
				pref, _ := raw.(string)
				hhmm, err := NormalizeClock(pref)
				if err != nil {
					resp.SkippedInvalid++
					s.logger.Warn("希望时间格式无效，跳过",
						zap.String("patient_id", p.ID),
						zap.String("weekday", day.Label()),
						zap.Any("value", raw))
					continue
				}
				date := week.DateOf(day)
				key := naturalKey(p.ID, date.Format(dateLayout), hhmm)
				if taken[key] {
					resp.SkippedDuplicates++
					continue
				}
				taken[key] = true

				v := model.WeeklyVisit{
					StaffID:   staff.ID,
					PatientID: p.ID,
					Date:      dateValue(date),
					Time:      hhmm,
					IsManual:  true,
					Duration:  p.TreatmentDuration,
					Status:    model.VisitStatusScheduled,
				}
				v.CreatedBy = auditID(callerID)
				v.UpdatedBy = auditID(callerID)
				toInsert = append(toInsert, v)
			}
		}

		if err := tx.WeeklyVisit.BatchCreate(ctx, toInsert); err != nil {
			return err
		}
		resp.Inserted = len(toInsert)
		return nil
	})
	if err != nil {
		s.logger.Error("手动批量分配失败", zap.String("week", week.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("手动批量分配完成",
		zap.String("week", week.String()),
		zap.String("staff", staff.Name),
		zap.Int("inserted", resp.Inserted),
		zap.Int("skipped_duplicates", resp.SkippedDuplicates),
	)

	sess, err := s.loadWeek(ctx, week, callerID)
	if err != nil {
		return nil, err
	}
	resp.Week = toWeeklyRouteResponse(week, sess)
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// DiscardSession
// ════════════════════════════════════════════════════════════

func (s *weeklyRouteService) DiscardSession(ctx context.Context, req *dto.WeekQuery, callerID string) error {
	week, err := s.parseWeek(req.Week)
	if err != nil {
		return err
	}
	return s.sessions.Discard(ctx, callerID, week.String())
}

// ── 内部方法 ──

func (s *weeklyRouteService) parseWeek(raw string) (Week, error) {
	return ParseWeek(raw, s.now(), s.loc)
}

// loadWeek 从库中读取本周访问，重建视图与标签映射并保存会话
func (s *weeklyRouteService) loadWeek(ctx context.Context, week Week, ownerID string) (*WeekSession, error) {
	staffs, err := s.repo.Staff.List(ctx)
	if err != nil {
		s.logger.Error("查询施术者失败", zap.Error(err))
		return nil, err
	}
	visits, err := s.repo.WeeklyVisit.ListByDateRange(ctx, week.Start, week.End())
	if err != nil {
		s.logger.Error("查询本周访问失败", zap.String("week", week.String()), zap.Error(err))
		return nil, err
	}

	patientIDs := make([]string, 0, len(visits))
	seen := make(map[string]bool, len(visits))
	for _, v := range visits {
		if !seen[v.PatientID] {
			seen[v.PatientID] = true
			patientIDs = append(patientIDs, v.PatientID)
		}
	}
	patients, err := s.repo.Patient.ListByIDs(ctx, patientIDs)
	if err != nil {
		s.logger.Error("查询患者失败", zap.Error(err))
		return nil, err
	}
	patientByID := make(map[string]*model.Patient, len(patients))
	for i := range patients {
		patientByID[patients[i].ID] = &patients[i]
	}

	autoRoutes, manualRoutes := BuildWeeklyRoutes(week, visits, staffs, patientByID)
	sess := NewWeekSession(ownerID, week, autoRoutes, manualRoutes, s.now())
	s.logger.Debug("周视图已加载",
		zap.String("week", week.String()),
		zap.String("owner", ownerID),
		zap.Int("visits", sess.Resolver().Len()))
	s.save(ctx, sess)
	return sess, nil
}

// session 取已缓存的会话，缺失时从库重新加载
func (s *weeklyRouteService) session(ctx context.Context, week Week, ownerID string) (*WeekSession, error) {
	sess, err := s.sessions.Load(ctx, ownerID, week.String())
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		s.logger.Warn("读取周会话失败，重新加载", zap.Error(err))
	}
	return s.loadWeek(ctx, week, ownerID)
}

// save 会话写入失败只记录日志，不影响已完成的写库操作
func (s *weeklyRouteService) save(ctx context.Context, sess *WeekSession) {
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.Warn("保存周会话失败", zap.String("week", sess.WeekStart), zap.Error(err))
	}
}

func (s *weeklyRouteService) discard(ctx context.Context, week Week, ownerID string) {
	if err := s.sessions.Discard(ctx, ownerID, week.String()); err != nil {
		s.logger.Warn("丢弃周会话失败", zap.String("week", week.String()), zap.Error(err))
	}
}

func naturalKey(patientID, date, hhmm string) string {
	return patientID + "|" + date + "|" + hhmm
}

func dateValue(t time.Time) datatypes.Date {
	return datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
}

// auditID 审计字段为 uuid 列，调用方未知时留空
func auditID(callerID string) *string {
	if callerID == "" {
		return nil
	}
	return &callerID
}

// ── 响应转换 ──

func toWeeklyRouteResponse(week Week, sess *WeekSession) *dto.WeeklyRouteResponse {
	return &dto.WeeklyRouteResponse{
		WeekStart:    week.String(),
		WeekEnd:      week.End().Format(dateLayout),
		AutoRoutes:   toStaffRouteResponses(week, sess.AutoRoutes),
		ManualRoutes: toStaffRouteResponses(week, sess.ManualRoutes),
	}
}

func toStaffRouteResponses(week Week, routes []StaffRoute) []dto.StaffRouteResponse {
	dates := week.Dates()
	out := make([]dto.StaffRouteResponse, 0, len(routes))
	for i := range routes {
		r := &routes[i]
		sr := dto.StaffRouteResponse{
			StaffID:   r.StaffID,
			StaffName: r.StaffName,
			Total:     r.Count(),
			Days:      make([]dto.DayRouteResponse, 0, 7),
		}
		for _, d := range AllWeekdays {
			visits := make([]dto.VisitEntryResponse, 0, len(r.Days[d]))
			for _, e := range r.Days[d] {
				visits = append(visits, toVisitEntryResponse(e))
			}
			sr.Days = append(sr.Days, dto.DayRouteResponse{
				Weekday: d.Label(),
				Date:    dates[d].Format(dateLayout),
				Visits:  visits,
			})
		}
		out = append(out, sr)
	}
	return out
}

func toVisitEntryResponse(e VisitEntry) dto.VisitEntryResponse {
	return dto.VisitEntryResponse{
		VisitID:     e.VisitID,
		StaffID:     e.StaffID,
		PatientID:   e.PatientID,
		PatientName: e.PatientName,
		Date:        e.Date,
		Time:        e.Time,
		Duration:    e.Duration,
		Marker:      e.Marker,
		IsManual:    e.IsManual,
		Status:      e.Status,
		Label:       e.Label,
	}
}

func toUnassignedResponses(pairs []UnassignedPair) []dto.UnassignedResponse {
	out := make([]dto.UnassignedResponse, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, dto.UnassignedResponse{
			PatientID:   p.PatientID,
			PatientName: p.PatientName,
			Weekday:     p.Day.Label(),
			Time:        p.Time,
			Reason:      p.Reason,
		})
	}
	return out
}
