package service

import (
	"time"

	"go.uber.org/zap"

	"clinic-route/internal/model"
)

// 未分配原因
const (
	UnassignedInvalidTime     = "invalid_time"
	UnassignedInvalidDuration = "invalid_duration"
	UnassignedNoEligibleStaff = "no_eligible_staff"
)

// ProposedVisit 排班算法产出的一条待写入访问
type ProposedVisit struct {
	StaffID     string
	StaffName   string
	PatientID   string
	PatientName string
	Day         Weekday
	Date        time.Time
	Time        string
	Duration    int
	Marker      string
}

// UnassignedPair 本次未能分配的 (患者, 星期)
type UnassignedPair struct {
	PatientID   string
	PatientName string
	Day         Weekday
	Time        string
	Reason      string
}

// AllocationInput 排班输入
// Patients 与 Staffs 的顺序即遍历顺序（名册登记顺序），决定先到先得的结果
type AllocationInput struct {
	Week     Week
	Patients []model.Patient
	Staffs   []model.Staff
	// Occupied 可选的预占区间，只读（内部先 Clone）
	// Generate 不传入，重复排班由自然键查重兜底；供预演与测试指定既有占用
	Occupied Occupancy
}

// AllocationResult 排班结果
type AllocationResult struct {
	Routes     []StaffRoute // 每个自动排班施术者一条
	Proposed   []ProposedVisit
	Unassigned []UnassignedPair
}

// SlotAllocator 单遍贪心排班
type SlotAllocator struct {
	logger *zap.Logger
}

// NewSlotAllocator 创建排班器
func NewSlotAllocator(logger *zap.Logger) *SlotAllocator {
	return &SlotAllocator{logger: logger}
}

// ═══════════════════════════════════════════════════════════
// Allocate：按星期 × 患者 × 施术者 首个可用者分配
// ═══════════════════════════════════════════════════════════
//
// 对每一天、按名册顺序遍历 auto 患者：
//  1. 本次已分配过的 (患者, 星期) 跳过
//  2. 希望时间缺失跳过；格式错误或时长无效记为未分配并告警
//  3. 区间 [希望时间, 希望时间 + 时长)
//  4. 按名册顺序找第一个满足条件的 auto 施术者：
//     当天出勤、难度 <= 技能（两者都有值时才比较）、区间不重叠
//  5. 找不到则记为未分配
//
// ★ 只影响显示标记，不影响候选顺序。

func (a *SlotAllocator) Allocate(in AllocationInput) *AllocationResult {
	occupied := NewOccupancy()
	if in.Occupied != nil {
		occupied = in.Occupied.Clone()
	}

	var candidates []*model.Staff
	res := &AllocationResult{}
	routeIdx := make(map[string]int)
	for i := range in.Staffs {
		st := &in.Staffs[i]
		if !st.AutoSchedule {
			continue
		}
		candidates = append(candidates, st)
		routeIdx[st.ID] = len(res.Routes)
		res.Routes = append(res.Routes, StaffRoute{StaffID: st.ID, StaffName: st.Name})
	}

	// 预先解码希望时间表，解码失败的患者整体跳过
	type patientPlan struct {
		patient *model.Patient
		entries map[string]interface{}
	}
	plans := make([]patientPlan, 0, len(in.Patients))
	for i := range in.Patients {
		p := &in.Patients[i]
		if p.IsManual() {
			continue
		}
		entries, err := p.PreferredEntries()
		if err != nil {
			a.logger.Warn("希望时间表解析失败，跳过该患者",
				zap.String("patient_id", p.ID), zap.Error(err))
			continue
		}
		plans = append(plans, patientPlan{patient: p, entries: entries})
	}

	assigned := make(map[string]bool) // "patientID:day"

	for _, day := range AllWeekdays {
		label := day.Label()
		date := in.Week.DateOf(day)

		for _, plan := range plans {
			p := plan.patient
			pairKey := p.ID + ":" + label
			if assigned[pairKey] {
				continue
			}

			raw, ok := plan.entries[label]
			if !ok || raw == nil || raw == "" {
				continue
			}

			pref, _ := raw.(string)
			start, err := ParseClock(pref)
			if err != nil {
				a.logger.Warn("希望时间格式无效，跳过",
					zap.String("patient_id", p.ID),
					zap.String("weekday", label),
					zap.Any("value", raw))
				res.Unassigned = append(res.Unassigned, UnassignedPair{
					PatientID: p.ID, PatientName: p.Name, Day: day, Reason: UnassignedInvalidTime,
				})
				continue
			}
			hhmm := FormatClock(start)

			if p.TreatmentDuration == nil || *p.TreatmentDuration <= 0 {
				a.logger.Warn("施术时长缺失或无效，跳过",
					zap.String("patient_id", p.ID),
					zap.String("weekday", label))
				res.Unassigned = append(res.Unassigned, UnassignedPair{
					PatientID: p.ID, PatientName: p.Name, Day: day, Time: hhmm, Reason: UnassignedInvalidDuration,
				})
				continue
			}
			duration := *p.TreatmentDuration
			iv := NewInterval(start, duration)

			staff := firstEligible(candidates, p, day, iv, occupied)
			if staff == nil {
				res.Unassigned = append(res.Unassigned, UnassignedPair{
					PatientID: p.ID, PatientName: p.Name, Day: day, Time: hhmm, Reason: UnassignedNoEligibleStaff,
				})
				continue
			}

			occupied.Reserve(staff.ID, day, iv)
			assigned[pairKey] = true

			pv := ProposedVisit{
				StaffID:     staff.ID,
				StaffName:   staff.Name,
				PatientID:   p.ID,
				PatientName: p.Name,
				Day:         day,
				Date:        date,
				Time:        hhmm,
				Duration:    duration,
				Marker:      markerFor(p, staff.ID),
			}
			res.Proposed = append(res.Proposed, pv)

			r := &res.Routes[routeIdx[staff.ID]]
			r.Days[day] = append(r.Days[day], pv.entry())
		}
	}

	sortRoutes(res.Routes)
	return res
}

// firstEligible 按名册顺序返回第一个可用施术者
func firstEligible(staffs []*model.Staff, p *model.Patient, day Weekday, iv Interval, occupied Occupancy) *model.Staff {
	for _, st := range staffs {
		if !st.WorkingDays.Contains(day.Label()) {
			continue
		}
		if p.DifficultyLevel != nil && st.SkillLevel != nil && *p.DifficultyLevel > *st.SkillLevel {
			continue
		}
		if occupied.Conflicts(st.ID, day, iv) {
			continue
		}
		return st
	}
	return nil
}

// entry 预览用条目（无 VisitID）
func (pv ProposedVisit) entry() VisitEntry {
	d := pv.Duration
	e := VisitEntry{
		StaffID:     pv.StaffID,
		PatientID:   pv.PatientID,
		PatientName: pv.PatientName,
		Date:        pv.Date.Format(dateLayout),
		Time:        pv.Time,
		Duration:    &d,
		Marker:      pv.Marker,
		Annotation:  DurationAnnotation(&d),
		Status:      model.VisitStatusScheduled,
	}
	e.relabel()
	return e
}

// toModel 转换为待写入记录
func (pv ProposedVisit) toModel(callerID string) model.WeeklyVisit {
	d := pv.Duration
	v := model.WeeklyVisit{
		StaffID:   pv.StaffID,
		PatientID: pv.PatientID,
		Time:      pv.Time,
		IsManual:  false,
		Duration:  &d,
		Status:    model.VisitStatusScheduled,
	}
	v.Date = dateValue(pv.Date)
	v.CreatedBy = auditID(callerID)
	v.UpdatedBy = auditID(callerID)
	return v
}
