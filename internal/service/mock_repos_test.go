package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"clinic-route/internal/model"
	"clinic-route/internal/repository"
	pkgerrors "clinic-route/pkg/errors"
)

// ── Mock PatientRepository ──

type mockPatientRepo struct {
	patients []model.Patient
}

func (m *mockPatientRepo) List(_ context.Context) ([]model.Patient, error) {
	return append([]model.Patient(nil), m.patients...), nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id string) (*model.Patient, error) {
	for i := range m.patients {
		if m.patients[i].ID == id {
			p := m.patients[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPatientRepo) ListByIDs(_ context.Context, ids []string) ([]model.Patient, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var result []model.Patient
	for _, p := range m.patients {
		if want[p.ID] {
			result = append(result, p)
		}
	}
	return result, nil
}

// ── Mock StaffRepository ──

type mockStaffRepo struct {
	staffs []model.Staff
}

func (m *mockStaffRepo) List(_ context.Context) ([]model.Staff, error) {
	return append([]model.Staff(nil), m.staffs...), nil
}

func (m *mockStaffRepo) ListAutoSchedule(_ context.Context) ([]model.Staff, error) {
	var result []model.Staff
	for _, s := range m.staffs {
		if s.AutoSchedule {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id string) (*model.Staff, error) {
	for i := range m.staffs {
		if m.staffs[i].ID == id {
			s := m.staffs[i]
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStaffRepo) GetByName(_ context.Context, name string) (*model.Staff, error) {
	for i := range m.staffs {
		if m.staffs[i].Name == name {
			s := m.staffs[i]
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock WeeklyVisitRepository ──

type mockWeeklyVisitRepo struct {
	visits      map[string]*model.WeeklyVisit
	seq         int
	createErr   error // BatchCreate 返回的错误
	updateCalls int
	deleteCalls int
}

func newMockWeeklyVisitRepo() *mockWeeklyVisitRepo {
	return &mockWeeklyVisitRepo{visits: make(map[string]*model.WeeklyVisit)}
}

// add 直接放入一条访问，返回其 ID
func (m *mockWeeklyVisitRepo) add(v model.WeeklyVisit) string {
	if v.ID == "" {
		m.seq++
		v.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", m.seq)
	}
	if v.Status == "" {
		v.Status = model.VisitStatusScheduled
	}
	m.visits[v.ID] = &v
	return v.ID
}

func (m *mockWeeklyVisitRepo) all() []model.WeeklyVisit {
	var result []model.WeeklyVisit
	for _, v := range m.visits {
		result = append(result, *v)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DateString() != result[j].DateString() {
			return result[i].DateString() < result[j].DateString()
		}
		if result[i].Time != result[j].Time {
			return result[i].Time < result[j].Time
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func (m *mockWeeklyVisitRepo) ListByDateRange(_ context.Context, from, to time.Time) ([]model.WeeklyVisit, error) {
	var result []model.WeeklyVisit
	for _, v := range m.all() {
		d := v.DateValue()
		if d.Before(from) || d.After(to) {
			continue
		}
		result = append(result, v)
	}
	return result, nil
}

func (m *mockWeeklyVisitRepo) GetByID(_ context.Context, id string) (*model.WeeklyVisit, error) {
	if v, ok := m.visits[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWeeklyVisitRepo) ExistsByNaturalKey(_ context.Context, patientID string, date time.Time, hhmm string) (bool, error) {
	ds := date.Format("2006-01-02")
	for _, v := range m.visits {
		if v.PatientID == patientID && v.DateString() == ds && v.Time == hhmm {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockWeeklyVisitRepo) BatchCreate(_ context.Context, visits []model.WeeklyVisit) error {
	if m.createErr != nil {
		return m.createErr
	}
	for i := range visits {
		visits[i].ID = m.add(visits[i])
	}
	return nil
}

func (m *mockWeeklyVisitRepo) UpdatePlacement(_ context.Context, id string, p repository.VisitPlacement) error {
	m.updateCalls++
	v, ok := m.visits[id]
	if !ok {
		return pkgerrors.ErrOptimisticLock
	}
	v.StaffID = p.StaffID
	v.Date = datatypes.Date(p.Date)
	v.Time = p.Time
	v.IsManual = p.IsManual
	return nil
}

func (m *mockWeeklyVisitRepo) UpsertStatus(_ context.Context, id, status string, _ *string) error {
	v, ok := m.visits[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Status = status
	return nil
}

func (m *mockWeeklyVisitRepo) Delete(_ context.Context, id string) error {
	m.deleteCalls++
	if _, ok := m.visits[id]; !ok {
		return pkgerrors.ErrOptimisticLock
	}
	delete(m.visits, id)
	return nil
}

// ── 测试数据辅助 ──

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func testStaff(id, name string, skill *int, days string, auto bool) model.Staff {
	var wd model.WeekdayList
	_ = wd.Scan(days)
	return model.Staff{ID: id, Name: name, SkillLevel: skill, WorkingDays: wd, AutoSchedule: auto}
}

func testPatient(id, name, schedule string, duration, difficulty *int, assignType string) model.Patient {
	return model.Patient{
		ID:                id,
		Name:              name,
		PreferredSchedule: datatypes.JSON(schedule),
		TreatmentDuration: duration,
		DifficultyLevel:   difficulty,
		AssignType:        assignType,
	}
}

func testVisit(staffID, patientID string, date time.Time, hhmm string, manual bool) model.WeeklyVisit {
	return model.WeeklyVisit{
		StaffID:   staffID,
		PatientID: patientID,
		Date:      datatypes.Date(date),
		Time:      hhmm,
		IsManual:  manual,
		Duration:  intPtr(30),
	}
}

func ymd(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
