package service

import (
	"sort"
	"time"

	"clinic-route/internal/model"
)

// 视图分区
const (
	ZoneAuto   = "auto"
	ZoneManual = "manual"
)

// StaffRoute 单个施术者的一周路线，Days 以周一为下标 0
type StaffRoute struct {
	StaffID   string          `json:"staff_id"`
	StaffName string          `json:"staff_name"`
	Days      [7][]VisitEntry `json:"days"`
}

// Count 一周访问总数
func (r *StaffRoute) Count() int {
	n := 0
	for _, d := range r.Days {
		n += len(d)
	}
	return n
}

func sortDay(entries []VisitEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Time != entries[j].Time {
			return entries[i].Time < entries[j].Time
		}
		if entries[i].PatientName != entries[j].PatientName {
			return entries[i].PatientName < entries[j].PatientName
		}
		return entries[i].VisitID < entries[j].VisitID
	})
}

// ═══════════════════════════════════════════════════════════
// BuildWeeklyRoutes：访问记录 → 自动区 / 手动区视图
// ═══════════════════════════════════════════════════════════
//
//   - is_manual 的访问进入手动区，其余进入自动区
//   - 自动区按名册顺序列出全部 auto_schedule 施术者（无访问也列出）
//   - 手动区只列出至少有一条手动访问的施术者
//   - 挂在非自动施术者名下的自动访问追加在自动区末尾，避免被隐藏
//   - 每天按时间升序

func BuildWeeklyRoutes(week Week, visits []model.WeeklyVisit, staffs []model.Staff, patients map[string]*model.Patient) (autoRoutes, manualRoutes []StaffRoute) {
	staffByID := make(map[string]*model.Staff, len(staffs))
	for i := range staffs {
		staffByID[staffs[i].ID] = &staffs[i]
	}

	autoIdx := make(map[string]int)
	for _, st := range staffs {
		if !st.AutoSchedule {
			continue
		}
		autoIdx[st.ID] = len(autoRoutes)
		autoRoutes = append(autoRoutes, StaffRoute{StaffID: st.ID, StaffName: st.Name})
	}

	manualIdx := make(map[string]int)
	staffName := func(id string) string {
		if st, ok := staffByID[id]; ok {
			return st.Name
		}
		return id
	}

	for i := range visits {
		v := &visits[i]
		day, ok := week.WeekdayOf(v.DateValue())
		if !ok {
			continue
		}
		entry := entryFromVisit(v, patients[v.PatientID])

		if v.IsManual {
			idx, ok := manualIdx[v.StaffID]
			if !ok {
				idx = len(manualRoutes)
				manualIdx[v.StaffID] = idx
				manualRoutes = append(manualRoutes, StaffRoute{StaffID: v.StaffID, StaffName: staffName(v.StaffID)})
			}
			manualRoutes[idx].Days[day] = append(manualRoutes[idx].Days[day], entry)
			continue
		}

		idx, ok := autoIdx[v.StaffID]
		if !ok {
			idx = len(autoRoutes)
			autoIdx[v.StaffID] = idx
			autoRoutes = append(autoRoutes, StaffRoute{StaffID: v.StaffID, StaffName: staffName(v.StaffID)})
		}
		autoRoutes[idx].Days[day] = append(autoRoutes[idx].Days[day], entry)
	}

	sortRoutes(autoRoutes)
	sortRoutes(manualRoutes)
	return autoRoutes, manualRoutes
}

func sortRoutes(routes []StaffRoute) {
	for i := range routes {
		for d := range routes[i].Days {
			sortDay(routes[i].Days[d])
		}
	}
}

// entryFromVisit 标签使用记录自身的日期、时间与患者姓名
func entryFromVisit(v *model.WeeklyVisit, p *model.Patient) VisitEntry {
	name := v.PatientID
	if p != nil {
		name = p.Name
	}
	marker := ""
	if !v.IsManual {
		marker = markerFor(p, v.StaffID)
	}
	e := VisitEntry{
		VisitID:     v.ID,
		StaffID:     v.StaffID,
		PatientID:   v.PatientID,
		PatientName: name,
		Date:        v.DateString(),
		Time:        v.Time,
		Duration:    v.Duration,
		Marker:      marker,
		Annotation:  DurationAnnotation(v.Duration),
		IsManual:    v.IsManual,
		Status:      v.Status,
	}
	e.relabel()
	return e
}

// ═══════════════════════════════════════════════════════════
// WeekSession：按 (用户, 周) 隔离的可编辑周视图
// ═══════════════════════════════════════════════════════════

// WeekSession 每次加载周视图时创建，切换周时丢弃
type WeekSession struct {
	OwnerID      string       `json:"owner_id"`
	WeekStart    string       `json:"week_start"`
	AutoRoutes   []StaffRoute `json:"auto_routes"`
	ManualRoutes []StaffRoute `json:"manual_routes"`
	LoadedAt     time.Time    `json:"loaded_at"`

	resolver *VisitIdentityResolver
}

// NewWeekSession 创建会话并建立标签映射
func NewWeekSession(ownerID string, week Week, autoRoutes, manualRoutes []StaffRoute, loadedAt time.Time) *WeekSession {
	s := &WeekSession{
		OwnerID:      ownerID,
		WeekStart:    week.String(),
		AutoRoutes:   autoRoutes,
		ManualRoutes: manualRoutes,
		LoadedAt:     loadedAt,
	}
	s.reindex()
	return s
}

// Entries 全部条目（自动区在前）
func (s *WeekSession) Entries() []VisitEntry {
	var out []VisitEntry
	for _, routes := range [][]StaffRoute{s.AutoRoutes, s.ManualRoutes} {
		for _, r := range routes {
			for _, d := range r.Days {
				out = append(out, d...)
			}
		}
	}
	return out
}

func (s *WeekSession) reindex() {
	s.resolver = NewVisitIdentityResolver(s.Entries())
}

// Resolver 反序列化后的会话按需重建映射
func (s *WeekSession) Resolver() *VisitIdentityResolver {
	if s.resolver == nil {
		s.reindex()
	}
	return s.resolver
}

// Resolve 定位操作目标
// 携带 visitID 时只校验其仍在当前视图中；否则按标签查找
func (s *WeekSession) Resolve(label, visitID string) (string, error) {
	r := s.Resolver()
	if visitID != "" {
		if !r.Has(visitID) {
			return "", ErrVisitIdentityUnresolved
		}
		return visitID, nil
	}
	if label == "" {
		return "", ErrVisitIdentityUnresolved
	}
	return r.Resolve(label)
}

// Find 按 ID 查找条目
func (s *WeekSession) Find(visitID string) (VisitEntry, bool) {
	for _, e := range s.Entries() {
		if e.VisitID == visitID {
			return e, true
		}
	}
	return VisitEntry{}, false
}

// Remove 从所在日的列表中移除条目
func (s *WeekSession) Remove(visitID string) (VisitEntry, bool) {
	for _, routes := range [][]StaffRoute{s.AutoRoutes, s.ManualRoutes} {
		for i := range routes {
			for d := range routes[i].Days {
				day := routes[i].Days[d]
				for j := range day {
					if day[j].VisitID != visitID {
						continue
					}
					removed := day[j]
					routes[i].Days[d] = append(day[:j:j], day[j+1:]...)
					s.reindex()
					return removed, true
				}
			}
		}
	}
	return VisitEntry{}, false
}

// Place 将条目放入指定分区施术者的某一天，施术者不在该分区时新建路线
func (s *WeekSession) Place(entry VisitEntry, staffName string, day Weekday) {
	routes := &s.AutoRoutes
	if entry.IsManual {
		routes = &s.ManualRoutes
	}
	idx := -1
	for i := range *routes {
		if (*routes)[i].StaffID == entry.StaffID {
			idx = i
			break
		}
	}
	if idx < 0 {
		*routes = append(*routes, StaffRoute{StaffID: entry.StaffID, StaffName: staffName})
		idx = len(*routes) - 1
	}
	r := &(*routes)[idx]
	r.Days[day] = append(r.Days[day], entry)
	sortDay(r.Days[day])
	s.reindex()
}

// SetStatus 更新条目状态
func (s *WeekSession) SetStatus(visitID, status string) bool {
	for _, routes := range [][]StaffRoute{s.AutoRoutes, s.ManualRoutes} {
		for i := range routes {
			for d := range routes[i].Days {
				for j := range routes[i].Days[d] {
					if routes[i].Days[d][j].VisitID == visitID {
						routes[i].Days[d][j].Status = status
						return true
					}
				}
			}
		}
	}
	return false
}
