package service

import (
	"fmt"
	"strings"

	"clinic-route/internal/model"
)

// 访问标记：★ 为上次担当者，① 为其他施术者；手动登记的访问不带标记
const (
	MarkerPriority = "★"
	MarkerDefault  = "①"
)

// annotationOpen 附注以全角括号开头，如 "（30分）"
const annotationOpen = "（"

// VisitEntry 周视图中的一条访问
// VisitID 为空表示尚未写入（排班预览）
type VisitEntry struct {
	VisitID     string `json:"visit_id,omitempty"`
	StaffID     string `json:"staff_id"`
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Duration    *int   `json:"duration,omitempty"`
	Marker      string `json:"marker,omitempty"`
	Annotation  string `json:"annotation,omitempty"`
	IsManual    bool   `json:"is_manual"`
	Status      string `json:"status,omitempty"`
	Label       string `json:"label"`
}

// FormatVisitLabel {marker}{patientName} {date} {time}{annotation}
func FormatVisitLabel(marker, patientName, date, hhmm, annotation string) string {
	return marker + patientName + " " + date + " " + hhmm + annotation
}

// DurationAnnotation 时长附注，时长缺失时为空
func DurationAnnotation(minutes *int) string {
	if minutes == nil || *minutes <= 0 {
		return ""
	}
	return fmt.Sprintf("（%d分）", *minutes)
}

// markerFor 目标施术者等于上次担当者时为 ★
func markerFor(p *model.Patient, staffID string) string {
	if p != nil && p.LastAssignedStaffID != nil && *p.LastAssignedStaffID == staffID {
		return MarkerPriority
	}
	return MarkerDefault
}

// relabel 按当前字段重新生成显示标签
func (e *VisitEntry) relabel() {
	e.Label = FormatVisitLabel(e.Marker, e.PatientName, e.Date, e.Time, e.Annotation)
}

// coreLabel 去掉标记与附注后的标签主体：{patientName} {date} {time}
func coreLabel(label string) string {
	s := strings.TrimSpace(label)
	s = strings.TrimPrefix(s, MarkerPriority)
	s = strings.TrimPrefix(s, MarkerDefault)
	if i := strings.Index(s, annotationOpen); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
