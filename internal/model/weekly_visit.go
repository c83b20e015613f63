package model

import (
	"time"

	"gorm.io/datatypes"
)

// 访问状态
const (
	VisitStatusScheduled = "scheduled"
	VisitStatusCompleted = "completed"
	VisitStatusAbsent    = "absent"
)

// WeeklyVisit 周访问记录，对应 weekly_visits
// (patient_id, date, time) 为自然键，唯一性仅靠插入前查重保证
type WeeklyVisit struct {
	ID        string         `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StaffID   string         `gorm:"type:uuid;not null"                                      json:"staff_id"`
	PatientID string         `gorm:"type:uuid;not null;index:idx_weekly_visits_natural_key"  json:"patient_id"`
	Date      datatypes.Date `gorm:"type:date;not null;index:idx_weekly_visits_natural_key"  json:"date"`
	Time      string         `gorm:"type:varchar(5);not null;index:idx_weekly_visits_natural_key" json:"time"`
	IsManual  bool           `gorm:"not null;default:false"                                  json:"is_manual"`
	Duration  *int           `gorm:"column:duration"                                         json:"duration,omitempty"`
	Status    string         `gorm:"type:varchar(20);not null;default:'scheduled'"           json:"status"`
	BaseModel

	Staff   *Staff   `gorm:"foreignKey:StaffID;references:ID"   json:"staff,omitempty"`
	Patient *Patient `gorm:"foreignKey:PatientID;references:ID" json:"patient,omitempty"`
}

// TableName 指定表名
func (WeeklyVisit) TableName() string { return "weekly_visits" }

// DateValue 返回日期（UTC 零点）
func (v *WeeklyVisit) DateValue() time.Time {
	t := time.Time(v.Date)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateString 返回 YYYY-MM-DD
func (v *WeeklyVisit) DateString() string {
	return v.DateValue().Format("2006-01-02")
}

// IsValidVisitStatus 校验访问状态取值
func IsValidVisitStatus(s string) bool {
	switch s {
	case VisitStatusScheduled, VisitStatusCompleted, VisitStatusAbsent:
		return true
	}
	return false
}
