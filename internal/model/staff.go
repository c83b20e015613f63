package model

import "time"

// Staff 施术者表，对应 staffs（外部档案维护，本服务只读）
type Staff struct {
	ID           string      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name         string      `gorm:"type:varchar(100);not null"                              json:"name"`
	SkillLevel   *int        `gorm:"column:skill_level"                                      json:"skill_level,omitempty"`
	WorkingDays  WeekdayList `gorm:"type:text;not null;default:''"                           json:"working_days"`
	AutoSchedule bool        `gorm:"not null;default:true"                                   json:"auto_schedule"`
	CreatedAt    time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP"                      json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP"                      json:"updated_at"`
}

// TableName 指定表名
func (Staff) TableName() string { return "staffs" }
