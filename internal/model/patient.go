package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// 分配方式
const (
	AssignTypeAuto   = "auto"
	AssignTypeManual = "manual"
)

// Patient 患者表，对应 patients（外部档案维护，本服务只读）
type Patient struct {
	ID                  string         `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name                string         `gorm:"type:varchar(100);not null"                              json:"name"`
	PreferredSchedule   datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"                        json:"preferred_schedule"`
	TreatmentDuration   *int           `gorm:"column:treatment_duration"                               json:"treatment_duration,omitempty"`
	DifficultyLevel     *int           `gorm:"column:difficulty_level"                                 json:"difficulty_level,omitempty"`
	AssignType          string         `gorm:"type:varchar(10);not null;default:'auto'"                json:"assign_type"`
	LastAssignedStaffID *string        `gorm:"type:uuid"                                               json:"last_assigned_staff_id,omitempty"`
	CreatedAt           time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"                      json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"                      json:"updated_at"`
}

// TableName 指定表名
func (Patient) TableName() string { return "patients" }

// IsManual 是否为手动分配患者
func (p *Patient) IsManual() bool { return p.AssignType == AssignTypeManual }

// PreferredEntries 解码希望时间表
// 值保持原样（可能是字符串以外的类型），由调用方决定如何处理
func (p *Patient) PreferredEntries() (map[string]interface{}, error) {
	entries := map[string]interface{}{}
	if len(p.PreferredSchedule) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(p.PreferredSchedule, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
