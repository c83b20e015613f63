package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// ── 逗号分隔的星期列表 ──

// WeekdayList 对应 staffs.working_days 文本列（如 "月,水,金"），实现 GORM Scanner/Valuer 接口。
type WeekdayList []string

// Scan 将 "月,水,金" 解析为 []string，忽略空白项。
func (l *WeekdayList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("WeekdayList.Scan: unsupported type %T", src)
	}
	parts := strings.Split(s, ",")
	out := make(WeekdayList, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	*l = out
	return nil
}

// Value 序列化为逗号分隔文本。
func (l WeekdayList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

// Contains 判断是否包含指定星期标签
func (l WeekdayList) Contains(day string) bool {
	for _, d := range l {
		if d == day {
			return true
		}
	}
	return false
}

// BaseModel 通用审计字段
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}
