package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidTime = errors.New("时间格式无效，应为 HH:MM")

// Interval 半开分钟区间 [Start, End)
type Interval struct {
	Start int
	End   int
}

// NewInterval 由开始时刻与时长构造区间
func NewInterval(start, minutes int) Interval {
	return Interval{Start: start, End: start + minutes}
}

// Overlaps [s1,e1) 与 [s2,e2) 重叠当且仅当 s1 < e2 且 s2 < e1
func (a Interval) Overlaps(b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// Occupancy 单次排班内的占用表：staffID → 星期 → 区间
type Occupancy map[string]map[Weekday][]Interval

// NewOccupancy 创建空占用表
func NewOccupancy() Occupancy {
	return make(Occupancy)
}

// Conflicts 判断候选区间是否与该施术者当日已占用区间重叠
func (o Occupancy) Conflicts(staffID string, day Weekday, iv Interval) bool {
	for _, held := range o[staffID][day] {
		if held.Overlaps(iv) {
			return true
		}
	}
	return false
}

// Reserve 登记占用区间
func (o Occupancy) Reserve(staffID string, day Weekday, iv Interval) {
	days, ok := o[staffID]
	if !ok {
		days = make(map[Weekday][]Interval)
		o[staffID] = days
	}
	days[day] = append(days[day], iv)
}

// Clone 深拷贝
func (o Occupancy) Clone() Occupancy {
	out := make(Occupancy, len(o))
	for staffID, days := range o {
		cp := make(map[Weekday][]Interval, len(days))
		for d, ivs := range days {
			cp[d] = append([]Interval(nil), ivs...)
		}
		out[staffID] = cp
	}
	return out
}

// ParseClock 解析 H:MM / HH:MM（允许带秒）为午夜起的分钟数
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, ErrInvalidTime
	}
	if len(parts[0]) == 0 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, ErrInvalidTime
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, ErrInvalidTime
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, ErrInvalidTime
	}
	if len(parts) == 3 {
		if sec, err := strconv.Atoi(parts[2]); err != nil || sec < 0 || sec > 59 {
			return 0, ErrInvalidTime
		}
	}
	return h*60 + m, nil
}

// FormatClock 分钟数 → HH:MM
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeClock 统一为 HH:MM
func NormalizeClock(s string) (string, error) {
	m, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return FormatClock(m), nil
}
