package service

import (
	"errors"
	"strings"
	"time"
)

// ── 周锚点 ──────────────────────────────────────────────────
//
// 一周固定从周一开始，与 time.Weekday 以周日为首无关。
// 所有日期均以 UTC 零点表示日历日，时区只在确定“今天”时使用。
// ─────────────────────────────────────────────────────────────

const dateLayout = "2006-01-02"

var ErrInvalidWeek = errors.New("周参数无效，应为 YYYY-MM-DD")

// Weekday 以周一为 0 的星期序号
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// weekdayLabels 希望时间表与出勤日使用的固定星期标签
var weekdayLabels = [7]string{"月", "火", "水", "木", "金", "土", "日"}

// AllWeekdays 周一到周日
var AllWeekdays = [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Label 返回星期标签
func (d Weekday) Label() string {
	if d < Monday || d > Sunday {
		return ""
	}
	return weekdayLabels[d]
}

// ParseWeekday 将星期标签解析为 Weekday
func ParseWeekday(label string) (Weekday, bool) {
	label = strings.TrimSpace(label)
	for i, l := range weekdayLabels {
		if l == label {
			return Weekday(i), true
		}
	}
	return 0, false
}

// mondayIndex 将 time.Weekday 转换为以周一为 0 的序号
func mondayIndex(wd time.Weekday) Weekday {
	return Weekday((int(wd) + 6) % 7)
}

// civilDate 截取 t 在 loc 下的日历日
func civilDate(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Week 以周一日期标识的一周
type Week struct {
	Start time.Time
}

// WeekOf 返回 ref 所在周（ref 按 loc 取日历日）
func WeekOf(ref time.Time, loc *time.Location) Week {
	d := civilDate(ref, loc)
	return Week{Start: d.AddDate(0, 0, -int(mondayIndex(d.Weekday())))}
}

// ParseWeek 解析 YYYY-MM-DD 为所在周；空串取 now 所在周
func ParseWeek(s string, now time.Time, loc *time.Location) (Week, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return WeekOf(now, loc), nil
	}
	d, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return Week{}, ErrInvalidWeek
	}
	return WeekOf(d, nil), nil
}

// End 返回周日
func (w Week) End() time.Time { return w.Start.AddDate(0, 0, 6) }

// Previous 上一周
func (w Week) Previous() Week { return Week{Start: w.Start.AddDate(0, 0, -7)} }

// DateOf 返回该周指定星期的日期
func (w Week) DateOf(d Weekday) time.Time { return w.Start.AddDate(0, 0, int(d)) }

// Dates 返回周一到周日 7 个日期
func (w Week) Dates() [7]time.Time {
	var out [7]time.Time
	for i := range out {
		out[i] = w.Start.AddDate(0, 0, i)
	}
	return out
}

// WeekdayOf 返回日期在该周中的星期；不在本周时 ok=false
func (w Week) WeekdayOf(date time.Time) (Weekday, bool) {
	d := civilDate(date, nil)
	days := int(d.Sub(w.Start).Hours() / 24)
	if d.Before(w.Start) || days > 6 {
		return 0, false
	}
	return Weekday(days), true
}

// String 返回周一日期 YYYY-MM-DD
func (w Week) String() string { return w.Start.Format(dateLayout) }
