package service

import (
	"testing"
	"time"
)

func TestWeekOf_AlwaysMonday(t *testing.T) {
	// 2025-05-05 为周一，遍历 5/5 ~ 5/11 以及跨月、跨年的日期
	cases := []struct {
		ref  time.Time
		want string
	}{
		{ymd(2025, 5, 5), "2025-05-05"},
		{ymd(2025, 5, 7), "2025-05-05"},
		{ymd(2025, 5, 10), "2025-05-05"},
		{ymd(2025, 5, 11), "2025-05-05"}, // 周日属于前一个周一
		{ymd(2025, 5, 12), "2025-05-12"},
		{ymd(2025, 6, 1), "2025-05-26"},
		{ymd(2026, 1, 1), "2025-12-29"},
	}
	for _, c := range cases {
		w := WeekOf(c.ref, nil)
		if w.String() != c.want {
			t.Errorf("WeekOf(%s) = %s，期望 %s", c.ref.Format(dateLayout), w.String(), c.want)
		}
		if w.Start.Weekday() != time.Monday {
			t.Errorf("WeekOf(%s) 起点不是周一: %s", c.ref.Format(dateLayout), w.Start.Weekday())
		}
	}
}

func TestWeekOf_UsesLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("缺少时区数据: %v", err)
	}
	// UTC 周日 20:00 = 东京周一 05:00
	ref := time.Date(2025, 5, 11, 20, 0, 0, 0, time.UTC)
	if got := WeekOf(ref, tokyo).String(); got != "2025-05-12" {
		t.Errorf("期望东京时区下为 2025-05-12，实际 %s", got)
	}
	if got := WeekOf(ref, time.UTC).String(); got != "2025-05-05" {
		t.Errorf("期望 UTC 下为 2025-05-05，实际 %s", got)
	}
}

func TestWeek_DatesAndWeekdayOf(t *testing.T) {
	w := WeekOf(ymd(2025, 5, 8), nil)
	dates := w.Dates()
	if dates[Monday].Format(dateLayout) != "2025-05-05" || dates[Sunday].Format(dateLayout) != "2025-05-11" {
		t.Errorf("日期范围不符: %v ~ %v", dates[Monday], dates[Sunday])
	}
	if w.DateOf(Wednesday).Format(dateLayout) != "2025-05-07" {
		t.Errorf("水曜日期不符: %v", w.DateOf(Wednesday))
	}
	if d, ok := w.WeekdayOf(ymd(2025, 5, 11)); !ok || d != Sunday {
		t.Errorf("期望 5/11 为日曜，实际 %v %v", d, ok)
	}
	if _, ok := w.WeekdayOf(ymd(2025, 5, 12)); ok {
		t.Error("5/12 不应属于本周")
	}
	if _, ok := w.WeekdayOf(ymd(2025, 5, 4)); ok {
		t.Error("5/4 不应属于本周")
	}
	if w.Previous().String() != "2025-04-28" {
		t.Errorf("上一周期望 2025-04-28，实际 %s", w.Previous().String())
	}
}

func TestParseWeek(t *testing.T) {
	now := time.Date(2025, 5, 8, 12, 0, 0, 0, time.UTC)

	w, err := ParseWeek("", now, time.UTC)
	if err != nil || w.String() != "2025-05-05" {
		t.Errorf("空参数期望本周 2025-05-05，实际 %s %v", w.String(), err)
	}
	w, err = ParseWeek("2025-05-14", now, time.UTC)
	if err != nil || w.String() != "2025-05-12" {
		t.Errorf("期望 2025-05-12，实际 %s %v", w.String(), err)
	}
	if _, err := ParseWeek("2025/05/14", now, time.UTC); err != ErrInvalidWeek {
		t.Errorf("期望 ErrInvalidWeek，实际 %v", err)
	}
}

func TestParseWeekday(t *testing.T) {
	for i, l := range []string{"月", "火", "水", "木", "金", "土", "日"} {
		d, ok := ParseWeekday(l)
		if !ok || int(d) != i || d.Label() != l {
			t.Errorf("ParseWeekday(%s) = %v %v", l, d, ok)
		}
	}
	if _, ok := ParseWeekday("Mon"); ok {
		t.Error("非固定标签不应解析成功")
	}
}
