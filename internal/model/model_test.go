package model

import (
	"testing"
	"time"

	"gorm.io/datatypes"
)

func TestWeekdayList_Scan(t *testing.T) {
	var l WeekdayList
	if err := l.Scan([]byte("月, 水,,金 ")); err != nil {
		t.Fatalf("Scan 失败: %v", err)
	}
	if len(l) != 3 || l[0] != "月" || l[1] != "水" || l[2] != "金" {
		t.Errorf("期望 [月 水 金]，实际: %v", l)
	}
	if !l.Contains("水") || l.Contains("火") {
		t.Errorf("Contains 结果不符: %v", l)
	}

	if err := l.Scan(42); err == nil {
		t.Error("期望不支持的类型返回错误")
	}
}

func TestWeekdayList_Value(t *testing.T) {
	v, err := WeekdayList{"月", "木"}.Value()
	if err != nil {
		t.Fatalf("Value 失败: %v", err)
	}
	if v != "月,木" {
		t.Errorf("期望 月,木，实际: %v", v)
	}
}

func TestPatient_PreferredEntries(t *testing.T) {
	p := Patient{PreferredSchedule: datatypes.JSON(`{"月":"09:00","火":null,"水":930}`)}
	entries, err := p.PreferredEntries()
	if err != nil {
		t.Fatalf("PreferredEntries 失败: %v", err)
	}
	if entries["月"] != "09:00" {
		t.Errorf("期望 月=09:00，实际: %v", entries["月"])
	}
	if _, ok := entries["水"].(float64); !ok {
		t.Errorf("数字值应保持原类型，实际: %T", entries["水"])
	}

	empty := Patient{}
	entries, err = empty.PreferredEntries()
	if err != nil || len(entries) != 0 {
		t.Errorf("空希望时间表应返回空 map，实际: %v, %v", entries, err)
	}
}

func TestWeeklyVisit_DateString(t *testing.T) {
	v := WeeklyVisit{Date: datatypes.Date(time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC))}
	if got := v.DateString(); got != "2025-05-05" {
		t.Errorf("期望 2025-05-05，实际: %s", got)
	}
	if !IsValidVisitStatus("absent") || IsValidVisitStatus("cancelled") {
		t.Error("状态校验结果不符")
	}
}
