package service

import "testing"

func TestInterval_Overlaps(t *testing.T) {
	cases := []struct {
		a, b Interval
		want bool
	}{
		{Interval{540, 570}, Interval{555, 575}, true},  // 09:00-09:30 vs 09:15-09:35
		{Interval{540, 570}, Interval{570, 600}, false}, // 首尾相接不算重叠
		{Interval{570, 600}, Interval{540, 570}, false},
		{Interval{540, 600}, Interval{550, 560}, true}, // 包含
		{Interval{540, 570}, Interval{480, 540}, false},
	}
	for _, c := range cases {
		if got := c.a.Overlaps(c.b); got != c.want {
			t.Errorf("%v.Overlaps(%v) = %v，期望 %v", c.a, c.b, got, c.want)
		}
		if got := c.b.Overlaps(c.a); got != c.want {
			t.Errorf("重叠判断应对称: %v vs %v", c.b, c.a)
		}
	}
}

func TestOccupancy(t *testing.T) {
	o := NewOccupancy()
	o.Reserve("s1", Monday, Interval{540, 570})

	if !o.Conflicts("s1", Monday, Interval{555, 575}) {
		t.Error("期望同日重叠冲突")
	}
	if o.Conflicts("s1", Tuesday, Interval{555, 575}) {
		t.Error("不同日不应冲突")
	}
	if o.Conflicts("s2", Monday, Interval{555, 575}) {
		t.Error("不同施术者不应冲突")
	}

	cp := o.Clone()
	cp.Reserve("s1", Monday, Interval{600, 630})
	if o.Conflicts("s1", Monday, Interval{600, 630}) {
		t.Error("Clone 后修改不应影响原占用表")
	}
}

func TestParseClock(t *testing.T) {
	ok := map[string]int{
		"09:00":    540,
		"9:05":     545,
		"23:59":    1439,
		"00:00":    0,
		"14:30:00": 870,
	}
	for in, want := range ok {
		got, err := ParseClock(in)
		if err != nil || got != want {
			t.Errorf("ParseClock(%q) = %d, %v，期望 %d", in, got, err, want)
		}
	}
	for _, bad := range []string{"", "0900", "9", "24:00", "12:60", "ab:cd", "1:5", "123:00"} {
		if _, err := ParseClock(bad); err != ErrInvalidTime {
			t.Errorf("ParseClock(%q) 期望 ErrInvalidTime，实际 %v", bad, err)
		}
	}
}

func TestNormalizeClock(t *testing.T) {
	got, err := NormalizeClock("9:00")
	if err != nil || got != "09:00" {
		t.Errorf("期望 09:00，实际 %s %v", got, err)
	}
	if FormatClock(605) != "10:05" {
		t.Errorf("FormatClock(605) = %s", FormatClock(605))
	}
}
