package clock

import "fmt"

// ── 分钟制时间工具 ──────────────────────────────────────────
//
// 全部排班运算以"当日 0 点起的分钟数"(0-1439) 为原子单位。
// 区间一律为半开区间 [start, end)：共享边界不算重叠。
// 区间不允许跨午夜（end ≤ start 直接判定非法，不做回绕）。

// MinutesPerDay 一天的总分钟数
const MinutesPerDay = 24 * 60

// Format 将分钟数格式化为 "HH:MM"（两位零填充）
// Format(90) == "01:30"，Format(0) == "00:00"
func Format(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Parse 将 "HH:MM" 解析为分钟数
func Parse(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("时间格式无效 %q，应为 HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("时间超出范围 %q", s)
	}
	return h*60 + m, nil
}

// ValidInterval 校验 0 ≤ start < end ≤ 1440
func ValidInterval(start, end int) bool {
	return start >= 0 && start < end && end <= MinutesPerDay
}

// Overlaps 判断两个半开区间 [aStart,aEnd) 与 [bStart,bEnd) 是否重叠。
// 边界相接（一个 10:00 结束、另一个 10:00 开始）不算重叠。
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}
