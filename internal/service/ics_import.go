package service

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"shiftboard/backend/internal/model"
)

// ── ICS 导入业务错误 ──

var (
	ErrICSFetch = errors.New("拉取远端日历失败")
	ErrICSParse = errors.New("日历内容解析失败")
)

// ── ICS 解析器 ──────────────────────────────────────────────
//
// 职责：将标准 iCalendar (RFC 5545) 内容解析为成员空闲时段列表。
//
// 设计决策：
//   - DTSTART/DTEND 确定星期几与当日时刻；排班按周循环，
//     日期本身丢弃，只保留 weekday
//   - 同 (day, start, end, name) 的重复事件（周重复 RRULE 展开
//     或多个单次事件）合并为一条
//   - 无 SUMMARY 的事件跳过
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize  = 5 * 1024 * 1024 // 5MB
	icsFetchTimeout = 30 * time.Second
)

// parsedAvailabilityEvent ICS 解析中间结构
type parsedAvailabilityEvent struct {
	Name      string
	Location  string
	Day       model.Day
	StartTime string
	EndTime   string
}

// FetchICSContent 从 URL 获取 ICS 内容
func FetchICSContent(rawURL string) (io.ReadCloser, error) {
	// webcal:// → https://
	u := rawURL
	if strings.HasPrefix(u, "webcal://") {
		u = "https://" + strings.TrimPrefix(u, "webcal://")
	}

	client := &http.Client{Timeout: icsFetchTimeout}
	resp, err := client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrICSFetch, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: HTTP %d", ErrICSFetch, resp.StatusCode)
	}
	// 限制响应体大小，防止恶意 URL 返回超大内容导致 OOM
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: io.LimitReader(resp.Body, icsMaxFileSize),
		Closer: resp.Body,
	}, nil
}

// ParseICS 解析 ICS 内容并转为 AvailabilityRange 列表
func ParseICS(reader io.Reader, userID, teamID string) ([]model.AvailabilityRange, error) {
	cal, err := ics.ParseCalendar(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrICSParse, err)
	}

	var events []parsedAvailabilityEvent
	for _, comp := range cal.Events() {
		evt, ok := parseVEvent(comp)
		if !ok {
			continue
		}
		events = append(events, evt)
	}

	merged := mergeEvents(events)

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Day != merged[j].Day {
			return merged[i].Day.Index() < merged[j].Day.Index()
		}
		return merged[i].StartTime < merged[j].StartTime
	})

	result := make([]model.AvailabilityRange, 0, len(merged))
	for _, evt := range merged {
		result = append(result, model.AvailabilityRange{
			UserID:    userID,
			TeamID:    teamID,
			Day:       evt.Day,
			StartTime: evt.StartTime,
			EndTime:   evt.EndTime,
			Location:  evt.Location,
			EventName: evt.Name,
		})
	}
	return result, nil
}

// parseVEvent 解析单个 VEVENT 组件
func parseVEvent(evt *ics.VEvent) (parsedAvailabilityEvent, bool) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return parsedAvailabilityEvent{}, false
	}
	name := strings.TrimSpace(summary.Value)

	location := ""
	if prop := evt.GetProperty(ics.ComponentPropertyLocation); prop != nil {
		location = strings.TrimSpace(prop.Value)
	}

	dtStart, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart)
	if err != nil {
		return parsedAvailabilityEvent{}, false
	}
	dtEnd, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd)
	if err != nil {
		return parsedAvailabilityEvent{}, false
	}
	if !dtEnd.After(dtStart) {
		return parsedAvailabilityEvent{}, false
	}

	day, err := model.DayFromIndex(int(dtStart.Weekday()))
	if err != nil {
		return parsedAvailabilityEvent{}, false
	}

	return parsedAvailabilityEvent{
		Name:      name,
		Location:  location,
		Day:       day,
		StartTime: dtStart.Format("15:04"),
		EndTime:   dtEnd.Format("15:04"),
	}, true
}

// mergeEvents 合并同 (day, start, end, name) 的事件
func mergeEvents(events []parsedAvailabilityEvent) []parsedAvailabilityEvent {
	type key struct {
		Name      string
		Day       model.Day
		StartTime string
		EndTime   string
	}
	seen := make(map[key]bool, len(events))
	result := make([]parsedAvailabilityEvent, 0, len(events))
	for _, e := range events {
		k := key{Name: e.Name, Day: e.Day, StartTime: e.StartTime, EndTime: e.EndTime}
		if seen[k] {
			continue
		}
		seen[k] = true
		result = append(result, e)
	}
	return result
}

// parseICSDateTime 从 VEVENT 中解析日期时间属性
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	// 尝试多种 ICS 日期格式
	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}

	// 检查 TZID 参数
	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range formats {
		if t, err := time.Parse(layout, val); err == nil {
			if tzid != "" {
				if tzLoc, err := time.LoadLocation(tzid); err == nil {
					return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc), nil
				}
			}
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
}
