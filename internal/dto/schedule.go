package dto

import (
	"encoding/json"
	"fmt"

	"shiftboard/backend/pkg/clock"
)

// ── 排班模块 ──

// TimePoint 时间点（自午夜起的分钟数）。
// JSON 反序列化同时接受 "HH:MM" 字符串与整数分钟偏移两种写法。
type TimePoint int

// UnmarshalJSON 实现双格式解码
func (t *TimePoint) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		m, err := clock.Parse(s)
		if err != nil {
			return err
		}
		*t = TimePoint(m)
		return nil
	}

	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("时间点须为 \"HH:MM\" 字符串或分钟数: %w", err)
	}
	*t = TimePoint(n)
	return nil
}

// ReplaceScheduleRequest 排班替换请求。
// assigned_shifts 以星期符号为键，值为 [start, end] 时间对数组；
// 空对象表示清空该成员的全部排班，因此不能标 required。
// role / room_id 为该批次班次统一绑定的角色与房间，可为 null。
type ReplaceScheduleRequest struct {
	WorkerID       string                   `json:"worker_id" binding:"required,uuid"`
	RoleID         *string                  `json:"role" binding:"omitempty,uuid"`
	RoomID         *string                  `json:"room_id" binding:"omitempty,uuid"`
	AssignedShifts map[string][][]TimePoint `json:"assigned_shifts"`
}

// ReplaceScheduleResponse 排班替换响应（扁平契约，不走统一 data 包装）
type ReplaceScheduleResponse struct {
	Status  string `json:"status"`
	Created int    `json:"created"`
}

// ShiftResponse 班次信息
type ShiftResponse struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	UserName  string        `json:"user_name,omitempty"`
	Day       string        `json:"day"`
	StartTime string        `json:"start_time"` // "HH:MM"
	EndTime   string        `json:"end_time"`   // "HH:MM"
	Role      *RoleResponse `json:"role,omitempty"`
	Room      *RoomResponse `json:"room,omitempty"`
}

// ScheduleCheckResponse 时段容量探测响应
type ScheduleCheckResponse struct {
	RoomID    string `json:"room_id"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Occupancy int    `json:"occupancy"`
	Capacity  int    `json:"capacity"`
	Available bool   `json:"available"`
}
