package dto

// ── 房间模块 ──

// CreateRoomRequest 创建房间请求
type CreateRoomRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Capacity int    `json:"capacity" binding:"omitempty,min=1"`
}

// UpdateRoomRequest 更新房间请求
type UpdateRoomRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Capacity *int    `json:"capacity" binding:"omitempty,min=1"`
}

// RoomResponse 房间信息
type RoomResponse struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Capacity int                    `json:"capacity"`
	OpenHours []RoomAvailabilitySlot `json:"open_hours,omitempty"`
}

// RoomAvailabilitySlot 房间开放时段
type RoomAvailabilitySlot struct {
	Day      int `json:"day" binding:"min=0,max=6"`
	StartMin int `json:"start_min" binding:"min=0,max=1439"`
	EndMin   int `json:"end_min" binding:"min=1,max=1440"`
}

// ReplaceRoomOpenHoursRequest 替换房间开放时段请求（整套替换）
type ReplaceRoomOpenHoursRequest struct {
	Slots []RoomAvailabilitySlot `json:"slots" binding:"required"`
}
