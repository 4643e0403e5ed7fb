package dto

// ── 团队日程模块 ──

// CreateTeamEventRequest 创建团队日程请求
type CreateTeamEventRequest struct {
	Name     string  `json:"name" binding:"required,max=200"`
	RoomID   *string `json:"room_id" binding:"omitempty,uuid"`
	Day      string  `json:"day" binding:"required"`
	StartMin int     `json:"start_min" binding:"min=0,max=1439"`
	EndMin   int     `json:"end_min" binding:"min=1,max=1440"`
}

// TeamEventResponse 团队日程信息
type TeamEventResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Day       string        `json:"day"`
	StartTime string        `json:"start_time"`
	EndTime   string        `json:"end_time"`
	Room      *RoomResponse `json:"room,omitempty"`
}
