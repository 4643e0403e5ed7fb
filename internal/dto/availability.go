package dto

// ── 空闲时间模块 ──

// AvailabilityEvent 单个时间块。
// day 为星期下标（0=sun … 6=sat），时间为分钟偏移。
type AvailabilityEvent struct {
	Day      int    `json:"day" binding:"min=0,max=6"`
	StartMin int    `json:"start_min" binding:"min=0,max=1439"`
	EndMin   int    `json:"end_min" binding:"min=1,max=1440"`
	Location string `json:"location" binding:"omitempty,max=100"`
	Name     string `json:"name" binding:"omitempty,max=100"`
}

// ReplaceAvailabilityRequest 空闲时间替换请求（整套替换）。
// events 为空数组表示清空，因此不能标 required。
// role_ids 可选，一并整套替换提交者在该团队的角色意愿。
type ReplaceAvailabilityRequest struct {
	Events  []AvailabilityEvent `json:"events"`
	RoleIDs []string            `json:"role_ids" binding:"omitempty,dive,uuid"`
}

// ReplaceAvailabilityResponse 空闲时间替换响应（扁平契约）
type ReplaceAvailabilityResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// AvailabilityRangeResponse 空闲时间条目
type AvailabilityRangeResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name,omitempty"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Location  string `json:"location,omitempty"`
	EventName string `json:"event_name,omitempty"`
}

// ImportAvailabilityICSRequest ICS 导入请求（URL 方式）
type ImportAvailabilityICSRequest struct {
	URL string `json:"url" binding:"omitempty,url"`
}

// ImportAvailabilityICSResponse ICS 导入响应
type ImportAvailabilityICSResponse struct {
	ImportedCount int                         `json:"imported_count"`
	Entries       []AvailabilityRangeResponse `json:"entries"`
}
