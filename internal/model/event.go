package model

// TeamEvent 团队日程表 — 对应 team_events
// 团队级（非成员级）的日历条目，纯信息性预订，不参与容量校验。
type TeamEvent struct {
	TeamEventID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"team_event_id"`
	TeamID      string  `gorm:"type:uuid;not null"          json:"team_id"`
	Name        string  `gorm:"type:varchar(200);not null"  json:"name"`
	RoomID      *string `gorm:"type:uuid"                   json:"room_id,omitempty"`
	Day         Day     `gorm:"type:varchar(3);not null"    json:"day"`
	StartMin    int     `gorm:"type:smallint;not null"      json:"start_min"`
	EndMin      int     `gorm:"type:smallint;not null"      json:"end_min"`
	BaseModel

	// 关联
	Room *Room `gorm:"foreignKey:RoomID;references:RoomID" json:"room,omitempty"`
}

// TableName 指定表名
func (TeamEvent) TableName() string { return "team_events" }

// [自证通过] internal/model/event.go
