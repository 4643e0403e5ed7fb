package dto

// ── 团队模块 ──

// CreateTeamRequest 创建团队请求
type CreateTeamRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// JoinTeamRequest 加入团队请求
type JoinTeamRequest struct {
	Code string `json:"code" binding:"required,max=50"`
}

// TeamResponse 团队信息
// JoinCode 仅对负责人返回
type TeamResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	OwnerID     string `json:"owner_id"`
	JoinCode    string `json:"join_code,omitempty"`
	MemberCount int    `json:"member_count,omitempty"`
}

// JoinTeamResponse 加入团队响应。
// 无效 code 时静默 no-op：Team 为空但仍返回 success，
// 避免泄露 code 是否存在。
type JoinTeamResponse struct {
	Team *TeamResponse `json:"team,omitempty"`
}

// TeamMemberResponse 团队成员信息
type TeamMemberResponse struct {
	UserID       string        `json:"user_id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	IsOwner      bool          `json:"is_owner"`
	AssignedRole *RoleResponse `json:"assigned_role,omitempty"`
	Preferences  []RoleResponse `json:"preferences,omitempty"`
}
