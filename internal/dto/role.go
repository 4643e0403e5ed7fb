package dto

// ── 角色模块 ──

// CreateRoleRequest 创建角色请求
type CreateRoleRequest struct {
	Name  string `json:"name" binding:"required,max=50"`
	Color string `json:"color" binding:"omitempty,max=20"`
}

// AssignRoleRequest 指派角色请求（replace-on-write）
// RoleID 为 null 时仅清除现有指派
type AssignRoleRequest struct {
	UserID string  `json:"user_id" binding:"required,uuid"`
	RoleID *string `json:"role_id" binding:"omitempty,uuid"`
}

// RoleResponse 角色信息
type RoleResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}
