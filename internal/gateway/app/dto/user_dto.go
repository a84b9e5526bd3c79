package dto

// UpdateProfileRequest содержит изменяемые поля профиля.
type UpdateProfileRequest struct {
	Username *string `json:"username" validate:"omitnil,min=2,max=20"`
	Avatar   *string `json:"avatar" validate:"omitnil,max=255"`
}

// ChangePasswordRequest содержит данные для смены пароля.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

// UpdateRoleRequest содержит новую роль пользователя.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER ADMIN SUPER_ADMIN"`
}
