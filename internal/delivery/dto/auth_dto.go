package dto

type AdminLoginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// LoginRequest is shared by doctor and patient login.
type LoginRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type SelectRoleRequest struct {
	Role string `validate:"required,oneof=patient"`
}

type RootView struct {
	Notice *Notice
}
