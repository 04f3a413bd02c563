package dto

// RegisterRequest is the payload for POST /account/v1/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,username_format"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=128,password_strength"`
	Role     string `json:"role" validate:"required,oneof=employer worker"`
	City     string `json:"city" validate:"max=64"`
}

// LoginRequest is the payload for POST /account/v1/login.
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

// ResetPasswordRequest is the payload for POST /account/v1/reset-password.
// Token and email arrive from the mailed link. No validate tags: every
// failure of this flow must render the same not-found state, and the
// password policy is enforced after the token is consumed so a rejected
// password still burns the token.
type ResetPasswordRequest struct {
	Token           string `json:"token"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}
