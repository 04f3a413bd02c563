package dto

import "github.com/iusta/account-service/internal/domain"

// SuccessView is the subject/detail pair shown after flow completion
// (registration, forgot-password, reset-password).
type SuccessView struct {
	Subject string `json:"subject"`
	Detail  string `json:"detail"`
}

// UserView is the public projection of an account. Password material never
// leaves the service.
type UserView struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	City           string `json:"city,omitempty"`
	PhotoURL       string `json:"photo_url,omitempty"`
	EmailConfirmed bool   `json:"email_confirmed"`
}

// LoginData carries the session outcome plus a bearer token for API clients.
type LoginData struct {
	User        UserView `json:"user"`
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	RedirectTo  string   `json:"redirect_to"`
}

// ResetFormView is the pre-filled state for the reset-password form.
type ResetFormView struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

func NewUserView(u domain.User) UserView {
	return UserView{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Role:           u.Role,
		City:           u.City,
		PhotoURL:       u.PhotoURL,
		EmailConfirmed: u.EmailConfirmed,
	}
}
