package domain

// DefaultProfilePhotoURL is assigned to every account at registration.
const DefaultProfilePhotoURL = "https://mdbcdn.b-cdn.net/img/Photos/new-templates/bootstrap-profiles/avatar-1.webp"

type User struct {
	ID             string
	Username       string
	Email          string
	PasswordHash   string
	Role           string
	City           string
	PhotoURL       string
	EmailConfirmed bool
	Locked         bool
}
