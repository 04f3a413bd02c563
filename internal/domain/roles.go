package domain

type Role string

const (
	// Employer accounts post work and route to the employer area after login.
	RoleEmployer Role = "employer"
	// Worker accounts take work and route to the worker area after login.
	RoleWorker Role = "worker"
)

func IsValidRole(r string) bool {
	return r == string(RoleEmployer) || r == string(RoleWorker)
}

// LandingPath maps an account role to its post-login redirect target.
// Employer routes to the employer area; everything else falls back to the
// worker area.
func LandingPath(role string) string {
	if role == string(RoleEmployer) {
		return "/employer"
	}
	return "/worker"
}
