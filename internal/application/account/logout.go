package account

import "context"

// Logout destroys the session unconditionally. A missing or already-revoked
// session is a no-op; the authorization boundary handles "not authenticated".
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, sessionID)
}
