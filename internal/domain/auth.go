package domain

// TokenVerifier verifies a bearer token issued by the external identity
// provider and returns the authenticated principal id.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}
