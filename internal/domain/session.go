package domain

// Session holds the identity of one anonymous feed user
type Session struct {
	DisplayName string
	AuthToken   string
	UserID      ID
}

// Authenticate stores the login result. It may only succeed once per session.
func (s *Session) Authenticate(token string, userID ID) error {
	if s.Authenticated() {
		return ErrAlreadyAuthenticated
	}
	s.AuthToken = token
	s.UserID = userID
	return nil
}

// Authenticated reports whether a login has completed
func (s Session) Authenticated() bool {
	return s.AuthToken != "" && s.UserID != ""
}
