package storefront

// AuthState holds the current session, if any.
type AuthState struct {
	Session *Session
}

// Authenticated reports whether a session is present.
func (s AuthState) Authenticated() bool { return s.Session != nil }

// Token is the bearer token of the session, or "".
func (s AuthState) Token() string {
	if s.Session == nil {
		return ""
	}
	return s.Session.Token
}

// Auth actions.
type (
	LoggedIn  struct{ Session Session }
	LoggedOut struct{}
)

// AuthReducer is the reducer of the auth store.
func AuthReducer(s AuthState, a Action) AuthState {
	switch a := a.(type) {
	case LoggedIn:
		session := a.Session
		return AuthState{Session: &session}
	case LoggedOut:
		return AuthState{}
	}
	return s
}

// Area is a part of the storefront that needs a session.
type Area int

const (
	AreaProfile Area = iota
	AreaOrders
	AreaCheckout
	AreaAdmin
)

func (a Area) String() string {
	switch a {
	case AreaProfile:
		return "profile"
	case AreaOrders:
		return "orders"
	case AreaCheckout:
		return "checkout"
	case AreaAdmin:
		return "admin"
	}
	return "unknown"
}

// Authorize reports whether the session may enter area. A missing session yields an
// error matching ErrLoginRequired; a non-admin session entering AreaAdmin yields
// ErrAdminRequired.
func (s AuthState) Authorize(area Area) error {
	if s.Session == nil {
		switch area {
		case AreaCheckout:
			return loginRequired("Please login to checkout")
		default:
			return loginRequired("Please login to continue")
		}
	}
	if area == AreaAdmin && !s.Session.User.IsAdmin {
		return ErrAdminRequired
	}
	return nil
}
