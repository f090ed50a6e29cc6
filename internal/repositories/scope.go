package repositories

// Scope states explicitly whose records a query touches: one user's, or all
// users' (scheduler sweeps). There is no ambient current-user state; every
// repository query takes a Scope, so scheduler code opts out of user
// filtering by saying ScopeAllUsers rather than by omission.
type Scope struct {
	all    bool
	userID int
}

// ScopeUser restricts queries to records owned by the given user.
func ScopeUser(userID int) Scope {
	return Scope{userID: userID}
}

// ScopeAllUsers removes the ownership filter. Only the background sweeps
// use this.
func ScopeAllUsers() Scope {
	return Scope{all: true}
}

// IsAll reports whether the scope spans all users.
func (s Scope) IsAll() bool {
	return s.all
}

// UserID returns the scoped user id (0 for all-users scopes).
func (s Scope) UserID() int {
	if s.all {
		return 0
	}
	return s.userID
}

// and returns an AND clause on the given column plus its arguments, or
// nothing for all-users scopes.
func (s Scope) and(column string) (string, []any) {
	if s.all {
		return "", nil
	}
	return " AND " + column + " = ?", []any{s.userID}
}
