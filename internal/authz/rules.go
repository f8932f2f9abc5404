// Package authz holds the pure access-control rules. Each function takes the
// session's username ("" when anonymous) and a target; denial is the default
// for anonymous sessions.
package authz

// CanViewProfile reports whether sessionUser may view target's profile and
// feedback. Any authenticated user may view any profile; this mirrors the
// product's observed behavior, not an ownership check.
func CanViewProfile(sessionUser, target string) bool {
	_ = target
	return sessionUser != ""
}

// CanDeleteUser reports whether sessionUser may delete the target account.
func CanDeleteUser(sessionUser, target string) bool {
	return sessionUser != "" && sessionUser == target
}

// CanCreateFeedback reports whether sessionUser may author feedback under
// target's account.
func CanCreateFeedback(sessionUser, target string) bool {
	return sessionUser != "" && sessionUser == target
}

// CanModifyFeedback reports whether sessionUser may edit or delete feedback
// owned by owner.
func CanModifyFeedback(sessionUser, owner string) bool {
	return sessionUser != "" && sessionUser == owner
}
