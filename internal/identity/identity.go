// Package identity abstracts the sign-in collaborator. The core depends only
// on the current user id to scope store queries; everything else about
// authentication lives behind Provider.
package identity

import "taskdeck/internal/domain"

// Provider supplies the signed-in user once available and notifies
// subscribers whenever auth state changes (signed in, signed out).
type Provider interface {
	// Current returns the signed-in user, or ok=false when signed out.
	Current() (domain.User, bool)
	// Subscribe registers a callback invoked on every auth state change.
	// The returned function unsubscribes.
	Subscribe(fn func(u domain.User, signedIn bool)) (unsubscribe func())
}

// Static is a fixed-identity provider for local and test use.
type Static struct {
	User domain.User
}

func (s Static) Current() (domain.User, bool) {
	return s.User, s.User.ID != ""
}

func (s Static) Subscribe(fn func(domain.User, bool)) func() {
	fn(s.User, s.User.ID != "")
	return func() {}
}
