// Package gate decides what a page shows for a given auth state and access policy.
package gate

import "context"

// Well-known organisation roles.
const (
	AdminRole  = "org:admin"
	MemberRole = "org:member"
)

// Principal is the signed-in user as seen by page gating.
type Principal struct {
	ID    string
	Email string
	Name  string
}

// State is the resolved identity for one request. Loaded is false until the
// identity provider has answered.
type State struct {
	Loaded bool
	User   *Principal
	Role   string
}

// SignedIn reports whether a user is present.
func (s State) SignedIn() bool {
	return s.Loaded && s.User != nil
}

// IsAdmin reports whether the current role is the administrator role.
func (s State) IsAdmin() bool {
	return s.SignedIn() && s.Role == AdminRole
}

// Policy describes the access requirement of a page. An empty RequiredRole
// only requires a signed-in user. Public pages skip the user check entirely.
type Policy struct {
	Public       bool
	RequiredRole string
}

// Decision is what a gated page renders.
type Decision int

const (
	DecisionLoading Decision = iota
	DecisionSignIn
	DecisionDenied
	DecisionContent
)

func (d Decision) String() string {
	switch d {
	case DecisionSignIn:
		return "sign_in"
	case DecisionDenied:
		return "denied"
	case DecisionContent:
		return "content"
	default:
		return "loading"
	}
}

// Evaluate is total over its inputs. DecisionDenied is returned for any role other
// than the required one, including a missing role.
func Evaluate(st State, p Policy) Decision {
	if !st.Loaded {
		return DecisionLoading
	}
	if p.Public {
		return DecisionContent
	}
	if st.User == nil {
		return DecisionSignIn
	}
	if p.RequiredRole != "" && st.Role != p.RequiredRole {
		return DecisionDenied
	}
	return DecisionContent
}

// Messages shown for non-content decisions.
const (
	SignInMessage     = "You need to sign in to access this page"
	DeniedTitle       = "Restricted Access"
	DeniedMessage     = "This page is for administrators only. Please contact your admin if you believe this is an error."
	LoadingMessage    = "Loading..."
	SignInButtonLabel = "Sign In"
)

type stateContextKey struct{}

// ContextWithState stores the resolved identity in ctx.
func ContextWithState(ctx context.Context, st State) context.Context {
	return context.WithValue(ctx, stateContextKey{}, st)
}

// StateFromContext returns the identity stored in ctx. A missing value is
// reported as not loaded.
func StateFromContext(ctx context.Context) State {
	st, _ := ctx.Value(stateContextKey{}).(State)
	return st
}
