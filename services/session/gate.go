package session

import (
	"strings"

	"memberportal/models"
)

// State is the position of a visitor in the navigation shell.
type State string

const (
	StateAnonymous               State = "anonymous"
	StateAuthenticating          State = "authenticating"
	StateAuthenticatedIncomplete State = "authenticated-incomplete"
	StateAuthenticatedComplete   State = "authenticated-complete"
	StateAdmin                   State = "admin"
)

// GateEvent drives Transition.
type GateEvent string

const (
	EventCredentialsSubmitted GateEvent = "credentials-submitted"
	EventSessionEstablished   GateEvent = "session-established"
	EventProfileCompleted     GateEvent = "profile-completed"
	EventSignedOut            GateEvent = "signed-out"
	EventEnterAdmin           GateEvent = "enter-admin"
	EventLeaveAdmin           GateEvent = "leave-admin"
)

// Page paths of the shell.
const (
	PathLanding         = "/"
	PathSignIn          = "/signin"
	PathSignUp          = "/signup"
	PathCompleteProfile = "/complete-profile"
	PathHome            = "/home"
	PathPrograms        = "/programs"
	PathEvents          = "/events"
	PathOpportunities   = "/opportunities"
	PathVolunteer       = "/volunteer"
	PathDonate          = "/donate"
	PathProfile         = "/profile"

	PathAdminLogin        = "/admin/login"
	PathAdmin             = "/admin"
	PathAdminApplications = "/admin/applications"
	PathAdminSocial       = "/admin/social"
	PathAdminGallery      = "/admin/gallery"
	PathAdminContent      = "/admin/content"
	PathAdminVolunteers   = "/admin/volunteers"
	PathAdminSettings     = "/admin/settings"
)

// MemberPaths require a complete profile.
var MemberPaths = []string{
	PathHome, PathPrograms, PathEvents, PathOpportunities,
	PathVolunteer, PathDonate, PathProfile,
}

// AdminPaths require the admin role.
var AdminPaths = []string{
	PathAdmin, PathAdminApplications, PathAdminSocial, PathAdminGallery,
	PathAdminContent, PathAdminVolunteers, PathAdminSettings,
}

// RouteClass groups paths that share one gate rule.
type RouteClass int

const (
	RouteUnknown RouteClass = iota
	RoutePublic
	RouteAuth
	RouteOnboarding
	RouteMember
	RouteAdminLogin
	RouteAdmin
)

// Classify maps a request path to its gate rule.
func Classify(path string) RouteClass {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	switch path {
	case PathLanding:
		return RoutePublic
	case PathSignIn, PathSignUp:
		return RouteAuth
	case PathCompleteProfile:
		return RouteOnboarding
	case PathAdminLogin:
		return RouteAdminLogin
	}
	if path == PathAdmin || strings.HasPrefix(path, PathAdmin+"/") {
		return RouteAdmin
	}
	for _, p := range MemberPaths {
		if path == p {
			return RouteMember
		}
	}
	return RouteUnknown
}

// StateOf derives the resting state for a resolved user; nil means anonymous.
// Admins rest in authenticated-complete and only enter StateAdmin on an admin path.
func StateOf(u *models.User) State {
	switch {
	case u == nil:
		return StateAnonymous
	case IsProfileComplete(u):
		return StateAuthenticatedComplete
	default:
		return StateAuthenticatedIncomplete
	}
}

// Transition applies ev to s. The user is consulted when the outcome depends
// on the profile or the role. ok is false when ev is not valid in s, in which
// case s is returned unchanged.
func Transition(s State, ev GateEvent, u *models.User) (next State, ok bool) {
	switch ev {
	case EventCredentialsSubmitted:
		if s == StateAnonymous {
			return StateAuthenticating, true
		}
	case EventSessionEstablished:
		if s == StateAuthenticating && u != nil {
			return StateOf(u), true
		}
	case EventProfileCompleted:
		if s == StateAuthenticatedIncomplete {
			return StateAuthenticatedComplete, true
		}
	case EventSignedOut:
		if s != StateAnonymous {
			return StateAnonymous, true
		}
	case EventEnterAdmin:
		if s == StateAuthenticatedComplete && u.IsAdmin() {
			return StateAdmin, true
		}
	case EventLeaveAdmin:
		if s == StateAdmin {
			return StateAuthenticatedComplete, true
		}
	}
	return s, false
}

// Decision is the gate outcome for one request.
type Decision struct {
	Allow    bool
	Redirect string
}

func allow() Decision             { return Decision{Allow: true} }
func redirect(to string) Decision { return Decision{Redirect: to} }

func landingFor(s State) Decision {
	if s == StateAuthenticatedIncomplete {
		return redirect(PathCompleteProfile)
	}
	return redirect(PathHome)
}

// Decide evaluates the gate for a visitor in state s holding role, requesting path.
// Admin paths are checked against the role on every call, independently of
// the profile state.
func Decide(s State, role, path string) Decision {
	switch Classify(path) {
	case RoutePublic, RouteUnknown:
		return allow()

	case RouteAuth:
		if s == StateAnonymous || s == StateAuthenticating {
			return allow()
		}
		return landingFor(s)

	case RouteOnboarding:
		switch s {
		case StateAnonymous, StateAuthenticating:
			return redirect(PathSignIn)
		case StateAuthenticatedIncomplete:
			return allow()
		}
		return redirect(PathHome)

	case RouteMember:
		switch s {
		case StateAnonymous, StateAuthenticating:
			return redirect(PathSignIn)
		case StateAuthenticatedIncomplete:
			return redirect(PathCompleteProfile)
		}
		return allow()

	case RouteAdminLogin:
		if role == models.RoleAdmin && s != StateAnonymous {
			return redirect(PathAdmin)
		}
		return allow()

	case RouteAdmin:
		if role != models.RoleAdmin || s == StateAnonymous || s == StateAuthenticating {
			return redirect(PathAdminLogin)
		}
		return allow()
	}
	return allow()
}
