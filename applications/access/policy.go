// Package access holds the role model and the authorization table that
// decides who may read, change or delete tasks and user accounts.
//
// Decisions are a pure function of the caller's role and email and the email
// of the resource owner, so the table can be exercised without a database or
// a token.
package access

type Role string

const (
	RoleAdmin Role = "admin"
	RoleBasic Role = "basic"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleBasic
}

// ParseRole defaults an empty role to basic.
func ParseRole(s string) (Role, bool) {
	if s == "" {
		return RoleBasic, true
	}
	r := Role(s)
	return r, r.Valid()
}

// Principal is the authenticated caller as reconstructed from a token.
type Principal struct {
	Subject string
	Email   string
	Role    Role
}

type Action string

const (
	ListTasks  Action = "task/list"
	CreateTask Action = "task/create"
	UpdateTask Action = "task/update"
	DeleteTask Action = "task/delete"
	ListUsers  Action = "user/list"
	DeleteUser Action = "user/delete"
)

// Effect is the outcome of a policy lookup.
type Effect int

const (
	Deny Effect = iota
	// AllowOwn permits the action on the caller's own resources only.
	AllowOwn
	// AllowAll permits the action on any resource.
	AllowAll
)

func (e Effect) Allowed() bool { return e != Deny }

func (e Effect) String() string {
	switch e {
	case AllowOwn:
		return "allow_own"
	case AllowAll:
		return "allow_all"
	default:
		return "deny"
	}
}

// rule holds the effect per caller relationship to the resource.
type rule struct {
	basicOwner Effect
	basicOther Effect
	admin      Effect
}

// rules is the complete access table. Actions with no target resource
// (listing, creating) are evaluated through the owner column.
var rules = map[Action]rule{
	ListTasks:  {basicOwner: AllowOwn, basicOther: AllowOwn, admin: AllowAll},
	CreateTask: {basicOwner: AllowOwn, basicOther: AllowOwn, admin: AllowOwn},
	UpdateTask: {basicOwner: AllowOwn, basicOther: Deny, admin: AllowAll},
	DeleteTask: {basicOwner: AllowOwn, basicOther: Deny, admin: AllowAll},
	ListUsers:  {basicOwner: Deny, basicOther: Deny, admin: AllowAll},
	DeleteUser: {basicOwner: Deny, basicOther: Deny, admin: AllowAll},
}

// Decide looks up the effect of action for a caller. ownerEmail is empty for
// actions with no target resource. Unknown actions and roles are denied.
func Decide(action Action, role Role, callerEmail, ownerEmail string) Effect {
	r, ok := rules[action]
	if !ok {
		return Deny
	}
	switch role {
	case RoleAdmin:
		return r.admin
	case RoleBasic:
		if ownerEmail == "" || ownerEmail == callerEmail {
			return r.basicOwner
		}
		return r.basicOther
	default:
		return Deny
	}
}

// Authorize applies Decide to p.
func (p Principal) Authorize(action Action, ownerEmail string) Effect {
	return Decide(action, p.Role, p.Email, ownerEmail)
}
