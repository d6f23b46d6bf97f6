package user

type Resource string

const (
	ResourceCompany    Resource = "company"
	ResourceEmployee   Resource = "employee"
	ResourceAttendance Resource = "attendance"
	ResourceLeave      Resource = "leave"
	ResourcePayroll    Resource = "payroll"
	ResourceDashboard  Resource = "dashboard"
)

type Action string

const (
	ActionCreate     Action = "create"
	ActionRead       Action = "read"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionRecord     Action = "record"
	ActionMarkAbsent Action = "mark_absent"
	ActionCancel     Action = "cancel"
	ActionApprove    Action = "approve"
	ActionStats      Action = "stats"
	ActionAdminView  Action = "admin_view"
	ActionOwnView    Action = "own_view"
)

// Rule grants an action to roles for any record and, optionally, to the record's owner.
type Rule struct {
	Roles []Role
	Owner bool
}

var (
	adminOnly = []Role{RoleAdmin}
	staff     = []Role{RoleAdmin, RoleHR}
)

// Policy is the single rule table consulted for every role and ownership decision.
var Policy = map[Resource]map[Action]Rule{
	ResourceCompany: {
		ActionCreate: {Roles: adminOnly},
		ActionRead:   {Roles: staff},
		ActionUpdate: {Roles: adminOnly},
		ActionDelete: {Roles: adminOnly},
	},
	ResourceEmployee: {
		ActionCreate: {Roles: staff},
		ActionRead:   {Roles: staff, Owner: true},
		ActionUpdate: {Roles: staff, Owner: true},
		ActionDelete: {Roles: adminOnly},
		ActionStats:  {Roles: staff},
	},
	ResourceAttendance: {
		ActionRecord:     {Owner: true},
		ActionRead:       {Roles: staff, Owner: true},
		ActionUpdate:     {Roles: staff},
		ActionMarkAbsent: {Roles: staff},
		ActionStats:      {Roles: staff},
		ActionDelete:     {Roles: adminOnly},
	},
	ResourceLeave: {
		ActionCreate:  {Owner: true},
		ActionRead:    {Roles: staff, Owner: true},
		ActionUpdate:  {Owner: true},
		ActionCancel:  {Owner: true},
		ActionApprove: {Roles: staff},
		ActionStats:   {Roles: staff},
		ActionDelete:  {Roles: adminOnly},
	},
	ResourcePayroll: {
		ActionCreate: {Roles: staff},
		ActionRead:   {Roles: staff, Owner: true},
		ActionUpdate: {Roles: staff},
		ActionStats:  {Roles: staff},
		ActionDelete: {Roles: adminOnly},
	},
	ResourceDashboard: {
		ActionAdminView: {Roles: staff},
		ActionOwnView:   {Owner: true},
	},
}

func lookup(resource Resource, action Action) (Rule, bool) {
	actions, ok := Policy[resource]
	if !ok {
		return Rule{}, false
	}
	rule, ok := actions[action]
	return rule, ok
}

func hasRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanAttempt is the route-level gate: the role is granted the action outright,
// or the action is open to owners and the caller has an employee profile.
func CanAttempt(p Principal, resource Resource, action Action) bool {
	rule, ok := lookup(resource, action)
	if !ok {
		return false
	}
	if hasRole(rule.Roles, p.Role) {
		return true
	}
	return rule.Owner && p.OwnEmployeeID() != ""
}

// Authorize decides whether p may perform action on a record owned by ownerEmployeeID.
// Pass an empty owner for actions that do not target a single employee's record.
func Authorize(p Principal, resource Resource, action Action, ownerEmployeeID string) error {
	rule, ok := lookup(resource, action)
	if !ok {
		return ErrInsufficientPermissions
	}
	if hasRole(rule.Roles, p.Role) {
		return nil
	}
	if rule.Owner && p.Owns(ownerEmployeeID) {
		return nil
	}
	if rule.Owner && p.OwnEmployeeID() == "" {
		return ErrEmployeeProfileRequired
	}
	return ErrInsufficientPermissions
}
