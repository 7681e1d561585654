package domain

// Role is a staff member's job, fixed at hiring time.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleCook   Role = "cook"
	RoleWaiter Role = "waiter"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCook, RoleWaiter:
		return true
	}
	return false
}

// Action is a gated operation. Every role check in the system goes through
// Allowed so the capability table lives in exactly one place.
type Action string

const (
	ActionAcceptOffer    Action = "offer.accept"
	ActionRejectOffer    Action = "offer.reject"
	ActionSubmitOffer    Action = "offer.submit"
	ActionManageOffers   Action = "offer.manage"
	ActionManageDishes   Action = "dish.manage"
	ActionPlaceOrder     Action = "order.place"
	ActionAdvanceOrder   Action = "order.advance"
	ActionDeleteOrder    Action = "order.delete"
	ActionSetTableStatus Action = "table.set_status"
	ActionManageTables   Action = "table.manage"
	ActionManageStaff    Action = "staff.manage"
)

var capabilities = map[Action]map[Role]bool{
	ActionAcceptOffer:    {RoleAdmin: true},
	ActionRejectOffer:    {RoleAdmin: true},
	ActionSubmitOffer:    {RoleCook: true, RoleWaiter: true},
	ActionManageOffers:   {RoleAdmin: true},
	ActionManageDishes:   {RoleAdmin: true},
	ActionPlaceOrder:     {RoleWaiter: true},
	ActionAdvanceOrder:   {RoleCook: true},
	ActionDeleteOrder:    {RoleAdmin: true},
	ActionSetTableStatus: {RoleAdmin: true, RoleWaiter: true},
	ActionManageTables:   {RoleAdmin: true},
	ActionManageStaff:    {RoleAdmin: true},
}

// Allowed reports whether role may perform action. Unknown actions and
// unknown roles deny.
func Allowed(role Role, action Action) bool { return capabilities[action][role] }
