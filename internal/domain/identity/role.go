package identity

// Role is a user's role within one restaurant
type Role string

const (
	RoleOwner   Role = "Owner"
	RoleManager Role = "Manager"
	RoleEditor  Role = "Editor"
)

// IsValid checks if the role is a known Role
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleEditor:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// IsOwner grants approvals, bank management and the tenant reset.
func IsOwner(r Role) bool {
	return r == RoleOwner
}

// CanRecordSales reports whether the role may submit sales
func CanRecordSales(r Role) bool {
	return r == RoleOwner || r == RoleManager || r == RoleEditor
}

// CanRecordExpenses reports whether the role may submit and pay expenses
func CanRecordExpenses(r Role) bool {
	return r == RoleOwner || r == RoleManager || r == RoleEditor
}

// CanRecordProduction reports whether the role may submit production logs
func CanRecordProduction(r Role) bool {
	return r == RoleOwner || r == RoleManager || r == RoleEditor
}

// CanAccessBank reports whether the role may view and record bank transactions
func CanAccessBank(r Role) bool {
	return r == RoleOwner || r == RoleManager
}

// CanManageInventory reports whether the role may create items and record manual movements
func CanManageInventory(r Role) bool {
	return r == RoleOwner || r == RoleManager
}

// CanManageCustomers reports whether the role may create, deactivate and extend credit to customers
func CanManageCustomers(r Role) bool {
	return r == RoleOwner || r == RoleManager
}
