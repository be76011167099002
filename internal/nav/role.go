package nav

// Role identifies one of the fixed console roles. Authorization decisions
// compare Role values, never raw strings, so a typo in configuration or in
// a persisted record surfaces as an invalid role instead of an always-false
// permission check.
type Role string

const (
	RolePlatformAdmin Role = "platform_admin"
	RolePlatformStaff Role = "platform_staff"
	RoleSchoolAdmin   Role = "school_admin"
	RoleSchoolStaff   Role = "school_staff"
	RoleSupplierAdmin Role = "supplier_admin"
	RoleSupplierStaff Role = "supplier_staff"
	RoleCanteenAdmin  Role = "canteen_admin"
	RoleRoot          Role = "root"
)

var roleSet = map[Role]struct{}{
	RolePlatformAdmin: {},
	RolePlatformStaff: {},
	RoleSchoolAdmin:   {},
	RoleSchoolStaff:   {},
	RoleSupplierAdmin: {},
	RoleSupplierStaff: {},
	RoleCanteenAdmin:  {},
	RoleRoot:          {},
}

// ParseRole converts a stored role key into a Role. It fails on anything
// outside the closed set.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := roleSet[r]
	return r, ok
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	_, ok := roleSet[r]
	return ok
}

func (r Role) String() string {
	return string(r)
}

// roleAllowed reports whether role passes a node's gate. An absent gate
// admits every authenticated role. Root passes every gate (implicit
// superuser escalation, applied uniformly here and nowhere else).
func roleAllowed(gate []Role, r Role) bool {
	if len(gate) == 0 {
		return true
	}
	if r == RoleRoot {
		return true
	}
	for _, g := range gate {
		if g == r {
			return true
		}
	}
	return false
}

// OrgType classifies the organization behind an account.
type OrgType int8

const (
	OrgPlatform OrgType = iota
	OrgSchool
	OrgSupplier
	OrgCanteen
	OrgMerchant
)

func (o OrgType) String() string {
	switch o {
	case OrgPlatform:
		return "platform"
	case OrgSchool:
		return "school"
	case OrgSupplier:
		return "supplier"
	case OrgCanteen:
		return "canteen"
	case OrgMerchant:
		return "merchant"
	default:
		return "unknown"
	}
}

// Layout returns the console layout an organization type lands in.
func (o OrgType) Layout() Layout {
	if o == OrgPlatform {
		return LayoutPlatform
	}
	return LayoutTenant
}

// Identity is the slice of a session the guard needs to decide a
// navigation. Authenticated is false for the empty session.
type Identity struct {
	Authenticated bool
	Role          Role
	Org           OrgType
}
