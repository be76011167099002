// Package nav implements the console's navigation authorization engine:
// a declarative route catalog, a pure role-filtered menu builder, a
// process-wide menu cache and the guard that decides every navigation
// attempt.
package nav

import (
	"path"
	"strings"
)

// Layout distinguishes the two console shells.
type Layout string

const (
	LayoutPlatform Layout = "platform"
	LayoutTenant   Layout = "tenant"
)

// Node is one entry in the route catalog. A node without a Title is a pure
// layout or redirect node and never surfaces in a menu. A node without a
// role gate admits every authenticated role. Page marks nodes that resolve
// to renderable content rather than a grouping.
type Node struct {
	Segment  string
	Title    string
	Icon     string
	Roles    []Role
	Page     bool
	Children []Node
}

// Catalog is the immutable route tree. It is built once at startup;
// a malformed catalog is a configuration defect, not a runtime error.
type Catalog struct {
	login    string
	roots    map[Layout]*Node
	landings map[Layout]string
}

// NewCatalog assembles a catalog from the login path and the two layout
// subtrees. Landing pages are the first page node of each subtree.
func NewCatalog(login string, platform, tenant Node) *Catalog {
	p := platform
	t := tenant
	c := &Catalog{
		login: cleanPath(login),
		roots: map[Layout]*Node{
			LayoutPlatform: &p,
			LayoutTenant:   &t,
		},
	}
	c.landings = map[Layout]string{
		LayoutPlatform: c.firstPagePath(&p),
		LayoutTenant:   c.firstPagePath(&t),
	}
	return c
}

// LoginPath returns the unauthenticated entry point.
func (c *Catalog) LoginPath() string {
	return c.login
}

// Root returns the top-level subtree for a layout.
func (c *Catalog) Root(layout Layout) (*Node, bool) {
	root, ok := c.roots[layout]
	return root, ok
}

// Landing returns the default landing page for an organization type.
func (c *Catalog) Landing(org OrgType) string {
	return c.landings[org.Layout()]
}

// LayoutFor maps a target path onto the layout that owns its top-level
// segment.
func (c *Catalog) LayoutFor(target string) (Layout, bool) {
	segments := splitPath(target)
	if len(segments) == 0 {
		return "", false
	}
	for layout, root := range c.roots {
		if root.Segment == segments[0] {
			return layout, true
		}
	}
	return "", false
}

// Resolve walks the catalog along a cleaned path and returns the chain of
// nodes from the layout root down to the target, or false when any segment
// is unknown.
func (c *Catalog) Resolve(target string) ([]*Node, bool) {
	segments := splitPath(target)
	if len(segments) == 0 {
		return nil, false
	}
	var current *Node
	for _, root := range c.roots {
		if root.Segment == segments[0] {
			current = root
			break
		}
	}
	if current == nil {
		return nil, false
	}
	chain := []*Node{current}
	for _, seg := range segments[1:] {
		next := childBySegment(current, seg)
		if next == nil {
			return nil, false
		}
		chain = append(chain, next)
		current = next
	}
	return chain, true
}

func childBySegment(n *Node, segment string) *Node {
	for i := range n.Children {
		if n.Children[i].Segment == segment {
			return &n.Children[i]
		}
	}
	return nil
}

func (c *Catalog) firstPagePath(root *Node) string {
	base := "/" + root.Segment
	for i := range root.Children {
		if root.Children[i].Page {
			return path.Join(base, root.Children[i].Segment)
		}
	}
	return base
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + strings.TrimPrefix(p, "/"))
}

func splitPath(p string) []string {
	trimmed := strings.Trim(cleanPath(p), "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// DefaultCatalog declares the canteen console route tree. Platform staff
// operate the SaaS side; school, supplier and canteen staff live in the
// tenant workspace.
func DefaultCatalog() *Catalog {
	platform := Node{
		Segment: "platform",
		Roles:   []Role{RolePlatformAdmin, RolePlatformStaff},
		Children: []Node{
			{Segment: "dashboard", Title: "Platform Overview", Icon: "DataLine", Page: true},
			{Segment: "sites", Title: "Site Management", Icon: "School", Page: true},
			{
				Segment: "accounts",
				Title:   "Staff Accounts",
				Icon:    "User",
				Roles:   []Role{RolePlatformAdmin},
				Page:    true,
			},
			{
				Segment: "logs",
				Title:   "Operation Logs",
				Icon:    "Document",
				Roles:   []Role{RolePlatformAdmin},
				Page:    true,
			},
		},
	}

	tenantRoles := []Role{
		RoleSchoolAdmin, RoleSchoolStaff,
		RoleSupplierAdmin, RoleSupplierStaff,
		RoleCanteenAdmin,
	}
	tenant := Node{
		Segment: "workspace",
		Roles:   tenantRoles,
		Children: []Node{
			{Segment: "dashboard", Title: "Workbench", Icon: "Odometer", Roles: tenantRoles, Page: true},
			{
				Segment: "scm",
				Title:   "Supply Chain",
				Icon:    "Box",
				Children: []Node{
					{
						Segment: "audit",
						Title:   "Product Review",
						Roles:   []Role{RoleSchoolAdmin, RoleSchoolStaff},
						Page:    true,
					},
					{
						Segment: "entry",
						Title:   "Product Entry",
						Roles:   []Role{RoleSupplierAdmin, RoleSupplierStaff},
						Page:    true,
					},
				},
			},
			{
				Segment: "order",
				Title:   "Order Center",
				Icon:    "Tickets",
				Children: []Node{
					{Segment: "list", Title: "My Orders", Roles: tenantRoles, Page: true},
				},
			},
			{
				Segment: "accounts",
				Title:   "Sub-accounts",
				Icon:    "User",
				Roles:   []Role{RoleSchoolAdmin, RoleSupplierAdmin, RoleCanteenAdmin},
				Page:    true,
			},
		},
	}

	return NewCatalog("/login", platform, tenant)
}
