package nav

import "path"

// Menu is a node of the derived navigation menu.
type Menu struct {
	FullPath string `json:"full_path"`
	Title    string `json:"title"`
	Icon     string `json:"icon,omitempty"`
	Children []Menu `json:"children"`
}

// BuildMenu derives the role-visible menu below root. The walk is
// depth-first and order-preserving; two calls with the same inputs yield
// structurally identical output, which is what makes a rebuild after a
// full page reload safe.
//
// basePath is the absolute path of root itself. Relative segments are
// collapsed by path.Join, so "."/".." in catalog segments resolve the same
// way a filesystem path would.
func BuildMenu(root *Node, role Role, basePath string) []Menu {
	if root == nil {
		return nil
	}
	return buildMenus(root.Children, role, cleanPath(basePath))
}

func buildMenus(nodes []Node, role Role, basePath string) []Menu {
	menus := make([]Menu, 0, len(nodes))
	for i := range nodes {
		node := &nodes[i]
		// Untitled nodes are layout/redirect plumbing, never menu entries.
		if node.Title == "" {
			continue
		}
		if !roleAllowed(node.Roles, role) {
			continue
		}
		fullPath := path.Join(basePath, node.Segment)
		children := buildMenus(node.Children, role, fullPath)
		// A grouping with no reachable content must not appear at all.
		if len(children) == 0 && !node.Page {
			continue
		}
		menus = append(menus, Menu{
			FullPath: fullPath,
			Title:    node.Title,
			Icon:     node.Icon,
			Children: children,
		})
	}
	return menus
}
