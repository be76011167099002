package nav

import (
	"context"
	"fmt"
	"log/slog"
)

// DecisionKind enumerates the guard's possible outcomes.
type DecisionKind int

const (
	// DecisionAllow lets the navigation proceed.
	DecisionAllow DecisionKind = iota
	// DecisionRedirect sends the client to Decision.Location instead.
	DecisionRedirect
	// DecisionForceLogout terminates the session; the client lands on the
	// login entry.
	DecisionForceLogout
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionAllow:
		return "allow"
	case DecisionRedirect:
		return "redirect"
	case DecisionForceLogout:
		return "logout"
	default:
		return "unknown"
	}
}

// Decision is the guard's verdict for one navigation attempt. The guard
// only decides; applying the redirect or the logout is the caller's job.
type Decision struct {
	Kind     DecisionKind
	Location string
}

// Guard evaluates every navigation intent against the session and the menu
// cache. Every branch terminates in an allow or a concrete location; the
// client is never left on an unresolved route.
type Guard struct {
	catalog *Catalog
	menus   *Store
	logger  *slog.Logger
}

// NewGuard wires the guard to its catalog and menu cache.
func NewGuard(catalog *Catalog, menus *Store, logger *slog.Logger) *Guard {
	return &Guard{catalog: catalog, menus: menus, logger: logger}
}

// Resolve decides a single navigation attempt. The menu cache is rebuilt
// at most once per call; a rebuild failure (unknown role, missing catalog
// root) is the one fatal branch and forces a logout.
func (g *Guard) Resolve(ctx context.Context, target string, id Identity) Decision {
	target = cleanPath(target)
	login := g.catalog.LoginPath()

	if !id.Authenticated {
		if target == login {
			return Decision{Kind: DecisionAllow}
		}
		return Decision{Kind: DecisionRedirect, Location: login}
	}

	landing := g.catalog.Landing(id.Org)
	if target == login {
		// Authenticated users do not revisit the login screen.
		return Decision{Kind: DecisionRedirect, Location: landing}
	}

	if _, ok := g.catalog.LayoutFor(target); !ok {
		return Decision{Kind: DecisionRedirect, Location: landing}
	}

	// The cache is always warmed for the session's home layout, whatever
	// layout the target belongs to. Cross-layout targets are decided by
	// the chain check alone, so they never leave menu entries behind for
	// a layout the role will never be served.
	home := id.Org.Layout()
	for attempt := 0; attempt < 2; attempt++ {
		if _, ok := g.menus.Get(home, id.Role); !ok {
			if err := g.rebuild(ctx, home, id.Role); err != nil {
				if g.logger != nil {
					g.logger.Warn("menu rebuild failed, terminating session",
						slog.String("role", id.Role.String()),
						slog.Any("error", err))
				}
				return Decision{Kind: DecisionForceLogout, Location: login}
			}
			// Re-evaluate the same target with the now-valid cache.
			continue
		}
		return g.authorize(target, id, landing)
	}

	// Cache still invalid after a successful rebuild. Collapse into the
	// fatal branch instead of retrying forever.
	return Decision{Kind: DecisionForceLogout, Location: login}
}

// Menus returns the identity's menu tree for its own layout, building and
// caching it on first use.
func (g *Guard) Menus(ctx context.Context, id Identity) ([]Menu, error) {
	if !id.Authenticated {
		return nil, fmt.Errorf("nav: no active session")
	}
	layout := id.Org.Layout()
	if err := g.rebuild(ctx, layout, id.Role); err != nil {
		return nil, err
	}
	menus, _ := g.menus.Get(layout, id.Role)
	return menus, nil
}

// Authorized reports whether the identity may reach target. It is the
// read-only affordance check backing "hide this button" UI decisions.
func (g *Guard) Authorized(ctx context.Context, target string, id Identity) bool {
	return g.Resolve(ctx, target, id).Kind == DecisionAllow
}

func (g *Guard) authorize(target string, id Identity, landing string) Decision {
	chain, ok := g.catalog.Resolve(target)
	if !ok {
		// Unknown targets get the same generic redirect as denied ones,
		// so probing cannot distinguish "missing" from "forbidden".
		return Decision{Kind: DecisionRedirect, Location: landing}
	}
	for _, node := range chain {
		if !roleAllowed(node.Roles, id.Role) {
			return Decision{Kind: DecisionRedirect, Location: landing}
		}
	}
	return Decision{Kind: DecisionAllow}
}

func (g *Guard) rebuild(ctx context.Context, layout Layout, role Role) error {
	if !role.Valid() {
		return fmt.Errorf("nav: unknown role %q", role)
	}
	root, ok := g.catalog.Root(layout)
	if !ok {
		return fmt.Errorf("nav: no catalog root for layout %q", layout)
	}
	_, err := g.menus.Build(ctx, layout, role, func() ([]Menu, error) {
		return BuildMenu(root, role, "/"+root.Segment), nil
	})
	return err
}
