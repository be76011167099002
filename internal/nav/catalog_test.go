package nav

import "testing"

func TestCatalogResolve(t *testing.T) {
	c := DefaultCatalog()

	chain, ok := c.Resolve("/workspace/scm/audit")
	if !ok {
		t.Fatalf("expected known path to resolve")
	}
	if len(chain) != 3 {
		t.Fatalf("expected chain of 3, got %d", len(chain))
	}
	if chain[2].Segment != "audit" {
		t.Fatalf("unexpected leaf %q", chain[2].Segment)
	}

	if _, ok := c.Resolve("/workspace/scm/nope"); ok {
		t.Fatalf("unknown leaf must not resolve")
	}
	if _, ok := c.Resolve("/elsewhere"); ok {
		t.Fatalf("unknown root must not resolve")
	}
	if _, ok := c.Resolve(""); ok {
		t.Fatalf("empty path must not resolve")
	}
}

func TestCatalogResolveNormalizesPath(t *testing.T) {
	c := DefaultCatalog()
	chain, ok := c.Resolve("//platform///dashboard/")
	if !ok {
		t.Fatalf("expected messy path to resolve after cleaning")
	}
	if chain[len(chain)-1].Segment != "dashboard" {
		t.Fatalf("unexpected leaf %q", chain[len(chain)-1].Segment)
	}
}

func TestCatalogLayoutFor(t *testing.T) {
	c := DefaultCatalog()

	layout, ok := c.LayoutFor("/platform/sites")
	if !ok || layout != LayoutPlatform {
		t.Fatalf("LayoutFor(/platform/sites) = %q, %v", layout, ok)
	}
	layout, ok = c.LayoutFor("/workspace/order/list")
	if !ok || layout != LayoutTenant {
		t.Fatalf("LayoutFor(/workspace/order/list) = %q, %v", layout, ok)
	}
	if _, ok := c.LayoutFor("/admin"); ok {
		t.Fatalf("unknown top-level segment must not map to a layout")
	}
}

func TestCatalogLandings(t *testing.T) {
	c := DefaultCatalog()

	if got := c.Landing(OrgPlatform); got != "/platform/dashboard" {
		t.Fatalf("platform landing = %q", got)
	}
	for _, org := range []OrgType{OrgSchool, OrgSupplier, OrgCanteen, OrgMerchant} {
		if got := c.Landing(org); got != "/workspace/dashboard" {
			t.Fatalf("%s landing = %q", org, got)
		}
	}
	if got := c.LoginPath(); got != "/login" {
		t.Fatalf("login path = %q", got)
	}
}
