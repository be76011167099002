package nav

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStoreGetSetInvalidate(t *testing.T) {
	store := NewStore()

	if _, ok := store.Get(LayoutTenant, RoleSchoolStaff); ok {
		t.Fatalf("empty store must miss")
	}

	menus := []Menu{{FullPath: "/workspace/dashboard", Title: "Workbench"}}
	store.Set(LayoutTenant, RoleSchoolStaff, menus)

	got, ok := store.Get(LayoutTenant, RoleSchoolStaff)
	if !ok || len(got) != 1 || got[0].Title != "Workbench" {
		t.Fatalf("unexpected cache content: %+v, %v", got, ok)
	}

	// A different role must not see another role's menus.
	if _, ok := store.Get(LayoutTenant, RoleSupplierAdmin); ok {
		t.Fatalf("cache must be keyed per role")
	}

	store.Invalidate()
	if _, ok := store.Get(LayoutTenant, RoleSchoolStaff); ok {
		t.Fatalf("invalidate must drop all entries")
	}
}

func TestStoreBuildCachesOnce(t *testing.T) {
	store := NewStore()
	var builds int32
	build := func() ([]Menu, error) {
		atomic.AddInt32(&builds, 1)
		return []Menu{{FullPath: "/platform/dashboard", Title: "Platform Overview"}}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Build(context.Background(), LayoutPlatform, RolePlatformAdmin, build); err != nil {
				t.Errorf("build: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&builds); n != 1 {
		t.Fatalf("expected exactly one build, got %d", n)
	}
}

func TestStoreBuildErrorIsNotCached(t *testing.T) {
	store := NewStore()
	var builds int
	build := func() ([]Menu, error) {
		builds++
		if builds == 1 {
			return nil, errors.New("boom")
		}
		return []Menu{}, nil
	}

	if _, err := store.Build(context.Background(), LayoutTenant, RoleCanteenAdmin, build); err == nil {
		t.Fatalf("expected first build error to propagate")
	}
	if _, ok := store.Get(LayoutTenant, RoleCanteenAdmin); ok {
		t.Fatalf("failed build must not populate the cache")
	}
	if _, err := store.Build(context.Background(), LayoutTenant, RoleCanteenAdmin, build); err != nil {
		t.Fatalf("second build: %v", err)
	}
	if builds != 2 {
		t.Fatalf("expected retry after failure, builds = %d", builds)
	}
}

func TestStoreBuildHonorsContext(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, err := store.Build(ctx, LayoutTenant, RoleSchoolAdmin, func() ([]Menu, error) {
			<-release
			return []Menu{}, nil
		})
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("build did not observe cancellation")
	}
	close(release)
}
