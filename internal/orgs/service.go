package orgs

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/canteencloud/console/internal/nav"
	"github.com/canteencloud/console/internal/platform/httpx"
	"github.com/canteencloud/console/internal/session"
)

var titleCaser = cases.Title(language.English, cases.NoLower)

// Service implements organization management rules. Only platform roles
// (and root) touch this module.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func platformCaller(caller session.Session) bool {
	switch caller.Role {
	case nav.RolePlatformAdmin, nav.RolePlatformStaff, nav.RoleRoot:
		return true
	default:
		return false
	}
}

// normalizeName trims and title-cases a display name so "green valley
// school" and "Green Valley School" collide on the unique index instead
// of registering twice.
func normalizeName(name string) string {
	return titleCaser.String(strings.Join(strings.Fields(name), " "))
}

// Create registers a new organization of the given type.
func (s *Service) Create(ctx context.Context, caller session.Session, orgType nav.OrgType, params CreateParams) (*Organization, error) {
	if !platformCaller(caller) {
		return nil, httpx.ErrForbidden
	}
	org := &Organization{
		Name:         normalizeName(params.Name),
		OrgType:      orgType,
		ContactName:  params.ContactName,
		ContactPhone: params.ContactPhone,
		Status:       StatusActive,
	}
	if err := s.repo.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// List returns one page of organizations of the given type.
func (s *Service) List(ctx context.Context, caller session.Session, orgType nav.OrgType, page, perPage int) ([]Organization, int, error) {
	if !platformCaller(caller) {
		return nil, 0, httpx.ErrForbidden
	}
	offset := (page - 1) * perPage
	return s.repo.ListByType(ctx, orgType, perPage, offset)
}

// UpdateStatus enables or disables an organization.
func (s *Service) UpdateStatus(ctx context.Context, caller session.Session, orgType nav.OrgType, id int64, status int16) error {
	if !platformCaller(caller) {
		return httpx.ErrForbidden
	}
	if status != StatusActive && status != StatusDisabled {
		return httpx.ErrValidation
	}
	return s.repo.UpdateStatus(ctx, id, orgType, status)
}
