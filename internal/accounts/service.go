package accounts

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/canteencloud/console/internal/auth"
	"github.com/canteencloud/console/internal/nav"
	"github.com/canteencloud/console/internal/platform/httpx"
	"github.com/canteencloud/console/internal/session"
)

// Service implements sub-account business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// subordinateRole maps a creator role onto the role its sub-accounts get.
// Only admins create accounts; root acts as a platform admin.
func subordinateRole(creator nav.Role) (nav.Role, bool) {
	switch creator {
	case nav.RolePlatformAdmin, nav.RoleRoot:
		return nav.RolePlatformStaff, true
	case nav.RoleSchoolAdmin:
		return nav.RoleSchoolStaff, true
	case nav.RoleSupplierAdmin:
		return nav.RoleSupplierStaff, true
	default:
		return "", false
	}
}

// Create adds a sub-account inside the creator's organization with the
// demoted role for the creator's tier.
func (s *Service) Create(ctx context.Context, creator session.Session, params CreateParams) (*Account, error) {
	role, ok := subordinateRole(creator.Role)
	if !ok {
		return nil, httpx.ErrForbidden
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	acc := &Account{
		Username: params.Username,
		RealName: params.RealName,
		Mobile:   params.Mobile,
		RoleKey:  role.String(),
		OrgID:    creator.Profile.OrgID,
		Status:   auth.StatusActive,
	}
	if err := s.repo.Create(ctx, acc, string(hash)); err != nil {
		return nil, err
	}
	return acc, nil
}

// List returns one page of the caller's organization accounts.
func (s *Service) List(ctx context.Context, caller session.Session, page, perPage int) ([]Account, int, error) {
	offset := (page - 1) * perPage
	return s.repo.ListByOrg(ctx, caller.Profile.OrgID, perPage, offset)
}

// UpdateStatus locks or unlocks an account in the caller's organization.
func (s *Service) UpdateStatus(ctx context.Context, caller session.Session, id int64, status int16) error {
	if _, ok := subordinateRole(caller.Role); !ok {
		return httpx.ErrForbidden
	}
	if status != auth.StatusActive && status != auth.StatusLocked {
		return httpx.ErrValidation
	}
	return s.repo.UpdateStatus(ctx, id, caller.Profile.OrgID, status)
}
