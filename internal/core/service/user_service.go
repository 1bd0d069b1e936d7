package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/ports"
)

// UserService backs the admin-only user management routes.
type UserService struct {
	users ports.UserRepository
	log   zerolog.Logger
	now   func() time.Time
}

func NewUserService(users ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (s *UserService) List(ctx context.Context, params url.Values) (*ports.Page[*domain.User], error) {
	return listPage(ctx, params, domain.UserSchema, nil, s.users.FindPage)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	oid, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, oid)
}

func (s *UserService) Create(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Role == "" {
		in.Role = domain.RoleUser
	}
	if !validRole(in.Role) {
		return nil, domain.Errorf(domain.ErrValidation, "Role must be one of: user, publisher, admin")
	}
	u, err := newUser(in, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info().Str("user", u.ID.Hex()).Str("role", u.Role).Msg("user created by admin")
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	oid, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}

	set := map[string]any{}
	if patch.Name != nil {
		set["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		set["email"] = normalizeEmail(*patch.Email)
	}
	if patch.Role != nil {
		if !validRole(*patch.Role) {
			return nil, domain.Errorf(domain.ErrValidation, "Role must be one of: user, publisher, admin")
		}
		set["role"] = *patch.Role
	}
	if len(set) == 0 {
		return s.users.FindByID(ctx, oid)
	}
	return s.users.Update(ctx, oid, set)
}

// Delete removes a user. Admins can delete neither themselves nor other admins.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if actor == nil {
		return errNoActor
	}
	oid, err := domain.ParseID(id)
	if err != nil {
		return err
	}
	if oid == actor.ID {
		return domain.Errorf(domain.ErrValidation, "You cannot delete your own account")
	}
	target, err := s.users.FindByID(ctx, oid)
	if err != nil {
		return err
	}
	if target.IsAdmin() {
		return domain.Errorf(domain.ErrValidation, "Admin accounts cannot be deleted")
	}
	if err := s.users.Delete(ctx, oid); err != nil {
		return err
	}
	s.log.Info().Str("user", oid.Hex()).Str("by", actor.ID.Hex()).Msg("user deleted")
	return nil
}

func validRole(role string) bool {
	switch role {
	case domain.RoleUser, domain.RolePublisher, domain.RoleAdmin:
		return true
	}
	return false
}
