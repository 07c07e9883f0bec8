package service

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/internal/store"
	"github.com/oakstead/careledger/models"
	"golang.org/x/crypto/bcrypt"
)

// userService implements [UserService]. Account management is limited to
// administrative principals.
type userService struct {
	users  store.UserRepository
	clock  Clock
	logger *logger.Logger
}

// NewUserService constructs a [UserService].
func NewUserService(users store.UserRepository, clock Clock, log *logger.Logger) UserService {
	log.Debug().Msg("creating user service")
	return &userService{
		users:  users,
		clock:  clock,
		logger: log,
	}
}

func (s *userService) CreateUser(ctx context.Context, principal models.Principal, user *models.User, password string) error {
	if !principal.IsAdmin() {
		return ErrForbidden
	}
	if _, err := mail.ParseAddress(user.Email); err != nil {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if user.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !user.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, user.Role)
	}
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.CreatedAt = s.clock()

	return s.users.SaveUser(ctx, user)
}

func (s *userService) GetUser(ctx context.Context, id int64) (models.User, error) {
	return s.users.GetUserByID(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context, principal models.Principal) ([]models.User, error) {
	if !principal.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.users.ListUsers(ctx)
}

func (s *userService) ChangeUserRole(ctx context.Context, principal models.Principal, id int64, role models.Role) error {
	// only full admins can hand out roles
	if principal.Role != models.RoleAdmin {
		return ErrForbidden
	}
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	return s.users.UpdateUserRole(ctx, id, role, s.clock())
}
