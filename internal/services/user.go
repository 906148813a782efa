package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/OwaisIslam/living-real/internal/data/repos"
	types "github.com/OwaisIslam/living-real/internal/domain"
	"github.com/OwaisIslam/living-real/internal/platform/apierr"
	"github.com/OwaisIslam/living-real/internal/platform/dbctx"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
)

type RegisterInput struct {
	Email     string     `json:"email" validate:"required,email"`
	Password  string     `json:"password" validate:"required,min=8,bcryptlen"`
	FirstName string     `json:"first_name" validate:"required"`
	LastName  string     `json:"last_name" validate:"required"`
	Phone     string     `json:"phone" validate:"omitempty,max=32"`
	Role      types.Role `json:"role" validate:"omitempty,oneof=owner tenant"`
}

// ProfilePatch is the caller-mutable subset of a user. Nil fields are left
// untouched.
type ProfilePatch struct {
	FirstName *string `json:"first_name" validate:"omitnil,min=1"`
	LastName  *string `json:"last_name" validate:"omitnil,min=1"`
	Email     *string `json:"email" validate:"omitnil,email"`
	Phone     *string `json:"phone" validate:"omitnil,max=32"`
	Password  *string `json:"password" validate:"omitnil,min=8,bcryptlen"`
}

func (p ProfilePatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil && p.Phone == nil && p.Password == nil
}

type UserService interface {
	ListAll(ctx context.Context) ([]*types.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
	ListOwners(ctx context.Context) ([]*types.User, error)
	ListTenants(ctx context.Context) ([]*types.User, error)
	Register(ctx context.Context, in RegisterInput) (*types.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, patch ProfilePatch) (*types.User, error)
	GetMe(ctx context.Context) (*types.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) (*types.User, error)
}

type userService struct {
	log              *logger.Logger
	userRepo         repos.UserRepo
	gate             AuthorizationGate
	allowOwnerSignup bool
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo, gate AuthorizationGate, allowOwnerSignup bool) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		log:              serviceLog,
		userRepo:         userRepo,
		gate:             gate,
		allowOwnerSignup: allowOwnerSignup,
	}
}

func (us *userService) ListAll(ctx context.Context) ([]*types.User, error) {
	if _, err := us.gate.Authorize(ctx, OpListUsers, uuid.Nil); err != nil {
		return nil, err
	}
	return us.list(ctx, repos.UserFilter{WithProperty: true})
}

func (us *userService) ListOwners(ctx context.Context) ([]*types.User, error) {
	if _, err := us.gate.Authorize(ctx, OpListOwners, uuid.Nil); err != nil {
		return nil, err
	}
	role := types.RoleOwner
	return us.list(ctx, repos.UserFilter{Role: &role})
}

func (us *userService) ListTenants(ctx context.Context) ([]*types.User, error) {
	if _, err := us.gate.Authorize(ctx, OpListTenants, uuid.Nil); err != nil {
		return nil, err
	}
	role := types.RoleTenant
	return us.list(ctx, repos.UserFilter{Role: &role, WithProperty: true})
}

func (us *userService) list(ctx context.Context, filter repos.UserFilter) ([]*types.User, error) {
	users, err := us.userRepo.List(dbctx.Of(ctx), filter)
	if err != nil {
		us.log.Error("list users failed", "error", err)
		return nil, apierr.Internal(err)
	}
	stripSecrets(users...)
	return users, nil
}

func (us *userService) GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	if _, err := us.gate.Authorize(ctx, OpGetUser, userID); err != nil {
		return nil, err
	}
	return us.load(ctx, userID)
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd, err := us.gate.Authorize(ctx, OpGetMe, uuid.Nil)
	if err != nil {
		return nil, err
	}
	u, err := us.load(ctx, rd.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apierr.NotFound("user %s does not exist", rd.UserID)
	}
	return u, nil
}

// load returns nil, nil when the user does not exist.
func (us *userService) load(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	found, err := us.userRepo.GetByIDs(dbctx.Of(ctx), []uuid.UUID{userID})
	if err != nil {
		us.log.Error("get user failed", "error", err, "user_id", userID.String())
		return nil, apierr.Internal(fmt.Errorf("error fetching user: %w", err))
	}
	if len(found) == 0 || found[0] == nil {
		return nil, nil
	}
	stripSecrets(found[0])
	return found[0], nil
}

func (us *userService) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	if _, err := us.gate.Authorize(ctx, OpRegister, uuid.Nil); err != nil {
		return nil, err
	}
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = types.RoleTenant
	}
	if role == types.RoleOwner && !us.allowOwnerSignup {
		return nil, apierr.Validation("role: owner registration is disabled")
	}

	dbc := dbctx.Of(ctx)
	exists, err := us.userRepo.EmailExists(dbc, in.Email)
	if err != nil {
		us.log.Error("email lookup failed", "error", err)
		return nil, apierr.Internal(err)
	}
	if exists {
		return nil, apierr.Validation("email: already registered")
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	created, err := us.userRepo.Create(dbc, []*types.User{{
		ID:        uuid.New(),
		Email:     in.Email,
		Password:  hashed,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Role:      role,
	}})
	if err != nil {
		us.log.Error("create user failed", "error", err)
		return nil, apierr.Internal(fmt.Errorf("failed to create user: %w", err))
	}
	us.log.Info("user registered", "user_id", created[0].ID.String(), "role", role)
	stripSecrets(created[0])
	return created[0], nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch ProfilePatch) (*types.User, error) {
	if _, err := us.gate.Authorize(ctx, OpUpdateProfile, userID); err != nil {
		return nil, err
	}
	if patch.Email != nil {
		e := normalizeEmail(*patch.Email)
		patch.Email = &e
	}
	patch.FirstName = trimmed(patch.FirstName)
	patch.LastName = trimmed(patch.LastName)
	patch.Phone = trimmed(patch.Phone)
	if err := validateInput(patch); err != nil {
		return nil, err
	}

	dbc := dbctx.Of(ctx)
	current, err := us.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apierr.NotFound("user %s does not exist", userID)
	}
	if patch.IsEmpty() {
		return current, nil
	}

	fields := map[string]any{}
	if patch.FirstName != nil {
		fields["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		fields["last_name"] = *patch.LastName
	}
	if patch.Phone != nil {
		fields["phone"] = *patch.Phone
	}
	if patch.Email != nil && *patch.Email != current.Email {
		exists, err := us.userRepo.EmailExists(dbc, *patch.Email)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		if exists {
			return nil, apierr.Validation("email: already registered")
		}
		fields["email"] = *patch.Email
	}
	if patch.Password != nil {
		hashed, err := hashPassword(*patch.Password)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		fields["password"] = hashed
	}

	if len(fields) > 0 {
		if err := us.userRepo.UpdateFields(dbc, userID, fields); err != nil {
			us.log.Error("update profile failed", "error", err, "user_id", userID.String())
			return nil, apierr.Internal(err)
		}
	}
	return us.load(ctx, userID)
}

func (us *userService) DeleteUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	if _, err := us.gate.Authorize(ctx, OpDeleteUser, userID); err != nil {
		return nil, err
	}
	deleted, err := us.userRepo.DeleteByID(dbctx.Of(ctx), userID)
	if err != nil {
		us.log.Error("delete user failed", "error", err, "user_id", userID.String())
		return nil, apierr.Internal(err)
	}
	if deleted != nil {
		us.log.Info("user deleted", "user_id", userID.String())
		stripSecrets(deleted)
	}
	return deleted, nil
}
