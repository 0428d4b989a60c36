package services

import (
	"context"
	"strings"

	"github.com/Jaypurnwasi/RestaurantApp/apperr"
	"github.com/Jaypurnwasi/RestaurantApp/auth"
	"github.com/Jaypurnwasi/RestaurantApp/logger"
	"github.com/Jaypurnwasi/RestaurantApp/models"
	"github.com/Jaypurnwasi/RestaurantApp/store"
)

type CreateUserInput struct {
	Name         string          `json:"name" validate:"required,max=50"`
	Email        string          `json:"email" validate:"required,email"`
	Password     string          `json:"password" validate:"required,min=6"`
	Role         models.UserRole `json:"role" validate:"required,oneof=Admin KitchenStaff Waiter Customer"`
	ProfileImage *string         `json:"profileImage"`
}

type UpdateUserInput struct {
	Name         *string
	Email        *string
	ProfileImage *string
}

type UpdatePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// profileFields is what a user may edit about themself
type profileFields struct {
	Name  string `json:"name" validate:"required,max=50"`
	Email string `json:"email" validate:"required,email"`
}

type UserService struct {
	base
	tokens *auth.Tokens
}

func NewUserService(s store.Store, tokens *auth.Tokens, log *logger.Logger) *UserService {
	return &UserService{base: newBase(s, log, "user_service"), tokens: tokens}
}

// CreateUser bootstraps the single Admin without authentication; every other
// account must be created by that Admin.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if e := validateInput(in); e != nil {
		return nil, s.reject(e)
	}

	if _, err := s.store.Users().GetByEmail(ctx, in.Email); err == nil {
		return nil, s.reject(apperr.BadRequest("User with this email already exists"), "email", in.Email)
	} else if !isNotFound(err) {
		return nil, s.fail("create user lookup", err)
	}

	if in.Role != models.RoleAdmin {
		if _, err := auth.Authorize(ctx, auth.ActionManageUsers); err != nil {
			if apperr.Is(err, apperr.CodeForbidden) {
				return nil, s.reject(apperr.Forbidden("Only Admin can create new users"))
			}
			return nil, s.reject(apperr.Unauthenticated("Authentication required"))
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, s.fail("hash password", err)
	}
	u := &models.User{Name: in.Name, Email: in.Email, PasswordHash: hash, Role: in.Role}
	if in.ProfileImage != nil {
		u.ProfileImage = *in.ProfileImage
	}

	err = s.store.Atomic(ctx, func(tx store.Store) error {
		if in.Role == models.RoleAdmin {
			n, err := tx.Users().CountByRole(ctx, models.RoleAdmin)
			if err != nil {
				return err
			}
			if n > 0 {
				return apperr.Forbidden("Only one Admin is allowed")
			}
		}
		return tx.Users().Create(ctx, u)
	})
	switch {
	case err == nil:
	case apperr.Is(err, apperr.CodeForbidden):
		return nil, s.reject(apperr.From(err))
	case isDuplicate(err):
		return nil, s.reject(apperr.BadRequest("User with this email already exists"), "email", in.Email)
	default:
		return nil, s.fail("create user", err)
	}

	s.log.Info("user created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

func (s *UserService) RemoveUser(ctx context.Context, userID string) (*models.User, error) {
	id, err := auth.Authorize(ctx, auth.ActionManageUsers)
	if err != nil {
		return nil, s.reject(apperr.From(err))
	}
	if !models.ValidID(userID) {
		return nil, s.reject(apperr.BadRequest("Invalid userId"))
	}
	if userID == id.UserID {
		return nil, s.reject(apperr.BadRequest("You cannot remove your own account here, use deleteAccount"))
	}

	u, err := s.removeAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.log.Info("user removed", "user_id", u.ID, "by", id.UserID)
	return u, nil
}

func (s *UserService) DeleteAccount(ctx context.Context) (*models.User, error) {
	id, err := auth.Authorize(ctx, auth.ActionManageSelf)
	if err != nil {
		return nil, s.reject(apperr.From(err))
	}
	u, err := s.removeAccount(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	auth.ClearToken(ctx)
	s.log.Info("account deleted", "user_id", u.ID)
	return u, nil
}

// removeAccount deletes the user together with their cart
func (s *UserService) removeAccount(ctx context.Context, userID string) (*models.User, error) {
	var removed *models.User
	err := s.store.Atomic(ctx, func(tx store.Store) error {
		u, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := tx.Carts().DeleteByUser(ctx, userID); err != nil && !isNotFound(err) {
			return err
		}
		if err := tx.Users().Delete(ctx, userID); err != nil {
			return err
		}
		removed = u
		return nil
	})
	if err != nil {
		if isNotFound(err) {
			return nil, s.reject(apperr.NotFound("User not found"), "user_id", userID)
		}
		return nil, s.fail("remove user", err)
	}
	return removed, nil
}

func (s *UserService) UpdateUser(ctx context.Context, in UpdateUserInput) (*models.User, error) {
	id, err := auth.Authorize(ctx, auth.ActionManageSelf)
	if err != nil {
		return nil, s.reject(apperr.From(err))
	}
	u, err := s.store.Users().GetByID(ctx, id.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, s.reject(apperr.NotFound("User not found"))
		}
		return nil, s.fail("update user lookup", err)
	}

	fields := profileFields{Name: u.Name, Email: u.Email}
	if in.Name != nil {
		fields.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		fields.Email = normalizeEmail(*in.Email)
	}
	if e := validateInput(fields); e != nil {
		return nil, s.reject(e)
	}

	if fields.Email != u.Email {
		other, err := s.store.Users().GetByEmail(ctx, fields.Email)
		if err == nil && other.ID != u.ID {
			return nil, s.reject(apperr.BadRequest("Email is already in use"), "email", fields.Email)
		}
		if err != nil && !isNotFound(err) {
			return nil, s.fail("update user email lookup", err)
		}
	}

	u.Name, u.Email = fields.Name, fields.Email
	if in.ProfileImage != nil {
		u.ProfileImage = strings.TrimSpace(*in.ProfileImage)
	}
	if err := s.store.Users().Update(ctx, u); err != nil {
		if isDuplicate(err) {
			return nil, s.reject(apperr.BadRequest("Email is already in use"))
		}
		return nil, s.fail("update user", err)
	}

	// claims carry name and email, so refresh the cookie
	if token, err := s.tokens.GenerateToken(u); err == nil {
		auth.SetToken(ctx, token)
	}
	s.log.Info("user updated", "user_id", u.ID)
	return u, nil
}

func (s *UserService) UpdatePassword(ctx context.Context, in UpdatePasswordInput) (bool, error) {
	id, err := auth.Authorize(ctx, auth.ActionManageSelf)
	if err != nil {
		return false, s.reject(apperr.From(err))
	}
	if e := validateInput(in); e != nil {
		return false, s.reject(e)
	}
	u, err := s.store.Users().GetByID(ctx, id.UserID)
	if err != nil {
		if isNotFound(err) {
			return false, s.reject(apperr.NotFound("User not found"))
		}
		return false, s.fail("update password lookup", err)
	}
	if !auth.CheckPassword(u.PasswordHash, in.CurrentPassword) {
		return false, s.reject(apperr.Unauthorized("Current password is incorrect"), "user_id", u.ID)
	}

	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return false, s.fail("hash password", err)
	}
	u.PasswordHash = hash
	if err := s.store.Users().Update(ctx, u); err != nil {
		return false, s.fail("update password", err)
	}
	s.log.Info("password updated", "user_id", u.ID)
	return true, nil
}

// GetUserByID is open to Admins and to the user themself
func (s *UserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	id, err := auth.Require(ctx)
	if err != nil {
		return nil, s.reject(apperr.From(err))
	}
	if id.UserID != userID && !auth.Allowed(id.Role, auth.ActionManageUsers) {
		return nil, s.reject(apperr.Forbidden("You can only view your own profile"))
	}
	if !models.ValidID(userID) {
		return nil, s.reject(apperr.BadRequest("Invalid userId"))
	}
	u, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, s.reject(apperr.NotFound("User not found"), "user_id", userID)
		}
		return nil, s.fail("get user", err)
	}
	return u, nil
}

func (s *UserService) ListStaff(ctx context.Context) ([]models.User, error) {
	return s.listByRoles(ctx, models.RoleKitchenStaff, models.RoleWaiter)
}

func (s *UserService) ListCustomers(ctx context.Context) ([]models.User, error) {
	return s.listByRoles(ctx, models.RoleCustomer)
}

func (s *UserService) listByRoles(ctx context.Context, roles ...models.UserRole) ([]models.User, error) {
	if _, err := auth.Authorize(ctx, auth.ActionManageUsers); err != nil {
		return nil, s.reject(apperr.From(err))
	}
	users, err := s.store.Users().ListByRoles(ctx, roles...)
	if err != nil {
		return nil, s.fail("list users", err)
	}
	return users, nil
}
