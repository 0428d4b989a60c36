package services

import (
	"context"
	"strings"

	"github.com/Jaypurnwasi/RestaurantApp/apperr"
	"github.com/Jaypurnwasi/RestaurantApp/auth"
	"github.com/Jaypurnwasi/RestaurantApp/logger"
	"github.com/Jaypurnwasi/RestaurantApp/mailer"
	"github.com/Jaypurnwasi/RestaurantApp/models"
	"github.com/Jaypurnwasi/RestaurantApp/otp"
	"github.com/Jaypurnwasi/RestaurantApp/store"
)

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupInput struct {
	Name         string  `json:"name" validate:"required,max=50"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=6"`
	ProfileImage *string `json:"profileImage"`
}

type AuthService struct {
	base
	tokens *auth.Tokens
	otp    *otp.Store
	mail   mailer.Mailer
}

func NewAuthService(s store.Store, tokens *auth.Tokens, codes *otp.Store, mail mailer.Mailer, log *logger.Logger) *AuthService {
	return &AuthService{
		base:   newBase(s, log, "auth_service"),
		tokens: tokens,
		otp:    codes,
		mail:   mail,
	}
}

// Identify resolves a session token. A token that parses but names a user who
// no longer exists reports stale=true so the caller can drop the cookie.
func (s *AuthService) Identify(ctx context.Context, token string) (id *auth.Identity, stale bool) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		s.log.Debug("ignoring invalid token", "error", err)
		return nil, false
	}
	u, err := s.store.Users().GetByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, true
		}
		s.log.Error("identify failed", "user_id", claims.UserID, "error", err)
		return nil, false
	}
	return &auth.Identity{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}, false
}

// startSession signs a token for u and hands it to the transport as a cookie
func (s *AuthService) startSession(ctx context.Context, u *models.User) error {
	token, err := s.tokens.GenerateToken(u)
	if err != nil {
		return s.fail("sign token", err)
	}
	auth.SetToken(ctx, token)
	return nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if e := validateInput(in); e != nil {
		return nil, s.reject(e)
	}

	u, err := s.store.Users().GetByEmail(ctx, in.Email)
	if err != nil {
		if isNotFound(err) {
			return nil, s.reject(apperr.Unauthorized("Invalid email"), "email", in.Email)
		}
		return nil, s.fail("login lookup", err)
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		return nil, s.reject(apperr.Unauthorized("Invalid password"), "email", in.Email)
	}
	if err := s.startSession(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user logged in", "user_id", u.ID)
	return u, nil
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if e := validateInput(in); e != nil {
		return nil, s.reject(e)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, s.fail("hash password", err)
	}
	u := &models.User{Name: in.Name, Email: in.Email, PasswordHash: hash, Role: models.RoleCustomer}
	if in.ProfileImage != nil {
		u.ProfileImage = *in.ProfileImage
	}

	if err := s.store.Users().Create(ctx, u); err != nil {
		if isDuplicate(err) {
			return nil, s.reject(apperr.BadRequest("User with this email already exists"), "email", in.Email)
		}
		return nil, s.fail("signup", err)
	}
	if err := s.startSession(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("customer signed up", "user_id", u.ID)
	return u, nil
}

func (s *AuthService) RequestOTP(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return false, s.reject(apperr.BadRequest("email must be a valid email address"))
	}
	code, err := s.otp.Issue(email)
	if err != nil {
		return false, s.fail("issue otp", err)
	}
	if err := s.mail.SendOTP(ctx, email, code); err != nil {
		return false, s.fail("send otp", err)
	}
	s.log.Info("otp issued", "email", email)
	return true, nil
}

// VerifyOTP is false for a wrong or expired code
func (s *AuthService) VerifyOTP(_ context.Context, email, code string) (bool, error) {
	email = normalizeEmail(email)
	if !s.otp.Verify(email, code) {
		s.log.Warn("otp rejected", "email", email)
		return false, nil
	}
	s.log.Info("otp verified", "email", email)
	return true, nil
}

// SignIn completes the passwordless flow. The email must have passed VerifyOTP
// moments earlier; the verification is spent here.
func (s *AuthService) SignIn(ctx context.Context, email string) (*models.User, error) {
	email = normalizeEmail(email)
	if !s.otp.ConsumeVerified(email) {
		return nil, s.reject(apperr.Unauthorized("Email not verified. Request and verify an OTP first"), "email", email)
	}

	u, err := s.store.Users().GetByEmail(ctx, email)
	switch {
	case err == nil:
	case isNotFound(err):
		name := email
		if at := strings.IndexByte(email, '@'); at > 0 {
			name = email[:at]
		}
		u = &models.User{Name: name, Email: email, Role: models.RoleCustomer}
		if err := s.store.Users().Create(ctx, u); err != nil {
			return nil, s.fail("create otp user", err)
		}
		s.log.Info("customer created from otp sign-in", "user_id", u.ID)
	default:
		return nil, s.fail("sign-in lookup", err)
	}

	if err := s.startSession(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user signed in with otp", "user_id", u.ID)
	return u, nil
}

func (s *AuthService) Logout(ctx context.Context) bool {
	auth.ClearToken(ctx)
	if id, ok := caller(ctx); ok {
		s.log.Info("user logged out", "user_id", id.UserID)
	}
	return true
}

// Me returns the signed-in user, or nil for anonymous callers
func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	id, ok := caller(ctx)
	if !ok {
		return nil, nil
	}
	u, err := s.store.Users().GetByID(ctx, id.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, s.fail("me", err)
	}
	return u, nil
}
