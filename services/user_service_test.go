package services

import (
	"context"
	"testing"

	"github.com/Jaypurnwasi/RestaurantApp/apperr"
	"github.com/Jaypurnwasi/RestaurantApp/auth"
	"github.com/Jaypurnwasi/RestaurantApp/models"
)

func TestSingleAdminBootstrap(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	anon := context.Background()

	admin, err := e.svc.Users.CreateUser(anon, CreateUserInput{
		Name: "Owner", Email: "owner@example.com", Password: "secret1", Role: models.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("first admin: %v", err)
	}
	if admin.PasswordHash == "secret1" || admin.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}

	_, err = e.svc.Users.CreateUser(anon, CreateUserInput{
		Name: "Usurper", Email: "second@example.com", Password: "secret1", Role: models.RoleAdmin,
	})
	wantCode(t, err, apperr.CodeForbidden)
	if err.Error() != "Only one Admin is allowed" {
		t.Fatalf("message = %q", err.Error())
	}

	_, err = e.svc.Users.CreateUser(anon, CreateUserInput{
		Name: "Cook", Email: "cook@example.com", Password: "secret1", Role: models.RoleKitchenStaff,
	})
	wantCode(t, err, apperr.CodeUnauthenticated)

	adminCtx := auth.WithIdentity(anon, &auth.Identity{UserID: admin.ID, Role: models.RoleAdmin})
	cook, err := e.svc.Users.CreateUser(adminCtx, CreateUserInput{
		Name: "Cook", Email: "cook@example.com", Password: "secret1", Role: models.RoleKitchenStaff,
	})
	if err != nil {
		t.Fatalf("admin creates staff: %v", err)
	}

	cookCtx := auth.WithIdentity(anon, &auth.Identity{UserID: cook.ID, Role: models.RoleKitchenStaff})
	_, err = e.svc.Users.CreateUser(cookCtx, CreateUserInput{
		Name: "Waiter", Email: "waiter@example.com", Password: "secret1", Role: models.RoleWaiter,
	})
	wantCode(t, err, apperr.CodeForbidden)

	_, err = e.svc.Users.CreateUser(adminCtx, CreateUserInput{
		Name: "Dup", Email: "COOK@example.com", Password: "secret1", Role: models.RoleWaiter,
	})
	wantCode(t, err, apperr.CodeBadRequest)

	staff, err := e.svc.Users.ListStaff(adminCtx)
	if err != nil || len(staff) != 1 || staff[0].ID != cook.ID {
		t.Fatalf("staff = %+v, %v", staff, err)
	}
	_, err = e.svc.Users.ListCustomers(cookCtx)
	wantCode(t, err, apperr.CodeForbidden)
}

func TestSignupLoginAndCookie(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	sess := &recordingSession{}
	ctx := auth.WithSession(context.Background(), sess)

	u, err := e.svc.Auth.Signup(ctx, SignupInput{Name: "Kavya", Email: "Kavya@Example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if u.Role != models.RoleCustomer || u.Email != "kavya@example.com" {
		t.Fatalf("user = %+v", u)
	}
	if sess.token == "" {
		t.Fatal("signup should issue a session cookie")
	}

	_, err = e.svc.Auth.Signup(ctx, SignupInput{Name: "Again", Email: "kavya@example.com", Password: "hunter22"})
	wantCode(t, err, apperr.CodeBadRequest)

	_, err = e.svc.Auth.Signup(ctx, SignupInput{Name: "Short", Email: "short@example.com", Password: "123"})
	wantCode(t, err, apperr.CodeBadRequest)

	_, err = e.svc.Auth.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "hunter22"})
	wantCode(t, err, apperr.CodeUnauthorized)
	_, err = e.svc.Auth.Login(ctx, LoginInput{Email: "kavya@example.com", Password: "wrong-pass"})
	wantCode(t, err, apperr.CodeUnauthorized)

	sess.token = ""
	got, err := e.svc.Auth.Login(ctx, LoginInput{Email: "kavya@example.com", Password: "hunter22"})
	if err != nil || got.ID != u.ID {
		t.Fatalf("login = %+v, %v", got, err)
	}
	claims, err := e.tokens.ParseToken(sess.token)
	if err != nil || claims.UserID != u.ID || claims.Role != models.RoleCustomer {
		t.Fatalf("cookie token = %+v, %v", claims, err)
	}

	id, stale := e.svc.Auth.Identify(context.Background(), sess.token)
	if id == nil || stale || id.UserID != u.ID {
		t.Fatalf("identify = %+v, stale=%v", id, stale)
	}

	e.svc.Auth.Logout(ctx)
	if !sess.cleared {
		t.Fatal("logout should clear the cookie")
	}
}

func TestIdentifyDeletedUserIsStale(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx, u := e.as(t, models.RoleCustomer)
	token, _ := e.tokens.GenerateToken(u)

	sess := &recordingSession{}
	if _, err := e.svc.Users.DeleteAccount(auth.WithSession(ctx, sess)); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if !sess.cleared {
		t.Fatal("deleteAccount should clear the cookie")
	}

	id, stale := e.svc.Auth.Identify(context.Background(), token)
	if id != nil || !stale {
		t.Fatalf("identify = %+v, stale=%v; want anonymous and stale", id, stale)
	}
	if id, stale := e.svc.Auth.Identify(context.Background(), "garbage"); id != nil || stale {
		t.Fatal("invalid tokens are anonymous but not stale")
	}
}

func TestOTPSignIn(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	sess := &recordingSession{}
	ctx := auth.WithSession(context.Background(), sess)

	_, err := e.svc.Auth.SignIn(ctx, "guest@example.com")
	wantCode(t, err, apperr.CodeUnauthorized)

	if ok, err := e.svc.Auth.RequestOTP(ctx, "guest@example.com"); err != nil || !ok {
		t.Fatalf("request otp = %v, %v", ok, err)
	}
	code := e.mail.last("guest@example.com")
	if len(code) != 4 {
		t.Fatalf("mailed code %q", code)
	}

	wrong := "0000"
	if ok, _ := e.svc.Auth.VerifyOTP(ctx, "guest@example.com", wrong); ok {
		t.Fatal("wrong code verified")
	}
	if ok, _ := e.svc.Auth.VerifyOTP(ctx, "guest@example.com", code); !ok {
		t.Fatal("correct code rejected")
	}

	u, err := e.svc.Auth.SignIn(ctx, "guest@example.com")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if u.Role != models.RoleCustomer || sess.token == "" {
		t.Fatalf("user = %+v token=%q", u, sess.token)
	}

	_, err = e.svc.Auth.SignIn(ctx, "guest@example.com")
	wantCode(t, err, apperr.CodeUnauthorized)

	_, err = e.svc.Auth.RequestOTP(ctx, "not-an-email")
	wantCode(t, err, apperr.CodeBadRequest)
}

func TestProfileUpdates(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	anon := context.Background()

	u, err := e.svc.Auth.Signup(anon, SignupInput{Name: "Nisha", Email: "nisha@example.com", Password: "first-pass"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	_, _ = e.svc.Auth.Signup(anon, SignupInput{Name: "Taken", Email: "taken@example.com", Password: "first-pass"})
	ctx := auth.WithIdentity(anon, &auth.Identity{UserID: u.ID, Role: u.Role})

	name := "Nisha R"
	updated, err := e.svc.Users.UpdateUser(ctx, UpdateUserInput{Name: &name})
	if err != nil || updated.Name != name || updated.Email != "nisha@example.com" {
		t.Fatalf("update = %+v, %v", updated, err)
	}

	taken := "taken@example.com"
	_, err = e.svc.Users.UpdateUser(ctx, UpdateUserInput{Email: &taken})
	wantCode(t, err, apperr.CodeBadRequest)

	_, err = e.svc.Users.UpdatePassword(ctx, UpdatePasswordInput{CurrentPassword: "nope-nope", NewPassword: "second-pass"})
	wantCode(t, err, apperr.CodeUnauthorized)
	if ok, err := e.svc.Users.UpdatePassword(ctx, UpdatePasswordInput{CurrentPassword: "first-pass", NewPassword: "second-pass"}); err != nil || !ok {
		t.Fatalf("update password = %v, %v", ok, err)
	}
	if _, err := e.svc.Auth.Login(anon, LoginInput{Email: "nisha@example.com", Password: "second-pass"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	other, _ := e.as(t, models.RoleCustomer)
	_, err = e.svc.Users.GetUserByID(other, u.ID)
	wantCode(t, err, apperr.CodeForbidden)
	if me, err := e.svc.Users.GetUserByID(ctx, u.ID); err != nil || me.ID != u.ID {
		t.Fatalf("self lookup = %+v, %v", me, err)
	}
}

func TestRemoveUser(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	admin, adminUser := e.as(t, models.RoleAdmin)
	_, waiter := e.as(t, models.RoleWaiter)

	_, err := e.svc.Users.RemoveUser(admin, adminUser.ID)
	wantCode(t, err, apperr.CodeBadRequest)

	removed, err := e.svc.Users.RemoveUser(admin, waiter.ID)
	if err != nil || removed.ID != waiter.ID {
		t.Fatalf("remove = %+v, %v", removed, err)
	}
	_, err = e.svc.Users.RemoveUser(admin, waiter.ID)
	wantCode(t, err, apperr.CodeNotFound)
}
