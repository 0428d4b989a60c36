package services

import (
	"context"
	"sync"
	"testing"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"github.com/Jaypurnwasi/RestaurantApp/apperr"
	"github.com/Jaypurnwasi/RestaurantApp/auth"
	"github.com/Jaypurnwasi/RestaurantApp/logger"
	"github.com/Jaypurnwasi/RestaurantApp/models"
	"github.com/Jaypurnwasi/RestaurantApp/otp"
	"github.com/Jaypurnwasi/RestaurantApp/pubsub"
	"github.com/Jaypurnwasi/RestaurantApp/store"
	"github.com/Jaypurnwasi/RestaurantApp/store/gormstore"
)

type recordingMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

func (m *recordingMailer) SendOTP(_ context.Context, to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[to] = code
	return nil
}

func (m *recordingMailer) last(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[to]
}

type recordingSession struct {
	token   string
	cleared bool
}

func (r *recordingSession) SetToken(tok string) { r.token = tok }
func (r *recordingSession) ClearToken()         { r.token, r.cleared = "", true }

type env struct {
	svc    *Services
	store  store.Store
	broker *pubsub.Broker
	mail   *recordingMailer
	tokens *auth.Tokens
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st, err := gormstore.Open("sqlite", ":memory:", gormlogger.Silent)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	log := logger.Discard()
	e := &env{
		store:  st,
		broker: pubsub.New(8, log),
		mail:   &recordingMailer{codes: map[string]string{}},
		tokens: auth.NewTokens("test-secret", time.Hour),
	}
	e.svc = New(Deps{
		Store:  st,
		Broker: e.broker,
		Tokens: e.tokens,
		OTP:    otp.New(time.Minute, time.Minute),
		Mailer: e.mail,
		Log:    log,
	})
	return e
}

// as creates a user with role and returns a context acting as them
func (e *env) as(t *testing.T, role models.UserRole) (context.Context, *models.User) {
	t.Helper()
	u := &models.User{Name: string(role) + " user", Email: models.NewID() + "@example.com", Role: role}
	if err := e.store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create %s: %v", role, err)
	}
	ctx := auth.WithIdentity(context.Background(), &auth.Identity{UserID: u.ID, Name: u.Name, Email: u.Email, Role: role})
	return ctx, u
}

func (e *env) category(t *testing.T, admin context.Context, name string) *models.Category {
	t.Helper()
	c, err := e.svc.Categories.Add(admin, name)
	if err != nil {
		t.Fatalf("add category: %v", err)
	}
	return c
}

func (e *env) menuItem(t *testing.T, admin context.Context, categoryID, name string, price float64) *models.MenuItem {
	t.Helper()
	m, err := e.svc.Menu.Add(admin, AddMenuItemInput{
		Name:        name,
		Description: "house special " + name,
		Image:       "https://cdn.example.com/" + models.NewID() + ".png",
		Price:       price,
		CategoryID:  categoryID,
	})
	if err != nil {
		t.Fatalf("add menu item: %v", err)
	}
	return m
}

func (e *env) table(t *testing.T, admin context.Context, name string) *models.Table {
	t.Helper()
	tb, err := e.svc.Tables.Add(admin, name)
	if err != nil {
		t.Fatalf("add table: %v", err)
	}
	return tb
}

func wantCode(t *testing.T, err error, code apperr.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	if !apperr.Is(err, code) {
		t.Fatalf("expected %s, got %v", code, err)
	}
}
