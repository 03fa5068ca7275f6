package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/core/domain"
)

func managerUser() *domain.User {
	return &domain.User{ID: 1, Email: "manager@example.com", Name: "Demo Manager", Role: domain.RoleManager}
}

func TestAuthService_Login_PersistsSession(t *testing.T) {
	ctx, store := sessionContext()
	stub := &stubBackend{
		loginFn: func(ctx context.Context, email, password string) (domain.AuthToken, *domain.User, error) {
			if email != "manager@example.com" || password != "password123" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return domain.AuthToken{AccessToken: "tok", TokenType: "bearer"}, managerUser(), nil
		},
	}
	svc := NewAuthService(stub, zerolog.Nop())

	tok, user, err := svc.Login(ctx, "  manager@example.com ", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tok.AccessToken != "tok" || user.Role != domain.RoleManager {
		t.Fatalf("unexpected result: %+v %+v", tok, user)
	}

	ok, _ := svc.IsAuthenticated(ctx)
	if !ok {
		t.Fatalf("expected authenticated session")
	}
	current, _ := svc.CurrentUser(ctx)
	if current == nil || current.Role != domain.RoleManager {
		t.Fatalf("unexpected current user: %+v", current)
	}
	if stored, _ := store.Token(ctx); stored != "tok" {
		t.Fatalf("expected stored token, got %q", stored)
	}
}

func TestAuthService_Login_FailureLeavesSessionUntouched(t *testing.T) {
	ctx, _ := sessionContext()
	stub := &stubBackend{
		loginFn: func(ctx context.Context, email, password string) (domain.AuthToken, *domain.User, error) {
			return domain.AuthToken{}, nil, domain.ErrAuthenticationFailed
		},
	}
	svc := NewAuthService(stub, zerolog.Nop())

	if _, _, err := svc.Login(ctx, "manager@example.com", "bad"); !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
	if ok, _ := svc.IsAuthenticated(ctx); ok {
		t.Fatalf("expected no session after failed login")
	}
}

func TestAuthService_Login_KeepsPriorSessionOnFailure(t *testing.T) {
	ctx, store := sessionContext()
	if err := store.Save(ctx, "old", managerUser()); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	stub := &stubBackend{
		loginFn: func(ctx context.Context, email, password string) (domain.AuthToken, *domain.User, error) {
			return domain.AuthToken{}, nil, domain.ErrAuthenticationFailed
		},
	}
	svc := NewAuthService(stub, zerolog.Nop())

	_, _, _ = svc.Login(ctx, "someone@example.com", "bad")
	if tok, _ := store.Token(ctx); tok != "old" {
		t.Fatalf("expected prior token to survive, got %q", tok)
	}
}

func TestAuthService_Login_RejectsInvalidProfile(t *testing.T) {
	ctx, _ := sessionContext()
	managerID := 7
	stub := &stubBackend{
		loginFn: func(ctx context.Context, email, password string) (domain.AuthToken, *domain.User, error) {
			u := managerUser()
			u.ManagerID = &managerID
			return domain.AuthToken{AccessToken: "tok"}, u, nil
		},
	}
	svc := NewAuthService(stub, zerolog.Nop())

	if _, _, err := svc.Login(ctx, "manager@example.com", "pw"); !errors.Is(err, domain.ErrInvalidUser) {
		t.Fatalf("expected ErrInvalidUser, got %v", err)
	}
	if ok, _ := svc.IsAuthenticated(ctx); ok {
		t.Fatalf("invalid profile must not be stored")
	}
}

func TestAuthService_Logout(t *testing.T) {
	ctx, store := sessionContext()
	_ = store.Save(ctx, "tok", managerUser())
	svc := NewAuthService(&stubBackend{}, zerolog.Nop())

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if ok, _ := svc.IsAuthenticated(ctx); ok {
		t.Fatalf("expected signed out")
	}
}

func TestAuthService_Register_NoSessionEffect(t *testing.T) {
	ctx, _ := sessionContext()
	stub := &stubBackend{
		registerFn: func(ctx context.Context, in domain.Registration) (*domain.User, error) {
			if in.Role != domain.RoleEmployee {
				t.Fatalf("expected default employee role, got %q", in.Role)
			}
			return &domain.User{ID: 3, Email: in.Email, Name: in.Name, Role: in.Role}, nil
		},
	}
	svc := NewAuthService(stub, zerolog.Nop())

	u, err := svc.Register(ctx, domain.Registration{Email: "new@example.com", Name: "New", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID != 3 {
		t.Fatalf("unexpected user: %+v", u)
	}
	if ok, _ := svc.IsAuthenticated(ctx); ok {
		t.Fatalf("register must not sign in")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := NewAuthService(&stubBackend{}, zerolog.Nop())

	_, err := svc.Register(context.Background(), domain.Registration{Email: "bad", Password: "x", Role: "admin"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"email", "name", "password", "role"} {
		if ve.Field(field) == "" {
			t.Fatalf("expected %s to fail validation: %v", field, ve.Fields)
		}
	}
}

func TestAuthService_NoSessionInContext(t *testing.T) {
	svc := NewAuthService(&stubBackend{}, zerolog.Nop())

	if u, err := svc.CurrentUser(context.Background()); u != nil || err != nil {
		t.Fatalf("expected nil user without session, got %v %v", u, err)
	}
	if _, _, err := svc.Login(context.Background(), "a@example.com", "pw"); !errors.Is(err, errNoSession) {
		t.Fatalf("expected errNoSession, got %v", err)
	}
}
