package auth

import (
	"context"
	"testing"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAccountRepo struct {
	byEmail map[string]*Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byEmail: make(map[string]*Account)}
}

func (r *fakeAccountRepo) Create(ctx context.Context, account *Account) error {
	if _, ok := r.byEmail[account.Email]; ok {
		return apperror.NewDuplicate("account", "email", account.Email)
	}
	r.byEmail[account.Email] = account
	return nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, accountID id.ID) (*Account, error) {
	for _, a := range r.byEmail {
		if a.ID == accountID {
			return a, nil
		}
	}
	return nil, apperror.NewNotFound("account", accountID.String())
}

func (r *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*Account, error) {
	a, ok := r.byEmail[email]
	if !ok {
		return nil, apperror.NewNotFound("account", email)
	}
	return a, nil
}

func (r *fakeAccountRepo) Update(ctx context.Context, account *Account) error {
	r.byEmail[account.Email] = account
	return nil
}

func (r *fakeAccountRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func newTestService() (*Service, *fakeAccountRepo) {
	repo := newFakeAccountRepo()
	jwt := NewJWTService(DefaultJWTConfig("test-secret"))
	return NewService(repo, jwt, fakeTxManager{}), repo
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	t.Run("happy path runs hooks", func(t *testing.T) {
		var hookedAccount id.ID
		svc.OnRegister(func(ctx context.Context, accountID id.ID) error {
			hookedAccount = accountID
			return nil
		})

		account, err := svc.Register(ctx, RegisterRequest{
			Email:    "Owner@Example.COM",
			Password: "correct horse",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if account.Email != "owner@example.com" {
			t.Errorf("email must be lowercased, got %s", account.Email)
		}
		if account.PasswordHash == "correct horse" {
			t.Error("password must never be stored in plain text")
		}
		if hookedAccount != account.ID {
			t.Error("registration hook must receive the new account id")
		}
	})

	t.Run("short password rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterRequest{Email: "a@b.co", Password: "short"})
		appErr, ok := apperror.AsAppError(err)
		if !ok || appErr.Code != apperror.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterRequest{
			Email:    "owner@example.com",
			Password: "another pass",
		})
		appErr, ok := apperror.AsAppError(err)
		if !ok || appErr.Code != apperror.CodeDuplicate {
			t.Fatalf("expected duplicate error, got %v", err)
		}
	})
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{
		Email:    "shop@example.com",
		Password: "correct horse",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	t.Run("valid credentials issue a token", func(t *testing.T) {
		token, err := svc.Login(ctx, Credentials{Email: "shop@example.com", Password: "correct horse"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token.AccessToken == "" || token.TokenType != "Bearer" {
			t.Errorf("unexpected token response: %+v", token)
		}
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		_, err := svc.Login(ctx, Credentials{Email: "shop@example.com", Password: "wrong"})
		appErr, ok := apperror.AsAppError(err)
		if !ok || appErr.Code != apperror.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})

	t.Run("unknown email gets the same answer as wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, Credentials{Email: "nobody@example.com", Password: "whatever"})
		appErr, ok := apperror.AsAppError(err)
		if !ok || appErr.Code != apperror.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})

	t.Run("repeated failures lock the account", func(t *testing.T) {
		for i := 0; i < maxLoginAttempts; i++ {
			_, _ = svc.Login(ctx, Credentials{Email: "shop@example.com", Password: "wrong"})
		}

		_, err := svc.Login(ctx, Credentials{Email: "shop@example.com", Password: "correct horse"})
		appErr, ok := apperror.AsAppError(err)
		if !ok || appErr.Code != apperror.CodeForbidden {
			t.Fatalf("expected locked account to be forbidden, got %v", err)
		}
	})
}

func TestJWT_RoundTrip(t *testing.T) {
	jwt := NewJWTService(DefaultJWTConfig("test-secret"))
	accountID := id.New()

	token, _, err := jwt.GenerateAccessToken(accountID, "x@y.co")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	acc, err := jwt.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if acc.AccountID != accountID {
		t.Error("token must carry the account id")
	}
	if acc.Email != "x@y.co" {
		t.Error("token must carry the email")
	}

	if _, err := jwt.ValidateToken(token + "tampered"); err == nil {
		t.Error("tampered token must fail validation")
	}
}
