package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/tx"
	"stockbook/pkg/logger"
)

const (
	minPasswordLength = 8
	maxLoginAttempts  = 5
	loginLockDuration = 15 * time.Minute
)

// RegistrationHook runs inside the registration transaction, after the
// account row is created. Used to seed per-account defaults.
type RegistrationHook func(ctx context.Context, accountID id.ID) error

// Service handles account registration and login.
type Service struct {
	repo      Repository
	jwt       *JWTService
	txManager tx.Manager

	registrationHooks []RegistrationHook
}

func NewService(repo Repository, jwt *JWTService, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		jwt:       jwt,
		txManager: txManager,
	}
}

// OnRegister appends a registration hook.
func (s *Service) OnRegister(hook RegistrationHook) {
	s.registrationHooks = append(s.registrationHooks, hook)
}

// Register creates a new account and seeds its defaults atomically.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Account, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if len(req.Password) < minPasswordLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", minPasswordLength)).
			WithDetail("field", "password")
	}

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apperror.NewDuplicate("account", "email", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := NewAccount(email, string(hash), strings.TrimSpace(req.BusinessName))
	if err := account.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, account); err != nil {
			return fmt.Errorf("create account: %w", err)
		}
		for _, hook := range s.registrationHooks {
			if err := hook(ctx, account.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "account registered", "account_id", account.ID, "email", email)

	return account, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, creds Credentials) (*TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid email or password")
		}
		return nil, err
	}

	if err := account.CanLogin(); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(creds.Password)); err != nil {
		account.RecordFailedLogin(maxLoginAttempts, loginLockDuration)
		if updateErr := s.repo.Update(ctx, account); updateErr != nil {
			logger.Warn(ctx, "record failed login", "error", updateErr)
		}
		return nil, apperror.NewUnauthorized("invalid email or password")
	}

	account.RecordSuccessfulLogin()
	if err := s.repo.Update(ctx, account); err != nil {
		logger.Warn(ctx, "record successful login", "error", err)
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
	}, nil
}

// GetByID returns the account.
func (s *Service) GetByID(ctx context.Context, accountID id.ID) (*Account, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("account", accountID.String())
		}
		return nil, err
	}
	return account, nil
}
