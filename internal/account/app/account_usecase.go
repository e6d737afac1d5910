package app

import (
	"context"
	"errors"
	"time"

	"wayfare/internal/account/domain"
	"wayfare/internal/account/repository"
	socialdomain "wayfare/internal/social/domain"
	"wayfare/pkg/config"
	"wayfare/pkg/database"
	"wayfare/pkg/encrypt"
	"wayfare/pkg/logger"
	"wayfare/pkg/token"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountUseCase definition the account application services
type AccountUseCase interface {
	Register(ctx context.Context, username, email, password string) error
	FindAccount(ctx context.Context, param *domain.AccountQuery) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
	RefreshSession(ctx context.Context, token string) error
	Profile(ctx context.Context, accountID string) (*socialdomain.Profile, error)
}

type accountUseCase struct {
	accountRepo repository.AccountRepository
	sessionTTL  time.Duration
	redisRepo   database.RedisRepository[domain.AccountSession]
}

// NewAccountUseCase create an AccountUseCase
func NewAccountUseCase(accountRepo repository.AccountRepository,
	sessionTTL time.Duration,
	redisRepo database.RedisRepository[domain.AccountSession],
) AccountUseCase {
	return &accountUseCase{
		accountRepo: accountRepo,
		sessionTTL:  sessionTTL,
		redisRepo:   redisRepo,
	}
}

// Register create a new account after checking the email is free
func (a *accountUseCase) Register(ctx context.Context, username, email, password string) error {
	if username == "" || email == "" {
		return errors.New("missing username or email")
	}
	if _, err := a.accountRepo.FindByAccount(ctx, &domain.AccountQuery{Email: &email}); err == nil {
		return errors.New("email already exists")
	}
	if _, err := a.accountRepo.FindByAccount(ctx, &domain.AccountQuery{Username: &username}); err == nil {
		return errors.New("username already exists")
	}

	pw, err := encrypt.HashPassword(password)
	if err != nil {
		return err
	}

	account := domain.Account{
		AccountID: uuid.New().String(),
		Username:  username,
		Email:     email,
		Password:  pw,
	}

	logger.Log.Info("register account", zap.String("username", username))

	return a.accountRepo.CreateAccount(ctx, &account)
}

// FindAccount look up one account by query
func (a *accountUseCase) FindAccount(ctx context.Context, param *domain.AccountQuery) (*domain.Account, error) {
	return a.accountRepo.FindByAccount(ctx, param)
}

// Login verify credentials, open a redis session and issue a JWT
func (a *accountUseCase) Login(ctx context.Context, email, password string) (string, error) {
	account, err := a.accountRepo.FindByAccount(ctx, &domain.AccountQuery{Email: &email})
	if err != nil {
		logger.Log.Error("login: email not found", zap.String("email", email))
		return "", errors.New("account not found")
	}

	if err = account.IsPasswordMatch(password); err != nil {
		logger.Log.Error("login: password mismatch", zap.String("accountID", account.AccountID))
		return "", err
	}

	account.Status = domain.AccountStatusOnline

	jwtToken, err := token.GenerateJWT(account.AccountID, string(token.RoleUser), config.EnvConfig.RealtimeService)
	if err != nil {
		return "", err
	}

	now := time.Now()
	session := domain.AccountSession{
		Token:        jwtToken,
		AccountID:    account.AccountID,
		CreatedAt:    now,
		LastActivity: now,
		ExpiredAt:    now.Add(a.sessionTTL),
	}
	if err := a.redisRepo.Set(ctx, account.AccountID, session, a.sessionTTL); err != nil {
		return "", err
	}

	if err := a.accountRepo.UpdateAccountStatus(ctx, account); err != nil {
		return "", err
	}

	return jwtToken, nil
}

// Logout drop the redis session and flip the account offline
func (a *accountUseCase) Logout(ctx context.Context, t string) error {
	tokenInfo, err := token.ParseJWT(t)
	if err != nil {
		logger.Log.Error("logout", zap.Error(err))
		return err
	}

	if err := a.redisRepo.Del(ctx, tokenInfo.UserID); err != nil {
		logger.Log.Error("logout: drop session", zap.Error(err))
	}

	return a.accountRepo.UpdateAccountStatus(ctx, &domain.Account{
		AccountID: tokenInfo.UserID,
		Status:    domain.AccountStatusOffline,
	})
}

// RefreshSession extend the redis session of a reconnecting client
func (a *accountUseCase) RefreshSession(ctx context.Context, t string) error {
	tokenInfo, err := token.ParseJWT(t)
	if err != nil {
		logger.Log.Error("refresh session", zap.Error(err))
		return err
	}

	ttl, err := a.redisRepo.GetTTL(ctx, tokenInfo.UserID)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		return errors.New("session expired")
	}

	return a.redisRepo.ExtendTTL(ctx, tokenInfo.UserID, a.sessionTTL)
}

// Profile the public fields embedded in pushes and peer listings
func (a *accountUseCase) Profile(ctx context.Context, accountID string) (*socialdomain.Profile, error) {
	account, err := a.accountRepo.FindByAccount(ctx, &domain.AccountQuery{AccountID: &accountID})
	if err != nil {
		return nil, err
	}
	return &socialdomain.Profile{
		ID:             account.AccountID,
		Username:       account.Username,
		ProfilePicture: account.ProfilePicture,
	}, nil
}
