package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wayfare/internal/account/domain"
	"wayfare/pkg/encrypt"
	"wayfare/pkg/logger"
	"wayfare/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepo Mock AccountRepository
type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) CreateAccount(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepo) UpdateAccountStatus(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepo) FindByAccount(ctx context.Context, accountQuery *domain.AccountQuery) (*domain.Account, error) {
	args := m.Called(ctx, accountQuery)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRedisRepo Mock RedisRepository for AccountSession
type MockRedisRepo struct {
	mock.Mock
}

func (m *MockRedisRepo) Set(ctx context.Context, key string, value domain.AccountSession, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockRedisRepo) Get(ctx context.Context, key string) (domain.AccountSession, error) {
	args := m.Called(ctx, key)
	if args.Get(0) != nil {
		return args.Get(0).(domain.AccountSession), args.Error(1)
	}
	return domain.AccountSession{}, args.Error(1)
}

func (m *MockRedisRepo) Del(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockRedisRepo) ExtendTTL(ctx context.Context, key string, ttl time.Duration) error {
	args := m.Called(ctx, key, ttl)
	return args.Error(0)
}

func (m *MockRedisRepo) GetTTL(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func TestMain(m *testing.M) {
	logger.Log = logger.Initialize("account_test", filepath.Join(os.TempDir(), "wayfare_test_logs"))
	os.Exit(m.Run())
}

func TestAccountUseCase_Register(t *testing.T) {
	ctx := context.Background()
	username := "alice_w"
	email := "alice@example.com"
	password := "!!Securepassword111"

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		mockRepo.On("FindByAccount", ctx, &domain.AccountQuery{Email: &email}).
			Return(nil, errors.New("not found")).Once()
		mockRepo.On("FindByAccount", ctx, &domain.AccountQuery{Username: &username}).
			Return(nil, errors.New("not found")).Once()
		mockRepo.On("CreateAccount", ctx, mock.Anything).Return(nil).Once()

		uc := NewAccountUseCase(mockRepo, time.Hour, new(MockRedisRepo))
		err := uc.Register(ctx, username, email, password)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)

		created := mockRepo.Calls[len(mockRepo.Calls)-1].Arguments.Get(1).(*domain.Account)
		assert.NotEmpty(t, created.AccountID)
		assert.NotEqual(t, password, created.Password, "password must be stored hashed")
	})

	t.Run("email already exists", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		mockRepo.On("FindByAccount", ctx, &domain.AccountQuery{Email: &email}).
			Return(&domain.Account{Email: email}, nil).Once()

		uc := NewAccountUseCase(mockRepo, time.Hour, new(MockRedisRepo))
		err := uc.Register(ctx, username, email, password)

		assert.Error(t, err)
		assert.Equal(t, "email already exists", err.Error())
		mockRepo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
	})

	t.Run("weak password", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		mockRepo.On("FindByAccount", ctx, mock.Anything).
			Return(nil, errors.New("not found")).Twice()

		uc := NewAccountUseCase(mockRepo, time.Hour, new(MockRedisRepo))
		err := uc.Register(ctx, username, email, "short")

		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
	})

	t.Run("create fails", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		mockRepo.On("FindByAccount", ctx, mock.Anything).
			Return(nil, errors.New("not found")).Twice()
		mockRepo.On("CreateAccount", ctx, mock.Anything).Return(errors.New("db error")).Once()

		uc := NewAccountUseCase(mockRepo, time.Hour, new(MockRedisRepo))
		err := uc.Register(ctx, username, email, password)

		assert.Error(t, err)
		assert.Equal(t, "db error", err.Error())
	})
}

func TestAccountUseCase_Login(t *testing.T) {
	ctx := context.Background()
	email := "alice@example.com"
	password := "!!Securepassword111"
	hashedPassword, _ := encrypt.HashPassword(password)

	existing := func() *domain.Account {
		return &domain.Account{
			AccountID: "acc-1",
			Username:  "alice_w",
			Email:     email,
			Password:  hashedPassword,
			Status:    domain.AccountStatusOffline,
		}
	}

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		mockRedis := new(MockRedisRepo)
		account := existing()

		mockRepo.On("FindByAccount", ctx, &domain.AccountQuery{Email: &email}).
			Return(account, nil).Once()
		mockRedis.On("Set", ctx, account.AccountID, mock.Anything, time.Hour).
			Return(nil).Once()
		mockRepo.On("UpdateAccountStatus", ctx, account).Return(nil).Once()

		uc := NewAccountUseCase(mockRepo, time.Hour, mockRedis)
		jwtToken, err := uc.Login(ctx, email, password)

		assert.NoError(t, err)
		assert.NotEmpty(t, jwtToken)
		assert.Equal(t, domain.AccountStatusOnline, account.Status)

		claims, err := token.ParseJWT(jwtToken)
		assert.NoError(t, err)
		assert.Equal(t, account.AccountID, claims.UserID)

		mockRepo.AssertExpectations(t)
		mockRedis.AssertExpectations(t)
	})

	t.Run("account not found", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		mockRepo.On("FindByAccount", ctx, &domain.AccountQuery{Email: &email}).
			Return(nil, errors.New("no account found with given criteria")).Once()

		uc := NewAccountUseCase(mockRepo, time.Hour, new(MockRedisRepo))
		jwtToken, err := uc.Login(ctx, email, password)

		assert.Error(t, err)
		assert.Empty(t, jwtToken)
	})

	t.Run("password mismatch", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		mockRepo.On("FindByAccount", ctx, &domain.AccountQuery{Email: &email}).
			Return(existing(), nil).Once()

		uc := NewAccountUseCase(mockRepo, time.Hour, new(MockRedisRepo))
		jwtToken, err := uc.Login(ctx, email, "wrong_password")

		assert.Error(t, err)
		assert.Empty(t, jwtToken)
	})

	t.Run("redis set fails", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		mockRedis := new(MockRedisRepo)
		account := existing()

		mockRepo.On("FindByAccount", ctx, &domain.AccountQuery{Email: &email}).
			Return(account, nil).Once()
		mockRedis.On("Set", ctx, account.AccountID, mock.Anything, time.Hour).
			Return(errors.New("redis error")).Once()

		uc := NewAccountUseCase(mockRepo, time.Hour, mockRedis)
		jwtToken, err := uc.Login(ctx, email, password)

		assert.Error(t, err)
		assert.Empty(t, jwtToken)
		mockRepo.AssertNotCalled(t, "UpdateAccountStatus", mock.Anything, mock.Anything)
	})
}

func TestAccountUseCase_Logout(t *testing.T) {
	ctx := context.Background()
	jwtToken, err := token.GenerateJWT("acc-1", string(token.RoleUser), "realtime_service")
	assert.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		mockRedis := new(MockRedisRepo)

		mockRedis.On("Del", ctx, "acc-1").Return(nil).Once()
		mockRepo.On("UpdateAccountStatus", ctx, &domain.Account{
			AccountID: "acc-1",
			Status:    domain.AccountStatusOffline,
		}).Return(nil).Once()

		uc := NewAccountUseCase(mockRepo, time.Hour, mockRedis)
		assert.NoError(t, uc.Logout(ctx, jwtToken))

		mockRedis.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
	})

	t.Run("invalid token", func(t *testing.T) {
		uc := NewAccountUseCase(new(MockAccountRepo), time.Hour, new(MockRedisRepo))
		assert.Error(t, uc.Logout(ctx, "not-a-token"))
	})
}

func TestAccountUseCase_RefreshSession(t *testing.T) {
	ctx := context.Background()
	jwtToken, err := token.GenerateJWT("acc-1", string(token.RoleUser), "realtime_service")
	assert.NoError(t, err)

	t.Run("extends live session", func(t *testing.T) {
		mockRedis := new(MockRedisRepo)
		mockRedis.On("GetTTL", ctx, "acc-1").Return(60, nil).Once()
		mockRedis.On("ExtendTTL", ctx, "acc-1", time.Hour).Return(nil).Once()

		uc := NewAccountUseCase(new(MockAccountRepo), time.Hour, mockRedis)
		assert.NoError(t, uc.RefreshSession(ctx, jwtToken))
		mockRedis.AssertExpectations(t)
	})

	t.Run("expired session", func(t *testing.T) {
		mockRedis := new(MockRedisRepo)
		mockRedis.On("GetTTL", ctx, "acc-1").Return(0, nil).Once()

		uc := NewAccountUseCase(new(MockAccountRepo), time.Hour, mockRedis)
		assert.Error(t, uc.RefreshSession(ctx, jwtToken))
		mockRedis.AssertNotCalled(t, "ExtendTTL", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAccountUseCase_Profile(t *testing.T) {
	ctx := context.Background()
	accountID := "acc-1"

	t.Run("public fields only", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		mockRepo.On("FindByAccount", ctx, &domain.AccountQuery{AccountID: &accountID}).
			Return(&domain.Account{
				AccountID:      accountID,
				Username:       "alice_w",
				Email:          "alice@example.com",
				Password:       "hash",
				ProfilePicture: "alice.png",
			}, nil).Once()

		uc := NewAccountUseCase(mockRepo, time.Hour, new(MockRedisRepo))
		profile, err := uc.Profile(ctx, accountID)

		assert.NoError(t, err)
		assert.Equal(t, accountID, profile.ID)
		assert.Equal(t, "alice_w", profile.Username)
		assert.Equal(t, "alice.png", profile.ProfilePicture)
	})

	t.Run("unknown account", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		mockRepo.On("FindByAccount", ctx, &domain.AccountQuery{AccountID: &accountID}).
			Return(nil, errors.New("no account found with given criteria")).Once()

		uc := NewAccountUseCase(mockRepo, time.Hour, new(MockRedisRepo))
		profile, err := uc.Profile(ctx, accountID)

		assert.Error(t, err)
		assert.Nil(t, profile)
	})
}
