package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"wayfare/internal/account/domain"
)

// ErrAccountNotFound no account matched the given criteria
var ErrAccountNotFound = errors.New("no account found with given criteria")

// AccountRepository definition get Account info
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	UpdateAccountStatus(ctx context.Context, account *domain.Account) error
	FindByAccount(ctx context.Context, accountQuery *domain.AccountQuery) (*domain.Account, error)
}

type accountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository create an AccountRepository
func NewAccountRepository(db *pgxpool.Pool) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	_, err := r.db.Exec(ctx,
		"INSERT INTO account(account_id, username, email, password, profile_picture) VALUES ($1, $2, $3, $4, $5)",
		account.AccountID, account.Username, account.Email, account.Password, account.ProfilePicture)
	return err
}

func (r *accountRepository) UpdateAccountStatus(ctx context.Context, account *domain.Account) error {
	_, err := r.db.Exec(ctx,
		"UPDATE account SET status = $1 WHERE account_id = $2",
		account.Status, account.AccountID)
	return err
}

func (r *accountRepository) FindByAccount(ctx context.Context, accountQuery *domain.AccountQuery) (*domain.Account, error) {
	queryStr := "SELECT id, account_id, username, email, password, profile_picture, status FROM account WHERE 1=1"
	params := []interface{}{}
	paramCount := 1

	if accountQuery.Email != nil {
		queryStr += fmt.Sprintf(" AND email = $%d", paramCount)
		params = append(params, *accountQuery.Email)
		paramCount++
	}
	if accountQuery.Username != nil {
		queryStr += fmt.Sprintf(" AND username = $%d", paramCount)
		params = append(params, *accountQuery.Username)
		paramCount++
	}
	if accountQuery.AccountID != nil {
		queryStr += fmt.Sprintf(" AND account_id = $%d", paramCount)
		params = append(params, *accountQuery.AccountID)
		paramCount++
	}
	if accountQuery.ID != nil {
		queryStr += fmt.Sprintf(" AND id = $%d", paramCount)
		params = append(params, *accountQuery.ID)
		paramCount++
	}

	row := r.db.QueryRow(ctx, queryStr, params...)
	var account domain.Account
	err := row.Scan(&account.ID, &account.AccountID, &account.Username, &account.Email,
		&account.Password, &account.ProfilePicture, &account.Status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return &account, nil
}
