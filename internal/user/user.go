package user

import (
	"context"
	"errors"

	"github.com/linguaday/backend/internal/infrastructure/driver"
)

// UserModel a registered learner account
type UserModel struct {
	ID         string `json:"id"`
	Username   string `json:"username" validate:"required,min=3"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password,omitempty" validate:"required,min=8"`
	LoginRetry int    `json:"-"`
	LastLogin  int64  `json:"-"`
}

// ErrNoSuchUser failed to validate the credential
var ErrNoSuchUser = errors.New("No such user or password is incorrect")

// ErrDuplicatedUser unique key constraint violation
var ErrDuplicatedUser = errors.New("Username or email is already registered")

// ErrUserTooManyRetry account locked after too many failed logins
var ErrUserTooManyRetry = errors.New("Too many login attempts, account is locked for a while")

type UserRepository interface {
	FindByCredential(ctx context.Context, post *UserModel) (*UserModel, error)
	SaveUser(ctx context.Context, post *UserModel) error
	UpdateUser(ctx context.Context, post *UserModel) error
	BeginTx(ctx context.Context) (driver.ITransactionalDB, error)
}

type UserUseCase interface {
	SignUp(ctx context.Context, post *UserModel) (*UserModel, error)
	Exists(ctx context.Context, post *UserModel) (bool, error)
}
