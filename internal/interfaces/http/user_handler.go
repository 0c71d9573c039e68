package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/linguaday/backend/internal/infrastructure/auth"
	"github.com/linguaday/backend/internal/infrastructure/driver"
	"github.com/linguaday/backend/internal/infrastructure/validate"
	"github.com/linguaday/backend/internal/user"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler user related operations
type UserHandler struct {
	JWTUtil        *auth.JWTUtil
	UserRepository user.UserRepository
	KVStore        driver.KeyValueDB
	UserUseCase    user.UserUseCase
	Validator      validate.Validator
	MaximumRetry   int
	RetryTimeout   time.Duration
}

// NewUserHandler create an user controller instance
func NewUserHandler(
	JWTUtil *auth.JWTUtil,
	UserRepository user.UserRepository,
	KVStore driver.KeyValueDB,
	UserUseCase user.UserUseCase,
	MaximumRetry int,
	RetryTimeout time.Duration,
	Validator validate.Validator,
) *UserHandler {
	handler := &UserHandler{
		JWTUtil:        JWTUtil,
		UserUseCase:    UserUseCase,
		Validator:      Validator,
		KVStore:        KVStore,
		UserRepository: UserRepository,
		MaximumRetry:   MaximumRetry,
		RetryTimeout:   RetryTimeout,
	}
	return handler
}

// HandleSignIn ...
func (uh *UserHandler) HandleSignIn(c echo.Context) (err error) {
	ju := uh.JWTUtil
	repo := uh.UserRepository

	// parse body
	post := new(user.UserModel)
	if err = c.Bind(&post); err != nil {
		internal := err.(*echo.HTTPError).Internal
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, internal.Error()))
	}
	post.Email = post.Username

	ctx := c.Request().Context()
	tx, err := repo.BeginTx(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError,
			NewRESTStandardError(http.StatusInternalServerError, "Failed to start the transaction"))
	}
	defer tx.Commit(ctx)

	found, err := repo.FindByCredential(ctx, post)
	if err != nil {
		return err
	}
	if found == nil {
		return c.JSON(http.StatusUnauthorized, NewRESTStandardError(http.StatusUnauthorized, user.ErrNoSuchUser.Error()))
	}
	if found.LoginRetry >= uh.MaximumRetry && withinRetryWindow(found.LastLogin, uh.RetryTimeout) {
		return c.JSON(http.StatusForbidden, NewRESTStandardError(http.StatusForbidden, user.ErrUserTooManyRetry.Error()))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(found.Password), []byte(post.Password)); err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			found.LoginRetry++
			found.LastLogin = time.Now().Unix()
			repo.UpdateUser(ctx, found)
			return c.JSON(http.StatusUnauthorized, NewRESTStandardError(http.StatusUnauthorized, user.ErrNoSuchUser.Error()))
		}
		return err
	}

	// reset retry number
	found.LoginRetry = 0
	found.LastLogin = time.Now().Unix()
	repo.UpdateUser(ctx, found)
	// issue JWT
	tokenStr, err := ju.GenerateTokenStr(found)
	if err != nil {
		return err
	}
	ju.SetClientToken(c, tokenStr)
	return c.NoContent(http.StatusOK)
}

// HandleSignUp ...
func (uh *UserHandler) HandleSignUp(c echo.Context) (err error) {
	UserUseCase := uh.UserUseCase
	post := new(user.UserModel)

	if err = c.Bind(&post); err != nil {
		internal := err.(*echo.HTTPError).Internal
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, internal.Error()))
	}

	// validation
	if err := uh.Validator.Struct(post); err != nil {
		return c.JSON(http.StatusBadRequest,
			NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", err))
	}

	// hash password
	if password, err := bcrypt.GenerateFromPassword([]byte(post.Password), bcrypt.DefaultCost); err == nil {
		post.Password = string(password)
	} else {
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, "Failed to create user"))
	}

	// register
	if _, err = UserUseCase.SignUp(c.Request().Context(), post); err != nil {
		if errors.Is(err, user.ErrDuplicatedUser) {
			return c.JSON(http.StatusConflict, NewRESTStandardError(http.StatusConflict, err.Error()))
		}
		return err
	}
	return c.NoContent(http.StatusCreated)
}

// HandleSignOut revoke the active token via the blacklist
func (uh *UserHandler) HandleSignOut(c echo.Context) (err error) {
	ju := uh.JWTUtil
	kv := uh.KVStore

	if tokenStr, err := ju.ExtractToken(c); err == nil {
		if token, err := ju.Validate(tokenStr); err == nil {
			ju.ClearClientToken(c)
			return kv.SetEX(tokenStr, "", token.TimeRemaining())
		}
		return c.NoContent(http.StatusUnauthorized)
	}
	return nil
}

// HandleUserExists ...
func (uh *UserHandler) HandleUserExists(c echo.Context) (err error) {
	UserUseCase := uh.UserUseCase
	post := new(user.UserModel)
	post.Username = c.QueryParam("username")
	post.Email = c.QueryParam("email")

	if err := uh.Validator.AllEmpty([]string{"username", "email"}, post.Username, post.Email); err != nil {
		return c.JSON(http.StatusBadRequest, NewRESTValidationError(http.StatusBadRequest, "Failed to validate params", []*validate.FieldError{err}))
	}

	existing, err := UserUseCase.Exists(c.Request().Context(), post)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, existing)
}

func withinRetryWindow(lastLogin int64, window time.Duration) bool {
	if lastLogin == 0 {
		return true
	}
	return time.Since(time.Unix(lastLogin, 0)) < window
}
