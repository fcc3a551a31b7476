package auth

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/uksimracing/website/internal/config"
	"github.com/uksimracing/website/internal/database"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRoleNotAssignable  = errors.New("role cannot be assigned")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrHashPassword       = errors.New("failed to hash password")
)

const minPasswordLength = 8

type LoginResult struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// Users owns admin account lifecycle and credential checks.
type Users struct {
	repository Repository
	owner      config.OwnerConfig
}

func NewUsers(repository Repository, owner config.OwnerConfig) Users {
	return Users{repository: repository, owner: owner}
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", ErrPasswordTooShort
	}

	hash, errHash := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errHash != nil {
		return "", errors.Join(errHash, ErrHashPassword)
	}

	return string(hash), nil
}

// EnsureMaster bootstraps the single master account from the owner config on
// first startup. An existing master row is left untouched.
func (u Users) EnsureMaster(ctx context.Context) error {
	_, errMaster := u.repository.GetMaster(ctx)
	if errMaster == nil {
		return nil
	}

	if !errors.Is(errMaster, database.ErrNoResult) {
		return errMaster
	}

	if u.owner.Password == "" {
		slog.Warn("No owner password configured, skipping master account bootstrap")

		return nil
	}

	hash, errHash := hashPassword(u.owner.Password)
	if errHash != nil {
		return errHash
	}

	master := AdminUser{
		Username:     u.owner.Username,
		PasswordHash: hash,
		Role:         "master",
		CreatedBy:    "bootstrap",
		CreatedOn:    time.Now(),
	}

	if errSave := u.repository.Save(ctx, &master); errSave != nil {
		return errSave
	}

	slog.Info("Bootstrapped master account", slog.String("username", master.Username))

	return nil
}

// Login verifies a credential and returns a bearer token. A request without a
// username is treated as the legacy master-password login.
func (u Users) Login(ctx context.Context, username string, password string) (LoginResult, error) {
	if username == "" {
		username = u.owner.Username
	}

	user, errUser := u.repository.GetByUsername(ctx, username)
	if errUser != nil {
		if errors.Is(errUser, database.ErrNoResult) {
			return LoginResult{}, ErrInvalidCredentials
		}

		return LoginResult{}, errUser
	}

	if errCompare := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); errCompare != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	if errLogin := u.repository.SetLastLogin(ctx, user.AdminID, time.Now()); errLogin != nil {
		slog.Error("Failed to update last login", slog.String("username", user.Username))
	}

	token := NewUserToken(user.Role, strconv.Itoa(user.AdminID))
	if user.Role == "master" {
		token = "master-authenticated"
	}

	return LoginResult{Token: token, Role: user.Role, Username: user.Username}, nil
}

func (u Users) ChangePassword(ctx context.Context, username string, newPassword string) error {
	user, errUser := u.repository.GetByUsername(ctx, username)
	if errUser != nil {
		return errUser
	}

	hash, errHash := hashPassword(newPassword)
	if errHash != nil {
		return errHash
	}

	return u.repository.SetPassword(ctx, user.AdminID, hash)
}

func (u Users) Create(ctx context.Context, createdBy string, username string, password string, role string) (AdminUser, error) {
	if role != "admin" && role != "moderator" {
		return AdminUser{}, ErrRoleNotAssignable
	}

	hash, errHash := hashPassword(password)
	if errHash != nil {
		return AdminUser{}, errHash
	}

	user := AdminUser{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedBy:    createdBy,
		CreatedOn:    time.Now(),
	}

	if errSave := u.repository.Save(ctx, &user); errSave != nil {
		return AdminUser{}, errSave
	}

	return user, nil
}

func (u Users) Users(ctx context.Context) ([]AdminUser, error) {
	return u.repository.Users(ctx)
}

func (u Users) Delete(ctx context.Context, adminID int) error {
	user, errUser := u.repository.GetByID(ctx, adminID)
	if errUser != nil {
		return errUser
	}

	if user.Role == "master" {
		return ErrMasterImmutable
	}

	return u.repository.Delete(ctx, adminID)
}
