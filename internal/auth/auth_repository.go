package auth

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/uksimracing/website/internal/database"
)

var ErrMasterImmutable = errors.New("master account cannot be deleted")

// AdminUser is a row in the admin_user table. PasswordHash never leaves the
// auth package.
type AdminUser struct {
	AdminID      int        `json:"admin_id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CreatedBy    string     `json:"created_by"`
	CreatedOn    time.Time  `json:"created_on"`
	LastLogin    *time.Time `json:"last_login"`
}

type Repository struct {
	db database.Database
}

func NewRepository(db database.Database) Repository {
	return Repository{db: db}
}

const adminUserColumns = "admin_id, username, password_hash, role, created_by, created_on, last_login"

func (r Repository) scanUser(row interface{ Scan(...any) error }, user *AdminUser) error {
	return database.DBErr(row.Scan(&user.AdminID, &user.Username, &user.PasswordHash,
		&user.Role, &user.CreatedBy, &user.CreatedOn, &user.LastLogin))
}

func (r Repository) userBuilder() sq.SelectBuilder {
	return r.db.
		Builder().
		Select("admin_id", "username", "password_hash", "role", "created_by", "created_on", "last_login").
		From("admin_user")
}

func (r Repository) GetByUsername(ctx context.Context, username string) (AdminUser, error) {
	var user AdminUser

	row, errRow := r.db.QueryRowBuilder(ctx, r.userBuilder().Where(sq.Eq{"username": username}))
	if errRow != nil {
		return user, database.DBErr(errRow)
	}

	return user, r.scanUser(row, &user)
}

func (r Repository) GetByID(ctx context.Context, adminID int) (AdminUser, error) {
	var user AdminUser

	row, errRow := r.db.QueryRowBuilder(ctx, r.userBuilder().Where(sq.Eq{"admin_id": adminID}))
	if errRow != nil {
		return user, database.DBErr(errRow)
	}

	return user, r.scanUser(row, &user)
}

func (r Repository) GetMaster(ctx context.Context) (AdminUser, error) {
	var user AdminUser

	row, errRow := r.db.QueryRowBuilder(ctx, r.userBuilder().Where(sq.Eq{"role": "master"}))
	if errRow != nil {
		return user, database.DBErr(errRow)
	}

	return user, r.scanUser(row, &user)
}

func (r Repository) Users(ctx context.Context) ([]AdminUser, error) {
	rows, errQuery := r.db.QueryBuilder(ctx, r.userBuilder().OrderBy("created_on ASC"))
	if errQuery != nil {
		return nil, database.DBErr(errQuery)
	}

	defer rows.Close()

	users := []AdminUser{}

	for rows.Next() {
		var user AdminUser
		if errScan := r.scanUser(rows, &user); errScan != nil {
			return nil, errScan
		}

		users = append(users, user)
	}

	return users, nil
}

func (r Repository) Save(ctx context.Context, user *AdminUser) error {
	return database.DBErr(r.db.ExecInsertBuilderWithReturnValue(ctx, r.db.
		Builder().
		Insert("admin_user").
		SetMap(map[string]any{
			"username":      user.Username,
			"password_hash": user.PasswordHash,
			"role":          user.Role,
			"created_by":    user.CreatedBy,
			"created_on":    user.CreatedOn,
		}).
		Suffix("RETURNING admin_id"), &user.AdminID))
}

func (r Repository) SetPassword(ctx context.Context, adminID int, passwordHash string) error {
	return database.DBErr(r.db.ExecUpdateBuilder(ctx, r.db.
		Builder().
		Update("admin_user").
		Set("password_hash", passwordHash).
		Where(sq.Eq{"admin_id": adminID})))
}

func (r Repository) SetLastLogin(ctx context.Context, adminID int, when time.Time) error {
	return database.DBErr(r.db.ExecUpdateBuilder(ctx, r.db.
		Builder().
		Update("admin_user").
		Set("last_login", when).
		Where(sq.Eq{"admin_id": adminID})))
}

// Delete removes an admin account. The master row is excluded at the query
// level so it survives even a buggy caller.
func (r Repository) Delete(ctx context.Context, adminID int) error {
	return database.DBErr(r.db.ExecDeleteBuilder(ctx, r.db.
		Builder().
		Delete("admin_user").
		Where(sq.And{sq.Eq{"admin_id": adminID}, sq.NotEq{"role": "master"}})))
}
