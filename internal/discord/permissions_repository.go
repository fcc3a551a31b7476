package discord

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/uksimracing/website/internal/database"
)

// RolePermission is a Discord role granted one site capability. The two
// capabilities live in parallel tables keyed by role id.
type RolePermission struct {
	RoleID    string    `json:"role_id"`
	RoleName  string    `json:"role_name"`
	GrantedBy string    `json:"granted_by"`
	CreatedOn time.Time `json:"created_on"`
}

type PermissionsRepository struct {
	db database.Database
}

func NewPermissionsRepository(db database.Database) PermissionsRepository {
	return PermissionsRepository{db: db}
}

func capabilityTable(capability Capability) (string, bool) {
	switch capability {
	case CapabilityAdminPanel:
		return "discord_auth_role", true
	case CapabilityBotMentions:
		return "discord_mention_role", true
	default:
		return "", false
	}
}

func (r PermissionsRepository) Roles(ctx context.Context, capability Capability) ([]RolePermission, error) {
	table, ok := capabilityTable(capability)
	if !ok {
		return nil, ErrUnknownCapability
	}

	rows, errQuery := r.db.QueryBuilder(ctx, r.db.
		Builder().
		Select("role_id", "role_name", "granted_by", "created_on").
		From(table).
		OrderBy("created_on ASC"))
	if errQuery != nil {
		return nil, database.DBErr(errQuery)
	}

	defer rows.Close()

	roles := []RolePermission{}

	for rows.Next() {
		var role RolePermission
		if errScan := rows.Scan(&role.RoleID, &role.RoleName, &role.GrantedBy, &role.CreatedOn); errScan != nil {
			return nil, database.DBErr(errScan)
		}

		roles = append(roles, role)
	}

	return roles, nil
}

func (r PermissionsRepository) RoleIDs(ctx context.Context, capability Capability) ([]string, error) {
	roles, errRoles := r.Roles(ctx, capability)
	if errRoles != nil {
		return nil, errRoles
	}

	ids := make([]string, 0, len(roles))
	for _, role := range roles {
		ids = append(ids, role.RoleID)
	}

	return ids, nil
}

func (r PermissionsRepository) Grant(ctx context.Context, capability Capability, role RolePermission) error {
	table, ok := capabilityTable(capability)
	if !ok {
		return ErrUnknownCapability
	}

	return database.DBErr(r.db.ExecInsertBuilder(ctx, r.db.
		Builder().
		Insert(table).
		SetMap(map[string]any{
			"role_id":    role.RoleID,
			"role_name":  role.RoleName,
			"granted_by": role.GrantedBy,
			"created_on": role.CreatedOn,
		})))
}

func (r PermissionsRepository) Revoke(ctx context.Context, capability Capability, roleID string) error {
	table, ok := capabilityTable(capability)
	if !ok {
		return ErrUnknownCapability
	}

	return database.DBErr(r.db.ExecDeleteBuilder(ctx, r.db.
		Builder().
		Delete(table).
		Where(sq.Eq{"role_id": roleID})))
}

// MemberRoles reads the cached guild role ids for a Discord user.
func (r PermissionsRepository) MemberRoles(ctx context.Context, discordID string) ([]string, error) {
	rows, errQuery := r.db.QueryBuilder(ctx, r.db.
		Builder().
		Select("role_id").
		From("discord_member_role").
		Where(sq.Eq{"discord_id": discordID}))
	if errQuery != nil {
		return nil, database.DBErr(errQuery)
	}

	defer rows.Close()

	roleIDs := []string{}

	for rows.Next() {
		var roleID string
		if errScan := rows.Scan(&roleID); errScan != nil {
			return nil, database.DBErr(errScan)
		}

		roleIDs = append(roleIDs, roleID)
	}

	return roleIDs, nil
}

// SetMemberRoles replaces the cached role set for a user in one transaction.
func (r PermissionsRepository) SetMemberRoles(ctx context.Context, discordID string, roleIDs []string) error {
	return r.db.WrapTx(ctx, func(tx pgx.Tx) error {
		if _, errDelete := tx.Exec(ctx,
			"DELETE FROM discord_member_role WHERE discord_id = $1", discordID); errDelete != nil {
			return database.DBErr(errDelete)
		}

		now := time.Now()

		for _, roleID := range roleIDs {
			if _, errInsert := tx.Exec(ctx,
				"INSERT INTO discord_member_role (discord_id, role_id, updated_on) VALUES ($1, $2, $3)",
				discordID, roleID, now); errInsert != nil {
				return database.DBErr(errInsert)
			}
		}

		return nil
	})
}
