package partners

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/uksimracing/website/internal/database"
)

type Repository struct {
	db database.Database
}

func NewRepository(db database.Database) Repository {
	return Repository{db: db}
}

var partnerColumns = []string{ //nolint:gochecknoglobals
	"partner_id", "name", "description", "url", "logo_path", "partner_type",
	"benefits", "is_active", "is_featured", "sort_order", "created_on",
}

func scanPartner(row interface{ Scan(...any) error }, partner *Partner) error {
	return database.DBErr(row.Scan(&partner.PartnerID, &partner.Name, &partner.Description,
		&partner.URL, &partner.LogoPath, &partner.PartnerType, &partner.Benefits,
		&partner.IsActive, &partner.IsFeatured, &partner.SortOrder, &partner.CreatedOn))
}

func (r Repository) Partners(ctx context.Context) ([]Partner, error) {
	rows, errQuery := r.db.QueryBuilder(ctx, r.db.
		Builder().
		Select(partnerColumns...).
		From("partner").
		OrderBy("sort_order ASC", "created_on DESC"))
	if errQuery != nil {
		return nil, database.DBErr(errQuery)
	}

	defer rows.Close()

	collection := []Partner{}

	for rows.Next() {
		var partner Partner
		if errScan := scanPartner(rows, &partner); errScan != nil {
			return nil, errScan
		}

		collection = append(collection, partner)
	}

	return collection, nil
}

func (r Repository) GetByID(ctx context.Context, partnerID int) (Partner, error) {
	var partner Partner

	row, errRow := r.db.QueryRowBuilder(ctx, r.db.
		Builder().
		Select(partnerColumns...).
		From("partner").
		Where(sq.Eq{"partner_id": partnerID}))
	if errRow != nil {
		return partner, database.DBErr(errRow)
	}

	return partner, scanPartner(row, &partner)
}

func (r Repository) Save(ctx context.Context, partner *Partner) error {
	return database.DBErr(r.db.ExecInsertBuilderWithReturnValue(ctx, r.db.
		Builder().
		Insert("partner").
		SetMap(map[string]any{
			"name":         partner.Name,
			"description":  partner.Description,
			"url":          partner.URL,
			"logo_path":    partner.LogoPath,
			"partner_type": partner.PartnerType,
			"benefits":     partner.Benefits,
			"is_active":    partner.IsActive,
			"is_featured":  partner.IsFeatured,
			"sort_order":   partner.SortOrder,
			"created_on":   partner.CreatedOn,
		}).
		Suffix("RETURNING partner_id"), &partner.PartnerID))
}

func (r Repository) Update(ctx context.Context, partner *Partner) error {
	return database.DBErr(r.db.ExecUpdateBuilder(ctx, r.db.
		Builder().
		Update("partner").
		SetMap(map[string]any{
			"name":         partner.Name,
			"description":  partner.Description,
			"url":          partner.URL,
			"logo_path":    partner.LogoPath,
			"partner_type": partner.PartnerType,
			"benefits":     partner.Benefits,
			"is_active":    partner.IsActive,
			"is_featured":  partner.IsFeatured,
		}).
		Where(sq.Eq{"partner_id": partner.PartnerID})))
}

func (r Repository) Delete(ctx context.Context, partnerID int) error {
	return database.DBErr(r.db.ExecDeleteBuilder(ctx, r.db.
		Builder().
		Delete("partner").
		Where(sq.Eq{"partner_id": partnerID})))
}

func (r Repository) Reorder(ctx context.Context, partnerIDs []int) error {
	return r.db.WrapTx(ctx, func(tx pgx.Tx) error {
		for position, partnerID := range partnerIDs {
			if _, errExec := tx.Exec(ctx,
				"UPDATE partner SET sort_order = $1 WHERE partner_id = $2",
				position, partnerID); errExec != nil {
				return database.DBErr(errExec)
			}
		}

		return nil
	})
}
