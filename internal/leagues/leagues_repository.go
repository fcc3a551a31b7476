package leagues

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

var leagueColumns = []string{ //nolint:gochecknoglobals
	"league_id", "name", "image_path", "info", "handbook_url", "standings_url",
	"registration_url", "registration_status", "is_active", "is_archived",
	"sort_order", "created_on",
}

// statusRankExpr mirrors StatusRank for ordering inside the query.
const statusRankExpr = "CASE registration_status " +
	"WHEN 'active' THEN 0 WHEN 'reserve' THEN 1 WHEN 'closed' THEN 2 ELSE 3 END"

func scanLeague(row interface{ Scan(...any) error }, league *League) error {
	return database.DBErr(row.Scan(&league.LeagueID, &league.Name, &league.ImagePath, &league.Info,
		&league.HandbookURL, &league.StandingsURL, &league.RegistrationURL,
		&league.RegistrationStatus, &league.IsActive, &league.IsArchived,
		&league.SortOrder, &league.CreatedOn))
}

func (r Repository) Leagues(ctx context.Context, includeHidden bool) ([]League, error) {
	builder := r.db.
		Builder().
		Select(leagueColumns...).
		From("league").
		OrderBy(statusRankExpr+" ASC", "created_on DESC")

	if !includeHidden {
		builder = builder.Where(sq.Eq{"is_archived": false, "is_active": true})
	}

	rows, errQuery := r.db.QueryBuilder(ctx, builder)
	if errQuery != nil {
		return nil, database.DBErr(errQuery)
	}

	defer rows.Close()

	collection := []League{}

	for rows.Next() {
		var league League
		if errScan := scanLeague(rows, &league); errScan != nil {
			return nil, errScan
		}

		collection = append(collection, league)
	}

	return collection, nil
}

func (r Repository) GetByID(ctx context.Context, leagueID int) (League, error) {
	var league League

	row, errRow := r.db.QueryRowBuilder(ctx, r.db.
		Builder().
		Select(leagueColumns...).
		From("league").
		Where(sq.Eq{"league_id": leagueID}))
	if errRow != nil {
		return league, database.DBErr(errRow)
	}

	return league, scanLeague(row, &league)
}

func (r Repository) Save(ctx context.Context, league *League) error {
	return database.DBErr(r.db.ExecInsertBuilderWithReturnValue(ctx, r.db.
		Builder().
		Insert("league").
		SetMap(map[string]any{
			"name":                league.Name,
			"image_path":          league.ImagePath,
			"info":                league.Info,
			"handbook_url":        league.HandbookURL,
			"standings_url":       league.StandingsURL,
			"registration_url":    league.RegistrationURL,
			"registration_status": league.RegistrationStatus,
			"is_active":           league.IsActive,
			"is_archived":         league.IsArchived,
			"sort_order":          league.SortOrder,
			"created_on":          league.CreatedOn,
		}).
		Suffix("RETURNING league_id"), &league.LeagueID))
}

func (r Repository) Update(ctx context.Context, league *League) error {
	return database.DBErr(r.db.ExecUpdateBuilder(ctx, r.db.
		Builder().
		Update("league").
		SetMap(map[string]any{
			"name":                league.Name,
			"image_path":          league.ImagePath,
			"info":                league.Info,
			"handbook_url":        league.HandbookURL,
			"standings_url":       league.StandingsURL,
			"registration_url":    league.RegistrationURL,
			"registration_status": league.RegistrationStatus,
			"is_active":           league.IsActive,
		}).
		Where(sq.Eq{"league_id": league.LeagueID})))
}

func (r Repository) SetArchived(ctx context.Context, leagueID int, archived bool) error {
	return database.DBErr(r.db.ExecUpdateBuilder(ctx, r.db.
		Builder().
		Update("league").
		Set("is_archived", archived).
		Where(sq.Eq{"league_id": leagueID})))
}

func (r Repository) Delete(ctx context.Context, leagueID int) error {
	return database.DBErr(r.db.ExecDeleteBuilder(ctx, r.db.
		Builder().
		Delete("league").
		Where(sq.Eq{"league_id": leagueID})))
}

func (r Repository) Reorder(ctx context.Context, leagueIDs []int) error {
	return r.db.WrapTx(ctx, func(tx pgx.Tx) error {
		for position, leagueID := range leagueIDs {
			if _, errExec := tx.Exec(ctx,
				"UPDATE league SET sort_order = $1 WHERE league_id = $2",
				position, leagueID); errExec != nil {
				return database.DBErr(errExec)
			}
		}

		return nil
	})
}
