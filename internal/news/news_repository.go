package news

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

// Articles returns the public listing. Manually pinned rows sort first via
// ascending sort_order, ties break newest first.
func (r Repository) Articles(ctx context.Context, limit uint64, offset uint64) ([]Article, error) {
	builder := r.db.
		Builder().
		Select("news_id", "title", "body_html", "author", "COALESCE(discord_message_id, '')",
			"image_url", "image_path", "sort_order", "created_on").
		From("news").
		OrderBy("sort_order ASC", "created_on DESC")

	if limit > 0 {
		builder = builder.Limit(limit).Offset(offset)
	}

	rows, errQuery := r.db.QueryBuilder(ctx, builder)
	if errQuery != nil {
		return nil, database.DBErr(errQuery)
	}

	defer rows.Close()

	articles := []Article{}

	for rows.Next() {
		var article Article
		if errScan := rows.Scan(&article.NewsID, &article.Title, &article.BodyHTML, &article.Author,
			&article.DiscordMessageID, &article.ImageURL, &article.ImagePath,
			&article.SortOrder, &article.CreatedOn); errScan != nil {
			return nil, database.DBErr(errScan)
		}

		articles = append(articles, article)
	}

	return articles, nil
}

func (r Repository) GetByID(ctx context.Context, newsID int) (Article, error) {
	var article Article

	row, errRow := r.db.QueryRowBuilder(ctx, r.db.
		Builder().
		Select("news_id", "title", "body_html", "author", "COALESCE(discord_message_id, '')",
			"image_url", "image_path", "sort_order", "created_on").
		From("news").
		Where(sq.Eq{"news_id": newsID}))
	if errRow != nil {
		return article, database.DBErr(errRow)
	}

	if errScan := row.Scan(&article.NewsID, &article.Title, &article.BodyHTML, &article.Author,
		&article.DiscordMessageID, &article.ImageURL, &article.ImagePath,
		&article.SortOrder, &article.CreatedOn); errScan != nil {
		return article, database.DBErr(errScan)
	}

	return article, nil
}

func (r Repository) Count(ctx context.Context) (int64, error) {
	return r.db.GetCount(ctx, r.db.Builder().Select("count(news_id)").From("news"))
}

// Save inserts with sort_order one below the current minimum so new articles
// always lead the ascending listing. An empty table starts at zero.
func (r Repository) Save(ctx context.Context, article *Article) error {
	return database.DBErr(r.db.ExecInsertBuilderWithReturnValue(ctx, r.db.
		Builder().
		Insert("news").
		SetMap(map[string]any{
			"title":              article.Title,
			"body_html":          article.BodyHTML,
			"author":             article.Author,
			"discord_message_id": sq.Expr("NULLIF(?, '')", article.DiscordMessageID),
			"image_url":          article.ImageURL,
			"image_path":         article.ImagePath,
			"sort_order":         sq.Expr("(SELECT COALESCE(MIN(sort_order), 1) - 1 FROM news)"),
			"created_on":         article.CreatedOn,
		}).
		Suffix("RETURNING news_id"), &article.NewsID))
}

func (r Repository) Update(ctx context.Context, article *Article) error {
	if errUpdate := r.db.ExecUpdateBuilder(ctx, r.db.
		Builder().
		Update("news").
		SetMap(map[string]any{
			"title":      article.Title,
			"body_html":  article.BodyHTML,
			"author":     article.Author,
			"image_url":  article.ImageURL,
			"image_path": article.ImagePath,
		}).
		Where(sq.Eq{"news_id": article.NewsID})); errUpdate != nil {
		return database.DBErr(errUpdate)
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, newsID int) error {
	return database.DBErr(r.db.ExecDeleteBuilder(ctx, r.db.
		Builder().
		Delete("news").
		Where(sq.Eq{"news_id": newsID})))
}

// Reorder rewrites sort_order to the positional index of every id in a
// single transaction.
func (r Repository) Reorder(ctx context.Context, newsIDs []int) error {
	return r.db.WrapTx(ctx, func(tx pgx.Tx) error {
		for position, newsID := range newsIDs {
			if _, errExec := tx.Exec(ctx,
				"UPDATE news SET sort_order = $1 WHERE news_id = $2",
				position, newsID); errExec != nil {
				return database.DBErr(errExec)
			}
		}

		return nil
	})
}
