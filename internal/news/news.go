// Package news holds the article catalogue and the Discord message ingestion
// pipeline that feeds it.
package news

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

var (
	ErrMissingContent = errors.New("content is required")
	ErrMissingAuthor  = errors.New("author is required")
)

type Article struct {
	NewsID           int       `json:"news_id"`
	Title            string    `json:"title"`
	BodyHTML         string    `json:"body_html"`
	Author           string    `json:"author"`
	DiscordMessageID string    `json:"discord_message_id,omitempty"`
	ImageURL         string    `json:"image_url"`
	ImagePath        string    `json:"image_path"`
	SortOrder        int       `json:"sort_order"`
	CreatedOn        time.Time `json:"created_on"`
}

// IncomingMessage is the relayed Discord message payload accepted by the
// webhook endpoint.
type IncomingMessage struct {
	Content     string   `json:"content"`
	Author      string   `json:"author"`
	MessageID   string   `json:"message_id"`
	Attachments []string `json:"attachments"`
	Channel     string   `json:"channel"`
}

type News struct {
	repository Repository
	images     ImageResolver
}

func NewNews(repository Repository, images ImageResolver) News {
	return News{repository: repository, images: images}
}

func (n News) Articles(ctx context.Context, limit uint64, offset uint64) ([]Article, error) {
	return n.repository.Articles(ctx, limit, offset)
}

func (n News) GetByID(ctx context.Context, newsID int) (Article, error) {
	return n.repository.GetByID(ctx, newsID)
}

// CreateFromMessage runs the full ingestion pipeline: parse, resolve the
// image, persist. A replayed message id surfaces as a duplicate error from
// the unique constraint.
func (n News) CreateFromMessage(ctx context.Context, msg IncomingMessage) (Article, error) {
	if msg.Content == "" {
		return Article{}, ErrMissingContent
	}

	if msg.Author == "" {
		return Article{}, ErrMissingAuthor
	}

	parsed := ParseMessage(msg.Content)

	count, errCount := n.repository.Count(ctx)
	if errCount != nil {
		return Article{}, errCount
	}

	imageURL, imagePath := n.images.Resolve(ctx, msg.MessageID, msg.Attachments, count)

	article := Article{
		Title:            parsed.Title,
		BodyHTML:         parsed.Body,
		Author:           msg.Author,
		DiscordMessageID: msg.MessageID,
		ImageURL:         imageURL,
		ImagePath:        imagePath,
		CreatedOn:        time.Now(),
	}

	if errSave := n.repository.Save(ctx, &article); errSave != nil {
		return Article{}, errSave
	}

	slog.Info("Stored article from Discord message",
		slog.Int("news_id", article.NewsID), slog.String("title", article.Title))

	return article, nil
}

func (n News) Create(ctx context.Context, article *Article) error {
	if article.Title == "" {
		article.Title = "Untitled Post"
	}

	article.CreatedOn = time.Now()

	return n.repository.Save(ctx, article)
}

func (n News) Update(ctx context.Context, article *Article) error {
	return n.repository.Update(ctx, article)
}

func (n News) Delete(ctx context.Context, newsID int) error {
	return n.repository.Delete(ctx, newsID)
}

func (n News) Reorder(ctx context.Context, newsIDs []int) error {
	return n.repository.Reorder(ctx, newsIDs)
}
