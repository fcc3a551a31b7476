// Package partners manages the sponsor and partner directory.
package partners

import (
	"context"
	"time"
)

type Partner struct {
	PartnerID   int       `json:"partner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	LogoPath    string    `json:"logo_path"`
	PartnerType string    `json:"partner_type"`
	Benefits    string    `json:"benefits"`
	IsActive    bool      `json:"is_active"`
	IsFeatured  bool      `json:"is_featured"`
	SortOrder   int       `json:"sort_order"`
	CreatedOn   time.Time `json:"created_on"`
}

type Partners struct {
	repository Repository
}

func NewPartners(repository Repository) Partners {
	return Partners{repository: repository}
}

func (p Partners) Partners(ctx context.Context) ([]Partner, error) {
	return p.repository.Partners(ctx)
}

func (p Partners) GetByID(ctx context.Context, partnerID int) (Partner, error) {
	return p.repository.GetByID(ctx, partnerID)
}

func (p Partners) Create(ctx context.Context, partner *Partner) error {
	partner.CreatedOn = time.Now()

	return p.repository.Save(ctx, partner)
}

func (p Partners) Update(ctx context.Context, partner *Partner) error {
	return p.repository.Update(ctx, partner)
}

func (p Partners) Delete(ctx context.Context, partnerID int) error {
	return p.repository.Delete(ctx, partnerID)
}

func (p Partners) Reorder(ctx context.Context, partnerIDs []int) error {
	return p.repository.Reorder(ctx, partnerIDs)
}
