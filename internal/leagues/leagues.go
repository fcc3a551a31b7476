// Package leagues manages the racing league directory shown on the site.
package leagues

import (
	"context"
	"time"
)

// Registration statuses, ranked for the public listing. Anything else sorts
// last.
const (
	StatusActive  = "active"
	StatusReserve = "reserve"
	StatusClosed  = "closed"
)

type League struct {
	LeagueID           int       `json:"league_id"`
	Name               string    `json:"name"`
	ImagePath          string    `json:"image_path"`
	Info               string    `json:"info"`
	HandbookURL        string    `json:"handbook_url"`
	StandingsURL       string    `json:"standings_url"`
	RegistrationURL    string    `json:"registration_url"`
	RegistrationStatus string    `json:"registration_status"`
	IsActive           bool      `json:"is_active"`
	IsArchived         bool      `json:"is_archived"`
	SortOrder          int       `json:"sort_order"`
	CreatedOn          time.Time `json:"created_on"`
}

// StatusRank orders leagues by how joinable they are, open registrations
// first.
func StatusRank(status string) int {
	switch status {
	case StatusActive:
		return 0
	case StatusReserve:
		return 1
	case StatusClosed:
		return 2
	default:
		return 3
	}
}

type Leagues struct {
	repository Repository
}

func NewLeagues(repository Repository) Leagues {
	return Leagues{repository: repository}
}

// Leagues lists the directory. The public view hides archived and inactive
// leagues.
func (l Leagues) Leagues(ctx context.Context, includeHidden bool) ([]League, error) {
	return l.repository.Leagues(ctx, includeHidden)
}

func (l Leagues) GetByID(ctx context.Context, leagueID int) (League, error) {
	return l.repository.GetByID(ctx, leagueID)
}

func (l Leagues) Create(ctx context.Context, league *League) error {
	if league.RegistrationStatus == "" {
		league.RegistrationStatus = StatusClosed
	}

	league.IsActive = true
	league.CreatedOn = time.Now()

	return l.repository.Save(ctx, league)
}

func (l Leagues) Update(ctx context.Context, league *League) error {
	return l.repository.Update(ctx, league)
}

func (l Leagues) Delete(ctx context.Context, leagueID int) error {
	return l.repository.Delete(ctx, leagueID)
}

// SetArchived toggles a league in or out of the archive without deleting its
// history.
func (l Leagues) SetArchived(ctx context.Context, leagueID int, archived bool) (League, error) {
	if errSet := l.repository.SetArchived(ctx, leagueID, archived); errSet != nil {
		return League{}, errSet
	}

	return l.repository.GetByID(ctx, leagueID)
}

func (l Leagues) Reorder(ctx context.Context, leagueIDs []int) error {
	return l.repository.Reorder(ctx, leagueIDs)
}
