// Package streams tracks the live status of the official broadcast channel
// and a rolling list of community streams found on Twitch.
package streams

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/uksimracing/website/internal/config"
	"github.com/uksimracing/website/internal/thirdparty"
	"github.com/uksimracing/website/pkg/log"
)

const maxCommunityStreams = 200

// Notifier posts a plain text message to the community announcement channel.
// Satisfied by the discord bot, nil when the bot is disabled.
type Notifier interface {
	Notify(message string) error
}

type LiveStream struct {
	Live     bool   `json:"live"`
	Platform string `json:"platform,omitempty"`
	ID       string `json:"id,omitempty"`
	Title    string `json:"title,omitempty"`
	URL      string `json:"url,omitempty"`
}

type CommunityStream struct {
	BroadcasterID   string    `json:"broadcaster_id"`
	BroadcasterName string    `json:"broadcaster_name"`
	Login           string    `json:"login"`
	Title           string    `json:"title"`
	GameName        string    `json:"game_name"`
	ViewerCount     int       `json:"viewer_count"`
	ThumbnailURL    string    `json:"thumbnail_url"`
	URL             string    `json:"url"`
	StartedAt       time.Time `json:"started_at"`
}

// Monitor holds the process-lifetime stream state refreshed by the scheduler.
type Monitor struct {
	youtube  thirdparty.YouTubeClient
	twitch   *thirdparty.TwitchClient
	conf     config.TwitchConfig
	notifier Notifier

	mu        sync.RWMutex
	official  LiveStream
	community []CommunityStream
	notified  map[string]bool
}

func NewMonitor(youtube thirdparty.YouTubeClient, twitch *thirdparty.TwitchClient, conf config.TwitchConfig) *Monitor {
	return &Monitor{
		youtube:   youtube,
		twitch:    twitch,
		conf:      conf,
		community: []CommunityStream{},
		notified:  map[string]bool{},
	}
}

// SetNotifier attaches the announcement sink after construction, the bot is
// started later than the monitor during boot.
func (m *Monitor) SetNotifier(notifier Notifier) {
	m.mu.Lock()
	m.notifier = notifier
	m.mu.Unlock()
}

func (m *Monitor) Official() LiveStream {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.official
}

func (m *Monitor) Community() []CommunityStream {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]CommunityStream, len(m.community))
	copy(out, m.community)

	return out
}

// CheckOfficial refreshes the official channel status, preferring a YouTube
// live broadcast and falling back to the Twitch channel. Upstream failures
// leave the previous state in place.
func (m *Monitor) CheckOfficial(ctx context.Context) {
	live, found, errLive := m.youtube.LiveStream(ctx)
	if errLive != nil {
		slog.Warn("Failed to query youtube live status", log.ErrAttr(errLive))
	} else if found {
		m.setOfficial(LiveStream{
			Live:     true,
			Platform: "youtube",
			ID:       live.VideoID,
			Title:    live.Title,
			URL:      "https://www.youtube.com/watch?v=" + live.VideoID,
		})

		return
	}

	if m.conf.Channel != "" {
		stream, online, errStream := m.twitch.StreamByLogin(ctx, m.conf.Channel)
		if errStream != nil {
			slog.Warn("Failed to query twitch channel status", log.ErrAttr(errStream))

			return
		}

		if online {
			m.setOfficial(LiveStream{
				Live:     true,
				Platform: "twitch",
				ID:       stream.BroadcasterLogin,
				Title:    stream.Title,
				URL:      "https://www.twitch.tv/" + stream.BroadcasterLogin,
			})

			return
		}
	}

	if errLive == nil {
		m.setOfficial(LiveStream{Live: false})
	}
}

func (m *Monitor) setOfficial(stream LiveStream) {
	m.mu.Lock()
	m.official = stream
	m.mu.Unlock()
}

// CheckCommunity scans the configured Twitch categories for streams whose
// titles carry a community marker and refreshes the cached list.
func (m *Monitor) CheckCommunity(ctx context.Context) {
	var found []thirdparty.TwitchStream

	for _, gameID := range m.conf.GameIDs {
		streams, errSearch := m.twitch.SearchStreams(ctx, gameID, maxCommunityStreams)
		if errSearch != nil {
			slog.Warn("Failed to search twitch streams",
				slog.String("game_id", gameID), log.ErrAttr(errSearch))

			return
		}

		found = append(found, streams...)
	}

	m.updateCommunity(found)
}

// updateCommunity filters, dedupes and stores the candidate streams, sending
// a single notification for broadcasters not seen live before. Broadcasters
// that went offline are pruned from the notified set so a later stream
// announces again.
func (m *Monitor) updateCommunity(candidates []thirdparty.TwitchStream) {
	seen := map[string]bool{}
	matched := make([]CommunityStream, 0, len(candidates))

	var fresh []CommunityStream

	m.mu.Lock()

	for _, candidate := range candidates {
		if seen[candidate.BroadcasterID] {
			continue
		}

		if !thirdparty.TitleMatchesMarkers(candidate.Title, m.conf.TitleMarkers) {
			continue
		}

		seen[candidate.BroadcasterID] = true

		stream := CommunityStream{
			BroadcasterID:   candidate.BroadcasterID,
			BroadcasterName: candidate.BroadcasterName,
			Login:           candidate.BroadcasterLogin,
			Title:           candidate.Title,
			GameName:        candidate.GameName,
			ViewerCount:     candidate.ViewerCount,
			ThumbnailURL:    candidate.ThumbnailURL,
			URL:             "https://www.twitch.tv/" + candidate.BroadcasterLogin,
			StartedAt:       candidate.StartedAt,
		}

		matched = append(matched, stream)

		if !m.notified[candidate.BroadcasterID] {
			m.notified[candidate.BroadcasterID] = true
			fresh = append(fresh, stream)
		}
	}

	for broadcasterID := range m.notified {
		if !seen[broadcasterID] {
			delete(m.notified, broadcasterID)
		}
	}

	m.community = matched
	notifier := m.notifier

	m.mu.Unlock()

	if notifier == nil {
		return
	}

	for _, stream := range fresh {
		message := stream.BroadcasterName + " is live: " + stream.Title + " " + stream.URL
		if errNotify := notifier.Notify(message); errNotify != nil {
			slog.Warn("Failed to announce community stream",
				slog.String("login", stream.Login), log.ErrAttr(errNotify))
		}
	}
}
