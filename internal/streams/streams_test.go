package streams

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uksimracing/website/internal/config"
	"github.com/uksimracing/website/internal/thirdparty"
)

type captureNotifier struct {
	messages []string
}

func (n *captureNotifier) Notify(message string) error {
	n.messages = append(n.messages, message)

	return nil
}

func testMonitor() *Monitor {
	return NewMonitor(thirdparty.YouTubeClient{}, thirdparty.NewTwitchClient("", ""), config.TwitchConfig{
		TitleMarkers: []string{"uksimracing", "uksr"},
	})
}

func twitchStream(broadcasterID string, login string, title string) thirdparty.TwitchStream {
	return thirdparty.TwitchStream{
		BroadcasterID:    broadcasterID,
		BroadcasterLogin: login,
		BroadcasterName:  login,
		Title:            title,
		StartedAt:        time.Now(),
	}
}

func TestCommunityFiltering(t *testing.T) {
	monitor := testMonitor()

	monitor.updateCommunity([]thirdparty.TwitchStream{
		twitchStream("1", "alice", "UKSimRacing league night"),
		twitchStream("2", "bob", "casual laps"),
		twitchStream("3", "carol", "Racing with UKSR friends"),
	})

	community := monitor.Community()
	require.Len(t, community, 2)
	require.Equal(t, "alice", community[0].Login)
	require.Equal(t, "carol", community[1].Login)
	require.Equal(t, "https://www.twitch.tv/alice", community[0].URL)
}

func TestCommunityDedupesBroadcasters(t *testing.T) {
	monitor := testMonitor()

	monitor.updateCommunity([]thirdparty.TwitchStream{
		twitchStream("1", "alice", "uksr round 1"),
		twitchStream("1", "alice", "uksr round 1"),
	})

	require.Len(t, monitor.Community(), 1)
}

func TestCommunityNotifiesOncePerBroadcast(t *testing.T) {
	monitor := testMonitor()
	notifier := &captureNotifier{}
	monitor.SetNotifier(notifier)

	live := []thirdparty.TwitchStream{twitchStream("1", "alice", "uksr round 1")}

	monitor.updateCommunity(live)
	require.Len(t, notifier.messages, 1)
	require.Contains(t, notifier.messages[0], "https://www.twitch.tv/alice")

	// Still live, no repeat announcement.
	monitor.updateCommunity(live)
	require.Len(t, notifier.messages, 1)

	// Going offline prunes the notified set, the next stream announces again.
	monitor.updateCommunity(nil)
	require.Empty(t, monitor.Community())

	monitor.updateCommunity(live)
	require.Len(t, notifier.messages, 2)
}

func TestOfficialDefaultsOffline(t *testing.T) {
	monitor := testMonitor()

	official := monitor.Official()
	require.False(t, official.Live)
	require.Empty(t, official.URL)
}
