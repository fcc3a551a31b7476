package leagues_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uksimracing/website/internal/leagues"
)

func TestStatusRank(t *testing.T) {
	require.Equal(t, 0, leagues.StatusRank(leagues.StatusActive))
	require.Equal(t, 1, leagues.StatusRank(leagues.StatusReserve))
	require.Equal(t, 2, leagues.StatusRank(leagues.StatusClosed))
	require.Equal(t, 3, leagues.StatusRank("paused"))
	require.Equal(t, 3, leagues.StatusRank(""))
}

func TestStatusRankOrdering(t *testing.T) {
	statuses := []string{"closed", "", "active", "reserve", "paused", "active"}

	sort.SliceStable(statuses, func(i, j int) bool {
		return leagues.StatusRank(statuses[i]) < leagues.StatusRank(statuses[j])
	})

	require.Equal(t, []string{"active", "active", "reserve", "closed", "", "paused"}, statuses)
}
