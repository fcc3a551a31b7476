package discord_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uksimracing/website/internal/discord"
)

func TestIntersects(t *testing.T) {
	require.True(t, discord.Intersects([]string{"1", "2"}, []string{"2", "3"}))
	require.False(t, discord.Intersects([]string{"1", "2"}, []string{"3", "4"}))
	require.False(t, discord.Intersects(nil, []string{"1"}))
	require.False(t, discord.Intersects([]string{"1"}, nil))
	require.False(t, discord.Intersects(nil, nil))
}
