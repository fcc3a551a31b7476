package discord

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanContent(t *testing.T) {
	require.Equal(t, "Big Race This Weekend",
		cleanContent("<@123456> #news Big Race This Weekend"))
	require.Equal(t, "Sign ups are open in",
		cleanContent("<@!123456> Sign ups   are open in <#789> #website"))
	require.Equal(t, "Role ping test",
		cleanContent("<@&555> Role ping test"))
	require.Empty(t, cleanContent("<@123456> #news"))
}

func TestCleanContentKeepsLineBreaks(t *testing.T) {
	cleaned := cleanContent("<@1> #news Race Report\n\nFull results   inside.")
	require.Equal(t, "Race Report\n\nFull results inside.", cleaned)
}
