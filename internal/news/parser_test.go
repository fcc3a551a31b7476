package news_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uksimracing/website/internal/news"
)

func TestParseMessageParagraphs(t *testing.T) {
	parsed := news.ParseMessage("Big Race This Weekend\n\nJoin us Saturday at 8pm for the season finale.")
	require.Equal(t, "Big Race This Weekend", parsed.Title)
	require.Equal(t, "Join us Saturday at 8pm for the season finale.", parsed.Body)
}

func TestParseMessageShortFirstLineMerges(t *testing.T) {
	parsed := news.ParseMessage("Round 4\nSilverstone GP\nEntry list is now open for all members.")
	require.Equal(t, "Round 4 Silverstone GP", parsed.Title)
	require.Equal(t, "Entry list is now open for all members.", parsed.Body)
}

func TestParseMessageLongFirstLineKept(t *testing.T) {
	parsed := news.ParseMessage("Championship standings after round three\nFull table below.")
	require.Equal(t, "Championship standings after round three", parsed.Title)
	require.Equal(t, "Full table below.", parsed.Body)
}

func TestParseMessageMergeBoundedToThreeLines(t *testing.T) {
	parsed := news.ParseMessage("A\nB\nC\nD\nE")
	require.Equal(t, "A B C", parsed.Title)
	require.Equal(t, "D\nE", parsed.Body)
}

func TestParseMessageMergeStopsAtBlankLine(t *testing.T) {
	// The blank line is inside the merge window but paragraph splitting has
	// priority, so this parses as paragraphs first.
	parsed := news.ParseMessage("Qualifying\n\nTimes are up on the site.")
	require.Equal(t, "Qualifying", parsed.Title)
	require.Equal(t, "Times are up on the site.", parsed.Body)
}

func TestParseMessageBlank(t *testing.T) {
	for _, content := range []string{"", "   ", "\n\n"} {
		parsed := news.ParseMessage(content)
		require.Equal(t, "Untitled Post", parsed.Title)
		require.Empty(t, parsed.Body)
	}
}

func TestParseMessageMarkdownLinkNotDoubleWrapped(t *testing.T) {
	parsed := news.ParseMessage("Stream tonight\n\nWatch [the stream](https://example.com/live) here.")
	require.Contains(t, parsed.Body, `<a href="https://example.com/live" target="_blank" rel="noopener">the stream</a>`)
	require.Equal(t, 1, strings.Count(parsed.Body, "<a "))
}

func TestParseMessageBareLinkWrapped(t *testing.T) {
	parsed := news.ParseMessage("Stream tonight\n\nWatch https://example.com/live here.")
	require.Contains(t, parsed.Body, `<a href="https://example.com/live"`)
}

func TestParseMessageHTMLEscaped(t *testing.T) {
	parsed := news.ParseMessage("Heads up\n\n<script>alert(1)</script> see you there")
	require.NotContains(t, parsed.Body, "<script>")
}
