package news

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const (
	defaultTitle     = "Untitled Post"
	shortTitleLimit  = 20
	mergedTitleLimit = 30
	titleLineLimit   = 3
)

var (
	paragraphSplitter = regexp.MustCompile(`\n\s*\n`)
	markdownLink      = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\s)]+)\)`)
	// Requires a leading boundary so URLs already inside an anchor href or
	// link text are not wrapped a second time.
	bareLink = regexp.MustCompile(`(^|[\s])(https?://[^\s<]+)`)
)

// bodyPolicy permits only the anchors the link rewriter generates, everything
// else in a relayed message is escaped.
var bodyPolicy = func() *bluemonday.Policy { //nolint:gochecknoglobals
	policy := bluemonday.NewPolicy()
	policy.AllowStandardURLs()
	policy.AllowAttrs("href", "target", "rel").OnElements("a")

	return policy
}()

type ParsedMessage struct {
	Title string
	Body  string
}

// ParseMessage extracts a title and HTML body from a raw Discord message.
// Blank-line separated paragraphs split into title and body directly. A
// single-paragraph message falls back to line splitting, where a short first
// line greedily absorbs following lines until the title is long enough.
func ParseMessage(content string) ParsedMessage {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ParsedMessage{Title: defaultTitle, Body: ""}
	}

	paragraphs := paragraphSplitter.Split(trimmed, -1)
	if len(paragraphs) > 1 {
		return ParsedMessage{
			Title: strings.TrimSpace(paragraphs[0]),
			Body:  renderBody(strings.TrimSpace(strings.Join(paragraphs[1:], "\n\n"))),
		}
	}

	lines := strings.Split(trimmed, "\n")
	title := strings.TrimSpace(lines[0])
	consumed := 1

	if len(title) <= shortTitleLimit {
		for consumed < len(lines) && consumed < titleLineLimit {
			line := strings.TrimSpace(lines[consumed])
			if line == "" {
				consumed++

				break
			}

			title += " " + line
			consumed++

			if len(title) > mergedTitleLimit {
				break
			}
		}
	}

	if title == "" {
		title = defaultTitle
	}

	return ParsedMessage{
		Title: title,
		Body:  renderBody(strings.TrimSpace(strings.Join(lines[consumed:], "\n"))),
	}
}

// renderBody converts links into anchors and sanitizes the result. Markdown
// links are rewritten before bare URLs so a URL inside link syntax is not
// wrapped twice.
func renderBody(body string) string {
	if body == "" {
		return ""
	}

	rewritten := markdownLink.ReplaceAllString(body,
		`<a href="$2" target="_blank" rel="noopener">$1</a>`)
	rewritten = bareLink.ReplaceAllString(rewritten,
		`$1<a href="$2" target="_blank" rel="noopener">$2</a>`)

	return bodyPolicy.Sanitize(rewritten)
}
