package pagewatch

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"

	"github.com/hazyhaar/pagewatch/textdiff"
)

// Composer builds the outbound notification messages. The templates carry
// the monitored URL so the chat audience can jump straight to the page.
type Composer struct {
	url          string
	excerptLines int
	policy       *bluemonday.Policy
	md           *converter.Converter
}

// NewComposer creates a Composer for the given page URL. excerptLines > 0
// embeds a markdown excerpt of the page in the first-run message.
func NewComposer(url string, excerptLines int) *Composer {
	return &Composer{
		url:          url,
		excerptLines: excerptLines,
		policy:       bluemonday.UGCPolicy(),
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Started composes the "monitoring started" message, optionally embedding
// an excerpt of the page being tracked.
func (c *Composer) Started(raw string) string {
	msg := fmt.Sprintf("🎉 Page monitoring started! Tracking changes at %s", c.url)
	if ex := c.excerpt(raw); ex != "" {
		msg += "\n\nCurrently showing:\n" + ex
	}
	return msg
}

// Updated composes the "page updated" message. A nil summary degrades to
// the bare message (no previous snapshot was available to diff against).
func (c *Composer) Updated(sum *textdiff.Summary) string {
	msg := fmt.Sprintf("📢 Page updated! Check it out: %s", c.url)
	if sum != nil {
		msg += "\n\n" + sum.Render()
	}
	return msg
}

// Unchanged composes the "no changes" message.
func (c *Composer) Unchanged() string {
	return fmt.Sprintf("✅ Page checked - no changes detected at %s", c.url)
}

// excerpt renders the first excerptLines non-empty lines of the page as
// markdown. The markup is sanitized first so scripts and active content
// never reach the chat. Conversion failure just drops the excerpt.
func (c *Composer) excerpt(raw string) string {
	if c.excerptLines <= 0 || raw == "" {
		return ""
	}
	safe := c.policy.Sanitize(raw)
	md, err := c.md.ConvertString(safe, converter.WithDomain(c.url))
	if err != nil {
		return ""
	}
	var lines []string
	truncated := false
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(lines) == c.excerptLines {
			truncated = true
			break
		}
		lines = append(lines, line)
	}
	out := strings.Join(lines, "\n")
	if truncated {
		out += "\n..."
	}
	return out
}
