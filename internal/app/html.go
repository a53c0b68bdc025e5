package app

import (
	"fmt"
	"strings"

	"github.com/nhle/chronicle-tui/internal/format"
	"github.com/nhle/chronicle-tui/internal/model"
)

// HTMLSnippet renders a task as a self-contained HTML fragment for
// pasting into rich-text contexts. All task-supplied text is escaped;
// only links that pass the scheme check become anchors.
func HTMLSnippet(task model.Task) string {
	var b strings.Builder

	title := format.EscapeForDisplay(task.Title)
	if task.IsDone() {
		title = "<s>" + title + "</s>"
	}
	fmt.Fprintf(&b, "<h3>%s</h3>\n", title)
	fmt.Fprintf(&b, "<p><b>%s</b> · %s</p>\n",
		format.EscapeForDisplay(strings.ToUpper(task.Category)),
		format.EscapeForDisplay(task.Status),
	)

	if task.Deadline != nil {
		fmt.Fprintf(&b, "<p>Deadline: %s</p>\n", format.FormatInstant(*task.Deadline))
	}
	if desc := strings.TrimSpace(task.Description); desc != "" {
		fmt.Fprintf(&b, "<p>%s</p>\n", format.EscapeForDisplay(desc))
	}
	if targets := strings.TrimSpace(task.Targets); targets != "" {
		fmt.Fprintf(&b, "<p>Targets: %s</p>\n", format.EscapeForDisplay(targets))
	}

	if links := format.SplitLinks(task.Links); len(links) > 0 {
		b.WriteString("<ul>\n")
		for _, link := range links {
			if err := format.ValidateLinkURL(link); err != nil {
				fmt.Fprintf(&b, "<li>%s</li>\n", format.EscapeForDisplay(link))
				continue
			}
			escaped := format.EscapeForDisplay(link)
			fmt.Fprintf(&b, "<li><a href=\"%s\">%s</a></li>\n", escaped, escaped)
		}
		b.WriteString("</ul>\n")
	}

	if len(task.Logs) > 0 {
		b.WriteString("<ol>\n")
		for _, log := range task.Logs {
			fmt.Fprintf(&b, "<li>%s: %s</li>\n",
				format.FormatInstant(log.CreatedAt),
				format.EscapeForDisplay(log.LogText),
			)
		}
		b.WriteString("</ol>\n")
	}

	return b.String()
}
