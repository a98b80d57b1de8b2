package output

import (
	"fmt"
	"strings"
)

// FormatHeader formats a markdown header.
func FormatHeader(level int, title string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + title
}

// FormatKeyValue formats a markdown list item with a bold key.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s:** %s", key, value)
}

// FormatCode formats s as a fenced code block.
func FormatCode(lang, s string) string {
	return "```" + lang + "\n" + strings.TrimRight(s, "\n") + "\n```"
}
