// Package payload assembles the text block written into a captured note.
package payload

import "strings"

// AppendHeading marks text added to a note that already existed.
const AppendHeading = "#### New Thought"

// Fields are the optional parts of a capture.
type Fields struct {
	Body      string
	LinkURL   string
	LinkLabel string
	Highlight string
}

// Empty reports whether no field carries text.
func (f Fields) Empty() bool {
	return blank(f.Body) && blank(f.LinkURL) && blank(f.Highlight)
}

// Format joins body, link citation, and quoted highlight with a blank line
// between blocks. Absent fields contribute nothing. With isAppend the body
// block starts with AppendHeading.
func Format(f Fields, isAppend bool) string {
	var blocks []string

	body := f.Body
	if isAppend {
		if blank(body) {
			body = AppendHeading
		} else {
			body = AppendHeading + "\n" + body
		}
	}
	if !blank(body) {
		blocks = append(blocks, body)
	}

	if !blank(f.LinkURL) {
		blocks = append(blocks, Link(f.LinkLabel, f.LinkURL))
	}

	if !blank(f.Highlight) {
		blocks = append(blocks, Quote(f.Highlight))
	}

	return strings.Join(blocks, "\n\n")
}

// Link renders a markdown link, using the URL itself when label is empty.
func Link(label, url string) string {
	label = strings.TrimSpace(label)
	url = strings.TrimSpace(url)
	if label == "" {
		label = url
	}
	return "[" + label + "](" + url + ")"
}

// Quote renders text as a markdown blockquote, one "> " per line.
func Quote(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
