package render

import (
	"strings"

	"golang.org/x/net/html"
)

// blockTags end the current line of extracted text
var blockTags = map[string]bool{
	"br": true, "p": true, "div": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "pre": true,
	"g": true, "text": true, "section": true, "article": true,
}

// skipTags have content that is never shown
var skipTags = map[string]bool{
	"script": true, "style": true, "head": true, "title": true, "noscript": true,
}

// FlowchartText reduces a backend-supplied HTML fragment to its visible
// text, one line per block element. Markup is never passed through.
func FlowchartText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	z := html.NewTokenizer(strings.NewReader(fragment))
	var (
		lines []string
		cur   strings.Builder
		skip  int
	)

	flush := func() {
		if line := strings.Join(strings.Fields(cur.String()), " "); line != "" {
			lines = append(lines, line)
		}
		cur.Reset()
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a malformed tail; either way keep what was read
			flush()
			return strings.Join(lines, "\n")
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skipTags[tag] && tt == html.StartTagToken {
				skip++
			}
			if blockTags[tag] {
				flush()
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skipTags[tag] && skip > 0 {
				skip--
			}
			if blockTags[tag] {
				flush()
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			cur.WriteString(" ")
			cur.Write(z.Text())
		}
	}
}
