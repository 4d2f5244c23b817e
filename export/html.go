package export

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"

	"shopscribe/generator"
)

// HTML renders the store as an HTML fragment mirroring the Markdown order.
// The description goes through goldmark so inline emphasis the model produced
// survives; feature lines lose their leading bullet glyph and become list
// items; reviews keep their embedded newlines.
func HTML(content map[generator.Section]string) string {
	if len(content) == 0 {
		return ""
	}
	var sb strings.Builder
	if img := content[generator.SectionPhoto]; img != "" {
		sb.WriteString(fmt.Sprintf("<img src=%q alt=\"Product photo\">\n", img))
	}
	if h := content[generator.SectionHeader]; h != "" {
		sb.WriteString("<h2>" + html.EscapeString(h) + "</h2>\n")
	}
	if d := content[generator.SectionDescription]; d != "" {
		sb.WriteString(renderMarkdown(d))
	}
	if f := content[generator.SectionFeatures]; f != "" {
		sb.WriteString("<h3>Features</h3>\n<ul>\n")
		for _, line := range strings.Split(f, "\n") {
			line = stripBullet(line)
			if line == "" {
				continue
			}
			sb.WriteString("<li>" + html.EscapeString(line) + "</li>\n")
		}
		sb.WriteString("</ul>\n")
	}
	if r, ok := content[generator.SectionReviews]; ok && r != "" {
		sb.WriteString("<h3>Reviews</h3>\n")
		sb.WriteString("<div style=\"white-space: pre-line\">" + html.EscapeString(r) + "</div>\n")
	}
	return sb.String()
}

// Document wraps the HTML rendering in a minimal page shell with the header
// text as the page title, and suggests a slugified file name for it.
func Document(content map[generator.Section]string) (filename, doc string) {
	header := content[generator.SectionHeader]
	title := header
	if title == "" {
		title = "Product"
	}
	slug := Slugify(header)
	if slug == "" {
		slug = "product"
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\">\n")
	sb.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	sb.WriteString("</head>\n<body>\n")
	sb.WriteString(HTML(content))
	sb.WriteString("</body>\n</html>\n")
	return slug + ".html", sb.String()
}

func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "<p>" + html.EscapeString(md) + "</p>\n"
	}
	return buf.String()
}

func stripBullet(line string) string {
	line = strings.TrimSpace(line)
	for _, marker := range []string{generator.Bullet + " ", generator.Bullet, "- ", "* "} {
		if rest, ok := strings.CutPrefix(line, marker); ok {
			return strings.TrimSpace(rest)
		}
	}
	return line
}
