package generator

import (
	"regexp"
	"strings"
)

// Bullet is the glyph every list marker is normalized to.
const Bullet = "•"

var (
	headingLine = regexp.MustCompile(`^#{1,6}\s`)
	listMarker  = regexp.MustCompile(`^([-*])\s+`)

	// Conversational lead-ins models like to open with. Matched only at the
	// start of a response, per language. Hebrew gets its own patterns because
	// the English ones obviously never fire on Hebrew output.
	boilerplate = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(sure|certainly|of course|absolutely)[,!.:]?(\s|$)`),
		regexp.MustCompile(`(?i)^here(?:'s| is| are)\b.*[:：]\s*$`),
		regexp.MustCompile(`^(הנה|להלן)\b.*[:：]\s*$`),
		regexp.MustCompile(`^(בטח|כמובן|בוודאי)[,!.:]?(\s|$)`),
	}
)

// CleanText normalizes a model response into section-ready text: leading
// markdown headings and conversational lead-in lines are stripped, list
// markers become the bullet glyph, and blank lines left behind by the
// stripping are dropped. Blank lines inside the body are kept.
func CleanText(raw string) string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	// Consume the leading block: blanks, headings, boilerplate. A lead-in
	// phrase that shares its line with real content loses only the phrase.
	start := 0
	for start < len(lines) {
		line := strings.TrimSpace(lines[start])
		if line == "" || headingLine.MatchString(line) {
			start++
			continue
		}
		if stripped := stripBoilerplate(line); stripped != line {
			if stripped == "" {
				start++
				continue
			}
			lines[start] = stripped
		}
		break
	}
	lines = lines[start:]

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if m := listMarker.FindStringSubmatch(trimmed); m != nil {
			trimmed = Bullet + " " + strings.TrimSpace(trimmed[len(m[0]):])
		}
		out = append(out, trimmed)
	}

	// Trim trailing blanks too.
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

func stripBoilerplate(line string) string {
	for changed := true; changed; {
		changed = false
		for _, re := range boilerplate {
			if loc := re.FindStringIndex(line); loc != nil && loc[0] == 0 {
				line = strings.TrimSpace(line[loc[1]:])
				changed = true
			}
		}
	}
	return line
}
