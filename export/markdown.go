// Package export renders the section store into Markdown and HTML views.
// Formatters are pure: the same store always yields byte-identical output.
package export

import (
	"fmt"
	"strings"

	"shopscribe/generator"
)

// Markdown renders the store in fixed order: image embed, header,
// description, features block, then reviews when present.
func Markdown(content map[generator.Section]string) string {
	if len(content) == 0 {
		return ""
	}
	var sb strings.Builder
	if img := content[generator.SectionPhoto]; img != "" {
		sb.WriteString(fmt.Sprintf("![Product photo](%s)\n\n", img))
	}
	if h := content[generator.SectionHeader]; h != "" {
		sb.WriteString("## " + h + "\n\n")
	}
	if d := content[generator.SectionDescription]; d != "" {
		sb.WriteString(d + "\n\n")
	}
	if f := content[generator.SectionFeatures]; f != "" {
		sb.WriteString("### Features\n\n" + f + "\n\n")
	}
	if r, ok := content[generator.SectionReviews]; ok && r != "" {
		sb.WriteString("### Reviews\n\n" + r + "\n\n")
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}
