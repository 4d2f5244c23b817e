package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"shopscribe/generator"
)

var pricePattern = regexp.MustCompile(`[$€£₪]\s?\d[\d.,]*|\d[\d.,]*\s?[$€£₪]`)

// parseHTML pulls a product record out of a page. Open Graph tags win over
// generic markup; the first plausible candidate is taken everywhere else.
func parseHTML(sourceURL, html string) (*generator.Product, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &Error{Reason: "unparseable HTML", Err: err}
	}

	prod := &generator.Product{SourceURL: sourceURL}

	prod.Title = firstNonEmpty(
		metaContent(doc, `meta[property="og:title"]`),
		strings.TrimSpace(doc.Find("title").First().Text()),
		strings.TrimSpace(doc.Find("h1").First().Text()),
	)
	prod.Description = firstNonEmpty(
		metaContent(doc, `meta[property="og:description"]`),
		metaContent(doc, `meta[name="description"]`),
		firstLongParagraph(doc),
	)
	prod.Image = resolveURL(sourceURL, firstNonEmpty(
		metaContent(doc, `meta[property="og:image"]`),
		doc.Find("img[src]").First().AttrOr("src", ""),
	))

	doc.Find("ul li, ol li").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if len(text) >= 3 && len(text) <= 200 {
			prod.Features = append(prod.Features, text)
		}
		return len(prod.Features) < 10
	})

	doc.Find(`[itemprop="reviewBody"], [class*="review"] p, blockquote`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if len(text) >= 10 {
			prod.Reviews = append(prod.Reviews, text)
		}
		return len(prod.Reviews) < 5
	})

	prod.Price = firstNonEmpty(
		metaContent(doc, `[itemprop="price"]`),
		pricePattern.FindString(doc.Find("body").Text()),
	)

	if lang, ok := doc.Find("html").Attr("lang"); ok && lang != "" {
		prod.Language = generator.Language(strings.ToLower(strings.SplitN(lang, "-", 2)[0]))
	} else {
		prod.Language = DetectLanguage(prod.Title + " " + prod.Description)
	}
	return prod, nil
}

// parseText treats free text as a hand-written product note: first line is
// the title, list-marked lines are features, the rest is description.
func parseText(raw string) (*generator.Product, error) {
	prod := &generator.Product{}
	var desc []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if prod.Title == "" {
			prod.Title = line
			continue
		}
		if rest, ok := cutListMarker(line); ok {
			prod.Features = append(prod.Features, rest)
			continue
		}
		desc = append(desc, line)
	}
	prod.Description = strings.Join(desc, " ")
	prod.Price = pricePattern.FindString(raw)
	prod.Language = DetectLanguage(raw)
	return prod, nil
}

func cutListMarker(line string) (string, bool) {
	for _, marker := range []string{"- ", "* ", "• "} {
		if rest, ok := strings.CutPrefix(line, marker); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return line, false
}

func metaContent(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
}

func firstLongParagraph(doc *goquery.Document) string {
	var out string
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if len(text) >= 60 {
			out = text
			return false
		}
		return true
	})
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func resolveURL(base, ref string) string {
	if ref == "" || base == "" {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
