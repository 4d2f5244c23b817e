package export

import (
	"strings"
	"testing"

	"shopscribe/generator"
)

func sampleContent() map[generator.Section]string {
	return map[generator.Section]string{
		generator.SectionPhoto:       "https://x/img.png",
		generator.SectionHeader:      "Fancy Gadget 3000",
		generator.SectionDescription: "The gadget that does it all.",
		generator.SectionFeatures:    "• Wireless\n• Rechargeable",
		generator.SectionReviews:     "Love it.\nWorks great.",
	}
}

func TestMarkdown_FixedOrder(t *testing.T) {
	md := Markdown(sampleContent())

	idxImg := strings.Index(md, "![Product photo](https://x/img.png)")
	idxHeader := strings.Index(md, "## Fancy Gadget 3000")
	idxDesc := strings.Index(md, "The gadget that does it all.")
	idxFeat := strings.Index(md, "### Features")
	idxRev := strings.Index(md, "### Reviews")
	for name, idx := range map[string]int{
		"image": idxImg, "header": idxHeader, "description": idxDesc,
		"features": idxFeat, "reviews": idxRev,
	} {
		if idx < 0 {
			t.Fatalf("%s block missing:\n%s", name, md)
		}
	}
	if !(idxImg < idxHeader && idxHeader < idxDesc && idxDesc < idxFeat && idxFeat < idxRev) {
		t.Fatalf("blocks out of order:\n%s", md)
	}
}

func TestMarkdown_NoReviewsBlockWithoutKey(t *testing.T) {
	content := sampleContent()
	delete(content, generator.SectionReviews)
	if strings.Contains(Markdown(content), "### Reviews") {
		t.Fatal("reviews block rendered without a reviews key")
	}
}

func TestFormatters_Idempotent(t *testing.T) {
	content := sampleContent()
	if Markdown(content) != Markdown(content) {
		t.Fatal("markdown output not byte-identical across calls")
	}
	if HTML(content) != HTML(content) {
		t.Fatal("html output not byte-identical across calls")
	}
	_, a := Document(content)
	_, b := Document(content)
	if a != b {
		t.Fatal("document output not byte-identical across calls")
	}
}

func TestHTML_FeatureBulletsStripped(t *testing.T) {
	h := HTML(sampleContent())
	if !strings.Contains(h, "<li>Wireless</li>") || !strings.Contains(h, "<li>Rechargeable</li>") {
		t.Fatalf("feature list items missing or bullets kept:\n%s", h)
	}
	if strings.Contains(h, "<li>•") {
		t.Fatalf("bullet glyph leaked into list items:\n%s", h)
	}
}

func TestHTML_ReviewsPreserveNewlines(t *testing.T) {
	h := HTML(sampleContent())
	if !strings.Contains(h, `<div style="white-space: pre-line">Love it.`+"\n"+`Works great.</div>`) {
		t.Fatalf("reviews block must keep embedded newlines:\n%s", h)
	}
}

func TestHTML_EscapesHeader(t *testing.T) {
	content := sampleContent()
	content[generator.SectionHeader] = `Gadget <script>alert(1)</script>`
	h := HTML(content)
	if strings.Contains(h, "<script>") {
		t.Fatalf("header not escaped:\n%s", h)
	}
}

func TestDocument_ShellAndFilename(t *testing.T) {
	name, doc := Document(sampleContent())
	if name != "fancy-gadget-3000.html" {
		t.Fatalf("filename = %q", name)
	}
	for _, want := range []string{
		"<!DOCTYPE html>", "<title>Fancy Gadget 3000</title>", "<h2>Fancy Gadget 3000</h2>",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("document missing %q:\n%s", want, doc)
		}
	}
}

func TestDocument_EmptyHeaderFallback(t *testing.T) {
	content := sampleContent()
	delete(content, generator.SectionHeader)
	name, doc := Document(content)
	if name != "product.html" {
		t.Fatalf("filename = %q", name)
	}
	if !strings.Contains(doc, "<title>Product</title>") {
		t.Fatalf("fallback title missing:\n%s", doc)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Fancy Gadget 3000":  "fancy-gadget-3000",
		"  lots \t of  ws  ": "lots-of-ws",
		"Café Déjà Vu":       "cafe-deja-vu",
		"Widget!!! (Pro)":    "widget-pro",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
