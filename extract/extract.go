// Package extract turns raw user input (a URL, pasted HTML, or free text)
// into a normalized product record. One extraction per generation cycle, no
// retries: a failed extraction aborts the cycle.
package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"shopscribe/generator"
)

// Mode classifies what kind of raw input the user supplied.
type Mode string

const (
	ModeURL  Mode = "url"
	ModeHTML Mode = "html"
	ModeText Mode = "text"
)

// Error is an extraction failure with a human-readable cause.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction: %s: %v", e.Reason, e.Err)
	}
	return "extraction: " + e.Reason
}

func (e *Error) Unwrap() error { return e.Err }

var (
	urlPattern  = regexp.MustCompile(`^https?://\S+$`)
	htmlMarker  = regexp.MustCompile(`(?i)<html[\s>]|<!doctype\s`)
	maxBodySize = int64(4 << 20)
)

// ClassifyInput picks exactly one input mode, first match wins:
// HTML marker beats URL shape beats anything else.
func ClassifyInput(raw string) Mode {
	trimmed := strings.TrimSpace(raw)
	if htmlMarker.MatchString(trimmed) {
		return ModeHTML
	}
	if !strings.ContainsAny(trimmed, " \t\n\r") && urlPattern.MatchString(trimmed) {
		return ModeURL
	}
	return ModeText
}

// Pipeline fetches and parses product sources. The http.Client (and whatever
// timeout it carries) is injected; nil gets a sane default.
type Pipeline struct {
	client *http.Client
}

func NewPipeline(client *http.Client) *Pipeline {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Pipeline{client: client}
}

// Extract classifies raw input and produces a product record. The record is
// only valid with a non-empty title; anything less is an *Error.
func (p *Pipeline) Extract(ctx context.Context, raw string) (*generator.Product, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &Error{Reason: "empty input"}
	}

	var (
		prod *generator.Product
		err  error
	)
	switch ClassifyInput(raw) {
	case ModeURL:
		prod, err = p.extractURL(ctx, strings.TrimSpace(raw))
	case ModeHTML:
		prod, err = parseHTML("", raw)
	default:
		prod, err = parseText(raw)
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(prod.Title) == "" {
		return nil, &Error{Reason: "no product title found in source"}
	}
	if prod.Language == "" {
		prod.Language = generator.LangEnglish
	}
	return prod, nil
}

func (p *Pipeline) extractURL(ctx context.Context, url string) (*generator.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Reason: "bad URL", Err: err}
	}
	req.Header.Set("User-Agent", "shopscribe/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &Error{Reason: "fetching " + url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Reason: fmt.Sprintf("fetching %s: status %d", url, resp.StatusCode)}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &Error{Reason: "reading response body", Err: err}
	}
	return parseHTML(url, string(body))
}

// DetectLanguage guesses the content language from its script. Hebrew is the
// one non-Latin script the tool special-cases; everything undetectable
// defaults to English.
func DetectLanguage(text string) generator.Language {
	hebrew := 0
	latin := 0
	for _, r := range text {
		switch {
		case r >= 0x0590 && r <= 0x05FF:
			hebrew++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			latin++
		}
	}
	if hebrew > latin {
		return generator.LangHebrew
	}
	return generator.LangEnglish
}
