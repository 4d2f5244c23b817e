package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"
)

// Orchestrator turns (product, options, language, section) requests into
// single gateway calls and parses the responses into section content. It holds
// no state; one instance serves every session. Nothing here retries: a failed
// call is terminal for its operation.
type Orchestrator struct {
	llm LLMClient
}

func NewOrchestrator(llm LLMClient) (*Orchestrator, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	return &Orchestrator{llm: llm}, nil
}

// GenerateAll produces the full text-section delta for a product in one
// gateway call: header, description, features, and reviews iff the product has
// source reviews. Transport failures surface as *GatewayError, unusable
// responses as *FormatError; in both cases the delta is nil.
func (o *Orchestrator) GenerateAll(ctx context.Context, p Product, opts Options, lang Language) (map[Section]string, error) {
	raw, err := o.llm.Complete(ctx, BuildBatchPrompt(p, opts, lang))
	if err != nil {
		return nil, &GatewayError{Err: err}
	}
	return parseBatch(raw, len(p.Reviews) > 0)
}

// RegenerateSection produces fresh content for one section. The photo section
// never reaches the gateway: regeneration derives a new reference by swapping
// the cache-busting token on the current image URL.
func (o *Orchestrator) RegenerateSection(ctx context.Context, section Section, current string, p Product, opts Options, lang Language) (string, error) {
	if section == SectionPhoto {
		return BustImageURL(current), nil
	}
	raw, err := o.llm.Complete(ctx, BuildSectionPrompt(section, p, opts, lang))
	if err != nil {
		return "", &GatewayError{Err: err}
	}
	text := CleanText(raw)
	if text == "" {
		return "", &FormatError{Reason: fmt.Sprintf("empty %s after cleaning", section)}
	}
	return text, nil
}

// TranslateSection translates one section's text to the target language,
// preserving structural markers and stripping any conversational preamble.
func (o *Orchestrator) TranslateSection(ctx context.Context, text string, target Language, hint Section) (string, error) {
	raw, err := o.llm.Complete(ctx, BuildTranslatePrompt(text, target, hint))
	if err != nil {
		return "", &GatewayError{Err: err}
	}
	out := CleanText(raw)
	if out == "" {
		return "", &FormatError{Reason: "empty translation"}
	}
	return out, nil
}

// BustImageURL appends a fresh cache-busting token to an image URL, replacing
// any token a previous regeneration added. Successive calls always differ.
func BustImageURL(u string) string {
	if u == "" {
		return ""
	}
	u = bustToken.ReplaceAllString(u, "")
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sv=%d", u, sep, bustStamp())
}

// bustToken matches a previously appended cache-busting token.
var bustToken = regexp.MustCompile(`[?&]v=\d+$`)

var lastBust atomic.Int64

// bustStamp returns a strictly increasing nanosecond stamp so successive
// busts of the same URL always differ.
func bustStamp() int64 {
	for {
		now := time.Now().UnixNano()
		prev := lastBust.Load()
		if now <= prev {
			now = prev + 1
		}
		if lastBust.CompareAndSwap(prev, now) {
			return now
		}
	}
}

// parseBatch coerces a model response into the expected batch shape. Code
// fences are tolerated, and as a last resort the outermost {...} span is
// parsed, but a missing or empty required key is still a format error.
func parseBatch(raw string, wantReviews bool) (map[Section]string, error) {
	cleaned := strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(cleaned, "```json"); ok {
		cleaned = strings.TrimSpace(strings.TrimSuffix(rest, "```"))
	} else if rest, ok := strings.CutPrefix(cleaned, "```"); ok {
		cleaned = strings.TrimSpace(strings.TrimSuffix(rest, "```"))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start < 0 || end <= start {
			return nil, &FormatError{Reason: "no JSON object in response", Err: err}
		}
		if err2 := json.Unmarshal([]byte(raw[start:end+1]), &fields); err2 != nil {
			return nil, &FormatError{Reason: "unparseable JSON in response", Err: err2}
		}
	}

	want := []Section{SectionHeader, SectionDescription, SectionFeatures}
	if wantReviews {
		want = append(want, SectionReviews)
	}
	delta := make(map[Section]string, len(want))
	for _, sec := range want {
		rawVal, ok := fields[string(sec)]
		if !ok {
			return nil, &FormatError{Reason: "missing key: " + string(sec)}
		}
		text, err := coerceText(rawVal)
		if err != nil {
			return nil, &FormatError{Reason: "bad value for key " + string(sec), Err: err}
		}
		text = CleanText(text)
		if text == "" {
			return nil, &FormatError{Reason: "empty value for key: " + string(sec)}
		}
		delta[sec] = text
	}
	return delta, nil
}

// coerceText accepts either a string or an array of strings (models return
// both for list-shaped sections) and yields newline-joined text.
func coerceText(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return "", err
	}
	return strings.Join(list, "\n"), nil
}
