package generator

import (
	"fmt"
	"strings"
)

// Prompt is the message pair sent to the LLM.
type Prompt struct {
	System string
	User   string
}

// BuildBatchPrompt asks for all text sections of a product in one call. The
// response must be a bare JSON object so the orchestrator can parse it into a
// section delta. Prompt text is fully determined by its inputs.
func BuildBatchPrompt(p Product, opts Options, lang Language) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are an expert eCommerce copywriter. You write marketed product copy in %s.\n\n", LanguageName(lang)))
	sb.WriteString("Respond with a valid JSON object (no markdown code fences, no extra text) with exactly these fields:\n\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"header\": \"A short, catchy product headline\",\n")
	sb.WriteString("  \"description\": \"Marketed product description, one or more paragraphs\",\n")
	sb.WriteString("  \"features\": \"The product features rewritten as selling points, one per line, each line starting with '- '\"")
	if len(p.Reviews) > 0 {
		sb.WriteString(",\n  \"reviews\": \"A polished customer-reviews summary, one review per line\"")
	}
	sb.WriteString("\n}\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString(fmt.Sprintf("- Write ALL values in %s.\n", LanguageName(lang)))
	writeOptionRules(&sb, opts)
	sb.WriteString("- Respond ONLY with the JSON object, no other text.\n")

	return Prompt{System: sb.String(), User: productBrief(p)}
}

// BuildSectionPrompt asks for fresh copy for a single text section.
func BuildSectionPrompt(section Section, p Product, opts Options, lang Language) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are an expert eCommerce copywriter. You write marketed product copy in %s.\n", LanguageName(lang)))
	sb.WriteString("Output the requested section as plain text only. No headings, no explanations, no lead-in phrases.\n")
	writeOptionRules(&sb, opts)

	var ask string
	switch section {
	case SectionHeader:
		ask = "Write one short, catchy product headline."
	case SectionDescription:
		ask = "Write a marketed product description, one or more paragraphs."
	case SectionFeatures:
		ask = "Rewrite the product features as selling points, one per line, each line starting with '- '."
	case SectionReviews:
		ask = "Write a polished summary of the customer reviews, one review per line."
	}

	return Prompt{
		System: sb.String(),
		User:   productBrief(p) + "\nTask: " + ask,
	}
}

// BuildTranslatePrompt asks for a faithful translation of one section's text.
// The section kind is passed as a hint so structural markers survive.
func BuildTranslatePrompt(text string, target Language, hint Section) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are a professional translator. Translate the user's text to %s.\n", LanguageName(target)))
	sb.WriteString("Preserve line breaks and any list markers (bullets) exactly as they appear.\n")
	sb.WriteString("Output only the translated text. No explanations, no lead-in phrases.\n")
	if hint != "" {
		sb.WriteString(fmt.Sprintf("The text is the %q section of an eCommerce product page.\n", string(hint)))
	}
	return Prompt{System: sb.String(), User: text}
}

func writeOptionRules(sb *strings.Builder, opts Options) {
	switch opts.Tone {
	case ToneCasual:
		sb.WriteString("- Tone: casual and friendly, like talking to a friend.\n")
	case TonePersuasive:
		sb.WriteString("- Tone: persuasive, benefit-driven, with a clear call to action.\n")
	default:
		sb.WriteString("- Tone: formal and professional.\n")
	}
	switch opts.Length {
	case LengthShort:
		sb.WriteString("- Length: short and punchy, a couple of sentences per section.\n")
	case LengthMedium:
		sb.WriteString("- Length: medium, a solid paragraph per section.\n")
	case LengthLong:
		sb.WriteString("- Length: long and detailed, multiple paragraphs where it helps.\n")
	default:
		sb.WriteString("- Length: infer the appropriate length from how rich the source data is; do not pad thin data and do not truncate rich data.\n")
	}
	if opts.Emojis == EmojisYes {
		sb.WriteString("- Use fitting emojis sparingly to add energy.\n")
	} else {
		sb.WriteString("- Do not use emojis.\n")
	}
}

// productBrief renders the product record as the user message. Field order is
// fixed so identical inputs always produce identical prompts.
func productBrief(p Product) string {
	var sb strings.Builder
	sb.WriteString("Product: " + p.Title + "\n")
	if p.Description != "" {
		sb.WriteString("Description: " + p.Description + "\n")
	}
	if len(p.Features) > 0 {
		sb.WriteString("Features:\n")
		for _, f := range p.Features {
			sb.WriteString("- " + f + "\n")
		}
	}
	if len(p.Reviews) > 0 {
		sb.WriteString("Customer reviews:\n")
		for _, r := range p.Reviews {
			sb.WriteString("- " + r + "\n")
		}
	}
	if p.Price != "" {
		sb.WriteString("Price: " + p.Price + "\n")
	}
	if p.SourceURL != "" {
		sb.WriteString("Source: " + p.SourceURL + "\n")
	}
	return sb.String()
}
