package generator

// Section identifies one of the five content slots a studio session manages.
type Section string

const (
	SectionPhoto       Section = "photo"
	SectionHeader      Section = "header"
	SectionDescription Section = "description"
	SectionFeatures    Section = "features"
	SectionReviews     Section = "reviews"
)

// TextSections lists the sections that hold generated prose, in display order.
// Photo is excluded: it holds an image reference and never goes through the
// gateway.
func TextSections() []Section {
	return []Section{SectionHeader, SectionDescription, SectionFeatures, SectionReviews}
}

// ValidSection reports whether s names one of the five known sections.
func ValidSection(s Section) bool {
	switch s {
	case SectionPhoto, SectionHeader, SectionDescription, SectionFeatures, SectionReviews:
		return true
	}
	return false
}

// Language is a lowercase ISO 639-1 style code ("en", "he", ...).
type Language string

const (
	LangEnglish Language = "en"
	LangHebrew  Language = "he"
)

// LanguageName returns the English display name used inside prompts.
// Unknown codes are passed through so the model still gets a usable hint.
func LanguageName(l Language) string {
	switch l {
	case LangEnglish:
		return "English"
	case LangHebrew:
		return "Hebrew"
	case "es":
		return "Spanish"
	case "fr":
		return "French"
	case "de":
		return "German"
	case "ar":
		return "Arabic"
	case "ru":
		return "Russian"
	}
	return string(l)
}

// Tone steers the marketing voice of generated copy.
type Tone string

const (
	ToneFormal     Tone = "formal"
	ToneCasual     Tone = "casual"
	TonePersuasive Tone = "persuasive"
)

// Length selects the target copy length. LengthAuto delegates the decision to
// the model based on how rich the source data is.
type Length string

const (
	LengthAuto   Length = "auto"
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// Emojis toggles emoji usage in generated copy.
type Emojis string

const (
	EmojisYes Emojis = "yes"
	EmojisNo  Emojis = "no"
)

// Options holds the customization knobs for copy generation. It is always
// fully populated; use DefaultOptions as the starting point.
type Options struct {
	Tone   Tone   `json:"tone"`
	Length Length `json:"length"`
	Emojis Emojis `json:"emojis"`
}

// DefaultOptions returns the options a fresh session starts with.
func DefaultOptions() Options {
	return Options{Tone: ToneFormal, Length: LengthAuto, Emojis: EmojisNo}
}

// Validate checks that every field carries a known enum value.
func (o Options) Validate() error {
	switch o.Tone {
	case ToneFormal, ToneCasual, TonePersuasive:
	default:
		return &FormatError{Reason: "unknown tone: " + string(o.Tone)}
	}
	switch o.Length {
	case LengthAuto, LengthShort, LengthMedium, LengthLong:
	default:
		return &FormatError{Reason: "unknown length: " + string(o.Length)}
	}
	switch o.Emojis {
	case EmojisYes, EmojisNo:
	default:
		return &FormatError{Reason: "unknown emojis setting: " + string(o.Emojis)}
	}
	return nil
}

// Product is the normalized record the extraction pipeline produces once per
// generation cycle. Title is required; everything else may be empty.
type Product struct {
	SourceURL   string   `json:"source_url"`
	Image       string   `json:"image"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Reviews     []string `json:"reviews"`
	Price       string   `json:"price,omitempty"`
	Language    Language `json:"language"`
}
