// Package session holds the per-session content store and the reconciliation
// state machine that keeps AI-generated sections, user edits, option changes
// and language changes consistent with each other.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"shopscribe/generator"
	"shopscribe/logbuf"
)

// State is the session-wide view of the state machine.
type State string

const (
	StateNoContent   State = "no_content"
	StateGenerating  State = "generating"
	StateReady       State = "ready"
	StateSectionBusy State = "section_busy"
)

// OutputLanguage is the language the controller drives sections toward:
// either LangAuto (track the detected origin language) or an explicit code.
// Distinct from the per-section tags, which record where each section
// actually is; a mismatch between the two is what triggers translation.
type OutputLanguage string

// LangAuto makes the target follow the language detected at extraction time.
const LangAuto OutputLanguage = "auto"

// Resolve maps the setting to a concrete language given the origin.
func (l OutputLanguage) Resolve(origin generator.Language) generator.Language {
	if l == LangAuto {
		return origin
	}
	return generator.Language(l)
}

// Extractor is the extraction-pipeline boundary the session consumes.
type Extractor interface {
	Extract(ctx context.Context, raw string) (*generator.Product, error)
}

var (
	ErrGenerating         = errors.New("a generation cycle is already in progress")
	ErrNoContent          = errors.New("no content generated yet")
	ErrUnknownSection     = errors.New("unknown section")
	ErrSectionUnavailable = errors.New("section not present for this product")
	ErrSectionNotText     = errors.New("section has no editable text")
	ErrSectionBusy        = errors.New("section has an operation in flight")
)

// Session owns one user's product record, section content, customization
// options and output language. Every mutation goes through its mutex: the
// check-then-set on the pending set is atomic, and the store has a single
// logical writer. AI calls run outside the lock; a section's membership in
// the pending set is the sole admission gate, set before the call is issued.
type Session struct {
	ID string

	extractor Extractor
	orc       *generator.Orchestrator
	log       *slog.Logger

	mu      sync.Mutex
	product *generator.Product
	content map[generator.Section]string
	langs   map[generator.Section]generator.Language
	pending map[generator.Section]struct{}
	loading bool
	lastErr string
	// epoch changes whenever the store is replaced or cleared, so in-flight
	// results from a previous cycle never land on the new one.
	epoch int

	opts    generator.Options
	outLang OutputLanguage
	// last-applied snapshots the reconciliation passes compare against.
	lastOpts    generator.Options
	lastOutLang OutputLanguage
}

// New creates an empty session with default options and auto output language.
func New(id string, extractor Extractor, orc *generator.Orchestrator, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		ID:          id,
		extractor:   extractor,
		orc:         orc,
		log:         log,
		pending:     make(map[generator.Section]struct{}),
		opts:        generator.DefaultOptions(),
		outLang:     LangAuto,
		lastOpts:    generator.DefaultOptions(),
		lastOutLang: LangAuto,
	}
}

// Generate runs a full generation cycle: extract the product, generate all
// text sections in one gateway call, and replace the store. Failure at any
// point clears the content and surfaces the error; nothing is retried.
func (s *Session) Generate(ctx context.Context, raw string) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrGenerating
	}
	s.loading = true
	s.lastErr = ""
	s.epoch++
	epoch := s.epoch
	opts := s.opts
	outLang := s.outLang
	s.mu.Unlock()

	s.log.Info("generation cycle started", slog.String(logbuf.AttrTag, logbuf.TagStart))

	prod, err := s.extractor.Extract(ctx, raw)
	if err != nil {
		s.failGenerate(epoch, err)
		return err
	}
	s.log.Info(fmt.Sprintf("extracted %q (language %s)", prod.Title, prod.Language),
		slog.String(logbuf.AttrTag, logbuf.TagSystem))

	target := outLang.Resolve(prod.Language)
	delta, err := s.orc.GenerateAll(ctx, *prod, opts, target)
	if err != nil {
		s.failGenerate(epoch, err)
		return err
	}

	s.mu.Lock()
	if s.epoch != epoch {
		// Cleared while the call was in flight; drop the result.
		s.mu.Unlock()
		return nil
	}
	s.product = prod
	s.content = make(map[generator.Section]string, len(delta)+1)
	s.content[generator.SectionPhoto] = prod.Image
	s.langs = make(map[generator.Section]generator.Language, len(delta))
	for sec, text := range delta {
		s.content[sec] = text
		s.langs[sec] = target
	}
	s.pending = make(map[generator.Section]struct{})
	s.loading = false
	s.lastOpts = opts
	s.lastOutLang = outLang
	s.mu.Unlock()

	s.log.Info(fmt.Sprintf("generated %d sections", len(delta)+1),
		slog.String(logbuf.AttrTag, logbuf.TagSuccess))

	// Options or language may have changed while we were generating.
	s.reconcile(ctx)
	return nil
}

func (s *Session) failGenerate(epoch int, err error) {
	s.mu.Lock()
	if s.epoch == epoch {
		s.product = nil
		s.content = nil
		s.langs = nil
		s.pending = make(map[generator.Section]struct{})
		s.loading = false
		s.lastErr = err.Error()
	}
	s.mu.Unlock()
	s.log.Error("generation cycle failed: "+err.Error(),
		slog.String(logbuf.AttrTag, logbuf.TagError))
}

// EditSection applies a direct user edit: a pure local mutation, no gateway
// call, and the section's language tag stays as it was.
func (s *Session) EditSection(section generator.Section, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sectionGuardLocked(section); err != nil {
		return err
	}
	if section == generator.SectionPhoto {
		return ErrSectionNotText
	}
	s.content[section] = text
	return nil
}

// Regenerate replaces one section's content via a single gateway call (or a
// local cache-bust for photo). The section's language tag is preserved. A
// request for a section that is already pending is dropped, not queued.
func (s *Session) Regenerate(ctx context.Context, section generator.Section) error {
	c, err := s.claim(section, "")
	if errors.Is(err, ErrSectionBusy) {
		s.log.Info(fmt.Sprintf("regenerate %s dropped: operation in flight", section),
			slog.String(logbuf.AttrTag, logbuf.TagSystem))
		return nil
	}
	if err != nil {
		return err
	}
	return s.runRegenerate(ctx, c)
}

// Translate replaces one section's content with its translation and moves the
// section's language tag to the target. Duplicate requests on a busy section
// are dropped.
func (s *Session) Translate(ctx context.Context, section generator.Section, target generator.Language) error {
	if section == generator.SectionPhoto {
		return ErrSectionNotText
	}
	c, err := s.claim(section, target)
	if errors.Is(err, ErrSectionBusy) {
		s.log.Info(fmt.Sprintf("translate %s dropped: operation in flight", section),
			slog.String(logbuf.AttrTag, logbuf.TagSystem))
		return nil
	}
	if err != nil {
		return err
	}
	return s.runTranslate(ctx, c)
}

// SetOptions records new customization options and runs a reconciliation
// pass. If the session is busy the pass is deferred, not queued: the next
// time the session returns to ready, the latest options are compared against
// the stale snapshot once.
func (s *Session) SetOptions(ctx context.Context, opts generator.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.opts = opts
	s.mu.Unlock()
	s.reconcile(ctx)
	return nil
}

// SetOutputLanguage records the new target language and runs a reconciliation
// pass, with the same deferred-not-queued behavior as SetOptions.
func (s *Session) SetOutputLanguage(ctx context.Context, l OutputLanguage) error {
	if l == "" {
		l = LangAuto
	}
	s.mu.Lock()
	s.outLang = l
	s.mu.Unlock()
	s.reconcile(ctx)
	return nil
}

// Clear drops the product record, section content and error. Options and
// output language survive.
func (s *Session) Clear() {
	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()
	s.log.Info("content cleared", slog.String(logbuf.AttrTag, logbuf.TagSystem))
}

// Reset is Clear plus restoring options and output language to defaults.
func (s *Session) Reset() {
	s.mu.Lock()
	s.clearLocked()
	s.opts = generator.DefaultOptions()
	s.outLang = LangAuto
	s.lastOpts = s.opts
	s.lastOutLang = s.outLang
	s.mu.Unlock()
	s.log.Info("session reset to defaults", slog.String(logbuf.AttrTag, logbuf.TagSystem))
}

func (s *Session) clearLocked() {
	s.epoch++
	s.product = nil
	s.content = nil
	s.langs = nil
	s.pending = make(map[generator.Section]struct{})
	s.loading = false
	s.lastErr = ""
}

func (s *Session) sectionGuardLocked(section generator.Section) error {
	if !generator.ValidSection(section) {
		return ErrUnknownSection
	}
	if s.loading || s.content == nil {
		return ErrNoContent
	}
	if _, ok := s.content[section]; !ok {
		return ErrSectionUnavailable
	}
	if _, busy := s.pending[section]; busy {
		return ErrSectionBusy
	}
	return nil
}

// claimed carries everything an in-flight operation needs, copied under the
// lock at admission time.
type claimed struct {
	section generator.Section
	current string
	product generator.Product
	opts    generator.Options
	lang    generator.Language
	epoch   int
}

// claim atomically admits an operation on a section: guard checks and pending
// membership happen under one lock hold. For translations target overrides
// the section's current tag.
func (s *Session) claim(section generator.Section, target generator.Language) (claimed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sectionGuardLocked(section); err != nil {
		return claimed{}, err
	}
	lang := s.langs[section]
	if target != "" {
		lang = target
	}
	s.pending[section] = struct{}{}
	return claimed{
		section: section,
		current: s.content[section],
		product: *s.product,
		opts:    s.opts,
		lang:    lang,
		epoch:   s.epoch,
	}, nil
}

func (s *Session) runRegenerate(ctx context.Context, c claimed) error {
	s.log.Info("regenerating "+string(c.section), slog.String(logbuf.AttrTag, logbuf.TagStart))

	out, err := s.orc.RegenerateSection(ctx, c.section, c.current, c.product, c.opts, c.lang)

	s.mu.Lock()
	if s.epoch == c.epoch {
		delete(s.pending, c.section)
		if err != nil {
			s.lastErr = err.Error()
		} else {
			s.content[c.section] = out
		}
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error(fmt.Sprintf("regenerate %s failed: %v", c.section, err),
			slog.String(logbuf.AttrTag, logbuf.TagError))
	} else {
		s.log.Info("regenerated "+string(c.section), slog.String(logbuf.AttrTag, logbuf.TagSuccess))
	}
	s.reconcile(ctx)
	return err
}

func (s *Session) runTranslate(ctx context.Context, c claimed) error {
	s.log.Info(fmt.Sprintf("translating %s to %s", c.section, c.lang),
		slog.String(logbuf.AttrTag, logbuf.TagStart))

	out, err := s.orc.TranslateSection(ctx, c.current, c.lang, c.section)

	s.mu.Lock()
	if s.epoch == c.epoch {
		delete(s.pending, c.section)
		if err != nil {
			s.lastErr = err.Error()
		} else {
			s.content[c.section] = out
			s.langs[c.section] = c.lang
		}
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error(fmt.Sprintf("translate %s failed: %v", c.section, err),
			slog.String(logbuf.AttrTag, logbuf.TagError))
	} else {
		s.log.Info(fmt.Sprintf("translated %s to %s", c.section, c.lang),
			slog.String(logbuf.AttrTag, logbuf.TagSuccess))
	}
	s.reconcile(ctx)
	return err
}

// reconcile runs the two automatic passes. It only acts when the session is
// fully ready (content present, nothing loading, zero pending sections), so
// two passes can never race to claim the same section. Options drive a
// description regenerate; output language drives translations of every
// section whose tag differs from the resolved target. Snapshots are advanced
// immediately on dispatch so a second pass does not re-fire for the same
// change.
func (s *Session) reconcile(ctx context.Context) {
	s.mu.Lock()
	if s.loading || s.content == nil || len(s.pending) > 0 {
		s.mu.Unlock()
		return
	}

	var regen *claimed
	if s.opts != s.lastOpts {
		s.lastOpts = s.opts
		// Only the description depends on tone/length/emojis.
		if _, ok := s.content[generator.SectionDescription]; ok {
			s.pending[generator.SectionDescription] = struct{}{}
			regen = &claimed{
				section: generator.SectionDescription,
				current: s.content[generator.SectionDescription],
				product: *s.product,
				opts:    s.opts,
				lang:    s.langs[generator.SectionDescription],
				epoch:   s.epoch,
			}
		}
	}

	var trans []claimed
	if s.outLang != s.lastOutLang {
		s.lastOutLang = s.outLang
		target := s.outLang.Resolve(s.product.Language)
		for _, sec := range generator.TextSections() {
			if _, ok := s.content[sec]; !ok {
				continue
			}
			if s.langs[sec] == target {
				continue
			}
			if _, busy := s.pending[sec]; busy {
				continue
			}
			s.pending[sec] = struct{}{}
			trans = append(trans, claimed{
				section: sec,
				current: s.content[sec],
				product: *s.product,
				opts:    s.opts,
				lang:    target,
				epoch:   s.epoch,
			})
		}
	}
	s.mu.Unlock()

	bg := context.WithoutCancel(ctx)
	if regen != nil {
		s.log.Info("options changed, regenerating description",
			slog.String(logbuf.AttrTag, logbuf.TagSystem))
		go func() { _ = s.runRegenerate(bg, *regen) }()
	}
	if len(trans) > 0 {
		s.log.Info(fmt.Sprintf("output language changed, translating %d sections", len(trans)),
			slog.String(logbuf.AttrTag, logbuf.TagSystem))
		var wg sync.WaitGroup
		for _, c := range trans {
			wg.Add(1)
			go func(c claimed) {
				defer wg.Done()
				_ = s.runTranslate(bg, c)
			}(c)
		}
		go func() {
			wg.Wait()
			s.log.Info("language pass complete", slog.String(logbuf.AttrTag, logbuf.TagSuccess))
		}()
	}
}
