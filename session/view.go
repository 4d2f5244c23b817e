package session

import (
	"sort"

	"shopscribe/generator"
)

// Snapshot is a consistent read-only view of the session, taken under the
// lock, for the API layer and the formatters.
type Snapshot struct {
	ID             string                                    `json:"session_id"`
	State          State                                     `json:"state"`
	Content        map[generator.Section]string              `json:"content,omitempty"`
	Languages      map[generator.Section]generator.Language  `json:"languages,omitempty"`
	Pending        []generator.Section                       `json:"pending,omitempty"`
	Options        generator.Options                         `json:"options"`
	OutputLanguage OutputLanguage                            `json:"output_language"`
	Error          string                                    `json:"error,omitempty"`
	Product        *generator.Product                        `json:"product,omitempty"`
}

// State derives the global machine state from the store and pending set.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	switch {
	case s.loading:
		return StateGenerating
	case s.content == nil:
		return StateNoContent
	case len(s.pending) > 0:
		return StateSectionBusy
	default:
		return StateReady
	}
}

// Snapshot copies the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:             s.ID,
		State:          s.stateLocked(),
		Options:        s.opts,
		OutputLanguage: s.outLang,
		Error:          s.lastErr,
	}
	if s.content != nil {
		snap.Content = make(map[generator.Section]string, len(s.content))
		for k, v := range s.content {
			snap.Content[k] = v
		}
		snap.Languages = make(map[generator.Section]generator.Language, len(s.langs))
		for k, v := range s.langs {
			snap.Languages[k] = v
		}
	}
	if s.product != nil {
		p := *s.product
		snap.Product = &p
	}
	for sec := range s.pending {
		snap.Pending = append(snap.Pending, sec)
	}
	sort.Slice(snap.Pending, func(i, j int) bool { return snap.Pending[i] < snap.Pending[j] })
	return snap
}

// Content returns a copy of the section store, or nil when no content exists.
func (s *Session) Content() map[generator.Section]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.content == nil {
		return nil
	}
	out := make(map[generator.Section]string, len(s.content))
	for k, v := range s.content {
		out[k] = v
	}
	return out
}
