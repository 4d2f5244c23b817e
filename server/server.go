package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"shopscribe/export"
	"shopscribe/extract"
	"shopscribe/generator"
	"shopscribe/logbuf"
	"shopscribe/session"
)

//go:embed web/dist
var embeddedStatic embed.FS

// Server exposes the studio sessions over a JSON API and serves the embedded
// browser UI.
type Server struct {
	orc        *generator.Orchestrator
	pipeline   *extract.Pipeline
	store      *studioStore
	logs       *logbuf.Buffer
	logger     *slog.Logger
	apiTimeout time.Duration
	staticFS   http.Handler
}

type studioStore struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
}

func newStore() *studioStore {
	return &studioStore{sessions: make(map[string]*session.Session)}
}

func (s *studioStore) set(id string, sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
}

func (s *studioStore) get(id string) (*session.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// New wires a server. apiTimeout bounds each synchronous gateway call the way
// the transport allows; zero means 60 seconds.
func New(orc *generator.Orchestrator, pipeline *extract.Pipeline, logs *logbuf.Buffer, logger *slog.Logger, apiTimeout time.Duration) (*Server, error) {
	if orc == nil {
		return nil, errors.New("orchestrator required")
	}
	if pipeline == nil {
		return nil, errors.New("extraction pipeline required")
	}
	if logs == nil {
		logs = logbuf.NewBuffer(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if apiTimeout <= 0 {
		apiTimeout = 60 * time.Second
	}

	sub, err := fs.Sub(embeddedStatic, "web/dist")
	if err != nil {
		return nil, err
	}

	return &Server{
		orc:        orc,
		pipeline:   pipeline,
		store:      newStore(),
		logs:       logs,
		logger:     logger,
		apiTimeout: apiTimeout,
		staticFS:   http.FileServer(http.FS(sub)),
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/studios", s.handleStudioCreate)
	mux.HandleFunc("/api/studios/", s.handleStudioByID)
	mux.HandleFunc("/api/logs", s.handleLogs)
	mux.Handle("/", s.staticHandler())
	return mux
}

func (s *Server) staticHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// fall back to index.html for SPA-ish behavior
		upath := r.URL.Path
		if upath == "/" || !strings.HasPrefix(upath, "/api/") {
			p := upath
			if p == "/" {
				p = "/index.html"
			}
			r.URL.Path = p
			s.staticFS.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// --- Handlers ---

type createReq struct {
	Input string `json:"input"`
}

type sectionReq struct {
	Section  generator.Section  `json:"section"`
	Text     string             `json:"text,omitempty"`
	Language generator.Language `json:"language,omitempty"`
}

type optionsReq struct {
	Tone   generator.Tone   `json:"tone"`
	Length generator.Length `json:"length"`
	Emojis generator.Emojis `json:"emojis"`
}

type languageReq struct {
	Language session.OutputLanguage `json:"language"`
}

func (s *Server) handleStudioCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := uuid.NewString()
	sess := session.New(id, s.pipeline, s.orc, s.logger)
	s.store.set(id, sess)

	ctx, cancel := context.WithTimeout(r.Context(), s.apiTimeout)
	defer cancel()
	if err := sess.Generate(ctx, req.Input); err != nil {
		writeJSONStatus(w, statusFor(err), sess.Snapshot())
		return
	}
	writeJSON(w, sess.Snapshot())
}

func (s *Server) handleStudioByID(w http.ResponseWriter, r *http.Request) {
	id, action := splitStudioPath(r.URL.Path)
	if id == "" {
		http.NotFound(w, r)
		return
	}
	sess, ok := s.store.get(id)
	if !ok {
		http.Error(w, "studio session not found", http.StatusNotFound)
		return
	}

	if action == "" && r.Method == http.MethodGet {
		writeJSON(w, sess.Snapshot())
		return
	}
	if exportKind, ok := strings.CutPrefix(action, "export/"); ok && r.Method == http.MethodGet {
		s.handleExport(w, sess, exportKind)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.apiTimeout)
	defer cancel()

	var err error
	switch action {
	case "generate":
		var req createReq
		if err = json.NewDecoder(r.Body).Decode(&req); err == nil {
			err = sess.Generate(ctx, req.Input)
		}
	case "regenerate":
		var req sectionReq
		if err = json.NewDecoder(r.Body).Decode(&req); err == nil {
			err = sess.Regenerate(ctx, req.Section)
		}
	case "translate":
		var req sectionReq
		if err = json.NewDecoder(r.Body).Decode(&req); err == nil {
			err = sess.Translate(ctx, req.Section, req.Language)
		}
	case "edit":
		var req sectionReq
		if err = json.NewDecoder(r.Body).Decode(&req); err == nil {
			err = sess.EditSection(req.Section, req.Text)
		}
	case "options":
		var req optionsReq
		if err = json.NewDecoder(r.Body).Decode(&req); err == nil {
			err = sess.SetOptions(ctx, generator.Options{Tone: req.Tone, Length: req.Length, Emojis: req.Emojis})
		}
	case "language":
		var req languageReq
		if err = json.NewDecoder(r.Body).Decode(&req); err == nil {
			err = sess.SetOutputLanguage(ctx, req.Language)
		}
	case "clear":
		sess.Clear()
	case "reset":
		sess.Reset()
	default:
		http.NotFound(w, r)
		return
	}

	if err != nil {
		writeJSONStatus(w, statusFor(err), sess.Snapshot())
		return
	}
	writeJSON(w, sess.Snapshot())
}

func (s *Server) handleExport(w http.ResponseWriter, sess *session.Session, kind string) {
	content := sess.Content()
	if content == nil {
		http.Error(w, "no content to export", http.StatusConflict)
		return
	}
	switch kind {
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(export.Markdown(content)))
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(export.HTML(content)))
	case "document":
		name, doc := export.Document(content)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		_, _ = w.Write([]byte(doc))
	default:
		http.Error(w, "unknown export format", http.StatusNotFound)
	}
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string][]string{"lines": s.logs.Lines()})
}

// --- Helpers ---

func splitStudioPath(path string) (id, action string) {
	rest := strings.TrimPrefix(path, "/api/studios/")
	id, action, _ = strings.Cut(rest, "/")
	return id, action
}

func statusFor(err error) int {
	var gw *generator.GatewayError
	var ff *generator.FormatError
	var ex *extract.Error
	switch {
	case errors.As(err, &gw), errors.As(err, &ff), errors.As(err, &ex):
		return http.StatusBadGateway
	case errors.Is(err, session.ErrGenerating), errors.Is(err, session.ErrNoContent):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
