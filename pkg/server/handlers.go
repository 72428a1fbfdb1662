package server

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matzehuels/graphize/pkg/buildinfo"
	errs "github.com/matzehuels/graphize/pkg/errors"
	"github.com/matzehuels/graphize/pkg/graph"
	"github.com/matzehuels/graphize/pkg/httputil"
	"github.com/matzehuels/graphize/pkg/live"
	"github.com/matzehuels/graphize/pkg/pipeline"
	"github.com/matzehuels/graphize/pkg/pubsub"
)

var (
	errNoDocument = errs.New(errs.ErrCodeNotFound, "no live document")
	errNoEvents   = errs.New(errs.ErrCodeNotFound, "event stream disabled")
)

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatJSON:   "application/json",
	pipeline.FormatLayout: "application/json",
	pipeline.FormatDOT:    "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:    "image/svg+xml",
}

// TreeResponse is the body of GET /api/v1/tree.
type TreeResponse struct {
	Source    string     `json:"source"`
	Revision  uint64     `json:"revision"`
	UpdatedAt time.Time  `json:"updated_at"`
	Code      string     `json:"code,omitempty"`
	Error     string     `json:"error,omitempty"`
	Tree      graph.Tree `json:"tree"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

// handleParse answers with the wire tree of the request body. Here the
// format parameter names the input format.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := s.options(q)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if v := q.Get("format"); v != "" {
		opts.Format = v
	}
	if opts.Text, err = httputil.ReadBody(w, r, s.cfg.MaxBody); err != nil {
		httputil.WriteError(w, err)
		return
	}
	opts.Formats = []string{pipeline.FormatJSON}

	result, err := s.cfg.Runner.Execute(r.Context(), opts)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	s.writeArtifact(w, pipeline.FormatJSON, result.Artifacts[pipeline.FormatJSON], result.CacheInfo.ParseHit)
}

// handleRender answers with one artifact of the request body.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.renderOptions(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if opts.Text, err = httputil.ReadBody(w, r, s.cfg.MaxBody); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := s.cfg.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeRenderError(w, err)
		return
	}
	format := opts.Formats[0]
	s.writeArtifact(w, format, result.Artifacts[format], result.CacheInfo.RenderHit)
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	snap := s.cfg.Document.Snapshot()
	resp := TreeResponse{
		Source:    snap.Source,
		Revision:  snap.Revision,
		UpdatedAt: snap.UpdatedAt,
		Tree:      graph.FromState(snap.State),
	}
	if snap.Err != nil {
		resp.Code, resp.Error = string(errs.GetCode(snap.Err)), errs.UserMessage(snap.Err)
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// handlePutTree replaces the live document. Invalid text is answered with
// its error; the previous tree stays current.
func (s *Server) handlePutTree(w http.ResponseWriter, r *http.Request) {
	text, err := httputil.ReadBody(w, r, s.cfg.MaxBody)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	state, accepted, err := s.cfg.Document.Update(r.Context(), text)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !accepted {
		w.WriteHeader(http.StatusConflict)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, graph.FromState(state))
}

func (s *Server) handleRenderTree(w http.ResponseWriter, r *http.Request) {
	opts, err := s.renderOptions(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	artifacts, hit, err := s.cfg.Runner.RenderWithCacheInfo(r.Context(), s.cfg.Document.State(), opts)
	if err != nil {
		s.writeRenderError(w, err)
		return
	}
	format := opts.Formats[0]
	s.writeArtifact(w, format, artifacts[format], hit)
}

// handleEvents streams events of one topic (default: the live tree) until
// the client goes away or the publisher closes.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.WriteError(w, errs.New(errs.ErrCodeUnsupported, "streaming unsupported"))
		return
	}

	topic := r.URL.Query().Get("topic")
	if topic == "" {
		topic = live.Topic
	}
	sub, err := s.cfg.Publisher.Subscribe(r.Context(), topic)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	defer sub.Close()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := pubsub.WriteSSE(w, ev); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) writeArtifact(w http.ResponseWriter, format string, data []byte, hit bool) {
	w.Header().Set("Content-Type", contentTypes[format])
	if hit {
		w.Header().Set(CacheHeader, "hit")
	} else {
		w.Header().Set(CacheHeader, "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) writeRenderError(w http.ResponseWriter, err error) {
	if errors.Is(err, pipeline.ErrNothingToDraw) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if httputil.WriteError(w, err) == http.StatusInternalServerError {
		s.logger.Error("render failed", "err", err)
	}
}

// renderOptions reads options for an endpoint that returns exactly one
// artifact. The format defaults to svg.
func (s *Server) renderOptions(q url.Values) (pipeline.Options, error) {
	opts, err := s.options(q)
	if err != nil {
		return opts, err
	}
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return opts, err
	}
	opts.Formats = []string{format}
	return opts, nil
}

// options overlays query parameters on the configured defaults.
func (s *Server) options(q url.Values) (pipeline.Options, error) {
	opts := s.cfg.Defaults
	opts.Formats = nil

	if v := q.Get("input"); v != "" {
		opts.Format = v
	}
	if v := q.Get("direction"); v != "" {
		opts.Direction = v
	}
	if v := q.Get("root_label"); v != "" {
		opts.RootLabel = v
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"max_depth", &opts.MaxDepth},
		{"max_label", &opts.MaxLabel},
	}
	for _, p := range ints {
		if v := q.Get(p.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, badParam(p.name, v)
			}
			*p.dst = n
		}
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
	}
	for _, p := range floats {
		if v := q.Get(p.name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return opts, badParam(p.name, v)
			}
			*p.dst = f
		}
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"detailed", &opts.Detailed},
		{"refresh", &opts.Refresh},
	}
	for _, p := range bools {
		if v := q.Get(p.name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, badParam(p.name, v)
			}
			*p.dst = b
		}
	}

	return opts, nil
}

func badParam(name, value string) error {
	return errs.New(errs.ErrCodeInvalidInput, "invalid %s: %s", name, strconv.Quote(value))
}
