package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/wordstream/pkg/errors"
	"github.com/matzehuels/wordstream/pkg/observability"
	"github.com/matzehuels/wordstream/pkg/pipeline"
	"github.com/matzehuels/wordstream/pkg/render/sink"
	"github.com/matzehuels/wordstream/pkg/session"
)

// CloudRequest is the body of POST /api/cloud. An empty SessionID opens a
// new session whose id is returned in the response.
type CloudRequest struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"format=uuid"`
	pipeline.CloudOptions
}

// CloudResponse describes one pass. Artifacts are base64 encoded.
type CloudResponse struct {
	sink.CloudDocument
	Pass      int               `json:"pass"`
	Cached    bool              `json:"cached"`
	Artifacts map[string][]byte `json:"artifacts"`
}

// StreamResponse carries the chart geometry and rendered artifacts.
type StreamResponse struct {
	sink.StreamDocument
	Cached    bool              `json:"cached"`
	Artifacts map[string][]byte `json:"artifacts"`
}

// SessionResponse is the stored state of a session.
type SessionResponse struct {
	ID        string    `json:"id"`
	Passes    int       `json:"passes"`
	Tokens    []string  `json:"tokens"`
	ExpiresAt time.Time `json:"expires_at"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCloud(w http.ResponseWriter, r *http.Request) {
	var req CloudRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx := r.Context()

	var sess *session.Session
	created := req.SessionID == ""
	if created {
		sess = session.New(s.ttl)
	} else if err := errors.ValidateSessionID(req.SessionID); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := req.SessionID
	if sess != nil {
		id = sess.ID
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	if sess == nil {
		var err error
		if sess, err = s.sessions.Get(ctx, id); err != nil {
			s.writeError(w, r, err)
			return
		}
		if sess == nil {
			s.writeError(w, r, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id))
			return
		}
	}

	opts := req.CloudOptions
	opts.Previous = sess.Labels
	opts.Session = sess.ID
	opts.Logger = s.logger.With("session", sess.ID)
	res, err := s.runner.Cloud(ctx, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess.Commit(res.Plan.Next, s.ttl)
	if err := s.sessions.Set(ctx, sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	if created {
		observability.Server().OnSessionOpen(ctx)
	}

	doc := sink.NewCloudDocument(res.Layout, res.Plan)
	doc.Session = sess.ID
	writeJSON(w, http.StatusOK, CloudResponse{
		CloudDocument: doc,
		Pass:          sess.Passes,
		Cached:        res.CacheInfo.RenderHit,
		Artifacts:     res.Artifacts,
	})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.StreamOptions
	if err := decode(w, r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.logger
	res, err := s.runner.Stream(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StreamResponse{
		StreamDocument: sink.StreamDocument{Chart: res.Chart},
		Cached:         res.CacheInfo.RenderHit,
		Artifacts:      res.Artifacts,
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := session.New(s.ttl)
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	observability.Server().OnSessionOpen(r.Context())
	writeJSON(w, http.StatusCreated, sessionResponse(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(sess))
}

// handleDeleteSession waits for a running pass on the session before
// removing it.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateSessionID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	unlock := s.locks.Lock(id)
	defer unlock()

	if _, err := s.lookup(r); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	observability.Server().OnSessionClose(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookup(r *http.Request) (*session.Session, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateSessionID(id); err != nil {
		return nil, err
	}
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	return sess, nil
}

func sessionResponse(s *session.Session) SessionResponse {
	return SessionResponse{
		ID:        s.ID,
		Passes:    s.Passes,
		Tokens:    s.Labels.Tokens(),
		ExpiresAt: s.ExpiresAt,
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid request body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps error codes onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "code", code, "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}
