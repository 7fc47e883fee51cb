package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/mcl/pkg/buildinfo"
	"github.com/matzehuels/mcl/pkg/errors"
	"github.com/matzehuels/mcl/pkg/export"
	"github.com/matzehuels/mcl/pkg/layout"
	"github.com/matzehuels/mcl/pkg/pipeline"
	"github.com/matzehuels/mcl/pkg/semantic"
)

// LayoutRequest overrides layout options. Zero fields keep the server
// defaults.
type LayoutRequest struct {
	Pitch          int  `json:"pitch,omitempty"`
	IsolatedColumn *int `json:"isolated_column,omitempty"`
}

// CompileRequest is the body of POST /v1/compile and POST /v1/check.
// Check ignores every field except Tree.
type CompileRequest struct {
	// Tree is the syntax tree document, embedded as JSON.
	Tree json.RawMessage `json:"tree"`

	Formats  []string       `json:"formats,omitempty"`
	Layout   *LayoutRequest `json:"layout,omitempty"`
	Detailed bool           `json:"detailed,omitempty"`
	Refresh  bool           `json:"refresh,omitempty"`
}

// UnitResponse is one compiled microcontroller. Artifacts hold the
// requested diagram formats, base64 encoded; the json format is the
// Document field itself.
type UnitResponse struct {
	Name        string               `json:"name"`
	Diagnostics semantic.Diagnostics `json:"diagnostics"`
	Document    *export.Document     `json:"document,omitempty"`
	Layout      *layout.Report       `json:"layout,omitempty"`
	Artifacts   map[string][]byte    `json:"artifacts,omitempty"`
}

// CompileResponse is the body of a successful or failed compilation.
type CompileResponse struct {
	BuildID  string             `json:"build_id,omitempty"`
	TreeHash string             `json:"tree_hash,omitempty"`
	Cached   bool               `json:"cached"`
	Units    []UnitResponse     `json:"units"`
	Error    *ErrorResponseBody `json:"error,omitempty"`
}

// CheckResponse is the body of POST /v1/check.
type CheckResponse struct {
	OK    bool           `json:"ok"`
	Units []UnitResponse `json:"units"`
}

// ErrorResponseBody describes a failed request.
type ErrorResponseBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type errorResponse struct {
	Error ErrorResponseBody `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}

	opts := s.opts.Defaults
	opts.Source = "request " + RequestIDFrom(r.Context())
	opts.Tree = req.Tree
	opts.Detailed = req.Detailed
	opts.Refresh = req.Refresh
	if len(req.Formats) > 0 {
		opts.Formats = req.Formats
	}
	if opts.Layout == (layout.Options{}) {
		opts.Layout = layout.DefaultOptions()
	}
	if req.Layout != nil {
		if req.Layout.Pitch != 0 {
			opts.Layout.Pitch = req.Layout.Pitch
		}
		if req.Layout.IsolatedColumn != nil {
			opts.Layout.IsolatedX = *req.Layout.IsolatedColumn
		}
	}

	res, err := s.runner.Execute(r.Context(), opts)
	var cerr *pipeline.CompileError
	switch {
	case stderrors.As(err, &cerr):
		writeJSON(w, http.StatusUnprocessableEntity, CompileResponse{
			BuildID:  res.BuildID,
			TreeHash: res.TreeHash,
			Units:    units(cerr.Units),
			Error:    &ErrorResponseBody{Code: errors.ErrCodeCompileFailed, Message: cerr.Error()},
		})
	case err != nil:
		s.writeError(w, r, err)
	default:
		writeJSON(w, http.StatusOK, CompileResponse{
			BuildID:  res.BuildID,
			TreeHash: res.TreeHash,
			Cached:   res.CacheInfo.CompileHit,
			Units:    units(res.Units),
		})
	}
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}

	us, err := s.runner.Check(r.Context(), "request "+RequestIDFrom(r.Context()), req.Tree)
	var cerr *pipeline.CompileError
	if err != nil && !stderrors.As(err, &cerr) {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CheckResponse{OK: err == nil, Units: units(us)})
}

// decode reads a CompileRequest, writing a 400 response on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*CompileRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req CompileRequest
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return nil, false
	}
	if len(req.Tree) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "tree is required"))
		return nil, false
	}
	return &req, true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case "":
		code = errors.ErrCodeInternal
	}

	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestIDFrom(r.Context()), "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: ErrorResponseBody{Code: code, Message: msg}})
}

func units(in []pipeline.Unit) []UnitResponse {
	out := make([]UnitResponse, len(in))
	for i := range in {
		u := &in[i]
		out[i] = UnitResponse{
			Name:        u.Name,
			Diagnostics: u.Diagnostics,
			Document:    u.Document,
		}
		if u.Diagnostics == nil {
			out[i].Diagnostics = semantic.Diagnostics{}
		}
		if u.Document != nil {
			report := u.Layout
			out[i].Layout = &report
		}
		for format, data := range u.Artifacts {
			if format == pipeline.FormatJSON {
				continue
			}
			if out[i].Artifacts == nil {
				out[i].Artifacts = make(map[string][]byte)
			}
			out[i].Artifacts[format] = data
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
