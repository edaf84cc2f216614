package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/matzehuels/flowlayout/pkg/errors"
	pkgio "github.com/matzehuels/flowlayout/pkg/io"
	"github.com/matzehuels/flowlayout/pkg/layout"
	"github.com/matzehuels/flowlayout/pkg/observability"
	"github.com/matzehuels/flowlayout/pkg/pipeline"
)

// LayoutRequest is the body of the layout endpoints.
type LayoutRequest struct {
	Diagram pkgio.Document   `json:"diagram"`
	Options pipeline.Options `json:"options"`
}

// LayoutResponse carries the laid-out diagram and the run diagnostics.
type LayoutResponse struct {
	Diagram pkgio.Document `json:"diagram"`
	Result  *layout.Result `json:"result"`
}

// CrossingsRequest is the body of the crossings endpoint.
type CrossingsRequest struct {
	Diagram pkgio.Document `json:"diagram"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	Detail    string      `json:"detail,omitempty"`
	RequestID string      `json:"requestId"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Options.IsSubset() {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "subset layouts go to /v1/layout/subset"))
		return
	}
	s.runLayout(w, r, req)
}

func (s *Server) handleSubset(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !req.Options.IsSubset() {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidSubset, "subset is empty"))
		return
	}
	s.runLayout(w, r, req)
}

func (s *Server) runLayout(w http.ResponseWriter, r *http.Request, req LayoutRequest) {
	d, err := req.Diagram.Diagram()
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidDiagram, err, "invalid diagram"))
		return
	}
	opts := req.Options
	if opts.Solver == "" {
		opts.Solver = s.solver
	}
	cfg := s.config
	opts.Config = &cfg
	opts.Logger = s.logger.With("request", RequestIDFrom(r.Context()))

	res, err := s.runner.Run(r.Context(), d, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{Diagram: pkgio.NewDocument(d), Result: res.Layout})
}

func (s *Server) handleCrossings(w http.ResponseWriter, r *http.Request) {
	var req CrossingsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := req.Diagram.Diagram()
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidDiagram, err, "invalid diagram"))
		return
	}
	writeJSON(w, http.StatusOK, s.runner.Crossings(d))
}

// decode reads a JSON body, rejecting unknown fields.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	id := RequestIDFrom(r.Context())
	status := statusFor(err)
	observability.HTTP().OnError(r.Context(), id, r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", id, "err", err)
	} else {
		s.logger.Debug("request rejected", "id", id, "err", err)
	}
	resp := ErrorResponse{
		Code:      errors.GetCode(err),
		Message:   errors.UserMessage(err),
		RequestID: id,
	}
	if resp.Code == "" {
		resp.Code = errors.ErrCodeInternal
	}
	if cause := stderrors.Unwrap(err); cause != nil && errors.IsUserError(err) {
		resp.Detail = cause.Error()
	}
	writeJSON(w, status, resp)
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidScope, errors.ErrCodeInvalidSubset,
		errors.ErrCodeInvalidDiagram, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeSolver:
		return http.StatusBadGateway
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintln(w, `{"code":"INTERNAL_ERROR"}`)
	}
}
