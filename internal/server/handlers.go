// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/julienschmidt/httprouter"

	qr "github.com/BadassAman4014/Simple-Qr-code-Generator"
)

// maxBodySize limits POST /api/qr bodies.
const maxBodySize = 64 << 10

// generateRequest holds the parameters of a generation.  Unset fields
// take the server defaults.
type generateRequest struct {
	Text     string `json:"text"`
	Level    string `json:"level"`
	Width    *int   `json:"width"`
	Margin   *int   `json:"margin"`
	Dark     string `json:"dark"`
	Light    string `json:"light"`
	Format   string `json:"format"`
	Quality  *int   `json:"quality"`
	Latin1   *bool  `json:"latin1"`
	Download bool   `json:"download"`
}

func queryInt(q url.Values, key string) (*int, error) {
	if !q.Has(key) {
		return nil, nil
	}
	n, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", qr.ErrArgs, key, q.Get(key))
	}
	return &n, nil
}

func queryBool(q url.Values, key string) (*bool, error) {
	if !q.Has(key) {
		return nil, nil
	}
	v := q.Get(key)
	if v == "" {
		v = "true"
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", qr.ErrArgs, key, q.Get(key))
	}
	return &b, nil
}

// parseQuery reads a generateRequest from URL query parameters.
func parseQuery(q url.Values) (req generateRequest, err error) {
	req.Text = q.Get("text")
	req.Level = q.Get("level")
	req.Dark = q.Get("dark")
	req.Light = q.Get("light")
	req.Format = q.Get("format")
	if req.Width, err = queryInt(q, "width"); err != nil {
		return
	}
	if req.Margin, err = queryInt(q, "margin"); err != nil {
		return
	}
	if req.Quality, err = queryInt(q, "quality"); err != nil {
		return
	}
	if req.Latin1, err = queryBool(q, "latin1"); err != nil {
		return
	}
	dl, err := queryBool(q, "download")
	if err != nil {
		return
	}
	req.Download = dl != nil && *dl
	return
}

// parseRequest reads a generateRequest from the query of a GET or the
// JSON body of a POST.
func parseRequest(w http.ResponseWriter, r *http.Request) (generateRequest, error) {
	if r.Method != http.MethodPost {
		return parseQuery(r.URL.Query())
	}
	var req generateRequest
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, _ := mime.ParseMediaType(ct); mt != "application/json" {
			return req, fmt.Errorf("%w: content type %q", qr.ErrArgs, ct)
		}
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("%w: request body: %v", qr.ErrArgs, err)
	}
	return req, nil
}

// options returns the server defaults overridden by req.
func (s *Server) options(req generateRequest) (qr.Options, error) {
	o := s.opts
	var err error
	if req.Level != "" {
		if o.Level, err = qr.ParseLevel(req.Level); err != nil {
			return o, err
		}
	}
	if req.Format != "" {
		if o.Format, err = qr.ParseFormat(req.Format); err != nil {
			return o, err
		}
	}
	if req.Dark != "" {
		c, err := qr.ParseColor(req.Dark)
		if err != nil {
			return o, err
		}
		o.Dark = c
	}
	if req.Light != "" {
		c, err := qr.ParseColor(req.Light)
		if err != nil {
			return o, err
		}
		o.Light = c
	}
	if req.Width != nil {
		o.Width = *req.Width
	}
	if req.Margin != nil {
		o.Margin = *req.Margin
	}
	if req.Quality != nil {
		o.Quality = *req.Quality
	}
	if req.Latin1 != nil {
		o.Latin1 = *req.Latin1
	}
	return o, nil
}

// fail replies with the error response for err.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		msg = "internal error"
	}
	WriteError(w, status, code, msg)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	o, err := s.options(req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	img, err := qr.Generate(req.Text, o)
	if err != nil {
		_, code := classify(err)
		s.metrics.Failures.WithLabelValues(code).Inc()
		s.fail(w, r, err)
		return
	}
	s.metrics.Generated.WithLabelValues(o.Format.String(), o.Level.String()).Inc()

	if _, err := s.store.Add(r.Context(), req.Text, img, o.Format.String()); err != nil {
		s.log.Warn().Err(err).Msg("failed to record history")
	}

	h := w.Header()
	h.Set("Content-Type", o.Format.MIMEType())
	h.Set("Content-Length", strconv.Itoa(len(img)))
	h.Set("Cache-Control", "no-store")
	if req.Download {
		h.Set("Content-Disposition", mime.FormatMediaType("attachment",
			map[string]string{"filename": qr.Filename(o.Format, s.now())}))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}

// historyItem is a history.Record as listed by GET /api/history.
type historyItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
	Format    string `json:"format"`
	DataURL   string `json:"dataUrl"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	items := make([]historyItem, 0, len(rec))
	for _, v := range rec {
		it := historyItem{
			ID:        v.ID,
			Text:      v.Text,
			Timestamp: v.Timestamp.UnixMilli(),
			Format:    v.Format,
		}
		if f, err := qr.ParseFormat(v.Format); err == nil {
			it.DataURL = qr.DataURL(f, v.Image)
		}
		items = append(items, it)
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")
	if err := s.store.Remove(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status    string `json:"status"`
		Timestamp int64  `json:"timestamp"`
	}{
		Status:    "healthy",
		Timestamp: s.now().Unix(),
	})
}
