// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package httpapi exposes a small HTTP surface over the archive parser:
// an upload endpoint that parses a posted archive synchronously, a
// health check, and a lookup endpoint for past runs recorded in the
// warehouse.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/Technical-1/email-archive-parser/internal/model"
	"github.com/Technical-1/email-archive-parser/internal/notify"
	"github.com/Technical-1/email-archive-parser/internal/parser"
	"github.com/Technical-1/email-archive-parser/internal/warehouse"
)

// Handler serves the archive-parser HTTP API.
type Handler struct {
	store     *warehouse.Store
	publisher *notify.Publisher
	opts      model.ParseOptions
}

// NewHandler creates an HTTP API handler.
func NewHandler(store *warehouse.Store, publisher *notify.Publisher, opts model.ParseOptions) *Handler {
	return &Handler{store: store, publisher: publisher, opts: opts}
}

// parseResponse is the JSON body returned from a successful /parse call.
type parseResponse struct {
	RunID         string `json:"run_id"`
	EmailCount    int    `json:"email_count"`
	Accounts      int    `json:"account_count"`
	Purchases     int    `json:"purchase_count"`
	Subscriptions int    `json:"subscription_count"`
	Newsletters   int    `json:"newsletter_count"`
}

// errorResponse is the JSON body returned on failure.
type errorResponse struct {
	Error string `json:"error"`
}

// ServeParse handles POST /parse: the request body is the raw archive
// bytes (mbox or OLM), parsed and classified synchronously, persisted to
// the warehouse, and announced via notify.
func (h *Handler) ServeParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, 512<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("read request body: %w", err))
		return
	}

	sourceName := r.URL.Query().Get("name")
	if sourceName == "" {
		sourceName = "upload"
	}

	result := parser.ParseBuffer(data, h.opts)

	if h.store != nil {
		ctx := r.Context()
		if err := h.store.StartRun(ctx, result.RunID, sourceName); err != nil {
			slog.Error("failed to start run record", "error", err)
		}
		if err := h.store.CompleteRun(ctx, result, sourceName); err != nil {
			slog.Error("failed to persist run results", "error", err)
		}
	}

	if result.Err != nil {
		slog.Error("archive parse failed", "source", sourceName, "error", result.Err)
		writeError(w, http.StatusUnprocessableEntity, result.Err)
		return
	}

	if h.publisher != nil {
		if err := h.publisher.PublishResult(r.Context(), sourceName, result); err != nil {
			slog.Warn("failed to publish detection event", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, parseResponse{
		RunID:         result.RunID,
		EmailCount:    result.Stats.EmailCount,
		Accounts:      len(result.Accounts),
		Purchases:     len(result.Purchases),
		Subscriptions: len(result.Subscriptions),
		Newsletters:   len(result.Newsletters),
	})
}

// ServeHealthz handles GET /healthz.
func (h *Handler) ServeHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ServeRun handles GET /runs/{run_id}.
func (h *Handler) ServeRun(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("run_id")
	if runID == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing run_id"))
		return
	}
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("warehouse not configured"))
		return
	}
	run, err := h.store.GetRun(r.Context(), runID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("run %s not found", runID))
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// Serve starts the HTTP API server on the given port. It binds the port
// immediately and signals readiness via the returned channel before
// accepting connections.
func Serve(ctx context.Context, port int, handler *Handler) (<-chan struct{}, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /parse", handler.ServeParse)
	mux.HandleFunc("GET /healthz", handler.ServeHealthz)
	mux.HandleFunc("GET /runs/{run_id}", handler.ServeRun)

	server := &http.Server{Handler: mux}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("bind http api port %d: %w", port, err)
	}

	ready := make(chan struct{})

	go func() {
		<-ctx.Done()
		slog.Info("http api server shutting down")
		server.Close()
	}()

	go func() {
		slog.Info("http api server listening", "port", port)
		close(ready)
		if err := server.Serve(ln); err != http.ErrServerClosed {
			slog.Error("http api server error", "error", err)
		}
	}()

	return ready, nil
}
