package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rogerio-castellano/wabot-dashboard/internal/analytics"
	"github.com/rogerio-castellano/wabot-dashboard/internal/backend"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

// readJSON decodes a single JSON value from a request body of at most 1 MiB.
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	for _, h := range headers {
		for key, value := range h {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

func respond(w http.ResponseWriter, data any) {
	if err := writeJSON(w, http.StatusOK, data); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

// backendError maps a failed backend read to a response: missing records are
// 404, anything else means the backend misbehaved.
func backendError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, backend.ErrNotFound) {
		http.Error(w, what+" not found", http.StatusNotFound)
		return
	}
	log.Error().Err(err).Str("resource", what).Msg("backend request failed")
	http.Error(w, "could not fetch "+what, http.StatusBadGateway)
}

// pageMeta reports the window that was actually applied to a listing.
func pageMeta(total int, offset, limit *int) Meta {
	m := Meta{TotalCount: total, Limit: analytics.MaxPageSize}
	if offset != nil {
		m.Offset = *offset
	}
	if limit != nil {
		m.Limit = min(*limit, analytics.MaxPageSize)
	}
	return m
}
