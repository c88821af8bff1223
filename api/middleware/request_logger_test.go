// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/distributor/log"
)

// mockLogger records the context of Info and Warn calls.
type mockLogger struct {
	loggedData []any
}

func (m *mockLogger) With(_ ...any) log.Logger { return m }
func (m *mockLogger) New(_ ...any) log.Logger { return m }
func (m *mockLogger) Log(_ slog.Level, _ string, _ ...any) {}
func (m *mockLogger) Trace(_ string, _ ...any) {}
func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) Crit(_ string, _ ...any) {}
func (m *mockLogger) Write(_ slog.Level, _ string, _ ...any) {}
func (m *mockLogger) Enabled(_ context.Context, _ slog.Level) bool { return true }
func (m *mockLogger) Handler() slog.Handler { return nil }

func (m *mockLogger) Info(_ string, ctx ...any) {
	m.loggedData = append(m.loggedData, ctx...)
}

func (m *mockLogger) Warn(_ string, ctx ...any) {
	m.loggedData = append(m.loggedData, ctx...)
}

func TestRequestLoggerMiddleware(t *testing.T) {
	ok := func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("OK"))
	}
	failing := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}
	badRequest := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}
	slow := func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(15 * time.Millisecond)
		w.Write([]byte("OK"))
	}

	tests := []struct {
		name      string
		handler   http.HandlerFunc
		enabled   bool
		threshold time.Duration
		log5xx    bool
		status    int
		shouldLog bool
	}{
		{"enabled", ok, true, 0, false, http.StatusOK, true},
		{"disabled", ok, false, 0, false, http.StatusOK, false},
		{"slow request", slow, false, 10 * time.Millisecond, false, http.StatusOK, true},
		{"fast request under threshold", ok, false, time.Second, false, http.StatusOK, false},
		{"server error", failing, false, 0, true, http.StatusInternalServerError, true},
		{"server error not logged", failing, false, 0, false, http.StatusInternalServerError, false},
		{"client error", badRequest, false, 0, true, http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &mockLogger{}
			enabled := &atomic.Bool{}
			enabled.Store(tt.enabled)

			handler := RequestLoggerMiddleware(logger, Options{
				Enabled:              enabled,
				SlowQueriesThreshold: tt.threshold,
				Log5xxErrors:         tt.log5xx,
			})(tt.handler)

			req := httptest.NewRequest(http.MethodPost, "/execute", strings.NewReader(`{"withdraw":{}}`))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if !tt.shouldLog {
				assert.Empty(t, logger.loggedData)
				return
			}
			assert.Contains(t, logger.loggedData, "URI")
			assert.Contains(t, logger.loggedData, "/execute")
			assert.Contains(t, logger.loggedData, `{"withdraw":{}}`)
			assert.Contains(t, logger.loggedData, tt.status)
		})
	}
}

func TestRequestBodyPreserved(t *testing.T) {
	enabled := &atomic.Bool{}
	enabled.Store(true)

	var got string
	handler := RequestLoggerMiddleware(&mockLogger{}, Options{Enabled: enabled})(
		http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			got = string(b)
		}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("body")))
	assert.Equal(t, "body", got)
}
