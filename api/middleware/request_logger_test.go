// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronin-chain/dpos-contract/log"
)

// recordLogger keeps the key/value pairs of every Info record.
type recordLogger struct {
	records []map[string]any
}

func (l *recordLogger) Info(_ string, ctx ...any) {
	rec := make(map[string]any)
	for i := 0; i+1 < len(ctx); i += 2 {
		rec[ctx[i].(string)] = ctx[i+1]
	}
	l.records = append(l.records, rec)
}

func (l *recordLogger) Trace(string, ...any)   {}
func (l *recordLogger) Debug(string, ...any)   {}
func (l *recordLogger) Warn(string, ...any)    {}
func (l *recordLogger) Error(string, ...any)   {}
func (l *recordLogger) With(...any) log.Logger { return l }

func respond(status int, delay time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// the next handler still sees the body
		body, _ := io.ReadAll(r.Body)
		time.Sleep(delay)
		if status != 0 {
			w.WriteHeader(status)
		}
		w.Write(body)
	}
}

func TestRequestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		slow       time.Duration
		log5xx     bool
		status     int
		delay      time.Duration
		wantCode   int
		wantLogged bool
	}{
		{name: "enabled", enabled: true, status: http.StatusOK, wantCode: http.StatusOK, wantLogged: true},
		{name: "disabled", status: http.StatusOK, wantCode: http.StatusOK},
		{name: "implicit status", log5xx: true, wantCode: http.StatusOK},
		{name: "slow", slow: 10 * time.Millisecond, delay: 20 * time.Millisecond, status: http.StatusOK, wantCode: http.StatusOK, wantLogged: true},
		{name: "fast under threshold", slow: time.Second, status: http.StatusOK, wantCode: http.StatusOK},
		{name: "server error", log5xx: true, status: http.StatusServiceUnavailable, wantCode: http.StatusServiceUnavailable, wantLogged: true},
		{name: "server error not logged", status: http.StatusInternalServerError, wantCode: http.StatusInternalServerError},
		{name: "client error", log5xx: true, status: http.StatusBadRequest, wantCode: http.StatusBadRequest},
	}

	const body = `{"clauses":[{"to":"0x0000000000000000000000000000000000000205"}]}`
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &recordLogger{}
			var enabled atomic.Bool
			enabled.Store(tt.enabled)
			handler := RequestLoggerMiddleware(logger, &enabled, tt.slow, tt.log5xx)(respond(tt.status, tt.delay))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/accounts/*", strings.NewReader(body)))

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, body, rr.Body.String())
			if !tt.wantLogged {
				assert.Empty(t, logger.records)
				return
			}
			require.Len(t, logger.records, 1)
			rec := logger.records[0]
			assert.Equal(t, "/accounts/*", rec["URI"])
			assert.Equal(t, http.MethodPost, rec["Method"])
			assert.Equal(t, tt.wantCode, rec["Status"])
			assert.Equal(t, body, rec["Body"])
			assert.IsType(t, int64(0), rec["Timestamp"])
			assert.IsType(t, int64(0), rec["DurationMs"])
		})
	}
}

func TestRequestLoggerTruncatesBody(t *testing.T) {
	logger := &recordLogger{}
	var enabled atomic.Bool
	enabled.Store(true)
	handler := RequestLoggerMiddleware(logger, &enabled, 0, false)(respond(http.StatusOK, 0))

	body := strings.Repeat("x", maxLoggedBody+10)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(body)))

	assert.Equal(t, body, rr.Body.String())
	require.Len(t, logger.records, 1)
	assert.Len(t, logger.records[0]["Body"], maxLoggedBody)
}
