// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/notable/internal/api"
)

/*
TestReadiness_Degraded verifies a failing dependency turns /ready into a
single 503 response naming the broken check.
*/
func TestReadiness_Degraded(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	_, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error { return errors.New("connection refused") },
		CheckCache:    func() error { return nil },
	}, logger)

	recorder := httptest.NewRecorder()
	readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	var payload struct {
		Status string `json:"status"`
		Checks []struct {
			Name  string `json:"name"`
			IsOK  bool   `json:"ok"`
			Error string `json:"error"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))

	assert.Equal(t, "degraded", payload.Status)
	require.Len(t, payload.Checks, 2)
	assert.Equal(t, "postgres", payload.Checks[0].Name)
	assert.False(t, payload.Checks[0].IsOK)
	assert.Equal(t, "connection refused", payload.Checks[0].Error)
	assert.True(t, payload.Checks[1].IsOK)
}

/*
TestReadiness_NilCheckersSkipped verifies unconfigured dependencies are left
out of the report and do not degrade readiness.
*/
func TestReadiness_NilCheckersSkipped(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	_, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error { return nil },
	}, logger)

	recorder := httptest.NewRecorder()
	readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)

	var payload struct {
		Status string           `json:"status"`
		Checks []map[string]any `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))

	assert.Equal(t, "ready", payload.Status)
	assert.Len(t, payload.Checks, 1)
}
