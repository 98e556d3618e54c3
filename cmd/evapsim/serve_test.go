/*
Copyright 2025 The evap-crit Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basmalamire-del/evap-crit-PIC11/internal/metrics"
	"github.com/basmalamire-del/evap-crit-PIC11/pkg/core"
)

const scenarioJSON = `{
  "train": {
    "effects": 3,
    "feedFlow": 1000,
    "feedFraction": 0.15,
    "feedTemperature": 85,
    "targetConcentration": 0.72,
    "steamPressure": 2.5,
    "topology": "forward",
    "pressures": [2.5, 1.325, 0.15]
  },
  "crystallizer": {"mode": "cooling-temperature", "target": 25}
}`

func newTestHandler(t *testing.T) (http.HandlerFunc, *metrics.Set) {
	t.Helper()
	set := metrics.NewSet(prometheus.NewRegistry())
	return scenarioHandler(context.Background(), set), set
}

func TestScenarioHandlerComputes(t *testing.T) {
	handler, set := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/scenario", strings.NewReader(scenarioJSON))
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result core.ScenarioResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	require.NotNil(t, result.Train)
	assert.InEpsilon(t, 0.72, result.Train.Concentrate.SucroseFraction, 1e-3)
	assert.Greater(t, result.Crystallization.CrystalMass, 0.0)

	assert.Equal(t, 1.0, testutil.ToFloat64(set.Scenarios.WithLabelValues(metrics.OutcomeOK)))
}

func TestScenarioHandlerRejectsInvalidDocument(t *testing.T) {
	handler, set := newTestHandler(t)

	body := strings.Replace(scenarioJSON, `"feedFraction": 0.15`, `"feedFraction": 1.5`, 1)
	req := httptest.NewRequest(http.MethodPost, "/v1/scenario", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(set.Scenarios.WithLabelValues(metrics.OutcomeInvalidInput)))
}

func TestScenarioHandlerRejectsMalformedJSON(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/scenario", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScenarioHandlerMethodNotAllowed(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/scenario", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestScenarioHandlerInfeasibleIsUnprocessable(t *testing.T) {
	handler, set := newTestHandler(t)

	// Saturated 1 bar steam condenses below the first effect's boiling point.
	body := strings.Replace(scenarioJSON, `"steamPressure": 2.5`, `"steamPressure": 1.0, "steamSuperheat": 0`, 1)
	req := httptest.NewRequest(http.MethodPost, "/v1/scenario", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(set.Scenarios.WithLabelValues(metrics.OutcomeInfeasible)))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(core.ErrInvalidInput))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(core.ErrInfeasibleOperatingPoint))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(core.ErrNonConvergent))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
