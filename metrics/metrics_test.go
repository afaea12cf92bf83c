package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tdd "github.com/stretchr/testify/assert"
	"go.bryk.io/zcap/metrics"
)

func TestRecorder_ObserveAndScrape(t *testing.T) {
	assert := tdd.New(t)
	rec, err := metrics.New()
	assert.Nil(err)

	rec.ObserveValidation(true, "", 2*time.Millisecond)
	rec.ObserveValidation(false, "URL_ATTENUATION_VIOLATION", 3*time.Millisecond)
	rec.ObserveKeyStoreOp("insert")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, req)

	assert.Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(body, "zcap_chain_validations_total")
	assert.Contains(body, "zcap_chain_validation_duration_seconds")
	assert.Contains(body, "zcap_keystore_operations_total")
}

func TestRecorder_NilIsNoOp(t *testing.T) {
	assert := tdd.New(t)
	var rec *metrics.Recorder
	assert.NotPanics(func() {
		rec.ObserveValidation(true, "", time.Millisecond)
		rec.ObserveKeyStoreOp("insert")
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, req)
	assert.Equal(http.StatusNotFound, w.Code)
}
