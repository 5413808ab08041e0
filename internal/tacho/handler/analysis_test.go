package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tachoscope/tachoscope-backend/internal/tacho/domain"
	"github.com/tachoscope/tachoscope-backend/internal/tacho/handler"
	"github.com/tachoscope/tachoscope-backend/internal/tacho/service"
	"github.com/tachoscope/tachoscope-backend/pkg/config"
	"github.com/tachoscope/tachoscope-backend/pkg/httputil"
	"github.com/tachoscope/tachoscope-backend/pkg/i18n"
	"github.com/tachoscope/tachoscope-backend/pkg/logger"
	"github.com/tachoscope/tachoscope-backend/pkg/testutil"
)

const maxUpload = 64 << 10

func newTestRouter() http.Handler {
	cfg := config.AnalysisConfig{
		DefaultLocale:    "en",
		MaxUploadBytes:   maxUpload,
		BatchConcurrency: 2,
		MaxBatchSize:     2,
	}
	log := logger.Nop()
	h := handler.NewAnalysisHandler(service.NewService(cfg, nil, log), cfg.MaxUploadBytes, log)

	r := chi.NewRouter()
	r.Use(httputil.RequestID)
	r.Use(i18n.Middleware)
	r.Route("/api/v1/tacho", h.RegisterRoutes)
	return r
}

type reportResponse struct {
	Success bool                `json:"success"`
	Data    domain.Report       `json:"data"`
	Error   *httputil.ErrorBody `json:"error"`
}

type batchResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Reports []domain.Report `json:"reports"`
	} `json:"data"`
	Meta httputil.Meta `json:"meta"`
}

type errorResponse struct {
	Success bool               `json:"success"`
	Error   httputil.ErrorBody `json:"error"`
}

func sampleCard() testutil.CardFixture {
	f := testutil.NewFixtureFactory()
	return f.Card(
		testutil.WithHolder("DUPONT\u0000\u0000", "JEAN"),
		testutil.WithDay("2024-03-01", testutil.Ev(0, 0), testutil.Ev(3, 360), testutil.Ev(0, 600), testutil.Ev(3, 660), testutil.Ev(0, 1040)),
		testutil.WithDay("2024-03-02", testutil.Ev(2, 800), testutil.Ev(0, 860)),
	)
}

func TestAnalyze(t *testing.T) {
	router := newTestRouter()

	req := testutil.NewRawRequest(http.MethodPost, "/api/v1/tacho/analyze", sampleCard().JSON())
	rr := testutil.ExecuteRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	var resp reportResponse
	testutil.ParseJSONBody(t, rr, &resp)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data.Driver)
	assert.Equal(t, "DUPONT", *resp.Data.Driver.LastName)
	require.Len(t, resp.Data.Days, 2)
	assert.Equal(t, "2024-03-02", resp.Data.Days[0].Date)
	assert.NotEmpty(t, resp.Data.Infractions)
	assert.Equal(t, 2, resp.Data.Statistics.TotalDays)
}

func TestAnalyze_DateFilterAndLocale(t *testing.T) {
	router := newTestRouter()

	req := testutil.NewRawRequest(http.MethodPost, "/api/v1/tacho/analyze?from=2024-03-01&to=2024-03-01", sampleCard().JSON())
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")
	rr := testutil.ExecuteRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp reportResponse
	testutil.ParseJSONBody(t, rr, &resp)

	require.Len(t, resp.Data.Days, 1)
	assert.Equal(t, "2024-03-01", resp.Data.Days[0].Date)
	require.NotEmpty(t, resp.Data.Infractions)
	assert.Contains(t, resp.Data.Infractions[0].Description, "Conduite journalière excessive")
}

func TestAnalyze_Errors(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name       string
		path       string
		body       []byte
		wantStatus int
		wantCode   string
	}{
		{"malformed JSON", "/api/v1/tacho/analyze", []byte(`{"card_driver_activity_1": [`), http.StatusBadRequest, "INVALID_JSON"},
		{"bad from date", "/api/v1/tacho/analyze?from=03/01/2024", []byte(`{}`), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"inverted range", "/api/v1/tacho/analyze?from=2024-03-02&to=2024-03-01", []byte(`{}`), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"too large", "/api/v1/tacho/analyze", bytes.Repeat([]byte(" "), maxUpload+1), http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := testutil.ExecuteRequest(router, testutil.NewRawRequest(http.MethodPost, tt.path, tt.body))

			testutil.AssertStatus(t, rr, tt.wantStatus)
			var resp errorResponse
			testutil.ParseJSONBody(t, rr, &resp)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestAnalyze_LocalizedError(t *testing.T) {
	router := newTestRouter()

	req := testutil.NewRawRequest(http.MethodPost, "/api/v1/tacho/analyze?locale=fr", []byte(`nope`))
	rr := testutil.ExecuteRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	var resp errorResponse
	testutil.ParseJSONBody(t, rr, &resp)
	assert.Equal(t, i18n.NewLocalizer(i18n.LocaleFrench).T("errors.invalid_json"), resp.Error.Message)
}

func TestAnalyze_NotCardShaped(t *testing.T) {
	router := newTestRouter()

	rr := testutil.ExecuteRequest(router, testutil.NewRawRequest(http.MethodPost, "/api/v1/tacho/analyze", []byte(`{"foo": 1}`)))

	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp reportResponse
	testutil.ParseJSONBody(t, rr, &resp)
	assert.Nil(t, resp.Data.Driver)
	assert.Empty(t, resp.Data.Days)
	assert.Empty(t, resp.Data.Infractions)
}

func TestUpload(t *testing.T) {
	router := newTestRouter()

	req := testutil.NewMultipartRequest(t, "/api/v1/tacho/analyze/upload", handler.UploadField, "card.json", sampleCard().JSON())
	rr := testutil.ExecuteRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp reportResponse
	testutil.ParseJSONBody(t, rr, &resp)
	assert.Len(t, resp.Data.Days, 2)
}

func TestUpload_Errors(t *testing.T) {
	router := newTestRouter()

	req := testutil.NewMultipartRequest(t, "/api/v1/tacho/analyze/upload", "other", "card.json", sampleCard().JSON())
	rr := testutil.ExecuteRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertBodyContains(t, rr, "VALIDATION_ERROR")

	req = testutil.NewRawRequest(http.MethodPost, "/api/v1/tacho/analyze/upload", sampleCard().JSON())
	rr = testutil.ExecuteRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertBodyContains(t, rr, "BAD_REQUEST")
}

func TestBatch(t *testing.T) {
	router := newTestRouter()

	body := map[string]interface{}{
		"cards": []json.RawMessage{sampleCard().RawMessage(), json.RawMessage(`{"unrelated": true}`)},
	}
	req := testutil.NewHTTPRequest(http.MethodPost, "/api/v1/tacho/analyze/batch", body)
	req = testutil.WithRequestID(req, "req-123")
	rr := testutil.ExecuteRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp batchResponse
	testutil.ParseJSONBody(t, rr, &resp)
	require.Len(t, resp.Data.Reports, 2)
	assert.Len(t, resp.Data.Reports[0].Days, 2)
	assert.Empty(t, resp.Data.Reports[1].Days)
	assert.Equal(t, 2, resp.Meta.Total)
	assert.Equal(t, "req-123", resp.Meta.RequestID)
}

func TestBatch_Validation(t *testing.T) {
	router := newTestRouter()

	testutil.RunHTTPTestCases(t, router, []testutil.HTTPTestCase{
		{
			Name:             "missing cards",
			Method:           http.MethodPost,
			Path:             "/api/v1/tacho/analyze/batch",
			Body:             map[string]interface{}{},
			WantStatus:       http.StatusBadRequest,
			WantBodyContains: []string{"VALIDATION_ERROR"},
		},
		{
			Name:             "empty cards",
			Method:           http.MethodPost,
			Path:             "/api/v1/tacho/analyze/batch",
			Body:             map[string]interface{}{"cards": []interface{}{}},
			WantStatus:       http.StatusBadRequest,
			WantBodyContains: []string{"VALIDATION_ERROR"},
		},
		{
			Name:             "over the batch limit",
			Method:           http.MethodPost,
			Path:             "/api/v1/tacho/analyze/batch",
			Body:             map[string]interface{}{"cards": []interface{}{map[string]int{}, map[string]int{}, map[string]int{}}},
			WantStatus:       http.StatusBadRequest,
			WantBodyContains: []string{"VALIDATION_ERROR", "at most 2 cards"},
		},
		{
			Name:             "not an object",
			Method:           http.MethodPost,
			Path:             "/api/v1/tacho/analyze/batch",
			Body:             []int{1, 2},
			WantStatus:       http.StatusBadRequest,
			WantBodyContains: []string{"INVALID_JSON"},
		},
	})
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	router := newTestRouter()

	rr := testutil.ExecuteRequest(router, testutil.NewHTTPRequest(http.MethodGet, "/api/v1/tacho/analyze", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
