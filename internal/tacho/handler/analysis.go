package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tachoscope/tachoscope-backend/internal/tacho/domain"
	"github.com/tachoscope/tachoscope-backend/internal/tacho/service"
	"github.com/tachoscope/tachoscope-backend/pkg/errors"
	"github.com/tachoscope/tachoscope-backend/pkg/httputil"
	"github.com/tachoscope/tachoscope-backend/pkg/logger"
)

// UploadField is the multipart field carrying the decoder output
const UploadField = "file"

// AnalysisHandler handles card analysis endpoints
type AnalysisHandler struct {
	service   *service.Service
	maxUpload int64
	logger    *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(svc *service.Service, maxUpload int64, log *logger.Logger) *AnalysisHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AnalysisHandler{
		service:   svc,
		maxUpload: maxUpload,
		logger:    log,
	}
}

// RegisterRoutes mounts the analysis endpoints
func (h *AnalysisHandler) RegisterRoutes(r chi.Router) {
	r.Post("/analyze", h.Analyze)
	r.Post("/analyze/upload", h.Upload)
	r.Post("/analyze/batch", h.Batch)
}

type analyzeQuery struct {
	From string `validate:"omitempty,datetime=2006-01-02"`
	To   string `validate:"omitempty,datetime=2006-01-02"`
}

type batchRequest struct {
	Cards []json.RawMessage `json:"cards" validate:"required,min=1,dive,required"`
}

type batchResponse struct {
	Reports []*domain.Report `json:"reports"`
}

func (h *AnalysisHandler) options(r *http.Request) (service.AnalyzeOptions, error) {
	q := analyzeQuery{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	if err := httputil.Validate(&q); err != nil {
		return service.AnalyzeOptions{}, err
	}
	// Locale comes from the request context set by i18n.Middleware
	return service.AnalyzeOptions{From: q.From, To: q.To}, nil
}

// Analyze analyses decoder JSON posted as the request body
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	opts, err := h.options(r)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	body, err := httputil.ReadBody(r)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	report, err := h.service.Analyze(r.Context(), body, opts)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}

// Upload analyses decoder JSON sent as a multipart file
func (h *AnalysisHandler) Upload(w http.ResponseWriter, r *http.Request) {
	opts, err := h.options(r)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.ErrorLocalized(w, r, errors.PayloadTooLarge(h.maxUpload))
			return
		}
		httputil.ErrorLocalized(w, r, errors.BadRequest("expected a multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		httputil.ErrorLocalized(w, r, errors.Validation(map[string]string{
			UploadField: "this field is required",
		}))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.ErrorLocalized(w, r, errors.BadRequest("failed to read uploaded file"))
		return
	}

	h.logger.WithRequestID(httputil.GetRequestID(r.Context())).Debug().
		Str("file_name", header.Filename).
		Int64("size", header.Size).
		Msg("card upload received")

	report, err := h.service.Analyze(r.Context(), data, opts)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}

// Batch analyses several cards in one request
func (h *AnalysisHandler) Batch(w http.ResponseWriter, r *http.Request) {
	opts, err := h.options(r)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	var req batchRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	reports, err := h.service.AnalyzeBatch(r.Context(), req.Cards, opts)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, batchResponse{Reports: reports}, &httputil.Meta{
		RequestID: httputil.GetRequestID(r.Context()),
		Total:     len(reports),
	})
}
