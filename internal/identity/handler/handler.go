package handler

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"

	"idsynth/internal/identity/analyzer"
	"idsynth/internal/identity/models"
	"idsynth/internal/identity/prediction"
	"idsynth/internal/identity/store"
	"idsynth/internal/identity/validate"
	dErrors "idsynth/pkg/domain-errors"
	"idsynth/pkg/platform/httputil"
	"idsynth/pkg/requestcontext"
)

// Service is the identity pipeline driven by the HTTP API.
type Service interface {
	Generate(ctx context.Context, count int) ([]models.Record, error)
	Records() []models.Record
	Train(ctx context.Context) (prediction.TrainReport, error)
	PredictEnhanced(ctx context.Context) (models.Record, error)
	EncryptAll(ctx context.Context) ([]models.EncryptedRecord, error)
	DecryptAll(ctx context.Context) ([]models.Record, error)
	Analyze(ctx context.Context) (analyzer.Report, error)
	Export(ctx context.Context, format, destination string) error
	Import(ctx context.Context, format, source string) (int, error)
	Validate(index int) (validate.Report, error)
	IDCard(index int) (models.IDCard, error)
}

// Handler exposes one Service over HTTP. The service is not safe for
// concurrent use, so every call goes through mu.
type Handler struct {
	mu      sync.Mutex
	service Service
	dataDir string
	sqlDSN  string
	logger  *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithSQLDSN allows export and import against the one Postgres database
// named by dsn. Without it every Postgres DSN is refused.
func WithSQLDSN(dsn string) Option {
	return func(h *Handler) {
		h.sqlDSN = dsn
	}
}

// New constructs a handler. File names in export and import requests are
// resolved inside dataDir.
func New(service Service, dataDir string, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service: service,
		dataDir: dataDir,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the identity endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/identities", h.HandleGenerate)
	r.Get("/identities", h.HandleList)
	r.Post("/identities/enhanced", h.HandlePredictEnhanced)
	r.Post("/identities/encrypt", h.HandleEncrypt)
	r.Post("/identities/decrypt", h.HandleDecrypt)
	r.Get("/identities/analysis", h.HandleAnalyze)
	r.Post("/identities/export", h.HandleExport)
	r.Post("/identities/import", h.HandleImport)
	r.Get("/identities/{index}/validation", h.HandleValidate)
	r.Get("/identities/{index}/card", h.HandleIDCard)
	r.Post("/model/train", h.HandleTrain)
}

// HandleGenerate handles POST /identities.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[GenerateRequest](w, r, h.logger)
	if !ok {
		return
	}

	h.mu.Lock()
	generated, err := h.service.Generate(ctx, req.Count)
	total := len(h.service.Records())
	h.mu.Unlock()
	if err != nil {
		h.fail(ctx, w, "generate", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, &GenerateResponse{
		Generated:  len(generated),
		Total:      total,
		Identities: generated,
	})
}

// HandleList handles GET /identities.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	records := h.service.Records()
	h.mu.Unlock()
	httputil.WriteJSON(w, http.StatusOK, &ListResponse{Count: len(records), Identities: nonNil(records)})
}

// HandleTrain handles POST /model/train.
func (h *Handler) HandleTrain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.mu.Lock()
	report, err := h.service.Train(ctx)
	h.mu.Unlock()
	if err != nil {
		h.fail(ctx, w, "train", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromTrainReport(report))
}

// HandlePredictEnhanced handles POST /identities/enhanced.
func (h *Handler) HandlePredictEnhanced(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.mu.Lock()
	record, err := h.service.PredictEnhanced(ctx)
	h.mu.Unlock()
	if err != nil {
		h.fail(ctx, w, "predict_enhanced", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

// HandleEncrypt handles POST /identities/encrypt.
func (h *Handler) HandleEncrypt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.mu.Lock()
	encrypted, err := h.service.EncryptAll(ctx)
	h.mu.Unlock()
	if err != nil {
		h.fail(ctx, w, "encrypt", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &EncryptResponse{Count: len(encrypted), Encrypted: encrypted})
}

// HandleDecrypt handles POST /identities/decrypt.
func (h *Handler) HandleDecrypt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.mu.Lock()
	records, err := h.service.DecryptAll(ctx)
	h.mu.Unlock()
	if err != nil {
		h.fail(ctx, w, "decrypt", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &ListResponse{Count: len(records), Identities: records})
}

// HandleAnalyze handles GET /identities/analysis.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.mu.Lock()
	report, err := h.service.Analyze(ctx)
	h.mu.Unlock()
	if err != nil {
		h.fail(ctx, w, "analyze", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// HandleExport handles POST /identities/export.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	req, ok := httputil.DecodeAndPrepare[ExportRequest](w, r, h.logger)
	if !ok {
		return
	}
	dest, err := h.resolve(req.Destination)
	if err != nil {
		h.fail(ctx, w, "export", err)
		return
	}

	h.mu.Lock()
	err = h.service.Export(ctx, req.Format, dest)
	count := len(h.service.Records())
	h.mu.Unlock()
	if err != nil {
		h.fail(ctx, w, "export", err)
		return
	}

	h.logger.InfoContext(ctx, "export finished",
		"request_id", requestcontext.RequestID(ctx),
		"format", req.Format,
		"count", count,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, &TransferResponse{Format: req.Format, Location: store.Redact(req.Destination), Count: count})
}

// HandleImport handles POST /identities/import.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ImportRequest](w, r, h.logger)
	if !ok {
		return
	}
	src, err := h.resolve(req.Source)
	if err != nil {
		h.fail(ctx, w, "import", err)
		return
	}

	h.mu.Lock()
	n, err := h.service.Import(ctx, req.Format, src)
	h.mu.Unlock()
	if err != nil {
		h.fail(ctx, w, "import", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &TransferResponse{Format: req.Format, Location: store.Redact(req.Source), Count: n})
}

// HandleValidate handles GET /identities/{index}/validation.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	index, err := indexParam(r)
	if err != nil {
		h.fail(ctx, w, "validate", err)
		return
	}
	h.mu.Lock()
	report, err := h.service.Validate(index)
	h.mu.Unlock()
	if err != nil {
		h.fail(ctx, w, "validate", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &ValidationResponse{Index: index, Valid: report.Valid(), Checks: report})
}

// HandleIDCard handles GET /identities/{index}/card.
func (h *Handler) HandleIDCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	index, err := indexParam(r)
	if err != nil {
		h.fail(ctx, w, "id_card", err)
		return
	}
	h.mu.Lock()
	card, err := h.service.IDCard(index)
	h.mu.Unlock()
	if err != nil {
		h.fail(ctx, w, "id_card", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &CardResponse{IDCard: card, Text: card.String()})
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	requestID := requestcontext.RequestID(ctx)
	if dErrors.KindOf(err) == dErrors.KindInternal {
		h.logger.ErrorContext(ctx, "identity operation failed",
			"request_id", requestID,
			"operation", op,
			"error", err,
		)
	} else {
		h.logger.WarnContext(ctx, "identity operation rejected",
			"request_id", requestID,
			"client_ip", requestcontext.ClientIP(ctx),
			"operation", op,
			"code", string(dErrors.CodeOf(err)),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

// resolve confines a client-supplied file name to the data directory.
// A Postgres DSN is accepted only when it is the configured one.
func (h *Handler) resolve(name string) (string, error) {
	if store.IsPostgres(name) {
		if h.sqlDSN == "" || name != h.sqlDSN {
			return "", dErrors.New(dErrors.CodePermissionDenied, "database "+store.Redact(name)+" is not allowed")
		}
		return name, nil
	}
	base := filepath.Base(name)
	if base != name || base == "." || base == ".." {
		return "", dErrors.New(dErrors.CodeBadRequest, "file name must not contain a directory")
	}
	return filepath.Join(h.dataDir, base), nil
}

func indexParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	index, err := cast.ToIntE(raw)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, "index must be an integer")
	}
	return index, nil
}

func nonNil(records []models.Record) []models.Record {
	if records == nil {
		return []models.Record{}
	}
	return records
}
