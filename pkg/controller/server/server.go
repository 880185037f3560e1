package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/utils/errutil"
	"github.com/secmon-lab/argus/pkg/utils/logging"
	"github.com/secmon-lab/argus/pkg/webhook"
)

type Server struct {
	mux *chi.Mux
}

func safeWrite(w http.ResponseWriter, code int, body []byte) {
	w.WriteHeader(code)

	if _, err := w.Write(body); err != nil {
		logging.Default().Error("fail to write response", slog.Any("error", err))
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	body, err := json.Marshal(v)
	if err != nil {
		logging.Default().Error("fail to marshal response", slog.Any("error", err))
		safeWrite(w, http.StatusInternalServerError, []byte(`{"error":"internal error"}`))
		return
	}
	safeWrite(w, code, body)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

type config struct {
	secret        types.WebhookSecret
	corsOrigins   []string
	rateLimit     int
	rateWindow    time.Duration
	maxPayloadLen int64
}

type Option func(*config)

func WithWebhookSecret(secret types.WebhookSecret) Option {
	return func(cfg *config) {
		cfg.secret = secret
	}
}

func WithCORSOrigins(origins []string) Option {
	return func(cfg *config) {
		cfg.corsOrigins = origins
	}
}

// WithRateLimit bounds requests per client IP on the API routes.
func WithRateLimit(requests int, window time.Duration) Option {
	return func(cfg *config) {
		cfg.rateLimit = requests
		cfg.rateWindow = window
	}
}

// WithMaxPayloadSize overrides the webhook body size cap, for tests.
func WithMaxPayloadSize(n int64) Option {
	return func(cfg *config) {
		cfg.maxPayloadLen = n
	}
}

// webhookErrorStatus maps validation failures to the response tiers:
// oversize 413, signature 401, structure 400.
func webhookErrorStatus(err error) int {
	switch {
	case errors.Is(err, webhook.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, webhook.ErrMissingSignature),
		errors.Is(err, webhook.ErrMalformedSignature),
		errors.Is(err, webhook.ErrSignatureMismatch):
		return http.StatusUnauthorized
	case errors.Is(err, webhook.ErrMissingEventType),
		errors.Is(err, types.ErrInvalidPayload):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func New(uc interfaces.UseCase, options ...Option) *Server {
	cfg := &config{
		corsOrigins: []string{"*"},
		rateLimit:   100,
		rateWindow:  time.Minute,
	}
	for _, opt := range options {
		opt(cfg)
	}

	var validatorOpts []webhook.ValidatorOption
	if cfg.maxPayloadLen > 0 {
		validatorOpts = append(validatorOpts, webhook.WithMaxPayloadSize(cfg.maxPayloadLen))
	}
	validator := webhook.NewValidator(cfg.secret, validatorOpts...)

	r := chi.NewRouter()
	r.Use(preProcess)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		safeWrite(w, http.StatusOK, []byte("ok"))
	})

	r.Route("/webhook", func(r chi.Router) {
		r.Post("/github", func(w http.ResponseWriter, r *http.Request) {
			result, err := validator.Validate(r)
			if err != nil {
				status := webhookErrorStatus(err)
				if status == http.StatusInternalServerError {
					errutil.HandleError(r.Context(), "fail to validate GitHub webhook", err)
				} else {
					logging.From(r.Context()).Warn("webhook rejected",
						slog.Int("status", status),
						slog.Any("error", err),
					)
				}
				writeError(w, status, err)
				return
			}

			// ack fast; the pipeline runs after the response
			bgCtx := DetachContext(r.Context())
			go func() {
				if err := uc.HandleGitHubEvent(bgCtx, result.Payload); err != nil {
					if errors.Is(err, types.ErrUnknownEvent) {
						logging.From(bgCtx).Debug("ignoring webhook event",
							slog.String("event_type", result.EventType),
						)
						return
					}
					errutil.HandleError(bgCtx, "fail to handle GitHub event", err)
				}
			}()

			writeJSON(w, http.StatusOK, map[string]string{
				"status":      "ok",
				"delivery_id": string(result.DeliveryID),
			})
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
		}))
		r.Use(httprate.Limit(cfg.rateLimit, cfg.rateWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
		))

		r.Get("/repos", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, uc.Snapshot().Repositories)
		})

		r.Get("/scans", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, uc.Snapshot().ScanRequests)
		})

		r.Post("/scans", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				RepoFullName types.RepoFullName `json:"repo_full_name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}

			req, err := uc.DispatchScan(r.Context(), body.RepoFullName)
			if err != nil {
				if errors.Is(err, types.ErrValidationFailed) {
					writeError(w, http.StatusBadRequest, err)
					return
				}
				errutil.HandleError(r.Context(), "fail to dispatch scan", err)
				writeError(w, http.StatusInternalServerError, err)
				return
			}

			writeJSON(w, http.StatusCreated, req)
		})

		r.Get("/connection", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, uc.ConnectionState())
		})

		r.Get("/notifications", func(w http.ResponseWriter, r *http.Request) {
			limit := 0
			if v := r.URL.Query().Get("limit"); v != "" {
				n, err := strconv.Atoi(v)
				if err != nil || n < 0 {
					writeError(w, http.StatusBadRequest, errors.New("limit must be a non-negative integer"))
					return
				}
				limit = n
			}
			writeJSON(w, http.StatusOK, uc.NotificationFeed(limit))
		})

		r.Get("/events", func(w http.ResponseWriter, r *http.Request) {
			serveEvents(uc, w, r)
		})
	})

	return &Server{
		mux: r,
	}
}

func (x *Server) Mux() *chi.Mux {
	return x.mux
}
