package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rbhatti-ai/exportguard-ai/internal/extract"
	"github.com/rbhatti-ai/exportguard-ai/internal/model"
	"github.com/rbhatti-ai/exportguard-ai/internal/pipeline"
	"github.com/rbhatti-ai/exportguard-ai/internal/report"
	"github.com/rbhatti-ai/exportguard-ai/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the assessment HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initApp(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env.Pipeline, env.Store),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func newRouter(p *pipeline.Pipeline, st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/analyze", handleAnalyze(p))
	r.Get("/assessments", handleListAssessments(st))
	r.Get("/assessments/{id}", handleGetAssessment(st))
	r.Post("/export-report", handleExportReport(st))

	return r
}

// analyzeRequest is the JSON form of an analyze call. Document bytes are
// base64 in JSON; multipart uploads use the "invoice" file field instead.
type analyzeRequest struct {
	Value       string `json:"value"`
	Currency    string `json:"currency"`
	Destination string `json:"destination"`
	Origin      string `json:"origin"`
	Mode        string `json:"mode"`
	POR         string `json:"por"`
	Document    []byte `json:"document,omitempty"`
}

func handleAnalyze(p *pipeline.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, doc, err := decodeAnalyzeRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		input := model.ShipmentInput{
			TypedCurrency: req.Currency,
			Destination:   req.Destination,
			OriginCountry: req.Origin,
			Mode:          model.ParseMode(req.Mode),
			POR:           req.POR,
		}
		// A malformed value is treated as absent, not rejected.
		if req.Value != "" {
			if amount, ok := extract.ParseMoney(req.Value); ok {
				input.TypedAmount = &amount
			}
		}

		assessment, err := p.Run(r.Context(), input, doc)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, assessment)
	}
}

func decodeAnalyzeRequest(r *http.Request) (*analyzeRequest, []byte, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return nil, nil, eris.Wrap(err, "parse multipart form")
		}
		req := &analyzeRequest{
			Value:       r.FormValue("value"),
			Currency:    r.FormValue("currency"),
			Destination: r.FormValue("destination"),
			Origin:      r.FormValue("origin"),
			Mode:        r.FormValue("mode"),
			POR:         r.FormValue("por"),
		}
		var doc []byte
		if file, _, err := r.FormFile("invoice"); err == nil {
			defer file.Close() //nolint:errcheck
			doc, err = io.ReadAll(file)
			if err != nil {
				return nil, nil, eris.Wrap(err, "read invoice upload")
			}
		}
		return req, doc, nil
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, nil, eris.Wrap(err, "decode request body")
	}
	return &req, req.Document, nil
}

func handleListAssessments(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := store.AssessmentFilter{
			Destination: r.URL.Query().Get("destination"),
		}
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Limit = n
			}
		}
		if v := r.URL.Query().Get("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Offset = n
			}
		}

		assessments, err := st.ListAssessments(r.Context(), filter)
		if err != nil {
			zap.L().Error("list assessments failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if assessments == nil {
			assessments = []model.Assessment{}
		}
		writeJSON(w, http.StatusOK, assessments)
	}
}

func handleGetAssessment(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		assessment, err := st.GetAssessment(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "assessment not found")
				return
			}
			zap.L().Error("get assessment failed", zap.String("id", id), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, assessment)
	}
}

func handleExportReport(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
			writeError(w, http.StatusBadRequest, "id is required")
			return
		}

		assessment, err := st.GetAssessment(r.Context(), req.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "assessment not found")
				return
			}
			zap.L().Error("get assessment failed", zap.String("id", req.ID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="ExportGuard-CBSA-Report.txt"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(report.RenderText(assessment)))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
