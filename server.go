package main

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Server configuration
const (
	maxRequestBodySize      = 1 << 20 // ask requests carry the full transcript back
	serverReadTimeout       = 10 * time.Second
	serverWriteTimeout      = 120 * time.Second // analysis can take a while
	serverIdleTimeout       = 60 * time.Second
	gracefulShutdownTimeout = 30 * time.Second
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type askRequest struct {
	Question   string `json:"question"`
	Transcript string `json:"transcript"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

var serverStartTime time.Time

// startServer starts the HTTP server with graceful shutdown
func startServer(addr string) error {
	serverStartTime = time.Now()
	logInfo("starting server", slog.String("addr", addr))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /{$}", handleIndex)
	mux.HandleFunc("POST /{$}", handleAnalyze)
	mux.HandleFunc("POST /ask_question", handleAsk)

	server := &http.Server{
		Addr:         addr,
		Handler:      loggingMiddleware(recoverMiddleware(http.MaxBytesHandler(mux, maxRequestBodySize))),
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logInfo("shutdown signal received, gracefully stopping server")

		ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logError("server forced to shutdown", slog.String("error", err.Error()))
		}
	}()

	logInfo("server started", slog.String("addr", addr))

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logError("server error", slog.String("error", err.Error()))
		return fmt.Errorf("server error: %w", err)
	}

	logInfo("server stopped")
	return nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(serverStartTime).Seconds()),
	})
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "index.html", nil)
}

// handleAnalyze walks a submitted URL through ID resolution, transcript
// fetching and analysis. Invalid URLs are a client error, a missing
// transcript is a server error, and analysis-stage failures render as an
// error field through the normal result view.
func handleAnalyze(w http.ResponseWriter, r *http.Request) {
	videoURL := r.FormValue("video_url")

	videoID, ok := extractVideoID(videoURL)
	if !ok {
		http.Error(w, "Invalid YouTube URL provided.", http.StatusBadRequest)
		return
	}

	reqCtx := getRequestContext(r)
	reqCtx.VideoID = videoID

	transcript, lang, err := resolveTranscript(videoID)
	if err != nil {
		http.Error(w, "Unable to extract transcript from the video. It may be unavailable in the specified languages.", http.StatusInternalServerError)
		return
	}

	logInfo("transcript resolved",
		slog.String("video_id", videoID),
		slog.String("language", lang),
		slog.Int("transcript_len", len(transcript)))

	analysis := analyzeTranscript(r.Context(), llm, transcript)
	renderTemplate(w, "result.html", analysis)
}

func handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body."})
		return
	}

	if req.Question == "" || req.Transcript == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing question or transcript."})
		return
	}

	answer := answerQuestion(r.Context(), llm, req.Question, req.Transcript)
	writeJSON(w, http.StatusOK, askResponse{Answer: answer})
}

// renderTemplate executes into a buffer first so a template error can still
// become a clean 500 instead of a half-written page.
func renderTemplate(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		logError("template render failed", slog.String("template", name), slog.String("error", err.Error()))
		http.Error(w, "Internal server error.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
