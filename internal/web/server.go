package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/KaramelBytes/datasys-cli/internal/session"
	"github.com/KaramelBytes/datasys-cli/internal/table"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler serves the single-session UI.
type Handler struct {
	sess      *session.Session
	log       *slog.Logger
	maxUpload int64
}

// NewHandler wires a session to HTTP. maxUploadMB <= 0 means 50 MB.
func NewHandler(sess *session.Session, maxUploadMB int, log *slog.Logger) *Handler {
	if maxUploadMB <= 0 {
		maxUploadMB = 50
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{sess: sess, log: log, maxUpload: int64(maxUploadMB) << 20}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/healthz", h.Health)
	r.Post("/upload", h.Upload)
	r.Post("/visualize", h.action(session.Visualize{}))
	r.Post("/clean", h.action(session.Clean{}))
	r.Post("/reset", h.action(session.Reset{}))
	r.Get("/download", h.Download)
}

// Router returns a chi router with the standard middleware stack and all routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)
	h.RegisterRoutes(r)
	return r
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("http request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
			)
		})
	}
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, h.sess.View())
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "ok %s\n", h.sess.View().State)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUpload {
		h.uploadError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d MB", h.maxUpload>>20))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	file, hdr, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.uploadError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d MB", h.maxUpload>>20))
			return
		}
		h.uploadError(w, http.StatusBadRequest, fmt.Errorf("read upload: %w", err))
		return
	}
	defer file.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.uploadError(w, http.StatusBadRequest, fmt.Errorf("read upload: %w", err))
		return
	}
	h.render(w, http.StatusOK, h.sess.Dispatch(session.Upload{Name: hdr.Filename, Data: buf.Bytes()}))
}

// uploadError shows err on the current page without touching the session.
func (h *Handler) uploadError(w http.ResponseWriter, status int, err error) {
	v := h.sess.View()
	v.Err = err
	h.render(w, status, v)
}

func (h *Handler) action(ev session.Event) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, http.StatusOK, h.sess.Dispatch(ev))
	}
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	v := h.sess.View()
	if len(v.Export) == 0 {
		http.Error(w, "no cleaned data: run Clean & Visualize first", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", table.ExportFileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(v.Export)))
	_, _ = w.Write(v.Export)
}

func (h *Handler) render(w http.ResponseWriter, status int, v session.View) {
	var buf bytes.Buffer
	if err := renderPage(&buf, v); err != nil {
		h.log.Error("render page", "error", err)
		http.Error(w, "render page: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Serve runs an HTTP server until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info("Shutting down HTTP server")
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
