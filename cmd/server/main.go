package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/vellum/vellum/editor-go/internal/auth"
	"github.com/vellum/vellum/editor-go/internal/config"
	"github.com/vellum/vellum/editor-go/internal/docsvc"
	"github.com/vellum/vellum/editor-go/internal/document"
	"github.com/vellum/vellum/editor-go/internal/interaction"
	mw "github.com/vellum/vellum/editor-go/internal/middleware"
	"github.com/vellum/vellum/editor-go/internal/session"
	"github.com/vellum/vellum/editor-go/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.EnsureSchema(ctx); err != nil {
		slog.Error("ensure schema", "error", err)
		os.Exit(1)
	}

	authService := auth.NewService(st, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	docService := docsvc.NewService(st)
	docHandler := docsvc.NewHandler(docService)

	loader := func(ctx context.Context, documentID string) (*document.Document, error) {
		snap, err := st.GetLatestSnapshot(ctx, documentID)
		if err != nil {
			return nil, err
		}
		return document.FromJSON(snap.Document)
	}
	saver := func(ctx context.Context, documentID string, doc *document.Document) error {
		return docService.Save(ctx, documentID, doc)
	}

	editorOpts := interaction.Options{
		GridSize:      cfg.GridSize,
		CollideOnDrop: cfg.CollideOnDrop,
	}
	manager := session.NewManager(loader, saver, editorOpts, slog.Default())
	go manager.Run()

	r := mux.NewRouter()

	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/documents", docHandler.List).Methods("GET")
	api.HandleFunc("/documents", docHandler.Create).Methods("POST")
	api.HandleFunc("/documents/{documentId}", docHandler.Get).Methods("GET")
	api.HandleFunc("/documents/{documentId}", docHandler.Rename).Methods("PATCH")
	api.HandleFunc("/documents/{documentId}", docHandler.Delete).Methods("DELETE")
	api.HandleFunc("/documents/{documentId}/snapshots/latest", docHandler.GetLatestSnapshot).Methods("GET")

	r.HandleFunc("/ws/document/{documentId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, manager, authService, docService, cfg.Origins())
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop the session manager first so dirty documents get saved.
		manager.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, manager *session.Manager, authSvc *auth.Service, docSvc *docsvc.Service, origins []string) {
	documentID := mux.Vars(r)["documentId"]

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	userID, err := authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	if _, err := docSvc.Get(r.Context(), documentID, userID); err != nil {
		http.Error(w, "document not accessible", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(origins),
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := session.NewClient(manager, conn, userID, documentID, uuid.New().String())
	manager.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// originPatterns strips schemes from the configured origins, which is
// the form websocket.AcceptOptions expects.
func originPatterns(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimPrefix(o, "http://")
		o = strings.TrimPrefix(o, "https://")
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
