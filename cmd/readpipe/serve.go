package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/readpipe/docgen"
	"github.com/hazyhaar/readpipe/docstore"
	"github.com/hazyhaar/readpipe/readlog"
	"github.com/hazyhaar/readpipe/readpipe"
)

var flagMCP bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reader as a service (HTTP, or MCP over stdio with --mcp)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&flagMCP, "mcp", false, "Serve MCP over stdio instead of HTTP")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadAppConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log, err := readlog.Open(cfg.LogDB)
	if err != nil {
		return err
	}
	defer log.Close()

	store, err := docstore.New(cfg.DocsDir)
	if err != nil {
		return err
	}

	pipe := buildPipeline(cfg, log)

	if flagMCP {
		return serveMCP(ctx, pipe, store)
	}
	return serveHTTP(ctx, cfg, pipe, store, log)
}

func serveMCP(ctx context.Context, pipe *readpipe.Pipeline, store *docstore.Store) error {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "readpipe",
		Version: "1.0.0",
	}, nil)
	pipe.RegisterMCP(srv)
	store.RegisterMCP(srv, pipe)
	docgen.RegisterMCP(srv, store)

	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

func serveHTTP(ctx context.Context, cfg *appConfig, pipe *readpipe.Pipeline, store *docstore.Store, log *readlog.Log) error {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/read", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			URL    string `json:"url"`
			Render *bool  `json:"render"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if body.URL == "" {
			writeError(w, http.StatusBadRequest, errors.New("url is required"))
			return
		}
		render := body.Render == nil || *body.Render
		writeJSON(w, http.StatusOK, pipe.SmartRead(req.Context(), body.URL, render))
	})

	r.Post("/api/read/markdown", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			URL    string `json:"url"`
			Render *bool  `json:"render"`
			Save   string `json:"save"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if body.URL == "" {
			writeError(w, http.StatusBadRequest, errors.New("url is required"))
			return
		}
		render := body.Render == nil || *body.Render
		report := pipe.SmartReadToMarkdown(req.Context(), body.URL, render)
		if body.Save != "" {
			if _, err := store.Write(body.Save, report, false); err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(report))
	})

	r.Get("/api/documents", func(w http.ResponseWriter, _ *http.Request) {
		names, err := store.List()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"documents": names})
	})

	r.Get("/api/documents/{name}", func(w http.ResponseWriter, req *http.Request) {
		content, err := store.Read(chi.URLParam(req, "name"))
		if errors.Is(err, docstore.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(content))
	})

	r.Get("/api/log/recent", func(w http.ResponseWriter, req *http.Request) {
		limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
		entries, err := log.Recent(req.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
	})

	r.Get("/api/log/summary", func(w http.ResponseWriter, req *http.Request) {
		stats, err := log.Summary(req.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
