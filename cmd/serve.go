package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/furnacex/intel-cli/internal/model"
	"github.com/furnacex/intel-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lead dashboard API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newAPIRouter(st),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

// newAPIRouter builds the dashboard API. Lead status is the only mutable
// field: the dashboard owns it and pipeline re-runs never touch it.
func newAPIRouter(st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/leads", func(w http.ResponseWriter, req *http.Request) {
			filter, err := leadFilterFromQuery(req)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			leads, err := st.ListLeads(req.Context(), filter)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			if leads == nil {
				leads = []model.Lead{}
			}
			writeJSON(w, http.StatusOK, map[string]any{"leads": leads, "count": len(leads)})
		})

		r.Get("/leads/{id}", func(w http.ResponseWriter, req *http.Request) {
			lead, err := st.GetLead(req.Context(), chi.URLParam(req, "id"))
			if eris.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, err)
				return
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, lead)
		})

		r.Patch("/leads/{id}/status", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Status model.LeadStatus `json:"status"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, eris.Wrap(err, "decode body"))
				return
			}
			if !model.ValidLeadStatus(body.Status) {
				writeError(w, http.StatusBadRequest, eris.Errorf("invalid status %q", body.Status))
				return
			}

			id := chi.URLParam(req, "id")
			err := st.UpdateLeadStatus(req.Context(), id, body.Status)
			if eris.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, err)
				return
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			zap.L().Info("lead status updated",
				zap.String("lead_id", id),
				zap.String("status", string(body.Status)))
			writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(body.Status)})
		})

		r.Get("/products", func(w http.ResponseWriter, req *http.Request) {
			products, err := st.ListProducts(req.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			if products == nil {
				products = []string{}
			}
			writeJSON(w, http.StatusOK, map[string]any{"products": products})
		})

		r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
			stats, err := st.Stats(req.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, stats)
		})

		r.Get("/runs", func(w http.ResponseWriter, req *http.Request) {
			runs, err := st.ListRuns(req.Context(), store.RunFilter{Limit: 50})
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			if runs == nil {
				runs = []model.Run{}
			}
			writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
		})
	})

	return r
}

func leadFilterFromQuery(req *http.Request) (store.LeadFilter, error) {
	q := req.URL.Query()
	filter := store.LeadFilter{
		Product: q.Get("product"),
		Status:  model.LeadStatus(q.Get("status")),
		Tier:    model.PriorityTier(q.Get("tier")),
	}
	if filter.Status != "" && !model.ValidLeadStatus(filter.Status) {
		return filter, eris.Errorf("invalid status %q", filter.Status)
	}
	if s := q.Get("min_score"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return filter, eris.Errorf("invalid min_score %q", s)
		}
		filter.MinScore = v
	}
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return filter, eris.Errorf("invalid limit %q", s)
		}
		filter.Limit = v
	}
	if s := q.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return filter, eris.Errorf("invalid offset %q", s)
		}
		filter.Offset = v
	}
	return filter, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
