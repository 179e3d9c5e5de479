// Package httpapi is the thin HTTP facade over the planner: a single
// synchronous optimization endpoint plus a liveness probe, following the
// same Options/New/Serve shape the reference server used for its own
// HTTP surface.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"railopt/internal/backend/mipsat"
	"railopt/internal/generator"
	"railopt/internal/instance"
	"railopt/internal/logging"
	"railopt/internal/planner"
	"railopt/internal/railerr"
)

// Options configures the server instance.
type Options struct {
	Addr             string
	DefaultTimeLimit time.Duration
}

// Server wires the planner behind a chi router. Runs are serialized
// through a single mutex (specification §5): the underlying MIP solver
// is not safe to drive concurrently against shared process state, and a
// fleet-planning run is expected to be infrequent and long enough that
// queuing one at a time is the simplest correct behavior.
type Server struct {
	opt Options
	mu  sync.Mutex
}

var validate = validator.New()

// New builds a Server under opt.
func New(opt Options) *Server {
	if opt.DefaultTimeLimit <= 0 {
		opt.DefaultTimeLimit = 30 * time.Second
	}
	return &Server{opt: opt}
}

// Handler builds the chi router serving this instance's routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/api/status", s.handleStatus)
	r.Post("/run_optimizer", s.handleRunOptimizer)
	return r
}

// Serve starts the HTTP server and blocks until ctx is canceled.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{Addr: s.opt.Addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// runOptimizerRequest is the POST /run_optimizer body: the parameters of a
// synthetic instance to generate and solve, mirroring the reference
// server's /api/optimize, which builds its dummy data from request
// parameters rather than accepting an instance document directly.
type runOptimizerRequest struct {
	Vehicles         int     `json:"num_vehicles" validate:"gte=1"`
	Depots           int     `json:"num_depots" validate:"gte=2"`
	Parkings         int     `json:"num_parkings" validate:"gte=0"`
	RoutesPerDay     int     `json:"num_routes_per_day" validate:"gte=0"`
	PlanningDays     int     `json:"planning_days" validate:"gte=1"`
	Seed             int64   `json:"seed"`
	TimeLimitSeconds float64 `json:"time_limit_seconds,omitempty" validate:"omitempty,gt=0,lte=3600"`
}

// setDefaults fills zero-valued fields with the same defaults the
// reference server applies when a parameter is omitted from the request.
func (req *runOptimizerRequest) setDefaults() {
	if req.Vehicles == 0 {
		req.Vehicles = 10
	}
	if req.Depots == 0 {
		req.Depots = 2
	}
	if req.Parkings == 0 {
		req.Parkings = 2
	}
	if req.RoutesPerDay == 0 {
		req.RoutesPerDay = 8
	}
	if req.PlanningDays == 0 {
		req.PlanningDays = 14
	}
	if req.Seed == 0 {
		req.Seed = 42
	}
}

func (s *Server) handleRunOptimizer(w http.ResponseWriter, r *http.Request) {
	log := logging.C(r.Context())

	var req runOptimizerRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil && err != io.EOF {
		writeError(w, railerr.Wrap(railerr.InstanceInvalid, "decode request", err))
		return
	}
	req.setDefaults()
	if err := validate.Struct(&req); err != nil {
		writeError(w, railerr.Wrap(railerr.InstanceInvalid, "validate request", err))
		return
	}

	inst := generator.Generate(generator.Options{
		Vehicles:     req.Vehicles,
		Depots:       req.Depots,
		Parkings:     req.Parkings,
		RoutesPerDay: req.RoutesPerDay,
		PlanningDays: req.PlanningDays,
		Seed:         req.Seed,
	})
	if err := instance.Validate(inst); err != nil {
		writeError(w, err)
		return
	}

	timeLimit := s.opt.DefaultTimeLimit
	if req.TimeLimitSeconds > 0 {
		timeLimit = time.Duration(req.TimeLimitSeconds * float64(time.Second))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log.Info().Int("vehicles", len(inst.Vehicles)).Int("routes", len(inst.Routes)).Msg("running optimizer")

	built := planner.Build(inst)
	sol, err := mipsat.Solve(built.Model, mipsat.Options{TimeLimit: timeLimit})
	if err != nil {
		writeError(w, railerr.Wrap(railerr.Unknown, "solve", err))
		return
	}

	switch sol.StatusString() {
	case string(mipsat.Optimal), string(mipsat.Feasible):
	default:
		log.Error().Str("status", sol.StatusString()).Msg("solve did not produce a usable schedule")
		writeError(w, railerr.New(railerr.Infeasible, fmt.Sprintf("solver returned status %s", sol.StatusString())))
		return
	}

	result := planner.Project(inst, built.Index, built.Grid, built.Vars, sol)
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, railerr.HTTPStatus(err), railerr.WireFrom(err))
}

// requestLogger assigns each request a request id (used to correlate log
// lines for a single /run_optimizer call) and logs its outcome.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		w.Header().Set("X-Request-Id", reqID)
		ctx := logging.WithRequest(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
		logging.Get().Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", reqID).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

