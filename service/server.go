package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/initia-labs/counterd/x/counter/types"
	"github.com/initia-labs/counterd/x/counter/workflow"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
	writeWait         = 10 * time.Second
)

// StateSaver persists the view state after every change made through the server.
type StateSaver interface {
	Save(types.UIState) error
}

// MetricsSource renders the metrics collected by the process, as
// metrics.InmemSink does.
type MetricsSource interface {
	DisplayMetrics(resp http.ResponseWriter, req *http.Request) (interface{}, error)
}

// Server is the local front-end of the workflow: it exposes the view state,
// the create and increase actions, and pushes every view state change over
// a websocket.
type Server struct {
	logger   log.Logger
	workflow *workflow.Workflow
	wallet   types.WalletConnector
	saver    StateSaver
	metrics  MetricsSource

	// saveMu orders saves so the file always ends with the newest snapshot
	saveMu sync.Mutex

	router   *mux.Router
	upgrader websocket.Upgrader
}

// NewServer returns a server driving wf. saver and metrics may be nil.
func NewServer(logger log.Logger, wf *workflow.Workflow, wallet types.WalletConnector, saver StateSaver, metrics MetricsSource) *Server {
	s := &Server{
		logger:   logger.With("module", "service"),
		workflow: wf,
		wallet:   wallet,
		saver:    saver,
		metrics:  metrics,
		router:   mux.NewRouter(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/state", s.handleGetState).Methods(http.MethodGet)
	s.router.HandleFunc("/state", s.handlePutState).Methods(http.MethodPut)
	s.router.HandleFunc("/create", s.handleAction(workflow.ActionCreate)).Methods(http.MethodPost)
	s.router.HandleFunc("/increase", s.handleAction(workflow.ActionIncrease)).Methods(http.MethodPost)
	s.router.HandleFunc("/account", s.handleAccount).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)
	s.router.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)
}

// Router returns the http handler of the server.
func (s *Server) Router() *mux.Router {
	return s.router
}

// Start serves on addr until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting front-end", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("stopping front-end")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) handleGetState(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.workflow.View().Snapshot())
}

// StateInput is the user input accepted by PUT /state. Absent fields are
// left unchanged.
type StateInput struct {
	PackageID       *string `json:"package_id"`
	CounterID       *string `json:"counter_id"`
	InitValue       *uint64 `json:"init_value"`
	IncrementAmount *uint64 `json:"increment_amount"`
}

func (s *Server) handlePutState(w http.ResponseWriter, r *http.Request) {
	var in StateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid state input: %w", err))
		return
	}

	state := s.workflow.View().Update(func(st *types.UIState) {
		if in.PackageID != nil {
			st.PackageID = *in.PackageID
		}
		if in.CounterID != nil {
			st.CounterID = *in.CounterID
		}
		if in.InitValue != nil {
			st.InitValue = *in.InitValue
		}
		if in.IncrementAmount != nil {
			st.IncrementAmount = *in.IncrementAmount
		}
	})
	s.save()

	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleAction(action workflow.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// the attempt outlives a client that goes away while confirming
		ctx := context.WithoutCancel(r.Context())

		var outcome workflow.Outcome
		switch action {
		case workflow.ActionCreate:
			outcome = s.workflow.Create(ctx)
		case workflow.ActionIncrease:
			outcome = s.workflow.Increase(ctx)
		}
		s.save()

		status := http.StatusOK
		if outcome.Err != nil {
			status = http.StatusUnprocessableEntity
		}
		s.writeJSON(w, status, outcome)
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.metrics == nil {
		s.writeError(w, http.StatusNotFound, errors.New("metrics are disabled"))
		return
	}

	summary, err := s.metrics.DisplayMetrics(w, r)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	addr, ok := s.wallet.CurrentAccount(r.Context())
	if !ok {
		s.writeError(w, http.StatusNotFound, types.ErrNoAccount)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"address": addr.String()})
}

// handleWS sends the current view state, then every change until the client
// goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, cancel := s.workflow.View().Subscribe()
	defer cancel()

	// the reader only notices the close frame
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := s.writeWS(conn, s.workflow.View().Snapshot()); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			return
		case state, ok := <-updates:
			if !ok {
				return
			}
			if err := s.writeWS(conn, state); err != nil {
				s.logger.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}

func (s *Server) writeWS(conn *websocket.Conn, state types.UIState) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return conn.WriteJSON(state)
}

// save persists the current snapshot. The snapshot is taken under saveMu so a
// save finishing last never writes an older state than one before it.
func (s *Server) save() {
	if s.saver == nil {
		return
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if err := s.saver.Save(s.workflow.View().Snapshot()); err != nil {
		s.logger.Error("failed to persist state", "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
