package server

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/tendermint/tendermint/libs/log"
	"go.uber.org/ratelimit"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/app"
	"github.com/swapvault/swapd/errors"
)

// MaxTxSize is the largest transaction body accepted.
const MaxTxSize = 64 * 1024

// Backend executes transactions and queries. *app.Executor implements it.
type Backend interface {
	ChainID() string
	CheckTx(ctx context.Context, raw []byte) (*swapd.CheckResult, error)
	Simulate(ctx context.Context, raw []byte) (*swapd.DeliverResult, error)
	DeliverTx(ctx context.Context, raw []byte) (*swapd.DeliverResult, error)
	Query(path string, data []byte) ([]swapd.Model, error)
}

var _ Backend = (*app.Executor)(nil)

// Config describes the HTTP API.
type Config struct {
	Backend Backend
	// Metrics, if set, is served on /metrics.
	Metrics http.Handler
	// Events, if set, is served on /events.
	Events http.Handler
	// Rate limits submitted transactions per second. Zero disables it.
	Rate int
	// Debug includes stack traces of failures in responses.
	Debug  bool
	Logger log.Logger
}

// TxResponse is returned for every transaction call. Code is zero on
// success, otherwise it is the registered error code and Log describes
// the failure.
type TxResponse struct {
	Code   uint32        `json:"code"`
	Log    string        `json:"log,omitempty"`
	Data   []byte        `json:"data,omitempty"`
	Events []swapd.Event `json:"events,omitempty"`
}

// StatusResponse is returned by /status.
type StatusResponse struct {
	ChainID string `json:"chain_id"`
}

// NewHandler returns the HTTP API:
//
//	POST /tx            deliver a signed transaction
//	POST /tx/check      verify a transaction without executing it
//	POST /tx/simulate   execute a transaction and discard the changes
//	GET  /query/{path}  run a query, ?key=<bech32|hex>[&mod=prefix]
//	GET  /status        chain id
//	GET  /metrics       prometheus metrics
//	GET  /events        websocket event stream
func NewHandler(conf Config) http.Handler {
	logger := conf.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	limiter := ratelimit.NewUnlimited()
	if conf.Rate > 0 {
		limiter = ratelimit.New(conf.Rate)
	}
	s := &api{backend: conf.Backend, debug: conf.Debug, limiter: limiter}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /tx", s.deliver)
	mux.HandleFunc("POST /tx/check", s.check)
	mux.HandleFunc("POST /tx/simulate", s.simulate)
	mux.HandleFunc("GET /query/", s.query)
	mux.HandleFunc("GET /status", s.status)
	if conf.Metrics != nil {
		mux.Handle("GET /metrics", conf.Metrics)
	}
	if conf.Events != nil {
		mux.Handle("GET /events", conf.Events)
	}
	return withRequestID(withLogging(logger, mux))
}

type api struct {
	backend Backend
	debug   bool
	limiter ratelimit.Limiter
}

func (s *api) deliver(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.readTx(w, r)
	if !ok {
		return
	}
	s.limiter.Take()
	res, err := s.backend.DeliverTx(r.Context(), raw)
	if err != nil {
		s.writeTxError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TxResponse{Data: res.Data, Log: res.Log, Events: res.Events})
}

func (s *api) check(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.readTx(w, r)
	if !ok {
		return
	}
	res, err := s.backend.CheckTx(r.Context(), raw)
	if err != nil {
		s.writeTxError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TxResponse{Log: res.Log})
}

func (s *api) simulate(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.readTx(w, r)
	if !ok {
		return
	}
	res, err := s.backend.Simulate(r.Context(), raw)
	if err != nil {
		s.writeTxError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TxResponse{Data: res.Data, Log: res.Log, Events: res.Events})
}

func (s *api) query(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/query")
	key, err := ParseKey(r.URL.Query().Get("key"))
	if err != nil {
		s.writeTxError(w, err)
		return
	}
	if mod := r.URL.Query().Get("mod"); mod != "" {
		path += "?" + mod
	}
	models, err := s.backend.Query(path, key)
	if err != nil {
		s.writeTxError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app.NewResultSet(models))
}

func (s *api) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{ChainID: s.backend.ChainID()})
}

func (s *api) readTx(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxTxSize))
	if err != nil {
		s.writeTxError(w, errors.Wrapf(errors.ErrInput, "read body: %s", err))
		return nil, false
	}
	return raw, true
}

func (s *api) writeTxError(w http.ResponseWriter, err error) {
	code, msg := errors.Info(err, s.debug)
	writeJSON(w, httpStatus(err), TxResponse{Code: code, Log: msg})
}

// httpStatus maps a registered error onto the closest HTTP status. The
// registered code in the body stays the authoritative result.
func httpStatus(err error) int {
	switch {
	case errors.ErrNotFound.Is(err):
		return http.StatusNotFound
	case errors.ErrUnauthorized.Is(err):
		return http.StatusUnauthorized
	case errors.ErrConflict.Is(err), errors.ErrAlreadyClosed.Is(err), errors.ErrDuplicate.Is(err):
		return http.StatusConflict
	case errors.ErrInput.Is(err), errors.ErrEmpty.Is(err), errors.ErrMsg.Is(err), errors.ErrType.Is(err):
		return http.StatusBadRequest
	case errors.ErrPanic.Is(err), errors.ErrDatabase.Is(err), errors.ErrHuman.Is(err):
		return http.StatusInternalServerError
	}
	// Errors without a registered root are reported with code 1.
	if errors.Code(err) == 1 {
		return http.StatusInternalServerError
	}
	return http.StatusUnprocessableEntity
}

// ParseKey decodes a query key given as a bech32 address or as hex. An
// empty key is allowed for prefix queries.
func ParseKey(enc string) ([]byte, error) {
	if enc == "" {
		return nil, nil
	}
	if strings.HasPrefix(enc, swapd.AddressHRP+"1") {
		addr, err := swapd.ParseAddress(enc)
		return []byte(addr), err
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(enc, "hex:"))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "key: %s", err)
	}
	return raw, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
