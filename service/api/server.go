package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/model"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/otellib"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/service/chain"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/service/ledger"
)

//go:generate moq -out api_mocks_test.go . Node

// Node is the part of the chain node exposed over HTTP
type Node interface {
	Deploy(ctx context.Context, advertiser model.Address) (uint64, error)
	Submit(ctx context.Context, campaignID uint64, msg ledger.Message) error

	Campaign(ctx context.Context, campaignID uint64) (model.Campaign, error)
	Affiliate(ctx context.Context, campaignID uint64, affiliateID uint32) (model.Affiliate, error)
	Affiliates(ctx context.Context, campaignID uint64, from, to uint32) ([]model.Affiliate, error)
	RecentTransactions(ctx context.Context, campaignID uint64, limit int) ([]model.Transaction, error)
	Notifications(ctx context.Context, since uint64, limit int) ([]model.Notification, error)
}

var _ Node = &chain.Node{}

// HealthFunc reports nil while the node is serving normally
type HealthFunc func() error

// Config of the HTTP read model
type Config struct {
	SubmitRate  float64 `mapstructure:"submit_rate"`
	SubmitBurst int     `mapstructure:"submit_burst"`

	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

// DefaultConfig ...
func DefaultConfig() Config {
	return Config{
		SubmitRate:   200,
		SubmitBurst:  50,
		DefaultLimit: 20,
		MaxLimit:     500,
	}
}

// Server ...
type Server struct {
	node    Node
	conf    Config
	logger  *zap.Logger
	limiter *rate.Limiter
	health  HealthFunc
}

// Option ...
type Option func(s *Server)

// WithHealth ...
func WithHealth(fn HealthFunc) Option {
	return func(s *Server) {
		s.health = fn
	}
}

// NewServer ...
func NewServer(node Node, conf Config, logger *zap.Logger, options ...Option) *Server {
	def := DefaultConfig()
	if conf.SubmitRate <= 0 {
		conf.SubmitRate = def.SubmitRate
	}
	if conf.SubmitBurst <= 0 {
		conf.SubmitBurst = def.SubmitBurst
	}
	if conf.DefaultLimit <= 0 {
		conf.DefaultLimit = def.DefaultLimit
	}
	if conf.MaxLimit <= 0 {
		conf.MaxLimit = def.MaxLimit
	}

	s := &Server{
		node:    node,
		conf:    conf,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(conf.SubmitRate), conf.SubmitBurst),
		health: func() error {
			return nil
		},
	}
	for _, fn := range options {
		fn(s)
	}
	return s
}

// Handler returns the traced router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(otellib.HTTPLoggerMiddleware(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Get("/catalog", s.handleCatalog)
	r.Get("/notifications", s.handleNotifications)

	r.Route("/campaigns", func(cr chi.Router) {
		cr.With(s.limit).Post("/", s.handleDeploy)

		cr.Route("/{campaignID}", func(sr chi.Router) {
			sr.Get("/", s.handleCampaign)
			sr.Get("/affiliates", s.handleAffiliates)
			sr.Get("/affiliates/{affiliateID}", s.handleAffiliate)
			sr.Get("/transactions", s.handleTransactions)
			sr.With(s.limit).Post("/messages", s.handleSubmit)
		})
	})

	return otelhttp.NewHandler(r, "ledger-api")
}

func (s *Server) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

type deployRequest struct {
	Advertiser model.Address `json:"advertiser"`
}

type deployResponse struct {
	CampaignID uint64        `json:"campaign_id"`
	Account    model.Address `json:"account"`
}

type healthResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) writeNodeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, chain.ErrCampaignNotFound), errors.Is(err, chain.ErrAffiliateNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, chain.ErrQueueFull), errors.Is(err, chain.ErrJournalBehind):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	default:
		otellib.WrapError(r.Context(), err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func parseUint(r *http.Request, name string, bitSize int) (uint64, error) {
	value := chi.URLParam(r, name)
	return strconv.ParseUint(value, 10, bitSize)
}

func queryUint(r *http.Request, name string, def uint64, bitSize int) (uint64, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return def, nil
	}
	return strconv.ParseUint(value, 10, bitSize)
}

func (s *Server) queryLimit(r *http.Request) (int, error) {
	limit, err := queryUint(r, "limit", uint64(s.conf.DefaultLimit), 32)
	if err != nil {
		return 0, err
	}
	if limit == 0 {
		return s.conf.DefaultLimit, nil
	}
	if limit > uint64(s.conf.MaxLimit) {
		return s.conf.MaxLimit, nil
	}
	return int(limit), nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if err := s.health(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Reason: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ledger.Catalog())
}

func (s *Server) handleDeploy(w http.ResponseWriter, r *http.Request) {
	var req deployRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if req.Advertiser == "" {
		writeError(w, http.StatusBadRequest, "advertiser is required")
		return
	}

	campaignID, err := s.node.Deploy(r.Context(), req.Advertiser)
	if err != nil {
		s.writeNodeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, deployResponse{
		CampaignID: campaignID,
		Account:    chain.CampaignAddress(campaignID),
	})
}

func (s *Server) handleCampaign(w http.ResponseWriter, r *http.Request) {
	campaignID, err := parseUint(r, "campaignID", 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid campaign id")
		return
	}

	campaign, err := s.node.Campaign(r.Context(), campaignID)
	if err != nil {
		s.writeNodeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (s *Server) handleAffiliate(w http.ResponseWriter, r *http.Request) {
	campaignID, err := parseUint(r, "campaignID", 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid campaign id")
		return
	}
	affiliateID, err := parseUint(r, "affiliateID", 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid affiliate id")
		return
	}

	aff, err := s.node.Affiliate(r.Context(), campaignID, uint32(affiliateID))
	if err != nil {
		s.writeNodeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, aff)
}

func (s *Server) handleAffiliates(w http.ResponseWriter, r *http.Request) {
	campaignID, err := parseUint(r, "campaignID", 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid campaign id")
		return
	}
	from, err := queryUint(r, "from", 0, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from")
		return
	}
	to, err := queryUint(r, "to", from+uint64(s.conf.DefaultLimit), 32)
	if err != nil || to < from {
		writeError(w, http.StatusBadRequest, "invalid to")
		return
	}
	if to-from > uint64(s.conf.MaxLimit) {
		to = from + uint64(s.conf.MaxLimit)
	}
	if to > math.MaxUint32 {
		to = math.MaxUint32
	}

	affiliates, err := s.node.Affiliates(r.Context(), campaignID, uint32(from), uint32(to))
	if err != nil {
		s.writeNodeError(w, r, err)
		return
	}
	if affiliates == nil {
		affiliates = []model.Affiliate{}
	}
	writeJSON(w, http.StatusOK, affiliates)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	campaignID, err := parseUint(r, "campaignID", 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid campaign id")
		return
	}
	limit, err := s.queryLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	txs, err := s.node.RecentTransactions(r.Context(), campaignID, limit)
	if err != nil {
		s.writeNodeError(w, r, err)
		return
	}
	if txs == nil {
		txs = []model.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	campaignID, err := parseUint(r, "campaignID", 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid campaign id")
		return
	}

	var msg ledger.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid message: "+err.Error())
		return
	}
	if msg.Sender == "" {
		writeError(w, http.StatusBadRequest, "sender is required")
		return
	}

	if err := s.node.Submit(r.Context(), campaignID, msg); err != nil {
		s.writeNodeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	since, err := queryUint(r, "since", 0, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid since")
		return
	}
	limit, err := s.queryLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	records, err := s.node.Notifications(r.Context(), since, limit)
	if err != nil {
		s.writeNodeError(w, r, err)
		return
	}
	if records == nil {
		records = []model.Notification{}
	}
	writeJSON(w, http.StatusOK, records)
}
