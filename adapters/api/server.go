// Package api exposes sequential decisions over HTTP.
package api

import (
	"net/http"
	"strconv"
	"time"

	"gouncertain/app"
	"gouncertain/domain/core"
	"gouncertain/internal"
	"gouncertain/internal/errors"
	"gouncertain/ports"

	"github.com/gin-gonic/gin"
)

// Server serves the decision API
type Server struct {
	router      *gin.Engine
	decisions   *app.DecisionService
	ledger      ports.LedgerReaderPort
	logger      *internal.Logger
	defaultSeed int64
}

// NewServer creates a server whose requests without a seed use defaultSeed
func NewServer(decisions *app.DecisionService, defaultSeed int64, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:      gin.New(),
		decisions:   decisions,
		logger:      logger.With("api"),
		defaultSeed: defaultSeed,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// WithLedger enables the decision history endpoints
func (s *Server) WithLedger(ledger ports.LedgerReaderPort) *Server {
	s.ledger = ledger
	return s
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("listening on %s", addr)
	return s.router.Run(addr)
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	})
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	v1 := s.router.Group("/v1")
	v1.POST("/decisions", s.handleDecide)
	v1.POST("/decisions/batch", s.handleDecideBatch)
	v1.POST("/reliability", s.handleReliability)

	v1.GET("/decisions/:fingerprint", s.handleGetDecision)
	v1.GET("/runs/:run_id/decisions", s.handleRunDecisions)
	v1.GET("/hypotheses/:hypothesis_id/decisions", s.handleHypothesisDecisions)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleDecide(c *gin.Context) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.WithCode(errors.CodeInvalidInput, errors.Wrap(err, "malformed decision request")))
		return
	}

	decision, err := s.toDecision(req)
	if err != nil {
		s.respondError(c, err)
		return
	}

	report, err := s.decisions.Decide(c.Request.Context(), core.NewRunID(), decision)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleDecideBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.WithCode(errors.CodeInvalidInput, errors.Wrap(err, "malformed batch request")))
		return
	}

	resp := BatchResponse{Results: make([]BatchItem, len(req.Decisions))}
	decisions := make([]app.DecisionRequest, 0, len(req.Decisions))
	positions := make([]int, 0, len(req.Decisions))
	for i, item := range req.Decisions {
		decision, err := s.toDecision(item)
		if err != nil {
			resp.Results[i].Error = toErrorResponse(err)
			resp.Failed++
			continue
		}
		decisions = append(decisions, decision)
		positions = append(positions, i)
	}

	results, _ := s.decisions.DecideAll(c.Request.Context(), decisions)
	for j, result := range results {
		item := &resp.Results[positions[j]]
		if result.Err != nil {
			item.Error = toErrorResponse(result.Err)
			resp.Failed++
			continue
		}
		item.Report = result.Report
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleReliability(c *gin.Context) {
	var req ReliabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.WithCode(errors.CodeInvalidInput, errors.Wrap(err, "malformed reliability request")))
		return
	}

	decision, err := s.toDecision(req.DecisionRequest)
	if err != nil {
		s.respondError(c, err)
		return
	}

	summary, err := s.decisions.Reliability(c.Request.Context(), decision, req.Runs)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleGetDecision(c *gin.Context) {
	if !s.requireLedger(c) {
		return
	}

	record, err := s.ledger.GetRecord(c.Request.Context(), core.Hash(c.Param("fingerprint")))
	if err != nil {
		s.respondError(c, errors.FromDomain(err, "failed to load decision"))
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) handleRunDecisions(c *gin.Context) {
	if !s.requireLedger(c) {
		return
	}

	runID := core.RunID(c.Param("run_id"))
	records, err := s.ledger.ListByRun(c.Request.Context(), runID)
	if err != nil {
		s.respondError(c, errors.FromDomain(err, "failed to list decisions"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id":    runID,
		"decisions": records,
		"count":     len(records),
	})
}

func (s *Server) handleHypothesisDecisions(c *gin.Context) {
	if !s.requireLedger(c) {
		return
	}

	id, err := core.ParseHypothesisID(c.Param("hypothesis_id"))
	if err != nil {
		s.respondError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 || limit > 1000 {
		s.respondError(c, errors.InvalidInput("limit must be between 1 and 1000"))
		return
	}

	records, err := s.ledger.ListByHypothesis(c.Request.Context(), id, limit)
	if err != nil {
		s.respondError(c, errors.FromDomain(err, "failed to list decisions"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"hypothesis_id": id,
		"decisions":     records,
		"count":         len(records),
	})
}

func (s *Server) requireLedger(c *gin.Context) bool {
	if s.ledger == nil {
		s.respondError(c, errors.Unavailable("decision history requires DATABASE_URL"))
		return false
	}
	return true
}

func (s *Server) toDecision(req DecisionRequest) (app.DecisionRequest, error) {
	value, err := req.Value.Boolean()
	if err != nil {
		return app.DecisionRequest{}, errors.FromDomain(err, "invalid value "+req.Value.String())
	}

	var id core.HypothesisID
	if req.HypothesisID != "" {
		if id, err = core.ParseHypothesisID(req.HypothesisID); err != nil {
			return app.DecisionRequest{}, errors.WithCode(errors.CodeInvalidInput, err)
		}
	}

	seed := s.defaultSeed
	if req.Seed != nil {
		seed = *req.Seed
	}

	return app.DecisionRequest{
		HypothesisID: id,
		Target:       req.Target,
		Value:        value,
		Seed:         seed,
	}, nil
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(errors.GetCode(err))
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, toErrorResponse(err))
}

func toErrorResponse(err error) *ErrorResponse {
	return &ErrorResponse{Code: errors.GetCode(err), Error: err.Error()}
}

func statusFor(code string) int {
	switch code {
	case errors.CodeInvalidInput, errors.CodeConfigInvalid:
		return http.StatusBadRequest
	case errors.CodeSamplingError:
		return http.StatusUnprocessableEntity
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
