package api

import (
	"gouncertain/adapters/stats/distributions"
	"gouncertain/app"
)

// DecisionRequest asks whether a distribution's boolean answer is true more
// often than 1/2 + target/2
type DecisionRequest struct {
	HypothesisID string             `json:"hypothesis_id,omitempty"`
	Target       float64            `json:"target"`
	Value        distributions.Spec `json:"value"`
	Seed         *int64             `json:"seed,omitempty"`
}

// BatchRequest runs several independent decisions under one run
type BatchRequest struct {
	Decisions []DecisionRequest `json:"decisions" binding:"required,min=1,max=256"`
}

// BatchItem holds either a report or the error of one batched decision
type BatchItem struct {
	Report *app.DecisionReport `json:"report,omitempty"`
	Error  *ErrorResponse      `json:"error,omitempty"`
}

// BatchResponse preserves the order of BatchRequest.Decisions
type BatchResponse struct {
	Results []BatchItem `json:"results"`
	Failed  int         `json:"failed"`
}

// ReliabilityRequest repeats one decision over independent streams
type ReliabilityRequest struct {
	DecisionRequest
	Runs int `json:"runs" binding:"required,min=1,max=10000"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}
