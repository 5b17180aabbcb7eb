// request_context.go - Request tracking and logging system

package common

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestContext tracks one lookup, scan or translation with timing and costs
type RequestContext struct {
	RequestID           string
	Operation           string
	StartTime           time.Time
	Steps               []StepLog
	TotalTokens         TokenUsage
	CurrentStep         string
	CurrentStepStart    time.Time
	CurrentSubSteps     []SubStepLog
	CurrentSubStep      string
	CurrentSubStepStart time.Time

	logger *logrus.Entry
}

// StepLog represents a single processing step
type StepLog struct {
	Name      string       `json:"name"`
	StartTime time.Time    `json:"start_time"`
	Duration  int64        `json:"duration_ms"`
	Status    string       `json:"status"` // "success", "failed", "skipped"
	Tokens    *TokenUsage  `json:"tokens,omitempty"`
	Error     string       `json:"error,omitempty"`
	SubSteps  []SubStepLog `json:"sub_steps,omitempty"`
}

// SubStepLog represents a detailed sub-operation within a step
type SubStepLog struct {
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Duration  int64     `json:"duration_ms"`
	Details   string    `json:"details,omitempty"`
}

// TokenUsage tracks API token consumption
type TokenUsage struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalTokens  int     `json:"total_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// Add accumulates another usage record into u
func (u *TokenUsage) Add(other *TokenUsage) {
	if other == nil {
		return
	}
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
	u.CostUSD += other.CostUSD
}

// NewRequestContext creates a new request tracking context
func NewRequestContext(operation string) *RequestContext {
	reqID := uuid.New().String()
	now := time.Now()

	logger := logrus.WithFields(logrus.Fields{
		"request_id": reqID,
		"operation":  operation,
	})
	logger.Debug("🚀 request started")

	return &RequestContext{
		RequestID: reqID,
		Operation: operation,
		StartTime: now,
		Steps:     []StepLog{},
		logger:    logger,
	}
}

// StartStep begins tracking a new processing step
func (rc *RequestContext) StartStep(stepName string) {
	rc.CurrentStep = stepName
	rc.CurrentStepStart = time.Now()

	stepDescriptions := map[string]string{
		"cache_lookup":        "⚡ cache lookup",
		"details_provider":    "🔍 details provider",
		"cache_write":         "💾 cache write",
		"image_preprocessing": "🖼️ image preprocessing",
		"ocr_extraction":      "📷 text extraction",
		"name_cleanup":        "🧹 name cleanup",
		"translation":         "🌐 translation",
		"suggestions":         "💡 suggestions",
	}

	desc := stepDescriptions[stepName]
	if desc == "" {
		desc = stepName
	}

	rc.logger.Debugf("┌── %s", desc)
}

// EndStep completes the current step and records timing
func (rc *RequestContext) EndStep(status string, tokens *TokenUsage, err error) {
	duration := time.Since(rc.CurrentStepStart).Milliseconds()

	stepLog := StepLog{
		Name:      rc.CurrentStep,
		StartTime: rc.CurrentStepStart,
		Duration:  duration,
		Status:    status,
		Tokens:    tokens,
		SubSteps:  rc.CurrentSubSteps,
	}

	fields := logrus.Fields{
		"step":        rc.CurrentStep,
		"status":      status,
		"duration_ms": duration,
	}

	if err != nil {
		stepLog.Error = err.Error()
		rc.logger.WithFields(fields).WithError(err).Warn("step failed")
	} else {
		if tokens != nil {
			rc.TotalTokens.Add(tokens)
			fields["input_tokens"] = tokens.InputTokens
			fields["output_tokens"] = tokens.OutputTokens
		}
		if len(rc.CurrentSubSteps) > 0 {
			fields["sub_steps"] = len(rc.CurrentSubSteps)
		}
		rc.logger.WithFields(fields).Debug("└── step done")
	}

	rc.Steps = append(rc.Steps, stepLog)
	rc.CurrentStep = ""
	rc.CurrentSubSteps = []SubStepLog{}
}

// StartSubStep begins tracking a detailed sub-operation
func (rc *RequestContext) StartSubStep(subStepName string) {
	rc.CurrentSubStep = subStepName
	rc.CurrentSubStepStart = time.Now()
	rc.logger.Debugf("   ├─ %s...", subStepName)
}

// EndSubStep completes the current sub-step and records timing
func (rc *RequestContext) EndSubStep(details string) {
	if rc.CurrentSubStep == "" {
		return
	}

	duration := time.Since(rc.CurrentSubStepStart).Milliseconds()

	rc.CurrentSubSteps = append(rc.CurrentSubSteps, SubStepLog{
		Name:      rc.CurrentSubStep,
		StartTime: rc.CurrentSubStepStart,
		Duration:  duration,
		Details:   details,
	})

	detailsMsg := ""
	if details != "" {
		detailsMsg = " | " + details
	}
	rc.logger.Debugf("   └─ %.2fs%s", float64(duration)/1000, detailsMsg)

	rc.CurrentSubStep = ""
}

// LogInfo logs info-level message with request ID field
func (rc *RequestContext) LogInfo(format string, args ...interface{}) {
	rc.logger.Infof(format, args...)
}

// LogWarning logs warning-level message with request ID field
func (rc *RequestContext) LogWarning(format string, args ...interface{}) {
	rc.logger.Warnf(format, args...)
}

// LogError logs error-level message with request ID field
func (rc *RequestContext) LogError(format string, args ...interface{}) {
	rc.logger.Errorf(format, args...)
}

// Logger exposes the request-scoped entry for callers that need extra fields
func (rc *RequestContext) Logger() *logrus.Entry {
	return rc.logger
}

// GetSummary returns a final summary of the entire request
func (rc *RequestContext) GetSummary() map[string]interface{} {
	totalDuration := time.Since(rc.StartTime).Milliseconds()

	stepBreakdown := make(map[string]int64)
	for _, step := range rc.Steps {
		stepBreakdown[step.Name] += step.Duration
	}

	summary := map[string]interface{}{
		"request_id":        rc.RequestID,
		"operation":         rc.Operation,
		"total_duration_ms": totalDuration,
		"step_breakdown":    stepBreakdown,
		"total_steps":       len(rc.Steps),
		"token_usage": map[string]interface{}{
			"input_tokens":  rc.TotalTokens.InputTokens,
			"output_tokens": rc.TotalTokens.OutputTokens,
			"total_tokens":  rc.TotalTokens.TotalTokens,
			"cost_usd":      fmt.Sprintf("$%.4f", rc.TotalTokens.CostUSD),
		},
	}

	rc.logger.WithFields(logrus.Fields{
		"duration_sec": float64(totalDuration) / 1000,
		"steps":        len(rc.Steps),
		"tokens":       rc.TotalTokens.TotalTokens,
	}).Info("🎯 request finished")

	return summary
}
