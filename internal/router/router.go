// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ROUTER: Five-stage hybrid inference pipeline
package router

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/cloudnein/internal/anonymize"
	"github.com/jeranaias/cloudnein/internal/cloud"
	"github.com/jeranaias/cloudnein/internal/ledger"
	"github.com/jeranaias/cloudnein/internal/local"
	"github.com/jeranaias/cloudnein/internal/pii"
	"github.com/jeranaias/cloudnein/internal/tools"
	"github.com/jeranaias/cloudnein/internal/util"
)

const (
	redactedPreviewRunes = 200
	contextPreviewRunes  = 300
)

// advisorPromptFormat frames the anonymized context for cloud reasoning.
// Entity names in the data are aliases; instructing the model to keep them
// verbatim is what makes local de-anonymization work.
const advisorPromptFormat = "You are a CFO's financial advisor. Answer the question using ONLY the financial data provided below. Be specific with numbers. Use the entity names exactly as given (e.g. Vendor_A, Client_B).\n\n=== COMPANY FINANCIAL DATA ===\n%s\n\n=== QUESTION ===\n%s"

// LocalBackend runs tool-calling completions on-device.
type LocalBackend interface {
	Complete(ctx context.Context, query string, catalog []tools.Tool) (*local.CompleteResult, error)
}

// CloudBackend runs completions against the hosted model.
type CloudBackend interface {
	Complete(ctx context.Context, prompt string, catalog []tools.Tool) (*cloud.Reply, error)
	Analyze(ctx context.Context, prompt string) (string, error)
}

// Router is the pipeline orchestrator. Safe for concurrent use as long as
// its backends are.
type Router struct {
	local    LocalBackend
	cloud    CloudBackend
	executor *tools.Executor
	store    *ledger.Store
	detector *pii.Detector
	scorer   *pii.Scorer

	mu     sync.RWMutex
	config Config
}

// New creates a router. cloudBackend may be nil; cloud paths then fall
// through to local handling.
func New(localBackend LocalBackend, cloudBackend CloudBackend, executor *tools.Executor, store *ledger.Store, config Config) *Router {
	if config.ConfidenceThreshold == 0 {
		config.ConfidenceThreshold = DefaultConfig().ConfidenceThreshold
	}
	return &Router{
		local:    localBackend,
		cloud:    cloudBackend,
		executor: executor,
		store:    store,
		detector: pii.NewDetector(),
		scorer:   pii.NewScorer(config.SensitivityKeywords),
		config:   config,
	}
}

// SetConfidenceThreshold updates the threshold at runtime. Used by config
// hot reload.
func (r *Router) SetConfidenceThreshold(v float64) {
	if v <= 0 || v > 1 {
		return
	}
	r.mu.Lock()
	r.config.ConfidenceThreshold = v
	r.mu.Unlock()
}

func (r *Router) threshold() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config.ConfidenceThreshold
}

// Route runs the full five-stage pipeline for one query.
func (r *Router) Route(ctx context.Context, query string) (*HybridResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	id := uuid.NewString()

	// Stage 0: PII detection and sensitivity scoring, always.
	entities := r.detector.Detect(query)
	sensitivity := r.scorer.Score(query, entities)
	log.Printf("PIPELINE: [%s] stage 0 pii=%d sensitivity=%s", id, len(entities), sensitivity)

	base := HybridResult{
		RequestID:   id,
		Sensitivity: sensitivity,
		PIIDetected: len(entities),
	}

	// Privacy path: high sensitivity forces local redaction before any
	// cloud contact.
	if sensitivity == pii.SensitivityHigh {
		log.Printf("PIPELINE: [%s] -> privacy-redact (%d PII entities)", id, len(entities))
		nm := anonymize.NewNodeMap()
		redacted := nm.Redact(query, entities)

		call := tools.Call{
			Name:      tools.ToolRedactAndAnalyze,
			Arguments: map[string]any{"text": query, "question": query},
		}
		res := r.executor.Execute(ctx, call)

		out := base
		out.Source = res.Source
		out.Path = PathPrivacyRedact
		out.Reason = fmt.Sprintf("%d PII entities detected -> auto-redacted before cloud", len(entities))
		out.Calls = []tools.Call{call}
		out.Response = res.Output
		out.RedactedPreview = util.TruncateRunesNoEllipsis(redacted, redactedPreviewRunes)
		out.Elapsed = time.Since(start)
		return &out, nil
	}

	// Stage 1: complexity classification.
	cls := Classify(query)
	log.Printf("PIPELINE: [%s] stage 1 kind=%s", id, cls.Reason)

	// Analytical path: anonymized local context to the cloud, response
	// de-anonymized locally. Cloud failure falls through to tool calling.
	if cls.Kind.Analytical() && r.cloud != nil {
		log.Printf("PIPELINE: [%s] -> cloud-analysis (reversible alias map)", id)
		nm := anonymize.NewNodeMap()
		rawContext := gatherLocalContext(ctx, r.store, query, nm)
		anonQuestion := nm.Redact(query, entities)
		anonContext := nm.Anonymize(rawContext)

		prompt := fmt.Sprintf(advisorPromptFormat, anonContext, anonQuestion)
		text, err := r.cloud.Analyze(ctx, prompt)
		if err == nil {
			out := base
			out.Source = tools.SourceCloud
			out.Path = PathCloudAnalysis
			out.Reason = fmt.Sprintf("%s -> %d entities anonymized -> cloud reasoning -> de-anonymized locally",
				cls.Reason, nm.Count())
			out.Response = nm.DeAnonymize(orText(text, "Cloud analysis complete."))
			out.LocalContext = util.TruncateRunesNoEllipsis(anonContext, contextPreviewRunes)
			out.Elapsed = time.Since(start)
			return &out, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		log.Printf("PIPELINE: [%s] cloud analysis failed, falling through: %v", id, err)
	}

	// Stage 2: tool narrowing.
	available := tools.Narrow(query, tools.FilterBySensitivity(tools.Catalog(), sensitivity))
	log.Printf("PIPELINE: [%s] stage 2 narrowed to %d tools", id, len(available))

	// Stage 3: local tool calling.
	var calls []tools.Call
	var localResponse string
	localRes, err := r.local.Complete(ctx, query, available)
	if err != nil {
		log.Printf("PIPELINE: [%s] local completion failed: %v", id, err)
	} else {
		calls = localRes.Calls
		localResponse = localRes.Response
	}
	confidence := EstimateConfidence(calls, available)
	threshold := r.threshold()
	log.Printf("PIPELINE: [%s] stage 3 calls=%d confidence=%.2f", id, len(calls), confidence)

	// Stage 4a: confident local call executes directly.
	if confidence >= threshold && len(calls) > 0 {
		log.Printf("PIPELINE: [%s] -> local-tool (%.2f >= %.2f)", id, confidence, threshold)
		res := r.executor.Execute(ctx, calls[0])
		out := base
		out.Source = res.Source
		out.Path = PathLocalTool
		out.Reason = fmt.Sprintf("local model selected %s (confidence %.2f)", calls[0].Name, confidence)
		out.Calls = calls
		out.Response = res.Output
		out.Confidence = confidence
		out.RedactedPreview = res.RedactedPreview
		out.Elapsed = time.Since(start)
		return &out, nil
	}

	// Stage 4b: uncertain local model hands tool selection to the cloud.
	// Execution still happens locally.
	if confidence < threshold && r.cloud != nil {
		log.Printf("PIPELINE: [%s] -> cloud-tool (%.2f < %.2f)", id, confidence, threshold)
		reply, err := r.cloud.Complete(ctx, query, available)
		switch {
		case err != nil:
			log.Printf("PIPELINE: [%s] cloud tool selection failed, trying fallback: %v", id, err)
		case len(reply.Calls) > 0:
			res := r.executor.Execute(ctx, reply.Calls[0])
			out := base
			out.Source = res.Source
			out.Path = PathCloudTool
			out.Reason = fmt.Sprintf("local model uncertain (%.2f) -> cloud selected %s",
				confidence, reply.Calls[0].Name)
			out.Calls = reply.Calls
			out.Response = res.Output
			out.LocalConfidence = confidence
			out.Elapsed = time.Since(start)
			return &out, nil
		}
	}

	// Stage 4c: keyword extraction fallback.
	if fb := KeywordFallback(query, available); fb != nil {
		log.Printf("PIPELINE: [%s] -> local-fallback %s", id, fb.Name)
		res := r.executor.Execute(ctx, *fb)
		out := base
		out.Source = res.Source
		out.Path = PathLocalFallback
		out.Reason = fmt.Sprintf("models failed -> keyword extraction: %s", fb.Name)
		out.Calls = []tools.Call{*fb}
		out.Response = res.Output
		out.Confidence = 0.6
		out.RedactedPreview = res.RedactedPreview
		out.Elapsed = time.Since(start)
		return &out, nil
	}

	// Nothing worked.
	out := base
	out.Source = tools.SourceOnDevice
	out.Path = PathLocalFallback
	out.Reason = "no tool matched - try rephrasing"
	out.Response = orText(localResponse, "I couldn't determine which tool to use. Try rephrasing your question.")
	out.Confidence = confidence
	out.Elapsed = time.Since(start)
	return &out, nil
}

func orText(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
