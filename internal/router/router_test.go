// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/cloudnein/internal/cloud"
	"github.com/jeranaias/cloudnein/internal/ledger"
	"github.com/jeranaias/cloudnein/internal/local"
	"github.com/jeranaias/cloudnein/internal/pii"
	"github.com/jeranaias/cloudnein/internal/tools"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeLocal struct {
	calls    []tools.Call
	response string
	err      error

	gotQuery string
	gotTools []tools.Tool
}

func (f *fakeLocal) Complete(_ context.Context, query string, catalog []tools.Tool) (*local.CompleteResult, error) {
	f.gotQuery = query
	f.gotTools = catalog
	if f.err != nil {
		return nil, f.err
	}
	return &local.CompleteResult{Response: f.response, Calls: f.calls}, nil
}

// fakeCloud records every prompt that crosses the "network boundary" so
// tests can assert on exactly what would have left the device.
type fakeCloud struct {
	analyzeText string
	echoPrompt  bool
	analyzeErr  error
	reply       *cloud.Reply
	completeErr error

	analyzePrompts  []string
	completePrompts []string
	completeTools   [][]tools.Tool
}

func (f *fakeCloud) Analyze(_ context.Context, prompt string) (string, error) {
	f.analyzePrompts = append(f.analyzePrompts, prompt)
	if f.analyzeErr != nil {
		return "", f.analyzeErr
	}
	if f.echoPrompt {
		return prompt, nil
	}
	return f.analyzeText, nil
}

func (f *fakeCloud) Complete(_ context.Context, prompt string, catalog []tools.Tool) (*cloud.Reply, error) {
	f.completePrompts = append(f.completePrompts, prompt)
	f.completeTools = append(f.completeTools, catalog)
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	return f.reply, nil
}

func newTestRouter(t *testing.T, localB LocalBackend, cloudB CloudBackend) *Router {
	t.Helper()
	store, err := ledger.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Seed(context.Background()))
	t.Cleanup(func() { store.Close() })

	var analyzer tools.Analyzer
	if cloudB != nil {
		analyzer = cloudB.(*fakeCloud)
	}
	exec := tools.NewExecutor(store, pii.NewDetector(), pii.NewScorer(nil), analyzer)
	return New(localB, cloudB, exec, store, DefaultConfig())
}

func toolNames(catalog []tools.Tool) []string {
	names := make([]string, len(catalog))
	for i, tool := range catalog {
		names[i] = tool.Name
	}
	return names
}

// =============================================================================
// ROUTING PATHS
// =============================================================================

func TestRoute_PrivacyRedact(t *testing.T) {
	cloudB := &fakeCloud{analyzeText: "No exposure found in the redacted data."}
	r := newTestRouter(t, &fakeLocal{}, cloudB)

	res, err := r.Route(context.Background(), "My SSN is 123-45-6789, is it exposed?")
	require.NoError(t, err)

	assert.Equal(t, PathPrivacyRedact, res.Path)
	assert.Equal(t, tools.SourceRedactedCloud, res.Source)
	assert.Equal(t, pii.SensitivityHigh, res.Sensitivity)
	assert.Equal(t, 1, res.PIIDetected)
	assert.Equal(t, "No exposure found in the redacted data.", res.Response)
	assert.Contains(t, res.RedactedPreview, "SSN_A")
	assert.NotContains(t, res.RedactedPreview, "123-45-6789")
	assert.NotEmpty(t, res.RequestID)

	// The raw SSN must never cross the network boundary.
	require.Len(t, cloudB.analyzePrompts, 1)
	assert.NotContains(t, cloudB.analyzePrompts[0], "123-45-6789")
	assert.Contains(t, cloudB.analyzePrompts[0], "SSN_A")
}

// A cloud failure on the privacy path still answers locally and reports
// the on-device source, with the redaction preview intact.
func TestRoute_PrivacyRedactCloudFailure(t *testing.T) {
	cloudB := &fakeCloud{analyzeErr: errors.New("cloud down")}
	r := newTestRouter(t, &fakeLocal{}, cloudB)

	res, err := r.Route(context.Background(), "My SSN is 123-45-6789, is it exposed?")
	require.NoError(t, err)

	assert.Equal(t, PathPrivacyRedact, res.Path)
	assert.Equal(t, tools.SourceOnDevice, res.Source)
	assert.Contains(t, res.Response, "Cloud analysis failed")
	assert.Contains(t, res.Response, "redacted locally")
	assert.Contains(t, res.RedactedPreview, "SSN_A")
	assert.NotContains(t, res.RedactedPreview, "123-45-6789")
}

func TestRoute_CloudAnalysis(t *testing.T) {
	// Echoing the prompt back makes the response exactly what left the
	// device, so de-anonymization is observable end to end.
	cloudB := &fakeCloud{echoPrompt: true}
	r := newTestRouter(t, &fakeLocal{}, cloudB)

	res, err := r.Route(context.Background(), "Why is marketing over budget?")
	require.NoError(t, err)

	assert.Equal(t, PathCloudAnalysis, res.Path)
	assert.Equal(t, tools.SourceCloud, res.Source)
	assert.Contains(t, res.Reason, "causal reasoning question")
	assert.Contains(t, res.Reason, "de-anonymized locally")

	// Outbound prompt carries aliases and aggregates, never real names.
	require.Len(t, cloudB.analyzePrompts, 1)
	outbound := cloudB.analyzePrompts[0]
	assert.Contains(t, outbound, "BUDGET STATUS")
	assert.Contains(t, outbound, "TOTAL REVENUE")
	assert.Contains(t, outbound, "Vendor_")
	assert.Contains(t, outbound, "Client_")
	for _, name := range []string{"AWS", "GlobalTech Industries", "Sarah Chen", "Baker McKenzie"} {
		assert.NotContains(t, outbound, name)
	}

	// The de-anonymized response swaps the aliases back.
	assert.Contains(t, res.Response, "GlobalTech Industries")
	assert.Contains(t, res.Response, "Sarah Chen")
	assert.NotContains(t, res.Response, "Client_A")

	// The stored context preview stays anonymized.
	assert.NotContains(t, res.LocalContext, "GlobalTech Industries")
}

func TestRoute_CloudAnalysisFailureFallsThrough(t *testing.T) {
	localB := &fakeLocal{
		calls: []tools.Call{{Name: tools.ToolGetBudgetStatus, Arguments: map[string]any{}}},
	}
	cloudB := &fakeCloud{analyzeErr: errors.New("cloud down")}
	r := newTestRouter(t, localB, cloudB)

	res, err := r.Route(context.Background(), "Why is marketing over budget?")
	require.NoError(t, err)

	assert.Equal(t, PathLocalTool, res.Path)
	assert.Contains(t, res.Response, "Marketing")
}

func TestRoute_LocalTool(t *testing.T) {
	localB := &fakeLocal{
		calls: []tools.Call{{Name: tools.ToolQueryExpenses, Arguments: map[string]any{"category": "Legal"}}},
	}
	r := newTestRouter(t, localB, nil)

	res, err := r.Route(context.Background(), "show legal expenses")
	require.NoError(t, err)

	assert.Equal(t, PathLocalTool, res.Path)
	assert.Equal(t, tools.SourceOnDevice, res.Source)
	assert.InDelta(t, 0.85, res.Confidence, 0.001)
	assert.Contains(t, res.Response, "Baker McKenzie")
	assert.Contains(t, res.Response, "Wilson Sonsini")
	assert.Contains(t, res.Reason, tools.ToolQueryExpenses)

	// Narrowing happened before the local model saw the catalog.
	assert.Equal(t, []string{tools.ToolQueryExpenses, tools.ToolGetBudgetStatus}, toolNames(localB.gotTools))
}

func TestRoute_CloudTool(t *testing.T) {
	localB := &fakeLocal{} // no calls, confidence 0.1
	cloudB := &fakeCloud{
		reply: &cloud.Reply{Calls: []tools.Call{
			{Name: tools.ToolGetWireApprovals, Arguments: map[string]any{"status": "pending"}},
		}},
	}
	r := newTestRouter(t, localB, cloudB)

	res, err := r.Route(context.Background(), "wire approvals status")
	require.NoError(t, err)

	assert.Equal(t, PathCloudTool, res.Path)
	assert.Equal(t, tools.SourceOnDevice, res.Source, "cloud picks the tool, execution stays local")
	assert.InDelta(t, 0.1, res.LocalConfidence, 0.001)
	assert.Contains(t, res.Response, "17000")

	// The cloud saw the narrowed catalog, not all seven tools.
	require.Len(t, cloudB.completeTools, 1)
	assert.Equal(t, []string{tools.ToolGetWireApprovals, tools.ToolQueryExpenses}, toolNames(cloudB.completeTools[0]))
}

func TestRoute_LocalFallback(t *testing.T) {
	r := newTestRouter(t, &fakeLocal{}, nil)

	res, err := r.Route(context.Background(), "how much did we pay AWS?")
	require.NoError(t, err)

	assert.Equal(t, PathLocalFallback, res.Path)
	assert.InDelta(t, 0.6, res.Confidence, 0.001)
	require.Len(t, res.Calls, 1)
	assert.Equal(t, tools.ToolQueryExpenses, res.Calls[0].Name)
	assert.Equal(t, "aws", res.Calls[0].Arguments["vendor"])
	assert.Contains(t, res.Response, "Vendor: aws")
	assert.Contains(t, res.Response, "Total historical spend")
}

func TestRoute_NothingWorked(t *testing.T) {
	r := newTestRouter(t, &fakeLocal{}, nil)

	res, err := r.Route(context.Background(), "hello there")
	require.NoError(t, err)

	assert.Equal(t, PathLocalFallback, res.Path)
	assert.Equal(t, tools.SourceOnDevice, res.Source)
	assert.Equal(t, "I couldn't determine which tool to use. Try rephrasing your question.", res.Response)
	assert.Equal(t, "no tool matched - try rephrasing", res.Reason)
}

func TestRoute_LocalErrorStillAnswers(t *testing.T) {
	localB := &fakeLocal{err: errors.New("runtime not running")}
	r := newTestRouter(t, localB, nil)

	res, err := r.Route(context.Background(), "how much did we pay AWS?")
	require.NoError(t, err)
	assert.Equal(t, PathLocalFallback, res.Path)
	assert.Contains(t, res.Response, "Vendor: aws")
}

// Medium sensitivity strips cloud_analyze from the catalog before the
// local model ever sees it.
func TestRoute_MediumSensitivityFiltersCloudTool(t *testing.T) {
	localB := &fakeLocal{}
	r := newTestRouter(t, localB, nil)

	// One email address scores medium without tripping the privacy path.
	_, err := r.Route(context.Background(), "show expenses billed to ops@example.com")
	require.NoError(t, err)

	for _, name := range toolNames(localB.gotTools) {
		assert.NotEqual(t, tools.ToolCloudAnalyze, name)
	}
}

func TestRoute_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newTestRouter(t, &fakeLocal{}, nil)
	_, err := r.Route(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)
}
