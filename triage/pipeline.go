package triage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PaawanBarach/ai-content-intelligence/capability"
	"github.com/PaawanBarach/ai-content-intelligence/graph"
	"github.com/PaawanBarach/ai-content-intelligence/graph/emit"
	"github.com/PaawanBarach/ai-content-intelligence/graph/store"
)

// Input validation errors, raised before the graph starts.
var (
	ErrEmptyText       = errors.New("triage: text cannot be empty")
	ErrMissingLLM      = errors.New("triage: LLM capability is required")
	ErrInvalidDecision = errors.New("triage: invalid review decision")
)

// Capabilities are the external services a pipeline consumes. LLM is
// required; nil lookup capabilities simply produce no verification results.
type Capabilities struct {
	LLM       capability.Completer
	News      capability.NewsSearcher
	FactCheck capability.FactChecker
}

// Request is the caller's input for one run.
type Request struct {
	Text                        string
	SourceURL                   string
	ForceHumanReview            bool
	IncludeExternalVerification bool
	AnalysisMode                string
}

// NewRequest creates a Request with the defaults callers usually want:
// external verification on, balanced analysis mode.
func NewRequest(text string) Request {
	return Request{
		Text:                        text,
		IncludeExternalVerification: true,
		AnalysisMode:                ModeBalanced,
	}
}

// PendingReview describes a run suspended for a human decision.
type PendingReview struct {
	RunID     string
	RiskLevel string
	Summary   string
	Decisions []string
}

// Result is the outcome of Run or Resume. Pending is nil for completed runs;
// otherwise the run is suspended and State holds the fields accumulated so
// far.
type Result struct {
	State   ContentState
	Pending *PendingReview
}

// Completed reports whether the run produced a final report.
func (r Result) Completed() bool { return r.Pending == nil }

type pipelineConfig struct {
	store   store.Store[ContentState]
	emitter emit.Emitter
	metrics *graph.PrometheusMetrics
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*pipelineConfig)

// WithStore selects the persistence backend. Default is an in-memory store;
// paused runs then survive only within the process.
func WithStore(st store.Store[ContentState]) PipelineOption {
	return func(c *pipelineConfig) { c.store = st }
}

// WithEmitter selects the observability emitter. Default discards events.
func WithEmitter(em emit.Emitter) PipelineOption {
	return func(c *pipelineConfig) { c.emitter = em }
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *graph.PrometheusMetrics) PipelineOption {
	return func(c *pipelineConfig) { c.metrics = m }
}

// Pipeline is the entry point to the triage workflow.
type Pipeline struct {
	engine *graph.Engine[ContentState]
	store  store.Store[ContentState]
}

// maxPipelineSteps bounds a run well above the five-stage depth.
const maxPipelineSteps = 20

// NewPipeline assembles the workflow graph over the given capabilities.
func NewPipeline(caps Capabilities, opts ...PipelineOption) (*Pipeline, error) {
	if caps.LLM == nil {
		return nil, ErrMissingLLM
	}

	cfg := pipelineConfig{
		store:   store.NewMemStore[ContentState](),
		emitter: emit.NewNullEmitter(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	engine := graph.New(Reduce, cfg.store, cfg.emitter,
		graph.WithMaxSteps(maxPipelineSteps),
		graph.WithMetrics(cfg.metrics),
	)

	// Analysis retries rate limits; risk assessment gets one attempt and
	// fails the run on any completion error.
	nodes := map[Stage]graph.Node[ContentState]{
		StageAnalysis:     AnalysisNode(caps.LLM, capability.LLMPolicy()),
		StageVerification: VerificationNode(caps.News, caps.FactCheck),
		StageRisk:         RiskNode(caps.LLM, capability.OncePolicy()),
		StageReview:       ReviewNode(),
		StageReport:       ReportNode(),
	}
	for id, node := range nodes {
		if err := engine.Add(string(id), node); err != nil {
			return nil, fmt.Errorf("add stage %s: %w", id, err)
		}
	}
	if err := engine.StartAt(string(StageAnalysis)); err != nil {
		return nil, err
	}

	// Edges realize the routing decisions; the unconditional fallback is
	// registered after the conditional branch.
	edges := []struct {
		from, to Stage
		when     graph.Predicate[ContentState]
	}{
		{StageAnalysis, StageVerification, func(s ContentState) bool { return NextAfterAnalysis(s) == StageVerification }},
		{StageAnalysis, StageRisk, nil},
		{StageVerification, StageRisk, nil},
		{StageRisk, StageReview, func(s ContentState) bool { return NextAfterRisk(s) == StageReview }},
		{StageRisk, StageReport, nil},
		{StageReview, StageReport, nil},
	}
	for _, e := range edges {
		if err := engine.Connect(string(e.from), string(e.to), e.when); err != nil {
			return nil, fmt.Errorf("connect %s -> %s: %w", e.from, e.to, err)
		}
	}

	return &Pipeline{engine: engine, store: cfg.store}, nil
}

// Run executes a triage run to completion or suspension. Empty text is
// rejected before the graph starts.
func (p *Pipeline) Run(ctx context.Context, runID string, req Request) (Result, error) {
	if req.Text == "" {
		return Result{}, ErrEmptyText
	}

	initial := ContentState{
		RunID:                       runID,
		Text:                        req.Text,
		SourceURL:                   req.SourceURL,
		ForceHumanReview:            req.ForceHumanReview,
		IncludeExternalVerification: req.IncludeExternalVerification,
		AnalysisMode:                orDefault(req.AnalysisMode, ModeBalanced),
		StartedAt:                   time.Now(),

		// Runs that never enter the review stage are auto-approved.
		HumanApproval: DecisionAutoApproved,
		ReviewStatus:  StatusNoReviewNeeded,
	}

	outcome, err := p.engine.Run(ctx, runID, initial)
	if err != nil {
		return Result{}, err
	}
	return toResult(outcome), nil
}

// Resume continues a suspended run with the reviewer's decision and notes.
// Resuming an already-resumed run with the same decision replays to the
// same terminal state.
func (p *Pipeline) Resume(ctx context.Context, runID, decision, notes string) (Result, error) {
	if !validDecision(decision) {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidDecision, decision)
	}

	outcome, err := p.engine.Resume(ctx, runID, func(s ContentState) ContentState {
		s.ReviewDecision = decision
		s.ReviewerNotes = notes
		return s
	})
	if err != nil {
		return Result{}, err
	}
	return toResult(outcome), nil
}

// SaveCheckpoint snapshots the latest state of a run under a named
// checkpoint.
func (p *Pipeline) SaveCheckpoint(ctx context.Context, runID, cpID string) error {
	return p.engine.SaveCheckpoint(ctx, runID, cpID)
}

func validDecision(decision string) bool {
	for _, d := range ReviewDecisions {
		if d == decision {
			return true
		}
	}
	return false
}

func toResult(outcome graph.Outcome[ContentState]) Result {
	res := Result{State: outcome.State}
	if outcome.Pending != nil {
		pending := &PendingReview{
			RunID:     outcome.Pending.RunID,
			Decisions: ReviewDecisions,
		}
		if v, ok := outcome.Pending.Prompt["risk_level"].(string); ok {
			pending.RiskLevel = v
		}
		if v, ok := outcome.Pending.Prompt["summary"].(string); ok {
			pending.Summary = v
		}
		res.Pending = pending
	}
	return res
}
