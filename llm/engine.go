package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Kind names a generation capability a backend can load.
type Kind string

const (
	KindConversational Kind = "conversational"
	KindTextGeneration Kind = "text-generation"
)

// Mode records which capability a bundle ended up loaded under.
type Mode string

const (
	ModeConversational Mode = "conversational"
	ModeTextGeneration Mode = "text-generation"
	ModeUnavailable    Mode = "unavailable"
)

// Fixed in-band replies. Generation never surfaces an error to the caller;
// every failure resolves to one of these or to an error-detail message.
const (
	MsgModelNotLoaded = "Model not loaded. Check model choice and internet connection."
	MsgNoReply        = "Sorry, no reply."
)

// Params are the generation parameters passed to a capability. Backends that
// do not support a parameter ignore it.
type Params struct {
	MaxLength int
	TopP      float64
	TopK      int
	DoSample  bool
}

// primaryParams are used on the first generation attempt, recoveryParams on
// the single allowed retry with a fresh text-generation capability.
var (
	primaryParams  = Params{MaxLength: 150, TopP: 0.9, TopK: 50, DoSample: true}
	recoveryParams = Params{MaxLength: 120, TopP: 0.9, TopK: 50, DoSample: true}
)

// Capability is a loaded generation pipeline ready to produce replies.
type Capability interface {
	Generate(ctx context.Context, prompt string, p Params) (string, error)
}

// Backend loads generation capabilities for a model identifier.
type Backend interface {
	Load(ctx context.Context, model string, kind Kind) (Capability, error)
}

// Bundle is a loaded capability plus the mode it was loaded under.
// Invariant: Mode is ModeUnavailable exactly when capability is nil.
type Bundle struct {
	capability Capability
	Mode       Mode
}

// Engine owns the bundle cache and the generation fallback policy. Bundles
// are created once per distinct model identifier and reused for the process
// lifetime; a bundle that failed both load attempts is cached in its terminal
// unavailable state and never retried automatically.
type Engine struct {
	backend Backend
	logger  *zap.Logger

	mu      sync.Mutex
	bundles map[string]*Bundle
}

func NewEngine(backend Backend, logger *zap.Logger) (*Engine, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	return &Engine{
		backend: backend,
		logger:  logger,
		bundles: make(map[string]*Bundle),
	}, nil
}

// Load returns the cached bundle for model, creating it on first use.
// Loading tries the conversational capability first, then text-generation
// with the same identifier. Both failing yields an unavailable bundle.
func (e *Engine) Load(ctx context.Context, model string) *Bundle {
	e.mu.Lock()
	defer e.mu.Unlock()

	if b, ok := e.bundles[model]; ok {
		return b
	}
	b := e.load(ctx, model)
	e.bundles[model] = b
	return b
}

// Reload drops the cached bundle for model and loads it again. This is the
// explicit recovery path for a bundle stuck in the unavailable state.
func (e *Engine) Reload(ctx context.Context, model string) *Bundle {
	e.mu.Lock()
	defer e.mu.Unlock()

	b := e.load(ctx, model)
	e.bundles[model] = b
	return b
}

func (e *Engine) load(ctx context.Context, model string) *Bundle {
	cap, err := e.backend.Load(ctx, model, KindConversational)
	if err == nil {
		return &Bundle{capability: cap, Mode: ModeConversational}
	}
	e.logger.Warn("conversational load failed, trying text-generation",
		zap.String("model", model), zap.Error(err))

	cap, err2 := e.backend.Load(ctx, model, KindTextGeneration)
	if err2 == nil {
		return &Bundle{capability: cap, Mode: ModeTextGeneration}
	}
	e.logger.Warn("model load failed for both capability kinds",
		zap.String("model", model),
		zap.NamedError("conversational", err),
		zap.NamedError("textGeneration", err2))
	return &Bundle{Mode: ModeUnavailable}
}

// Generate produces a reply to prompt using the bundle cached for model.
// All failures resolve in-band: an unavailable bundle short-circuits to a
// fixed message, a generation error gets exactly one recovery attempt with a
// freshly loaded text-generation capability and a smaller length bound, and
// a still-failing recovery embeds the failure detail in the reply.
func (e *Engine) Generate(ctx context.Context, model, prompt string) string {
	bundle := e.Load(ctx, model)
	if bundle.Mode == ModeUnavailable {
		return MsgModelNotLoaded
	}

	reply, err := bundle.capability.Generate(ctx, prompt, primaryParams)
	if err == nil {
		return orNoReply(reply)
	}
	e.logger.Warn("generation failed, retrying with fresh text-generation capability",
		zap.String("model", model),
		zap.String("mode", string(bundle.Mode)),
		zap.Error(err))

	cap, err := e.backend.Load(ctx, model, KindTextGeneration)
	if err != nil {
		return fmt.Sprintf("Error generating response: %v", err)
	}
	reply, err = cap.Generate(ctx, prompt, recoveryParams)
	if err != nil {
		return fmt.Sprintf("Error generating response: %v", err)
	}
	return orNoReply(reply)
}

func orNoReply(reply string) string {
	if strings.TrimSpace(reply) == "" {
		return MsgNoReply
	}
	return reply
}
