package curator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/forgeflow-dev/taskforge/pkg/codemap"
	"github.com/forgeflow-dev/taskforge/pkg/coreerrors"
	"github.com/forgeflow-dev/taskforge/pkg/llmgateway"
)

// Gateway is the subset of llmgateway.Gateway this package depends on.
type Gateway interface {
	Call(ctx context.Context, req llmgateway.Request) (string, error)
}

// CodeMapProvider is the subset of codemap.Provider Phase 1 depends on.
type CodeMapProvider interface {
	IsStale(projectPath string, maxAge time.Duration) bool
	Refresh(ctx context.Context, projectPath string, force bool, maxAge time.Duration) (codemap.Result, error)
}

// Phase is one step of the eight-phase pipeline.
type Phase interface {
	Name() string
	Run(ctx context.Context, st *State) error
}

// Pipeline runs its phases sequentially against a single State, in a fixed
// order: each phase's outputs are visible to every phase after it.
type Pipeline struct {
	phases []Phase
	logger *slog.Logger
}

// NewPipeline builds the standard eight-phase pipeline.
func NewPipeline(gateway Gateway, codemapProvider CodeMapProvider, reader FileReader, writer Writer, outputDir string, allowedRoot string) *Pipeline {
	return &Pipeline{
		phases: []Phase{
			&initPhase{provider: codemapProvider, allowedRoot: allowedRoot},
			&intentPhase{gateway: gateway},
			&refinePhase{gateway: gateway},
			&discoveryPhase{gateway: gateway},
			&scoringPhase{gateway: gateway},
			&metaPromptPhase{gateway: gateway},
			&assemblyPhase{reader: reader},
			&outputPhase{writer: writer, outputDir: outputDir},
		},
		logger: slog.Default().With("component", "curator"),
	}
}

// Run executes every phase in order against req, returning the finished
// State (including a partially-filled one on failure, so already-completed
// phases' outputs are retained for diagnosis).
func (p *Pipeline) Run(ctx context.Context, req Request) (*State, error) {
	st := &State{Request: req, StartedAt: time.Now()}

	for _, phase := range p.phases {
		if err := ctx.Err(); err != nil {
			return st, coreerrors.Wrap("curator", coreerrors.KindCancelled, "pipeline cancelled before phase "+phase.Name(), err)
		}
		p.logger.Info("phase starting", "phase", phase.Name(), "job_id", req.JobID)
		if err := phase.Run(ctx, st); err != nil {
			p.logger.Error("phase failed", "phase", phase.Name(), "job_id", req.JobID, "error", err)
			return st, fmt.Errorf("phase %s: %w", phase.Name(), err)
		}
	}
	return st, nil
}
