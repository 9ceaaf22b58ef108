package curator

import (
	"context"
	"os"
	"time"

	"github.com/forgeflow-dev/taskforge/pkg/artifact"
	"github.com/forgeflow-dev/taskforge/pkg/coreerrors"
	"github.com/forgeflow-dev/taskforge/pkg/model"
)

// initPhase is Phase 1 — Initialization: validate the project
// path is under the allowed root, then either reuse a fresh cached code map
// or invoke Component B's generate. Produces {codemapPath, codemapContent}.
type initPhase struct {
	provider CodeMapProvider
	allowedRoot string
}

func (p *initPhase) Name() string { return "initialization" }

func (p *initPhase) Run(ctx context.Context, st *State) error {
	resolved, err := artifact.ResolveUnderRoot(p.allowedRoot, st.Request.ProjectPath)
	if err != nil {
		return coreerrors.Wrap("curator", coreerrors.KindInvalidInput, "project path is not under the allowed root", err)
	}

	maxAge := model.DefaultCodeMapMaxAge
	if st.Request.CacheMaxAgeMinutes > 0 {
		maxAge = time.Duration(st.Request.CacheMaxAgeMinutes) * time.Minute
	}

	force := !st.Request.UseCodeMapCache
	st.CodemapCacheUsed = st.Request.UseCodeMapCache && !p.provider.IsStale(resolved, maxAge)

	result, err := p.provider.Refresh(ctx, resolved, force, maxAge)
	if err != nil {
		return coreerrors.Wrap("curator", coreerrors.KindProviderUnavailable, "code map generation failed", err)
	}

	content, err := os.ReadFile(result.FilePath)
	if err != nil {
		return coreerrors.Wrap("curator", coreerrors.KindInternal, "reading generated code map", err)
	}

	st.CodemapPath = result.FilePath
	st.CodemapContent = string(content)
	return nil
}
