package curator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/forgeflow-dev/taskforge/pkg/codemap"
	"github.com/stretchr/testify/require"
)

type stubCodeMapProvider struct {
	path        string
	stale       bool
	refreshErr  error
	refreshArgs []bool
}

func (s *stubCodeMapProvider) IsStale(projectPath string, maxAge time.Duration) bool { return s.stale }

func (s *stubCodeMapProvider) Refresh(ctx context.Context, projectPath string, force bool, maxAge time.Duration) (codemap.Result, error) {
	s.refreshArgs = append(s.refreshArgs, force)
	if s.refreshErr != nil {
		return codemap.Result{}, s.refreshErr
	}
	return codemap.Result{FilePath: s.path}, nil
}

func TestInitPhaseRejectsPathOutsideAllowedRoot(t *testing.T) {
	root := t.TempDir()
	phase := &initPhase{provider: &stubCodeMapProvider{}, allowedRoot: root}
	st := &State{Request: Request{ProjectPath: "/definitely/outside"}}

	err := phase.Run(context.Background(), st)
	require.Error(t, err)
}

func TestInitPhaseReusesCacheWhenFreshAndRequested(t *testing.T) {
	root := t.TempDir()
	codemapPath := filepath.Join(root, "codemap.md")
	require.NoError(t, os.WriteFile(codemapPath, []byte("# Code Map"), 0o644))

	provider := &stubCodeMapProvider{path: codemapPath, stale: false}
	phase := &initPhase{provider: provider, allowedRoot: root}
	st := &State{Request: Request{ProjectPath: root, UseCodeMapCache: true}}

	require.NoError(t, phase.Run(context.Background(), st))
	require.True(t, st.CodemapCacheUsed)
	require.Equal(t, "# Code Map", st.CodemapContent)
	require.Equal(t, []bool{false}, provider.refreshArgs) // force=false since cache requested and fresh
}

func TestInitPhaseForcesRegenerationWhenCacheNotRequested(t *testing.T) {
	root := t.TempDir()
	codemapPath := filepath.Join(root, "codemap.md")
	require.NoError(t, os.WriteFile(codemapPath, []byte("# Code Map"), 0o644))

	provider := &stubCodeMapProvider{path: codemapPath, stale: false}
	phase := &initPhase{provider: provider, allowedRoot: root}
	st := &State{Request: Request{ProjectPath: root, UseCodeMapCache: false}}

	require.NoError(t, phase.Run(context.Background(), st))
	require.False(t, st.CodemapCacheUsed)
	require.Equal(t, []bool{true}, provider.refreshArgs)
}
