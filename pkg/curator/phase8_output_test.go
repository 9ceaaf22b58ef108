package curator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/forgeflow-dev/taskforge/pkg/model"
	"github.com/stretchr/testify/require"
)

func TestOutputPhaseWritesFileUnderOutputDir(t *testing.T) {
	dir := t.TempDir()
	phase := &outputPhase{writer: DefaultWriter{}, outputDir: dir}
	st := &State{
		Request: Request{JobID: "job-xyz"},
		Package: &model.ContextPackage{RefinedPrompt: "do it"},
	}

	require.NoError(t, phase.Run(context.Background(), st))
	require.FileExists(t, st.OutputPath)
	require.Equal(t, filepath.Join(dir, outputSubdir, "context-package-job-xyz.xml"), st.OutputPath)
}

func TestOutputPhaseGzipCompressesLargePackages(t *testing.T) {
	dir := t.TempDir()
	large := &largeWriter{}
	phase := &outputPhase{writer: large, outputDir: dir}
	st := &State{
		Request: Request{JobID: "job-big"},
		Package: &model.ContextPackage{RefinedPrompt: "do it"},
	}

	require.NoError(t, phase.Run(context.Background(), st))
	require.True(t, filepath.Ext(st.OutputPath) == ".gz")
	data, err := os.ReadFile(st.OutputPath)
	require.NoError(t, err)
	require.NotEmpty(t, data)
}

func TestOutputPhaseFailsWithoutAssembledPackage(t *testing.T) {
	dir := t.TempDir()
	phase := &outputPhase{writer: DefaultWriter{}, outputDir: dir}
	st := &State{Request: Request{JobID: "job-none"}}

	require.Error(t, phase.Run(context.Background(), st))
}

type largeWriter struct{}

func (largeWriter) Marshal(pkg *model.ContextPackage, format model.OutputFormat) ([]byte, string, error) {
	return make([]byte, GzipCompressionThreshold+1), "xml", nil
}
