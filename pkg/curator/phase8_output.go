package curator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/forgeflow-dev/taskforge/pkg/coreerrors"
	"github.com/forgeflow-dev/taskforge/pkg/model"
)

// outputSubdir is where finished context packages are written, mirroring
// the project's other VibeCoderOutput/<component>/ artifact directories.
const outputSubdir = "VibeCoderOutput/context-curator"

// OutputSummary is the result Pipeline.Run's caller reports back.
type OutputSummary struct {
	JobID string
	TotalFiles int
	TotalTokens int
	AverageRelevanceScore float64
	CacheHitRate float64
	ProcessingTimeMs int64
	OutputPath string
}

// outputPhase is Phase 8 — Output Generation: serialize the
// assembled package, gzip-compress it above a size threshold, and write it
// under outputDir.
type outputPhase struct {
	writer Writer
	outputDir string
}

func (p *outputPhase) Name() string { return "output_generation" }

func (p *outputPhase) Run(ctx context.Context, st *State) error {
	pkg := st.Package
	if pkg == nil {
		return coreerrors.New("curator", coreerrors.KindInternal, "package assembly did not produce a package")
	}

	format := st.Request.OutputFormat
	if format == "" {
		format = model.OutputFormatXML
	}

	processingTime := time.Since(st.StartedAt)
	pkg.Metadata = model.ContextPackageMetadata{
		JobID: st.Request.JobID,
		CreatedAt: st.StartedAt,
		TaskType: st.Request.TaskType,
		TotalFiles: len(pkg.HighPriorityFiles) + len(pkg.MediumPriorityFiles) + len(pkg.LowPriorityFiles),
		TotalTokens: pkg.TotalTokenEstimate(),
		AverageRelevance: averageRelevance(st.Scored),
		CacheHitRate: cacheHitRate(st.CodemapCacheUsed),
		ProcessingTime: processingTime,
		CodemapCacheUsed: st.CodemapCacheUsed,
		Warnings: st.Warnings,
	}

	data, ext, err := p.writer.Marshal(pkg, format)
	if err != nil {
		return coreerrors.Wrap("curator", coreerrors.KindInternal, "serializing context package", err)
	}

	if len(data) > GzipCompressionThreshold {
		compressed, err := gzipCompress(data)
		if err != nil {
			return coreerrors.Wrap("curator", coreerrors.KindInternal, "gzip-compressing context package", err)
		}
		data = compressed
		ext = ext + ".gz"
	}

	dir := filepath.Join(p.outputDir, outputSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return coreerrors.Wrap("curator", coreerrors.KindInternal, "creating output directory", err)
	}

	outputPath := filepath.Join(dir, fmt.Sprintf("context-package-%s.%s", st.Request.JobID, ext))
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return coreerrors.Wrap("curator", coreerrors.KindInternal, "writing context package", err)
	}

	st.OutputPath = outputPath
	return nil
}

func averageRelevance(scored []ScoredFile) float64 {
	if len(scored) == 0 {
		return 0
	}
	total := 0.0
	for _, sf := range scored {
		total += sf.Relevance.Overall
	}
	return total / float64(len(scored))
}

func cacheHitRate(hit bool) float64 {
	if hit {
		return 1.0
	}
	return 0.0
}
