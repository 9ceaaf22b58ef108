package curator

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/forgeflow-dev/taskforge/pkg/coreerrors"
	"github.com/forgeflow-dev/taskforge/pkg/llmgateway"
	"github.com/forgeflow-dev/taskforge/pkg/model"
)

// DefaultMinRelevanceThreshold is the score below which a candidate file is
// dropped entirely.
const DefaultMinRelevanceThreshold = 0.1

// ChunkSize is the candidate-list chunking threshold.
const ChunkSize = 50

// DefaultScoringWorkers bounds Phase 5's concurrent relevance-scoring calls
// absent an explicit config.CurationConfig.ScoringWorkerCount.
const DefaultScoringWorkers = 4

// scoringPhase is Phase 5 — Relevance Scoring.
type scoringPhase struct {
	gateway Gateway
	minThreshold float64
	scoringWorkerCount int
}

func (p *scoringPhase) Name() string { return "relevance_scoring" }

var relevanceScoreSchema = map[string]any{
	"overall": nil, "confidence": nil, "modification_likelihood": nil,
	"reasoning": nil, "categories": nil,
}

func (p *scoringPhase) Run(ctx context.Context, st *State) error {
	threshold := p.minThreshold
	if threshold <= 0 {
		threshold = DefaultMinRelevanceThreshold
	}
	workers := p.scoringWorkerCount
	if workers <= 0 {
		workers = DefaultScoringWorkers
	}

	chunks := chunkFiles(st.Candidates, ChunkSize)
	st.ChunkingUsed = len(st.Candidates) > ChunkSize

	type scored struct {
		path string
		score model.RelevanceScore
		err error
	}
	resultsCh := make(chan scored, len(st.Candidates))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for _, chunk := range chunks {
		chunk := chunk
		for _, file := range chunk {
			file := file
			group.Go(func() error {
				score, err := p.scoreFile(gctx, st, file)
				resultsCh <- scored{path: file.Path, score: score, err: err}
				return nil
			})
		}
	}
	_ = group.Wait()
	close(resultsCh)

	var scoredFiles []ScoredFile
	for r := range resultsCh {
		if r.err != nil {
			st.warn(fmt.Sprintf("relevance scoring failed for %s: %v", r.path, r.err))
			continue
		}
		if r.score.Overall < threshold {
			continue
		}
		scoredFiles = append(scoredFiles, ScoredFile{Path: r.path, Relevance: r.score})
	}

	sort.Slice(scoredFiles, func(i, j int) bool {
		ci := classRank(scoredFiles[i].Relevance.PriorityClass())
		cj := classRank(scoredFiles[j].Relevance.PriorityClass())
		if ci != cj {
			return ci > cj
		}
		return scoredFiles[i].Relevance.Less(&scoredFiles[j].Relevance)
	})

	st.Scored = scoredFiles
	return nil
}

func (p *scoringPhase) scoreFile(ctx context.Context, st *State, file DiscoveredFile) (model.RelevanceScore, error) {
	raw, err := p.gateway.Call(ctx, llmgateway.Request{
		TaskName: "relevance_scoring",
		SystemPrompt: "You estimate how relevant a file is to a refined software engineering prompt, on a 0-1 scale, with reasoning and categories.",
		UserPrompt: fmt.Sprintf("Prompt: %s\nFile: %s\nDiscovery reasoning: %s", st.RefinedPrompt, file.Path, file.Reasoning),
		Format: llmgateway.FormatJSON,
		Schema: relevanceScoreSchema,
	})
	if err != nil {
		return model.RelevanceScore{}, err
	}

	var score model.RelevanceScore
	if jsonErr := json.Unmarshal([]byte(raw), &score); jsonErr != nil {
		return model.RelevanceScore{}, coreerrors.Wrap("curator", coreerrors.KindInvalidModelOutput, "relevance_scoring output is not valid JSON", jsonErr)
	}
	return score, nil
}

func chunkFiles(files []DiscoveredFile, size int) [][]DiscoveredFile {
	if len(files) <= size {
		return [][]DiscoveredFile{files}
	}
	var chunks [][]DiscoveredFile
	for i := 0; i < len(files); i += size {
		end := i + size
		if end > len(files) {
			end = len(files)
		}
		chunks = append(chunks, files[i:end])
	}
	return chunks
}

func classRank(c model.FilePriority) int {
	switch c {
	case model.FilePriorityHigh:
		return 2
	case model.FilePriorityMedium:
		return 1
	default:
		return 0
	}
}
