// Package codemap provides on-demand, cached markdown code maps for a
// project path plus deterministic parsed views of them.
package codemap

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/forgeflow-dev/taskforge/pkg/coreerrors"
	"github.com/forgeflow-dev/taskforge/pkg/model"
)

// EventType enumerates the notifications subscribe delivers.
type EventType string

const (
	EventGenerated EventType = "generated"
	EventRefreshed EventType = "refreshed"
	EventValidated EventType = "validated"
	EventError EventType = "error"
)

// Event is a single notification fired to subscribers of a project path.
type Event struct {
	Type EventType
	ProjectPath string
	Timestamp time.Time
	Data *model.CodeMapInfo
	Err error
}

// Generator is the external collaborator that produces a code map for a
// project, shaped like mcp.Client's CallTool contract: it is
// handed a tool name and arguments and returns free-form text output.
type Generator interface {
	CallTool(ctx context.Context, toolName string, args map[string]any) (string, error)
}

// Result is the outcome of a successful generate.
type Result struct {
	FilePath string
	GenerationTime time.Duration
	JobID string
}

// GenerateConfig overrides the default generator invocation.
type GenerateConfig struct {
	ToolName string
	MaxAge time.Duration
}

const defaultToolName = "generate_code_map"

// outputPathREs extracts the produced file path from the generator's free
// text output.
var outputPathREs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Generated code map:\s*(\S+)`),
	regexp.MustCompile(`(?i)\*\*Output saved to:\*\*\s*(\S+)`),
	regexp.MustCompile(`(?i)Output file:\s*(\S+)`),
	regexp.MustCompile(`(?i)Code map written to\s*(\S+)`),
}

// Provider is the process-wide Code-Map Provider. The in-memory
// cache mirrors its WorkerPool.activeSessions shape; per-project
// generation is serialized with a sync.Map of mutexes, the same pattern
// pkg/mcp/client.go uses for its per-server reinitMu.
type Provider struct {
	OutputDir string
	Generator Generator

	mu sync.RWMutex
	cache map[string]*model.CodeMapInfo

	genLocks sync.Map // projectPath -> *sync.Mutex

	subMu sync.Mutex
	subs map[string][]chan Event

	logger *slog.Logger
}

// New builds a Provider that writes/reads code maps under outputDir.
func New(outputDir string, gen Generator) *Provider {
	return &Provider{
		OutputDir: outputDir,
		Generator: gen,
		cache: make(map[string]*model.CodeMapInfo),
		subs: make(map[string][]chan Event),
		logger: slog.Default().With("component", "codemap"),
	}
}

func (p *Provider) lockFor(projectPath string) *sync.Mutex {
	actual, _ := p.genLocks.LoadOrStore(projectPath, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// DetectExisting scans OutputDir for the most-recent .md file whose
// header/first-20-lines mention the absolute project path or its basename
//. It never returns a path outside OutputDir.
func (p *Provider) DetectExisting(projectPath string) (*model.CodeMapInfo, error) {
	absProject, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, coreerrors.Wrap("codemap", coreerrors.KindInvalidInput, "resolving project path", err)
	}
	base := filepath.Base(absProject)

	entries, err := os.ReadDir(p.OutputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, coreerrors.Wrap("codemap", coreerrors.KindInternal, "reading code-map output directory", err)
	}

	var best *model.CodeMapInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		full := filepath.Join(p.OutputDir, entry.Name())
		if !pathIsUnder(p.OutputDir, full) {
			continue
		}
		if !headerMentions(full, absProject, base) {
			continue
		}
		info, statErr := os.Stat(full)
		if statErr != nil {
			continue
		}
		candidate := &model.CodeMapInfo{
			FilePath: full,
			GeneratedAt: info.ModTime(),
			ProjectPath: absProject,
			FileSize: info.Size(),
		}
		if best == nil || candidate.GeneratedAt.After(best.GeneratedAt) {
			best = candidate
		}
	}
	return best, nil
}

func pathIsUnder(root, candidate string) bool {
	rel, err := filepath.Rel(root, candidate)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(rel, "..")
}

func headerMentions(path, absProject, base string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for i := 0; i < 20 && scanner.Scan(); i++ {
		line := scanner.Text()
		if strings.Contains(line, absProject) || strings.Contains(line, base) {
			return true
		}
	}
	return false
}

// IsStale returns true if no map exists for projectPath or its age exceeds
// maxAge. maxAge <= 0 uses model.DefaultCodeMapMaxAge.
func (p *Provider) IsStale(projectPath string, maxAge time.Duration) bool {
	absProject, err := filepath.Abs(projectPath)
	if err != nil {
		return true
	}
	p.mu.RLock()
	info := p.cache[absProject]
	p.mu.RUnlock()
	if info == nil {
		existing, _ := p.DetectExisting(projectPath)
		if existing == nil {
			return true
		}
		info = existing
	}
	return info.IsStale(time.Now(), maxAge)
}

// Generate invokes the external generator, extracts the produced file path,
// and updates the cache on success. Per-project generation is
// serialized.
func (p *Provider) Generate(ctx context.Context, projectPath string, cfg GenerateConfig) (Result, error) {
	absProject, err := filepath.Abs(projectPath)
	if err != nil {
		return Result{}, coreerrors.Wrap("codemap", coreerrors.KindInvalidInput, "resolving project path", err)
	}

	lock := p.lockFor(absProject)
	lock.Lock()
	defer lock.Unlock()

	toolName := cfg.ToolName
	if toolName == "" {
		toolName = defaultToolName
	}

	start := time.Now()
	output, err := p.Generator.CallTool(ctx, toolName, map[string]any{"project_path": absProject})
	elapsed := time.Since(start)
	if err != nil {
		wrapped := coreerrors.Wrap("codemap", coreerrors.KindProviderUnavailable, "code-map generation failed", err)
		p.publish(absProject, Event{Type: EventError, ProjectPath: absProject, Timestamp: time.Now(), Err: wrapped})
		return Result{}, wrapped
	}

	filePath := extractOutputPath(output)
	if filePath == "" {
		wrapped := coreerrors.New("codemap", coreerrors.KindInvalidModelOutput, "generator output did not contain a recognizable output path")
		p.publish(absProject, Event{Type: EventError, ProjectPath: absProject, Timestamp: time.Now(), Err: wrapped})
		return Result{}, wrapped
	}
	if !pathIsUnder(p.OutputDir, filePath) {
		wrapped := coreerrors.New("codemap", coreerrors.KindInvalidModelOutput, fmt.Sprintf("generator output path %q escapes the configured output directory", filePath))
		p.publish(absProject, Event{Type: EventError, ProjectPath: absProject, Timestamp: time.Now(), Err: wrapped})
		return Result{}, wrapped
	}

	info := &model.CodeMapInfo{
		FilePath: filePath,
		GeneratedAt: time.Now(),
		ProjectPath: absProject,
	}
	if stat, statErr := os.Stat(filePath); statErr == nil {
		info.FileSize = stat.Size()
	}

	p.mu.Lock()
	p.cache[absProject] = info
	p.mu.Unlock()

	jobID := fmt.Sprintf("codemap-%d", start.UnixNano())
	p.publish(absProject, Event{Type: EventGenerated, ProjectPath: absProject, Timestamp: time.Now(), Data: info})

	return Result{FilePath: filePath, GenerationTime: elapsed, JobID: jobID}, nil
}

// Refresh is a no-op if the cached map is fresh and force is false;
// otherwise it regenerates.
func (p *Provider) Refresh(ctx context.Context, projectPath string, force bool, maxAge time.Duration) (Result, error) {
	if !force && !p.IsStale(projectPath, maxAge) {
		p.mu.RLock()
		info := p.cache[mustAbs(projectPath)]
		p.mu.RUnlock()
		if info != nil {
			return Result{FilePath: info.FilePath}, nil
		}
	}
	result, err := p.Generate(ctx, projectPath, GenerateConfig{MaxAge: maxAge})
	if err == nil {
		p.publish(mustAbs(projectPath), Event{Type: EventRefreshed, ProjectPath: mustAbs(projectPath), Timestamp: time.Now(), Data: &model.CodeMapInfo{FilePath: result.FilePath}})
	}
	return result, err
}

func mustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func extractOutputPath(output string) string {
	for _, re := range outputPathREs {
		if m := re.FindStringSubmatch(output); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// Subscribe registers channel delivery for projectPath, adapted from
// pkg/events/manager.go's channels map[string]map[string]bool bookkeeping —
// delivering typed Event values over a Go channel rather than a WebSocket
// frame. The returned func unsubscribes and closes the channel.
func (p *Provider) Subscribe(projectPath string) (<-chan Event, func()) {
	abs := mustAbs(projectPath)
	ch := make(chan Event, 8)

	p.subMu.Lock()
	p.subs[abs] = append(p.subs[abs], ch)
	p.subMu.Unlock()

	unsubscribe := func() {
		p.subMu.Lock()
		defer p.subMu.Unlock()
		chans := p.subs[abs]
		for i, c := range chans {
			if c == ch {
				p.subs[abs] = append(chans[:i], chans[i+1:]...)
				break
			}
		}
		close(ch)
	}
	return ch, unsubscribe
}

// publish snapshots the subscriber list under a brief lock, then sends
// without holding it — mirroring ConnectionManager.Broadcast's
// lock-then-release-then-send discipline so a slow subscriber cannot stall
// generation.
func (p *Provider) publish(projectPath string, evt Event) {
	p.subMu.Lock()
	chans := make([]chan Event, len(p.subs[projectPath]))
	copy(chans, p.subs[projectPath])
	p.subMu.Unlock()

	for _, ch := range chans {
		select {
		case ch <- evt:
		default:
			p.logger.Warn("dropping code-map event, subscriber channel full", "project_path", projectPath, "type", evt.Type)
		}
	}
}
