package decompose

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/forgeflow-dev/taskforge/pkg/coreerrors"
	"github.com/forgeflow-dev/taskforge/pkg/llmgateway"
	"github.com/forgeflow-dev/taskforge/pkg/model"
)

// MinDescriptionLength and MaxDependencies are the atomicity-predicate
// constants step 2 ("description length ≥ 20 ∧
// dependencies.length ≤ 5").
const (
	MinDescriptionLength = 20
	MaxDependencies = 5
)

// EpicContextResolver resolves a project to the epic its decomposed tasks
// should be filed under.
type EpicContextResolver interface {
	ResolveEpic(ctx context.Context, projectID string) (string, error)
}

// Gateway is the subset of llmgateway.Gateway this package depends on.
type Gateway interface {
	Call(ctx context.Context, req llmgateway.Request) (string, error)
}

// Request starts a new decomposition.
type Request struct {
	Task model.AtomicTask
	ProjectContext model.ProjectContext
	Options model.DecompositionOptions
	CreatedBy string
}

// Manager owns the live sessions a Decomposition Engine is tracking.
// Grounded on pkg/session's registry-of-sessions idiom (a map guarded by a
// mutex, entries observed only through Clone()/Snapshot()).
type Manager struct {
	gateway Gateway
	epicResolver EpicContextResolver
	maxConcurrentSplits int

	mu sync.RWMutex
	sessions map[string]*Session

	logger *slog.Logger
}

// NewManager builds a Manager. maxConcurrentSplits <= 0 disables fan-out
// concurrency (subtasks recurse sequentially).
func NewManager(gateway Gateway, epicResolver EpicContextResolver, maxConcurrentSplits int) *Manager {
	return &Manager{
		gateway: gateway,
		epicResolver: epicResolver,
		maxConcurrentSplits: maxConcurrentSplits,
		sessions: make(map[string]*Session),
		logger: slog.Default().With("component", "decompose"),
	}
}

// StartDecomposition creates a session for req and runs the recursive
// decomposition in the background.
func (m *Manager) StartDecomposition(ctx context.Context, req Request) *Session {
	session := newSession(uuid.NewString(), req.Task, req.ProjectContext, req.Options)

	m.mu.Lock()
	m.sessions[session.id] = session
	m.mu.Unlock()

	go m.run(ctx, session, req)
	return session
}

func (m *Manager) run(ctx context.Context, session *Session, req Request) {
	session.SetStatus(model.SessionStatusInProgress)
	m.logger.Info("decomposition started", "session_id", session.id, "task_id", req.Task.ID)

	results, err := m.decompose(ctx, session, req.Task, 0, req.Options)
	if err != nil {
		if session.IsCancelled() {
			m.logger.Info("decomposition cancelled", "session_id", session.id)
			session.SetError("cancelled")
			return
		}
		m.logger.Error("decomposition failed", "session_id", session.id, "error", err)
		session.SetError(err.Error())
		return
	}
	m.logger.Info("decomposition completed", "session_id", session.id, "results", len(results))
	session.SetResults(results)
}

// GetSession returns a snapshot of the session identified by id.
func (m *Manager) GetSession(id string) (model.DecompositionSession, bool) {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return model.DecompositionSession{}, false
	}
	return session.Snapshot(), true
}

// Cancel flags the session identified by id cancelled, if it exists.
func (m *Manager) Cancel(id string) bool {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	session.Cancel()
	return true
}

// decompose is the recursive procedure .
func (m *Manager) decompose(ctx context.Context, session *Session, task model.AtomicTask, depth int, opts model.DecompositionOptions) ([]model.DecompositionResult, error) {
	if session.IsCancelled() {
		return nil, coreerrors.New("decompose", coreerrors.KindCancelled, "decomposition cancelled")
	}

	if depth >= opts.MaxDepth || (task.EstimatedHours <= opts.MaxHours && !opts.ForceDecomposition) {
		return []model.DecompositionResult{{Parent: task, SubTasks: []model.AtomicTask{task}, Depth: depth}}, nil
	}

	if isAtomic(task, opts) && !opts.ForceDecomposition {
		return []model.DecompositionResult{{Parent: task, SubTasks: []model.AtomicTask{task}, Depth: depth}}, nil
	}

	subTasks, err := m.splitWithRetry(ctx, task, session.projectContext)
	if err != nil {
		return nil, err
	}

	if len(subTasks) == 0 {
		// Empty sub-task list from the model: treat as atomic.
		return []model.DecompositionResult{{Parent: task, SubTasks: []model.AtomicTask{task}, Depth: depth}}, nil
	}

	materialized, err := m.materialize(ctx, task, subTasks, session.projectContext.ProjectID, opts)
	if err != nil {
		return nil, err
	}

	results := []model.DecompositionResult{{Parent: task, SubTasks: materialized, Depth: depth}}

	childResults, err := m.recurseOnSubtasks(ctx, session, materialized, depth+1, opts)
	if err != nil {
		return nil, err
	}
	results = append(results, childResults...)

	return results, nil
}

// recurseOnSubtasks recurses on each sub-task, bounded by
// maxConcurrentSplits, accumulating results in pre-order.
func (m *Manager) recurseOnSubtasks(ctx context.Context, session *Session, subTasks []model.AtomicTask, depth int, opts model.DecompositionOptions) ([]model.DecompositionResult, error) {
	ordered := make([][]model.DecompositionResult, len(subTasks))

	group, gctx := errgroup.WithContext(ctx)
	limit := m.maxConcurrentSplits
	if limit <= 0 {
		limit = 1
	}
	group.SetLimit(limit)

	for i, sub := range subTasks {
		i, sub := i, sub
		group.Go(func() error {
			childResults, err := m.decompose(gctx, session, sub, depth, opts)
			if err != nil {
				return err
			}
			ordered[i] = childResults
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	var out []model.DecompositionResult
	for _, r := range ordered {
		out = append(out, r...)
	}
	return out, nil
}

// isAtomic computes its predicate: "atomic ⇔ estimatedHours ∈ [minHours,
// maxHours] ∧ acceptanceCriteria nonempty ∧ description length ≥ 20 ∧
// dependencies.length ≤ 5".
func isAtomic(task model.AtomicTask, opts model.DecompositionOptions) bool {
	return task.EstimatedHours >= opts.MinHours &&
		task.EstimatedHours <= opts.MaxHours &&
		len(task.AcceptanceCriteria) > 0 &&
		len(task.Description) >= MinDescriptionLength &&
		len(task.Dependencies) <= MaxDependencies
}

// subTaskSpec is the shape the LLM returns for one generated sub-task.
type subTaskSpec struct {
	Title string `json:"title"`
	Description string `json:"description"`
	Type string `json:"type"`
	Priority string `json:"priority"`
	EstimatedHours float64 `json:"estimatedHours"`
	AcceptanceCriteria []string `json:"acceptanceCriteria"`
	FilePaths []string `json:"filePaths"`
	Dependencies []string `json:"dependencies"`
}

type decompositionResponse struct {
	SubTasks []subTaskSpec `json:"subTasks"`
}

var decompositionSchema = map[string]any{"subTasks": nil}

// splitWithRetry calls the LLM Gateway for task_decomposition, retrying
// once with a stricter prompt if the first response contains a dependency
// cycle.
func (m *Manager) splitWithRetry(ctx context.Context, task model.AtomicTask, projectContext model.ProjectContext) ([]subTaskSpec, error) {
	subTasks, err := m.split(ctx, task, projectContext, false)
	if err != nil {
		return nil, err
	}
	if !hasCycle(subTasks) {
		return subTasks, nil
	}

	m.logger.Warn("dependency cycle in generated sub-tasks, retrying with stricter prompt", "task_id", task.ID)
	subTasks, err = m.split(ctx, task, projectContext, true)
	if err != nil {
		return nil, err
	}
	if hasCycle(subTasks) {
		m.logger.Warn("dependency cycle persisted after retry, falling back to leaf", "task_id", task.ID)
		return nil, nil // second cycle: leaf fallback via the empty-list path
	}
	return subTasks, nil
}

func (m *Manager) split(ctx context.Context, task model.AtomicTask, projectContext model.ProjectContext, strict bool) ([]subTaskSpec, error) {
	temperature := 0.1
	systemPrompt := decompositionSystemPrompt
	if strict {
		systemPrompt += "\nThe previous attempt produced a dependency cycle. Ensure the dependencies array never forms a cycle between the returned sub-tasks."
	}

	raw, err := m.gateway.Call(ctx, llmgateway.Request{
		TaskName: "task_decomposition",
		SystemPrompt: systemPrompt,
		UserPrompt: decompositionUserPrompt(task, projectContext),
		Format: llmgateway.FormatJSON,
		Temperature: &temperature,
		Schema: decompositionSchema,
	})
	if err != nil {
		return nil, err
	}

	var resp decompositionResponse
	if jsonErr := json.Unmarshal([]byte(raw), &resp); jsonErr != nil {
		return nil, coreerrors.Wrap("decompose", coreerrors.KindInvalidModelOutput, "task_decomposition output is not valid JSON", jsonErr)
	}
	return resp.SubTasks, nil
}

const decompositionSystemPrompt = `You split a software engineering task into smaller sub-tasks.
Respond with a single JSON object: {"subTasks": [{"title", "description", "type", "priority", "estimatedHours", "acceptanceCriteria": [], "filePaths": [], "dependencies": []}]}.
Return an empty subTasks array if the task cannot be usefully split further.`

func decompositionUserPrompt(task model.AtomicTask, projectContext model.ProjectContext) string {
	return fmt.Sprintf("Task: %s\nDescription: %s\nEstimated hours: %.1f\nProject: %s",
		task.Title, task.Description, task.EstimatedHours, projectContext.ProjectID)
}

// materialize fills each generated sub-task spec into a full AtomicTask,
// filling defaults from the parent and resolving epicId.
func (m *Manager) materialize(ctx context.Context, parent model.AtomicTask, specs []subTaskSpec, projectID string, opts model.DecompositionOptions) ([]model.AtomicTask, error) {
	epicID := parent.EpicID
	if m.epicResolver != nil {
		resolved, err := m.epicResolver.ResolveEpic(ctx, projectID)
		if err == nil && resolved != "" {
			epicID = resolved
		}
	}

	maxHours := min(parent.EstimatedHours, opts.MaxHours)

	now := time.Now()
	tasks := make([]model.AtomicTask, 0, len(specs))
	for i, spec := range specs {
		hours := spec.EstimatedHours
		if hours > maxHours {
			// Clamp and attach a warning entity.
			hours = maxHours
		}

		task := model.AtomicTask{
			ID: model.SubTaskID(parent.ID, i+1),
			Title: spec.Title,
			Description: spec.Description,
			Status: model.TaskStatusPending,
			Priority: priorityOrDefault(spec.Priority),
			Type: typeOrDefault(spec.Type),
			EstimatedHours: hours,
			ProjectID: projectID,
			EpicID: epicID,
			Dependencies: spec.Dependencies,
			FilePaths: spec.FilePaths,
			AcceptanceCriteria: spec.AcceptanceCriteria,
			CreatedAt: now,
			UpdatedAt: now,
			CreatedBy: parent.CreatedBy,
		}
		if spec.EstimatedHours > maxHours {
			task.Metadata = map[string]any{"warning": "estimated_hours clamped to parent's remaining budget"}
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func priorityOrDefault(priority string) model.TaskPriority {
	p := model.TaskPriority(priority)
	if p.IsValid() {
		return p
	}
	return model.TaskPriorityMedium
}

func typeOrDefault(taskType string) model.TaskType {
	t := model.TaskType(taskType)
	if t.IsValid() {
		return t
	}
	return model.TaskTypeDevelopment
}

// hasCycle reports whether specs' dependencies (matched by title, since
// generated sub-tasks have no id yet at this point) contain a cycle.
func hasCycle(specs []subTaskSpec) bool {
	byTitle := make(map[string]subTaskSpec, len(specs))
	for _, s := range specs {
		byTitle[s.Title] = s
	}

	const (
		unvisited = 0
		visiting = 1
		done = 2
	)
	state := make(map[string]int, len(specs))

	var visit func(title string) bool
	visit = func(title string) bool {
		switch state[title] {
		case visiting:
			return true
		case done:
			return false
		}
		state[title] = visiting
		for _, dep := range byTitle[title].Dependencies {
			if _, ok := byTitle[dep]; ok && visit(dep) {
				return true
			}
		}
		state[title] = done
		return false
	}

	for _, s := range specs {
		if visit(s.Title) {
			return true
		}
	}
	return false
}
