package artifact

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/forgeflow-dev/taskforge/pkg/model"
)

// TaskListInfo describes a discovered task-list file.
type TaskListInfo struct {
	FilePath string
	Name string
	CreatedAt time.Time
	ListType string
	FoundAt time.Time
}

// TaskListData is the structured view parsed out of a task-list markdown
// file.
type TaskListData struct {
	Name string
	Tasks []TaskListEntry
}

// TaskListEntry is one `- [ ] <title>` line (optionally nested under a
// phase heading) parsed out of a task-list file.
type TaskListEntry struct {
	Title string
	Description string
	Phase string
	Done bool
}

// taskListFileRE matches the fixed file-name convention:
// "YYYY-MM-DDTHH-mm-ss-sssZ-<project-slug>-task-list-<type>.md".
var taskListFileRE = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}-\d{3}Z)-(.+)-task-list-(\w+)\.md$`)

// DetectExistingTaskList scans root for the most-recently modified task-list
// file, optionally filtered to one whose project slug mentions projectName.
func DetectExistingTaskList(root, projectName string) (*TaskListInfo, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var best *TaskListInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, ok := parseTaskListFileName(entry.Name())
		if !ok {
			continue
		}
		if projectName != "" && !strings.Contains(strings.ToLower(info.Name), strings.ToLower(projectName)) {
			continue
		}
		stat, statErr := entry.Info()
		if statErr != nil {
			continue
		}
		info.FilePath = filepath.Join(root, entry.Name())
		info.FoundAt = stat.ModTime()
		if best == nil || info.FoundAt.After(best.FoundAt) {
			best = &info
		}
	}
	return best, nil
}

// parseTaskListFileName recovers metadata from the task-list naming
// convention, falling back to {name = basename minus suffix, createdAt =
// now, listType = detailed} when the name does not match.
func parseTaskListFileName(name string) (TaskListInfo, bool) {
	if !strings.HasSuffix(strings.ToLower(name), ".md") {
		return TaskListInfo{}, false
	}
	if m := taskListFileRE.FindStringSubmatch(name); m != nil {
		createdAt, err := time.Parse("2006-01-02T15-04-05.000Z", m[1][:19]+"."+m[1][20:])
		if err != nil {
			createdAt = time.Now()
		}
		return TaskListInfo{Name: m[2], CreatedAt: createdAt, ListType: m[3]}, true
	}
	return TaskListInfo{
		Name: strings.TrimSuffix(name, filepath.Ext(name)),
		CreatedAt: time.Now(),
		ListType: "detailed",
	}, true
}

var phaseHeadingRE = regexp.MustCompile(`^#{1,3}\s+(.+)$`)
var taskLineRE = regexp.MustCompile(`^[-*]\s+\[( |x|X)\]\s+(.+)$`)

// ParseTaskList parses path (resolved under root) into a TaskListData.
// Malformed input yields an empty TaskListData rather than an error.
func ParseTaskList(root, path string) (TaskListData, error) {
	resolved, err := ResolveUnderRoot(root, path)
	if err != nil {
		return TaskListData{}, err
	}
	raw, err := os.ReadFile(resolved)
	if err != nil {
		return TaskListData{}, err
	}

	data := TaskListData{Name: strings.TrimSuffix(filepath.Base(resolved), filepath.Ext(resolved))}
	phase := ""
	for _, line := range strings.Split(string(raw), "\n") {
		if m := phaseHeadingRE.FindStringSubmatch(line); m != nil {
			phase = strings.TrimSpace(m[1])
			continue
		}
		if m := taskLineRE.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			data.Tasks = append(data.Tasks, TaskListEntry{
				Title: strings.TrimSpace(m[2]),
				Phase: phase,
				Done: strings.EqualFold(m[1], "x"),
			})
		}
	}
	return data, nil
}

// ConvertToAtomicTasks converts a parsed task list into AtomicTask records
// attributed to projectID/epicID/createdBy. Each produced task
// gets a fresh id, status pending (completed for checked entries), medium
// priority, development type and a 1-hour estimate, leaving downstream
// decomposition to refine them.
func ConvertToAtomicTasks(data TaskListData, projectID, epicID, createdBy string) []model.AtomicTask {
	now := time.Now()
	tasks := make([]model.AtomicTask, 0, len(data.Tasks))
	for i, entry := range data.Tasks {
		status := model.TaskStatusPending
		if entry.Done {
			status = model.TaskStatusCompleted
		}
		task := model.AtomicTask{
			ID: uuid.NewString(),
			Title: entry.Title,
			Description: descriptionFor(entry),
			Status: status,
			Priority: model.TaskPriorityMedium,
			Type: model.TaskTypeDevelopment,

			EstimatedHours: 1.0,

			ProjectID: projectID,
			EpicID: epicID,

			CreatedAt: now,
			UpdatedAt: now,
			CreatedBy: createdBy,
		}
		if entry.Phase != "" {
			task.Tags = append(task.Tags, "phase:"+phaseSlug(entry.Phase))
		}
		task.Metadata = map[string]any{"source_index": i, "source": "task_list_import"}
		tasks = append(tasks, task)
	}
	return tasks
}

func descriptionFor(entry TaskListEntry) string {
	if entry.Description != "" {
		return entry.Description
	}
	if entry.Phase != "" {
		return "Imported from task list, phase: " + entry.Phase
	}
	return "Imported from task list"
}

func phaseSlug(phase string) string {
	lower := strings.ToLower(strings.TrimSpace(phase))
	var b strings.Builder
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('-')
		}
	}
	return b.String()
}

