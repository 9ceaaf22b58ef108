package artifact

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// PRDInfo describes a discovered PRD file.
type PRDInfo struct {
	FilePath string
	Name string
	FoundAt time.Time
}

// PRDData is the structured view parsed out of a PRD markdown file.
type PRDData struct {
	Features []string
	Goals []string
	TechStack []string
	Phases []string
	Tasks []string
	Stats PRDStats
}

// PRDStats summarizes the parsed PRD.
type PRDStats struct {
	FeatureCount int
	GoalCount int
	PhaseCount int
	TaskCount int
}

var prdFileRE = regexp.MustCompile(`(?i)(^|[-_])prd([-_.]|$)`)

// DetectExistingPRD scans root for the most-recently modified markdown file
// whose name matches a PRD naming convention, optionally filtered to one
// mentioning projectName. Returns nil, nil when none is found — never an
// error for "not found".
func DetectExistingPRD(root, projectName string) (*PRDInfo, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var best *PRDInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".md") {
			continue
		}
		if !prdFileRE.MatchString(entry.Name()) {
			continue
		}
		if projectName != "" && !strings.Contains(strings.ToLower(entry.Name()), strings.ToLower(projectName)) {
			continue
		}
		info, statErr := entry.Info()
		if statErr != nil {
			continue
		}
		candidate := &PRDInfo{
			FilePath: filepath.Join(root, entry.Name()),
			Name: entry.Name(),
			FoundAt: info.ModTime(),
		}
		if best == nil || candidate.FoundAt.After(best.FoundAt) {
			best = candidate
		}
	}
	return best, nil
}

var prdSectionRE = regexp.MustCompile(`^#{1,3}\s+(.+)$`)
var bulletRE = regexp.MustCompile(`^[-*]\s+(.+)$`)

func prdSectionMode(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	switch {
	case strings.Contains(h, "feature"):
		return "features"
	case strings.Contains(h, "goal"), strings.Contains(h, "objective"):
		return "goals"
	case strings.Contains(h, "tech stack"), strings.Contains(h, "technology"):
		return "tech_stack"
	case strings.Contains(h, "phase"):
		return "phases"
	case strings.Contains(h, "task"):
		return "tasks"
	default:
		return ""
	}
}

// ParsePRD parses path (resolved under root via ResolveUnderRoot) into a
// PRDData. Malformed or unrecognized sections yield an empty PRDData rather
// than an error.
func ParsePRD(root, path string) (PRDData, error) {
	resolved, err := ResolveUnderRoot(root, path)
	if err != nil {
		return PRDData{}, err
	}
	raw, err := os.ReadFile(resolved)
	if err != nil {
		return PRDData{}, err
	}

	var data PRDData
	mode := ""
	for _, line := range strings.Split(string(raw), "\n") {
		if m := prdSectionRE.FindStringSubmatch(line); m != nil {
			mode = prdSectionMode(m[1])
			continue
		}
		m := bulletRE.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil || mode == "" {
			continue
		}
		item := strings.TrimSpace(m[1])
		switch mode {
		case "features":
			data.Features = append(data.Features, item)
		case "goals":
			data.Goals = append(data.Goals, item)
		case "tech_stack":
			data.TechStack = append(data.TechStack, item)
		case "phases":
			data.Phases = append(data.Phases, item)
		case "tasks":
			data.Tasks = append(data.Tasks, item)
		}
	}

	data.Stats = PRDStats{
		FeatureCount: len(data.Features),
		GoalCount: len(data.Goals),
		PhaseCount: len(data.Phases),
		TaskCount: len(data.Tasks),
	}
	return data, nil
}

