package codemap

import (
	"regexp"
	"strconv"
	"strings"
)

// ArchitecturalInfo is the parsed view of a code map's architectural
// sections.
type ArchitecturalInfo struct {
	Directories []DirectoryEntry
	Frameworks []string
	Languages []string
	EntryPoints []string
	ConfigFiles []string
	Patterns []string
}

// DirectoryEntry is one `- path (N files)` line under the directory section.
type DirectoryEntry struct {
	Path string
	Purpose string
	FileCount int
}

// DependencyInfo is one parsed import/require/include statement.
type DependencyInfo struct {
	Target string
	Type string // "import", "require", "include"
	IsExternal bool
	PackageName string
}

var sectionHeaderRE = regexp.MustCompile(`^##\s+(.+)$`)
var directoryLineRE = regexp.MustCompile(`^[-*]\s+(\S+)(?:\s*\((\d+)\s+files?\))?`)

// knownDirectoryPurposes maps common directory names to a human-readable
// purpose, used to annotate directory entries whose meaning is conventional.
var knownDirectoryPurposes = map[string]string{
	"src": "primary source code",
	"lib": "library code",
	"test": "tests",
	"tests": "tests",
	"docs": "documentation",
	"cmd": "command entry points",
	"pkg": "shared packages",
	"internal": "private packages",
	"vendor": "vendored dependencies",
	"scripts": "build/operational scripts",
	"config": "configuration",
	"public": "static assets",
	"assets": "static assets",
}

var frameworkRE = regexp.MustCompile(`(?i)\b(react|vue|angular|express|gin|echo|django|flask|rails|spring|next\.?js|fastapi|nestjs)\b`)
var languageRE = regexp.MustCompile(`(?i)\b(go|golang|python|typescript|javascript|java|rust|ruby|c\+\+|c#|kotlin|swift)\b`)

var entryPointKeywords = []string{"main", "index", "entry"}
var entryPointExtensions = []string{".go", ".js", ".ts", ".py", ".rb", ".java"}

var configFileSubstrings = []string{
	"package.json", "tsconfig", "webpack", "babel", "eslint", "prettier",
	".env", "config.", "go.mod", "makefile", "dockerfile",
}

// sectionMode selects which parser mode a "## <name>" header activates.
func sectionMode(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	switch {
	case strings.Contains(h, "director"):
		return "directory"
	case strings.Contains(h, "framework"):
		return "frameworks"
	case strings.Contains(h, "language"):
		return "languages"
	case strings.Contains(h, "entry"):
		return "entry_points"
	case strings.Contains(h, "config"):
		return "config_files"
	case strings.Contains(h, "pattern"):
		return "patterns"
	default:
		return ""
	}
}

// ExtractArchitecturalInfo parses the architectural sections of a code map's
// markdown. Malformed input yields an empty (not error) result.
func ExtractArchitecturalInfo(markdown string) ArchitecturalInfo {
	var info ArchitecturalInfo
	mode := ""

	for _, line := range strings.Split(markdown, "\n") {
		if m := sectionHeaderRE.FindStringSubmatch(line); m != nil {
			mode = sectionMode(m[1])
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		switch mode {
		case "directory":
			if m := directoryLineRE.FindStringSubmatch(trimmed); m != nil {
				entry := DirectoryEntry{Path: strings.TrimSuffix(m[1], "/")}
				if m[2] != "" {
					if n, err := strconv.Atoi(m[2]); err == nil {
						entry.FileCount = n
					}
				}
				if purpose, ok := knownDirectoryPurposes[strings.ToLower(entry.Path)]; ok {
					entry.Purpose = purpose
				}
				info.Directories = append(info.Directories, entry)
			}
		case "frameworks":
			for _, m := range frameworkRE.FindAllString(trimmed, -1) {
				info.Frameworks = appendUnique(info.Frameworks, m)
			}
		case "languages":
			for _, m := range languageRE.FindAllString(trimmed, -1) {
				info.Languages = appendUnique(info.Languages, m)
			}
		case "entry_points":
			if looksLikeEntryPoint(trimmed) {
				info.EntryPoints = appendUnique(info.EntryPoints, strings.TrimSpace(strings.TrimLeft(trimmed, "-*")))
			}
		case "config_files":
			if looksLikeConfigFile(trimmed) {
				info.ConfigFiles = appendUnique(info.ConfigFiles, strings.TrimSpace(strings.TrimLeft(trimmed, "-*")))
			}
		case "patterns":
			info.Patterns = append(info.Patterns, trimmed)
		}
	}
	return info
}

func looksLikeEntryPoint(line string) bool {
	lower := strings.ToLower(line)
	hasKeyword := false
	for _, kw := range entryPointKeywords {
		if strings.Contains(lower, kw) {
			hasKeyword = true
			break
		}
	}
	if !hasKeyword {
		return false
	}
	for _, ext := range entryPointExtensions {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return false
}

func looksLikeConfigFile(line string) bool {
	lower := strings.ToLower(line)
	for _, needle := range configFileSubstrings {
		if strings.Contains(lower, needle) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if strings.EqualFold(existing, value) {
			return list
		}
	}
	return append(list, value)
}

var (
	importRE = regexp.MustCompile(`(?:^|\s)import\s+.*?from\s+["']([^"']+)["']`)
	requireRE = regexp.MustCompile(`require\(\s*["']([^"']+)["']\s*\)`)
	includeRE = regexp.MustCompile(`#include\s*[<"]([^>"]+)[>"]`)
)

// ExtractDependencyInfo parses import/require/#include statements out of a
// code map's source-listing sections.
func ExtractDependencyInfo(markdown string) []DependencyInfo {
	var deps []DependencyInfo
	for _, line := range strings.Split(markdown, "\n") {
		if m := importRE.FindStringSubmatch(line); m != nil {
			deps = append(deps, dependencyFor(m[1], "import"))
			continue
		}
		if m := requireRE.FindStringSubmatch(line); m != nil {
			deps = append(deps, dependencyFor(m[1], "require"))
			continue
		}
		if m := includeRE.FindStringSubmatch(line); m != nil {
			deps = append(deps, dependencyFor(m[1], "include"))
		}
	}
	return deps
}

func dependencyFor(target, depType string) DependencyInfo {
	isExternal := !strings.HasPrefix(target, ".") && !strings.HasPrefix(target, "/")
	dep := DependencyInfo{Target: target, Type: depType, IsExternal: isExternal}
	if isExternal {
		dep.PackageName = strings.SplitN(target, "/", 2)[0]
	}
	return dep
}

var filePathRE = regexp.MustCompile(`[\w\-./\\]+\.[A-Za-z0-9]+`)

// stopWords excludes short, common words from keyword extraction.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "that": true, "this": true,
	"with": true, "from": true, "into": true, "when": true, "then": true,
	"than": true, "add": true, "fix": true, "the.": true,
}

// ExtractRelevantFiles extracts deduplicated file paths from markdown whose
// line also mentions a keyword from taskDescription.
func ExtractRelevantFiles(markdown, taskDescription string) []string {
	keywords := extractKeywords(taskDescription)
	if len(keywords) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var files []string
	for _, line := range strings.Split(markdown, "\n") {
		paths := filePathRE.FindAllString(line, -1)
		if len(paths) == 0 {
			continue
		}
		lowerLine := strings.ToLower(line)
		matched := false
		for _, kw := range keywords {
			if strings.Contains(lowerLine, kw) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				files = append(files, p)
			}
		}
	}
	return files
}

var wordSplitRE = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func extractKeywords(taskDescription string) []string {
	var keywords []string
	for _, word := range wordSplitRE.Split(strings.ToLower(taskDescription), -1) {
		if len(word) <= 2 || stopWords[word] {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}
