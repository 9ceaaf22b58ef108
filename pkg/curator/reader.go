package curator

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileReader abstracts reading a candidate file's content and metadata.
type FileReader interface {
	ReadFile(path string) (content string, lastModified time.Time, size int64, err error)
}

// OSFileReader reads files directly off the local filesystem.
type OSFileReader struct{}

func (OSFileReader) ReadFile(path string) (string, time.Time, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", time.Time{}, 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", time.Time{}, 0, err
	}
	return string(data), info.ModTime(), info.Size(), nil
}

var extensionLanguages = map[string]string{
	".go": "go", ".py": "python", ".js": "javascript", ".ts": "typescript",
	".tsx": "typescript", ".jsx": "javascript", ".java": "java", ".rb": "ruby",
	".rs": "rust", ".c": "c", ".h": "c", ".cpp": "cpp", ".cc": "cpp",
	".cs": "csharp", ".php": "php", ".kt": "kotlin", ".swift": "swift",
	".yaml": "yaml", ".yml": "yaml", ".json": "json", ".md": "markdown",
}

func languageOf(path string) string {
	if lang, ok := extensionLanguages[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return ""
}

// estimateTokens is a coarse token estimator (~4 bytes/token, a common
// rule of thumb for English prose).
func estimateTokens(s string) int {
	return (len(s) + 3) / 4
}
