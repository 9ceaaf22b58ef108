package xmlpkg

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/forgeflow-dev/taskforge/pkg/model"
)

// Version and FormatVersion are the root element's fixed attributes.
const (
	Version = "1"
	FormatVersion = "1.0"
)

// Marshal serializes pkg into a deterministic XML document.
func Marshal(pkg *model.ContextPackage) (string, error) {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString("\n")
	fmt.Fprintf(&b, `<context_package version="%s" format_version="%s">`, escape(Version), escape(FormatVersion))
	b.WriteString("\n")

	writeMetadata(&b, pkg.Metadata)
	writeElement(&b, "refined_prompt", pkg.RefinedPrompt)
	writeElement(&b, "codemap_path", pkg.CodemapPath)

	writeFileGroup(&b, "high_priority_files", pkg.HighPriorityFiles)
	writeFileGroup(&b, "medium_priority_files", pkg.MediumPriorityFiles)
	writeFileReferenceGroup(&b, "low_priority_files", pkg.LowPriorityFiles)

	if pkg.MetaPrompt != nil {
		if err := writeMetaPrompt(&b, *pkg.MetaPrompt, pkg.Metadata.TaskType); err != nil {
			return "", err
		}
	}

	b.WriteString("</context_package>\n")
	return b.String(), nil
}

func writeMetadata(b *strings.Builder, m model.ContextPackageMetadata) {
	b.WriteString(" <package_metadata>\n")
	writeIndentedElement(b, "job_id", m.JobID, 4)
	writeIndentedElement(b, "created_at", m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"), 4)
	writeIndentedElement(b, "task_type", string(m.TaskType), 4)
	writeIndentedElement(b, "total_files", strconv.Itoa(m.TotalFiles), 4)
	writeIndentedElement(b, "total_tokens", strconv.Itoa(m.TotalTokens), 4)
	writeIndentedElement(b, "average_relevance_score", strconv.FormatFloat(m.AverageRelevance, 'f', 4, 64), 4)
	writeIndentedElement(b, "cache_hit_rate", strconv.FormatFloat(m.CacheHitRate, 'f', 4, 64), 4)
	writeIndentedElement(b, "processing_time_ms", strconv.FormatInt(m.ProcessingTime.Milliseconds(), 10), 4)
	writeIndentedElement(b, "codemap_cache_used", strconv.FormatBool(m.CodemapCacheUsed), 4)
	if len(m.Warnings) > 0 {
		b.WriteString(" <warnings>\n")
		for _, w := range m.Warnings {
			writeIndentedElement(b, "warning", w, 6)
		}
		b.WriteString(" </warnings>\n")
	}
	b.WriteString(" </package_metadata>\n")
}

func writeFileGroup(b *strings.Builder, tag string, files []model.PackagedFile) {
	fmt.Fprintf(b, " <%s>\n", tag)
	for _, f := range files {
		writePackagedFile(b, f)
	}
	fmt.Fprintf(b, " </%s>\n", tag)
}

func writePackagedFile(b *strings.Builder, f model.PackagedFile) {
	fmt.Fprintf(b, ` <file path="%s" language="%s" is_optimized="%s" total_lines="%s" token_estimate="%s">`,
		escape(f.Path), escape(f.Language), escape(strconv.FormatBool(f.IsOptimized)),
		escape(strconv.Itoa(f.TotalLines)), escape(strconv.Itoa(f.TokenEstimate)))
	b.WriteString("\n")
	if f.Reasoning != "" {
		writeIndentedElement(b, "reasoning", f.Reasoning, 6)
	}
	for _, s := range f.Sections {
		fmt.Fprintf(b, ` <content_section kind="%s" start_line="%s" end_line="%s">`,
			escape(string(s.Kind)), escape(strconv.Itoa(s.StartLine)), escape(strconv.Itoa(s.EndLine)))
		b.WriteString(cdata(s.Content))
		b.WriteString("</content_section>\n")
	}
	if len(f.Sections) == 0 {
		b.WriteString(" <content>")
		b.WriteString(cdata(f.Content))
		b.WriteString("</content>\n")
	}
	b.WriteString(" </file>\n")
}

func writeFileReferenceGroup(b *strings.Builder, tag string, refs []model.FileReference) {
	fmt.Fprintf(b, " <%s>\n", tag)
	for _, r := range refs {
		fmt.Fprintf(b, ` <file_reference path="%s" relevance="%s" size="%s" language="%s" token_estimate="%s"/>`,
			escape(r.Path), escape(strconv.FormatFloat(r.Relevance, 'f', 4, 64)),
			escape(strconv.FormatInt(r.Size, 10)), escape(r.Language), escape(strconv.Itoa(r.TokenEstimate)))
		b.WriteString("\n")
	}
	fmt.Fprintf(b, " </%s>\n", tag)
}

func writeMetaPrompt(b *strings.Builder, mp model.MetaPrompt, taskType model.TaskTypeHint) error {
	fmt.Fprintf(b, ` <meta_prompt task_type="%s">`, escape(string(taskType)))
	b.WriteString("\n")
	writeIndentedCDATAElement(b, "system_prompt", mp.SystemPrompt, 4)
	writeIndentedCDATAElement(b, "user_prompt", mp.UserPrompt, 4)
	if mp.ContextSummary != "" {
		writeIndentedCDATAElement(b, "context_summary", mp.ContextSummary, 4)
	}

	decompJSON, err := json.Marshal(mp.TaskDecomposition)
	if err != nil {
		return err
	}
	writeIndentedElement(b, "task_decomposition", string(decompJSON), 4)

	if len(mp.Guidelines) > 0 {
		guidelinesJSON, err := json.Marshal(mp.Guidelines)
		if err != nil {
			return err
		}
		writeIndentedElement(b, "guidelines", string(guidelinesJSON), 4)
	}
	if mp.AIAgentResponseFormat != "" {
		writeIndentedElement(b, "ai_agent_response_format", mp.AIAgentResponseFormat, 4)
	}
	b.WriteString(" </meta_prompt>\n")
	return nil
}

func writeElement(b *strings.Builder, tag, content string) {
	fmt.Fprintf(b, " <%s>", tag)
	b.WriteString(cdata(content))
	fmt.Fprintf(b, "</%s>\n", tag)
}

func writeIndentedElement(b *strings.Builder, tag, content string, indent int) {
	pad := strings.Repeat(" ", indent)
	fmt.Fprintf(b, "%s<%s>%s</%s>\n", pad, tag, escape(content), tag)
}

func writeIndentedCDATAElement(b *strings.Builder, tag, content string, indent int) {
	pad := strings.Repeat(" ", indent)
	fmt.Fprintf(b, "%s<%s>", pad, tag)
	b.WriteString(cdata(content))
	fmt.Fprintf(b, "</%s>\n", tag)
}
