package report

import (
	"fmt"
	"html/template"
	"io"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/frontdown/frontdown/internal/record"
)

// htmlTemplate is the single report template; no HTML templating library
// appears anywhere in this module's retrieval pack, so this is the
// documented stdlib exception (SPEC_FULL.md §7).
var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"bytes": func(n int64) string { return HumanBytes(n) },
}).Parse(reportHTML))

const reportHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Frontdown report: {{.InstanceDir}}</title></head>
<body>
<h1>Frontdown report: {{.InstanceDir}}</h1>
<p>Generated {{.GeneratedAt}}. Overall: {{if .Success}}success{{else}}failure{{end}}.</p>
{{range .Sources}}
<h2>{{.Name}}{{if .Skipped}} (skipped){{end}}</h2>
<ul>
<li>Copied: {{.FilesCopied}} files, {{bytes .BytesCopied}}</li>
<li>Hardlinked: {{.FilesHardlinked}} files, {{bytes .BytesHardlinked}}</li>
<li>Deleted: {{.FilesDeleted}} files</li>
<li>Directories created: {{.DirsCreated}}</li>
<li>Scan errors: {{.ScanErrors}}, backup errors: {{.BackupErrors}}</li>
{{if .Error}}<li>Error: {{.Error}}</li>{{end}}
</ul>
<table border="1" cellpadding="4">
<tr><th>Type</th><th>Path</th><th>Size</th></tr>
{{range .Actions}}<tr><td>{{.Type}}</td><td>{{.RelPath}}</td><td>{{.Size}}</td></tr>
{{end}}
</table>
{{end}}
</body>
</html>
`

// FilterActionsForHTML removes actions whose relative path matches any of
// excludePatterns, per spec.md §6's `exclude_actionhtml_actions`, using
// the same glob engine as scan exclusion so the two configuration
// surfaces behave consistently.
func FilterActionsForHTML(summary SourceSummary, excludePatterns []string) SourceSummary {
	if len(excludePatterns) == 0 {
		return summary
	}
	filtered := make([]record.ActionJSON, 0, len(summary.Actions))
	for _, action := range summary.Actions {
		excluded := false
		for _, pattern := range excludePatterns {
			if match, _ := doublestar.Match(pattern, action.RelPath); match {
				excluded = true
				break
			}
		}
		if !excluded {
			filtered = append(filtered, action)
		}
	}
	summary.Actions = filtered
	return summary
}

// RenderHTML writes r as HTML to w.
func RenderHTML(w io.Writer, r Report) error {
	if err := htmlTemplate.Execute(w, r); err != nil {
		return fmt.Errorf("unable to render HTML report: %w", err)
	}
	return nil
}
