package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter formats a Summary as a markdown document.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format renders the summary.
func (f *MarkdownFormatter) Format(summary *Summary) string {
	var sb strings.Builder

	sb.WriteString("# Capture Summary\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", summary.GeneratedAt.Format(time.RFC3339)))

	sb.WriteString("## Source\n\n")
	sb.WriteString(fmt.Sprintf("- URL: %s\n\n", summary.Source.URL))

	sb.WriteString("## Settings\n\n")
	sb.WriteString(fmt.Sprintf("- Frame rate: %.3f fps\n", summary.Settings.FPS))
	sb.WriteString(fmt.Sprintf("- Duration: %.1f s\n", summary.Settings.Seconds))
	sb.WriteString(fmt.Sprintf("- Codec: %s\n", summary.Settings.Codec))
	sb.WriteString(fmt.Sprintf("- Per-request timeout: %.2f s\n", summary.Settings.TimeoutSec))
	if summary.Settings.Resize != "" {
		sb.WriteString(fmt.Sprintf("- Resize: %s\n", summary.Settings.Resize))
	} else {
		sb.WriteString("- Resize: native\n")
	}
	sb.WriteString("\n")

	sb.WriteString("## Capture\n\n")
	sb.WriteString(fmt.Sprintf("- Frames written: %d\n", summary.Capture.FramesWritten))
	sb.WriteString(fmt.Sprintf("- Failed fetches: %d\n", summary.Capture.FetchFailures))
	sb.WriteString(fmt.Sprintf("- Frozen frames: %d\n", summary.Capture.FrozenFrames))
	sb.WriteString(fmt.Sprintf("- Elapsed: %d ms\n\n", summary.Capture.ElapsedMs))

	sb.WriteString("## Video\n\n")
	sb.WriteString(fmt.Sprintf("- Output: %s\n", summary.Video.Path))
	sb.WriteString(fmt.Sprintf("- Size: %dx%d\n", summary.Video.Width, summary.Video.Height))
	sb.WriteString(fmt.Sprintf("- File size: %s\n", formatBytes(summary.Video.FileSize)))

	return sb.String()
}

// formatBytes renders a byte count in human units.
func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.2f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.2f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// Ensure MarkdownFormatter implements Formatter
var _ Formatter = (*MarkdownFormatter)(nil)
