package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// Translator maps an English label to a localized one.
type Translator func(key string) string

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the label translator.
func WithTranslator(t Translator) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = t
	}
}

// WithVersion sets the version shown in the footer.
func WithVersion(v string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = v
	}
}

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate Translator
	version   string
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(key string) string { return key },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Recording Summary"))
	fmt.Fprintf(&b, "%s: %s\n\n", t("Generated"), s.GeneratedAt.Format(time.RFC3339))

	fmt.Fprintf(&b, "## %s\n\n", t("Session"))
	f.header(&b)
	f.row(&b, "Session ID", orNA(t, s.Session.ID))
	if !s.Session.StartedAt.IsZero() {
		f.row(&b, "Started At", s.Session.StartedAt.Format(time.RFC3339))
	}
	f.row(&b, "Duration", fmt.Sprintf("%d ms", s.Session.DurationMs))
	if s.Session.Success {
		f.row(&b, "Result", t("Success"))
	} else {
		f.row(&b, "Result", t("Failed"))
		if s.Session.Error != "" {
			f.row(&b, "Error", s.Session.Error)
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Capture"))
	f.header(&b)
	f.row(&b, "Accepted", fmt.Sprintf("%d", s.Capture.Accepted))
	f.row(&b, "Dropped", fmt.Sprintf("%d", s.Capture.Dropped()))
	drops := []struct {
		label string
		n     uint64
	}{
		{"Queue Full", s.Capture.QueueFull},
		{"Rate Limited", s.Capture.RateLimited},
		{"Out of Bounds", s.Capture.OutOfBounds},
		{"Read Failed", s.Capture.ReadFailed},
		{"Executor Busy", s.Capture.ExecutorBusy},
		{"After Stop", s.Capture.Stopped},
	}
	for _, d := range drops {
		if d.n > 0 {
			f.row(&b, d.label, fmt.Sprintf("%d", d.n))
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Settings"))
	f.header(&b)
	f.row(&b, "Source", orNA(t, s.Settings.Source))
	if s.Settings.SourceWidth > 0 && s.Settings.SourceHeight > 0 {
		f.row(&b, "Source Size", fmt.Sprintf("%dx%d", s.Settings.SourceWidth, s.Settings.SourceHeight))
	}
	if s.Settings.CaptureFPS > 0 {
		f.row(&b, "Capture FPS", fmt.Sprintf("%d", s.Settings.CaptureFPS))
	} else {
		f.row(&b, "Capture FPS", t("Unlimited"))
	}
	f.row(&b, "Image Format", orNA(t, s.Settings.ImageFormat))
	f.row(&b, "Frame Rate", fmt.Sprintf("%d", s.Settings.FrameRate))
	f.row(&b, "Encoder Params", orNA(t, s.Settings.EncoderParams))
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Video"))
	f.header(&b)
	f.row(&b, "Output", orNA(t, s.Video.Path))
	f.row(&b, "Frames Written", fmt.Sprintf("%d", s.Video.FramesWritten))
	if s.Video.WriteFailures > 0 {
		f.row(&b, "Write Failures", fmt.Sprintf("%d", s.Video.WriteFailures))
	}
	f.row(&b, "Frames Encoded", fmt.Sprintf("%d", s.Video.FramesEncoded))
	if s.Video.Codec != "" {
		f.row(&b, "Codec", s.Video.Codec)
	}
	if s.Video.Width > 0 && s.Video.Height > 0 {
		f.row(&b, "Video Size", fmt.Sprintf("%dx%d", s.Video.Width, s.Video.Height))
	}
	if s.Video.DurationMs > 0 {
		f.row(&b, "Video Duration", fmt.Sprintf("%d ms", s.Video.DurationMs))
	}
	if s.Video.FileSize > 0 {
		f.row(&b, "File Size", formatBytes(s.Video.FileSize))
	}
	f.row(&b, "Encode Time", fmt.Sprintf("%d ms", s.Video.EncodeMs))

	if f.version != "" {
		fmt.Fprintf(&b, "\n---\n\nframerec %s\n", f.version)
	}
	return b.String()
}

func (f *MarkdownFormatter) header(b *strings.Builder) {
	fmt.Fprintf(b, "| %s | %s |\n", f.translate("Item"), f.translate("Value"))
	b.WriteString("|---|---|\n")
}

func (f *MarkdownFormatter) row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", f.translate(label), value)
}

func orNA(t Translator, v string) string {
	if v == "" {
		return t("N/A")
	}
	return v
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}
