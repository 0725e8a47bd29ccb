package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/trackermeta/pkg/modinfo"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleBadge = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	styleKey   = lipgloss.NewStyle().Foreground(colorGray).Width(14)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// printError prints an error message.
func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

// printWarning prints a warning message.
func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printInfo prints an info/status message.
func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value. Empty values are skipped.
func printKeyValue(w io.Writer, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintln(w, "  "+styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printNewline prints an empty line.
func printNewline(w io.Writer) {
	fmt.Fprintln(w)
}

// =============================================================================
// Records
// =============================================================================

// printRecord prints one module record.
func printRecord(w io.Writer, rec *modinfo.Record, instruments bool) {
	head := StyleTitle.Render(rec.Filename) + " " + StyleDim.Render(fmt.Sprintf("#%d", rec.ID))
	if badges := recordBadges(rec); badges != "" {
		head += " " + styleBadge.Render(badges)
	}
	fmt.Fprintln(w, head)

	printKeyValue(w, "Title", rec.Title)
	printKeyValue(w, "Format", rec.Format)
	if rec.Channels > 0 {
		printKeyValue(w, "Channels", StyleNumber.Render(fmt.Sprint(rec.Channels)))
	}
	printKeyValue(w, "Size", formatSize(rec))
	printKeyValue(w, "Downloads", StyleNumber.Render(humanize.Comma(int64(rec.DownloadCount))))
	printKeyValue(w, "Favourites", StyleNumber.Render(humanize.Comma(int64(rec.FavouriteCount))))
	printKeyValue(w, "Genre", rec.Genre)
	printKeyValue(w, "Uploaded", formatUploaded(rec))
	printKeyValue(w, "MD5", rec.MD5)
	printKeyValue(w, "Link", StyleLink.Render(rec.DownloadURL))

	for _, warn := range rec.Warnings {
		printWarning(w, "%s", warn)
	}
	if instruments && strings.TrimSpace(rec.InfoText) != "" {
		printNewline(w)
		for _, line := range strings.Split(strings.Trim(rec.InfoText, "\n"), "\n") {
			fmt.Fprintln(w, "  "+StyleDim.Render("│")+" "+line)
		}
	}
}

func recordBadges(rec *modinfo.Record) string {
	var b []string
	if rec.Nominated {
		b = append(b, "nominated")
	}
	if rec.Spotlit {
		b = append(b, "spotlit")
	}
	return strings.Join(b, " · ")
}

func formatSize(rec *modinfo.Record) string {
	if rec.Size == 0 {
		return rec.SizeText
	}
	s := humanize.Bytes(rec.Size)
	if rec.SizeText != "" && rec.SizeText != s {
		s += " " + StyleDim.Render("("+rec.SizeText+")")
	}
	return s
}

func formatUploaded(rec *modinfo.Record) string {
	if !rec.UploadKnown() {
		return rec.UploadedText
	}
	return rec.Uploaded.Format("2 Jan 2006") + " " + StyleDim.Render("("+humanize.Time(rec.Uploaded)+")")
}
