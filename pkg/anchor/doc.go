// Package anchor holds the structural offsets used to find metadata fields
// in archive module pages.
//
// # Anchors
//
// The module page keeps its metadata in one content block. Reading the
// block's text as trimmed, non-empty lines, each field sits at a fixed line
// index:
//
//   - [FilenameLine]: "Filename: noway.s3m"
//   - [InfoLine]: "Info: No Way"
//   - [DownloadLine]: "Downloads: 1,234"
//
// A [Set] maps every field to its line. [Defaults] returns the compiled
// offsets. Pages of nominated modules carry a badge that pushes the info
// and download lines down by [NominatedDelta]; [Set.Lookup] applies the
// shift. The delta is compiled in and cannot be overridden.
//
// # Override file
//
// When the archive changes its layout, new offsets can be supplied without
// recompiling through a file named "line-overrides" in the platform config
// directory (see [DefaultOverridePath]). The file has no header and one
// comma-separated row of integers:
//
//	# filename,info,download
//	2,4,7
//
// Blank lines and lines starting with # are ignored. Every row must be
// valid; when there are several the last one wins. [Load] falls back to
// [Defaults] when the file is malformed and reports a CONFIG error so the
// caller can warn about it.
package anchor
