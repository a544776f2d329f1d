package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/sflanaga/parascan/internal/aggregate"
	"github.com/sflanaga/parascan/internal/topn"
)

// WriteUsageReport renders the aggregated usage report: overall total,
// per-user table, and every top-N table, each section omitted when empty.
func WriteUsageReport(w io.Writer, stats *aggregate.Stats) {
	fmt.Fprintf(w, "Scan Report\n")
	fmt.Fprintf(w, "===========\n\n")
	fmt.Fprintf(w, "Root:  %s\n", stats.Root)
	fmt.Fprintf(w, "Total: %s\n", humanize.Bytes(stats.TotalBytes))

	writeUserTable(w, stats)
	writeBytesRanking(w, "Largest directories (direct size)", stats.TopSizeDirect)
	writeBytesRanking(w, "Largest directories (recursive size)", stats.TopSizeRecursive)
	writeCountRanking(w, "Directories with the most subdirectories (direct)", stats.TopDirsDirect)
	writeCountRanking(w, "Directories with the most files (direct)", stats.TopFilesDirect)
	writeCountRanking(w, "Directories with the most files (recursive)", stats.TopFilesRecursive)
	writeBytesRanking(w, "Largest files", stats.TopLargestFiles)
	writeBytesRanking(w, "Largest extensions by total size", stats.TopExtensions)
}

func writeUserTable(w io.Writer, stats *aggregate.Stats) {
	if len(stats.Users) == 0 {
		return
	}
	fmt.Fprintf(w, "\nBy owner\n--------\n")

	type row struct {
		owner uint32
		files uint64
		bytes uint64
	}
	rows := make([]row, 0, len(stats.Users))
	for owner, u := range stats.Users {
		rows = append(rows, row{owner, u.Files, u.Bytes})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].bytes > rows[j].bytes })

	for _, r := range rows {
		fmt.Fprintf(w, "%-12s %12s files  %12s\n",
			ownerName(r.owner), humanize.Comma(int64(r.files)), humanize.Bytes(r.bytes))
	}
}

// writeBytesRanking renders a heap whose score is a byte count.
func writeBytesRanking(w io.Writer, title string, heap *topn.Heap[string]) {
	entries := heap.Ranked()
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n%s\n", title, underline(title))
	for i, e := range entries {
		fmt.Fprintf(w, "%3d. %-12s %s\n", i+1, humanize.Bytes(e.Score), e.Payload)
	}
}

// writeCountRanking renders a heap whose score is a plain count (files,
// directories) rather than a byte size.
func writeCountRanking(w io.Writer, title string, heap *topn.Heap[string]) {
	entries := heap.Ranked()
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n%s\n", title, underline(title))
	for i, e := range entries {
		fmt.Fprintf(w, "%3d. %-12s %s\n", i+1, humanize.Comma(int64(e.Score)), e.Payload)
	}
}

func underline(title string) string {
	out := make([]byte, len(title))
	for i := range out {
		out[i] = '-'
	}
	return string(out)
}
