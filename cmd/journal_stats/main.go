// Package main 汇总事件日志
//
// Usage:
//
//	go run ./cmd/journal_stats --dir <journal-dir>
//
// 读取目录中所有 events-*.jsonl.zst 文件，按锚点输出揭示、关闭与悬停次数。
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/gonewx/clubhero/internal/journal"
)

var dirFlag = flag.String("dir", "", "Journal directory containing events-*.jsonl.zst")

func main() {
	flag.Parse()

	if *dirFlag == "" {
		fmt.Fprintln(os.Stderr, "missing --dir")
		os.Exit(2)
	}

	stats, err := journal.ReadDir(*dirFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read journal:", err)
		os.Exit(1)
	}

	fmt.Printf("entries=%d anchors=%d cleared_hovers=%d\n", stats.Entries, len(stats.Anchors), stats.ClearedHovers)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ANCHOR\tHOVER EVENTS\tREVEALS\tCLOSES")
	for _, id := range stats.AnchorIDs() {
		a := stats.Anchors[id]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", id, a.Hovers, a.Reveals, a.Closes)
	}
	_ = tw.Flush()
}
