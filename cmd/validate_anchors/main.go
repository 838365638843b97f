// Package main 校验锚点配置文件
//
// Usage:
//
//	go run ./cmd/validate_anchors [flags] [file ...]
//
// Flags:
//
//	--formation <path>   同时校验编队参数文件（可选）
//	--verbose            打印每个锚点的摘要
//
// 未指定文件时校验 data/anchors.yaml。
// 任一文件校验失败时退出码为 1。
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gonewx/clubhero/pkg/config"
)

var (
	formationFlag = flag.String("formation", "", "Formation tuning YAML to validate as well")
	verboseFlag   = flag.Bool("verbose", false, "Print a summary line per anchor")
)

func main() {
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		files = []string{"data/anchors.yaml"}
	}

	failed := false
	for _, path := range files {
		anchors, err := config.LoadAnchorsFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", path, err)
			failed = true
			continue
		}
		fmt.Printf("OK   %s (%d anchors)\n", path, len(anchors))
		if *verboseFlag {
			for _, a := range anchors {
				jitter := "default"
				if a.Jitter != nil {
					jitter = fmt.Sprintf("%.2f", *a.Jitter)
				}
				fmt.Printf("     %-16s pos=(%.2f, %.2f, %.2f) jitter=%s title=%q\n",
					a.ID, a.Position[0], a.Position[1], a.Position[2], jitter, a.Title)
			}
		}
	}

	if *formationFlag != "" {
		data, err := os.ReadFile(*formationFlag)
		if err == nil {
			_, err = config.ParseFormationConfig(data)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", *formationFlag, err)
			failed = true
		} else {
			fmt.Printf("OK   %s\n", *formationFlag)
		}
	}

	if failed {
		os.Exit(1)
	}
}
