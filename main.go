// Package main 是俱乐部首页交互背景的桌面入口
//
// 用法:
//
//	clubhero [flags]
//
// 参数:
//
//	--verbose              输出详细日志
//	--anchors <path>       使用外部锚点配置（默认使用内置 data/anchors.yaml）
//	--events-addr <addr>   在本机地址上启动事件 WebSocket 桥（如 127.0.0.1:8765）
//	--journal-dir <dir>    把事件写入按小时轮转的压缩日志
//	--fps                  显示帧率叠加层
//	--frame-rate <n>       固定目标帧率（30/45/60），同时保存为默认设置
//	--seed <n>             随机种子（0 表示使用当前时间）
//
// 快捷键: F3 帧率叠加层, F9 切换帧率（自动/30/45/60）, F11 全屏, Esc 关闭对话框
package main

import (
	"flag"
	"log"
	"os"

	"github.com/gonewx/clubhero/pkg/app"
	"github.com/gonewx/clubhero/pkg/config"
	"github.com/gonewx/clubhero/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
	_ "github.com/silbinarywolf/preferdiscretegpu"
)

var (
	verboseFlag    = flag.Bool("verbose", false, "Enable verbose logging")
	anchorsFlag    = flag.String("anchors", "", "Path to an anchors YAML file (default: embedded data/anchors.yaml)")
	eventsAddrFlag = flag.String("events-addr", "", "Loopback address for the event websocket bridge (e.g. 127.0.0.1:8765)")
	journalFlag    = flag.String("journal-dir", "", "Directory for the compressed event journal")
	fpsFlag        = flag.Bool("fps", false, "Show the FPS overlay")
	frameRateFlag  = flag.Int("frame-rate", 0, "Target frame rate (30, 45 or 60; 0 = auto)")
	seedFlag       = flag.Int64("seed", 0, "Random seed (0 = time based)")
)

func main() {
	flag.Parse()

	switch *frameRateFlag {
	case 0, 30, 45, 60:
	default:
		log.Fatalf("invalid --frame-rate %d: must be 30, 45 or 60", *frameRateFlag)
	}

	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:     *verboseFlag,
		AnchorsPath: *anchorsFlag,
		EventsAddr:  *eventsAddrFlag,
		JournalDir:  *journalFlag,
		ShowFPS:     *fpsFlag,
		FrameRate:   *frameRateFlag,
		Seed:        *seedFlag,
	})
	if err != nil {
		// 非 verbose 模式下 NewApp 已关闭日志输出
		log.SetOutput(os.Stderr)
		log.Fatalf("初始化失败: %v", err)
	}
	defer gameApp.Close()

	ebiten.SetWindowSize(config.DefaultWindowWidth, config.DefaultWindowHeight)
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Printf("[Main] game loop ended: %v", err)
	}
}
