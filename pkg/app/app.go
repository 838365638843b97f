// Package app 提供背景应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/gonewx/clubhero/internal/eventbridge"
	"github.com/gonewx/clubhero/internal/journal"
	"github.com/gonewx/clubhero/pkg/config"
	"github.com/gonewx/clubhero/pkg/embedded"
	"github.com/gonewx/clubhero/pkg/game"
	"github.com/gonewx/clubhero/pkg/scenes"
	"github.com/gonewx/clubhero/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

const (
	// embeddedAnchorsPath / embeddedFormationPath 内置配置
	embeddedAnchorsPath   = "data/anchors.yaml"
	embeddedFormationPath = "data/formation.yaml"

	// fpsAdjustInterval 根据实测帧率调整目标帧率的间隔
	fpsAdjustInterval = 2 * time.Second

	settingsAppName = "clubhero"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// AnchorsPath 锚点配置文件路径，为空则使用内置 data/anchors.yaml
	AnchorsPath string
	// EventsAddr 事件 WebSocket 桥监听地址（如 127.0.0.1:8765），为空则不启动
	EventsAddr string
	// JournalDir 事件日志目录，为空则不记录
	JournalDir string
	// ShowFPS 显示帧率叠加层（覆盖已保存的设置）
	ShowFPS bool
	// FrameRate 目标帧率（30/45/60），0 表示按设置或设备自动选择
	FrameRate int
	// Seed 随机种子，0 表示使用当前时间
	Seed int64
}

// App 是背景应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager    *game.SceneManager
	resourceManager *game.ResourceManager
	settings        *game.SettingsManager
	scheduler       *game.FrameScheduler
	host            *game.HostRefreshSource

	bridge  *eventbridge.Server
	journal *journal.Writer

	showFPS         bool
	autoFrameRate   bool
	lastFPSAdjust   time.Time
	lastFrame       time.Time
	windowResetWait int // 退出全屏后延迟设置窗口大小的剩余帧数
	closed          bool
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
// 初始化失败时已经创建的资源会被释放。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	anchors, err := loadAnchors(cfg.AnchorsPath)
	if err != nil {
		return nil, err
	}
	formation, err := loadFormation()
	if err != nil {
		return nil, err
	}
	log.Printf("[App] loaded %d anchors", len(anchors))

	a := &App{
		sceneManager:    game.NewSceneManager(),
		resourceManager: game.NewResourceManager(),
		host:            &game.HostRefreshSource{},
	}
	a.settings = openSettings()
	settings := a.settings.GetSettings()
	a.showFPS = settings.ShowFPS || cfg.ShowFPS

	// 命令行指定的帧率保存为新的强制帧率
	if cfg.FrameRate != 0 {
		if err := a.settings.SetFrameRateOverride(cfg.FrameRate); err != nil {
			return nil, err
		}
		a.saveSettings()
	}
	a.scheduler = game.NewFrameScheduler(a.host, 0)
	a.applyFrameRate(settings.FrameRateOverride)

	scene, err := scenes.NewBackdropScene(a.resourceManager, a.scheduler, scenes.BackdropOptions{
		Anchors:   anchors,
		Formation: formation,
		Seed:      cfg.Seed,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create backdrop scene: %w", err)
	}
	a.sceneManager.SwitchTo(scene)

	if cfg.JournalDir != "" {
		a.journal = journal.NewWriter(cfg.JournalDir)
		scene.SubscribeEvents(a.journal.Record)
		log.Printf("[App] event journal enabled: %s", cfg.JournalDir)
	}
	if cfg.EventsAddr != "" {
		a.bridge = eventbridge.New()
		if err := a.bridge.Start(cfg.EventsAddr); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to start event bridge: %w", err)
		}
		scene.SubscribeEvents(a.bridge.Publish)
	}

	if settings.Fullscreen {
		ebiten.SetFullscreen(true)
	}
	return a, nil
}

// loadAnchors 从文件或内置资源加载锚点
func loadAnchors(path string) ([]config.AnchorConfig, error) {
	if path != "" {
		return config.LoadAnchorsFile(path)
	}
	data, err := embedded.ReadFile(embeddedAnchorsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", embeddedAnchorsPath, err)
	}
	return config.ParseAnchors(data)
}

// loadFormation 加载内置编队参数，文件缺失时使用默认值
func loadFormation() (config.FormationConfig, error) {
	data, err := embedded.ReadFile(embeddedFormationPath)
	if err != nil {
		log.Printf("[App] %s not found, using default formation tuning", embeddedFormationPath)
		return config.DefaultFormationConfig(), nil
	}
	return config.ParseFormationConfig(data)
}

// openSettings 打开设置存储；存储不可用时降级为仅内存设置
func openSettings() *game.SettingsManager {
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] %v", err)
	}
	gdataManager, err := gdata.Open(gdata.Config{AppName: settingsAppName})
	if err != nil {
		log.Printf("[App] settings storage unavailable, using in-memory settings: %v", err)
		gdataManager = nil
	}
	sm, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		log.Printf("[App] failed to load settings, using defaults: %v", err)
	}
	return sm
}

// applyFrameRate 应用强制帧率
// 0 表示按设备能力选择，之后根据实测帧率自动调整
func (a *App) applyFrameRate(override int) {
	if override != 0 {
		a.scheduler.SetTargetFPS(override)
		a.autoFrameRate = false
		log.Printf("[App] frame rate fixed at %d fps", override)
		return
	}
	profile := utils.DetectDeviceProfile()
	targetFPS := game.TargetFPSForDevice(profile)
	a.scheduler.SetTargetFPS(targetFPS)
	a.autoFrameRate = true
	a.lastFPSAdjust = time.Time{}
	log.Printf("[App] device profile cores=%d memory=%.1fGB mobile=%v -> %d fps",
		profile.Cores, profile.MemoryGB, profile.Mobile, targetFPS)
}

// Update 采样输入并驱动帧调度器
func (a *App) Update() error {
	if a.closed {
		return ebiten.Termination
	}
	now := time.Now()

	a.handleHotkeys()

	deltaTime := 0.0
	if !a.lastFrame.IsZero() {
		deltaTime = now.Sub(a.lastFrame).Seconds()
	}
	a.lastFrame = now

	// 输入每帧采样；模拟由调度器按目标帧率推进
	a.sceneManager.Update(deltaTime)
	a.host.Pump(now)

	if a.autoFrameRate && now.Sub(a.lastFPSAdjust) >= fpsAdjustInterval {
		if !a.lastFPSAdjust.IsZero() {
			a.scheduler.AdjustForMeasuredFPS(ebiten.ActualFPS())
		}
		a.lastFPSAdjust = now
	}
	return nil
}

// handleHotkeys F3 切换帧率叠加层，F9 切换强制帧率，F11 切换全屏
func (a *App) handleHotkeys() {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.windowResetWait > 0 {
		a.windowResetWait--
		if a.windowResetWait == 0 {
			ebiten.SetWindowSize(config.DefaultWindowWidth, config.DefaultWindowHeight)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		a.showFPS = !a.showFPS
		a.settings.SetShowFPS(a.showFPS)
		a.saveSettings()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		a.applyFrameRate(a.settings.CycleFrameRateOverride())
		a.saveSettings()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.windowResetWait = 3
			a.settings.SetFullscreen(false)
		} else {
			ebiten.SetFullscreen(true)
			a.settings.SetFullscreen(true)
		}
		a.saveSettings()
	}
}

func (a *App) saveSettings() {
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] failed to save settings: %v", err)
	}
}

// Draw 绘制当前场景与帧率叠加层
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)

	if a.showFPS {
		stats := a.scheduler.Stats()
		mode := "fixed"
		if a.autoFrameRate {
			mode = "auto"
		}
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f  TPS: %.1f\ntarget: %d (%s)  callbacks: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), stats.TargetFPS, mode, stats.Callbacks))
	}
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 背景铺满窗口，逻辑尺寸跟随外部尺寸，尺寸变化时通知场景
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.sceneManager.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Close 释放场景、事件桥与日志（幂等）
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true

	a.sceneManager.Close()
	if a.bridge != nil {
		if err := a.bridge.Close(); err != nil {
			log.Printf("[App] event bridge close: %v", err)
		}
	}
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			log.Printf("[App] journal close: %v", err)
		}
	}
	a.resourceManager.Release()
	log.Printf("[App] closed")
}
