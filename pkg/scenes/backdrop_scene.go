package scenes

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/clubhero/pkg/config"
	"github.com/gonewx/clubhero/pkg/ecs"
	"github.com/gonewx/clubhero/pkg/entities"
	"github.com/gonewx/clubhero/pkg/events"
	"github.com/gonewx/clubhero/pkg/game"
	"github.com/gonewx/clubhero/pkg/systems"
	"github.com/gonewx/clubhero/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// BackdropOptions 背景场景的构造参数
type BackdropOptions struct {
	Anchors   []config.AnchorConfig
	Formation config.FormationConfig
	// Seed 随机种子；0 表示使用当前时间
	Seed int64
	// Zoom 宿主缩放系数来源，可为 nil
	Zoom utils.ZoomFunc
	// PointerSource / DialogInput 为 nil 时使用 ebiten 输入
	PointerSource utils.PointerSource
	DialogInput   systems.DialogInput
}

// BackdropScene 俱乐部首页的交互背景
//
// 组合背景粒子场、锚点编队引擎与揭示对话框。所有持续运行的效果都注册到
// 共享的帧调度器：
//   - High:   编队引擎
//   - Medium: 粒子场、事件分发
//   - Low:    对话框动画
//
// 输入在每个宿主帧的 Update 中采样，渲染在 Draw 中完成。
type BackdropScene struct {
	entityManager   *ecs.EntityManager
	resourceManager *game.ResourceManager
	scheduler       *game.FrameScheduler
	bus             *events.Bus

	pointerBridge *utils.PointerBridge
	projector     *utils.Projector

	particleField  *systems.ParticleFieldSystem
	formation      *systems.FormationSystem
	presenter      *systems.RevealDialogSystem
	particleRender *systems.ParticleRenderSystem
	cubeRender     *systems.CubeRenderSystem
	dialogRender   *systems.RevealDialogRenderSystem

	handles      []game.Handle
	unsubscribes []func()

	width, height int
	unmounted     bool
}

// DefaultCamera 场景相机：位于 +Z 轴，看向原点
func DefaultCamera() utils.Camera {
	return utils.Camera{
		Eye:         mgl64.Vec3{0, 0, config.CameraDistance},
		Target:      mgl64.Vec3{0, 0, 0},
		Up:          mgl64.Vec3{0, 1, 0},
		FovYDegrees: config.CameraFovYDegrees,
		Near:        config.CameraNear,
		Far:         config.CameraFar,
	}
}

// NewBackdropScene 创建背景场景并注册到帧调度器
// 初始化失败时已注册的回调与资源会被释放
func NewBackdropScene(rm *game.ResourceManager, scheduler *game.FrameScheduler, opts BackdropOptions) (*BackdropScene, error) {
	if err := opts.Formation.Validate(); err != nil {
		return nil, fmt.Errorf("backdrop scene: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	s := &BackdropScene{
		entityManager:   ecs.NewEntityManager(),
		resourceManager: rm,
		scheduler:       scheduler,
		bus:             events.NewBus(),
		projector:       utils.NewProjector(DefaultCamera(), opts.Zoom),
	}
	s.pointerBridge = utils.NewPointerBridge(opts.PointerSource, &utils.PointerState{})

	titleFace, err := rm.LoadFont(game.FontBold, config.DialogTitleFontSize)
	if err != nil {
		s.Unmount()
		return nil, fmt.Errorf("failed to load dialog title font: %w", err)
	}
	bodyFace, err := rm.LoadFont(game.FontRegular, config.DialogBodyFontSize)
	if err != nil {
		s.Unmount()
		return nil, fmt.Errorf("failed to load dialog body font: %w", err)
	}

	for _, anchor := range opts.Anchors {
		entities.NewAnchorEntity(s.entityManager, anchor, opts.Formation, rng)
	}
	dialogEntity := entities.NewRevealDialogEntity(s.entityManager)

	s.particleField = systems.NewParticleFieldSystem(s.entityManager, rng)
	s.formation = systems.NewFormationSystem(s.entityManager, s.pointerBridge.State(), s.projector, s.bus, opts.Formation)
	s.presenter = systems.NewRevealDialogSystem(s.entityManager, dialogEntity, utils.FaceMeasure(bodyFace), opts.DialogInput)
	s.particleRender = systems.NewParticleRenderSystem(s.entityManager, rm)
	s.cubeRender = systems.NewCubeRenderSystem(s.entityManager, rm, s.projector)
	s.dialogRender = systems.NewRevealDialogRenderSystem(s.presenter, titleFace, bodyFace)

	s.unsubscribes = append(s.unsubscribes, s.presenter.Subscribe(s.bus))

	if scheduler != nil {
		s.handles = append(s.handles,
			scheduler.Register("formation", game.PriorityHigh, 0, s.formation.Update),
			scheduler.Register("particle-field", game.PriorityMedium, 0, s.particleField.Update),
			scheduler.Register("event-dispatch", game.PriorityMedium, 0, s.dispatchEvents),
			scheduler.Register("reveal-dialog", game.PriorityLow, 0, s.presenter.Update),
		)
	}

	log.Printf("[BackdropScene] mounted with %d anchors (seed=%d)", len(opts.Anchors), seed)
	return s, nil
}

func (s *BackdropScene) dispatchEvents(float64) {
	s.bus.Flush()
}

// SubscribeEvents 订阅场景发出的事件（WebSocket 桥、事件日志）
// 场景卸载时自动取消订阅
func (s *BackdropScene) SubscribeEvents(h events.Handler) {
	if s.unmounted {
		return
	}
	s.unsubscribes = append(s.unsubscribes, s.bus.Subscribe(h))
}

// Resize 实现 game.Resizable
func (s *BackdropScene) Resize(width, height int) {
	if s.unmounted || (width == s.width && height == s.height) {
		return
	}
	s.width, s.height = width, height
	s.projector.Resize(width, height)
	s.particleField.Resize(width, height)
	s.presenter.Resize(width, height)
}

// Update 每个宿主帧采样一次输入
// 模拟推进由帧调度器驱动，这里不处理 dt
func (s *BackdropScene) Update(deltaTime float64) {
	if s.unmounted {
		return
	}
	s.pointerBridge.Poll(s.width, s.height)
	s.presenter.HandleInput(s.pointerBridge.State())
}

// Draw 绘制背景、粒子场、锚点簇与对话框
func (s *BackdropScene) Draw(screen *ebiten.Image) {
	if s.unmounted || screen == nil || !s.projector.Ready() {
		return
	}
	screen.Fill(config.BackgroundColor)
	s.particleRender.Draw(screen)
	s.cubeRender.Draw(screen)
	s.dialogRender.Draw(screen)
}

// Pointer 当前指针状态
func (s *BackdropScene) Pointer() *utils.PointerState {
	return s.pointerBridge.State()
}

// Presenter 对话框展示层
func (s *BackdropScene) Presenter() *systems.RevealDialogSystem {
	return s.presenter
}

// EntityManager 场景的实体管理器
func (s *BackdropScene) EntityManager() *ecs.EntityManager {
	return s.entityManager
}

// ParticleCount 当前背景粒子数量
func (s *BackdropScene) ParticleCount() int {
	if s.particleField == nil {
		return 0
	}
	return s.particleField.Count()
}

// Unmount 实现 game.Unmountable（幂等）
// 注销调度回调、取消订阅、丢弃未分发事件并释放 GPU 图像
func (s *BackdropScene) Unmount() {
	if s.unmounted {
		return
	}
	s.unmounted = true

	for _, h := range s.handles {
		s.scheduler.Unregister(h)
	}
	s.handles = nil

	for _, unsubscribe := range s.unsubscribes {
		unsubscribe()
	}
	s.unsubscribes = nil
	s.bus.Reset()

	if s.presenter != nil {
		s.presenter.Close()
	}
	s.entityManager.Clear()
	if s.resourceManager != nil {
		s.resourceManager.Release()
	}
	log.Printf("[BackdropScene] unmounted")
}
