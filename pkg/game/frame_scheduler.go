package game

import (
	"log"
	"sort"
	"time"

	"github.com/gonewx/clubhero/pkg/utils"
)

// Priority 回调优先级
// 同一个调度间隔内 High 先于 Medium 先于 Low 执行
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return "unknown"
	}
}

const (
	// maxFrameDelta 单次 tick 计入的最大墙钟时间（标签页切回、断点调试后避免追帧风暴）
	maxFrameDelta = 100 * time.Millisecond
	// lowPriorityMinSkip Low 优先级强制的最小跳帧数
	lowPriorityMinSkip = 2

	fpsLow  = 30
	fpsMid  = 45
	fpsHigh = 60
)

// FrameCallback 帧回调
// dt 为距离该回调上一次被调用的时间（秒）
type FrameCallback func(dt float64)

// Handle 注册句柄，用于注销
type Handle uint64

// RefreshSource 宿主刷新信号来源
// Start 之后每次宿主刷新调用 tick，Stop 之后不再调用
type RefreshSource interface {
	Start(tick func(now time.Time))
	Stop()
}

type frameEntry struct {
	handle    Handle
	name      string
	priority  Priority
	frameSkip int
	fn        FrameCallback
	pending   time.Duration
	removed   bool
}

// SchedulerStats 调度器运行状态（FPS 叠加层使用）
type SchedulerStats struct {
	TargetFPS int
	Callbacks int
	Running   bool
	Intervals uint64
}

// FrameScheduler 共享帧调度器
//
// 所有持续运行的效果（粒子场、编队引擎、事件分发、对话框）都注册到同一个调度器。
// 调度器采用固定时间步长累加器：墙钟 dt（上限 100ms）累加后按目标间隔整段消费，
// 每个间隔内按优先级执行回调，Medium 每 frameSkip+1 个间隔执行一次，
// Low 至少每 3 个间隔执行一次。
//
// 注册是引用计数的：第一个回调注册时启动刷新源，最后一个注销时停止。
// 调度器与帧循环运行在同一协程，不加锁。
type FrameScheduler struct {
	source     RefreshSource
	entries    []*frameEntry
	nextHandle Handle

	targetFPS int
	interval  time.Duration

	running     bool
	hasLastTick bool
	lastTick    time.Time
	accumulator time.Duration
	intervals   uint64
}

// NewFrameScheduler 创建帧调度器
// targetFPS 非正时使用 60
func NewFrameScheduler(source RefreshSource, targetFPS int) *FrameScheduler {
	s := &FrameScheduler{source: source}
	s.SetTargetFPS(targetFPS)
	return s
}

// TargetFPSForDevice 根据设备概况选择目标帧率
//   - 内存已知且小于 4GB，或核心数 ≤ 2：30
//   - 核心数 ≥ 8 且内存未知或 ≥ 8GB：60
//   - 其他：45
func TargetFPSForDevice(profile utils.DeviceProfile) int {
	if (profile.MemoryGB > 0 && profile.MemoryGB < 4) || profile.Cores <= 2 {
		return fpsLow
	}
	if profile.Cores >= 8 && (profile.MemoryGB == 0 || profile.MemoryGB >= 8) {
		return fpsHigh
	}
	return fpsMid
}

// SetTargetFPS 设置目标帧率
func (s *FrameScheduler) SetTargetFPS(fps int) {
	if fps <= 0 {
		fps = fpsHigh
	}
	s.targetFPS = fps
	s.interval = time.Second / time.Duration(fps)
}

// TargetFPS 返回当前目标帧率
func (s *FrameScheduler) TargetFPS() int {
	return s.targetFPS
}

// AdjustForMeasuredFPS 根据实测帧率调整目标帧率
// 实测 < 25 降到 30；实测 > 55 且目标低于 60 时升到 60
// 返回目标帧率是否发生变化
func (s *FrameScheduler) AdjustForMeasuredFPS(measured float64) bool {
	switch {
	case measured < 25 && s.targetFPS != fpsLow:
		log.Printf("[FrameScheduler] measured %.1f fps, lowering target %d -> %d", measured, s.targetFPS, fpsLow)
		s.SetTargetFPS(fpsLow)
		return true
	case measured > 55 && s.targetFPS < fpsHigh:
		log.Printf("[FrameScheduler] measured %.1f fps, raising target %d -> %d", measured, s.targetFPS, fpsHigh)
		s.SetTargetFPS(fpsHigh)
		return true
	}
	return false
}

// Register 注册帧回调，返回注销句柄
// 负的 frameSkip 按 0 处理；Low 优先级的 frameSkip 至少为 2
func (s *FrameScheduler) Register(name string, priority Priority, frameSkip int, fn FrameCallback) Handle {
	if frameSkip < 0 {
		frameSkip = 0
	}
	if priority == PriorityLow && frameSkip < lowPriorityMinSkip {
		frameSkip = lowPriorityMinSkip
	}
	if priority == PriorityHigh {
		frameSkip = 0
	}

	s.nextHandle++
	entry := &frameEntry{
		handle:    s.nextHandle,
		name:      name,
		priority:  priority,
		frameSkip: frameSkip,
		fn:        fn,
	}
	s.entries = append(s.entries, entry)
	// 稳定排序保持同优先级的注册顺序
	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].priority < s.entries[j].priority
	})

	log.Printf("[FrameScheduler] registered %q (priority=%s, skip=%d)", name, priority, frameSkip)

	if !s.running {
		s.start()
	}
	return entry.handle
}

// Unregister 注销回调（重复注销无副作用）
// 最后一个回调注销时停止刷新源
func (s *FrameScheduler) Unregister(h Handle) {
	for i, e := range s.entries {
		if e.handle != h {
			continue
		}
		e.removed = true
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		log.Printf("[FrameScheduler] unregistered %q", e.name)
		break
	}
	if len(s.entries) == 0 && s.running {
		s.stop()
	}
}

// Running 刷新源是否处于运行状态
func (s *FrameScheduler) Running() bool {
	return s.running
}

// Stats 返回当前运行状态
func (s *FrameScheduler) Stats() SchedulerStats {
	return SchedulerStats{
		TargetFPS: s.targetFPS,
		Callbacks: len(s.entries),
		Running:   s.running,
		Intervals: s.intervals,
	}
}

func (s *FrameScheduler) start() {
	s.running = true
	s.hasLastTick = false
	s.accumulator = 0
	if s.source != nil {
		s.source.Start(s.Tick)
	}
}

func (s *FrameScheduler) stop() {
	s.running = false
	s.hasLastTick = false
	s.accumulator = 0
	if s.source != nil {
		s.source.Stop()
	}
	log.Printf("[FrameScheduler] stopped (no callbacks)")
}

// Tick 处理一次宿主刷新
// 第一次 tick 只记录时间戳
func (s *FrameScheduler) Tick(now time.Time) {
	if !s.running {
		return
	}
	if !s.hasLastTick {
		s.lastTick = now
		s.hasLastTick = true
		return
	}

	dt := now.Sub(s.lastTick)
	s.lastTick = now
	if dt < 0 {
		dt = 0
	}
	if dt > maxFrameDelta {
		dt = maxFrameDelta
	}
	s.accumulator += dt

	for s.accumulator >= s.interval && s.running {
		s.accumulator -= s.interval
		s.intervals++
		s.runInterval()
	}
}

func (s *FrameScheduler) runInterval() {
	// 回调内可能注销自身或其他回调
	batch := make([]*frameEntry, len(s.entries))
	copy(batch, s.entries)

	for _, e := range batch {
		if e.removed {
			continue
		}
		e.pending += s.interval
		if s.intervals%uint64(e.frameSkip+1) != 0 {
			continue
		}
		dt := e.pending.Seconds()
		e.pending = 0
		e.fn(dt)
	}
}

// HostRefreshSource 由宿主帧循环驱动的刷新源
// App 在每次 ebiten Update 中调用 Pump
type HostRefreshSource struct {
	tick func(now time.Time)
}

// Start 实现 RefreshSource
func (h *HostRefreshSource) Start(tick func(now time.Time)) {
	h.tick = tick
}

// Stop 实现 RefreshSource
func (h *HostRefreshSource) Stop() {
	h.tick = nil
}

// Active 刷新源是否已启动
func (h *HostRefreshSource) Active() bool {
	return h.tick != nil
}

// Pump 向调度器转发一次宿主刷新；未启动时什么也不做
func (h *HostRefreshSource) Pump(now time.Time) {
	if h.tick != nil {
		h.tick(now)
	}
}
