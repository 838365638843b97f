package systems

import (
	"math"

	ebimath "github.com/edwinsyarief/ebi-math"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/clubhero/pkg/components"
	"github.com/gonewx/clubhero/pkg/config"
	"github.com/gonewx/clubhero/pkg/ecs"
	"github.com/gonewx/clubhero/pkg/events"
	"github.com/gonewx/clubhero/pkg/utils"
)

// maxFormationStep 单次更新计入的最大时间（秒）
const maxFormationStep = 0.1

// clusterNoiseFrequency 漂浮噪声的三轴频率（弧度/秒），各轴不同以避免同步摆动
var clusterNoiseFrequency = mgl64.Vec3{1.1, 1.3, 0.9}

// ScreenProjector 世界坐标到屏幕坐标的投影
type ScreenProjector interface {
	WorldToScreen(world mgl64.Vec3) (ebimath.Vector, bool)
}

// EventPublisher 事件发布者（通常是 events.Bus）
type EventPublisher interface {
	Publish(e events.Event) uint64
}

// CubeRotation 返回给定旋转角对应的立方体旋转矩阵
// Y 轴旋转 angle，X 轴旋转 angle/2
func CubeRotation(angle float64) mgl64.Mat4 {
	return mgl64.HomogRotate3DX(angle / 2).Mul4(mgl64.HomogRotate3DY(angle))
}

// FormationSystem 编队引擎
//
// 对每个锚点独立运行状态机：
//
//	Idle → Approaching → Formed → Revealing → Revealed
//
// 任意状态下失去悬停立即回到 Idle。悬停判定基于指针与锚点投影位置的屏幕距离
// （严格小于 HoverRadius）。引擎只在状态转换时发布事件：
//   - CloseReveal: 悬停结束（幂等，即使尚未揭示）
//   - ShowReveal: 成形后持续悬停 DialogDelayMs，每次悬停最多一次
//   - HoverChanged: 悬停开始/结束，或悬停中成形状态变化
//
// 指针状态通过构造函数注入，只读。
type FormationSystem struct {
	entityManager *ecs.EntityManager
	pointer       *utils.PointerState
	projector     ScreenProjector
	publisher     EventPublisher
	cfg           config.FormationConfig

	// elapsed 累计模拟时间（秒），驱动漂浮噪声
	elapsed float64
}

// NewFormationSystem 创建编队引擎
func NewFormationSystem(
	em *ecs.EntityManager,
	pointer *utils.PointerState,
	projector ScreenProjector,
	publisher EventPublisher,
	cfg config.FormationConfig,
) *FormationSystem {
	return &FormationSystem{
		entityManager: em,
		pointer:       pointer,
		projector:     projector,
		publisher:     publisher,
		cfg:           cfg,
	}
}

// Config 返回编队参数
func (s *FormationSystem) Config() config.FormationConfig {
	return s.cfg
}

type hoverTransition struct {
	anchorID string
	screen   ebimath.Vector
	formed   bool
}

// Update 推进所有锚点的状态机
// dt 单位为秒，负值按 0 处理，超过 100ms 按 100ms 处理
func (s *FormationSystem) Update(dt float64) {
	dt = utils.Clamp(dt, 0, maxFormationStep)
	s.elapsed += dt

	ids := ecs.GetEntitiesWith3[
		*components.AnchorComponent,
		*components.ClusterComponent,
		*components.FormationStateComponent,
	](s.entityManager)

	var hovered []hoverTransition
	hoverEnded := false
	anyHovered := false

	for _, id := range ids {
		anchor, _ := ecs.GetComponent[*components.AnchorComponent](s.entityManager, id)
		cluster, _ := ecs.GetComponent[*components.ClusterComponent](s.entityManager, id)
		state, _ := ecs.GetComponent[*components.FormationStateComponent](s.entityManager, id)

		hoverChanged, formedChanged := s.updateAnchor(dt, anchor, state)
		s.updateCluster(anchor, cluster, state)

		if state.IsHovered {
			anyHovered = true
		}
		if hoverChanged && !state.IsHovered {
			hoverEnded = true
		}
		if state.IsHovered && (hoverChanged || formedChanged) {
			hovered = append(hovered, hoverTransition{
				anchorID: anchor.ID,
				screen:   state.ScreenPos,
				formed:   state.IsFormed,
			})
		}
	}

	// 悬停结束只在没有其他锚点被悬停时广播空目标
	if hoverEnded && !anyHovered {
		s.publish(events.HoverChanged{})
	}
	for _, h := range hovered {
		id := h.anchorID
		s.publish(events.HoverChanged{
			AnchorID:       &id,
			ScreenPosition: &events.ScreenPoint{X: h.screen.X, Y: h.screen.Y},
			IsFormed:       h.formed,
		})
	}
}

// updateAnchor 推进单个锚点的状态，返回悬停与成形状态是否发生变化
func (s *FormationSystem) updateAnchor(dt float64, anchor *components.AnchorComponent, state *components.FormationStateComponent) (hoverChanged, formedChanged bool) {
	// 1. 投影与悬停判定
	state.ScreenPos, state.ScreenValid = s.projector.WorldToScreen(anchor.Position)
	isHovered := false
	if state.ScreenValid && s.pointer != nil && s.pointer.Active {
		pointer := ebimath.V(s.pointer.X, s.pointer.Y)
		isHovered = utils.ScreenDistance(pointer, state.ScreenPos) < s.cfg.HoverRadius
	}

	// 2. 悬停变化
	if isHovered != state.IsHovered {
		state.IsHovered = isHovered
		hoverChanged = true
		if !isHovered {
			state.DialogTriggered = false
			state.DialogTimerMs = 0
			state.FadeOut = 1
			s.publish(events.CloseReveal{AnchorID: anchor.ID})
		}
	}

	// 3. 指数平滑
	target := 0.0
	if state.IsHovered {
		target = 1
	}
	blend := math.Min(dt*s.cfg.FormationSpeed, 1)
	state.Progress = utils.Clamp01(state.Progress + (target-state.Progress)*blend)

	// 4. 成形判定
	wasFormed := state.IsFormed
	state.IsFormed = state.Progress > s.cfg.FormedThreshold
	formedChanged = wasFormed != state.IsFormed

	// 5-6. 立方体淡入与旋转
	if state.IsFormed {
		state.CubeReveal = utils.Clamp01(state.CubeReveal + dt*1000/s.cfg.CubeRevealDelayMs)
		// X 轴旋转为 angle/2，按 4π 取模保持连续
		state.Rotation = math.Mod(state.Rotation+s.cfg.RotationSpeed*dt, 4*math.Pi)
	} else {
		state.CubeReveal = 0
	}

	// 7-8. 揭示计时与粒子淡出
	switch {
	case state.IsFormed && state.IsHovered && !state.DialogTriggered:
		state.DialogTimerMs = math.Min(state.DialogTimerMs+dt*1000, s.cfg.DialogDelayMs)
		state.FadeOut = utils.Clamp01(1 - state.DialogTimerMs/s.cfg.DialogDelayMs)
		if state.DialogTimerMs >= s.cfg.DialogDelayMs {
			state.DialogTriggered = true
			s.publish(s.showRevealFor(anchor, state))
		}
	case !state.IsFormed || !state.IsHovered:
		state.FadeOut = 1
	}

	state.Phase = formationPhase(state)
	return hoverChanged, formedChanged
}

// showRevealFor 构造揭示事件
// 正 X 锚点的对话框放在左侧（负偏移），其余放在右侧
func (s *FormationSystem) showRevealFor(anchor *components.AnchorComponent, state *components.FormationStateComponent) events.ShowReveal {
	offset := config.DialogAnchorGap
	side := events.SideRight
	if anchor.Position.X() > 0 {
		offset = -config.DialogAnchorGap
		side = events.SideLeft
	}
	return events.ShowReveal{
		AnchorID:       anchor.ID,
		Title:          anchor.Title,
		Body:           anchor.Body,
		AnchorScreen:   events.ScreenPoint{X: state.ScreenPos.X, Y: state.ScreenPos.Y},
		OffsetX:        offset,
		ScreenPosition: events.ScreenPoint{X: state.ScreenPos.X + offset, Y: state.ScreenPos.Y},
		Side:           side,
	}
}

// updateCluster 计算 8 个簇粒子的位置与颜色
func (s *FormationSystem) updateCluster(anchor *components.AnchorComponent, cluster *components.ClusterComponent, state *components.FormationStateComponent) {
	rotation := CubeRotation(state.Rotation)
	progress := state.Progress
	intensity := utils.Lerp(s.cfg.LowIntensity, s.cfg.HighIntensity, progress)
	color := utils.LerpVec3(mgl64.Vec3(s.cfg.BaseColor), mgl64.Vec3(s.cfg.FormedColor), progress).Mul(intensity)

	for i := range cluster.Particles {
		p := &cluster.Particles[i]

		noise := mgl64.Vec3{
			math.Sin(s.elapsed*clusterNoiseFrequency[0] + p.Phase[0]),
			math.Sin(s.elapsed*clusterNoiseFrequency[1] + p.Phase[1]),
			math.Sin(s.elapsed*clusterNoiseFrequency[2] + p.Phase[2]),
		}.Mul(p.Amplitude)
		floating := anchor.Position.Add(p.Corner).Add(p.Scatter).Add(noise)
		formed := anchor.Position.Add(rotation.Mul4x1(p.Corner.Vec4(1)).Vec3())

		p.Position = utils.LerpVec3(floating, formed, progress)
		p.Color = color
		p.Alpha = state.FadeOut
	}
}

func (s *FormationSystem) publish(e events.Event) {
	if s.publisher != nil {
		s.publisher.Publish(e)
	}
}

// formationPhase 由状态标量推导当前阶段
func formationPhase(state *components.FormationStateComponent) components.FormationPhase {
	switch {
	case !state.IsHovered:
		return components.PhaseIdle
	case !state.IsFormed:
		return components.PhaseApproaching
	case state.DialogTriggered:
		return components.PhaseRevealed
	case state.DialogTimerMs > 0:
		return components.PhaseRevealing
	default:
		return components.PhaseFormed
	}
}
