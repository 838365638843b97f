package components

import ebimath "github.com/edwinsyarief/ebi-math"

// FormationPhase 编队状态机的阶段
// 只用于观察（调试叠加层、测试），转换由各标量推导
type FormationPhase int

const (
	PhaseIdle FormationPhase = iota
	PhaseApproaching
	PhaseFormed
	PhaseRevealing
	PhaseRevealed
)

func (p FormationPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseApproaching:
		return "approaching"
	case PhaseFormed:
		return "formed"
	case PhaseRevealing:
		return "revealing"
	case PhaseRevealed:
		return "revealed"
	default:
		return "unknown"
	}
}

// FormationStateComponent 每个锚点的编队运行时状态
// 只有编队系统写入；悬停结束时复位
type FormationStateComponent struct {
	IsHovered bool
	IsFormed  bool

	// Progress 编队进度 [0,1]，指数平滑趋近目标
	Progress float64
	// CubeReveal 立方体网格淡入 [0,1]
	CubeReveal float64
	// Rotation 旋转角（弧度）；网格 Y 轴旋转 = Rotation，X 轴 = Rotation/2
	Rotation float64

	// DialogTimerMs 揭示计时（毫秒）
	DialogTimerMs float64
	// DialogTriggered 本次悬停是否已触发揭示
	DialogTriggered bool
	// FadeOut 簇粒子淡出系数 [0,1]，1 为完全可见
	FadeOut float64

	// ScreenPos 锚点本帧投影后的屏幕位置
	ScreenPos   ebimath.Vector
	ScreenValid bool

	Phase FormationPhase
}
