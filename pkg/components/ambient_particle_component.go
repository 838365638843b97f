package components

// AmbientParticleComponent 背景粒子场中的一个漂浮光点
// 屏幕空间坐标，位置/速度单位为像素；速度以 16ms 为一个时间单位
//
// This is a pure data component following ECS principles - it contains no methods.
type AmbientParticleComponent struct {
	X, Y   float64
	VX, VY float64

	// Radius 核心半径（像素，1~3）
	Radius float64

	// BaseOpacity 基础透明度（0.1~0.4）
	BaseOpacity float64
	// Opacity 当前显示透明度 = BaseOpacity × (0.7 + 0.3×sin(Phase))
	Opacity float64

	// Phase 脉动相位（弧度），Speed 相位速度（弧度/秒）
	Phase float64
	Speed float64
}
