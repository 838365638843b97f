package config

import "image/color"

// Ambient Particle Field Configuration (背景粒子场配置)
//
// 粒子数量 = min(floor(width*height / ParticleAreaPerParticle), ParticleMaxCount)
const (
	// ParticleAreaPerParticle 每个粒子占用的面积（平方像素）
	ParticleAreaPerParticle = 15000

	// ParticleMaxCount 粒子数量上限
	ParticleMaxCount = 100

	// ParticleMaxFrameMs 单帧时间上限（毫秒），防止标签页恢复后粒子跳跃
	ParticleMaxFrameMs = 33.0

	// ParticleVelocityUnitMs 速度单位对应的帧时长（毫秒）
	// 位置增量 = 速度 * (dt / ParticleVelocityUnitMs)
	ParticleVelocityUnitMs = 16.0

	// ParticleMaxVelocity 每轴速度范围 [-ParticleMaxVelocity, ParticleMaxVelocity]
	ParticleMaxVelocity = 0.15

	// ParticleMinRadius / ParticleMaxRadius 粒子半径范围（像素）
	ParticleMinRadius = 1.0
	ParticleMaxRadius = 3.0

	// ParticleMinOpacity / ParticleMaxOpacity 基础不透明度范围
	ParticleMinOpacity = 0.1
	ParticleMaxOpacity = 0.4

	// ParticleMinPulseSpeed / ParticleMaxPulseSpeed 脉动振荡器速度范围（弧度/秒）
	ParticleMinPulseSpeed = 0.3
	ParticleMaxPulseSpeed = 0.8

	// ParticleGlowRadiusThreshold 半径超过该值的粒子额外绘制光晕
	ParticleGlowRadiusThreshold = 2.0

	// ParticleGlowRadiusScale 光晕半径倍数
	ParticleGlowRadiusScale = 1.5

	// ParticleGlowOpacityScale 光晕不透明度倍数
	ParticleGlowOpacityScale = 0.3
)

var (
	// ParticleCoreColor 粒子核心颜色（冷白）
	ParticleCoreColor = color.RGBA{R: 200, G: 225, B: 255, A: 255}

	// ParticleGlowColor 光晕颜色（同色系，偏青）
	ParticleGlowColor = color.RGBA{R: 96, G: 200, B: 255, A: 255}

	// BackgroundColor 背景底色
	BackgroundColor = color.RGBA{R: 8, G: 10, B: 24, A: 255}
)

// ParticleCountFor 根据视口尺寸计算粒子数量
// 非正尺寸返回 0
func ParticleCountFor(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	count := (width * height) / ParticleAreaPerParticle
	if count > ParticleMaxCount {
		count = ParticleMaxCount
	}
	return count
}
