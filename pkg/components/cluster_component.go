package components

import "github.com/go-gl/mathgl/mgl64"

// ClusterParticleCount 每个锚点的粒子数（立方体 8 个角点）
const ClusterParticleCount = 8

// ClusterParticle 锚点周围的一个簇粒子
type ClusterParticle struct {
	// Corner 立方体角点相对锚点的偏移（由棱长计算，固定）
	Corner mgl64.Vec3
	// Scatter 漂浮状态下的额外随机偏移（由 Jitter 决定，固定）
	Scatter mgl64.Vec3
	// Phase 三轴噪声相位
	Phase mgl64.Vec3
	// Amplitude 噪声幅度
	Amplitude float64

	// 以下字段每帧由编队系统写入，渲染系统只读
	Position mgl64.Vec3
	Color    mgl64.Vec3
	Alpha    float64
}

// ClusterComponent 锚点的簇粒子集合
type ClusterComponent struct {
	Particles [ClusterParticleCount]ClusterParticle
}
