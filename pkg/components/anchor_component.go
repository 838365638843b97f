package components

import "github.com/go-gl/mathgl/mgl64"

// AnchorComponent 锚点组件
// 配置定义的 3D 锚点及其揭示内容，进程生命周期内不变
type AnchorComponent struct {
	ID       string
	Position mgl64.Vec3
	// Jitter 漂浮状态下角点的随机散布幅度（世界单位）
	Jitter float64
	Title  string
	Body   string
}
