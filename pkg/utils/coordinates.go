// Package utils 提供背景动画中常用的工具函数
//
// coordinates.go 提供世界坐标到屏幕坐标的投影。
//
// # 坐标系统概述
//
//   - **世界坐标**：右手坐标系，X 向右，Y 向上，Z 指向观察者；锚点位于原点附近
//   - **屏幕坐标**：相对于渲染表面左上角，X 向右，Y 向下，单位为像素
//
// # 核心转换公式
//
//	clip   = Projection * View * [x y z 1]
//	ndc    = clip.xyz / clip.w               （∈ [-1, 1]）
//	screenX = (ndc.x + 1) / 2 * width  / zoom
//	screenY = (1 - ndc.y) / 2 * height / zoom
//
// zoom 由宿主提供（系统/浏览器缩放），不可用或非正值时按 1 处理。
package utils

import (
	"math"

	ebimath "github.com/edwinsyarief/ebi-math"
	"github.com/go-gl/mathgl/mgl64"
)

// Camera 透视相机参数
type Camera struct {
	Eye    mgl64.Vec3
	Target mgl64.Vec3
	Up     mgl64.Vec3
	// FovYDegrees 垂直视场角（度）
	FovYDegrees float64
	Near, Far   float64
}

// ZoomFunc 返回宿主当前的缩放系数
type ZoomFunc func() float64

// Projector 世界坐标 → 屏幕坐标投影器
//
// 视口尺寸变化时调用 Resize 重新计算投影矩阵。
type Projector struct {
	camera   Camera
	zoom     ZoomFunc
	width    float64
	height   float64
	view     mgl64.Mat4
	proj     mgl64.Mat4
	viewProj mgl64.Mat4
	ready    bool
}

// NewProjector 创建投影器
// zoom 可为 nil（按 1 处理）
func NewProjector(camera Camera, zoom ZoomFunc) *Projector {
	p := &Projector{camera: camera, zoom: zoom}
	p.view = mgl64.LookAtV(camera.Eye, camera.Target, camera.Up)
	return p
}

// Resize 更新视口尺寸并重建投影矩阵
// 非正尺寸会使投影器进入未就绪状态
func (p *Projector) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		p.ready = false
		return
	}
	p.width = float64(width)
	p.height = float64(height)
	aspect := p.width / p.height
	p.proj = mgl64.Perspective(mgl64.DegToRad(p.camera.FovYDegrees), aspect, p.camera.Near, p.camera.Far)
	p.viewProj = p.proj.Mul4(p.view)
	p.ready = true
}

// Ready 投影器是否已有有效视口
func (p *Projector) Ready() bool {
	return p.ready
}

// Size 返回当前视口尺寸
func (p *Projector) Size() (width, height float64) {
	return p.width, p.height
}

// ViewProjection 返回 Projection * View 矩阵
func (p *Projector) ViewProjection() mgl64.Mat4 {
	return p.viewProj
}

// Zoom 返回当前有效的缩放系数（非正或不可用时为 1）
func (p *Projector) Zoom() float64 {
	if p.zoom == nil {
		return 1
	}
	z := p.zoom()
	if z <= 0 {
		return 1
	}
	return z
}

// WorldToScreen 将世界坐标投影到屏幕像素坐标
//
// 返回：
//   - ebimath.Vector: 屏幕坐标
//   - bool: 点在相机前方且投影器已就绪时为 true
func (p *Projector) WorldToScreen(world mgl64.Vec3) (ebimath.Vector, bool) {
	if !p.ready {
		return ebimath.V(0, 0), false
	}

	clip := p.viewProj.Mul4x1(world.Vec4(1))
	if clip.W() <= 0 {
		return ebimath.V(0, 0), false
	}

	ndcX := clip.X() / clip.W()
	ndcY := clip.Y() / clip.W()
	zoom := p.Zoom()

	sx := (ndcX + 1) / 2 * p.width / zoom
	sy := (1 - ndcY) / 2 * p.height / zoom
	return ebimath.V(sx, sy), true
}

// DepthScale 返回世界点相对相机距离的透视缩放系数
// 用于把世界空间中的粒子尺寸转换为屏幕尺寸；位于 reference 距离时为 1
func (p *Projector) DepthScale(world mgl64.Vec3, reference float64) float64 {
	d := world.Sub(p.camera.Eye).Len()
	if d <= 1e-6 {
		return 1
	}
	return reference / d
}

// ScreenDistance 屏幕空间两点距离
func ScreenDistance(a, b ebimath.Vector) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
