package systems

import (
	"image/color"

	"github.com/gonewx/clubhero/pkg/components"
	"github.com/gonewx/clubhero/pkg/config"
	"github.com/gonewx/clubhero/pkg/ecs"
	"github.com/gonewx/clubhero/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
)

// particleSpriteRadius 预渲染圆盘的半径，绘制时按粒子半径缩放
const particleSpriteRadius = 8

// ParticleRenderSystem 背景粒子渲染系统
// 使用加法混合（BlendLighter）绘制粒子核心，半径大于 2 的粒子额外绘制光晕
type ParticleRenderSystem struct {
	entityManager   *ecs.EntityManager
	resourceManager *game.ResourceManager
	op              ebiten.DrawImageOptions
}

// NewParticleRenderSystem 创建粒子渲染系统
func NewParticleRenderSystem(em *ecs.EntityManager, rm *game.ResourceManager) *ParticleRenderSystem {
	return &ParticleRenderSystem{
		entityManager:   em,
		resourceManager: rm,
	}
}

// Draw 绘制所有背景粒子
// 表面或资源未就绪时静默跳过本帧
func (s *ParticleRenderSystem) Draw(screen *ebiten.Image) {
	if screen == nil || s.resourceManager == nil {
		return
	}
	sprite := s.resourceManager.DiscSprite(particleSpriteRadius)
	if sprite == nil {
		return
	}

	for _, id := range ecs.GetEntitiesWith1[*components.AmbientParticleComponent](s.entityManager) {
		p, _ := ecs.GetComponent[*components.AmbientParticleComponent](s.entityManager, id)

		if p.Radius > config.ParticleGlowRadiusThreshold {
			s.drawDisc(screen, sprite, p.X, p.Y,
				p.Radius*config.ParticleGlowRadiusScale,
				p.Opacity*config.ParticleGlowOpacityScale,
				config.ParticleGlowColor)
		}
		s.drawDisc(screen, sprite, p.X, p.Y, p.Radius, p.Opacity, config.ParticleCoreColor)
	}
}

func (s *ParticleRenderSystem) drawDisc(screen, sprite *ebiten.Image, x, y, radius, alpha float64, c color.Color) {
	half := float64(sprite.Bounds().Dx()) / 2
	scale := radius / particleSpriteRadius

	s.op.GeoM.Reset()
	s.op.GeoM.Translate(-half, -half)
	s.op.GeoM.Scale(scale, scale)
	s.op.GeoM.Translate(x, y)
	s.op.ColorScale.Reset()
	s.op.ColorScale.ScaleWithColor(c)
	s.op.ColorScale.ScaleAlpha(float32(alpha))
	s.op.Blend = ebiten.BlendLighter
	s.op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, &s.op)
}
