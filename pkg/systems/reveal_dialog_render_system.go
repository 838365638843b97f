package systems

import (
	"image/color"

	"github.com/gonewx/clubhero/pkg/components"
	"github.com/gonewx/clubhero/pkg/config"
	"github.com/gonewx/clubhero/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// dialogOpenOffset 弹出动画起始时面板的下移距离（像素）
const dialogOpenOffset = 12.0

// RevealDialogRenderSystem 揭示对话框渲染系统
// 面板随 OpenProgress 淡入并上移，正文按展示层预先换好的行绘制
type RevealDialogRenderSystem struct {
	presenter *RevealDialogSystem
	titleFace text.Face
	bodyFace  text.Face
}

// NewRevealDialogRenderSystem 创建对话框渲染系统
func NewRevealDialogRenderSystem(presenter *RevealDialogSystem, titleFace, bodyFace text.Face) *RevealDialogRenderSystem {
	return &RevealDialogRenderSystem{
		presenter: presenter,
		titleFace: titleFace,
		bodyFace:  bodyFace,
	}
}

// Draw 绘制可见的对话框
func (s *RevealDialogRenderSystem) Draw(screen *ebiten.Image) {
	if screen == nil || s.presenter == nil {
		return
	}
	d := s.presenter.Dialog()
	if d == nil || !d.IsVisible {
		return
	}

	eased := utils.EaseOutCubic(utils.Clamp01(d.OpenProgress))
	alpha := float32(eased)
	x := float32(d.X)
	y := float32(d.Y + (1-eased)*dialogOpenOffset)
	w, h := float32(d.Width), float32(d.Height)

	vector.DrawFilledRect(screen, x, y, w, h, scaleAlpha(config.DialogBackgroundColor, alpha), true)
	vector.StrokeRect(screen, x, y, w, h, 1.5, scaleAlpha(config.DialogBorderColor, alpha*0.8), true)

	s.drawCloseButton(screen, d, y-float32(d.Y), alpha)

	pad := config.DialogPadding
	if s.titleFace != nil {
		op := &text.DrawOptions{}
		op.GeoM.Translate(d.X+pad, float64(y)+pad)
		op.ColorScale.ScaleWithColor(config.DialogTitleColor)
		op.ColorScale.ScaleAlpha(alpha)
		text.Draw(screen, d.Title, s.titleFace, op)
	}

	if s.bodyFace != nil {
		top := float64(y) + pad + dialogTitleHeight
		for i, line := range d.BodyLines {
			op := &text.DrawOptions{}
			op.GeoM.Translate(d.X+pad, top+float64(i)*config.DialogBodyLineSpacing)
			op.ColorScale.ScaleWithColor(config.DialogBodyColor)
			op.ColorScale.ScaleAlpha(alpha)
			text.Draw(screen, line, s.bodyFace, op)
		}
	}
}

// drawCloseButton 绘制右上角的 × 按钮
func (s *RevealDialogRenderSystem) drawCloseButton(screen *ebiten.Image, d *components.RevealDialogComponent, dy, alpha float32) {
	c := config.DialogCloseColor
	if d.CloseHovered {
		c = config.DialogCloseHoverColor
	}
	clr := scaleAlpha(c, alpha)

	inset := float32(d.CloseSize) * 0.28
	x0 := float32(d.CloseX) + inset
	y0 := float32(d.CloseY) + dy + inset
	x1 := float32(d.CloseX+d.CloseSize) - inset
	y1 := float32(d.CloseY+d.CloseSize) + dy - inset
	vector.StrokeLine(screen, x0, y0, x1, y1, 2, clr, true)
	vector.StrokeLine(screen, x0, y1, x1, y0, 2, clr, true)
}

// scaleAlpha 返回按 alpha 缩放后的预乘颜色
func scaleAlpha(c color.RGBA, alpha float32) color.RGBA {
	a := utils.Clamp01(float64(alpha))
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}
