package systems

import (
	"log"
	"math"

	"github.com/gonewx/clubhero/pkg/components"
	"github.com/gonewx/clubhero/pkg/config"
	"github.com/gonewx/clubhero/pkg/ecs"
	"github.com/gonewx/clubhero/pkg/events"
	"github.com/gonewx/clubhero/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	// dialogOpenDuration 弹出动画时长（秒）
	dialogOpenDuration = 0.18
	// dialogTitleHeight 标题行高度（像素）
	dialogTitleHeight = 28.0
)

// DialogInput 对话框关闭操作的输入来源
type DialogInput interface {
	// EscapePressed 本帧是否按下 Escape
	EscapePressed() bool
	// JustClicked 本帧是否发生点击/触摸，以及位置
	JustClicked() (bool, float64, float64)
}

// EbitenDialogInput 基于 ebiten 的对话框输入
type EbitenDialogInput struct{}

// EscapePressed 实现 DialogInput
func (EbitenDialogInput) EscapePressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}

// JustClicked 实现 DialogInput
func (EbitenDialogInput) JustClicked() (bool, float64, float64) {
	clicked, x, y := utils.IsJustClicked()
	return clicked, float64(x), float64(y)
}

// RevealDialogSystem 揭示对话框展示层
//
// 通过事件总线消费 ShowReveal / CloseReveal，与模拟帧率解耦。
// 三种关闭方式（对应锚点的 CloseReveal、关闭按钮、Escape）收敛到同一个隐藏状态；
// 面板最终位置与视口各边至少保持 DialogMargin 的距离。
type RevealDialogSystem struct {
	entityManager *ecs.EntityManager
	dialogEntity  ecs.EntityID
	measure       utils.MeasureFunc
	input         DialogInput

	viewportWidth  float64
	viewportHeight float64

	// pending 视口尚未就绪时收到的 ShowReveal
	pending *events.ShowReveal
}

// NewRevealDialogSystem 创建对话框展示层
// measure 用于正文换行；input 为 nil 时使用 ebiten 输入
func NewRevealDialogSystem(em *ecs.EntityManager, dialogEntity ecs.EntityID, measure utils.MeasureFunc, input DialogInput) *RevealDialogSystem {
	if input == nil {
		input = EbitenDialogInput{}
	}
	return &RevealDialogSystem{
		entityManager: em,
		dialogEntity:  dialogEntity,
		measure:       measure,
		input:         input,
	}
}

// Subscribe 订阅事件总线，返回取消订阅函数
func (s *RevealDialogSystem) Subscribe(bus *events.Bus) func() {
	return bus.Subscribe(func(_ uint64, e events.Event) {
		switch ev := e.(type) {
		case events.ShowReveal:
			s.Show(ev)
		case events.CloseReveal:
			s.CloseFor(ev.AnchorID)
		}
	})
}

func (s *RevealDialogSystem) dialog() *components.RevealDialogComponent {
	d, ok := ecs.GetComponent[*components.RevealDialogComponent](s.entityManager, s.dialogEntity)
	if !ok {
		return nil
	}
	return d
}

// Dialog 返回对话框组件（测试与渲染使用）
func (s *RevealDialogSystem) Dialog() *components.RevealDialogComponent {
	return s.dialog()
}

// Visible 对话框是否可见
func (s *RevealDialogSystem) Visible() bool {
	d := s.dialog()
	return d != nil && d.IsVisible
}

// Resize 更新视口尺寸并重新夹取可见对话框
func (s *RevealDialogSystem) Resize(width, height int) {
	s.viewportWidth = float64(width)
	s.viewportHeight = float64(height)

	if s.pending != nil && width > 0 && height > 0 {
		ev := *s.pending
		s.pending = nil
		s.Show(ev)
		return
	}
	if d := s.dialog(); d != nil && d.IsVisible {
		s.clamp(d)
	}
}

// Show 按事件内容展示（或替换）对话框
func (s *RevealDialogSystem) Show(ev events.ShowReveal) {
	d := s.dialog()
	if d == nil {
		return
	}
	if s.viewportWidth <= 0 || s.viewportHeight <= 0 {
		s.pending = &ev
		return
	}

	d.AnchorID = ev.AnchorID
	d.Title = ev.Title
	d.Body = ev.Body
	d.Side = string(ev.Side)
	d.Width = config.DialogWidth
	d.BodyLines = utils.WrapText(ev.Body, s.measure, d.Width-2*config.DialogPadding)
	d.Height = math.Max(config.DialogMinHeight,
		2*config.DialogPadding+dialogTitleHeight+float64(len(d.BodyLines))*config.DialogBodyLineSpacing)

	// 左侧：面板右边缘对齐锚定点；右侧：左边缘对齐
	if ev.Side == events.SideLeft {
		d.X = ev.ScreenPosition.X - d.Width
	} else {
		d.X = ev.ScreenPosition.X
	}
	d.Y = ev.ScreenPosition.Y - d.Height/2
	s.clamp(d)

	d.IsVisible = true
	d.OpenProgress = 0
	d.CloseHovered = false
	log.Printf("[RevealDialog] show %q at (%.0f, %.0f) side=%s", ev.AnchorID, d.X, d.Y, d.Side)
}

// clamp 将面板限制在视口内，并更新关闭按钮位置
func (s *RevealDialogSystem) clamp(d *components.RevealDialogComponent) {
	d.X = clampPanel(d.X, d.Width, s.viewportWidth, config.DialogMargin)
	d.Y = clampPanel(d.Y, d.Height, s.viewportHeight, config.DialogMargin)

	d.CloseSize = config.DialogCloseButtonSize
	d.CloseX = d.X + d.Width - config.DialogPadding/2 - d.CloseSize
	d.CloseY = d.Y + config.DialogPadding/2
}

// clampPanel 将一维区间 [pos, pos+size] 限制在 [margin, limit-margin] 内
// 视口放不下面板时贴靠起始边距
func clampPanel(pos, size, limit, margin float64) float64 {
	maxPos := limit - margin - size
	if pos > maxPos {
		pos = maxPos
	}
	if pos < margin {
		pos = margin
	}
	return pos
}

// CloseFor 关闭指定锚点的对话框；其他锚点的 CloseReveal 不影响当前对话框
func (s *RevealDialogSystem) CloseFor(anchorID string) {
	d := s.dialog()
	if s.pending != nil && s.pending.AnchorID == anchorID {
		s.pending = nil
	}
	if d == nil || !d.IsVisible || d.AnchorID != anchorID {
		return
	}
	s.Close()
}

// Close 隐藏对话框（幂等）
func (s *RevealDialogSystem) Close() {
	s.pending = nil
	d := s.dialog()
	if d == nil || !d.IsVisible {
		return
	}
	log.Printf("[RevealDialog] close %q", d.AnchorID)
	d.IsVisible = false
	d.OpenProgress = 0
	d.CloseHovered = false
}

// HandleInput 处理关闭按钮与 Escape
// 每个宿主帧调用一次（just-pressed 状态只持续一帧）
func (s *RevealDialogSystem) HandleInput(pointer *utils.PointerState) {
	d := s.dialog()
	if d == nil || !d.IsVisible {
		return
	}

	if pointer != nil {
		d.CloseHovered = pointer.Active && s.insideCloseButton(d, pointer.X, pointer.Y)
	}

	if s.input.EscapePressed() {
		s.Close()
		return
	}
	if clicked, x, y := s.input.JustClicked(); clicked && s.insideCloseButton(d, x, y) {
		s.Close()
	}
}

func (s *RevealDialogSystem) insideCloseButton(d *components.RevealDialogComponent, x, y float64) bool {
	return x >= d.CloseX && x <= d.CloseX+d.CloseSize &&
		y >= d.CloseY && y <= d.CloseY+d.CloseSize
}

// Update 推进弹出动画
func (s *RevealDialogSystem) Update(dt float64) {
	d := s.dialog()
	if d == nil || !d.IsVisible {
		return
	}
	d.OpenProgress = utils.Clamp01(d.OpenProgress + math.Max(dt, 0)/dialogOpenDuration)
}
