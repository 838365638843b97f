// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerState 指针共享状态
// 由 PointerBridge 写入，编队引擎每帧读取
// Active=false 时 X/Y 保留最后一次已知位置
type PointerState struct {
	X, Y   float64
	Active bool
}

// PointerSource 宿主输入来源
// 桌面端与移动端由 EbitenPointerSource 实现，测试使用假实现
type PointerSource interface {
	// CursorPosition 鼠标位置（逻辑像素）
	CursorPosition() (int, int)
	// Focused 窗口是否拥有焦点
	Focused() bool
	// TouchPositions 返回当前所有活动触摸点的位置（按 ID 顺序）
	TouchPositions() [][2]int
	// JustReleasedTouch 本帧是否有触摸结束
	JustReleasedTouch() bool
}

// EbitenPointerSource 基于 ebiten 的输入来源
type EbitenPointerSource struct {
	touchIDs []ebiten.TouchID
	released []ebiten.TouchID
}

// CursorPosition 实现 PointerSource
func (s *EbitenPointerSource) CursorPosition() (int, int) {
	return ebiten.CursorPosition()
}

// Focused 实现 PointerSource
func (s *EbitenPointerSource) Focused() bool {
	return ebiten.IsFocused()
}

// TouchPositions 实现 PointerSource
func (s *EbitenPointerSource) TouchPositions() [][2]int {
	s.touchIDs = ebiten.AppendTouchIDs(s.touchIDs[:0])
	if len(s.touchIDs) == 0 {
		return nil
	}
	positions := make([][2]int, 0, len(s.touchIDs))
	for _, id := range s.touchIDs {
		x, y := ebiten.TouchPosition(id)
		positions = append(positions, [2]int{x, y})
	}
	return positions
}

// JustReleasedTouch 实现 PointerSource
func (s *EbitenPointerSource) JustReleasedTouch() bool {
	s.released = inpututil.AppendJustReleasedTouchIDs(s.released[:0])
	return len(s.released) > 0
}

// PointerBridge 将宿主输入转换为 PointerState
//
// 规则：
//   - 触摸开始/移动：位置取第一个触摸点，Active=true
//   - 触摸结束：Active=false，保留位置
//   - 失去焦点或鼠标离开渲染表面：Active=false，保留位置
//   - 鼠标在表面内移动：Active=true
//
// 初始状态为 Active=false；第一次 Poll 只记录鼠标位置。
type PointerBridge struct {
	source   PointerSource
	state    *PointerState
	touching bool
	lastX    int
	lastY    int
	hasLast  bool
}

// NewPointerBridge 创建输入桥
// state 由调用方持有并注入编队引擎
func NewPointerBridge(source PointerSource, state *PointerState) *PointerBridge {
	if source == nil {
		source = &EbitenPointerSource{}
	}
	return &PointerBridge{source: source, state: state}
}

// State 返回被写入的共享状态
func (b *PointerBridge) State() *PointerState {
	return b.state
}

// Poll 读取本帧输入并更新共享状态
// width/height 为渲染表面的逻辑尺寸
func (b *PointerBridge) Poll(width, height int) {
	if b.state == nil {
		return
	}

	// 触摸优先
	if touches := b.source.TouchPositions(); len(touches) > 0 {
		b.touching = true
		b.state.X = float64(touches[0][0])
		b.state.Y = float64(touches[0][1])
		b.state.Active = true
		return
	}
	if b.touching || b.source.JustReleasedTouch() {
		// 触摸结束：保留最后位置，指针失活
		b.touching = false
		b.state.Active = false
		// 记录当前鼠标位置，避免触摸模拟的鼠标坐标立即重新激活
		b.lastX, b.lastY = b.source.CursorPosition()
		b.hasLast = true
		return
	}

	if !b.source.Focused() {
		b.state.Active = false
		return
	}

	// 宿主没有离开事件：只能通过失焦或越界坐标判定离开
	x, y := b.source.CursorPosition()
	if x < 0 || y < 0 || x >= width || y >= height {
		b.state.Active = false
		b.lastX, b.lastY, b.hasLast = x, y, true
		return
	}

	moved := b.hasLast && (x != b.lastX || y != b.lastY)
	b.lastX, b.lastY, b.hasLast = x, y, true
	if !moved {
		return
	}

	b.state.X = float64(x)
	b.state.Y = float64(y)
	b.state.Active = true
}

// IsJustClicked 检查本帧是否发生点击或触摸
// 返回是否点击以及点击位置
func IsJustClicked() (bool, int, int) {
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}

	return false, 0, 0
}
