package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a screen of the application (the hero backdrop).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update pumps the scene for one host frame.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	// screen is the target image where the scene should be drawn.
	Draw(screen *ebiten.Image)
}

// Resizable 是一个可选接口，渲染表面尺寸变化时被调用
type Resizable interface {
	Resize(width, height int)
}

// Unmountable 是一个可选接口，用于场景卸载时释放资源
//
// 实现此接口的场景会在以下时机被调用 Unmount()：
//   - 切换到其他场景
//   - 窗口关闭
//   - 初始化中途失败
//
// Unmount 必须是幂等的。
type Unmountable interface {
	Unmount()
}
