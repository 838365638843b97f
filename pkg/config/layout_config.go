package config

import "image/color"

// 布局配置常量
// 本文件定义窗口尺寸、相机参数以及揭示对话框的布局参数

// Window Configuration (窗口配置)
const (
	// DefaultWindowWidth 桌面端默认窗口宽度（逻辑像素）
	DefaultWindowWidth = 1280

	// DefaultWindowHeight 桌面端默认窗口高度（逻辑像素）
	DefaultWindowHeight = 720

	// WindowTitle 窗口标题
	WindowTitle = "Tech Club"
)

// Camera Configuration (相机配置)
// 世界坐标系：X 向右，Y 向上，Z 指向观察者；锚点位于 z≈0 平面附近
const (
	// CameraFovYDegrees 垂直视场角（度）
	CameraFovYDegrees = 50.0

	// CameraDistance 相机到原点的距离（沿 +Z）
	CameraDistance = 6.0

	// CameraNear 近裁剪面
	CameraNear = 0.1

	// CameraFar 远裁剪面
	CameraFar = 100.0
)

// Reveal Dialog Layout (揭示对话框布局)
const (
	// DialogWidth 对话框宽度（像素）
	DialogWidth = 320.0

	// DialogMinHeight 对话框最小高度（像素），正文较长时向下扩展
	DialogMinHeight = 140.0

	// DialogMargin 对话框与视口边缘的最小距离（像素）
	DialogMargin = 16.0

	// DialogAnchorGap 对话框与锚点屏幕位置之间的水平间距（像素）
	// 正 X 锚点的对话框放在左侧，偏移量为 -DialogAnchorGap
	DialogAnchorGap = 48.0

	// DialogPadding 对话框内边距（像素）
	DialogPadding = 18.0

	// DialogCloseButtonSize 关闭按钮的边长（像素）
	DialogCloseButtonSize = 22.0

	// DialogTitleFontSize 标题字号
	DialogTitleFontSize = 20.0

	// DialogBodyFontSize 正文字号
	DialogBodyFontSize = 15.0

	// DialogBodyLineSpacing 正文行距（像素）
	DialogBodyLineSpacing = 21.0
)

// Reveal Dialog Colors (揭示对话框配色)
var (
	// DialogBackgroundColor 面板底色（半透明深蓝）
	DialogBackgroundColor = color.RGBA{R: 14, G: 20, B: 44, A: 230}
	// DialogBorderColor 面板描边
	DialogBorderColor = color.RGBA{R: 96, G: 200, B: 255, A: 255}
	// DialogTitleColor 标题文字
	DialogTitleColor = color.RGBA{R: 235, G: 245, B: 255, A: 255}
	// DialogBodyColor 正文文字
	DialogBodyColor = color.RGBA{R: 180, G: 196, B: 220, A: 255}
	// DialogCloseColor / DialogCloseHoverColor 关闭按钮
	DialogCloseColor      = color.RGBA{R: 140, G: 160, B: 190, A: 255}
	DialogCloseHoverColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)
