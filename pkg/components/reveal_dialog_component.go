package components

// RevealDialogComponent 揭示对话框组件
// 由对话框系统根据 ShowReveal/CloseReveal 事件维护
type RevealDialogComponent struct {
	AnchorID string
	Title    string
	Body     string
	// BodyLines 按面板宽度换行后的正文
	BodyLines []string

	// X, Y 面板左上角（已按边距夹取）
	X, Y          float64
	Width, Height float64
	// Side 面板位于锚点的哪一侧（"left" / "right"）
	Side string

	IsVisible bool
	// OpenProgress 弹出动画进度 [0,1]
	OpenProgress float64

	// 关闭按钮（相对屏幕）
	CloseX, CloseY, CloseSize float64
	CloseHovered              bool
}
