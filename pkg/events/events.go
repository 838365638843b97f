// Package events 定义编队引擎发出的离散事件以及事件总线
//
// 编队引擎只在状态转换时发布事件（不会每帧发布），
// 展示层（揭示对话框、WebSocket 桥、事件日志）通过订阅总线消费，
// 从而把模拟帧率与 UI 刷新解耦。
package events

import (
	"encoding/json"
	"fmt"
)

// Type 事件类型
type Type string

const (
	// TypeShowReveal 持续悬停后揭示锚点内容
	TypeShowReveal Type = "showReveal"
	// TypeCloseReveal 悬停结束，关闭揭示（幂等）
	TypeCloseReveal Type = "closeReveal"
	// TypeHoverChanged 悬停目标或成形状态发生变化
	TypeHoverChanged Type = "hoverChanged"
)

// Side 对话框相对锚点的放置方向
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// ScreenPoint 屏幕坐标（像素）
type ScreenPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Event 所有事件的公共接口
type Event interface {
	EventType() Type
}

// ShowReveal 揭示事件
type ShowReveal struct {
	AnchorID string `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	// AnchorScreen 锚点投影后的屏幕位置
	AnchorScreen ScreenPoint `json:"anchorScreen"`
	// OffsetX 对话框锚定点相对锚点的水平偏移；正 X 锚点为负（放在左侧）
	OffsetX float64 `json:"offsetX"`
	// ScreenPosition = AnchorScreen + OffsetX
	ScreenPosition ScreenPoint `json:"screenPosition"`
	Side           Side        `json:"side"`
}

// CloseReveal 关闭揭示事件
type CloseReveal struct {
	AnchorID string `json:"id"`
}

// HoverChanged 悬停变化事件
// AnchorID 与 ScreenPosition 在悬停结束时为 nil
type HoverChanged struct {
	AnchorID       *string      `json:"id"`
	ScreenPosition *ScreenPoint `json:"screenPosition"`
	IsFormed       bool         `json:"isFormed"`
}

func (ShowReveal) EventType() Type   { return TypeShowReveal }
func (CloseReveal) EventType() Type  { return TypeCloseReveal }
func (HoverChanged) EventType() Type { return TypeHoverChanged }

// Envelope 事件的线上表示（WebSocket 桥和事件日志共用）
type Envelope struct {
	Type    Type            `json:"type"`
	Seq     uint64          `json:"seq"`
	Payload json.RawMessage `json:"payload"`
}

// Wrap 把事件编码为 Envelope
func Wrap(seq uint64, e Event) (Envelope, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to encode %s event: %w", e.EventType(), err)
	}
	return Envelope{Type: e.EventType(), Seq: seq, Payload: payload}, nil
}

// Unwrap 把 Envelope 解码回具体事件
func Unwrap(env Envelope) (Event, error) {
	switch env.Type {
	case TypeShowReveal:
		var e ShowReveal
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", env.Type, err)
		}
		return e, nil
	case TypeCloseReveal:
		var e CloseReveal
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", env.Type, err)
		}
		return e, nil
	case TypeHoverChanged:
		var e HoverChanged
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", env.Type, err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", env.Type)
	}
}
