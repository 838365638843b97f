package events

// Handler 事件处理函数
// seq 为总线分配的单调递增序号
type Handler func(seq uint64, e Event)

// Bus 事件总线
//
// 发布者调用 Publish 把事件放入队列，帧调度器在事件分发回调中调用 Flush，
// 按 FIFO 顺序把队列中的事件交给所有订阅者。
// 与帧循环同一协程运行，不加锁。
type Bus struct {
	queue       []queuedEvent
	subscribers []subscriber
	nextSeq     uint64
	nextSubID   int
}

type queuedEvent struct {
	seq   uint64
	event Event
}

type subscriber struct {
	id      int
	handler Handler
}

// NewBus 创建事件总线
func NewBus() *Bus {
	return &Bus{
		queue:   make([]queuedEvent, 0, 16),
		nextSeq: 1,
	}
}

// Publish 将事件加入队列，返回分配的序号
func (b *Bus) Publish(e Event) uint64 {
	seq := b.nextSeq
	b.nextSeq++
	b.queue = append(b.queue, queuedEvent{seq: seq, event: e})
	return seq
}

// Subscribe 注册订阅者，返回取消订阅函数（可重复调用）
func (b *Bus) Subscribe(h Handler) func() {
	b.nextSubID++
	id := b.nextSubID
	b.subscribers = append(b.subscribers, subscriber{id: id, handler: h})

	return func() {
		for i, s := range b.subscribers {
			if s.id == id {
				b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Pending 返回尚未分发的事件数量
func (b *Bus) Pending() int {
	return len(b.queue)
}

// Flush 分发队列中的所有事件，返回分发的事件数量
// 订阅者在处理过程中发布的新事件留到下一次 Flush
func (b *Bus) Flush() int {
	if len(b.queue) == 0 {
		return 0
	}

	batch := b.queue
	b.queue = make([]queuedEvent, 0, cap(batch))

	subs := make([]subscriber, len(b.subscribers))
	copy(subs, b.subscribers)

	for _, qe := range batch {
		for _, s := range subs {
			s.handler(qe.seq, qe.event)
		}
	}
	return len(batch)
}

// Reset 丢弃所有未分发事件并移除全部订阅者
// 场景卸载时调用
func (b *Bus) Reset() {
	b.queue = b.queue[:0]
	b.subscribers = nil
}
