package game

import (
	"math"
	"testing"
	"time"

	"github.com/gonewx/clubhero/pkg/utils"
)

// fakeRefreshSource 记录 Start/Stop 调用的刷新源
type fakeRefreshSource struct {
	tick   func(now time.Time)
	starts int
	stops  int
}

func (f *fakeRefreshSource) Start(tick func(now time.Time)) {
	f.tick = tick
	f.starts++
}

func (f *fakeRefreshSource) Stop() {
	f.tick = nil
	f.stops++
}

// advance 以 step 为间隔驱动 n 次刷新
func (f *fakeRefreshSource) advance(now *time.Time, step time.Duration, n int) {
	for i := 0; i < n; i++ {
		*now = now.Add(step)
		if f.tick != nil {
			f.tick(*now)
		}
	}
}

func TestFrameSchedulerRefCounting(t *testing.T) {
	src := &fakeRefreshSource{}
	s := NewFrameScheduler(src, 60)

	if s.Running() {
		t.Fatal("scheduler should be idle before any registration")
	}

	h1 := s.Register("a", PriorityHigh, 0, func(float64) {})
	h2 := s.Register("b", PriorityLow, 0, func(float64) {})
	if src.starts != 1 {
		t.Errorf("source started %d times, want 1", src.starts)
	}

	s.Unregister(h1)
	if !s.Running() || src.stops != 0 {
		t.Error("scheduler must keep running while callbacks remain")
	}

	s.Unregister(h2)
	if s.Running() || src.stops != 1 {
		t.Errorf("last unregister must stop the source (running=%v stops=%d)", s.Running(), src.stops)
	}

	s.Unregister(h2)
	if src.stops != 1 {
		t.Error("repeated Unregister must not stop the source again")
	}

	s.Register("c", PriorityMedium, 0, func(float64) {})
	if src.starts != 2 {
		t.Errorf("re-registration should restart the source, starts=%d", src.starts)
	}
}

func TestFrameSchedulerPriorityOrder(t *testing.T) {
	src := &fakeRefreshSource{}
	s := NewFrameScheduler(src, 60)

	var order []string
	s.Register("low", PriorityLow, 0, func(float64) { order = append(order, "low") })
	s.Register("medium", PriorityMedium, 0, func(float64) { order = append(order, "medium") })
	s.Register("high", PriorityHigh, 0, func(float64) { order = append(order, "high") })

	now := time.Unix(0, 0)
	// 第一次 tick 只记录时间
	src.advance(&now, time.Second/60, 1)
	// 3 个间隔后 Low 第一次执行
	src.advance(&now, time.Second/60, 3)

	want := []string{"high", "medium", "high", "medium", "high", "medium", "low"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestFrameSchedulerFrameSkip(t *testing.T) {
	tests := []struct {
		name      string
		priority  Priority
		frameSkip int
		intervals int
		wantCalls int
	}{
		{"High 每个间隔执行", PriorityHigh, 5, 12, 12},
		{"Medium 无跳帧", PriorityMedium, 0, 12, 12},
		{"Medium 跳 1 帧", PriorityMedium, 1, 12, 6},
		{"Medium 跳 3 帧", PriorityMedium, 3, 12, 3},
		{"Low 最小跳 2 帧", PriorityLow, 0, 12, 4},
		{"Low 跳 5 帧", PriorityLow, 5, 12, 2},
		{"负跳帧按 0 处理", PriorityMedium, -4, 12, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeRefreshSource{}
			s := NewFrameScheduler(src, 60)
			calls := 0
			s.Register(tt.name, tt.priority, tt.frameSkip, func(float64) { calls++ })

			now := time.Unix(0, 0)
			src.advance(&now, time.Second/60, 1)
			src.advance(&now, time.Second/60, tt.intervals)

			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestFrameSchedulerCallbackDeltaTime(t *testing.T) {
	src := &fakeRefreshSource{}
	s := NewFrameScheduler(src, 60)

	var lowDts []float64
	s.Register("low", PriorityLow, 0, func(dt float64) { lowDts = append(lowDts, dt) })

	now := time.Unix(0, 0)
	src.advance(&now, time.Second/60, 1)
	src.advance(&now, time.Second/60, 6)

	if len(lowDts) != 2 {
		t.Fatalf("low callback ran %d times, want 2", len(lowDts))
	}
	want := 3.0 / 60.0
	for i, dt := range lowDts {
		if math.Abs(dt-want) > 1e-6 {
			t.Errorf("dt[%d] = %v, want %v (time since own last call)", i, dt, want)
		}
	}
}

func TestFrameSchedulerCapsLargeDelta(t *testing.T) {
	src := &fakeRefreshSource{}
	s := NewFrameScheduler(src, 60)
	calls := 0
	s.Register("high", PriorityHigh, 0, func(float64) { calls++ })

	now := time.Unix(0, 0)
	src.advance(&now, 0, 1)
	// 10 秒的停顿只计入 100ms
	src.advance(&now, 10*time.Second, 1)

	if calls != 6 {
		t.Errorf("calls = %d, want 6 (100ms at 60 fps)", calls)
	}
}

func TestFrameSchedulerUnregisterDuringCallback(t *testing.T) {
	src := &fakeRefreshSource{}
	s := NewFrameScheduler(src, 60)

	var second Handle
	secondCalls := 0
	s.Register("first", PriorityHigh, 0, func(float64) { s.Unregister(second) })
	second = s.Register("second", PriorityHigh, 0, func(float64) { secondCalls++ })

	now := time.Unix(0, 0)
	src.advance(&now, time.Second/60, 1)
	src.advance(&now, time.Second/60, 3)

	if secondCalls != 0 {
		t.Errorf("unregistered callback ran %d times", secondCalls)
	}
}

func TestTargetFPSForDevice(t *testing.T) {
	tests := []struct {
		name    string
		profile utils.DeviceProfile
		want    int
	}{
		{"低内存", utils.DeviceProfile{Cores: 8, MemoryGB: 2}, 30},
		{"双核", utils.DeviceProfile{Cores: 2, MemoryGB: 16}, 30},
		{"高端", utils.DeviceProfile{Cores: 8, MemoryGB: 16}, 60},
		{"高端内存未知", utils.DeviceProfile{Cores: 12}, 60},
		{"中端", utils.DeviceProfile{Cores: 4, MemoryGB: 8}, 45},
		{"8核6GB", utils.DeviceProfile{Cores: 8, MemoryGB: 6}, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TargetFPSForDevice(tt.profile); got != tt.want {
				t.Errorf("TargetFPSForDevice(%+v) = %d, want %d", tt.profile, got, tt.want)
			}
		})
	}
}

func TestAdjustForMeasuredFPS(t *testing.T) {
	tests := []struct {
		name        string
		start       int
		measured    float64
		wantTarget  int
		wantChanged bool
	}{
		{"过慢降到 30", 60, 20, 30, true},
		{"已是 30 不变", 30, 20, 30, false},
		{"流畅升到 60", 45, 58, 60, true},
		{"已是 60 不变", 60, 59, 60, false},
		{"中间区间不变", 45, 40, 45, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewFrameScheduler(nil, tt.start)
			changed := s.AdjustForMeasuredFPS(tt.measured)
			if changed != tt.wantChanged || s.TargetFPS() != tt.wantTarget {
				t.Errorf("got (changed=%v, target=%d), want (%v, %d)", changed, s.TargetFPS(), tt.wantChanged, tt.wantTarget)
			}
		})
	}
}

func TestHostRefreshSource(t *testing.T) {
	host := &HostRefreshSource{}
	s := NewFrameScheduler(host, 60)

	calls := 0
	h := s.Register("high", PriorityHigh, 0, func(float64) { calls++ })
	if !host.Active() {
		t.Fatal("host source should be active after registration")
	}

	now := time.Unix(0, 0)
	host.Pump(now)
	host.Pump(now.Add(time.Second / 30))
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}

	s.Unregister(h)
	if host.Active() {
		t.Error("host source should be inactive after last unregister")
	}
	host.Pump(now.Add(time.Second)) // 不应 panic
}
