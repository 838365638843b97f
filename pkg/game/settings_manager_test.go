package game

import (
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// openTestGdata 在临时目录中创建 gdata manager
func openTestGdata(t *testing.T, appName string) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_DATA_HOME", tempDir)

	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return m
}

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()
	if settings == nil {
		t.Fatal("DefaultSettings() returned nil")
	}
	if settings.ShowFPS {
		t.Error("ShowFPS: got true, want false")
	}
	if settings.Fullscreen {
		t.Error("Fullscreen: got true, want false")
	}
	if settings.FrameRateOverride != 0 {
		t.Errorf("FrameRateOverride: got %d, want 0", settings.FrameRateOverride)
	}
}

// TestNewSettingsManagerNilGdata 测试 gdataManager 为 nil 时的降级场景
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm, err := NewSettingsManager(nil)
	if err != nil {
		t.Fatalf("NewSettingsManager(nil) error: %v", err)
	}
	if sm.GetSettings() == nil {
		t.Fatal("GetSettings() returned nil in degraded mode")
	}

	sm.SetShowFPS(true)
	if err := sm.Save(); err != nil {
		t.Errorf("Save() in degraded mode should be a no-op, got %v", err)
	}
}

// TestSettingsLoadSave 测试 Load() 和 Save() 往返
func TestSettingsLoadSave(t *testing.T) {
	gdataManager := openTestGdata(t, "clubhero_test_settings")

	sm1, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager() error: %v", err)
	}
	sm1.SetShowFPS(true)
	sm1.SetFullscreen(true)
	if err := sm1.SetFrameRateOverride(45); err != nil {
		t.Fatalf("SetFrameRateOverride(45) error: %v", err)
	}
	if err := sm1.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	sm2, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager() error on reload: %v", err)
	}
	settings := sm2.GetSettings()
	if !settings.ShowFPS || !settings.Fullscreen || settings.FrameRateOverride != 45 {
		t.Errorf("reloaded settings mismatch: %+v", *settings)
	}
}

// TestSettingsLoadInvalidStored 测试存储内容非法时回退到默认设置
func TestSettingsLoadInvalidStored(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"非法 YAML", "showFPS: [unterminated"},
		{"不支持的帧率", "frameRateOverride: 144\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gdataManager := openTestGdata(t, "clubhero_test_invalid")
			if err := gdataManager.SaveObjectProp(settingsObject, settingsProperty, []byte(tt.data)); err != nil {
				t.Fatalf("SaveObjectProp: %v", err)
			}

			sm := &SettingsManager{gdataManager: gdataManager, settings: DefaultSettings()}
			sm.validate = newSettingsValidator()
			if err := sm.Load(); err == nil {
				t.Error("expected Load() to fail")
			}
			if *sm.GetSettings() != *DefaultSettings() {
				t.Errorf("settings should fall back to defaults, got %+v", *sm.GetSettings())
			}
		})
	}
}

func TestSetFrameRateOverride(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	tests := []struct {
		fps     int
		wantErr bool
	}{
		{0, false},
		{30, false},
		{45, false},
		{60, false},
		{144, true},
		{-1, true},
	}
	for _, tt := range tests {
		err := sm.SetFrameRateOverride(tt.fps)
		if (err != nil) != tt.wantErr {
			t.Errorf("SetFrameRateOverride(%d) error = %v, wantErr %v", tt.fps, err, tt.wantErr)
		}
		if err == nil && sm.GetSettings().FrameRateOverride != tt.fps {
			t.Errorf("FrameRateOverride = %d, want %d", sm.GetSettings().FrameRateOverride, tt.fps)
		}
	}
}

func TestNextFrameRateOverride(t *testing.T) {
	tests := []struct {
		name    string
		current int
		want    int
	}{
		{"自动到 30", 0, 30},
		{"30 到 45", 30, 45},
		{"45 到 60", 45, 60},
		{"60 回到自动", 60, 0},
		{"未知值回到自动", 144, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextFrameRateOverride(tt.current); got != tt.want {
				t.Errorf("NextFrameRateOverride(%d) = %d, want %d", tt.current, got, tt.want)
			}
		})
	}
}

func TestCycleFrameRateOverridePersists(t *testing.T) {
	gdataManager := openTestGdata(t, "clubhero_test_cycle")

	sm1, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager: %v", err)
	}
	var got []int
	for i := 0; i < 2; i++ {
		got = append(got, sm1.CycleFrameRateOverride())
	}
	if got[0] != 30 || got[1] != 45 {
		t.Fatalf("cycle = %v, want [30 45]", got)
	}
	if err := sm1.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	sm2, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager: %v", err)
	}
	if fps := sm2.GetSettings().FrameRateOverride; fps != 45 {
		t.Errorf("reloaded FrameRateOverride = %d, want 45", fps)
	}
	if err := sm2.SetFrameRateOverride(sm2.CycleFrameRateOverride()); err != nil {
		t.Errorf("cycled value must pass validation: %v", err)
	}
}
