package game

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ViewerSettings 观看者偏好设置
// 全局设置，随 gdata 持久化
type ViewerSettings struct {
	// ShowFPS 是否显示帧率叠加层（F3 切换）
	ShowFPS bool `yaml:"showFPS"`
	// Fullscreen 启动时是否全屏（F11 切换）
	Fullscreen bool `yaml:"fullscreen"`
	// FrameRateOverride 强制目标帧率，0 表示按设备自动选择
	FrameRateOverride int `yaml:"frameRateOverride" validate:"omitempty,oneof=30 45 60"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() *ViewerSettings {
	return &ViewerSettings{
		ShowFPS:           false,
		Fullscreen:        false,
		FrameRateOverride: 0,
	}
}

// SettingsManager 设置管理器
// 负责观看者设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager  // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *ViewerSettings // 当前设置
	validate     *validator.Validate
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "viewer"
)

func newSettingsValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 保留给调用方检查（加载失败不会返回错误，只记录日志）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
		validate:     newSettingsValidator(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
//
// 返回：
//   - error: 如果反序列化或校验失败返回错误（此时回退到默认设置）
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if err := sm.validate.Struct(loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("invalid stored settings: %w", err)
	}

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *ViewerSettings {
	return sm.settings
}

// SetShowFPS 设置帧率叠加层开关
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetShowFPS(enabled bool) {
	sm.settings.ShowFPS = enabled
}

// SetFullscreen 设置全屏模式
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// frameRateCycle F9 依次切换的强制帧率，0 表示自动
var frameRateCycle = []int{0, 30, 45, 60}

// NextFrameRateOverride 返回切换循环中的下一个强制帧率
// 不在循环中的值回到自动
func NextFrameRateOverride(current int) int {
	for i, fps := range frameRateCycle {
		if fps == current {
			return frameRateCycle[(i+1)%len(frameRateCycle)]
		}
	}
	return 0
}

// CycleFrameRateOverride 切换到下一个强制帧率并返回新值
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) CycleFrameRateOverride() int {
	next := NextFrameRateOverride(sm.settings.FrameRateOverride)
	sm.settings.FrameRateOverride = next
	return next
}

// SetFrameRateOverride 设置强制帧率（0 表示自动）
// 只接受 0、30、45、60，其他值返回错误且不修改设置
func (sm *SettingsManager) SetFrameRateOverride(fps int) error {
	if err := sm.validate.Var(fps, "omitempty,oneof=30 45 60"); err != nil {
		return fmt.Errorf("unsupported frame rate %d: %w", fps, err)
	}
	sm.settings.FrameRateOverride = fps
	return nil
}
