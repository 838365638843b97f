package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FormationConfig 立方体编队引擎的可调参数
//
// 配置文件位置: data/formation.yaml
// 文件中缺省的字段保持 DefaultFormationConfig 的默认值。
type FormationConfig struct {
	// HoverRadius 指针悬停判定半径（屏幕像素，严格小于）
	HoverRadius float64 `yaml:"hoverRadius" validate:"gt=0"`

	// FormationSpeed 编队进度的指数平滑速率（1/秒）
	FormationSpeed float64 `yaml:"formationSpeed" validate:"gt=0"`

	// FormedThreshold 编队进度超过该值视为"已成形"
	FormedThreshold float64 `yaml:"formedThreshold" validate:"gt=0,lt=1"`

	// CubeRevealDelayMs 立方体网格淡入所需时间（毫秒）
	CubeRevealDelayMs float64 `yaml:"cubeRevealDelayMs" validate:"gt=0"`

	// RotationSpeed 立方体自转角速度（弧度/秒）
	RotationSpeed float64 `yaml:"rotationSpeed" validate:"gte=0"`

	// DialogDelayMs 成形并持续悬停后触发揭示的延迟（毫秒）
	DialogDelayMs float64 `yaml:"dialogDelayMs" validate:"gt=0"`

	// CubeEdge 立方体边长（世界单位）
	CubeEdge float64 `yaml:"cubeEdge" validate:"gt=0"`

	// DefaultJitter 锚点未配置 jitter 时的散布幅度（世界单位）
	DefaultJitter float64 `yaml:"defaultJitter" validate:"gte=0"`

	// MinFloatAmplitude / MaxFloatAmplitude 漂浮噪声幅度范围（世界单位）
	MinFloatAmplitude float64 `yaml:"minFloatAmplitude" validate:"gte=0"`
	MaxFloatAmplitude float64 `yaml:"maxFloatAmplitude" validate:"gtefield=MinFloatAmplitude"`

	// BaseColor / FormedColor 粒子颜色（RGB，0~1），随编队进度插值
	BaseColor   [3]float64 `yaml:"baseColor" validate:"dive,gte=0,lte=1"`
	FormedColor [3]float64 `yaml:"formedColor" validate:"dive,gte=0,lte=1"`

	// LowIntensity / HighIntensity 颜色强度，随编队进度插值
	LowIntensity  float64 `yaml:"lowIntensity" validate:"gt=0"`
	HighIntensity float64 `yaml:"highIntensity" validate:"gtefield=LowIntensity"`
}

// DefaultFormationConfig 返回默认参数
func DefaultFormationConfig() FormationConfig {
	return FormationConfig{
		HoverRadius:       120,
		FormationSpeed:    8,
		FormedThreshold:   0.7,
		CubeRevealDelayMs: 300,
		RotationSpeed:     0.5,
		DialogDelayMs:     300,
		CubeEdge:          0.6,
		DefaultJitter:     0.25,
		MinFloatAmplitude: 0.05,
		MaxFloatAmplitude: 0.15,
		BaseColor:         [3]float64{0.45, 0.62, 1.0},
		FormedColor:       [3]float64{0.35, 1.0, 0.85},
		LowIntensity:      0.6,
		HighIntensity:     1.0,
	}
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate 验证参数有效性
func (c *FormationConfig) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid formation config: %w", err)
	}
	return nil
}

// ParseFormationConfig 从 YAML 数据解析编队参数
//
// 参数:
//   - data: YAML 内容；为空时直接返回默认值
//
// 返回:
//   - FormationConfig: 合并默认值后的配置
//   - error: 解析或验证失败时返回错误
func ParseFormationConfig(data []byte) (FormationConfig, error) {
	cfg := DefaultFormationConfig()
	if len(data) == 0 {
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FormationConfig{}, fmt.Errorf("failed to parse formation config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return FormationConfig{}, err
	}
	return cfg, nil
}
