package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// AnchorConfig 锚点配置
//
// 锚点是世界空间中的固定点，每个锚点周围有一组 8 个粒子组成的簇，
// 指针悬停时簇聚合成立方体并揭示标题/正文。
// 进程生命周期内不可变，启动时从 data/anchors.yaml 加载一次。
type AnchorConfig struct {
	// ID 锚点标识
	ID string `yaml:"id" json:"id"`

	// Position 世界坐标 [x, y, z]
	Position [3]float64 `yaml:"position" json:"position"`

	// Jitter 可选的散布幅度；nil 表示使用 FormationConfig.DefaultJitter
	Jitter *float64 `yaml:"jitter,omitempty" json:"jitter,omitempty"`

	// Title / Body 揭示对话框显示的内容
	Title string `yaml:"title" json:"title"`
	Body  string `yaml:"body" json:"body"`
}

// JitterOr 返回锚点的散布幅度，未配置时返回 fallback
func (a AnchorConfig) JitterOr(fallback float64) float64 {
	if a.Jitter == nil {
		return fallback
	}
	return *a.Jitter
}

// anchorsFile anchors.yaml 的顶层结构
type anchorsFile struct {
	Anchors []AnchorConfig `yaml:"anchors"`
}

//go:embed anchors.schema.json
var anchorsSchemaJSON string

const anchorsSchemaURL = "anchors.schema.json"

var anchorsSchema = jsonschema.MustCompileString(anchorsSchemaURL, anchorsSchemaJSON)

// LoadAnchorsFile 从文件系统路径加载锚点配置
// 用于 cmd/validate_anchors 和 --anchors 参数
func LoadAnchorsFile(path string) ([]AnchorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read anchors config: %w", err)
	}
	return ParseAnchors(data)
}

// ParseAnchors 解析并验证锚点配置
//
// 验证分两步：
//  1. 文档结构按 anchors.schema.json 校验（字段类型、必填项、position 长度）
//  2. 语义校验：ID 唯一
//
// 参数:
//   - data: YAML 内容
//
// 返回:
//   - []AnchorConfig: 按文件顺序排列的锚点
//   - error: 解析或验证失败时返回错误
func ParseAnchors(data []byte) ([]AnchorConfig, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse anchors config: %w", err)
	}

	doc, err := toJSONDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize anchors config: %w", err)
	}
	if err := anchorsSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("anchors config does not match schema: %w", err)
	}

	var file anchorsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode anchors config: %w", err)
	}

	seen := make(map[string]bool, len(file.Anchors))
	for i := range file.Anchors {
		a := &file.Anchors[i]
		a.Title = strings.TrimSpace(a.Title)
		a.Body = strings.TrimSpace(a.Body)
		if seen[a.ID] {
			return nil, fmt.Errorf("duplicate anchor id %q", a.ID)
		}
		seen[a.ID] = true
	}

	return file.Anchors, nil
}

// toJSONDocument 将 YAML 解码结果转换为 JSON 数据模型
// （map[string]interface{} / []interface{} / json.Number），供 jsonschema 校验
func toJSONDocument(v interface{}) (interface{}, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}
