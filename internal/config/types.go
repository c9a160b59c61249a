package config

import (
	"encoding/json"
)

// Config: 运行期只读配置（一次解析，运行期不变）。
// JSON/YAML 使用 snake_case；未知字段在解析期失败。
type Config struct {
	// Input: 文件路径或 "-"（STDIN）。
	Input   string `json:"input"`
	MaxLen  int    `json:"max_len"`
	TopTags int    `json:"top_tags"`
	// IncludeAnchors: nil 表示未设置（合并时不覆盖）。
	IncludeAnchors *bool `json:"include_anchors,omitempty"`

	Output    Output    `json:"output"`
	Logging   Logging   `json:"logging"`
	Embedding Embedding `json:"embedding"`

	// 组件名选择（空则使用默认名）。
	Components Components `json:"components"`
	// 各组件 Options 子树，原样 JSON 传入工厂。
	Options Options `json:"options"`
}

// Output: 输出格式与可选的 Markdown 落盘路径。
type Output struct {
	// Format: json|markdown。
	Format string `json:"format"`
	// Path: 非空时 Markdown 同时写入该文件。
	Path string `json:"path"`
}

// Logging: 日志级别与轮转文件。
type Logging struct {
	Level      string `json:"level"`
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
}

// Embedding: 嵌入后端选择。
type Embedding struct {
	// Backend: static|none。
	Backend string `json:"backend"`
	// Model: 固定模型标识。
	Model string `json:"model"`
	// CacheDir: 本地模型缓存根目录。
	CacheDir string `json:"cache_dir"`
}

// Components: 组件名选择（注册表中的实现名）。
type Components struct {
	Reader     string `json:"reader"`
	Converter  string `json:"converter"`
	Normalizer string `json:"normalizer"`
	Segmenter  string `json:"segmenter"`
	Selector   string `json:"selector"`
	Tagger     string `json:"tagger"`
	Writer     string `json:"writer"`
}

// Options: 各组件的原样 JSON Options。
type Options struct {
	Reader     json.RawMessage `json:"reader,omitempty"`
	Converter  json.RawMessage `json:"converter,omitempty"`
	Normalizer json.RawMessage `json:"normalizer,omitempty"`
	Segmenter  json.RawMessage `json:"segmenter,omitempty"`
	Selector   json.RawMessage `json:"selector,omitempty"`
	Tagger     json.RawMessage `json:"tagger,omitempty"`
	Writer     json.RawMessage `json:"writer,omitempty"`
}

// Bool 返回指向 v 的指针。
func Bool(v bool) *bool { return &v }
