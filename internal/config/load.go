package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"textdigest/pkg/contract"
)

// ENV 前缀。
const EnvPrefix = "TEXTDIGEST_"

// 工作目录下按顺序探测的默认配置文件。
var defaultFiles = []string{"textdigest.json", "textdigest.yaml", "textdigest.yml"}

// Defaults 返回带有安全默认值的 Config 雏形。
func Defaults() Config {
	return Config{
		MaxLen:  450,
		TopTags: 8,
		Output:  Output{Format: "json"},
		Logging: Logging{Level: "info"},
		Embedding: Embedding{
			Backend: "static",
			Model:   "all-MiniLM-L6-v2",
		},
		Components: Components{
			Reader:     "fs",
			Converter:  "auto",
			Normalizer: "markdown",
			Segmenter:  "punct",
			Selector:   "greedy",
			Tagger:     "frequency",
			Writer:     "fs",
		},
	}
}

// LoadJSON 从文件路径或原始 JSON 解析 Config（严格拒绝未知字段）。
func LoadJSON(path string, raw []byte) (Config, error) {
	var cfg Config
	var r io.Reader
	switch {
	case len(raw) > 0:
		r = bytes.NewReader(raw)
	case path != "":
		f, err := os.Open(path)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		r = f
	default:
		return cfg, errors.New("no config source provided")
	}
	return decodeStrict(r, sourceName(path, raw))
}

func decodeStrict(r io.Reader, src string) (Config, error) {
	var cfg Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %v: %w", src, err, contract.ErrConfig)
	}
	return cfg, nil
}

// LoadYAML 解析 YAML 配置：先转为 JSON，再走与 LoadJSON 相同的严格解码。
func LoadYAML(path string, raw []byte) (Config, error) {
	if len(raw) == 0 {
		if path == "" {
			return Config{}, errors.New("no config source provided")
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		raw = b
	}
	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return Config{}, fmt.Errorf("config %s: %v: %w", sourceName(path, raw), err, contract.ErrConfig)
	}
	if tree == nil {
		return Config{}, nil
	}
	js, err := json.Marshal(tree)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %v: %w", sourceName(path, raw), err, contract.ErrConfig)
	}
	return decodeStrict(bytes.NewReader(js), sourceName(path, raw))
}

// LoadFile 按扩展名选择 JSON 或 YAML 解析。
func LoadFile(path string) (Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path, nil)
	default:
		return LoadJSON(path, nil)
	}
}

// Discover 返回生效的配置文件路径：flag > TEXTDIGEST_CONFIG_FILE > 工作目录默认文件。
// 均不存在时返回空串。
func Discover(flagPath string, environ []string) string {
	if p := strings.TrimSpace(flagPath); p != "" {
		return p
	}
	if p := strings.TrimSpace(lookup(environ, EnvPrefix+"CONFIG_FILE")); p != "" {
		return p
	}
	for _, name := range defaultFiles {
		if st, err := os.Stat(name); err == nil && !st.IsDir() {
			return name
		}
	}
	return ""
}

// Load 依次合并 Defaults → 配置文件/TEXTDIGEST_CONFIG_JSON → ENV 覆盖。
// 同时给出文件与原始 JSON 时，原始 JSON 优先。
func Load(flagPath string, environ []string) (Config, error) {
	cfg := Defaults()
	raw := lookup(environ, EnvPrefix+"CONFIG_JSON")
	switch path := Discover(flagPath, environ); {
	case strings.TrimSpace(raw) != "":
		base, err := LoadJSON("", []byte(raw))
		if err != nil {
			return cfg, err
		}
		cfg = Merge(cfg, base)
	case path != "":
		base, err := LoadFile(path)
		if err != nil {
			if !errors.Is(err, contract.ErrConfig) {
				err = fmt.Errorf("%v: %w", err, contract.ErrConfig)
			}
			return cfg, err
		}
		cfg = Merge(cfg, base)
	}
	over, err := EnvOverlay(environ)
	if err != nil {
		return cfg, err
	}
	return Merge(cfg, over), nil
}

// Merge 按优先级合并（后者覆盖前者）。
// 仅标量/字符串/原样 JSON 为“替换”；不做深度合并。
func Merge(base, over Config) Config {
	out := base
	if s := strings.TrimSpace(over.Input); s != "" {
		out.Input = s
	}
	if over.MaxLen != 0 {
		out.MaxLen = over.MaxLen
	}
	if over.TopTags != 0 {
		out.TopTags = over.TopTags
	}
	if over.IncludeAnchors != nil {
		out.IncludeAnchors = Bool(*over.IncludeAnchors)
	}

	out.Output.Format = pick(out.Output.Format, over.Output.Format)
	out.Output.Path = pick(out.Output.Path, over.Output.Path)

	out.Logging.Level = pick(out.Logging.Level, over.Logging.Level)
	out.Logging.File = pick(out.Logging.File, over.Logging.File)
	if over.Logging.MaxSizeMB != 0 {
		out.Logging.MaxSizeMB = over.Logging.MaxSizeMB
	}
	if over.Logging.MaxBackups != 0 {
		out.Logging.MaxBackups = over.Logging.MaxBackups
	}

	out.Embedding.Backend = pick(out.Embedding.Backend, over.Embedding.Backend)
	out.Embedding.Model = pick(out.Embedding.Model, over.Embedding.Model)
	out.Embedding.CacheDir = pick(out.Embedding.CacheDir, over.Embedding.CacheDir)

	// 组件名（空不覆盖）
	out.Components.Reader = pick(out.Components.Reader, over.Components.Reader)
	out.Components.Converter = pick(out.Components.Converter, over.Components.Converter)
	out.Components.Normalizer = pick(out.Components.Normalizer, over.Components.Normalizer)
	out.Components.Segmenter = pick(out.Components.Segmenter, over.Components.Segmenter)
	out.Components.Selector = pick(out.Components.Selector, over.Components.Selector)
	out.Components.Tagger = pick(out.Components.Tagger, over.Components.Tagger)
	out.Components.Writer = pick(out.Components.Writer, over.Components.Writer)

	// Options（完整替换对应键）
	out.Options.Reader = pickRaw(out.Options.Reader, over.Options.Reader)
	out.Options.Converter = pickRaw(out.Options.Converter, over.Options.Converter)
	out.Options.Normalizer = pickRaw(out.Options.Normalizer, over.Options.Normalizer)
	out.Options.Segmenter = pickRaw(out.Options.Segmenter, over.Options.Segmenter)
	out.Options.Selector = pickRaw(out.Options.Selector, over.Options.Selector)
	out.Options.Tagger = pickRaw(out.Options.Tagger, over.Options.Tagger)
	out.Options.Writer = pickRaw(out.Options.Writer, over.Options.Writer)
	return out
}

// EnvOverlay 从环境变量构建一个 Config 覆盖（仅解析有限键集合）。
// 支持：INPUT, MAX_LEN, TOP_TAGS, INCLUDE_ANCHORS, LOG_LEVEL, LOG_FILE,
// EMBEDDING_BACKEND, EMBEDDING_MODEL, MODEL_DIR, OUTPUT_FORMAT, COMPONENTS_*。
// 数值无法解析时返回 ErrConfig。
func EnvOverlay(environ []string) (Config, error) {
	var over Config
	for _, kv := range environ {
		if !strings.HasPrefix(kv, EnvPrefix) {
			continue
		}
		eq := strings.IndexByte(kv, '=')
		if eq <= len(EnvPrefix) {
			continue
		}
		key := kv[len(EnvPrefix):eq]
		val := kv[eq+1:]
		tv := strings.TrimSpace(val)
		switch key {
		case "INPUT":
			over.Input = tv
		case "MAX_LEN", "TOP_TAGS":
			if tv == "" {
				continue
			}
			n, err := atoi(tv)
			if err != nil {
				return over, fmt.Errorf("%s%s=%q: %v: %w", EnvPrefix, key, val, err, contract.ErrConfig)
			}
			if key == "MAX_LEN" {
				over.MaxLen = n
			} else {
				over.TopTags = n
			}
		case "INCLUDE_ANCHORS":
			// 任意非空值即开启
			if val != "" {
				over.IncludeAnchors = Bool(true)
			}
		case "LOG_LEVEL":
			over.Logging.Level = tv
		case "LOG_FILE":
			over.Logging.File = tv
		case "EMBEDDING_BACKEND":
			over.Embedding.Backend = tv
		case "EMBEDDING_MODEL":
			over.Embedding.Model = tv
		case "MODEL_DIR":
			over.Embedding.CacheDir = tv
		case "OUTPUT_FORMAT":
			over.Output.Format = tv
		case "COMPONENTS_READER":
			over.Components.Reader = tv
		case "COMPONENTS_CONVERTER":
			over.Components.Converter = tv
		case "COMPONENTS_NORMALIZER":
			over.Components.Normalizer = tv
		case "COMPONENTS_SEGMENTER":
			over.Components.Segmenter = tv
		case "COMPONENTS_SELECTOR":
			over.Components.Selector = tv
		case "COMPONENTS_TAGGER":
			over.Components.Tagger = tv
		case "COMPONENTS_WRITER":
			over.Components.Writer = tv
		default:
			// 其它键（CONFIG_FILE/CONFIG_JSON 等）由调用方处理
		}
	}
	return over, nil
}

func pick(cur, over string) string {
	if s := strings.TrimSpace(over); s != "" {
		return s
	}
	return cur
}

func pickRaw(cur, over json.RawMessage) json.RawMessage {
	if len(over) > 0 {
		return cloneRaw(over)
	}
	return cur
}

func cloneRaw(in json.RawMessage) json.RawMessage {
	if len(in) == 0 {
		return nil
	}
	out := make([]byte, len(in))
	copy(out, in)
	return out
}

func lookup(environ []string, key string) string {
	prefix := key + "="
	for _, kv := range environ {
		if strings.HasPrefix(kv, prefix) {
			return kv[len(prefix):]
		}
	}
	return ""
}

func sourceName(path string, raw []byte) string {
	if path != "" {
		return path
	}
	if len(raw) > 0 {
		return "(inline)"
	}
	return "(none)"
}

func atoi(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
