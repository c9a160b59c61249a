package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// TemplateFile 为 --init-config 生成的配置文件名。
const TemplateFile = "textdigest.json"

// DefaultTemplateConfig 返回一个“可运行”的默认配置模板：
// - 默认输入为 STDIN（"-"），输出 JSON；
// - 组件名采用仓库内置实现；
// - 选项给出全部键与中性默认值。
func DefaultTemplateConfig() Config {
	d := Defaults()
	cfg := d
	cfg.Input = "-"
	cfg.IncludeAnchors = Bool(false)
	cfg.Logging = Logging{Level: "info", File: "logs/textdigest.log", MaxSizeMB: 10, MaxBackups: 3}
	// Options：包含所有键（值可为空/默认），确保键存在。
	cfg.Options.Reader = json.RawMessage(`{"buf_size": 65536}`)
	cfg.Options.Converter = json.RawMessage(`{"html_exts": [".html", ".htm"], "subtitle_exts": [".srt"]}`)
	cfg.Options.Normalizer = json.RawMessage(`{"cutoff_headings": ["references", "bibliography", "appendix"]}`)
	cfg.Options.Segmenter = json.RawMessage(`{}`)
	cfg.Options.Selector = json.RawMessage(`{}`)
	cfg.Options.Tagger = json.RawMessage(`{}`)
	cfg.Options.Writer = json.RawMessage(`{"base_dir": "", "atomic": true, "perm_file": 0, "perm_dir": 0, "buf_size": 65536}`)
	return cfg
}

// DotEnvTemplate 返回 .env 模板内容。
func DotEnvTemplate() string {
	var b strings.Builder
	b.WriteString("# textdigest .env 模板（由 --init-config 生成）\n")
	b.WriteString("# 优先级：CLI > ENV(.env) > 配置文件\n")
	b.WriteString("# 空值表示未设置。\n\n")

	b.WriteString("# 配置来源（可二选一）\n")
	b.WriteString(EnvPrefix + "CONFIG_FILE=\n")
	b.WriteString(EnvPrefix + "CONFIG_JSON=\n\n")

	b.WriteString("# 运行参数覆盖\n")
	for _, k := range []string{"INPUT", "MAX_LEN", "TOP_TAGS", "INCLUDE_ANCHORS", "OUTPUT_FORMAT", "LOG_LEVEL", "LOG_FILE"} {
		b.WriteString(EnvPrefix + k + "=\n")
	}
	b.WriteString("\n# 嵌入后端（仅本地文件，不联网）\n")
	for _, k := range []string{"EMBEDDING_BACKEND", "EMBEDDING_MODEL", "MODEL_DIR"} {
		b.WriteString(EnvPrefix + k + "=\n")
	}
	b.WriteString("\n# 组件选择\n")
	for _, k := range []string{"READER", "CONVERTER", "NORMALIZER", "SEGMENTER", "SELECTOR", "TAGGER", "WRITER"} {
		b.WriteString(EnvPrefix + "COMPONENTS_" + k + "=\n")
	}
	return b.String()
}

// WriteTemplates 在 dir 下生成 textdigest.json 与 .env（已存在则跳过，不覆盖）。
// 返回实际写入的文件路径。
func WriteTemplates(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	b, err := json.MarshalIndent(DefaultTemplateConfig(), "", "  ")
	if err != nil {
		return nil, err
	}
	var written []string
	for _, f := range []struct {
		name string
		body []byte
	}{
		{TemplateFile, append(b, '\n')},
		{".env", []byte(DotEnvTemplate())},
	} {
		p := filepath.Join(dir, f.name)
		ok, err := writeExclusive(p, f.body)
		if err != nil {
			return written, err
		}
		if ok {
			written = append(written, p)
		}
	}
	return written, nil
}

// writeExclusive 仅在文件不存在时写入；已存在返回 (false, nil)。
func writeExclusive(path string, body []byte) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if _, err := f.Write(body); err != nil {
		return false, err
	}
	return true, nil
}
