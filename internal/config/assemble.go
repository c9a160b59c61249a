package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"textdigest/internal/diag"
	"textdigest/internal/pipeline"
	"textdigest/internal/report"
	"textdigest/pkg/contract"
	"textdigest/pkg/registry"
	"textdigest/plugins/scorer"
)

// Validate 对最小必要边界做静态校验；错误均包裹 contract.ErrConfig。
// 输入路径不在此校验：缺少输入属于输入错误而非配置错误。
func Validate(cfg Config) error {
	if cfg.MaxLen <= 0 {
		return invalid("max_len must be > 0, got %d", cfg.MaxLen)
	}
	if cfg.TopTags < 0 {
		return invalid("top_tags must be >= 0, got %d", cfg.TopTags)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Output.Format)) {
	case "", report.FormatJSON, report.FormatMarkdown, "md":
	default:
		return invalid("output.format %q must be json or markdown", cfg.Output.Format)
	}
	if !diag.ValidLevel(cfg.Logging.Level) {
		return invalid("logging.level %q unknown", cfg.Logging.Level)
	}
	if cfg.Logging.MaxSizeMB < 0 || cfg.Logging.MaxBackups < 0 {
		return invalid("logging rotation values must be >= 0")
	}
	d := Defaults()
	if name := effName(cfg.Embedding.Backend, d.Embedding.Backend); registry.Embedder[name] == nil {
		return invalid("embedding backend %q not registered", name)
	}
	// 组件名若为空，使用默认名（由 Defaults() 提供）。此处只要最终有值即可。
	if name := effName(cfg.Components.Reader, d.Components.Reader); registry.Reader[name] == nil {
		return invalid("reader %q not registered", name)
	}
	if name := effName(cfg.Components.Converter, d.Components.Converter); registry.Converter[name] == nil {
		return invalid("converter %q not registered", name)
	}
	if name := effName(cfg.Components.Normalizer, d.Components.Normalizer); registry.Normalizer[name] == nil {
		return invalid("normalizer %q not registered", name)
	}
	if name := effName(cfg.Components.Segmenter, d.Components.Segmenter); registry.Segmenter[name] == nil {
		return invalid("segmenter %q not registered", name)
	}
	if name := effName(cfg.Components.Selector, d.Components.Selector); registry.Selector[name] == nil {
		return invalid("selector %q not registered", name)
	}
	if name := effName(cfg.Components.Tagger, d.Components.Tagger); registry.Tagger[name] == nil {
		return invalid("tagger %q not registered", name)
	}
	if name := effName(cfg.Components.Writer, d.Components.Writer); registry.Writer[name] == nil {
		return invalid("writer %q not registered", name)
	}
	return nil
}

// Assemble 构造 Components、Settings 与 Writer。
// 嵌入后端在此构造一次并注入评分器；严格 Options 解析在 registry（工厂）层进行。
func Assemble(cfg Config, logger *diag.Logger) (pipeline.Components, pipeline.Settings, contract.Writer, error) {
	if err := Validate(cfg); err != nil {
		return pipeline.Components{}, pipeline.Settings{}, nil, err
	}
	d := Defaults()
	fail := func(stage string, err error) (pipeline.Components, pipeline.Settings, contract.Writer, error) {
		return pipeline.Components{}, pipeline.Settings{}, nil, fmt.Errorf("options.%s: %v: %w", stage, err, contract.ErrConfig)
	}

	r, err := registry.Reader[effName(cfg.Components.Reader, d.Components.Reader)](cfg.Options.Reader)
	if err != nil {
		return fail("reader", err)
	}
	cv, err := registry.Converter[effName(cfg.Components.Converter, d.Components.Converter)](cfg.Options.Converter)
	if err != nil {
		return fail("converter", err)
	}
	nm, err := registry.Normalizer[effName(cfg.Components.Normalizer, d.Components.Normalizer)](cfg.Options.Normalizer)
	if err != nil {
		return fail("normalizer", err)
	}
	sg, err := registry.Segmenter[effName(cfg.Components.Segmenter, d.Components.Segmenter)](cfg.Options.Segmenter)
	if err != nil {
		return fail("segmenter", err)
	}
	sl, err := registry.Selector[effName(cfg.Components.Selector, d.Components.Selector)](cfg.Options.Selector)
	if err != nil {
		return fail("selector", err)
	}
	tg, err := registry.Tagger[effName(cfg.Components.Tagger, d.Components.Tagger)](cfg.Options.Tagger)
	if err != nil {
		return fail("tagger", err)
	}
	w, err := registry.Writer[effName(cfg.Components.Writer, d.Components.Writer)](cfg.Options.Writer)
	if err != nil {
		return fail("writer", err)
	}

	backend := effName(cfg.Embedding.Backend, d.Embedding.Backend)
	embRaw, err := json.Marshal(map[string]string{
		"model":     effName(cfg.Embedding.Model, d.Embedding.Model),
		"cache_dir": cfg.Embedding.CacheDir,
	})
	if err != nil {
		return fail("embedding", err)
	}
	emb, err := registry.Embedder[backend](embRaw)
	if err != nil {
		return fail("embedding", err)
	}
	logger.Debug("embedder", "backend", map[string]string{
		"backend":   backend,
		"model":     emb.Model(),
		"available": fmt.Sprintf("%t", emb.Available()),
	})

	comp := pipeline.Components{
		Reader:     r,
		Converter:  cv,
		Normalizer: nm,
		Segmenter:  sg,
		Embedder:   emb,
		Scorer: scorer.Auto(emb, func(err error) {
			logger.Debug("scorer", "semantic scoring failed; using lexical", map[string]string{
				"code": string(diag.Classify(err)),
				"err":  err.Error(),
			})
		}),
		Selector: sl,
		Tagger:   tg,
	}
	set := pipeline.Settings{
		Input:          cfg.Input,
		MaxLen:         cfg.MaxLen,
		TopTags:        cfg.TopTags,
		IncludeAnchors: cfg.IncludeAnchors != nil && *cfg.IncludeAnchors,
	}
	return comp, set, w, nil
}

func invalid(format string, a ...any) error {
	return fmt.Errorf("config: %s: %w", fmt.Sprintf(format, a...), contract.ErrConfig)
}

func effName(got, def string) string {
	if strings.TrimSpace(got) == "" {
		return def
	}
	return strings.TrimSpace(got)
}
