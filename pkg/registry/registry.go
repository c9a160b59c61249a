package registry

import (
	"bytes"
	"encoding/json"

	"textdigest/pkg/contract"
	"textdigest/plugins/converter"
	cmk "textdigest/plugins/converter/markup"
	csub "textdigest/plugins/converter/subtitle"
	enone "textdigest/plugins/embedder/none"
	estatic "textdigest/plugins/embedder/static"
	nmd "textdigest/plugins/normalizer/markdown"
	rfs "textdigest/plugins/reader/filesystem"
	spunct "textdigest/plugins/segmenter/punct"
	sgreedy "textdigest/plugins/selector/greedy"
	tfreq "textdigest/plugins/tagger/frequency"
	wfs "textdigest/plugins/writer/filesystem"
)

// strictUnmarshal: 使用 DisallowUnknownFields 严格解码，拒绝未知字段。
func strictUnmarshal(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		// 保持零值（默认选项）
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// noOptions: 无可配置项的组件仍严格拒绝未知字段。
type noOptions struct{}

// NewReader 工厂签名：接收原样 JSON Options。
type NewReader func(raw json.RawMessage) (contract.Reader, error)

// NewConverter 工厂签名：接收原样 JSON Options。
type NewConverter func(raw json.RawMessage) (contract.Converter, error)

// NewNormalizer 工厂签名：接收原样 JSON Options。
type NewNormalizer func(raw json.RawMessage) (contract.Normalizer, error)

// NewSegmenter 工厂签名：接收原样 JSON Options。
type NewSegmenter func(raw json.RawMessage) (contract.Segmenter, error)

// NewEmbedder 工厂签名：接收原样 JSON Options。
type NewEmbedder func(raw json.RawMessage) (contract.Embedder, error)

// NewSelector 工厂签名：接收原样 JSON Options。
type NewSelector func(raw json.RawMessage) (contract.Selector, error)

// NewTagger 工厂签名：接收原样 JSON Options。
type NewTagger func(raw json.RawMessage) (contract.Tagger, error)

// NewWriter 工厂签名：接收原样 JSON Options。
type NewWriter func(raw json.RawMessage) (contract.Writer, error)

// Reader 工厂注册表（显式、零反射）。
var Reader = map[string]NewReader{
	// fs: 单文件/STDIN Reader
	"fs": func(raw json.RawMessage) (contract.Reader, error) {
		var opts rfs.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return rfs.New(&opts), nil
	},
}

// autoOptions: auto 转换器同时接收 HTML 与字幕的扩展名配置。
type autoOptions struct {
	HTMLExts     []string `json:"html_exts"`
	SubtitleExts []string `json:"subtitle_exts"`
}

// Converter 工厂注册表。
var Converter = map[string]NewConverter{
	// auto: .html/.htm 转 Markdown，.srt 提取台词，其余透传
	"auto": func(raw json.RawMessage) (contract.Converter, error) {
		var opts autoOptions
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return converter.Chain{
			cmk.New(&cmk.Options{HTMLExts: opts.HTMLExts}),
			csub.New(&csub.Options{Exts: opts.SubtitleExts}),
		}, nil
	},
	// html: 仅 HTML
	"html": func(raw json.RawMessage) (contract.Converter, error) {
		var opts cmk.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return cmk.New(&opts), nil
	},
	// srt: 仅字幕
	"srt": func(raw json.RawMessage) (contract.Converter, error) {
		var opts csub.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return csub.New(&opts), nil
	},
	// none: 原样透传
	"none": func(raw json.RawMessage) (contract.Converter, error) {
		var opts noOptions
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return converter.Chain{}, nil
	},
}

// Normalizer 工厂注册表。
var Normalizer = map[string]NewNormalizer{
	"markdown": func(raw json.RawMessage) (contract.Normalizer, error) {
		var opts nmd.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return nmd.New(&opts), nil
	},
}

// Segmenter 工厂注册表。
var Segmenter = map[string]NewSegmenter{
	// punct: 句末标点 + 空白切分，保留码点偏移
	"punct": func(raw json.RawMessage) (contract.Segmenter, error) {
		var opts noOptions
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return spunct.New(), nil
	},
}

// Embedder 工厂注册表。
var Embedder = map[string]NewEmbedder{
	// static: 本地词向量文件；缺失或不可读时静默退化为 none
	"static": func(raw json.RawMessage) (contract.Embedder, error) {
		var opts estatic.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		e, err := estatic.Open(&opts)
		if err != nil {
			model := opts.Model
			if model == "" {
				model = estatic.DefaultModel
			}
			return enone.New(model), nil
		}
		return e, nil
	},
	// none: 空对象，强制词频评分
	"none": func(raw json.RawMessage) (contract.Embedder, error) {
		var opts estatic.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return enone.New(opts.Model), nil
	},
}

// Selector 工厂注册表。
var Selector = map[string]NewSelector{
	"greedy": func(raw json.RawMessage) (contract.Selector, error) {
		var opts noOptions
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return sgreedy.New(), nil
	},
}

// Tagger 工厂注册表。
var Tagger = map[string]NewTagger{
	"frequency": func(raw json.RawMessage) (contract.Tagger, error) {
		var opts noOptions
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return tfreq.New(), nil
	},
}

// Writer 工厂注册表。
var Writer = map[string]NewWriter{
	// fs: 文件 Writer（默认原子替换）
	"fs": func(raw json.RawMessage) (contract.Writer, error) {
		var opts wfs.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return wfs.New(&opts), nil
	},
}
