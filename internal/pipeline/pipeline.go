package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"textdigest/internal/diag"
	"textdigest/internal/textutil"
	"textdigest/pkg/contract"
	"textdigest/plugins/scorer"
)

// - 单文档、同步执行；组件构造后只读，可重入。
// - 仅 Reader/Converter/Scorer 接收 ctx；其余阶段为纯计算。
// - 退化输入（空文本）不是错误：返回固定摘要与空标签。

// Components 聚合运行所需的原子组件。
type Components struct {
	Reader     contract.Reader
	Converter  contract.Converter
	Normalizer contract.Normalizer
	Segmenter  contract.Segmenter
	// Embedder 仅在 Scorer 为空时用于选择评分策略。
	Embedder contract.Embedder
	Scorer   contract.Scorer
	Selector contract.Selector
	Tagger   contract.Tagger
}

// Settings 运行期配置（最小必要）。
type Settings struct {
	// Input: 文件路径或 "-"（STDIN）。
	Input          string
	MaxLen         int
	TopTags        int
	IncludeAnchors bool
}

// ErrNoInput 为缺少输入参数时的错误（文案面向终端用户）。
var ErrNoInput = errors.New("Drag a .txt or .md file here, or pipe text in")

// Run 执行完整流水线：Reader → Converter → Normalizer → Segmenter → Scorer → Selector → Tagger → Metrics。
func Run(ctx context.Context, comp Components, set Settings, logger *diag.Logger) (contract.Report, error) {
	if err := sanity(comp); err != nil {
		return contract.Report{}, fmt.Errorf("sanity: %w", err)
	}
	if comp.Reader == nil {
		return contract.Report{}, errors.New("sanity: missing reader")
	}
	doc, err := Read(ctx, comp.Reader, set.Input, logger)
	if err != nil {
		return contract.Report{}, err
	}
	return Digest(ctx, comp, doc, set, logger)
}

// Read 读取输入为 Document；非法 UTF-8 视为解码错误。
func Read(ctx context.Context, r contract.Reader, input string, logger *diag.Logger) (contract.Document, error) {
	if input == "" {
		return contract.Document{}, ErrNoInput
	}
	timer := logger.StartWith("reader", "read", input, nil)
	fileID, rc, err := r.Open(ctx, input)
	if err != nil {
		logger.ErrorWith("reader", string(diag.Classify(err)), err.Error(), timer.Since(), input, nil)
		return contract.Document{}, err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		logger.ErrorWith("reader", string(diag.Classify(err)), err.Error(), timer.Since(), string(fileID), nil)
		return contract.Document{}, fmt.Errorf("read %s: %w", fileID, err)
	}
	if !utf8.Valid(b) {
		err := fmt.Errorf("%s: invalid UTF-8 input: %w", fileID, contract.ErrDecode)
		logger.ErrorWith("reader", string(diag.Classify(err)), err.Error(), timer.Since(), string(fileID), nil)
		return contract.Document{}, err
	}
	timer.Finish("read", int64(len(b)))
	return contract.Document{FileID: fileID, Raw: string(b)}, nil
}

// Digest 对已读入的文档生成报告。仅 Converter 失败与 ctx 取消会返回错误。
func Digest(ctx context.Context, comp Components, doc contract.Document, set Settings, logger *diag.Logger) (contract.Report, error) {
	if err := sanity(comp); err != nil {
		return contract.Report{}, fmt.Errorf("sanity: %w", err)
	}
	fid := string(doc.FileID)

	text := doc.Raw
	if comp.Converter != nil {
		ct := logger.StartWith("converter", "convert", fid, nil)
		out, err := comp.Converter.Convert(ctx, doc.FileID, doc.Raw)
		if err != nil {
			logger.ErrorWith("converter", string(diag.Classify(err)), err.Error(), ct.Since(), fid, nil)
			return contract.Report{}, err
		}
		ct.Finish("convert", int64(len(out)))
		text = out
	}

	nt := logger.StartWith("normalizer", "normalize", fid, nil)
	cleaned := comp.Normalizer.Normalize(text)
	nt.Finish("normalize", int64(textutil.RuneLen(cleaned)))

	sc := comp.Scorer
	if sc == nil {
		sc = scorer.Auto(comp.Embedder, fallbackLogger(logger, fid))
	}
	summary := Summarize(ctx, comp.Segmenter, sc, comp.Selector, cleaned, set, logger, fid)
	if err := ctx.Err(); err != nil {
		return contract.Report{}, err
	}

	// 清洗后为空时不对固定摘要文案提取标签
	tagText := cleaned
	if cleaned != "" {
		tagText = summary.Text + " " + cleaned
	}
	tt := logger.StartWith("tagger", "tag", fid, nil)
	tags, anchored := comp.Tagger.Tag(contract.TagRequest{
		Text:           tagText,
		Top:            set.TopTags,
		IncludeAnchors: set.IncludeAnchors,
		Source:         cleaned,
	})
	tt.Finish("tag", int64(len(tags)))

	rep := contract.Report{
		Summary: summary.Text,
		Tags:    tags,
		Metrics: Metrics(doc.Raw, summary.Text),
	}
	if rep.Tags == nil {
		rep.Tags = []string{}
	}
	if set.IncludeAnchors {
		anchors := summary.Anchors
		if anchors == nil {
			anchors = []contract.Anchor{}
		}
		rep.Evidence = &contract.Evidence{Summary: anchors, Tags: anchored}
	}
	return rep, nil
}

// Summarize: 切句 → 评分 → 预算选择。
func Summarize(ctx context.Context, seg contract.Segmenter, sc contract.Scorer, sel contract.Selector, cleaned string, set Settings, logger *diag.Logger, fileID string) contract.Summary {
	st := logger.StartWith("segmenter", "segment", fileID, nil)
	sentences := seg.Segment(cleaned)
	st.Finish("segment", int64(len(sentences)))

	rt := logger.StartWith("scorer", "score", fileID, map[string]string{"mode": sc.Mode()})
	scores := sc.Score(ctx, cleaned, sentences)
	rt.Finish("score", int64(len(scores)))

	scored := make([]contract.Scored, len(sentences))
	for i, s := range sentences {
		var v float64
		if i < len(scores) {
			v = scores[i]
		}
		scored[i] = contract.Scored{Score: v, Sentence: s}
	}

	lt := logger.StartWith("selector", "select", fileID, map[string]string{"max_len": strconv.Itoa(set.MaxLen)})
	summary := sel.Select(cleaned, scored, contract.SelectLimit{MaxLen: set.MaxLen, IncludeAnchors: set.IncludeAnchors})
	lt.Finish("select", int64(len(summary.Anchors)))
	return summary
}

// Metrics 统计原文与摘要词数并格式化压缩率（一位小数百分比）。
func Metrics(raw, summary string) contract.Metrics {
	orig := textutil.CountWords(raw)
	sum := textutil.CountWords(summary)
	ratio := 0.0
	if orig > 0 {
		ratio = float64(sum) / float64(orig)
	}
	return contract.Metrics{
		OriginalWords: orig,
		SummaryWords:  sum,
		Compression:   strconv.FormatFloat(ratio*100, 'f', 1, 64) + "%",
	}
}

func fallbackLogger(logger *diag.Logger, fileID string) func(error) {
	return func(err error) {
		logger.Debug("scorer", "semantic scoring failed; using lexical", map[string]string{
			"file_id": fileID,
			"code":    string(diag.Classify(err)),
			"err":     err.Error(),
		})
	}
}

func sanity(c Components) error {
	if c.Normalizer == nil || c.Segmenter == nil || c.Selector == nil || c.Tagger == nil {
		return errors.New("missing components")
	}
	return nil
}
