package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	cfgpkg "textdigest/internal/config"
	"textdigest/internal/diag"
	"textdigest/internal/pipeline"
	"textdigest/internal/report"
	"textdigest/pkg/contract"
	rfs "textdigest/plugins/reader/filesystem"
)

// 退出码：0 成功；1 输入/运行错误；2 用法错误；3 配置错误。
const (
	exitOK     = 0
	exitInput  = 1
	exitUsage  = 2
	exitConfig = 3
)

var pipelineRun = pipeline.Run

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], loadEnv(".env"), os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// exitError 携带退出码；错误文案以 {"error": ...} 输出到 stdout。
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

type cliFlags struct {
	config   string
	outputMD string
	model    string
	logLevel string
	initDir  string
	anchors  bool
	maxLen   int
	topTags  int
}

func run(ctx context.Context, args, environ []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(environ, stdin)
	cmd.SetArgs(normalizeArgs(args))
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	code := exitUsage
	var ee *exitError
	if errors.As(err, &ee) {
		code = ee.code
	}
	_, _ = stdout.Write(report.Error(err.Error()))
	return code
}

func newRootCmd(environ []string, stdin io.Reader) *cobra.Command {
	var f cliFlags
	cmd := &cobra.Command{
		Use:   "textdigest [path|-]",
		Short: "Offline extractive summary and keyword tags for a text or Markdown document",
		Long: `textdigest reads one plain-text, Markdown or HTML document (a path, or "-" for STDIN),
strips markup noise, picks the most central sentences within a character budget and
extracts frequency-based keyword tags. Output is JSON by default or Markdown with --output-md.

Examples:
  textdigest notes.md
  cat notes.md | textdigest - -a
  textdigest paper.md --output-md summary.md --max-len 300`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, args, f, environ, stdin)
		},
	}
	fl := cmd.Flags()
	fl.BoolVarP(&f.anchors, "include-anchors", "a", false, "在输出中附带摘要句与标签的位置证据")
	fl.StringVar(&f.outputMD, "output-md", "", "输出 Markdown；给出路径时同时写入该文件")
	fl.Lookup("output-md").NoOptDefVal = "-"
	fl.IntVar(&f.maxLen, "max-len", 0, "摘要字符预算（覆盖配置，默认 450）")
	fl.IntVar(&f.topTags, "top-tags", 0, "标签数量（覆盖配置，默认 8）")
	fl.StringVar(&f.config, "config", "", "配置文件路径（JSON/YAML）；缺省探测 ./textdigest.json")
	fl.StringVar(&f.model, "embedding-model", "", "本地嵌入模型标识（覆盖配置）")
	fl.StringVar(&f.logLevel, "log-level", "", "日志级别 debug|info|warn|error|off")
	fl.StringVar(&f.initDir, "init-config", "", "在指定目录生成 textdigest.json 与 .env 模板（不覆盖）；不带值时为当前目录")
	fl.Lookup("init-config").NoOptDefVal = "."
	return cmd
}

func execute(cmd *cobra.Command, args []string, f cliFlags, environ []string, stdin io.Reader) error {
	start := time.Now()
	out := cmd.OutOrStdout()

	if dir := strings.TrimSpace(f.initDir); dir != "" {
		written, err := cfgpkg.WriteTemplates(dir)
		if err != nil {
			return &exitError{exitConfig, fmt.Errorf("init-config: %w", err)}
		}
		for _, p := range written {
			fmt.Fprintf(cmd.ErrOrStderr(), "已生成 %s\n", p)
		}
		return nil
	}

	cfg, err := cfgpkg.Load(f.config, environ)
	if err != nil {
		return &exitError{exitConfig, err}
	}
	cfg = cfgpkg.Merge(cfg, cliOverlay(cmd, args, f))
	// 显式给出的数值总是生效（包括 0）
	if cmd.Flags().Changed("max-len") {
		cfg.MaxLen = f.maxLen
	}
	if cmd.Flags().Changed("top-tags") {
		cfg.TopTags = f.topTags
	}
	if err := cfgpkg.Validate(cfg); err != nil {
		return &exitError{exitConfig, err}
	}

	logger := diag.NewLogger(diag.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	defer logger.Close()

	comp, set, w, err := cfgpkg.Assemble(cfg, logger)
	if err != nil {
		logger.Error("config", string(diag.Classify(err)), err.Error(), &start)
		return &exitError{exitConfig, err}
	}
	if fs, ok := comp.Reader.(*rfs.FileSystem); ok {
		comp.Reader = fs.WithStdin(stdin)
	}

	ctx := cmd.Context()
	t := logger.StartWith("cli", "run", set.Input, map[string]string{"format": cfg.Output.Format})
	rep, err := pipelineRun(ctx, comp, set, logger)
	if err != nil {
		logger.Error("cli", string(diag.Classify(err)), err.Error(), &start)
		return &exitError{exitInput, err}
	}

	var body []byte
	if isMarkdown(cfg.Output.Format) {
		md, err := report.Markdown(rep)
		if err != nil {
			return &exitError{exitInput, err}
		}
		if p := strings.TrimSpace(cfg.Output.Path); p != "" && p != "-" {
			if err := w.Write(ctx, contract.ArtifactID(p), strings.NewReader(md)); err != nil {
				logger.Error("writer", string(diag.Classify(err)), err.Error(), &start)
				return &exitError{exitInput, fmt.Errorf("write %s: %w", p, err)}
			}
		}
		body = []byte(md)
	} else {
		body, err = report.JSON(rep)
		if err != nil {
			return &exitError{exitInput, err}
		}
	}
	if _, err := out.Write(body); err != nil {
		return &exitError{exitInput, err}
	}
	t.Finish("run", int64(len(body)))
	return nil
}

// cliOverlay 将已设置的旗标转为 Config 覆盖层。
func cliOverlay(cmd *cobra.Command, args []string, f cliFlags) cfgpkg.Config {
	var over cfgpkg.Config
	if len(args) > 0 {
		over.Input = args[0]
	}
	if f.anchors {
		over.IncludeAnchors = cfgpkg.Bool(true)
	}
	over.Embedding.Model = f.model
	over.Logging.Level = f.logLevel
	if cmd.Flags().Changed("output-md") {
		over.Output.Format = report.FormatMarkdown
		if p := strings.TrimSpace(f.outputMD); p != "-" {
			over.Output.Path = p
		}
	}
	return over
}

func isMarkdown(format string) bool {
	format = strings.TrimSpace(format)
	return strings.EqualFold(format, report.FormatMarkdown) || strings.EqualFold(format, "md")
}

// normalizeArgs: 可选值旗标（--output-md、--init-config）后紧跟的非旗标参数视为其取值。
//
//	--output-md             => 仅打印 Markdown
//	--output-md out.md      => --output-md=out.md
//	--init-config           => 当前目录
//	--init-config conf      => --init-config=conf
//
// 单独的 "-" 表示 STDIN，不会被吸收；"--" 之后原样保留。
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			out = append(out, args[i:]...)
			break
		}
		if (a == "--output-md" || a == "--init-config") && i+1 < len(args) {
			next := args[i+1]
			if next != "" && !strings.HasPrefix(next, "-") {
				out = append(out, a+"="+next)
				i++
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

// loadEnv 返回进程环境并补入 path 指向的 .env 中尚未设置的键（已有 ENV 优先）。
// 文件不存在或无法解析时仅返回进程环境。
func loadEnv(path string) []string {
	environ := os.Environ()
	vals, err := godotenv.Read(path)
	if err != nil {
		return environ
	}
	return mergeEnv(environ, vals)
}

func mergeEnv(environ []string, vals map[string]string) []string {
	seen := make(map[string]bool, len(environ))
	for _, kv := range environ {
		if eq := strings.IndexByte(kv, '='); eq > 0 {
			seen[kv[:eq]] = true
		}
	}
	out := append([]string(nil), environ...)
	for k, v := range vals {
		if !seen[k] {
			out = append(out, k+"="+v)
		}
	}
	return out
}
