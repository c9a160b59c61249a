// Package static 实现基于本地词向量文件的固定嵌入函数。
//
// 模型以固定标识解析到 <cache_dir>/<model>/vectors.txt（word2vec/GloVe 文本格式，
// 可选 "N D" 头行）。仅读取本地文件，从不联网；文本向量为已知词向量的均值。
package static

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"textdigest/internal/textutil"
	"textdigest/pkg/contract"
)

// DefaultModel 为默认模型标识。
const DefaultModel = "all-MiniLM-L6-v2"

// VectorsFile 为模型目录下的向量文件名。
const VectorsFile = "vectors.txt"

// Options 为本地词向量后端的可选配置。
type Options struct {
	// Model: 模型标识（目录名）。默认 DefaultModel。
	Model string `json:"model"`
	// CacheDir: 模型缓存根目录。默认 <UserCacheDir>/textdigest/models。
	CacheDir string `json:"cache_dir"`
}

// Embedder 持有只读词表。
type Embedder struct {
	model   string
	dim     int
	vectors map[string][]float64
}

var _ contract.Embedder = (*Embedder)(nil)

// DefaultCacheDir 返回默认缓存根目录；无法确定用户缓存目录时退化为相对路径。
func DefaultCacheDir() string {
	if d, err := os.UserCacheDir(); err == nil && d != "" {
		return filepath.Join(d, "textdigest", "models")
	}
	return filepath.Join(".textdigest", "models")
}

// Path 返回 opts 对应的向量文件路径。
func Path(opts *Options) string {
	model, dir := DefaultModel, DefaultCacheDir()
	if opts != nil {
		if m := strings.TrimSpace(opts.Model); m != "" {
			model = m
		}
		if d := strings.TrimSpace(opts.CacheDir); d != "" {
			dir = d
		}
	}
	return filepath.Join(dir, model, VectorsFile)
}

// Open 从本地缓存加载词向量。文件缺失、不可读或为空时返回错误，调用方据此回退。
func Open(opts *Options) (*Embedder, error) {
	model := DefaultModel
	if opts != nil && strings.TrimSpace(opts.Model) != "" {
		model = strings.TrimSpace(opts.Model)
	}
	p := Path(opts)
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vectors := make(map[string][]float64)
	dim := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	first := true
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if first {
			first = false
			if isHeader(fields) {
				continue
			}
		}
		if len(fields) < 2 {
			continue
		}
		vec, ok := parseVector(fields[1:])
		if !ok {
			continue
		}
		if dim == 0 {
			dim = len(vec)
		}
		if len(vec) != dim {
			continue
		}
		word := textutil.Fold(fields[0])
		if _, dup := vectors[word]; dup {
			continue
		}
		vectors[word] = vec
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	if len(vectors) == 0 {
		return nil, errors.New("static embedder: no vectors in " + p)
	}
	return &Embedder{model: model, dim: dim, vectors: vectors}, nil
}

// isHeader 判定 word2vec 头行 "N D"。
func isHeader(fields []string) bool {
	if len(fields) != 2 {
		return false
	}
	_, e1 := strconv.Atoi(fields[0])
	_, e2 := strconv.Atoi(fields[1])
	return e1 == nil && e2 == nil
}

func parseVector(fields []string) ([]float64, bool) {
	vec := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		vec[i] = v
	}
	return vec, true
}

// Embed 批量编码：每个文本为其已知词向量的均值；无已知词时为零向量。
func (e *Embedder) Embed(ctx context.Context, texts []string, opts ...contract.EmbedOption) ([][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o := contract.ApplyEmbedOptions(opts)
	out := make([][]float64, len(texts))
	for i, text := range texts {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		vec := make([]float64, e.dim)
		known := 0
		for _, w := range textutil.Words(textutil.Fold(text)) {
			if v, ok := e.vectors[w]; ok {
				floats.Add(vec, v)
				known++
			}
		}
		if known > 0 {
			floats.Scale(1/float64(known), vec)
		}
		if o.Normalize {
			if norm := floats.Norm(vec, 2); norm > 0 {
				floats.Scale(1/norm, vec)
			}
		}
		out[i] = vec
	}
	return out, nil
}

func (e *Embedder) Available() bool { return true }

func (e *Embedder) Model() string { return e.model }

// Dim 返回向量维度。
func (e *Embedder) Dim() int { return e.dim }

// Len 返回词表大小。
func (e *Embedder) Len() int { return len(e.vectors) }
