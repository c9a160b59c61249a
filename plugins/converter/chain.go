package converter

import (
	"context"

	"textdigest/pkg/contract"
)

// Chain 依次应用各转换器；每个转换器只处理自己识别的格式，其余原样透传。
type Chain []contract.Converter

var _ contract.Converter = Chain(nil)

func (c Chain) Convert(ctx context.Context, fileID contract.FileID, raw string) (string, error) {
	out := raw
	for _, cv := range c {
		if cv == nil {
			continue
		}
		var err error
		if out, err = cv.Convert(ctx, fileID, out); err != nil {
			return "", err
		}
	}
	return out, nil
}
