package embedding

import (
	"context"

	"github.com/tidwall/gjson"
)

// Strategy 向量化能力：短文本（查询）与长文本（文档）分别嵌入
type Strategy interface {
	// EmbedShort 嵌入查询类短文本
	EmbedShort(ctx context.Context, text string, opts Options) ([]float64, error)
	// EmbedLong 嵌入文档类长文本
	EmbedLong(ctx context.Context, text string, opts Options) ([]float64, error)
}

// Options 单次调用选项。命名字段仅对 OpenAI 兼容端点有意义，Extra 原样透传到请求体
type Options struct {
	Dimensions     int            // dimensions，0 表示不设置
	EncodingFormat string         // encoding_format
	User           string         // user
	Extra          map[string]any // 其余 provider 特定字段
}

// Merge 以 override 覆盖 o：非零命名字段替换，Extra 按 key 合并（override 优先），不修改入参
func (o Options) Merge(override Options) Options {
	out := o
	if override.Dimensions != 0 {
		out.Dimensions = override.Dimensions
	}
	if override.EncodingFormat != "" {
		out.EncodingFormat = override.EncodingFormat
	}
	if override.User != "" {
		out.User = override.User
	}
	if len(o.Extra) > 0 || len(override.Extra) > 0 {
		out.Extra = make(map[string]any, len(o.Extra)+len(override.Extra))
		for k, v := range o.Extra {
			out.Extra[k] = v
		}
		for k, v := range override.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// Fields 展开为请求体字段：先 Extra，再命名字段
func (o Options) Fields() map[string]any {
	fields := make(map[string]any, len(o.Extra)+3)
	for k, v := range o.Extra {
		fields[k] = v
	}
	if o.Dimensions != 0 {
		fields["dimensions"] = o.Dimensions
	}
	if o.EncodingFormat != "" {
		fields["encoding_format"] = o.EncodingFormat
	}
	if o.User != "" {
		fields["user"] = o.User
	}
	return fields
}

// vector 把 JSON 数组转换为 []float64，字段缺失时返回空向量
func vector(r gjson.Result) []float64 {
	values := r.Array()
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.Float()
	}
	return out
}
