package vehicle

import (
	"sort"
	"strings"
)

// SortKey 列表排序方式（取值沿用线上表单的 value）。
type SortKey string

const (
	SortNone      SortKey = ""          // 保持输入顺序
	SortPriceLow  SortKey = "price-low" // 日租价升序
	SortPriceHigh SortKey = "price-high"
	SortNewest    SortKey = "newest" // 创建时间倒序
)

// FilterSpec 当前用户选择的搜索/筛选/排序条件。纯值对象，随输入重算。
type FilterSpec struct {
	Search   string   // 车名包含（忽略大小写）
	Category Category // 精确匹配；空表示不过滤
	Location string   // 地点包含（忽略大小写）
	SortBy   SortKey
}

// IsZero 全空条件；Derive 对全空条件必须原样返回输入。
func (s FilterSpec) IsZero() bool {
	return s.Search == "" && s.Category == "" && s.Location == "" && s.SortBy == SortNone
}

// Derive 从完整列表推导可见子集。纯函数：不修改输入，重复调用结果一致。
// 过滤条件按固定顺序做交集，排序永远最后做且是稳定排序。
func Derive(full []Vehicle, spec FilterSpec) []Vehicle {
	out := make([]Vehicle, 0, len(full))

	search := strings.ToLower(strings.TrimSpace(spec.Search))
	location := strings.ToLower(strings.TrimSpace(spec.Location))

	for _, v := range full {
		if search != "" && !strings.Contains(strings.ToLower(v.VehicleName), search) {
			continue
		}
		if spec.Category != "" && v.Category != spec.Category {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(v.Location), location) {
			continue
		}
		out = append(out, v)
	}

	switch spec.SortBy {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].PricePerDay < out[j].PricePerDay })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].PricePerDay > out[j].PricePerDay })
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}

	return out
}
