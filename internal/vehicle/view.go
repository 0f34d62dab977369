package vehicle

import "sync"

// View 列表视图状态：完整列表 + 当前筛选条件 + 推导出的可见子集。
//
// 快速连续刷新时不做请求取消，而是给每次刷新发一个单调递增的序号，
// 晚于最新已应用序号的响应直接丢弃——保证“最后发起的刷新赢”，
// 而不是“最后完成的响应赢”。
type View struct {
	mu      sync.Mutex
	nextSeq uint64
	applied uint64 // 最近一次被接受的刷新序号
	full    []Vehicle
	spec    FilterSpec
	visible []Vehicle
}

// NewView 创建空视图。
func NewView() *View {
	return &View{}
}

// BeginRefresh 领取一次刷新的序号。发请求前调用。
func (v *View) BeginRefresh() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nextSeq++
	return v.nextSeq
}

// ApplyRefresh 应用一次刷新的结果。
// 序号不高于最近已应用的刷新时响应算过期，返回 false 且状态不变。
func (v *View) ApplyRefresh(seq uint64, full []Vehicle) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if seq <= v.applied {
		return false
	}
	v.applied = seq
	v.full = full
	v.visible = Derive(v.full, v.spec)
	return true
}

// SetSpec 更新筛选条件并同步重算可见子集。
func (v *View) SetSpec(spec FilterSpec) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.spec = spec
	v.visible = Derive(v.full, v.spec)
}

// Reset 清空筛选条件，恢复未过滤、未排序的原始顺序。
func (v *View) Reset() {
	v.SetSpec(FilterSpec{})
}

// Visible 当前可见子集（副本，调用方可自由修改）。
func (v *View) Visible() []Vehicle {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Vehicle, len(v.visible))
	copy(out, v.visible)
	return out
}

// Spec 当前筛选条件。
func (v *View) Spec() FilterSpec {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.spec
}
