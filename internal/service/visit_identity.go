package service

import "errors"

var ErrVisitIdentityUnresolved = errors.New("无法定位该访问记录，请刷新周视图后重试")

// VisitIdentityResolver 显示标签 → 访问 ID 的映射
//
// 完整标签优先匹配；匹配不到时按去掉标记与附注后的主体匹配。
// 同一键对应多个 ID 时视为无法定位，不做任何破坏性操作。
type VisitIdentityResolver struct {
	byLabel map[string]string
	byCore  map[string]string
	ids     map[string]bool
}

// ambiguous 占位值：同键多 ID
const ambiguous = "\x00"

// NewVisitIdentityResolver 由已写入的访问条目构建映射
func NewVisitIdentityResolver(entries []VisitEntry) *VisitIdentityResolver {
	r := &VisitIdentityResolver{
		byLabel: make(map[string]string, len(entries)),
		byCore:  make(map[string]string, len(entries)),
		ids:     make(map[string]bool, len(entries)),
	}
	for _, e := range entries {
		r.register(e)
	}
	return r
}

func (r *VisitIdentityResolver) register(e VisitEntry) {
	if e.VisitID == "" {
		return
	}
	r.ids[e.VisitID] = true
	put(r.byLabel, e.Label, e.VisitID)
	put(r.byCore, coreLabel(e.Label), e.VisitID)
}

func put(m map[string]string, key, id string) {
	if prev, ok := m[key]; ok && prev != id {
		m[key] = ambiguous
		return
	}
	m[key] = id
}

// Resolve 返回标签对应的访问 ID
func (r *VisitIdentityResolver) Resolve(label string) (string, error) {
	if id, ok := r.byLabel[label]; ok {
		if id == ambiguous {
			return "", ErrVisitIdentityUnresolved
		}
		return id, nil
	}
	if id, ok := r.byCore[coreLabel(label)]; ok && id != ambiguous {
		return id, nil
	}
	return "", ErrVisitIdentityUnresolved
}

// Has 判断 ID 是否在当前视图中
func (r *VisitIdentityResolver) Has(id string) bool {
	return r.ids[id]
}

// Len 已登记的访问数
func (r *VisitIdentityResolver) Len() int {
	return len(r.ids)
}
