package snapshot

import (
	"sync"
	"sync/atomic"

	"github.com/shopperos/tastekit/core"
)

// Handle 是快照的进程级持有者，负责原子发布与重载。
//
// 读路径无锁：每个请求读一次指针，之后只对那份不可变快照操作。
// 重载在旁路构建完整新快照，成功后一次原子交换；失败时旧快照继续服务。
// 加载从不隐式发生在首次使用时——未加载就查询会得到 LOAD_FAILED。
type Handle struct {
	dir string
	cur atomic.Pointer[Snapshot]

	// reloadMu 只串行化并发的 Reload 调用，与读路径无关
	reloadMu sync.Mutex
}

// NewHandle 创建一个空的 Handle，不触发加载。
func NewHandle(dir string) *Handle {
	return &Handle{dir: dir}
}

// Open 创建 Handle 并立即加载一次，常用于进程启动。
func Open(dir string) (*Handle, error) {
	h := NewHandle(dir)
	if err := h.Reload(); err != nil {
		return nil, err
	}
	return h, nil
}

// Current 返回当前快照。尚未成功加载过时返回 LOAD_FAILED。
func (h *Handle) Current() (*Snapshot, error) {
	s := h.cur.Load()
	if s == nil {
		return nil, core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeLoadFailed,
			"snapshot: not loaded")
	}
	return s, nil
}

// Loaded 报告是否已有可服务的快照。
func (h *Handle) Loaded() bool {
	return h.cur.Load() != nil
}

// Reload 重新加载并原子发布。失败时上一份快照（如有）保持不变。
func (h *Handle) Reload() error {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	s, err := Load(h.dir)
	if err != nil {
		return err
	}
	h.cur.Store(s)
	return nil
}
