package store

import (
	"github.com/shopperos/tastekit/config"
	"github.com/shopperos/tastekit/core"
)

// NewFromConfig 根据缓存配置构造 Store。
// backend 为空或 "none" 时返回 (nil, nil)，表示禁用缓存；
// 未知 backend 返回 INVALID_INPUT（config.Validate 之外的第二道防线）。
func NewFromConfig(c config.Cache) (core.Store, error) {
	switch c.Backend {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(c.Addr, c.DB)
	default:
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
			"store: unknown cache backend: "+c.Backend)
	}
}
