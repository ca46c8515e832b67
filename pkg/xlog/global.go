package xlog

import (
	"sync"
	"sync/atomic"
)

// =============================================================================
// 全局注册表
//
// 定位：脚手架/小工具等简单场景。
// 在服务端推荐依赖注入（显式持有 Registry）。
// =============================================================================

// globalRegistry 全局注册表实例（并发安全）
var globalRegistry atomic.Pointer[Registry]

// globalMu 保护 globalOnce 及其 Do 执行（也用于 ResetDefault）
var globalMu sync.Mutex

// globalOnce 确保默认注册表只初始化一次
var globalOnce sync.Once

// defaultRegistry 创建默认注册表（惰性初始化）
//
// 设计决策: 在持锁状态下执行 once.Do，确保 ResetDefault（重置 globalOnce）
// 与 once.Do 之间不会发生并发竞争（覆盖 sync.Once 内部状态会导致 fatal）。
// 初始化后 Default() 走 atomic.Load 快速路径，不进入此函数。
func defaultRegistry() *Registry {
	globalMu.Lock()
	defer globalMu.Unlock()

	globalOnce.Do(func() {
		globalRegistry.Store(NewRegistry())
	})
	return globalRegistry.Load()
}

// Default 返回全局默认注册表
//
// 懒初始化：首次调用时创建空注册表。
// 并发安全：使用 sync.Once 和 atomic.Pointer。
func Default() *Registry {
	if g := globalRegistry.Load(); g != nil {
		return g
	}
	return defaultRegistry()
}

// SetDefault 替换全局默认注册表
//
// 用于测试或自定义配置场景（如挂接观测器）。
// 传入 nil 时忽略；要重置为默认注册表请使用 ResetDefault()。
func SetDefault(g *Registry) {
	if g == nil {
		return
	}
	globalRegistry.Store(g)
}

// ResetDefault 重置全局注册表为未初始化状态（仅用于测试）
//
// 调用后，下次 Default() 会重新创建空注册表。
// 注意：不会关闭已注册的实例，需要时先调用 Default().Shutdown()。
func ResetDefault() {
	globalMu.Lock()
	globalRegistry.Store(nil)
	globalOnce = sync.Once{}
	globalMu.Unlock()
}

// =============================================================================
// 便利函数：按实例名间接调用，实例未注册时静默忽略
// =============================================================================

// Register 在全局注册表上注册实例
func Register(cfg Config) (*Logger, error) {
	return Default().Register(cfg)
}

// Resolve 在全局注册表上按名查找实例
func Resolve(name string) (*Logger, bool) {
	return Default().Resolve(name)
}

// Debugf 向指定实例记录 Debug 级别日志，实例未注册时丢弃
func Debugf(instance, format string, args ...any) {
	if l, ok := Default().Resolve(instance); ok {
		l.Debugf(format, args...)
	}
}

// Infof 向指定实例记录 Info 级别日志，实例未注册时丢弃
func Infof(instance, format string, args ...any) {
	if l, ok := Default().Resolve(instance); ok {
		l.Infof(format, args...)
	}
}

// Warnf 向指定实例记录 Warn 级别日志，实例未注册时丢弃
func Warnf(instance, format string, args ...any) {
	if l, ok := Default().Resolve(instance); ok {
		l.Warnf(format, args...)
	}
}

// Errorf 向指定实例记录 Error 级别日志，实例未注册时丢弃
func Errorf(instance, format string, args ...any) {
	if l, ok := Default().Resolve(instance); ok {
		l.Errorf(format, args...)
	}
}

// Fatalf 向指定实例记录 Fatal 级别日志后以退出码 1 终止进程
//
// 实例未注册时不写日志，但仍然退出：Fatal 的语义是终止进程，
// 日志只是终止前的最后记录。
func Fatalf(instance, format string, args ...any) {
	if l, ok := Default().Resolve(instance); ok {
		l.Fatalf(format, args...)
		return
	}
	osExit(1)
}
