package xlog

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/omeyang/xrlog/pkg/util/xfile"
	"github.com/omeyang/xrlog/pkg/util/xproc"
	"github.com/omeyang/xrlog/pkg/xmetrics"
	"github.com/omeyang/xrlog/pkg/xrelay"
	"github.com/omeyang/xrlog/pkg/xrotate"
)

// registryConfig 注册表配置
type registryConfig struct {
	observer xmetrics.Observer
	onError  func(error)
}

// RegistryOption 注册表配置选项函数
type RegistryOption func(*registryConfig)

// WithObserver 设置观测器，透传给所有实例的写入器和转发器
func WithObserver(obs xmetrics.Observer) RegistryOption {
	return func(c *registryConfig) {
		if obs != nil {
			c.observer = obs
		}
	}
}

// WithOnError 设置内部错误上报回调，透传给所有实例
//
// 安全约束：回调不得调用本注册表的日志接口，否则会递归写入。
func WithOnError(fn func(error)) RegistryOption {
	return func(c *registryConfig) {
		c.onError = fn
	}
}

// Registry 命名日志实例注册表
//
// 实例名到 Logger 的映射，读多写少：Register/Shutdown 是少量的
// 初始化与收尾操作，Resolve 在热路径上，因此用读写锁而非普通互斥。
type Registry struct {
	mu        sync.RWMutex
	instances map[string]*Logger
	observer  xmetrics.Observer
	onError   func(error)
}

// NewRegistry 创建空注册表
func NewRegistry(opts ...RegistryOption) *Registry {
	cfg := registryConfig{
		observer: xmetrics.Noop{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Registry{
		instances: make(map[string]*Logger),
		observer:  cfg.observer,
		onError:   cfg.onError,
	}
}

// Register 按配置创建并注册一个命名日志实例
//
// 目录布局为 <Path>/<进程名>/，活动文件 <FileName>.log。目录创建
// 或文件打开失败是硬错误，实例不会注册。
//
// 同名重复注册时新实例替换旧实例：旧实例的异步转发器被停止（排空
// 队列），但旧写入器不关闭，已取出的 Logger 副本仍可继续写。
func (g *Registry) Register(cfg Config) (*Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dir := filepath.Join(cfg.Path, xproc.Name())
	if err := xfile.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("xlog: create log dir: %w", err)
	}

	rot, err := xrotate.NewWindow(filepath.Join(dir, cfg.FileName),
		xrotate.WithMaxSizeBytes(cfg.MaxSizeBytes),
		xrotate.WithMaxFiles(cfg.MaxFiles),
		xrotate.WithInstantFlush(cfg.InstantFlush),
		xrotate.WithOnError(g.onError),
		xrotate.WithObserver(g.observer),
	)
	if err != nil {
		return nil, err
	}

	l := &Logger{
		name: cfg.InstanceName,
		rot:  rot,
	}
	if cfg.Async {
		l.relay = xrelay.New(rot,
			xrelay.WithQueueSize(cfg.QueueSize),
			xrelay.WithOnError(g.onError),
			xrelay.WithObserver(g.observer),
		)
		l.relay.Start()
	}

	g.mu.Lock()
	old := g.instances[cfg.InstanceName]
	g.instances[cfg.InstanceName] = l
	g.mu.Unlock()

	// 被替换实例的后台 goroutine 必须回收，否则泄漏
	if old != nil && old.relay != nil {
		old.relay.Stop()
	}
	return l, nil
}

// Resolve 按实例名查找日志实例
func (g *Registry) Resolve(name string) (*Logger, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	l, ok := g.instances[name]
	return l, ok
}

// Shutdown 停止全部实例：排空异步队列、落盘并关闭写入器
//
// 多个底层错误合并返回。调用后注册表为空，可继续注册新实例。
func (g *Registry) Shutdown() error {
	g.mu.Lock()
	instances := g.instances
	g.instances = make(map[string]*Logger)
	g.mu.Unlock()

	var errs []error
	for name, l := range instances {
		if l.relay != nil {
			l.relay.Stop()
		}
		if err := l.rot.Close(); err != nil {
			errs = append(errs, fmt.Errorf("xlog: close instance %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
