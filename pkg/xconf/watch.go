package xconf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/omeyang/xrlog/pkg/xlog"
)

// WatchCallback 文件变更回调函数
//
// 配置文件变更并重新解析后调用；err 非 nil 时 configs 为 nil，
// 上一份有效配置继续生效与否由调用方决定。
type WatchCallback func(configs []xlog.Config, err error)

// watchOptions 监视器配置
type watchOptions struct {
	debounce time.Duration
}

// WatchOption 监视器配置选项
type WatchOption func(*watchOptions)

func defaultWatchOptions() *watchOptions {
	return &watchOptions{
		debounce: 100 * time.Millisecond,
	}
}

// WithDebounce 设置防抖时间
// 在指定时间内的多次变更只触发一次重载，默认 100ms
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// Watcher 配置文件监视器
// 监控实例定义文件的变更并在重新解析后通知调用方
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	callback WatchCallback
	debounce time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	running  bool
	timer    *time.Timer // debounce 定时器，Stop() 时需要取消
}

// Watch 创建配置文件监视器
//
// 监视配置文件所在目录而非文件本身：编辑器保存时可能先删除再
// 创建（或写临时文件后 rename），直接监视文件会丢失事件。
// 返回的 Watcher 需要调用 Start 开始监视，Stop 停止。
func Watch(path string, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if _, err := detectFormat(path); err != nil {
		return nil, err
	}

	options := defaultWatchOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xconf: failed to create watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := fsWatcher.Add(dir); err != nil {
		closeErr := fsWatcher.Close()
		return nil, errors.Join(
			fmt.Errorf("xconf: failed to watch directory %s: %w", dir, err),
			closeErr,
		)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		path:     path,
		watcher:  fsWatcher,
		callback: callback,
		debounce: options.debounce,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start 启动监视
// 在后台 goroutine 中运行，立即返回。幂等。
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.run()
}

// Stop 停止监视。幂等。
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	// 停止 debounce 定时器，防止 Stop 后仍触发回调
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}

	w.cancel()
	w.running = false
	return w.watcher.Close()
}

// run 监视循环
func (w *Watcher) run() {
	filename := filepath.Base(w.path)

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event, filename)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.handleError(err)
		}
	}
}

// handleEvent 处理文件系统事件
func (w *Watcher) handleEvent(event fsnotify.Event, filename string) {
	if filepath.Base(event.Name) != filename {
		return
	}

	// Write 直接修改；Create 新建；Rename 原子写入（写临时文件后 rename）
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	// 防抖：重置计时器
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.ctx.Done():
			return
		default:
		}

		configs, err := Load(w.path)
		if w.callback != nil {
			w.callback(configs, err)
		}
	})
}

// handleError 处理 watcher 自身的错误
func (w *Watcher) handleError(err error) {
	if w.callback != nil {
		w.callback(nil, fmt.Errorf("xconf: watch error: %w", err))
	}
}
