package xrelay

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/omeyang/xrlog/pkg/xmetrics"
)

// DefaultQueueSize 默认队列容量（行数）
const DefaultQueueSize = 1024

// config 转发器配置
type config struct {
	queueSize int
	onError   func(error)
	observer  xmetrics.Observer
}

// Option 转发器配置选项函数
type Option func(*config)

// WithQueueSize 设置队列容量（行数），最小为 1
func WithQueueSize(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.queueSize = n
		}
	}
}

// WithOnError 设置落盘失败的上报回调，默认输出到 stderr
//
// 回调在消费者 goroutine 上执行，不得向同一条链路写日志。
func WithOnError(fn func(error)) Option {
	return func(c *config) {
		c.onError = fn
	}
}

// WithObserver 设置内部事件观测器（丢行计数）
func WithObserver(obs xmetrics.Observer) Option {
	return func(c *config) {
		if obs != nil {
			c.observer = obs
		}
	}
}

// Relay 单消费者异步转发器
//
// 一个 Relay 只服务一个底层 writer；行在唯一的后台 goroutine 上
// 按入队顺序写出，底层 writer 自身的锁保证与同步写入方互不撕裂。
type Relay struct {
	writer   io.Writer
	queue    chan []byte
	stopped  chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	onError  func(error)
	observer xmetrics.Observer

	started bool
	startMu sync.Mutex
}

// New 创建转发器
//
// writer 为 nil 时 panic：转发器没有合法的无目标形态。
// 入队的行所有权转移给 Relay，调用方不得复用底层数组。
func New(writer io.Writer, opts ...Option) *Relay {
	if writer == nil {
		panic("xrelay: writer cannot be nil")
	}

	cfg := config{
		queueSize: DefaultQueueSize,
		observer:  xmetrics.Noop{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Relay{
		writer:   writer,
		queue:    make(chan []byte, cfg.queueSize),
		stopped:  make(chan struct{}),
		onError:  cfg.onError,
		observer: cfg.observer,
	}
}

// Start 启动后台消费者。幂等：多次调用只启动一次。
func (r *Relay) Start() {
	r.startMu.Lock()
	defer r.startMu.Unlock()

	if r.started {
		return
	}
	r.started = true

	r.wg.Add(1)
	go r.consume()
}

// consume 唯一的消费者循环
//
// 只从 queue 读取，不检查 stopped：Stop 关闭 queue 后本循环
// 自然把剩余行排空再退出（优雅关闭）。
func (r *Relay) consume() {
	defer r.wg.Done()
	for line := range r.queue {
		if _, err := r.writer.Write(line); err != nil {
			r.report(fmt.Errorf("xrelay: flush failed: %w", err))
		}
	}
}

// Enqueue 提交一行待写数据，永不阻塞
//
// 队列满时丢弃该行并计数，返回 false。Stop 之后提交返回 false。
func (r *Relay) Enqueue(line []byte) (ok bool) {
	// Stop 在 close(r.stopped) 与 close(r.queue) 之间存在极短窗口，
	// 此时 select 可能选中已关闭的 queue 分支。recover 兜底该竞争。
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
		}
	}()

	select {
	case <-r.stopped:
		return false
	case r.queue <- line:
		return true
	default:
		r.observer.Dropped()
		return false
	}
}

// Stop 停止转发器，排空队列后消费者退出。幂等。
func (r *Relay) Stop() {
	r.stopOnce.Do(func() {
		// 1. 先拒绝新行
		close(r.stopped)
		// 2. 关闭队列，消费者排空后退出循环
		close(r.queue)
		// 3. 等待剩余行全部落盘
		r.wg.Wait()
	})
}

// QueueSize 返回队列容量。
func (r *Relay) QueueSize() int {
	return cap(r.queue)
}

// report 上报落盘失败，回调 panic 被隔离
func (r *Relay) report(err error) {
	if r.onError != nil {
		defer func() { _ = recover() }() //nolint:errcheck
		r.onError(err)
		return
	}
	fmt.Fprintf(os.Stderr, "xrlog: %v\n", err)
}
