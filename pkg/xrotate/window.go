package xrotate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/omeyang/xrlog/pkg/util/xfile"
	"github.com/omeyang/xrlog/pkg/xmetrics"
)

// 窗口轮转默认配置值
const (
	// DefaultMaxSizeBytes 默认单个日志文件大小上限（20 MiB）
	DefaultMaxSizeBytes = 20 * 1024 * 1024

	// DefaultMaxFiles 默认保留文件总数（含活动文件）
	DefaultMaxFiles = 5

	// filePerm 日志文件权限：所有者读写，组只读
	filePerm = 0640
)

// windowConfig 窗口轮转器配置
type windowConfig struct {
	// MaxSizeBytes 单个日志文件大小上限（字节）
	// 一次写入会超过此值时先触发轮转
	maxSizeBytes int64

	// MaxFiles 保留文件总数，含活动文件
	// 备份编号 1..maxFiles-1，超出窗口的文件在轮转时删除
	maxFiles int

	// InstantFlush 每次写入后强制落盘
	instantFlush bool

	// OnError 轮转失败的上报回调，默认输出到 stderr
	//
	// 安全约束：回调不得向同一 Rotator 写入数据，否则会递归死锁。
	onError func(error)

	// Observer 内部事件计数，默认 xmetrics.Noop
	observer xmetrics.Observer
}

// Option 窗口轮转器配置选项函数
type Option func(*windowConfig)

// WithMaxSizeBytes 设置单个日志文件大小上限（字节）
func WithMaxSizeBytes(n int64) Option {
	return func(c *windowConfig) {
		c.maxSizeBytes = n
	}
}

// WithMaxFiles 设置保留文件总数（含活动文件）
func WithMaxFiles(n int) Option {
	return func(c *windowConfig) {
		c.maxFiles = n
	}
}

// WithInstantFlush 设置是否在每次写入后强制落盘
func WithInstantFlush(enable bool) Option {
	return func(c *windowConfig) {
		c.instantFlush = enable
	}
}

// WithOnError 设置轮转失败的上报回调
//
// 设计决策: 不使用日志库记录内部错误，避免 Rotator 作为日志输出目标时
// 产生递归写入（写失败 → 打日志 → 再写失败）。回调 panic 会被隔离。
func WithOnError(fn func(error)) Option {
	return func(c *windowConfig) {
		c.onError = fn
	}
}

// WithObserver 设置内部事件观测器
func WithObserver(obs xmetrics.Observer) Option {
	return func(c *windowConfig) {
		if obs != nil {
			c.observer = obs
		}
	}
}

// windowRotator 固定编号窗口的 Rotator 实现
//
// 活动文件 {stem}.log 与大小计数由单一互斥锁保护，锁内二者总是
// 一致更新：size 在静止状态等于活动文件的实际字节长度。同一实例上
// 的所有写入经此锁串行化，落盘顺序即抢锁顺序。
type windowRotator struct {
	basePath     string // 无扩展名的路径 stem
	maxSizeBytes int64
	maxFiles     int
	instantFlush bool
	onError      func(error)
	observer     xmetrics.Observer

	mu       sync.Mutex
	file     *os.File // 活动文件句柄；轮转失败后可能为 nil，下次写入时恢复
	size     int64    // 活动文件当前字节数
	rotating bool     // 轮转进行中标记，重入时幂等跳过
	closed   bool
}

// NewWindow 创建固定编号窗口的轮转写入器
//
// basePath 是不含扩展名的路径 stem：活动文件为 {basePath}.log，
// 备份为 {basePath}.1.log … {basePath}.{maxFiles-1}.log。
// 父目录不存在时自动创建（权限 0750）。
//
// 活动文件以追加模式打开，初始大小取自文件元数据，进程重启后
// 大小统计从磁盘实际长度继续。
func NewWindow(basePath string, opts ...Option) (Rotator, error) {
	if basePath == "" {
		return nil, ErrEmptyBasePath
	}

	cfg := windowConfig{
		maxSizeBytes: DefaultMaxSizeBytes,
		maxFiles:     DefaultMaxFiles,
		observer:     xmetrics.Noop{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.maxSizeBytes <= 0 {
		return nil, fmt.Errorf("%w: got %d, want > 0", ErrInvalidMaxSize, cfg.maxSizeBytes)
	}
	// 轮转需要至少一个活动文件位；maxFiles == 0 是配置错误，
	// 必须在构造期拒绝而不是留到轮转时爆发
	if cfg.maxFiles < 1 {
		return nil, fmt.Errorf("%w: got %d, want >= 1", ErrInvalidMaxFiles, cfg.maxFiles)
	}

	safePath, err := xfile.Sanitize(basePath)
	if err != nil {
		return nil, err
	}
	if err := xfile.EnsureDir(filepath.Dir(safePath)); err != nil {
		return nil, err
	}

	r := &windowRotator{
		basePath:     safePath,
		maxSizeBytes: cfg.maxSizeBytes,
		maxFiles:     cfg.maxFiles,
		instantFlush: cfg.instantFlush,
		onError:      cfg.onError,
		observer:     cfg.observer,
	}

	file, size, err := openActive(r.activePath())
	if err != nil {
		return nil, err
	}
	r.file = file
	r.size = size
	return r, nil
}

// openActive 以创建/追加模式打开活动文件并读取当前大小
func openActive(path string) (*os.File, int64, error) {
	//#nosec G302 G304 -- 路径与权限由构造方控制
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, filePerm)
	if err != nil {
		return nil, 0, fmt.Errorf("xrotate: open active file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, 0, fmt.Errorf("xrotate: stat active file: %w", err)
	}
	return file, info.Size(), nil
}

// activePath 活动文件路径
func (r *windowRotator) activePath() string {
	return r.basePath + ".log"
}

// backupPath 第 i 号备份文件路径（1 为最新）
func (r *windowRotator) backupPath(i int) string {
	return fmt.Sprintf("%s.%d.log", r.basePath, i)
}

// Write 实现 [Rotator] 接口
//
// 本次写入会使活动文件超过大小上限时先轮转再写。轮转失败只上报，
// 写入照常落到（可能已超限的）当前活动文件——绝不因轮转失败丢日志。
// 短写且无错误时按操作系统实际写入的字节数计入 size。
func (r *windowRotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, ErrClosed
	}

	if r.size+int64(len(p)) > r.maxSizeBytes {
		if err := r.rotateLocked(); err != nil {
			r.report(fmt.Errorf("xrotate: rotation failed: %w", err))
		}
	}

	// 轮转失败可能丢失句柄，写入前必须恢复
	if r.file == nil {
		if err := r.recoverActiveLocked(); err != nil {
			r.observer.WriteError()
			return 0, err
		}
	}

	n, err := r.file.Write(p)
	r.size += int64(n)
	if err != nil {
		r.observer.WriteError()
		return n, err
	}

	if r.instantFlush {
		if err := r.file.Sync(); err != nil {
			r.observer.WriteError()
			return n, err
		}
	}

	r.observer.WriteBytes(n)
	return n, nil
}

// Sync 实现 [Rotator] 接口
func (r *windowRotator) Sync() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.file == nil {
		return ErrNoActiveFile
	}
	return r.file.Sync()
}

// Rotate 实现 [Rotator] 接口，手动触发一次轮转
func (r *windowRotator) Rotate() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	return r.rotateLocked()
}

// rotateLocked 执行轮转状态机，调用方必须持有 r.mu
//
// 状态机只有 Idle/Rotating 两态：rotating 标记使重入成为幂等空操作。
// 任一重命名中途失败时窗口可能不一致（一次被放弃的轮转），此时
// 通过 recoverActiveLocked 重新打开活动文件并以磁盘实际长度重建
// size，保证字节计数不因失败的轮转而失真。
func (r *windowRotator) rotateLocked() (err error) {
	if r.rotating {
		return nil
	}
	r.rotating = true
	defer func() {
		r.rotating = false
		r.observer.Rotation(err)
	}()

	// 落盘并释放活动文件句柄
	if r.file != nil {
		if serr := r.file.Sync(); serr != nil {
			// 句柄未动，放弃本次轮转，继续在原文件上写
			err = fmt.Errorf("sync active file: %w", serr)
			return err
		}
		cerr := r.file.Close()
		r.file = nil
		if cerr != nil {
			err = errors.Join(fmt.Errorf("close active file: %w", cerr), r.recoverActiveLocked())
			return err
		}
	}

	// 备份窗口整体后移：{stem}.i.log → {stem}.(i+1).log，i 从高到低
	// 重命名覆盖目标文件（last-write-wins），最旧的一号随之退出窗口
	for i := r.maxFiles - 2; i >= 1; i-- {
		src := r.backupPath(i)
		if _, serr := os.Stat(src); serr != nil {
			continue
		}
		if rerr := os.Rename(src, r.backupPath(i+1)); rerr != nil {
			err = errors.Join(fmt.Errorf("shift backup %d: %w", i, rerr), r.recoverActiveLocked())
			return err
		}
	}

	// 活动文件移入窗口首位
	if rerr := os.Rename(r.activePath(), r.backupPath(1)); rerr != nil {
		err = errors.Join(fmt.Errorf("archive active file: %w", rerr), r.recoverActiveLocked())
		return err
	}

	// 新的活动文件，大小归零
	file, size, oerr := openActive(r.activePath())
	if oerr != nil {
		err = oerr
		return err
	}
	r.file = file
	r.size = size

	// 清理窗口之外的残留文件。maxFiles 缩小后旧窗口可能留下多个
	// 高编号备份，从 maxFiles 起逐个删除，遇到第一个缺号即止
	// （备份编号由轮转连续产生，缺号之后不会再有残留）。
	for i := r.maxFiles; ; i++ {
		stale := r.backupPath(i)
		if _, serr := os.Stat(stale); serr != nil {
			break
		}
		if rerr := os.Remove(stale); rerr != nil {
			err = fmt.Errorf("remove stale backup: %w", rerr)
			return err
		}
	}
	return nil
}

// recoverActiveLocked 轮转失败后重新建立活动文件状态
//
// 重新打开 {stem}.log 并以磁盘实际长度重建 size。
func (r *windowRotator) recoverActiveLocked() error {
	file, size, err := openActive(r.activePath())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoActiveFile, err)
	}
	r.file = file
	r.size = size
	return nil
}

// report 上报内部错误
//
// 回调 panic 被 recover 隔离，防止错误通知反向中断写入方。
// 未配置回调时输出到 stderr：轮转失败是必须可见的非致命事件。
func (r *windowRotator) report(err error) {
	if err == nil {
		return
	}
	if r.onError != nil {
		defer func() { _ = recover() }() //nolint:errcheck
		r.onError(err)
		return
	}
	fmt.Fprintf(os.Stderr, "xrlog: %v\n", err)
}

// Close 实现 [Rotator] 接口
//
// 最后一次释放前落盘。重复调用返回 [ErrClosed]。
func (r *windowRotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	r.closed = true

	if r.file == nil {
		return nil
	}
	file := r.file
	r.file = nil

	serr := file.Sync()
	cerr := file.Close()
	if serr != nil {
		return serr
	}
	return cerr
}
