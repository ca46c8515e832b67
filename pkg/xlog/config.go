package xlog

import (
	"fmt"

	"github.com/omeyang/xrlog/pkg/xrelay"
	"github.com/omeyang/xrlog/pkg/xrotate"
)

// 实例配置默认值
const (
	// DefaultPath 默认日志目录
	DefaultPath = "logs"

	// DefaultFileName 默认文件名 stem
	DefaultFileName = "record"

	// DefaultInstanceName 默认实例名
	DefaultInstanceName = "default"
)

// Config 日志实例配置
//
// 值对象：链式 With* 方法返回修改后的副本，注册后不再变更。
// 字段标签供 xconf 从配置文件反序列化使用。
type Config struct {
	// Path 实例日志文件的基础目录，实际落盘在 <Path>/<进程名>/ 之下
	Path string `koanf:"path"`

	// FileName 文件名 stem，据此派生 {stem}.log、{stem}.1.log …
	FileName string `koanf:"file_name"`

	// MaxSizeBytes 单个日志文件大小上限（字节），轮转触发阈值
	MaxSizeBytes int64 `koanf:"max_size_bytes"`

	// MaxFiles 保留文件总数，含活动文件
	MaxFiles int `koanf:"max_files"`

	// Async 启用后台异步落盘转发
	Async bool `koanf:"async"`

	// QueueSize 异步队列容量（行数），仅 Async 时生效
	QueueSize int `koanf:"queue_size"`

	// InstantFlush 每次写入后强制落盘
	InstantFlush bool `koanf:"instant_flush"`

	// InstanceName 注册表键
	InstanceName string `koanf:"instance_name"`
}

// NewConfig 返回带默认值的实例配置
//
// 默认：目录 logs/、stem record、上限 20 MiB、保留 5 个文件、
// 同步模式、不强制落盘、实例名 default。
func NewConfig() Config {
	return Config{
		Path:         DefaultPath,
		FileName:     DefaultFileName,
		MaxSizeBytes: xrotate.DefaultMaxSizeBytes,
		MaxFiles:     xrotate.DefaultMaxFiles,
		QueueSize:    xrelay.DefaultQueueSize,
		InstanceName: DefaultInstanceName,
	}
}

// WithPath 设置日志基础目录
func (c Config) WithPath(path string) Config {
	c.Path = path
	return c
}

// WithFileName 设置文件名 stem
func (c Config) WithFileName(name string) Config {
	c.FileName = name
	return c
}

// WithMaxSize 设置单个日志文件大小上限（字节）
func (c Config) WithMaxSize(bytes int64) Config {
	c.MaxSizeBytes = bytes
	return c
}

// WithMaxFiles 设置保留文件总数（含活动文件）
func (c Config) WithMaxFiles(count int) Config {
	c.MaxFiles = count
	return c
}

// WithAsync 设置是否启用异步落盘
func (c Config) WithAsync(async bool) Config {
	c.Async = async
	return c
}

// WithQueueSize 设置异步队列容量（行数）
func (c Config) WithQueueSize(n int) Config {
	c.QueueSize = n
	return c
}

// WithInstantFlush 设置是否在每次写入后强制落盘
func (c Config) WithInstantFlush(instant bool) Config {
	c.InstantFlush = instant
	return c
}

// WithInstanceName 设置实例名（注册表键）
func (c Config) WithInstanceName(name string) Config {
	c.InstanceName = name
	return c
}

// Validate 校验配置
//
// 数值约束复用 xrotate 的哨兵错误，保证注册期与构造期同一套
// 错误分类。maxFiles < 1 必须在这里拦下，不能留到轮转时爆发。
func (c Config) Validate() error {
	if c.Path == "" {
		return ErrEmptyPath
	}
	if c.FileName == "" {
		return ErrEmptyFileName
	}
	if c.InstanceName == "" {
		return ErrEmptyInstanceName
	}
	if c.MaxSizeBytes <= 0 {
		return fmt.Errorf("%w: got %d, want > 0", xrotate.ErrInvalidMaxSize, c.MaxSizeBytes)
	}
	if c.MaxFiles < 1 {
		return fmt.Errorf("%w: got %d, want >= 1", xrotate.ErrInvalidMaxFiles, c.MaxFiles)
	}
	return nil
}
