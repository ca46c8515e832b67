package xlog

import "errors"

// 配置校验错误
var (
	// ErrEmptyPath 日志目录为空
	ErrEmptyPath = errors.New("xlog: path is required")

	// ErrEmptyFileName 文件名 stem 为空
	ErrEmptyFileName = errors.New("xlog: file name is required")

	// ErrEmptyInstanceName 实例名为空
	ErrEmptyInstanceName = errors.New("xlog: instance name is required")
)

// ErrLineDropped 异步队列已满，该行被丢弃
var ErrLineDropped = errors.New("xlog: async queue full, line dropped")
