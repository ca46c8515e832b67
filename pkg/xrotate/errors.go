package xrotate

import "errors"

// 配置校验错误
var (
	// ErrEmptyBasePath 基础路径为空
	ErrEmptyBasePath = errors.New("xrotate: base path is required")

	// ErrInvalidMaxSize MaxSizeBytes 值无效（必须 > 0）
	ErrInvalidMaxSize = errors.New("xrotate: invalid MaxSizeBytes")

	// ErrInvalidMaxFiles MaxFiles 值无效（必须 >= 1，含活动文件）
	ErrInvalidMaxFiles = errors.New("xrotate: invalid MaxFiles")

	// ErrClosed 轮转器已关闭
	ErrClosed = errors.New("xrotate: rotator is closed")

	// ErrNoActiveFile 活动文件不可用（上一次轮转失败且恢复未成功）
	ErrNoActiveFile = errors.New("xrotate: no active file")
)
