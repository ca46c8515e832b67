package xconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/omeyang/xrlog/pkg/xlog"
)

// Format 配置文件格式
type Format string

// 支持的配置格式
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// instancesKey 实例列表在配置文件里的键名
const instancesKey = "instances"

// Load 从文件加载日志实例定义
//
// 根据文件扩展名自动检测格式（.yaml/.yml 或 .json）。
// 每个实例定义先取 [xlog.NewConfig] 默认值，再用文件中给出的字段
// 覆盖，最后逐项校验：任何一项非法则整个加载失败，不做部分生效。
func Load(path string) ([]xlog.Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //#nosec G304 -- 路径由调用方指定
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return LoadBytes(data, format)
}

// LoadBytes 从字节数据加载日志实例定义
//
// 需要显式指定格式，适用于内嵌配置或 ConfigMap 场景。
// 空数据返回空列表，与空文件行为一致。
func LoadBytes(data []byte, format Format) ([]xlog.Config, error) {
	parser, err := parserFor(format)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if len(data) > 0 {
		if err := k.Load(rawbytes.Provider(data), parser); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
		}
	}

	subs := k.Slices(instancesKey)
	configs := make([]xlog.Config, 0, len(subs))
	for i, sub := range subs {
		// 默认值打底，文件字段覆盖
		cfg := xlog.NewConfig()
		if err := sub.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
			Tag: "koanf",
		}); err != nil {
			return nil, fmt.Errorf("%w: instance %d: %w", ErrParseFailed, i, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%w: instance %d: %w", ErrInvalidInstance, i, err)
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// detectFormat 根据文件扩展名检测配置格式。
func detectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %s", ErrUnsupportedFormat, ext)
	}
}

// parserFor 返回格式对应的 koanf 解析器。
func parserFor(format Format) (koanf.Parser, error) {
	switch format {
	case FormatYAML:
		return yaml.Parser(), nil
	case FormatJSON:
		return json.Parser(), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}
