package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xrlog/pkg/xconf"
	"github.com/omeyang/xrlog/pkg/xlog"
)

// usageError 表示参数或配置错误，退出码 2。
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createCheckCommand(),
		createEmitCommand(),
		createBenchCommand(),
	}
}

// createCheckCommand 创建 check 子命令。
func createCheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "校验实例定义文件并打印解析结果",
		Action: func(_ context.Context, cmd *cli.Command) error {
			configs, err := loadConfigs(cmd)
			if err != nil {
				return err
			}
			for _, cfg := range configs {
				mode := "sync"
				if cfg.Async {
					mode = fmt.Sprintf("async(queue=%d)", cfg.QueueSize)
				}
				fmt.Printf("%-16s %s/%s.log  max_size=%d max_files=%d %s\n",
					cfg.InstanceName, cfg.Path, cfg.FileName,
					cfg.MaxSizeBytes, cfg.MaxFiles, mode)
			}
			fmt.Printf("%d instance(s) OK\n", len(configs))
			return nil
		},
	}
}

// createEmitCommand 创建 emit 子命令。
func createEmitCommand() *cli.Command {
	return &cli.Command{
		Name:  "emit",
		Usage: "按配置注册实例并写入若干行日志",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "instance",
				Aliases: []string{"i"},
				Usage:   "目标实例名",
				Value:   xlog.DefaultInstanceName,
			},
			&cli.StringFlag{
				Name:    "level",
				Aliases: []string{"l"},
				Usage:   "日志级别 (debug/info/warn/error)",
				Value:   "info",
			},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "写入行数",
				Value:   1,
			},
			&cli.StringFlag{
				Name:    "message",
				Aliases: []string{"m"},
				Usage:   "日志消息",
				Value:   "xlogctl emit",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdEmit(cmd)
		},
	}
}

// createBenchCommand 创建 bench 子命令。
func createBenchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "多 goroutine 并发写入压测",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "instance",
				Aliases: []string{"i"},
				Usage:   "目标实例名",
				Value:   xlog.DefaultInstanceName,
			},
			&cli.IntFlag{
				Name:    "goroutines",
				Aliases: []string{"g"},
				Usage:   "并发 goroutine 数",
				Value:   4,
			},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "每个 goroutine 写入行数",
				Value:   1000,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdBench(ctx, cmd)
		},
	}
}

// loadConfigs 读取并校验全局 --config 指定的实例定义。
// 配置问题一律映射为参数错误（退出码 2）。
func loadConfigs(cmd *cli.Command) ([]xlog.Config, error) {
	path := cmd.String("config")
	if path == "" {
		return nil, &usageError{err: fmt.Errorf("缺少 --config 参数")}
	}
	configs, err := xconf.Load(path)
	if err != nil {
		return nil, &usageError{err: err}
	}
	if len(configs) == 0 {
		return nil, &usageError{err: fmt.Errorf("配置文件 %s 未定义任何实例", path)}
	}
	return configs, nil
}

// setupRegistry 注册全部实例并返回目标实例。
func setupRegistry(cmd *cli.Command, instance string) (*xlog.Registry, *xlog.Logger, error) {
	configs, err := loadConfigs(cmd)
	if err != nil {
		return nil, nil, err
	}

	reg := xlog.NewRegistry()
	for _, cfg := range configs {
		if _, err := reg.Register(cfg); err != nil {
			_ = reg.Shutdown()
			return nil, nil, fmt.Errorf("注册实例 %s 失败: %w", cfg.InstanceName, err)
		}
	}

	l, ok := reg.Resolve(instance)
	if !ok {
		_ = reg.Shutdown()
		return nil, nil, &usageError{err: fmt.Errorf("实例 %s 未在配置中定义", instance)}
	}
	return reg, l, nil
}

// cmdEmit 执行 emit 命令。
func cmdEmit(cmd *cli.Command) error {
	level, err := xlog.ParseLevel(cmd.String("level"))
	if err != nil {
		return &usageError{err: err}
	}
	count := cmd.Int("count")
	if count < 1 {
		return &usageError{err: fmt.Errorf("count 必须 >= 1, 实际 %d", count)}
	}

	reg, l, err := setupRegistry(cmd, cmd.String("instance"))
	if err != nil {
		return err
	}
	defer func() { _ = reg.Shutdown() }()

	msg := cmd.String("message")
	for i := 0; i < count; i++ {
		if err := l.Logf(level, "%s #%d", msg, i+1); err != nil {
			return fmt.Errorf("写入第 %d 行失败: %w", i+1, err)
		}
	}
	fmt.Printf("emitted %d line(s) to instance %s\n", count, l.Name())
	return nil
}

// cmdBench 执行 bench 命令。
func cmdBench(ctx context.Context, cmd *cli.Command) error {
	workers := cmd.Int("goroutines")
	count := cmd.Int("count")
	if workers < 1 || count < 1 {
		return &usageError{err: fmt.Errorf("goroutines 和 count 必须 >= 1")}
	}

	reg, l, err := setupRegistry(cmd, cmd.String("instance"))
	if err != nil {
		return err
	}
	defer func() { _ = reg.Shutdown() }()

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		worker := w
		g.Go(func() error {
			for i := 0; i < count; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				if err := l.Logf(xlog.LevelInfo, "bench worker=%d seq=%d", worker, i); err != nil {
					return fmt.Errorf("worker %d: %w", worker, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	elapsed := time.Since(start)
	total := workers * count
	fmt.Printf("wrote %d lines in %s (%.0f lines/s)\n",
		total, elapsed.Round(time.Millisecond), float64(total)/elapsed.Seconds())
	return nil
}

// setupSignalHandler 设置信号处理。
// 设计决策: 第一次信号优雅取消，第二次信号强制退出（退出码 130 = 128 + SIGINT）。
func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()

		<-sigCh
		signal.Stop(sigCh)
		os.Exit(130)
	}()
}
