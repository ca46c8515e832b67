// xlogctl 是 xrlog 日志实例的命令行工具。
//
// 用法:
//
//	xlogctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config   实例定义文件路径 (YAML/JSON)
//
// 命令:
//
//	check          校验实例定义文件并打印解析结果
//	emit           按配置注册实例并写入若干行日志
//	bench          多 goroutine 并发写入压测
//	help           显示帮助信息
//
// 退出码:
//
//	0: 命令执行成功
//	1: 命令执行失败（I/O 错误、注册失败等）
//	2: 参数错误（配置非法、缺少必需参数、未知命令等）
//
// 示例:
//
//	xlogctl -c instances.yaml check                 # 校验配置
//	xlogctl -c instances.yaml emit -n 100           # 写 100 行 Info 日志
//	xlogctl -c instances.yaml emit -l error -i app  # 向 app 实例写 Error 日志
//	xlogctl -c instances.yaml bench -g 8 -n 10000   # 8 个 goroutine 各写 1 万行
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run())
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	return &cli.Command{
		Name:    "xlogctl",
		Usage:   "xrlog 日志实例命令行工具",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "实例定义文件路径 (YAML/JSON)",
			},
		},
		Commands:       createCommands(),
		DefaultCommand: "help",
		// 设计决策: 禁止 urfave/cli 直接调用 os.Exit，
		// 由 run() 统一处理退出码映射，确保与文档退出码契约一致。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
	}
}

func run() int {
	app := createApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupSignalHandler(cancel)

	if err := app.Run(ctx, os.Args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr.err)
			return 2
		}
		if _, ok := err.(cli.ExitCoder); ok {
			// ExitErrHandler 已输出错误详情，此处仅设置退出码
			return 2
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}

	return 0
}
