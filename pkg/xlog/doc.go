// Package xlog 提供多实例的滚动文件日志。
//
// # 核心概念
//
//   - Config: 不可变的实例配置，链式 builder 构造
//   - Logger: 实例名 + 共享的轮转写入器句柄，暴露分级写入
//   - Registry: 进程内 实例名 → Logger 的注册表，多个互不串扰的
//     日志落点可以共存（如每个子系统一个）
//
// # 磁盘布局
//
// 注册时在 <path>/<进程名>/ 下落盘：活动文件 <stem>.log，备份
// <stem>.1.log（最新）… <stem>.{maxFiles-1}.log（最旧）。
//
// # 行格式
//
//	2006-01-02 15:04:05.000 [00042][ INFO] message
//
// 时间戳为本地时区毫秒精度；方括号内依次是调用方 goroutine 的
// 短标签（5 位补零，仅用于人工关联交错行，不保证唯一）和左补齐到
// 5 字符的大写级别。
//
// # 注册与调用
//
//	cfg := xlog.NewConfig().
//		WithPath("logs").
//		WithFileName("app").
//		WithInstanceName("app")
//	logger, err := xlog.Register(cfg)
//	// ...
//	logger.Infof("service started on %s", addr)
//
// 调用点也可以只携带实例名：
//
//	xlog.Infof("app", "service started on %s", addr)
//
// 未注册的实例名是静默空操作。[Logger.Fatalf] 在写入尝试（无论成败）
// 之后以退出码 1 终止进程，这是唯一会终止进程的路径。
//
// # 同步与异步
//
// 默认同步写入：日志调用在写入器的锁和磁盘 I/O 上短暂阻塞，同一
// 写入器上的行序即抢锁顺序。WithAsync(true) 时写入经 xrelay 的有界
// 队列转发，调用方永不阻塞，代价是进程突然终止时可能丢失未落盘的
// 行（队列满时新行被丢弃并计数）。
//
// # 未定义行为
//
// 两个实例名不同的 Config 指向同一 <path>/<stem> 组合时，两个轮转
// 写入器会争用同一组文件。这种用法既不禁止也不支持，结果未定义；
// 需要多个调用点共享一个落点时，应共享同一个 Logger（指针或 Clone）。
// 同理，两个进程写同一路径也是未定义的。
package xlog
