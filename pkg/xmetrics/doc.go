// Package xmetrics 提供 xrlog 内部事件的观测接口。
//
// 轮转写入器与异步转发器通过 [Observer] 上报计数事件：写入字节数、
// 轮转次数（含失败）、写入失败次数、异步队列丢弃行数。默认实现为
// [Noop]（零开销），生产环境可注入 [NewOTel] 创建的 OpenTelemetry
// 实现，把计数接入既有的指标管道。
//
// 设计决策: 观测接口只有计数语义，没有 span。文件写入是微秒级本地
// 操作，链路追踪的开销与价值都不成立；需要延迟分布时应在调用方采样。
package xmetrics
