// Package xconf 从配置文件加载日志实例定义。
//
// 配置文件是一个 instances 列表，每一项对应一个 [xlog.Config]。
// 支持 YAML 与 JSON，按文件扩展名自动识别：
//
//	instances:
//	  - instance_name: app
//	    file_name: app
//	    max_size_bytes: 20971520
//	    max_files: 5
//	  - instance_name: audit
//	    file_name: audit
//	    async: true
//
// 未给出的字段取 [xlog.NewConfig] 的默认值。配合 [Watch] 可以在
// 配置文件变更时得到重新解析后的实例列表回调。
package xconf
