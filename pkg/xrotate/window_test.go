package xrotate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// 测试辅助
// =============================================================================

// newTestWindow 在临时目录里创建窗口轮转器，返回 rotator 和路径 stem
func newTestWindow(t *testing.T, opts ...Option) (Rotator, string) {
	t.Helper()
	stem := filepath.Join(t.TempDir(), "record")
	r, err := NewWindow(stem, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r, stem
}

// line 生成一条恰好 n 字节、以换行结尾的测试行
func line(n int) []byte {
	b := bytes.Repeat([]byte("x"), n-1)
	return append(b, '\n')
}

// readFile 读取文件内容，不存在时使测试失败
func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

// backupCount 统计 stem 的备份文件数量
func backupCount(t *testing.T, stem string) int {
	t.Helper()
	count := 0
	for i := 1; i < 100; i++ {
		if _, err := os.Stat(fmt.Sprintf("%s.%d.log", stem, i)); err == nil {
			count++
		}
	}
	return count
}

// countObserver 计数用的 Observer 测试替身
type countObserver struct {
	mu          sync.Mutex
	bytes       int
	rotations   int
	rotationErr int
	writeErrs   int
	dropped     int
}

func (o *countObserver) WriteBytes(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bytes += n
}

func (o *countObserver) Rotation(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rotations++
	if err != nil {
		o.rotationErr++
	}
}

func (o *countObserver) WriteError() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.writeErrs++
}

func (o *countObserver) Dropped() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dropped++
}

// =============================================================================
// 构造与配置校验
// =============================================================================

func TestNewWindowValidation(t *testing.T) {
	tests := []struct {
		name    string
		stem    string
		opts    []Option
		wantErr error
	}{
		{name: "空路径", stem: "", wantErr: ErrEmptyBasePath},
		{name: "MaxSizeBytes为零", stem: "record", opts: []Option{WithMaxSizeBytes(0)}, wantErr: ErrInvalidMaxSize},
		{name: "MaxSizeBytes为负数", stem: "record", opts: []Option{WithMaxSizeBytes(-1)}, wantErr: ErrInvalidMaxSize},
		{name: "MaxFiles为零", stem: "record", opts: []Option{WithMaxFiles(0)}, wantErr: ErrInvalidMaxFiles},
		{name: "MaxFiles为负数", stem: "record", opts: []Option{WithMaxFiles(-2)}, wantErr: ErrInvalidMaxFiles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stem := tt.stem
			if stem != "" {
				stem = filepath.Join(t.TempDir(), stem)
			}
			_, err := NewWindow(stem, tt.opts...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewWindowNilOption(t *testing.T) {
	r, err := NewWindow(filepath.Join(t.TempDir(), "record"), nil, WithMaxFiles(3), nil)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Write([]byte("test\n"))
	assert.NoError(t, err)
}

func TestNewWindowCreatesParentDir(t *testing.T) {
	stem := filepath.Join(t.TempDir(), "a", "b", "record")
	r, err := NewWindow(stem)
	require.NoError(t, err)
	defer r.Close()

	_, err = os.Stat(stem + ".log")
	assert.NoError(t, err)
}

// =============================================================================
// 写入与轮转
// =============================================================================

// TestWriteNoRotationUnderLimit 累计写入不超上限时不轮转，
// 活动文件长度等于写入字节总和
func TestWriteNoRotationUnderLimit(t *testing.T) {
	r, stem := newTestWindow(t, WithMaxSizeBytes(1000), WithMaxFiles(3))

	total := 0
	for i := 0; i < 10; i++ {
		n, err := r.Write(line(100))
		require.NoError(t, err)
		total += n
	}
	require.NoError(t, r.Sync())

	assert.Equal(t, 1000, total)
	assert.Len(t, readFile(t, stem+".log"), 1000)
	assert.Equal(t, 0, backupCount(t, stem))
}

// TestWriteOverflowTriggersRotation 场景：maxSize=100、maxFiles=3，
// 单次写入 120 字节 → 先轮转后写，120 字节落在新的活动文件里，
// 此前为空的活动文件成为空的 1 号备份
func TestWriteOverflowTriggersRotation(t *testing.T) {
	r, stem := newTestWindow(t, WithMaxSizeBytes(100), WithMaxFiles(3))

	n, err := r.Write(line(120))
	require.NoError(t, err)
	assert.Equal(t, 120, n)

	assert.Len(t, readFile(t, stem+".log"), 120)
	assert.Empty(t, readFile(t, stem+".1.log"))
}

// TestRotationOnCallThatWouldOverflow 轮转发生在将要越限的那一次调用之前，
// 而不是越限之后
func TestRotationOnCallThatWouldOverflow(t *testing.T) {
	r, stem := newTestWindow(t, WithMaxSizeBytes(100), WithMaxFiles(3))

	_, err := r.Write(line(60))
	require.NoError(t, err)
	// 60+60 > 100：本次写入前轮转
	_, err = r.Write(line(60))
	require.NoError(t, err)

	assert.Len(t, readFile(t, stem+".log"), 60)
	assert.Len(t, readFile(t, stem+".1.log"), 60)
}

// TestBackupWindow k 次轮转、maxFiles=N 之后恰有 min(k, N-1) 个备份，
// 编号 1..min(k,N-1)，不存在编号 >= N 的文件
func TestBackupWindow(t *testing.T) {
	const maxFiles = 3
	r, stem := newTestWindow(t, WithMaxSizeBytes(50), WithMaxFiles(maxFiles))

	for k := 1; k <= 5; k++ {
		// 每条 30 字节，第二条触发轮转
		_, err := r.Write(line(30))
		require.NoError(t, err)
		_, err = r.Write(line(30))
		require.NoError(t, err)

		want := k
		if want > maxFiles-1 {
			want = maxFiles - 1
		}
		assert.Equal(t, want, backupCount(t, stem), "第 %d 次轮转后", k)
		_, err = os.Stat(fmt.Sprintf("%s.%d.log", stem, maxFiles))
		assert.True(t, os.IsNotExist(err), "编号 >= %d 的备份不应存在", maxFiles)
	}
}

// TestWindowShrinkCleansAllStaleBackups maxFiles 缩小后，旧窗口留下的
// 所有高编号备份在下一次轮转时一并清理，不只删除一个编号
func TestWindowShrinkCleansAllStaleBackups(t *testing.T) {
	stem := filepath.Join(t.TempDir(), "record")

	// 大窗口先积累 1..4 号备份
	r1, err := NewWindow(stem, WithMaxSizeBytes(10), WithMaxFiles(5))
	require.NoError(t, err)
	for i := 1; i <= 4; i++ {
		_, werr := r1.Write([]byte(fmt.Sprintf("batch-%d\n", i)))
		require.NoError(t, werr)
		require.NoError(t, r1.Rotate())
	}
	require.NoError(t, r1.Close())
	assert.Equal(t, 4, backupCount(t, stem))

	// 缩小窗口重新打开，一次轮转后编号 >= 2 的残留全部消失
	r2, err := NewWindow(stem, WithMaxSizeBytes(10), WithMaxFiles(2))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r2.Close() })

	_, err = r2.Write([]byte("fresh\n"))
	require.NoError(t, err)
	require.NoError(t, r2.Rotate())

	assert.Equal(t, 1, backupCount(t, stem))
	assert.Equal(t, "fresh\n", string(readFile(t, stem+".1.log")))
	for i := 2; i <= 5; i++ {
		_, serr := os.Stat(fmt.Sprintf("%s.%d.log", stem, i))
		assert.True(t, os.IsNotExist(serr), "编号 %d 的残留备份应已删除", i)
	}
}

// TestBackupContentOrder 1 号备份总是最近轮转出去的内容
func TestBackupContentOrder(t *testing.T) {
	r, stem := newTestWindow(t, WithMaxSizeBytes(10), WithMaxFiles(4))

	for i := 1; i <= 3; i++ {
		_, err := r.Write([]byte(fmt.Sprintf("batch-%d\n", i)))
		require.NoError(t, err)
		require.NoError(t, r.Rotate())
	}

	assert.Equal(t, "batch-3\n", string(readFile(t, stem+".1.log")))
	assert.Equal(t, "batch-2\n", string(readFile(t, stem+".2.log")))
	assert.Equal(t, "batch-1\n", string(readFile(t, stem+".3.log")))
}

// TestMaxFilesOne 只保留活动文件：轮转出去的内容立即退出窗口
func TestMaxFilesOne(t *testing.T) {
	r, stem := newTestWindow(t, WithMaxSizeBytes(100), WithMaxFiles(1))

	_, err := r.Write([]byte("old\n"))
	require.NoError(t, err)
	require.NoError(t, r.Rotate())

	assert.Empty(t, readFile(t, stem+".log"))
	assert.Equal(t, 0, backupCount(t, stem))
}

// TestRestartContinuesSize 对既有非空活动文件重新构造时，初始大小取
// 磁盘实际长度，超出剩余额度的写入仍能正确轮转
func TestRestartContinuesSize(t *testing.T) {
	stem := filepath.Join(t.TempDir(), "record")

	r1, err := NewWindow(stem, WithMaxSizeBytes(100), WithMaxFiles(3))
	require.NoError(t, err)
	_, err = r1.Write(line(80))
	require.NoError(t, err)
	require.NoError(t, r1.Close())

	// 重启：size 应从 80 续算
	r2, err := NewWindow(stem, WithMaxSizeBytes(100), WithMaxFiles(3))
	require.NoError(t, err)
	defer r2.Close()

	_, err = r2.Write(line(30)) // 80+30 > 100 → 轮转
	require.NoError(t, err)

	assert.Len(t, readFile(t, stem+".log"), 30)
	assert.Len(t, readFile(t, stem+".1.log"), 80)
}

// TestConcurrentWrites M 条并发写入产生恰好 M 条完整的、未被撕裂的行
func TestConcurrentWrites(t *testing.T) {
	const (
		goroutines = 8
		perG       = 50
	)
	r, stem := newTestWindow(t, WithMaxSizeBytes(1<<20), WithMaxFiles(2))

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				_, err := r.Write([]byte(fmt.Sprintf("writer-%d line-%d\n", g, i)))
				assert.NoError(t, err)
			}
		}(g)
	}
	wg.Wait()
	require.NoError(t, r.Sync())

	content := string(readFile(t, stem+".log"))
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	assert.Len(t, lines, goroutines*perG)
	for _, l := range lines {
		assert.Regexp(t, `^writer-\d+ line-\d+$`, l)
	}
}

// =============================================================================
// 失败路径
// =============================================================================

// TestRotationFailureDoesNotLoseWrites 轮转无法进行时（活动文件所在目录
// 不可写导致重命名失败）写入仍然成功，错误经 OnError 上报
func TestRotationFailureDoesNotLoseWrites(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root 不受目录权限约束")
	}

	dir := t.TempDir()
	stem := filepath.Join(dir, "record")

	var reported []error
	var mu sync.Mutex
	r, err := NewWindow(stem,
		WithMaxSizeBytes(50),
		WithMaxFiles(3),
		WithOnError(func(e error) {
			mu.Lock()
			defer mu.Unlock()
			reported = append(reported, e)
		}),
	)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Write(line(40))
	require.NoError(t, err)

	// 目录只读 → 轮转的 rename/create 失败
	require.NoError(t, os.Chmod(dir, 0500))
	defer os.Chmod(dir, 0750) //nolint:errcheck

	n, err := r.Write(line(40)) // 触发轮转，轮转失败，写入继续
	require.NoError(t, err)
	assert.Equal(t, 40, n)

	require.NoError(t, os.Chmod(dir, 0750))
	require.NoError(t, r.Sync())

	// 两条都在（可能超限的）活动文件里
	assert.Len(t, readFile(t, stem+".log"), 80)

	mu.Lock()
	defer mu.Unlock()
	assert.NotEmpty(t, reported)
}

// TestOnErrorPanicIsolated 回调 panic 不得中断写入方
func TestOnErrorPanicIsolated(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root 不受目录权限约束")
	}

	dir := t.TempDir()
	stem := filepath.Join(dir, "record")

	r, err := NewWindow(stem,
		WithMaxSizeBytes(10),
		WithMaxFiles(2),
		WithOnError(func(error) { panic("callback boom") }),
	)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, os.Chmod(dir, 0500))
	defer os.Chmod(dir, 0750) //nolint:errcheck

	assert.NotPanics(t, func() {
		_, werr := r.Write(line(20))
		assert.NoError(t, werr)
	})
}

// =============================================================================
// 关闭语义
// =============================================================================

func TestCloseSemantics(t *testing.T) {
	r, _ := newTestWindow(t)

	require.NoError(t, r.Close())
	assert.ErrorIs(t, r.Close(), ErrClosed)

	_, err := r.Write([]byte("after close\n"))
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, r.Sync(), ErrClosed)
	assert.ErrorIs(t, r.Rotate(), ErrClosed)
}

// =============================================================================
// 观测
// =============================================================================

func TestObserverCounts(t *testing.T) {
	obs := &countObserver{}
	r, _ := newTestWindow(t,
		WithMaxSizeBytes(100),
		WithMaxFiles(3),
		WithObserver(obs),
	)

	_, err := r.Write(line(60))
	require.NoError(t, err)
	_, err = r.Write(line(60)) // 触发一次轮转
	require.NoError(t, err)

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, 120, obs.bytes)
	assert.Equal(t, 1, obs.rotations)
	assert.Equal(t, 0, obs.rotationErr)
	assert.Equal(t, 0, obs.writeErrs)
}

func TestInstantFlush(t *testing.T) {
	r, stem := newTestWindow(t, WithInstantFlush(true))

	_, err := r.Write([]byte("durable\n"))
	require.NoError(t, err)

	// instant flush 下无需显式 Sync 即可读到
	assert.Equal(t, "durable\n", string(readFile(t, stem+".log")))
}
