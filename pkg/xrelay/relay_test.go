package xrelay

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain 在所有测试完成后检测 goroutine 泄漏。
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// syncBuffer 并发安全的字节缓冲测试替身
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
	// delay 模拟慢速磁盘
	delay time.Duration
	// failAll 使所有写入失败
	failAll bool
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	if b.delay > 0 {
		time.Sleep(b.delay)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failAll {
		return 0, errors.New("disk gone")
	}
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// dropObserver 只统计丢行
type dropObserver struct {
	mu      sync.Mutex
	dropped int
}

func (o *dropObserver) WriteBytes(int) {}
func (o *dropObserver) Rotation(error) {}
func (o *dropObserver) WriteError()    {}
func (o *dropObserver) Dropped() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dropped++
}

func TestNewNilWriterPanics(t *testing.T) {
	assert.Panics(t, func() { New(nil) })
}

// TestFIFO 单生产者提交的行按入队顺序落盘
func TestFIFO(t *testing.T) {
	buf := &syncBuffer{}
	r := New(buf, WithQueueSize(64))
	r.Start()

	const n = 50
	for i := 0; i < n; i++ {
		require.True(t, r.Enqueue([]byte(fmt.Sprintf("line-%03d\n", i))))
	}
	r.Stop()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, n)
	for i, l := range lines {
		assert.Equal(t, fmt.Sprintf("line-%03d", i), l)
	}
}

// TestStopDrains Stop 之前入队的所有行都在消费者退出前写完
func TestStopDrains(t *testing.T) {
	buf := &syncBuffer{delay: time.Millisecond}
	r := New(buf, WithQueueSize(128))
	r.Start()

	const n = 40
	for i := 0; i < n; i++ {
		require.True(t, r.Enqueue([]byte("x\n")))
	}
	r.Stop() // 排空后返回

	assert.Equal(t, n, strings.Count(buf.String(), "\n"))
}

// TestStopIdempotent Stop 可重复调用
func TestStopIdempotent(t *testing.T) {
	r := New(&syncBuffer{})
	r.Start()

	r.Stop()
	assert.NotPanics(t, r.Stop)
	assert.NotPanics(t, r.Stop)
}

// TestEnqueueAfterStop Stop 之后的提交被拒绝
func TestEnqueueAfterStop(t *testing.T) {
	r := New(&syncBuffer{})
	r.Start()
	r.Stop()

	assert.False(t, r.Enqueue([]byte("late\n")))
}

// TestDropWhenFull 队列满时丢弃新行并计数（drop-new 背压策略）
func TestDropWhenFull(t *testing.T) {
	obs := &dropObserver{}
	// 慢消费者 + 容量 1 的队列
	buf := &syncBuffer{delay: 50 * time.Millisecond}
	r := New(buf, WithQueueSize(1), WithObserver(obs))
	r.Start()

	dropped := 0
	for i := 0; i < 20; i++ {
		if !r.Enqueue([]byte("burst\n")) {
			dropped++
		}
	}
	r.Stop()

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Positive(t, dropped)
	assert.Equal(t, dropped, obs.dropped)
	// 被接收的行一条不少
	assert.Equal(t, 20-dropped, strings.Count(buf.String(), "\n"))
}

// TestWriteErrorReported 落盘失败经 OnError 上报，消费者不退出
func TestWriteErrorReported(t *testing.T) {
	var mu sync.Mutex
	var reported []error

	buf := &syncBuffer{failAll: true}
	r := New(buf, WithOnError(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = append(reported, err)
	}))
	r.Start()

	require.True(t, r.Enqueue([]byte("doomed\n")))
	require.True(t, r.Enqueue([]byte("doomed\n")))
	r.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, reported, 2)
}

// TestConcurrentProducers 多生产者并发提交，接收的行全部落盘
func TestConcurrentProducers(t *testing.T) {
	buf := &syncBuffer{}
	r := New(buf, WithQueueSize(4096))
	r.Start()

	const (
		producers = 8
		perP      = 100
	)
	var wg sync.WaitGroup
	var accepted sync.Map
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			count := 0
			for i := 0; i < perP; i++ {
				if r.Enqueue([]byte(fmt.Sprintf("p%d-%d\n", p, i))) {
					count++
				}
			}
			accepted.Store(p, count)
		}(p)
	}
	wg.Wait()
	r.Stop()

	total := 0
	accepted.Range(func(_, v any) bool {
		total += v.(int)
		return true
	})
	assert.Equal(t, total, strings.Count(buf.String(), "\n"))
}

func TestStartIdempotent(t *testing.T) {
	buf := &syncBuffer{}
	r := New(buf)
	r.Start()
	r.Start() // 不应产生第二个消费者

	require.True(t, r.Enqueue([]byte("once\n")))
	r.Stop()
	assert.Equal(t, "once\n", buf.String())
}

func TestQueueSize(t *testing.T) {
	r := New(&syncBuffer{}, WithQueueSize(7))
	assert.Equal(t, 7, r.QueueSize())
	r.Start()
	r.Stop()
}
