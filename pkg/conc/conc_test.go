package conc

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGo(t *testing.T) {
	var done atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)

	Go(func() (struct{}, error) {
		defer wg.Done()
		done.Store(true)
		return struct{}{}, nil
	})

	wg.Wait()
	assert.True(t, done.Load())
}

func TestGoRecoversPanic(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)

	Go(func() (struct{}, error) {
		defer wg.Done()
		panic("boom")
	})

	// 不应击穿测试进程
	wg.Wait()
}

func TestPoolSubmit(t *testing.T) {
	p := NewPool[struct{}](4)
	defer p.Release()

	var count atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		p.Submit(func() (struct{}, error) {
			defer wg.Done()
			count.Add(1)
			time.Sleep(time.Millisecond)
			return struct{}{}, nil
		})
	}

	wg.Wait()
	assert.Equal(t, int64(32), count.Load())
}
