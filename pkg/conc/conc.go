// Package conc 提供统一的 goroutine 管理工具。
// 所有后台任务都经由本包启动，保证 panic 恢复和风格统一。
package conc

import (
	"github.com/panjf2000/ants/v2"

	"github.com/hidanz98/command-d-relay/pkg/logger"
)

// Task 带返回值的任务函数
type Task[T any] func() (T, error)

// Go 启动一个受保护的 goroutine
// panic 会被捕获并记录，不会击穿进程
func Go[T any](task Task[T]) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Default().Error("goroutine panic recovered", "panic", r)
			}
		}()
		_, _ = task()
	}()
}

// Pool 泛型任务池，底层使用 ants 限制并发
type Pool[T any] struct {
	pool *ants.Pool
}

// NewPool 创建任务池
// size <= 0 时按 ants 默认容量处理
func NewPool[T any](size int) *Pool[T] {
	p, err := ants.NewPool(size, ants.WithNonblocking(false))
	if err != nil {
		// size 非法时退化为默认容量
		p, _ = ants.NewPool(ants.DefaultAntsPoolSize)
	}
	return &Pool[T]{pool: p}
}

// Submit 提交任务到池中执行
// 池已满时阻塞等待空闲 worker
func (p *Pool[T]) Submit(task Task[T]) {
	err := p.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Default().Error("pool task panic recovered", "panic", r)
			}
		}()
		_, _ = task()
	})
	if err != nil {
		// 池已释放，降级为裸 goroutine，保证任务不丢失
		Go(task)
	}
}

// Running 返回正在运行的任务数
func (p *Pool[T]) Running() int {
	return p.pool.Running()
}

// Release 释放池资源
func (p *Pool[T]) Release() {
	p.pool.Release()
}
