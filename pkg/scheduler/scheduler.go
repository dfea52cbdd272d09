package scheduler

import (
	"context"
	"time"
)

// Task 周期任务；ctx 在 Stop 时取消
type Task func(ctx context.Context)

// Interval 固定间隔调度器。Start 后按 interval 周期执行 task，
// Stop 停止调度并取消正在执行任务的 ctx。对应“挂载启动、卸载取消”的轮询生命周期。
type Interval struct {
	interval time.Duration
	task     Task

	cancel context.CancelFunc
	done   chan struct{}
}

// NewInterval interval<=0 时按 1s 兜底
func NewInterval(interval time.Duration, task Task) *Interval {
	if interval <= 0 {
		interval = time.Second
	}
	return &Interval{interval: interval, task: task}
}

// Start 启动调度；重复调用前必须先 Stop
func (s *Interval) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.task(ctx)
			}
		}
	}()
}

// Stop 停止调度并等待循环退出；未 Start 过则为空操作
func (s *Interval) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
}
