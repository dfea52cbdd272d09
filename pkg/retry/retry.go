package retry

import (
	"context"
	"time"
)

// Do 固定间隔重试，最多 attempts 次；ctx 取消时立即返回。
// fn 返回 nil 即成功；全部失败时返回最后一次的错误。
func Do(ctx context.Context, attempts int, delay time.Duration, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
