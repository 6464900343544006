package sweeper

import (
	"context"
	"errors"
	"time"

	"go.uber.org/atomic"

	"paysvc/internal/app/pkg/logger"
)

// ErrAlreadyRunning 重复启动
var ErrAlreadyRunning = errors.New("sweeper already running")

// Store 过期待支付订单清理（由 mdorder.OrderModule 实现）
type Store interface {
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper 定时清理过期待支付订单
type Sweeper struct {
	store    Store
	interval time.Duration
	now      func() time.Time
	running  *atomic.Bool
	swept    *atomic.Int64
	logger   logger.Logger
}

// New 创建 Sweeper
func New(store Store, interval time.Duration, log logger.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		interval: interval,
		now:      time.Now,
		running:  atomic.NewBool(false),
		swept:    atomic.NewInt64(0),
		logger:   log,
	}
}

// Run 阻塞运行直到 ctx 取消，启动时立即清理一次
func (s *Sweeper) Run(ctx context.Context) error {
	if !s.running.CAS(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	s.logger.InfoContext(ctx, "[Sweeper] Started", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.SweepOnce(ctx)

		select {
		case <-ctx.Done():
			s.logger.InfoContext(context.Background(), "[Sweeper] Stopped", "swept_total", s.swept.Load())
			return nil
		case <-ticker.C:
		}
	}
}

// SweepOnce 执行一次清理，返回删除数量
func (s *Sweeper) SweepOnce(ctx context.Context) int64 {
	n, err := s.store.SweepExpired(ctx, s.now())
	if err != nil {
		if ctx.Err() == nil {
			s.logger.WarnContext(ctx, "[Sweeper] Sweep failed", "error", err)
		}
		return 0
	}
	if n > 0 {
		s.swept.Add(n)
		s.logger.InfoContext(ctx, "[Sweeper] Expired pending orders removed", "count", n)
	}
	return n
}

// Swept 累计清理数量
func (s *Sweeper) Swept() int64 {
	return s.swept.Load()
}
