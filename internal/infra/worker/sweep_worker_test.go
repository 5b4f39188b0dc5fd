package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/xavierca1/quiz-funnel/internal/entity"
	"github.com/xavierca1/quiz-funnel/internal/usecase"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSweeper struct {
	mu    sync.Mutex
	calls []entity.Channel
	err   error
}

func (f *fakeSweeper) Execute(_ context.Context, in usecase.SweepInput) (*usecase.SweepOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, in.Channel)
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.SweepOutput{Channel: in.Channel}, nil
}

func (f *fakeSweeper) snapshot() []entity.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.Channel(nil), f.calls...)
}

func TestSweepWorkerRunsJobsUntilCancelled(t *testing.T) {
	sw := &fakeSweeper{}
	w := NewSweepWorker(sw, 10*time.Millisecond, zaptest.NewLogger(t), DefaultJobs(5*time.Minute, 30*time.Minute)...)

	ticks := make(chan struct{}, 16)
	w.onTick = func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	<-ticks
	<-ticks
	cancel()
	<-done

	calls := sw.snapshot()
	assert.GreaterOrEqual(t, len(calls), 4)
	assert.Equal(t, entity.ChannelZaia, calls[0])
	assert.Equal(t, entity.ChannelRecovery, calls[1])
}

func TestSweepWorkerKeepsGoingOnError(t *testing.T) {
	sw := &fakeSweeper{err: errors.New("planilha indisponível")}
	w := NewSweepWorker(sw, time.Hour, zaptest.NewLogger(t), DefaultJobs(time.Minute, time.Minute)...)

	w.runOnce(context.Background())
	assert.Len(t, sw.snapshot(), 2)
}
