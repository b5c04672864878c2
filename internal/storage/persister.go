package storage

import (
	"context"
	"sync"
	"time"

	"github.com/KaramelBytes/vibewriter/internal/logging"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/phuslu/log"
)

// Saver is the write half of a Backend.
type Saver interface {
	Save(ctx context.Context, st workspace.State) error
}

// Persister writes workspace states in the background. Schedule never blocks
// the caller; when states arrive faster than they can be written only the
// latest one is kept.
type Persister struct {
	saver   Saver
	logger  *log.Logger
	timeout time.Duration

	mu      sync.Mutex
	pending *workspace.State
	lastErr error
	closed  bool

	wake chan struct{}
	quit chan struct{}
	wg   sync.WaitGroup
}

// NewPersister starts the background writer.
func NewPersister(saver Saver, logger *log.Logger) *Persister {
	p := &Persister{
		saver:   saver,
		logger:  logging.OrNop(logger),
		timeout: 30 * time.Second,
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// Schedule queues st for writing. It is safe to call from a Store change hook.
func (p *Persister) Schedule(st workspace.State) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.logger.Warn().Msg("persister closed; state change not saved")
		return
	}
	p.pending = &st
	p.mu.Unlock()
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Close writes whatever is still pending and stops the writer. It returns the
// most recent write error, if any.
func (p *Persister) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return p.err()
	}
	p.closed = true
	p.mu.Unlock()
	close(p.quit)
	p.wg.Wait()
	return p.err()
}

func (p *Persister) err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *Persister) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.wake:
			p.flush()
		case <-p.quit:
			p.flush()
			return
		}
	}
}

func (p *Persister) flush() {
	p.mu.Lock()
	st := p.pending
	p.pending = nil
	p.mu.Unlock()
	if st == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	err := p.saver.Save(ctx, *st)
	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to save workspace")
		return
	}
	p.logger.Trace().Int("documents", len(st.Documents)).Msg("workspace saved")
}
