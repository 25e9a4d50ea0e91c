package session

import (
	"context"
	"sync"
)

// Manager hands out one running controller per user and owns their
// lifecycles. Controllers start lazily on first access and run until
// StopAll.
type Manager struct {
	opts Options

	mu          sync.Mutex
	controllers map[string]*managed
}

type managed struct {
	controller *Controller
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewManager(opts Options) *Manager {
	opts.applyDefaults()
	return &Manager{
		opts:        opts,
		controllers: map[string]*managed{},
	}
}

// Controller returns the user's controller, creating and starting it on
// first use.
func (m *Manager) Controller(ctx context.Context, userID string) (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mc, ok := m.controllers[userID]; ok {
		return mc.controller, nil
	}

	c, err := NewController(ctx, userID, m.opts)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	mc := &managed{controller: c, cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(mc.done)
		c.Run(runCtx)
	}()
	m.controllers[userID] = mc
	return c, nil
}

// StopAll cancels every controller and waits for their final autosaves.
func (m *Manager) StopAll() {
	m.mu.Lock()
	stopped := make([]*managed, 0, len(m.controllers))
	for id, mc := range m.controllers {
		mc.cancel()
		stopped = append(stopped, mc)
		delete(m.controllers, id)
	}
	m.mu.Unlock()

	for _, mc := range stopped {
		<-mc.done
	}
}
