package connection

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/roland-remote/roland-go/pkg/log"
)

// Connection errors.
var (
	ErrClosed           = errors.New("connection manager closed")
	ErrAlreadyConnected = errors.New("already connected")
)

// State represents the connection state.
type State uint8

const (
	// StateDisconnected indicates no active connection.
	StateDisconnected State = iota

	// StateConnecting indicates a connection attempt is in progress.
	StateConnecting

	// StateConnected indicates an active connection.
	StateConnected

	// StateReconnecting indicates automatic reconnection is in progress.
	StateReconnecting

	// StateClosed indicates the manager has been shut down.
	StateClosed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateReconnecting:
		return "RECONNECTING"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// ConnectFunc establishes a connection to the device. It returns nil on
// success.
type ConnectFunc func(ctx context.Context) error

// ManagerConfig configures a connection manager.
type ManagerConfig struct {
	// Backoff customizes reconnection delays.
	Backoff BackoffConfig

	// ConnectTimeout bounds each reconnection attempt (default: 10s).
	ConnectTimeout time.Duration

	// AutoReconnect enables background reconnection after connection
	// loss (default true when created through NewManager).
	AutoReconnect bool

	// Logger receives state-change events. Nil disables capture.
	Logger log.Logger
}

// Manager tracks connection state and reconnects with backoff after the
// link to the device drops.
type Manager struct {
	mu sync.RWMutex

	state     State
	backoff   *Backoff
	connectFn ConnectFunc
	config    ManagerConfig

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	reconnectCh chan struct{}

	onStateChange  func(oldState, newState State)
	onReconnecting func(attempt int, delay time.Duration)
}

// NewManager creates a connection manager with auto-reconnect enabled.
func NewManager(connectFn ConnectFunc, config ManagerConfig) *Manager {
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = 10 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		state:       StateDisconnected,
		backoff:     NewBackoff(config.Backoff),
		connectFn:   connectFn,
		config:      config,
		ctx:         ctx,
		cancel:      cancel,
		reconnectCh: make(chan struct{}, 1),
	}
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsConnected returns true if currently connected.
func (m *Manager) IsConnected() bool {
	return m.State() == StateConnected
}

// OnStateChange sets a callback invoked on every state transition.
func (m *Manager) OnStateChange(fn func(oldState, newState State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStateChange = fn
}

// OnReconnecting sets a callback invoked before each reconnection delay.
func (m *Manager) OnReconnecting(fn func(attempt int, delay time.Duration)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReconnecting = fn
}

// Connect initiates a connection. Returns ErrAlreadyConnected when a
// connection is already up.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	switch m.state {
	case StateConnected:
		m.mu.Unlock()
		return ErrAlreadyConnected
	case StateClosed:
		m.mu.Unlock()
		return ErrClosed
	}
	m.mu.Unlock()

	m.transition(StateConnecting, "connect requested")

	if err := m.connectFn(ctx); err != nil {
		m.transition(StateDisconnected, err.Error())
		return err
	}

	m.backoff.Reset()
	m.transition(StateConnected, "")
	return nil
}

// ConnectionLost reports that the link dropped. When auto-reconnect is
// enabled the background loop takes over; otherwise the manager just
// records the disconnect.
func (m *Manager) ConnectionLost(reason string) {
	m.mu.Lock()
	if m.state != StateConnected {
		m.mu.Unlock()
		return
	}
	auto := m.config.AutoReconnect
	m.mu.Unlock()

	if auto {
		m.transition(StateReconnecting, reason)
		select {
		case m.reconnectCh <- struct{}{}:
		default:
			// Already pending
		}
	} else {
		m.transition(StateDisconnected, reason)
	}
}

// Start launches the background reconnection loop. Must be called once
// before ConnectionLost can trigger reconnects.
func (m *Manager) Start() {
	m.wg.Add(1)
	go m.reconnectLoop()
}

// Close shuts down the manager and waits for the reconnect loop to exit.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.transition(StateClosed, "")
	m.cancel()
	m.wg.Wait()
}

// BackoffAttempts returns the number of reconnection attempts since the
// last successful connection.
func (m *Manager) BackoffAttempts() int {
	return m.backoff.Attempts()
}

func (m *Manager) reconnectLoop() {
	defer m.wg.Done()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-m.reconnectCh:
			m.reconnectWithBackoff()
		}
	}
}

func (m *Manager) reconnectWithBackoff() {
	for {
		switch m.State() {
		case StateClosed, StateConnected:
			return
		}

		delay := m.backoff.Next()
		attempt := m.backoff.Attempts()

		m.mu.RLock()
		onReconnecting := m.onReconnecting
		m.mu.RUnlock()
		if onReconnecting != nil {
			onReconnecting(attempt, delay)
		}

		select {
		case <-m.ctx.Done():
			return
		case <-time.After(delay):
		}

		ctx, cancel := context.WithTimeout(m.ctx, m.config.ConnectTimeout)
		err := m.connectFn(ctx)
		cancel()

		if err == nil {
			m.backoff.Reset()
			m.transition(StateConnected, "reconnected")
			return
		}
		// Failed, loop with the next backoff delay.
	}
}

// transition moves to a new state, firing the callback and logging the
// change.
func (m *Manager) transition(newState State, reason string) {
	m.mu.Lock()
	oldState := m.state
	m.state = newState
	onStateChange := m.onStateChange
	m.mu.Unlock()

	if oldState == newState {
		return
	}

	if onStateChange != nil {
		onStateChange(oldState, newState)
	}

	if m.config.Logger != nil {
		m.config.Logger.Log(log.Event{
			Timestamp: time.Now(),
			Direction: log.DirectionOut,
			Layer:     log.LayerService,
			Category:  log.CategoryState,
			StateChange: &log.StateChangeEvent{
				OldState: oldState.String(),
				NewState: newState.String(),
				Reason:   reason,
			},
		})
	}
}
