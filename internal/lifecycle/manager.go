// Package lifecycle drives the startup sequence shared by every transport:
// build the notification channel, load the CV document, construct the
// dispatcher, then probe connectivity in the background. Load failures are
// absorbed into a degraded-but-callable state instead of aborting.
package lifecycle

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/cv-agent/internal/config"
	"github.com/jonathan/cv-agent/internal/mailer"
	"github.com/jonathan/cv-agent/internal/resume"
	"github.com/jonathan/cv-agent/internal/tools"
	"github.com/jonathan/cv-agent/internal/types"
)

// State tracks how far initialization has progressed. Transitions are
// one-directional: once the manager leaves StateUninitialized it never
// returns there, even across reloads.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateReady         State = "ready"
	StateDegraded      State = "degraded"
)

// probeTimeout bounds the background connectivity check.
const probeTimeout = 10 * time.Second

// Status is the operator-facing view of the manager, served by health
// endpoints. Degraded mode is visible here, never through tool calls.
type Status struct {
	State     State                 `json:"state"`
	Source    string                `json:"source,omitempty"`
	Sections  *resume.SectionCounts `json:"sections,omitempty"`
	Channel   types.ChannelStatus   `json:"channel"`
	LastError string                `json:"last_error,omitempty"`
}

// Manager owns the current dispatcher and replaces it atomically on each
// initialization. Transports share one manager and hold no tool state of
// their own.
type Manager struct {
	cfg    *config.Config
	logger *zap.Logger

	group singleflight.Group

	mu         sync.RWMutex
	state      State
	dispatcher *tools.Dispatcher
	channel    *mailer.SMTPChannel
	meta       *resume.Metadata
	lastProbe  *types.ProbeResult
	lastError  string
}

// NewManager builds an uninitialized manager. Call Initialize before
// serving tool calls; until then Dispatcher returns nil and transports
// report unavailability.
func NewManager(cfg *config.Config, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		cfg:    cfg,
		logger: logger,
		state:  StateUninitialized,
	}
}

// Initialize runs the startup sequence and returns the resulting state.
// Concurrent calls collapse into a single run; every caller observes the
// same outcome. Re-invoking later is safe and replaces the dispatcher
// atomically.
func (m *Manager) Initialize(ctx context.Context) State {
	state, _, _ := m.group.Do("initialize", func() (any, error) {
		return m.initialize(ctx), nil
	})
	return state.(State)
}

// Reload re-runs the full startup sequence, re-reading configuration from
// the environment and replacing the record and channel in one swap.
func (m *Manager) Reload(ctx context.Context) State {
	return m.Initialize(ctx)
}

func (m *Manager) initialize(ctx context.Context) State {
	channel := mailer.NewChannel(mailer.FromEnv(m.cfg), m.logger)

	opts := resume.LoadOptions{}
	if m.cfg != nil {
		opts.Path = m.cfg.Resume
		opts.URL = m.cfg.ResumeURL
		opts.UseBrowser = m.cfg.UseBrowser
	}

	state := StateReady
	lastError := ""
	record, meta, err := resume.Load(ctx, opts, m.logger)
	if err != nil {
		// Serve the empty well-typed record rather than failing every
		// subsequent call.
		m.logger.Warn("resume load failed, continuing with empty record", zap.Error(err))
		record = types.EmptyCVRecord()
		meta = nil
		state = StateDegraded
		lastError = err.Error()
	}

	dispatcher := tools.NewDispatcher(record, channel, m.logger)

	m.mu.Lock()
	m.state = state
	m.dispatcher = dispatcher
	m.channel = channel
	m.meta = meta
	m.lastProbe = nil
	m.lastError = lastError
	m.mu.Unlock()

	if channel.Configured() {
		go m.probeChannel(channel)
	}

	m.logger.Info("initialization complete",
		zap.String("state", string(state)),
		zap.Bool("channel_configured", channel.Configured()),
	)
	return state
}

// probeChannel records the connectivity check outcome for status reporting.
// A failed probe never changes state or blocks tool calls.
func (m *Manager) probeChannel(channel *mailer.SMTPChannel) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	probe := &types.ProbeResult{Success: true, CheckedAt: time.Now().UTC()}
	if err := channel.Probe(ctx); err != nil {
		probe.Success = false
		probe.Error = err.Error()
		m.logger.Warn("channel probe failed", zap.Error(err))
	} else {
		m.logger.Debug("channel probe succeeded", zap.String("host", channel.Host()))
	}

	m.mu.Lock()
	// Ignore probes for a channel that a reload has already replaced.
	if m.channel == channel {
		m.lastProbe = probe
	}
	m.mu.Unlock()
}

// Dispatcher returns the current dispatcher, or nil before the first
// Initialize completes.
func (m *Manager) Dispatcher() *tools.Dispatcher {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dispatcher
}

// State returns the current initialization state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Status assembles the operator-facing snapshot.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := Status{
		State:     m.state,
		LastError: m.lastError,
	}
	if m.meta != nil {
		status.Source = m.meta.Source
		sections := m.meta.Sections
		status.Sections = &sections
	}
	if m.channel != nil {
		status.Channel = types.ChannelStatus{
			Configured: m.channel.Configured(),
			Host:       m.channel.Host(),
			LastProbe:  m.lastProbe,
		}
	}
	return status
}
