package fakeinv

import (
	"log/slog"
	"time"

	"github.com/df-mc/dragonfly/server/world"
)

// Builder configures a Manager before initialization.
// Use NewBuilder() to create a builder and chain configuration methods.
type Builder struct {
	tickRate  time.Duration
	logger    *slog.Logger
	behind    bool
	viewers   ViewerSource
	runtimeID func(world.Block) uint32
}

// NewBuilder creates a new builder. Chests are drawn behind single viewers
// and the loop ticks every 50ms unless configured otherwise.
func NewBuilder() *Builder {
	return &Builder{
		tickRate: 50 * time.Millisecond,
		behind:   true,
	}
}

// TickRate sets the interval between ticks.
func (b *Builder) TickRate(d time.Duration) *Builder {
	b.tickRate = d
	return b
}

// Logger sets the logger. slog.Default() is used if none is set.
func (b *Builder) Logger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// BehindPlayer sets the default for WithBehindPlayer.
func (b *Builder) BehindPlayer(behind bool) *Builder {
	b.behind = behind
	return b
}

// Viewers replaces the source viewers are resolved from. By default viewers
// are players registered with Manager.Track.
//
// Example:
//
//	builder.Viewers(fakeinv.ViewerSourceFunc(lookup))
func (b *Builder) Viewers(src ViewerSource) *Builder {
	b.viewers = src
	return b
}

// BlockRuntimeIDs replaces the function mapping blocks to network runtime
// IDs. By default world.BlockRuntimeID is used.
func (b *Builder) BlockRuntimeIDs(fn func(world.Block) uint32) *Builder {
	b.runtimeID = fn
	return b
}

// Build creates the Manager without starting its tick loop.
func (b *Builder) Build() *Manager {
	log := b.logger
	if log == nil {
		log = slog.Default()
	}

	m := newManager(log, b.tickRate)
	m.behind = b.behind
	if b.viewers != nil {
		m.viewers = b.viewers
	}
	if b.runtimeID != nil {
		m.runtimeID = b.runtimeID
	}
	return m
}

// Init creates the Manager and starts its tick loop.
// Returns the Manager instance which should be stored and used to create
// inventories.
func (b *Builder) Init() *Manager {
	m := b.Build()
	m.Start()
	return m
}
