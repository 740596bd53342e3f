package loom

import (
	"log/slog"

	lerrors "github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/element"
	"github.com/vango-dev/loom/pkg/fiber"
)

// rootType is the type of every root fiber, so successive roots match.
var rootType = element.TagType("#root")

// Phase is the scheduler state.
type Phase uint8

const (
	PhaseIdle       Phase = iota // No generation in flight
	PhaseWorking                 // Units of work remain
	PhaseCommitting              // Applying a finished generation
)

// String returns the string representation of the Phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseWorking:
		return "Working"
	case PhaseCommitting:
		return "Committing"
	default:
		return "Unknown"
	}
}

// Runtime is the scheduler context: the current and work-in-progress
// generations, the next unit of work and the pending deletions.
type Runtime struct {
	backend Backend
	cfg     Config
	log     *slog.Logger

	current *fiber.Tree
	wip     *fiber.Tree
	next    fiber.Handle

	// deletions index wip.Prev (the current generation).
	deletions []fiber.Handle

	seq     uint64
	phase   Phase
	stopped bool
}

// New creates a Runtime that commits to backend.
func New(backend Backend, opts ...Option) *Runtime {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.YieldThreshold <= 0 {
		cfg.YieldThreshold = DefaultYieldThreshold
	}
	return &Runtime{
		backend: backend,
		cfg:     cfg,
		log:     cfg.Logger,
		next:    fiber.None,
	}
}

// Render starts a brand-new generation that renders el into container.
// Any unfinished generation and its pending deletions are dropped; the
// current tree, if any, is the alternate.
func (r *Runtime) Render(el *element.Element, container Node) error {
	if container == nil {
		return lerrors.New("L020")
	}
	if el == nil {
		return lerrors.New("L021")
	}
	r.begin(container, []*element.Element{el}, nil)
	return nil
}

// scheduleUpdate restarts reconciliation from the last committed root.
// Called by state updaters.
func (r *Runtime) scheduleUpdate() {
	if r.current == nil {
		panic(lerrors.New("L003"))
	}
	root := r.current.At(r.current.Root())
	r.begin(root.Node, root.Elements, root.Attrs)
}

func (r *Runtime) begin(container Node, children []*element.Element, attrs element.Attrs) {
	if r.wip != nil {
		r.log.Debug("loom: dropping unfinished generation", "generation", r.wip.Gen)
	}
	r.seq++
	wip := fiber.NewTree(r.seq, r.current)
	h, root := wip.New()
	root.Type = rootType
	root.Node = container
	root.Attrs = attrs
	root.Elements = children
	if r.current != nil {
		root.Alternate = r.current.Root()
	}

	r.wip = wip
	r.next = h
	r.deletions = nil
	r.phase = PhaseWorking
}

// Phase returns the scheduler state.
func (r *Runtime) Phase() Phase { return r.phase }

// Pending reports whether a generation is in flight.
func (r *Runtime) Pending() bool { return r.wip != nil }

// Current returns the last committed generation, or nil.
func (r *Runtime) Current() *fiber.Tree { return r.current }

// WorkInProgress returns the generation being built, or nil.
func (r *Runtime) WorkInProgress() *fiber.Tree { return r.wip }

// Deletions returns the number of fibers queued for removal.
func (r *Runtime) Deletions() int { return len(r.deletions) }
