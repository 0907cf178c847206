package world

import (
	"go.uber.org/zap"

	"github.com/Faultbox/tilenav/internal/graph"
	"github.com/Faultbox/tilenav/internal/search"
	"github.com/Faultbox/tilenav/pkg/movement"
)

// Navigator plans routes for one agent. Searches are spread over ticks:
// each Update expands at most stepsPerTick nodes.
type Navigator struct {
	room         *Room
	profile      movement.Profile
	stepsPerTick int
	searchOpts   []search.Option
	log          *zap.Logger

	engine    *search.Engine
	engineGen uint64
	searching bool

	path *search.Path
	err  error

	// Set while a path is being followed
	IsFollowingPath bool
}

// NewNavigator creates a navigator in room for an agent with profile.
// A non-positive stepsPerTick runs every search to completion in MoveTo.
func NewNavigator(room *Room, profile movement.Profile, stepsPerTick int, opts ...search.Option) *Navigator {
	return &Navigator{
		room:         room,
		profile:      profile,
		stepsPerTick: stepsPerTick,
		searchOpts:   opts,
		log:          room.opts.log,
	}
}

// SetProfile changes the agent's movement profile and drops the current path.
func (n *Navigator) SetProfile(p movement.Profile) {
	if p == n.profile {
		return
	}
	n.profile = p
	n.engine = nil
	n.ClearPath()
}

// SetRoom moves the navigator to another room and drops the current path.
func (n *Navigator) SetRoom(room *Room) {
	n.room = room
	n.log = room.opts.log
	n.engine = nil
	n.ClearPath()
}

// Profile returns the agent's movement profile.
func (n *Navigator) Profile() movement.Profile { return n.profile }

// MoveTo starts planning a route from start to goal, replacing any current
// path. The search runs over following Update calls.
func (n *Navigator) MoveTo(start, goal graph.Pos) {
	n.ClearPath()
	e := n.acquire()
	e.BeginForward(start, goal)
	n.searching = true
	if n.stepsPerTick <= 0 {
		e.Run()
		n.collect()
	}
}

// Update advances a pending search and reports whether a path is ready.
func (n *Navigator) Update() bool {
	if n.searching && n.engine.RunFor(n.stepsPerTick) {
		n.collect()
	}
	return n.path != nil
}

// Cancel abandons a pending search. The current path, if any, is kept.
func (n *Navigator) Cancel() {
	n.searching = false
}

// ClearPath stops path following and cancels any pending search.
func (n *Navigator) ClearPath() {
	n.searching = false
	n.path = nil
	n.err = nil
	n.IsFollowingPath = false
}

// Searching reports whether a search is pending.
func (n *Navigator) Searching() bool { return n.searching }

// Path returns the current path.
func (n *Navigator) Path() *search.Path { return n.path }

// Err returns the error of the last search, if it failed.
func (n *Navigator) Err() error { return n.err }

// CurrentMove returns the move the agent should perform next.
func (n *Navigator) CurrentMove() (graph.Move, bool) {
	if n.path == nil {
		return graph.Move{}, false
	}
	return n.path.CurrentMove()
}

// Arrived advances the path cursor after the agent reached pos. Reaching
// the destination stops path following.
func (n *Navigator) Arrived(pos graph.Pos) {
	if n.path == nil || !n.path.Seek(pos) {
		return
	}
	if n.path.Done() {
		n.IsFollowingPath = false
	}
}

// Stale reports whether the room layout changed since the path was planned.
func (n *Navigator) Stale() bool {
	return n.path != nil && n.engineGen != n.room.Generation()
}

// acquire reuses the engine while the room layout is unchanged.
func (n *Navigator) acquire() *search.Engine {
	gen := n.room.Generation()
	if n.engine == nil || n.engineGen != gen {
		n.engine = n.room.Engine(n.profile, n.searchOpts...)
		n.engineGen = gen
	}
	return n.engine
}

func (n *Navigator) collect() {
	n.searching = false
	n.path, n.err = n.engine.Result()
	if n.err != nil {
		n.log.Warn("navigation search failed", zap.Error(n.err))
		return
	}
	n.IsFollowingPath = n.path != nil && !n.path.Done()
}
