// Package world holds the platform registry agents collide against.
//
// Platforms are kept in registry order and indexed in a resolv spatial hash
// for broad-phase queries. Additions and removals are queued and only take
// effect in Commit, which refuses to run while a tick is in progress, so every
// collision pass of a tick sees the same platform set.
package world

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/solarlune/resolv"
	"github.com/younwookim/poxel/internal/domain/entity"
)

const (
	cellSize = 16

	tagSolid      = "solid"
	tagDecorative = "decorative"
	tagProbe      = "probe"
)

var (
	ErrUnknownPlatform   = errors.New("unknown platform")
	ErrDuplicatePlatform = errors.New("duplicate platform")
	ErrInvalidPlatform   = errors.New("invalid platform")
	ErrOutOfBounds       = errors.New("platform outside world bounds")
	ErrTickInProgress    = errors.New("world mutation during tick")
)

// ChangeKind distinguishes committed additions from removals
type ChangeKind int

const (
	PlatformAdded ChangeKind = iota
	PlatformRemoved
)

// String returns the string representation of the change kind
func (k ChangeKind) String() string {
	if k == PlatformAdded {
		return "added"
	}
	return "removed"
}

// Change describes one committed mutation
type Change struct {
	Kind     ChangeKind
	Platform entity.Platform
}

type entry struct {
	platform entity.Platform
	seq      uint64
	obj      *resolv.Object
}

type pending struct {
	add      bool
	platform entity.Platform
}

// World is the platform registry
type World struct {
	width, height float64

	entries map[entity.PlatformID]*entry
	order   []*entry
	nextSeq uint64

	space *resolv.Space
	probe *resolv.Object

	queue    []pending
	inTick   bool
	revision uint64

	listeners []func(rev uint64, changes []Change)
}

// New creates an empty world of the given pixel size
func New(width, height float64) *World {
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(height / cellSize))
	space := resolv.NewSpace(cols*cellSize, rows*cellSize, cellSize, cellSize)

	probe := resolv.NewObject(0, 0, 1, 1, tagProbe)
	space.Add(probe)

	return &World{
		width:   width,
		height:  height,
		entries: make(map[entity.PlatformID]*entry),
		space:   space,
		probe:   probe,
	}
}

// Width returns the world width in pixels
func (w *World) Width() float64 { return w.width }

// Height returns the world height in pixels
func (w *World) Height() float64 { return w.height }

// Revision increases every time a commit changes the platform set
func (w *World) Revision() uint64 { return w.revision }

// OnChange registers a listener called after each commit that changed something
func (w *World) OnChange(fn func(rev uint64, changes []Change)) {
	if fn != nil {
		w.listeners = append(w.listeners, fn)
	}
}

// Add queues a platform for insertion at the next Commit
func (w *World) Add(p entity.Platform) error {
	if p.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidPlatform)
	}
	if !(p.Rect.W > 0) || !(p.Rect.H > 0) {
		return fmt.Errorf("%w: %s has size %vx%v", ErrInvalidPlatform, p.ID, p.Rect.W, p.Rect.H)
	}
	if p.Rect.X < 0 || p.Rect.Y < 0 || p.Rect.Right() > w.width || p.Rect.Bottom() > w.height {
		return fmt.Errorf("%w: %s at %+v", ErrOutOfBounds, p.ID, p.Rect)
	}
	if w.willExist(p.ID) {
		return fmt.Errorf("%w: %s", ErrDuplicatePlatform, p.ID)
	}
	w.queue = append(w.queue, pending{add: true, platform: p})
	return nil
}

// Remove queues a platform for removal at the next Commit
func (w *World) Remove(id entity.PlatformID) error {
	if !w.willExist(id) {
		return fmt.Errorf("%w: %s", ErrUnknownPlatform, id)
	}
	w.queue = append(w.queue, pending{platform: entity.Platform{ID: id}})
	return nil
}

// willExist reports whether id will be registered once the queue is applied
func (w *World) willExist(id entity.PlatformID) bool {
	_, exists := w.entries[id]
	for _, q := range w.queue {
		if q.platform.ID == id {
			exists = q.add
		}
	}
	return exists
}

// BeginTick marks the start of a collision pass
func (w *World) BeginTick() { w.inTick = true }

// EndTick marks the end of a collision pass
func (w *World) EndTick() { w.inTick = false }

// Pending returns the number of queued mutations
func (w *World) Pending() int { return len(w.queue) }

// Commit applies all queued mutations in order and notifies listeners.
// It must be called between ticks.
func (w *World) Commit() ([]Change, error) {
	if w.inTick {
		return nil, ErrTickInProgress
	}
	if len(w.queue) == 0 {
		return nil, nil
	}

	changes := make([]Change, 0, len(w.queue))
	for _, q := range w.queue {
		if q.add {
			w.insert(q.platform)
			changes = append(changes, Change{Kind: PlatformAdded, Platform: q.platform})
			continue
		}
		if removed, ok := w.delete(q.platform.ID); ok {
			changes = append(changes, Change{Kind: PlatformRemoved, Platform: removed})
		}
	}
	w.queue = w.queue[:0]

	w.revision++
	for _, fn := range w.listeners {
		fn(w.revision, changes)
	}
	return changes, nil
}

func (w *World) insert(p entity.Platform) {
	tag := tagDecorative
	if p.Solid {
		tag = tagSolid
	}
	obj := resolv.NewObject(p.Rect.X, p.Rect.Y, p.Rect.W, p.Rect.H, tag)
	e := &entry{platform: p, seq: w.nextSeq, obj: obj}
	obj.Data = e
	w.nextSeq++

	w.space.Add(obj)
	w.entries[p.ID] = e
	w.order = append(w.order, e)
}

func (w *World) delete(id entity.PlatformID) (entity.Platform, bool) {
	e, ok := w.entries[id]
	if !ok {
		return entity.Platform{}, false
	}
	w.space.Remove(e.obj)
	delete(w.entries, id)
	for i, o := range w.order {
		if o == e {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return e.platform, true
}

// Platform returns the registered platform with the given id
func (w *World) Platform(id entity.PlatformID) (entity.Platform, bool) {
	e, ok := w.entries[id]
	if !ok {
		return entity.Platform{}, false
	}
	return e.platform, true
}

// Platforms returns a copy of all registered platforms in registry order
func (w *World) Platforms() []entity.Platform {
	out := make([]entity.Platform, len(w.order))
	for i, e := range w.order {
		out[i] = e.platform
	}
	return out
}

// SolidsOverlapping returns the solid platforms whose area overlaps r, in registry order
func (w *World) SolidsOverlapping(r entity.Rect) []entity.Platform {
	// The probe is one pixel larger on each side so sub-pixel overlaps
	// across a cell border still land in a shared cell.
	area := r.Inflate(1)
	w.probe.X, w.probe.Y, w.probe.W, w.probe.H = area.X, area.Y, area.W, area.H
	w.probe.Update()

	check := w.probe.Check(0, 0, tagSolid)
	if check == nil {
		return nil
	}

	hits := make([]*entry, 0, len(check.Objects))
	for _, obj := range check.Objects {
		e, ok := obj.Data.(*entry)
		if !ok || !e.platform.Rect.Overlaps(r) {
			continue
		}
		hits = append(hits, e)
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].seq < hits[j].seq })

	out := make([]entity.Platform, len(hits))
	for i, e := range hits {
		out[i] = e.platform
	}
	return out
}

// OverlapsSolid reports whether r overlaps any solid platform
func (w *World) OverlapsSolid(r entity.Rect) bool {
	return len(w.SolidsOverlapping(r)) > 0
}
