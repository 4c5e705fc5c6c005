package state

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/five82/explorer/internal/nasa"
)

// Result slot caps. Longer server sequences are cut to a prefix.
const (
	MaxRoverPhotos      = 8
	MaxNearEarthObjects = 6
	MaxEarthImages      = 6
)

const (
	// DefaultSol is the sol shown before the user picks one.
	DefaultSol = 1000
	// SolStep is the coarse increment used by the sol stepper.
	SolStep = 100
)

// Params select what the rover section shows. Changing them starts a new cycle.
type Params struct {
	Rover nasa.Rover
	Sol   int
}

// DefaultParams returns the parameters used on first launch.
func DefaultParams() Params {
	return Params{Rover: nasa.Curiosity, Sol: DefaultSol}
}

// Validate checks the rover and sol.
func (p Params) Validate() error {
	if !p.Rover.Valid() {
		return fmt.Errorf("unknown rover %q", p.Rover)
	}
	if p.Sol < 1 {
		return fmt.Errorf("sol must be >= 1, got %d", p.Sol)
	}
	return nil
}

// Section names one result slot.
type Section int

const (
	SectionAPOD Section = iota
	SectionRoverPhotos
	SectionNearEarthObjects
	SectionEarthImages

	sectionCount
)

// Sections returns every section in display order.
func Sections() []Section {
	return []Section{SectionAPOD, SectionRoverPhotos, SectionNearEarthObjects, SectionEarthImages}
}

func (s Section) String() string {
	switch s {
	case SectionAPOD:
		return "apod"
	case SectionRoverPhotos:
		return "mars"
	case SectionNearEarthObjects:
		return "asteroids"
	case SectionEarthImages:
		return "earth"
	default:
		return "unknown"
	}
}

// Results holds the four independently optional result slots.
type Results struct {
	APOD             *nasa.APOD
	RoverPhotos      []nasa.RoverPhoto
	NearEarthObjects []nasa.NearEarthObject
	EarthImages      []nasa.EPICImage
}

// SectionStatus records what happened to a slot most recently.
type SectionStatus struct {
	Loaded    bool      // the slot has been written at least once
	Err       error     // last soft failure; cleared on the next successful write
	UpdatedAt time.Time // time of the last write or failure
}

// CycleStatus tracks the fetch cycle as a whole.
type CycleStatus struct {
	Cycle      uint64
	Loading    bool
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Message is the user-facing text for a cycle failure, empty when none.
func (c CycleStatus) Message() string {
	if c.Err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v. The API key may have exceeded its usage limit.", c.Err)
}

// Snapshot is an immutable copy of the store for rendering.
type Snapshot struct {
	Params      Params // current selection
	CycleParams Params // selection the latest cycle fetched with
	Results     Results
	Status      CycleStatus
	Completed   int // number of cycles that reached Finish as the latest cycle
	sections    [sectionCount]SectionStatus
}

// Section returns the status of one slot.
func (s Snapshot) Section(sec Section) SectionStatus {
	if sec < 0 || sec >= sectionCount {
		return SectionStatus{}
	}
	return s.sections[sec]
}

// Store is the single owner of view state. All writes go through its
// transition methods; writes tagged with a superseded cycle id are dropped.
type Store struct {
	mu       sync.RWMutex
	params   Params
	cycle    uint64
	snapshot Snapshot
	now      func() time.Time
}

// NewStore returns a store seeded with params. Invalid params fall back to
// DefaultParams.
func NewStore(params Params) *Store {
	if params.Validate() != nil {
		params = DefaultParams()
	}
	return &Store{params: params}
}

// Params returns the current selection.
func (s *Store) Params() Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paramsLocked()
}

// Cycle is a fetch cycle handed out by the store: its id and the selection
// it fetches.
type Cycle struct {
	ID     uint64
	Params Params
}

// Begin starts a cycle for the current selection. Loading is set and the
// previous cycle error is cleared; result slots keep their values.
func (s *Store) Begin() Cycle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beginLocked(s.paramsLocked())
}

// Update applies fn to a copy of the selection and, when the result is
// valid, stores it and begins a cycle for it. Both happen under one lock, so
// the cycle with the highest id always carries the latest selection.
func (s *Store) Update(fn func(p *Params) error) (Cycle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.paramsLocked()
	if err := fn(&p); err != nil {
		return Cycle{}, err
	}
	if err := p.Validate(); err != nil {
		return Cycle{}, err
	}
	s.params = p
	return s.beginLocked(p), nil
}

// SetParams replaces the selection and begins a cycle for it.
func (s *Store) SetParams(params Params) (Cycle, error) {
	return s.Update(func(p *Params) error {
		*p = params
		return nil
	})
}

// SetRover selects rover, keeps the current sol, and begins a cycle.
func (s *Store) SetRover(rover nasa.Rover) (Cycle, error) {
	return s.Update(func(p *Params) error {
		if !rover.Valid() {
			return fmt.Errorf("unknown rover %q", rover)
		}
		p.Rover = rover
		return nil
	})
}

// SetSol selects sol, keeps the current rover, and begins a cycle.
func (s *Store) SetSol(sol int) (Cycle, error) {
	return s.Update(func(p *Params) error {
		if sol < 1 {
			return fmt.Errorf("sol must be >= 1, got %d", sol)
		}
		p.Sol = sol
		return nil
	})
}

// StepSol moves the sol by delta, clamping at 1, and begins a cycle.
func (s *Store) StepSol(delta int) Cycle {
	c, _ := s.Update(func(p *Params) error {
		p.Sol = max(1, p.Sol+delta)
		return nil
	})
	return c
}

func (s *Store) beginLocked(params Params) Cycle {
	s.cycle++
	s.snapshot.CycleParams = params
	s.snapshot.Status = CycleStatus{
		Cycle:     s.cycle,
		Loading:   true,
		StartedAt: s.timeNow(),
	}
	return Cycle{ID: s.cycle, Params: params}
}

// Current returns the id of the most recent cycle.
func (s *Store) Current() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cycle
}

// SetAPOD writes the APOD slot. It returns false when cycle is stale.
func (s *Store) SetAPOD(cycle uint64, apod nasa.APOD) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cycle != s.cycle {
		return false
	}
	s.snapshot.Results.APOD = &apod
	s.markLoadedLocked(SectionAPOD)
	return true
}

// SetRoverPhotos writes the rover slot, keeping at most MaxRoverPhotos.
func (s *Store) SetRoverPhotos(cycle uint64, photos []nasa.RoverPhoto) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cycle != s.cycle {
		return false
	}
	s.snapshot.Results.RoverPhotos = prefix(photos, MaxRoverPhotos)
	s.markLoadedLocked(SectionRoverPhotos)
	return true
}

// SetNearEarthObjects writes the asteroid slot, keeping at most MaxNearEarthObjects.
func (s *Store) SetNearEarthObjects(cycle uint64, objects []nasa.NearEarthObject) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cycle != s.cycle {
		return false
	}
	s.snapshot.Results.NearEarthObjects = prefix(objects, MaxNearEarthObjects)
	s.markLoadedLocked(SectionNearEarthObjects)
	return true
}

// SetEarthImages writes the EPIC slot, keeping at most MaxEarthImages.
func (s *Store) SetEarthImages(cycle uint64, images []nasa.EPICImage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cycle != s.cycle {
		return false
	}
	s.snapshot.Results.EarthImages = prefix(images, MaxEarthImages)
	s.markLoadedLocked(SectionEarthImages)
	return true
}

// MarkSectionFailed records a soft failure for sec without touching its data.
func (s *Store) MarkSectionFailed(cycle uint64, sec Section, err error) bool {
	if sec < 0 || sec >= sectionCount {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cycle != s.cycle {
		return false
	}
	st := &s.snapshot.sections[sec]
	st.Err = err
	st.UpdatedAt = s.timeNow()
	return true
}

// Finish ends cycle, clearing Loading and recording err as the cycle error.
// It returns false, and changes nothing, when cycle has been superseded.
func (s *Store) Finish(cycle uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cycle != s.cycle {
		return false
	}
	s.snapshot.Status.Loading = false
	s.snapshot.Status.Err = err
	s.snapshot.Status.FinishedAt = s.timeNow()
	s.snapshot.Completed++
	return true
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Params = s.paramsLocked()
	if s.snapshot.Results.APOD != nil {
		apod := *s.snapshot.Results.APOD
		snap.Results.APOD = &apod
	}
	snap.Results.RoverPhotos = slices.Clone(s.snapshot.Results.RoverPhotos)
	snap.Results.NearEarthObjects = slices.Clone(s.snapshot.Results.NearEarthObjects)
	snap.Results.EarthImages = slices.Clone(s.snapshot.Results.EarthImages)
	return snap
}

func (s *Store) paramsLocked() Params {
	if s.params.Validate() != nil {
		return DefaultParams()
	}
	return s.params
}

func (s *Store) markLoadedLocked(sec Section) {
	s.snapshot.sections[sec] = SectionStatus{Loaded: true, UpdatedAt: s.timeNow()}
}

func (s *Store) timeNow() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func prefix[T any](items []T, limit int) []T {
	if len(items) > limit {
		items = items[:limit]
	}
	return slices.Clone(items)
}
