package state

import (
	"time"

	"github.com/five82/explorer/internal/nasa"
)

// SnapshotView is the JSON form of a Snapshot.
type SnapshotView struct {
	Rover       nasa.Rover             `json:"rover"`
	Sol         int                    `json:"sol"`
	CycleRover  nasa.Rover             `json:"cycle_rover,omitempty"`
	CycleSol    int                    `json:"cycle_sol,omitempty"`
	Cycle       uint64                 `json:"cycle"`
	Loading     bool                   `json:"loading"`
	Error       string                 `json:"error,omitempty"`
	StartedAt   *time.Time             `json:"started_at,omitempty"`
	FinishedAt  *time.Time             `json:"finished_at,omitempty"`
	APOD        *nasa.APOD             `json:"apod"`
	RoverPhotos []nasa.RoverPhoto      `json:"rover_photos"`
	Asteroids   []nasa.NearEarthObject `json:"near_earth_objects"`
	EarthImages []nasa.EPICImage       `json:"earth_images"`
	Sections    map[string]SectionView `json:"sections"`
}

// SectionView is the JSON form of a SectionStatus.
type SectionView struct {
	Loaded    bool       `json:"loaded"`
	Error     string     `json:"error,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// View converts the snapshot into its JSON form. Empty slots encode as
// empty arrays rather than null.
func (s Snapshot) View() SnapshotView {
	v := SnapshotView{
		Rover:       s.Params.Rover,
		Sol:         s.Params.Sol,
		CycleRover:  s.CycleParams.Rover,
		CycleSol:    s.CycleParams.Sol,
		Cycle:       s.Status.Cycle,
		Loading:     s.Status.Loading,
		Error:       s.Status.Message(),
		StartedAt:   timePtr(s.Status.StartedAt),
		FinishedAt:  timePtr(s.Status.FinishedAt),
		APOD:        s.Results.APOD,
		RoverPhotos: nonNil(s.Results.RoverPhotos),
		Asteroids:   nonNil(s.Results.NearEarthObjects),
		EarthImages: nonNil(s.Results.EarthImages),
		Sections:    make(map[string]SectionView, sectionCount),
	}
	for _, sec := range Sections() {
		st := s.Section(sec)
		sv := SectionView{Loaded: st.Loaded, UpdatedAt: timePtr(st.UpdatedAt)}
		if st.Err != nil {
			sv.Error = st.Err.Error()
			sv.Reason = nasa.Classify(st.Err).String()
		}
		v.Sections[sec.String()] = sv
	}
	return v
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
