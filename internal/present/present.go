package present

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/five82/explorer/internal/nasa"
	"github.com/five82/explorer/internal/state"
)

// State is what a section shows.
type State int

const (
	StateLoading State = iota
	StateError
	StateData
	StateEmpty
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateData:
		return "data"
	default:
		return "empty"
	}
}

// ErrorHint follows the cycle error message.
const ErrorHint = "To avoid this error, get your own API key at https://api.nasa.gov."

// Section describes one panel.
type Section struct {
	Key      string
	Title    string
	Subtitle string
	State    State
	Empty    string // shown in StateEmpty
	Failure  string // short reason for the last soft failure, if any
}

// RoverOption is one entry of the rover selector.
type RoverOption struct {
	Value    string
	Label    string
	Selected bool
}

// APODCard is the rendered picture of the day.
type APODCard struct {
	Title       string
	Date        string
	Explanation string
	IsImage     bool
	URL         string
	HDURL       string
	Copyright   string
}

// PhotoCard is one rover photo.
type PhotoCard struct {
	ID        int64
	Camera    string
	Rover     string
	Sol       int
	EarthDate string
	URL       string
}

// AsteroidCard is one near-Earth object.
type AsteroidCard struct {
	Name         string
	Hazardous    bool
	Diameter     string
	Velocity     string
	MissDistance string
	URL          string
}

// EarthCard is one EPIC image.
type EarthCard struct {
	Caption string
	Taken   string
	URL     string
}

// Page is everything needed to render the explorer once.
type Page struct {
	Rover      nasa.Rover
	RoverLabel string
	Sol        int
	Rovers     []RoverOption

	Loading   bool
	Error     string
	Cycle     uint64
	UpdatedAt time.Time

	Sections  []Section
	APOD      *APODCard
	Photos    []PhotoCard
	Asteroids []AsteroidCard
	Earth     []EarthCard
}

// Section returns the section with key, or a zero Section.
func (p Page) Section(key string) Section {
	for _, s := range p.Sections {
		if s.Key == key {
			return s
		}
	}
	return Section{}
}

// ArchiveURLFunc derives the image URL of an EPIC entry.
type ArchiveURLFunc func(nasa.EPICImage) (string, error)

var printer = message.NewPrinter(language.English)

// Build derives a Page from a snapshot. archiveURL may be nil, in which case
// EPIC cards carry the unauthenticated archive path.
func Build(snap state.Snapshot, archiveURL ArchiveURLFunc) Page {
	p := Page{
		Rover:      snap.Params.Rover,
		RoverLabel: snap.Params.Rover.Label(),
		Sol:        snap.Params.Sol,
		Loading:    snap.Status.Loading,
		Error:      snap.Status.Message(),
		Cycle:      snap.Status.Cycle,
		UpdatedAt:  snap.Status.FinishedAt,
	}
	for _, r := range nasa.Rovers() {
		p.Rovers = append(p.Rovers, RoverOption{Value: string(r), Label: r.Label(), Selected: r == snap.Params.Rover})
	}

	if a := snap.Results.APOD; a != nil {
		p.APOD = &APODCard{
			Title:       a.Title,
			Date:        a.Date,
			Explanation: a.Explanation,
			IsImage:     a.IsImage(),
			URL:         a.URL,
			HDURL:       a.HDURL,
			Copyright:   strings.TrimSpace(a.Copyright),
		}
	}
	for _, ph := range snap.Results.RoverPhotos {
		rover := ph.Rover.Name
		if rover == "" {
			rover = snap.CycleParams.Rover.Label()
		}
		p.Photos = append(p.Photos, PhotoCard{
			ID:        ph.ID,
			Camera:    firstNonEmpty(ph.Camera.FullName, ph.Camera.Name),
			Rover:     rover,
			Sol:       ph.Sol,
			EarthDate: ph.EarthDate,
			URL:       ph.ImgSrc,
		})
	}
	for _, neo := range snap.Results.NearEarthObjects {
		p.Asteroids = append(p.Asteroids, asteroidCard(neo))
	}
	for _, img := range snap.Results.EarthImages {
		p.Earth = append(p.Earth, earthCard(img, archiveURL))
	}

	p.Sections = []Section{
		p.section(snap, state.SectionAPOD, "Astronomy Picture of the Day", "",
			p.APOD != nil, "Could not load the picture of the day. Try again later."),
		p.section(snap, state.SectionRoverPhotos, "Mars Exploration",
			fmt.Sprintf("%s · sol %d", p.RoverLabel, p.Sol),
			len(p.Photos) > 0, "Could not load Mars photos for this rover and sol."),
		p.section(snap, state.SectionNearEarthObjects, "Near-Earth Asteroids", "Closest approaches today",
			len(p.Asteroids) > 0, "No near-Earth asteroids detected for today."),
		p.section(snap, state.SectionEarthImages, "Earth from Space", "DSCOVR EPIC natural color",
			len(p.Earth) > 0, "Could not load Earth images."),
	}
	return p
}

func (p Page) section(snap state.Snapshot, sec state.Section, title, subtitle string, hasData bool, empty string) Section {
	s := Section{Key: sec.String(), Title: title, Subtitle: subtitle, Empty: empty}
	switch {
	case p.Loading:
		s.State = StateLoading
	case p.Error != "":
		s.State = StateError
	case hasData:
		s.State = StateData
	default:
		s.State = StateEmpty
	}
	if err := snap.Section(sec).Err; err != nil {
		s.Failure = nasa.Classify(err).Describe()
	}
	return s
}

func asteroidCard(neo nasa.NearEarthObject) AsteroidCard {
	card := AsteroidCard{
		Name:         neo.Name,
		Hazardous:    neo.PotentiallyHazardous,
		Diameter:     FormatDiameter(neo.EstimatedDiameter.Meters),
		Velocity:     "unknown",
		MissDistance: "unknown",
		URL:          neo.NasaJPLURL,
	}
	if approach, ok := neo.ClosestApproach(); ok {
		if v, ok := approach.VelocityKPH(); ok {
			card.Velocity = FormatInt(v) + " km/h"
		}
		if d, ok := approach.MissDistanceKM(); ok {
			card.MissDistance = FormatInt(d) + " km"
		}
	}
	return card
}

func earthCard(img nasa.EPICImage, archiveURL ArchiveURLFunc) EarthCard {
	card := EarthCard{Caption: img.Caption, Taken: img.Date}
	if t := img.Taken(); !t.IsZero() {
		card.Taken = t.Format("2006-01-02 15:04 UTC")
	}
	if archiveURL != nil {
		if u, err := archiveURL(img); err == nil {
			card.URL = u
		}
	} else if path, err := img.ArchivePath(); err == nil {
		card.URL = path
	}
	return card
}

// FormatDiameter renders a min-max range in whole meters, e.g. "12-27 m".
func FormatDiameter(r nasa.DiameterRange) string {
	if r.Min == 0 && r.Max == 0 {
		return "unknown"
	}
	return FormatInt(r.Min) + "-" + FormatInt(r.Max) + " m"
}

// FormatInt rounds v and groups thousands, e.g. 45123.6 -> "45,124".
func FormatInt(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// Hazard returns the yes/no label for a hazardous flag.
func Hazard(h bool) string {
	if h {
		return "Yes"
	}
	return "No"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
