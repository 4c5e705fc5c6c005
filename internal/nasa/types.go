package nasa

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar date format used by the NEO feed and APOD.
	DateLayout = "2006-01-02"

	epicTimestampLayout = "2006-01-02 15:04:05"
)

// APOD mirrors /planetary/apod.
type APOD struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	MediaType   string `json:"media_type"`
	URL         string `json:"url"`
	HDURL       string `json:"hdurl,omitempty"`
	Copyright   string `json:"copyright,omitempty"`
}

// IsImage reports whether the entry is a still image rather than a video.
func (a APOD) IsImage() bool {
	return strings.EqualFold(strings.TrimSpace(a.MediaType), "image")
}

// RoverPhotosResponse mirrors /mars-photos/api/v1/rovers/{rover}/photos.
// Photos is nil when the field is missing or null.
type RoverPhotosResponse struct {
	Photos []RoverPhoto `json:"photos"`
}

// RoverPhoto is a single raw image taken by a rover camera.
type RoverPhoto struct {
	ID        int64     `json:"id"`
	Sol       int       `json:"sol"`
	Camera    Camera    `json:"camera"`
	ImgSrc    string    `json:"img_src"`
	EarthDate string    `json:"earth_date"`
	Rover     RoverInfo `json:"rover"`
}

// Camera identifies the instrument that took a RoverPhoto.
type Camera struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

// RoverInfo is the rover summary embedded in each photo.
type RoverInfo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	LandingDate string `json:"landing_date"`
	LaunchDate  string `json:"launch_date"`
	Status      string `json:"status"`
}

// NeoFeed mirrors /neo/rest/v1/feed. NearEarthObjects is keyed by ISO date.
type NeoFeed struct {
	ElementCount     int                          `json:"element_count"`
	NearEarthObjects map[string][]NearEarthObject `json:"near_earth_objects"`
}

// Bucket returns the objects listed under date and whether the key was present.
func (f NeoFeed) Bucket(date string) ([]NearEarthObject, bool) {
	objects, ok := f.NearEarthObjects[date]
	return objects, ok
}

// NearEarthObject is a single asteroid entry in the NEO feed.
type NearEarthObject struct {
	ID                   string            `json:"id"`
	NeoReferenceID       string            `json:"neo_reference_id"`
	Name                 string            `json:"name"`
	NasaJPLURL           string            `json:"nasa_jpl_url"`
	AbsoluteMagnitude    float64           `json:"absolute_magnitude_h"`
	EstimatedDiameter    EstimatedDiameter `json:"estimated_diameter"`
	PotentiallyHazardous bool              `json:"is_potentially_hazardous_asteroid"`
	CloseApproachData    []CloseApproach   `json:"close_approach_data"`
}

// EstimatedDiameter groups diameter ranges by unit.
type EstimatedDiameter struct {
	Meters     DiameterRange `json:"meters"`
	Kilometers DiameterRange `json:"kilometers"`
}

// DiameterRange is the min/max estimate for a single unit.
type DiameterRange struct {
	Min float64 `json:"estimated_diameter_min"`
	Max float64 `json:"estimated_diameter_max"`
}

// CloseApproach describes one pass of an object near a body.
type CloseApproach struct {
	Date             string   `json:"close_approach_date"`
	RelativeVelocity Velocity `json:"relative_velocity"`
	MissDistance     Distance `json:"miss_distance"`
	OrbitingBody     string   `json:"orbiting_body"`
}

// Velocity carries the API's stringly-typed speeds.
type Velocity struct {
	KilometersPerSecond string `json:"kilometers_per_second"`
	KilometersPerHour   string `json:"kilometers_per_hour"`
}

// Distance carries the API's stringly-typed distances.
type Distance struct {
	Astronomical string `json:"astronomical"`
	Lunar        string `json:"lunar"`
	Kilometers   string `json:"kilometers"`
}

// ClosestApproach returns the first close approach entry, if any.
func (n NearEarthObject) ClosestApproach() (CloseApproach, bool) {
	if len(n.CloseApproachData) == 0 {
		return CloseApproach{}, false
	}
	return n.CloseApproachData[0], true
}

// VelocityKPH parses the relative velocity in km/h.
func (c CloseApproach) VelocityKPH() (float64, bool) {
	return parseFloat(c.RelativeVelocity.KilometersPerHour)
}

// MissDistanceKM parses the miss distance in kilometers.
func (c CloseApproach) MissDistanceKM() (float64, bool) {
	return parseFloat(c.MissDistance.Kilometers)
}

// EPICImage mirrors one entry of /EPIC/api/natural/images.
type EPICImage struct {
	Identifier string `json:"identifier"`
	Caption    string `json:"caption"`
	Image      string `json:"image"`
	Version    string `json:"version"`
	Date       string `json:"date"`
}

// ArchivePath returns the archive path of the PNG for this image, e.g.
// /EPIC/archive/natural/2024/05/01/png/epic_1b_20240501001303.png.
func (e EPICImage) ArchivePath() (string, error) {
	name := strings.TrimSpace(e.Image)
	if name == "" {
		return "", fmt.Errorf("epic image %q has no image name", e.Identifier)
	}
	day, err := e.day()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/EPIC/archive/natural/%s/png/%s.png", day.Format("2006/01/02"), name), nil
}

// Taken returns the acquisition timestamp, or the zero time when unparseable.
func (e EPICImage) Taken() time.Time {
	t, err := time.Parse(epicTimestampLayout, strings.TrimSpace(e.Date))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (e EPICImage) day() (time.Time, error) {
	value := strings.TrimSpace(e.Date)
	if t, err := time.Parse(epicTimestampLayout, value); err == nil {
		return t, nil
	}
	datePart, _, _ := strings.Cut(value, " ")
	t, err := time.Parse(DateLayout, datePart)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse epic date %q: %w", e.Date, err)
	}
	return t, nil
}

func parseFloat(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
