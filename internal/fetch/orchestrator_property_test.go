package fetch

import (
	"context"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/five82/explorer/internal/state"
)

// TestTruncation_PropertyBased checks that the rover slot never exceeds its
// cap and always holds a prefix of the server order.
func TestTruncation_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("rover photos are a capped prefix", prop.ForAll(
		func(n int) bool {
			stub := &stubFetcher{photos: n, neo: map[string]int{today: 0}}
			store := state.NewStore(state.DefaultParams())
			newOrchestrator(stub, store).Run(context.Background(), store.Begin())

			photos := store.Snapshot().Results.RoverPhotos
			if len(photos) != min(n, state.MaxRoverPhotos) {
				return false
			}
			for i, p := range photos {
				if p.ID != int64(i) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t)
}

// TestNeoBucket_PropertyBased checks that only today's bucket reaches the
// asteroid slot, whatever the other dates hold.
func TestNeoBucket_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("asteroids come from today's bucket only", prop.ForAll(
		func(todayCount, otherCount int, includeToday bool) bool {
			buckets := map[string]int{"2024-04-30": otherCount, "2024-05-02": otherCount}
			if includeToday {
				buckets[today] = todayCount
			}
			stub := &stubFetcher{neo: buckets}
			store := state.NewStore(state.DefaultParams())
			report := newOrchestrator(stub, store).Run(context.Background(), store.Begin())
			if report.Err != nil {
				return false
			}

			objects := store.Snapshot().Results.NearEarthObjects
			want := 0
			if includeToday {
				want = min(todayCount, state.MaxNearEarthObjects)
			}
			if len(objects) != want {
				return false
			}
			for _, neo := range objects {
				if !strings.HasPrefix(neo.ID, today+"-") {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 20),
		gen.IntRange(0, 20),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
