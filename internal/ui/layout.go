package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the threshold above which photo and asteroid cards
	// show their secondary details inline.
	LayoutWideWidth = 140
)

// Log overlay limits.
const (
	// LogTailLines is how many trailing log lines the overlay loads.
	LogTailLines = 500
)

// Timing constants.
const (
	// DefaultUIInterval is how often the view re-reads the store.
	DefaultUIInterval = time.Second
)
