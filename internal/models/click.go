package models

import "time"

// ClickSource is the fabricated origin of a click.
type ClickSource string

const (
	SourceBrowser ClickSource = "browser"
	SourceMobile  ClickSource = "mobile"
)

// ClickSources lists every source a click may be attributed to.
var ClickSources = []ClickSource{SourceBrowser, SourceMobile}

// Location is a fabricated (city, country) pair attached to a click.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// ClickEvent represents one resolution of a short link.
// Clicks are appended in chronological order and never rewritten.
type ClickEvent struct {
	Timestamp time.Time   `json:"timestamp"`
	Source    ClickSource `json:"source"`
	Location  Location    `json:"location"`
}
