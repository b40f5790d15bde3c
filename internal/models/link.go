package models

import "time"

// LinkRecord représente un lien raccourci tel qu'il est persisté dans le slot de stockage.
// Les noms JSON forment le contrat du format persisté et ne doivent pas changer.
type LinkRecord struct {
	Shortcode   string       `json:"shortcode"`
	LongURL     string       `json:"longUrl"`
	CreatedAt   time.Time    `json:"createdAt"`
	ExpiryDate  time.Time    `json:"expiryDate"`
	TotalClicks int          `json:"totalClicks"`
	Clicks      []ClickEvent `json:"clicks"`
}

// IsExpired reports whether the link can no longer redirect at the given time.
func (l *LinkRecord) IsExpired(now time.Time) bool {
	return now.After(l.ExpiryDate)
}

// Clone returns a deep copy so callers never share click slices with the store.
func (l *LinkRecord) Clone() *LinkRecord {
	c := *l
	if l.Clicks != nil {
		c.Clicks = make([]ClickEvent, len(l.Clicks))
		copy(c.Clicks, l.Clicks)
	}
	return &c
}

// LinkUpdate holds the fields that may be merged into an existing record.
// A nil field is left untouched. Shortcode and click history are not updatable.
type LinkUpdate struct {
	LongURL    *string
	ExpiryDate *time.Time
}

// Apply merges the non-nil fields of u into l.
func (u LinkUpdate) Apply(l *LinkRecord) {
	if u.LongURL != nil {
		l.LongURL = *u.LongURL
	}
	if u.ExpiryDate != nil {
		l.ExpiryDate = *u.ExpiryDate
	}
}
