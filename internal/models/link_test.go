package models_test

import (
	"testing"
	"time"

	"github.com/axellelanca/shortlinks/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestLinkRecord_CloneIsDeep(t *testing.T) {
	orig := &models.LinkRecord{
		Shortcode: "abc",
		Clicks:    []models.ClickEvent{{Source: models.SourceBrowser}},
	}

	c := orig.Clone()
	c.Clicks[0].Source = models.SourceMobile
	c.Clicks = append(c.Clicks, models.ClickEvent{})

	assert.Equal(t, models.SourceBrowser, orig.Clicks[0].Source)
	assert.Len(t, orig.Clicks, 1)
}

func TestLinkRecord_IsExpired(t *testing.T) {
	expiry := time.Date(2024, 1, 15, 12, 30, 0, 0, time.UTC)
	link := &models.LinkRecord{ExpiryDate: expiry}

	assert.False(t, link.IsExpired(expiry))
	assert.True(t, link.IsExpired(expiry.Add(time.Millisecond)))
}

func TestLinkUpdate_Apply(t *testing.T) {
	link := &models.LinkRecord{Shortcode: "abc", LongURL: "https://old.example"}
	newURL := "https://new.example"

	models.LinkUpdate{LongURL: &newURL}.Apply(link)

	assert.Equal(t, "abc", link.Shortcode)
	assert.Equal(t, newURL, link.LongURL)
	assert.True(t, link.ExpiryDate.IsZero())
}
