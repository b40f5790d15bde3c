package services

import (
	"context"

	"github.com/axellelanca/shortlinks/internal/clock"
	"github.com/axellelanca/shortlinks/internal/models"
	"github.com/axellelanca/shortlinks/internal/repository"
	"github.com/axellelanca/shortlinks/internal/validation"
)

// Locations is the fixed table fabricated click locations are drawn from.
// Some rows repeat; draws are uniform over rows.
var Locations = [20]models.Location{
	{City: "New York", Country: "USA"},
	{City: "London", Country: "UK"},
	{City: "Tokyo", Country: "Japan"},
	{City: "Paris", Country: "France"},
	{City: "Sydney", Country: "Australia"},
	{City: "Berlin", Country: "Germany"},
	{City: "Mumbai", Country: "India"},
	{City: "São Paulo", Country: "Brazil"},
	{City: "Cairo", Country: "Egypt"},
	{City: "Moscow", Country: "Russia"},
	{City: "Beijing", Country: "China"},
	{City: "Mexico City", Country: "Mexico"},
	{City: "Jakarta", Country: "Indonesia"},
	{City: "Lagos", Country: "Nigeria"},
	{City: "Delhi", Country: "India"},
	{City: "Bangkok", Country: "Thailand"},
	{City: "Seoul", Country: "South Korea"},
	{City: "Shanghai", Country: "China"},
	{City: "São Paulo", Country: "Brazil"},
	{City: "Mumbai", Country: "India"},
}

// ClickService synthesizes click events and appends them to the link store.
// Source and location are fabricated; no real client data is collected.
type ClickService struct {
	linkRepo repository.LinkRepository
	clock    clock.Clock
	rand     validation.RandSource
}

// NewClickService creates a ClickService drawing randomness from src.
func NewClickService(linkRepo repository.LinkRepository, clk clock.Clock, src validation.RandSource) *ClickService {
	return &ClickService{
		linkRepo: linkRepo,
		clock:    clk,
		rand:     src,
	}
}

// NewClick builds a click stamped with the current time, a uniform source and
// a uniform row of Locations.
func (s *ClickService) NewClick() models.ClickEvent {
	return models.ClickEvent{
		Timestamp: s.clock.Now(),
		Source:    models.ClickSources[s.rand.IntN(len(models.ClickSources))],
		Location:  Locations[s.rand.IntN(len(Locations))],
	}
}

// Record synthesizes a click for shortcode and persists it.
func (s *ClickService) Record(ctx context.Context, shortcode string) models.ClickEvent {
	click := s.NewClick()
	s.linkRepo.RecordClick(ctx, shortcode, click)
	return click
}
