// Package services contains the business logic layer for the URL shortener application
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/axellelanca/shortlinks/internal/clock"
	apperrors "github.com/axellelanca/shortlinks/internal/errors"
	"github.com/axellelanca/shortlinks/internal/models"
	"github.com/axellelanca/shortlinks/internal/repository"
	"github.com/axellelanca/shortlinks/internal/reqlog"
	"github.com/axellelanca/shortlinks/internal/validation"
)

// maxRetries bounds the attempts to find a free generated shortcode.
const maxRetries = 5

// Options tunes a LinkService. Zero values fall back to the defaults.
type Options struct {
	Clock                  clock.Clock
	Rand                   validation.RandSource
	DefaultValidityMinutes int
	ShortcodeLength        int
	MaxBatchSize           int
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = clock.Real{}
	}
	if o.Rand == nil {
		o.Rand = validation.CryptoSource{}
	}
	if o.DefaultValidityMinutes <= 0 {
		o.DefaultValidityMinutes = validation.DefaultValidityMinutes
	}
	if o.ShortcodeLength <= 0 {
		o.ShortcodeLength = validation.DefaultShortcodeLength
	}
	if o.MaxBatchSize <= 0 {
		o.MaxBatchSize = 5
	}
	return o
}

// ShortenRequest carries the raw user input for one link.
// Validity is in minutes; blank means the default window.
type ShortenRequest struct {
	LongURL         string `json:"longUrl"`
	Validity        string `json:"validity,omitempty"`
	CustomShortcode string `json:"customShortcode,omitempty"`
}

// UpdateRequest carries the raw user input for editing a link. Blank fields
// are left unchanged; a validity restarts the window from now.
type UpdateRequest struct {
	LongURL  string `json:"longUrl,omitempty"`
	Validity string `json:"validity,omitempty"`
}

// LinkService provides business logic methods for managing shortened links.
// It acts as an intermediary between the presentation layer and the link store.
type LinkService struct {
	linkRepo repository.LinkRepository
	clicks   *ClickService
	requests *reqlog.Logger
	log      *slog.Logger
	opts     Options
}

// NewLinkService creates and returns a new instance of LinkService.
func NewLinkService(linkRepo repository.LinkRepository, requests *reqlog.Logger, log *slog.Logger, opts Options) *LinkService {
	opts = opts.withDefaults()
	return &LinkService{
		linkRepo: linkRepo,
		clicks:   NewClickService(linkRepo, opts.Clock, opts.Rand),
		requests: requests,
		log:      log,
		opts:     opts,
	}
}

// Shorten validates req and stores a new link. Input problems, including a
// custom shortcode that is already taken, are returned as *ValidationError.
func (s *LinkService) Shorten(ctx context.Context, req ShortenRequest) (*models.LinkRecord, error) {
	const method, target = "POST", "/api/shorten"
	s.requests.LogRequest(method, target, req)

	minutes, verr := s.validate(ctx, req, "")
	if verr != nil {
		s.requests.LogError(method, target, verr)
		return nil, verr
	}

	link, err := s.create(ctx, req, minutes)
	if err != nil {
		s.requests.LogError(method, target, err)
		return nil, err
	}

	s.requests.LogResponse(method, target, link)
	return link, nil
}

// ShortenBatch validates every request before storing any of them. Custom
// shortcodes must be unique within the batch as well as in the store.
// If an insert still fails, the links stored so far are returned with the error.
func (s *LinkService) ShortenBatch(ctx context.Context, reqs []ShortenRequest) ([]*models.LinkRecord, error) {
	const method, target = "POST", "/api/shorten"
	s.requests.LogRequest(method, target, reqs)

	minutes, err := s.validateBatch(ctx, reqs)
	if err != nil {
		s.requests.LogError(method, target, err)
		return nil, err
	}

	links := make([]*models.LinkRecord, 0, len(reqs))
	for i, req := range reqs {
		link, err := s.create(ctx, req, minutes[i])
		if err != nil {
			s.requests.LogError(method, target, err)
			return links, err
		}
		links = append(links, link)
	}

	s.requests.LogResponse(method, target, links)
	return links, nil
}

func (s *LinkService) validateBatch(ctx context.Context, reqs []ShortenRequest) ([]int, error) {
	if len(reqs) == 0 {
		return nil, apperrors.NewValidationError("links", "Please enter a long URL")
	}
	if len(reqs) > s.opts.MaxBatchSize {
		return nil, &apperrors.ValidationError{
			Field:   "links",
			Message: fmt.Sprintf("You can only shorten up to %d URLs at once", s.opts.MaxBatchSize),
			Err:     apperrors.ErrBatchTooLarge,
		}
	}

	seen := make(map[string]bool, len(reqs))
	for _, req := range reqs {
		code := strings.TrimSpace(req.CustomShortcode)
		if code == "" {
			continue
		}
		if seen[code] {
			return nil, &apperrors.ValidationError{
				Field:   "customShortcode",
				Message: "Duplicate custom shortcodes are not allowed",
				Err:     apperrors.ErrShortcodeExists,
			}
		}
		seen[code] = true
	}

	minutes := make([]int, len(reqs))
	for i, req := range reqs {
		m, verr := s.validate(ctx, req, fmt.Sprintf("links[%d].", i))
		if verr != nil {
			return nil, verr
		}
		minutes[i] = m
	}
	return minutes, nil
}

// validate checks one request and returns the validity window in minutes.
func (s *LinkService) validate(ctx context.Context, req ShortenRequest, prefix string) (int, *apperrors.ValidationError) {
	if strings.TrimSpace(req.LongURL) == "" {
		return 0, apperrors.NewValidationError(prefix+"longUrl", "Please enter a long URL")
	}
	if !validation.IsValidURL(req.LongURL) {
		return 0, apperrors.NewValidationError(prefix+"longUrl", "Please enter a valid URL (include http:// or https://)")
	}

	minutes := s.opts.DefaultValidityMinutes
	if v := strings.TrimSpace(req.Validity); v != "" {
		m, verr := parseValidity(prefix, v)
		if verr != nil {
			return 0, verr
		}
		minutes = m
	}

	if code := strings.TrimSpace(req.CustomShortcode); code != "" {
		if !validation.IsAlphanumeric(code) {
			return 0, apperrors.NewValidationError(prefix+"customShortcode", "Custom shortcode must be alphanumeric")
		}
		if _, exists := s.linkRepo.FindByShortcode(ctx, code); exists {
			return 0, duplicateShortcode(prefix, code)
		}
	}

	return minutes, nil
}

func duplicateShortcode(prefix, code string) *apperrors.ValidationError {
	return &apperrors.ValidationError{
		Field:   prefix + "customShortcode",
		Message: fmt.Sprintf("Shortcode %q already exists", code),
		Err:     apperrors.ErrShortcodeExists,
	}
}

// create builds the record and inserts it. A custom shortcode that lost a race
// is reported as a validation error; generated codes retry on collision.
func (s *LinkService) create(ctx context.Context, req ShortenRequest, minutes int) (*models.LinkRecord, error) {
	now := s.opts.Clock.Now()
	link := &models.LinkRecord{
		LongURL:    req.LongURL,
		CreatedAt:  now,
		ExpiryDate: validation.ComputeExpiry(now, minutes),
		Clicks:     []models.ClickEvent{},
	}

	if code := strings.TrimSpace(req.CustomShortcode); code != "" {
		link.Shortcode = code
		if err := s.linkRepo.Insert(ctx, link); err != nil {
			if errors.Is(err, apperrors.ErrShortcodeExists) {
				return nil, duplicateShortcode("", code)
			}
			return nil, fmt.Errorf("failed to create link: %w", err)
		}
		s.log.Info("link created", "shortcode", code, "expiry", link.ExpiryDate)
		return link, nil
	}

	for i := 0; i < maxRetries; i++ {
		link.Shortcode = validation.GenerateShortcode(s.opts.Rand, s.opts.ShortcodeLength)

		err := s.linkRepo.Insert(ctx, link)
		if err == nil {
			s.log.Info("link created", "shortcode", link.Shortcode, "expiry", link.ExpiryDate)
			return link, nil
		}
		if !errors.Is(err, apperrors.ErrShortcodeExists) {
			return nil, fmt.Errorf("failed to create link: %w", err)
		}
		s.log.Debug("generated shortcode already exists, retrying",
			"shortcode", link.Shortcode, "attempt", i+1, "max", maxRetries)
	}

	return nil, apperrors.ErrShortcodeGenerationFailed
}

// Resolve turns a shortcode into its destination URL and records a click.
// It returns ErrNotFound for unknown codes and ErrExpired once the validity
// window has passed; neither case touches the store.
func (s *LinkService) Resolve(ctx context.Context, shortcode string) (string, error) {
	const method = "GET"
	target := "/api/redirect/" + shortcode
	s.requests.LogRequest(method, target, nil)

	link, ok := s.linkRepo.FindByShortcode(ctx, shortcode)
	if !ok {
		s.requests.LogError(method, target, apperrors.ErrNotFound)
		return "", apperrors.ErrNotFound
	}

	if link.IsExpired(s.opts.Clock.Now()) {
		s.requests.LogError(method, target, apperrors.ErrExpired)
		return "", apperrors.ErrExpired
	}

	click := s.clicks.Record(ctx, shortcode)
	s.log.Debug("click recorded",
		"shortcode", shortcode, "source", click.Source, "city", click.Location.City)

	s.requests.LogResponse(method, target, map[string]any{"redirected": true, "target": link.LongURL})
	return link.LongURL, nil
}

// ListStats returns every stored link, expired ones included.
func (s *LinkService) ListStats(ctx context.Context) []models.LinkRecord {
	return s.linkRepo.ListAll(ctx)
}

// GetLinkStats returns a single link with its click history.
func (s *LinkService) GetLinkStats(ctx context.Context, shortcode string) (*models.LinkRecord, error) {
	link, ok := s.linkRepo.FindByShortcode(ctx, shortcode)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return link, nil
}

// UpdateLink changes the destination and/or restarts the validity window.
func (s *LinkService) UpdateLink(ctx context.Context, shortcode string, req UpdateRequest) (*models.LinkRecord, error) {
	const method = "PATCH"
	target := "/api/links/" + shortcode
	s.requests.LogRequest(method, target, req)

	if _, ok := s.linkRepo.FindByShortcode(ctx, shortcode); !ok {
		s.requests.LogError(method, target, apperrors.ErrNotFound)
		return nil, apperrors.ErrNotFound
	}

	var update models.LinkUpdate
	if u := strings.TrimSpace(req.LongURL); u != "" {
		if !validation.IsValidURL(u) {
			verr := apperrors.NewValidationError("longUrl", "Please enter a valid URL (include http:// or https://)")
			s.requests.LogError(method, target, verr)
			return nil, verr
		}
		update.LongURL = &u
	}
	if v := strings.TrimSpace(req.Validity); v != "" {
		minutes, verr := parseValidity("", v)
		if verr != nil {
			s.requests.LogError(method, target, verr)
			return nil, verr
		}
		expiry := validation.ComputeExpiry(s.opts.Clock.Now(), minutes)
		update.ExpiryDate = &expiry
	}

	s.linkRepo.Update(ctx, shortcode, update)

	link, ok := s.linkRepo.FindByShortcode(ctx, shortcode)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	s.requests.LogResponse(method, target, link)
	return link, nil
}

func parseValidity(prefix, v string) (int, *apperrors.ValidationError) {
	if !validation.IsValidPositiveInteger(v) {
		return 0, apperrors.NewValidationError(prefix+"validity", "Validity must be a positive integer")
	}
	minutes, ok := validation.ParseValidityMinutes(v)
	if !ok {
		return 0, apperrors.NewValidationError(prefix+"validity",
			fmt.Sprintf("Validity must not exceed %d minutes", validation.MaxValidityMinutes))
	}
	return minutes, nil
}
