package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	apperrors "github.com/axellelanca/shortlinks/internal/errors"
	"github.com/axellelanca/shortlinks/internal/models"
	"github.com/axellelanca/shortlinks/internal/storage"
)

// LinkRepository est une interface qui définit les méthodes d'accès aux liens persistés.
type LinkRepository interface {
	ListAll(ctx context.Context) []models.LinkRecord
	FindByShortcode(ctx context.Context, shortcode string) (*models.LinkRecord, bool)
	Insert(ctx context.Context, record *models.LinkRecord) error
	RecordClick(ctx context.Context, shortcode string, click models.ClickEvent)
	Update(ctx context.Context, shortcode string, update models.LinkUpdate)
}

// KVLinkRepository keeps the whole link collection as one JSON array under a
// single backend key. Every write is a full read-modify-write of that array.
type KVLinkRepository struct {
	mu      sync.Mutex
	backend storage.Backend
	key     string
	log     *slog.Logger
}

// NewLinkRepository crée un KVLinkRepository sur le backend et la clé donnés.
func NewLinkRepository(backend storage.Backend, key string, log *slog.Logger) *KVLinkRepository {
	return &KVLinkRepository{
		backend: backend,
		key:     key,
		log:     log,
	}
}

// ListAll returns every persisted record in storage order. An absent or
// unreadable payload yields an empty slice.
func (r *KVLinkRepository) ListAll(ctx context.Context) []models.LinkRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, _ := r.load(ctx)
	return records
}

// FindByShortcode returns a copy of the record with the given shortcode.
func (r *KVLinkRepository) FindByShortcode(ctx context.Context, shortcode string) (*models.LinkRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, _ := r.load(ctx)
	i := indexOf(records, shortcode)
	if i < 0 {
		return nil, false
	}
	return records[i].Clone(), true
}

// Insert appends record to the collection. The uniqueness check and the append
// happen under the same lock, so two inserts of one shortcode cannot both win.
// Returns ErrShortcodeExists on a duplicate; storage failures are logged only.
// When the slot cannot be read nothing is written.
func (r *KVLinkRepository) Insert(ctx context.Context, record *models.LinkRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return nil
	}
	if indexOf(records, record.Shortcode) >= 0 {
		return apperrors.ErrShortcodeExists
	}

	records = append(records, *record.Clone())
	r.save(ctx, records)
	return nil
}

// RecordClick appends click to the record and recomputes TotalClicks.
// Unknown shortcodes are ignored.
func (r *KVLinkRepository) RecordClick(ctx context.Context, shortcode string, click models.ClickEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return
	}
	i := indexOf(records, shortcode)
	if i < 0 {
		r.log.Debug("click ignored for unknown shortcode", "shortcode", shortcode)
		return
	}

	records[i].Clicks = append(records[i].Clicks, click)
	records[i].TotalClicks = len(records[i].Clicks)
	r.save(ctx, records)
}

// Update merges the non-nil fields of update into the record. Unknown
// shortcodes are ignored.
func (r *KVLinkRepository) Update(ctx context.Context, shortcode string, update models.LinkUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return
	}
	i := indexOf(records, shortcode)
	if i < 0 {
		r.log.Debug("update ignored for unknown shortcode", "shortcode", shortcode)
		return
	}

	update.Apply(&records[i])
	r.save(ctx, records)
}

// load reads and decodes the slot. Callers must hold r.mu.
// An absent or corrupt payload decodes to an empty collection. A failed read
// returns an empty collection together with the error, and callers must not
// write back in that case.
func (r *KVLinkRepository) load(ctx context.Context) ([]models.LinkRecord, error) {
	payload, err := r.backend.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return []models.LinkRecord{}, nil
		}
		r.logFailure("read", err)
		return []models.LinkRecord{}, err
	}

	records, err := decodeRecords(payload)
	if err != nil {
		r.logFailure("decode", err)
		return []models.LinkRecord{}, nil
	}
	return records, nil
}

// save encodes and writes the full collection. Callers must hold r.mu.
func (r *KVLinkRepository) save(ctx context.Context, records []models.LinkRecord) {
	payload, err := json.Marshal(records)
	if err != nil {
		r.logFailure("encode", err)
		return
	}
	if err := r.backend.Set(ctx, r.key, payload); err != nil {
		r.logFailure("write", err)
	}
}

func (r *KVLinkRepository) logFailure(op string, err error) {
	perr := &apperrors.PersistenceError{Op: op, Key: r.key, Err: err}
	r.log.Error("link store degraded", "error", perr)
}

// decodeRecords parses a persisted payload. A JSON null decodes to an empty
// collection; anything that is not an array of records is an error.
func decodeRecords(payload []byte) ([]models.LinkRecord, error) {
	var records []models.LinkRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.LinkRecord{}
	}
	for i := range records {
		if records[i].Shortcode == "" {
			return nil, errors.New("record without shortcode")
		}
		records[i].TotalClicks = len(records[i].Clicks)
	}
	return records, nil
}

func indexOf(records []models.LinkRecord, shortcode string) int {
	for i := range records {
		if records[i].Shortcode == shortcode {
			return i
		}
	}
	return -1
}
