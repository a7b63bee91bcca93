// Package engine implements the order-state synchronization engine: the
// mutation operations that keep the working set, the durable store and
// the rendered view of an in-progress print order consistent.
package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"photo-print-orders/internal/common"
	"photo-print-orders/internal/models"
	"photo-print-orders/internal/preview"
	"photo-print-orders/internal/pricing"
	"photo-print-orders/internal/profile"
	"photo-print-orders/internal/store"
	"photo-print-orders/internal/transport"
	"photo-print-orders/internal/workingset"
)

// Renderer is the presentation boundary. The engine calls it after every
// settled mutation with the current entries and grand total; it never
// calls back into the engine during Render.
type Renderer interface {
	Render(entries []workingset.Entry, total float64)
}

// NopRenderer ignores render requests.
type NopRenderer struct{}

func (NopRenderer) Render([]workingset.Entry, float64) {}

// FileInput is one candidate file handed to AddPhotos. Files whose
// ContentType is not image/* are filtered out.
type FileInput struct {
	Name        string
	ContentType string
	Content     []byte
}

// Engine owns the working set and coordinates every mutation against the
// durable store. Mutations are serialized; while a submission is in
// flight they are rejected with common.ErrBusy so the in-flight snapshot
// cannot diverge from the working set.
type Engine struct {
	store    store.Store
	sender   transport.Sender
	previews preview.Factory
	profiles profile.Cache
	renderer Renderer
	logger   *zap.Logger

	mu   sync.Mutex
	busy bool
	ws   *workingset.Set
}

func New(st store.Store, sender transport.Sender, previews preview.Factory, profiles profile.Cache, logger *zap.Logger) *Engine {
	return &Engine{
		store:    st,
		sender:   sender,
		previews: previews,
		profiles: profiles,
		renderer: NopRenderer{},
		logger:   logger,
		ws:       workingset.New(),
	}
}

// SetRenderer installs the presentation binder. Call before Load.
func (e *Engine) SetRenderer(r Renderer) {
	e.renderer = r
}

// Load rebuilds the working set from the durable store, deriving a fresh
// preview handle for every record. Called once at startup.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	items, err := e.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load photos: %w", err)
	}

	for _, item := range items {
		e.ws.Upsert(workingset.Entry{Item: item, Preview: e.derivePreview(item)})
	}
	e.render()
	return nil
}

// AddPhotos takes a batch of candidate files, keeps the image-typed ones
// and adds each as a new photo with the default format and quantity 1.
// A file whose durable write fails is skipped and logged; the rest of
// the batch still goes through. Returns how many photos were added.
func (e *Engine) AddPhotos(ctx context.Context, files []FileInput) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy {
		return 0, common.ErrBusy
	}

	added := 0
	for _, file := range files {
		if !strings.HasPrefix(file.ContentType, "image/") {
			continue
		}

		item := models.PhotoOrderItem{
			ID:        uuid.New().String(),
			Name:      file.Name,
			Format:    pricing.DefaultFormat,
			Quantity:  1,
			Content:   file.Content,
			CreatedAt: time.Now(),
		}
		if err := e.store.Put(ctx, item); err != nil {
			e.logger.Warn("skipping photo, durable write failed",
				zap.String("name", file.Name), zap.Error(err))
			continue
		}

		e.ws.Upsert(workingset.Entry{Item: item, Preview: e.derivePreview(item)})
		added++
	}

	e.render()
	return added, nil
}

// SetFormat changes a photo's print format. An unknown format is a no-op;
// a missing id reports common.ErrNotFound. The durable store is updated
// first so the two views never settle on different values.
func (e *Engine) SetFormat(ctx context.Context, id, format string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy {
		return common.ErrBusy
	}

	if !pricing.Valid(format) {
		return nil
	}

	entry, ok := e.ws.Get(id)
	if !ok {
		return common.ErrNotFound
	}

	entry.Item.Format = format
	if err := e.store.Put(ctx, entry.Item); err != nil {
		return fmt.Errorf("failed to update format: %w", err)
	}
	e.ws.Upsert(entry)

	e.render()
	return nil
}

// SetQuantity changes a photo's print count. The raw value is coerced:
// anything that does not parse as an integer >= 1 becomes 1.
func (e *Engine) SetQuantity(ctx context.Context, id, raw string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy {
		return common.ErrBusy
	}

	entry, ok := e.ws.Get(id)
	if !ok {
		return common.ErrNotFound
	}

	entry.Item.Quantity = coerceQuantity(raw)
	if err := e.store.Put(ctx, entry.Item); err != nil {
		return fmt.Errorf("failed to update quantity: %w", err)
	}
	e.ws.Upsert(entry)

	e.render()
	return nil
}

// Remove deletes one photo from the order, releasing its preview handle.
func (e *Engine) Remove(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy {
		return common.ErrBusy
	}

	if _, ok := e.ws.Get(id); !ok {
		return common.ErrNotFound
	}
	if err := e.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	e.ws.Remove(id)

	e.render()
	return nil
}

// ComputeTotal sums unit price times quantity over the working set.
// Pure: no side effects, zero for an empty order.
func (e *Engine) ComputeTotal() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.computeTotal()
}

// Entries returns a snapshot of the working set in insertion order.
func (e *Engine) Entries() []workingset.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ws.All()
}

func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ws.Len()
}

// Submit sends the current order. With no photos it reports
// common.ErrEmptyOrder. On transport success every local trace of the
// order is cleared (durable store, working set with its previews,
// customer cache) and the server's summary is returned. On transport
// failure nothing is touched so the caller can retry.
func (e *Engine) Submit(ctx context.Context, customer models.CustomerProfile) (*models.OrderConfirmation, error) {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return nil, common.ErrBusy
	}
	if e.ws.Len() == 0 {
		e.mu.Unlock()
		return nil, common.ErrEmptyOrder
	}
	snapshot := e.buildSnapshot(customer)
	e.busy = true
	e.mu.Unlock()

	confirmation, err := e.sender.Send(ctx, snapshot)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.busy = false

	if err != nil {
		e.logger.Warn("submission failed, order retained", zap.Error(err))
		return nil, err
	}

	if err := e.store.Clear(ctx); err != nil {
		// The order was accepted; records left behind resurface on the next Load.
		e.logger.Error("failed to clear durable store after submission", zap.Error(err))
	}
	e.ws.Clear()
	if err := e.profiles.Clear(); err != nil {
		e.logger.Warn("failed to clear customer cache", zap.Error(err))
	}

	e.render()
	return confirmation, nil
}

// Reset discards the in-progress order: durable store, working set and
// customer cache.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy {
		return common.ErrBusy
	}

	if err := e.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear durable store: %w", err)
	}
	e.ws.Clear()
	if err := e.profiles.Clear(); err != nil {
		e.logger.Warn("failed to clear customer cache", zap.Error(err))
	}

	e.render()
	return nil
}

func (e *Engine) derivePreview(item models.PhotoOrderItem) preview.Handle {
	handle, err := e.previews.Derive(item.ID, item.Name, item.Content)
	if err != nil {
		e.logger.Warn("failed to derive preview",
			zap.String("id", item.ID), zap.Error(err))
		return nil
	}
	return handle
}

func (e *Engine) computeTotal() float64 {
	total := 0.0
	for _, entry := range e.ws.All() {
		unit, ok := pricing.UnitPrice(entry.Item.Format)
		if !ok {
			continue
		}
		total += unit * float64(entry.Item.Quantity)
	}
	return total
}

func (e *Engine) buildSnapshot(customer models.CustomerProfile) models.OrderSnapshot {
	entries := e.ws.All()
	snapshot := models.OrderSnapshot{
		Customer: customer,
		Lines:    make([]models.OrderLine, 0, len(entries)),
		Content:  make(map[string][]byte, len(entries)),
	}
	for _, entry := range entries {
		unit, _ := pricing.UnitPrice(entry.Item.Format)
		snapshot.Lines = append(snapshot.Lines, models.OrderLine{
			ID:        entry.Item.ID,
			Name:      entry.Item.Name,
			Format:    entry.Item.Format,
			Quantity:  entry.Item.Quantity,
			UnitPrice: unit,
			LineTotal: unit * float64(entry.Item.Quantity),
		})
		snapshot.Content[entry.Item.ID] = entry.Item.Content
	}
	snapshot.TotalPrice = e.computeTotal()
	return snapshot
}

func (e *Engine) render() {
	e.renderer.Render(e.ws.All(), e.computeTotal())
}

func coerceQuantity(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 1 {
		return 1
	}
	return value
}
