// Package batcher implementa la acumulación con debounce de ediciones de
// line items, para convertir muchas ediciones rápidas por campo en una sola
// escritura en batch contra el backend.
package batcher

import (
	"context"
	"sync"
	"time"

	"pipeline/src/pipeline/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultDebounce es la ventana de inactividad antes de despachar el batch
const DefaultDebounce = 500 * time.Millisecond

// teardownFlushTimeout limita el flush final disparado por Close
const teardownFlushTimeout = 10 * time.Second

// Edit representa la edición de uno o más campos de un item.
// Solo los campos no-nil se registran.
type Edit struct {
	Quantity        *int
	DiscountPercent *decimal.Decimal
	UnitPrice       *decimal.Decimal
}

// Flusher despacha un batch de actualizaciones acumuladas.
// La implementación de producción es el cliente HTTP del endpoint de batch;
// los tests usan un double de contrato.
type Flusher interface {
	FlushBatch(ctx context.Context, updates []entity.ItemUpdate) (*entity.BatchResult, error)
}

// Reporter recibe los resultados de cada flush. El timer de debounce no tiene
// caller al cual retornar, así que todos los resultados (conflictos incluidos)
// se informan por este canal lateral, nunca en silencio.
type Reporter interface {
	OnBatchResult(result *entity.BatchResult)
	OnFlushError(err error)
}

// DebouncedItemUpdater acumula ediciones por item y las despacha como un solo
// batch luego de una ventana de inactividad, bajo demanda (Flush) o al cerrar
// la sesión de edición (Close). Estado mutable propio de una sesión, con
// lifecycle explícito en lugar de hooks de teardown automáticos.
type DebouncedItemUpdater struct {
	flusher  Flusher
	reporter Reporter
	debounce time.Duration

	mu       sync.Mutex
	pending  map[uuid.UUID]*entity.ItemUpdate
	order    []uuid.UUID
	timer    *time.Timer
	closed   bool
	inflight sync.WaitGroup
}

// NewDebouncedItemUpdater crea un updater para una sesión de edición.
// Con debounce <= 0 se usa DefaultDebounce.
func NewDebouncedItemUpdater(flusher Flusher, reporter Reporter, debounce time.Duration) *DebouncedItemUpdater {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &DebouncedItemUpdater{
		flusher:  flusher,
		reporter: reporter,
		debounce: debounce,
		pending:  make(map[uuid.UUID]*entity.ItemUpdate),
	}
}

// RecordEdit fusiona la edición en el pendiente del item (last-write-wins por
// campo), conserva el serverTimestamp más reciente y reinicia el timer de
// debounce: el flush se dispara recién tras un período contiguo de quietud.
// Una edición sin campos sobre un item sin pendiente se ignora.
// Luego de Close es un no-op.
func (u *DebouncedItemUpdater) RecordEdit(itemID uuid.UUID, edit Edit, serverTimestamp time.Time) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return
	}

	hasFields := edit.Quantity != nil || edit.DiscountPercent != nil || edit.UnitPrice != nil

	pe, ok := u.pending[itemID]
	if !ok {
		// Una edición sin campos no crea pendiente: despacharla produciría
		// un ItemUpdate vacío que el backend rechaza como batch inválido.
		// Un timestamp solo se fusiona sobre un pendiente existente.
		if !hasFields {
			return
		}
		pe = &entity.ItemUpdate{ItemID: itemID}
		u.pending[itemID] = pe
		u.order = append(u.order, itemID)
	}
	if !hasFields && serverTimestamp.IsZero() {
		return
	}

	if edit.Quantity != nil {
		q := *edit.Quantity
		pe.Quantity = &q
	}
	if edit.DiscountPercent != nil {
		d := *edit.DiscountPercent
		pe.DiscountPercent = &d
	}
	if edit.UnitPrice != nil {
		p := *edit.UnitPrice
		pe.UnitPrice = &p
	}

	if !serverTimestamp.IsZero() {
		if pe.LastKnownTimestamp == nil || serverTimestamp.After(*pe.LastKnownTimestamp) {
			ts := serverTimestamp
			pe.LastKnownTimestamp = &ts
		}
	}

	// Reiniciar el timer: cancela el anterior si estaba corriendo
	if u.timer != nil {
		u.timer.Stop()
	}
	u.timer = time.AfterFunc(u.debounce, u.timerFlush)
}

// Flush cancela el timer, toma un snapshot de los pendientes y despacha un
// único batch. Con el set vacío no hay llamada de red. Las ediciones que
// llegan durante un flush en vuelo acumulan en un set nuevo.
// Ante error de transporte las ediciones del batch NO se restauran
// (semántica at-most-once por edición).
func (u *DebouncedItemUpdater) Flush(ctx context.Context) (*entity.BatchResult, error) {
	batch := u.takeSnapshot()
	if len(batch) == 0 {
		return &entity.BatchResult{}, nil
	}
	return u.dispatch(ctx, batch)
}

// Close cancela el timer y despacha cualquier pendiente como un flush final
// fire-and-forget: el request se emite, pero el teardown no espera la
// respuesta. Ediciones posteriores se descartan.
func (u *DebouncedItemUpdater) Close() {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return
	}
	u.closed = true
	u.mu.Unlock()

	batch := u.takeSnapshot()
	if len(batch) == 0 {
		return
	}

	u.inflight.Add(1)
	go func() {
		defer u.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), teardownFlushTimeout)
		defer cancel()
		u.dispatch(ctx, batch)
	}()
}

// PendingCount retorna la cantidad de items con ediciones sin despachar
func (u *DebouncedItemUpdater) PendingCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.pending)
}

// timerFlush es el callback del timer de debounce
func (u *DebouncedItemUpdater) timerFlush() {
	batch := u.takeSnapshot()
	if len(batch) == 0 {
		return
	}
	u.dispatch(context.Background(), batch)
}

// takeSnapshot drena el set de pendientes bajo el lock, en orden de primera
// edición, y cancela el timer
func (u *DebouncedItemUpdater) takeSnapshot() []entity.ItemUpdate {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.timer != nil {
		u.timer.Stop()
		u.timer = nil
	}
	if len(u.pending) == 0 {
		return nil
	}

	batch := make([]entity.ItemUpdate, 0, len(u.pending))
	for _, id := range u.order {
		if pe, ok := u.pending[id]; ok {
			batch = append(batch, *pe)
		}
	}
	u.pending = make(map[uuid.UUID]*entity.ItemUpdate)
	u.order = nil
	return batch
}

// dispatch emite el batch y reporta el resultado por el canal lateral
func (u *DebouncedItemUpdater) dispatch(ctx context.Context, batch []entity.ItemUpdate) (*entity.BatchResult, error) {
	result, err := u.flusher.FlushBatch(ctx, batch)
	if err != nil {
		if u.reporter != nil {
			u.reporter.OnFlushError(err)
		}
		return nil, err
	}
	if u.reporter != nil {
		u.reporter.OnBatchResult(result)
	}
	return result, nil
}
