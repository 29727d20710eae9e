package memory

import (
	"context"
	"sync"
	"time"

	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/domain/payment"
)

// PaymentsRepo is an in-memory PaymentsStore. It mirrors the postgres
// repo's semantics closely enough to exercise the ledger without a
// database.
type PaymentsRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]payment.Payment
}

func NewPaymentsRepo() *PaymentsRepo {
	return &PaymentsRepo{
		nextID: 1,
		items:  make(map[int64]payment.Payment),
	}
}

func (r *PaymentsRepo) Create(ctx context.Context, req payment.CreatePaymentRequest) (payment.Payment, error) {
	p := payment.NewFromCreateRequest(req)

	r.mu.Lock()
	p.ID = r.nextID
	r.nextID++
	r.items[p.ID] = p
	r.mu.Unlock()

	return p, nil
}

func (r *PaymentsRepo) ListActiveByUser(ctx context.Context, userID int64) ([]payment.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]payment.Payment, 0)

	for _, p := range r.items {
		if p.UserID == userID && p.Activo {
			out = append(out, p)
		}
	}

	return out, nil
}

func (r *PaymentsRepo) GetByID(ctx context.Context, id int64) (payment.Payment, error) {
	r.mu.RLock()
	p, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return payment.Payment{}, payment.ErrNotFound
	}

	return p, nil
}

func (r *PaymentsRepo) Update(ctx context.Context, id int64, req payment.UpdatePaymentRequest) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]

	if !ok {
		return 0, nil
	}

	next := p

	if req.FechaPago != nil {
		next.FechaPago = *req.FechaPago
	}
	if req.Monto != nil {
		next.Monto = *req.Monto
	}
	if req.FormaPago != nil {
		next.FormaPago = *req.FormaPago
	}
	if req.Descripcion != nil {
		next.Descripcion = *req.Descripcion
	}
	if req.Ubicacion != nil {
		next.Ubicacion = *req.Ubicacion
	}

	if paymentsEqual(p, next) {
		return 0, nil
	}

	r.items[id] = next

	return 1, nil
}

func (r *PaymentsRepo) Deactivate(ctx context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]

	if !ok {
		return nil
	}

	p.Activo = false
	p.FechaEliminado = &at
	r.items[id] = p

	return nil
}

// equality over the updatable fields only, with decimal compared by
// value rather than representation.
func paymentsEqual(a, b payment.Payment) bool {
	return a.FechaPago.Equal(b.FechaPago) &&
		a.Monto.Equal(b.Monto) &&
		a.FormaPago == b.FormaPago &&
		a.Descripcion == b.Descripcion &&
		a.Ubicacion == b.Ubicacion
}
