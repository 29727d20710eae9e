package memory

import (
	"context"
	"sync"
	"time"

	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/domain/payment"
)

type DeletedPaymentsRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []payment.DeletedPayment

	// FailNext makes the next Create fail, for exercising the
	// audit-first abort path.
	FailNext error
}

func NewDeletedPaymentsRepo() *DeletedPaymentsRepo {
	return &DeletedPaymentsRepo{nextID: 1}
}

func (r *DeletedPaymentsRepo) Create(ctx context.Context, paymentID, eliminadoPor int64, at time.Time) (payment.DeletedPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailNext != nil {
		err := r.FailNext
		r.FailNext = nil
		return payment.DeletedPayment{}, err
	}

	d := payment.DeletedPayment{
		ID:             r.nextID,
		PaymentID:      paymentID,
		EliminadoPor:   eliminadoPor,
		FechaEliminado: at,
	}
	r.nextID++
	r.rows = append(r.rows, d)

	return d, nil
}

func (r *DeletedPaymentsRepo) Rows() []payment.DeletedPayment {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]payment.DeletedPayment, len(r.rows))
	copy(out, r.rows)

	return out
}
