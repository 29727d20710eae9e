package authz

import "github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/domain/user"

// Actor is the identity the gate resolves from a bearer token and hands
// to downstream operations.
type Actor struct {
	ID  int64
	Rol string
}

type Operation string

const (
	OpCreatePayment     Operation = "payments.create"
	OpListPayments      Operation = "payments.list"
	OpUpdatePayment     Operation = "payments.update"
	OpDeactivatePayment Operation = "payments.deactivate"
)

// permitted is the single source of truth for role-based access. Routes
// consult it through Allowed instead of repeating role conditionals.
//
// Update is deliberately listed with admin+super: the role set for it is
// a configuration decision, change it here and nowhere else.
var permitted = map[Operation]map[string]struct{}{
	OpCreatePayment:     roles(user.RoleAdmin, user.RoleSuper),
	OpListPayments:      roles(user.RoleAdmin, user.RoleSuper, user.RoleUsuario),
	OpUpdatePayment:     roles(user.RoleAdmin, user.RoleSuper),
	OpDeactivatePayment: roles(user.RoleAdmin, user.RoleSuper),
}

func roles(rr ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(rr))
	for _, r := range rr {
		set[r] = struct{}{}
	}
	return set
}

// Allowed reports whether rol may perform op. Unknown operations are
// denied.
func Allowed(op Operation, rol string) bool {
	set, ok := permitted[op]
	if !ok {
		return false
	}

	_, ok = set[rol]

	return ok
}
