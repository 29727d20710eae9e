package authz

import (
	"testing"

	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/domain/user"
)

func TestAllowedMatrix(t *testing.T) {
	tests := []struct {
		op   Operation
		rol  string
		want bool
	}{
		{OpCreatePayment, user.RoleAdmin, true},
		{OpCreatePayment, user.RoleSuper, true},
		{OpCreatePayment, user.RoleUsuario, false},

		{OpListPayments, user.RoleAdmin, true},
		{OpListPayments, user.RoleSuper, true},
		{OpListPayments, user.RoleUsuario, true},

		{OpUpdatePayment, user.RoleAdmin, true},
		{OpUpdatePayment, user.RoleSuper, true},
		{OpUpdatePayment, user.RoleUsuario, false},

		{OpDeactivatePayment, user.RoleAdmin, true},
		{OpDeactivatePayment, user.RoleSuper, true},
		{OpDeactivatePayment, user.RoleUsuario, false},

		{OpListPayments, "", false},
		{OpListPayments, "root", false},
		{Operation("payments.unknown"), user.RoleSuper, false},
	}

	for _, tt := range tests {
		got := Allowed(tt.op, tt.rol)

		if got != tt.want {
			t.Errorf("Allowed(%q, %q) = %v, want %v", tt.op, tt.rol, got, tt.want)
		}
	}
}
