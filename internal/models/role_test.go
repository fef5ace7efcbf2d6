package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanViewConfidential(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleAdminGeral, true},
		{RoleGestor, true},
		{RolePontoFocal, true},
		{RoleUsuario, false},
		{Role("intruder"), false},
	}

	for _, tc := range tests {
		t.Run(string(tc.role), func(t *testing.T) {
			require.Equal(t, tc.want, tc.role.CanViewConfidential())
		})
	}
}

func TestParseRole(t *testing.T) {
	require.Equal(t, RoleAdminGeral, ParseRole("admin_geral"))
	require.Equal(t, RoleGestor, ParseRole("gestor"))
	require.Equal(t, RolePontoFocal, ParseRole("ponto_focal"))
	require.Equal(t, RoleUsuario, ParseRole("usuario"))

	// Unknown and empty strings fall back to least privilege.
	require.Equal(t, RoleUsuario, ParseRole("superuser"))
	require.Equal(t, RoleUsuario, ParseRole(""))
}
