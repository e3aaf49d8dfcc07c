package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifelink.org/internal/session"
)

func TestSubmitGrantsChosenRole(t *testing.T) {
	for _, role := range session.Roles() {
		t.Run(string(role), func(t *testing.T) {
			h := session.NewHolder("h")
			out, err := Submit(h, Credentials{Identifier: "a@b.com", Secret: "x"}, role)
			require.NoError(t, err)
			assert.Equal(t, Outcome{Accepted: true, Role: role}, out)
			assert.Equal(t, session.State{Authenticated: true, Role: role}, h.State())
		})
	}
}

func TestSubmitIncompleteIsSilent(t *testing.T) {
	cases := map[string]Credentials{
		"both empty":       {},
		"no identifier":    {Secret: "x"},
		"no secret":        {Identifier: "a@b.com"},
		"empty identifier": {Identifier: "", Secret: "demo123"},
	}
	for name, creds := range cases {
		t.Run(name, func(t *testing.T) {
			h := session.NewHolder("h")
			out, err := Submit(h, creds, session.RoleHospital)
			require.NoError(t, err)
			assert.False(t, out.Accepted)
			assert.Equal(t, session.State{}, h.State())
		})
	}
}

func TestSubmitIncompleteKeepsExistingSession(t *testing.T) {
	h := session.NewHolder("h")
	require.NoError(t, h.Login(session.RoleDonor))
	out, err := Submit(h, Credentials{Identifier: "a"}, session.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, out.Accepted)
	assert.Equal(t, session.RoleDonor, h.State().Role)
}

func TestSubmitWhitespaceCounts(t *testing.T) {
	h := session.NewHolder("h")
	out, err := Submit(h, Credentials{Identifier: " ", Secret: "\t"}, session.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, out.Accepted)
	assert.Equal(t, session.RoleAdmin, h.State().Role)
}

func TestSubmitInvalidRole(t *testing.T) {
	h := session.NewHolder("h")
	_, err := Submit(h, Credentials{Identifier: "a", Secret: "b"}, session.Role("surgeon"))
	require.ErrorIs(t, err, session.ErrInvalidRole)
	assert.Equal(t, session.State{}, h.State())
}

func TestSubmitNilHolder(t *testing.T) {
	_, err := Submit(nil, Credentials{Identifier: "a", Secret: "b"}, session.RoleDonor)
	require.ErrorIs(t, err, ErrNoHolder)
}
