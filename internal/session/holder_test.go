package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHolderIsUnauthenticated(t *testing.T) {
	h := NewHolder("abc")
	assert.Equal(t, State{}, h.State())
	assert.Equal(t, "abc", h.ID())
	assert.False(t, h.CreatedAt().IsZero())
}

func TestLoginEachRole(t *testing.T) {
	for _, role := range Roles() {
		t.Run(string(role), func(t *testing.T) {
			h := NewHolder("x")
			require.NoError(t, h.Login(role))
			assert.Equal(t, State{Authenticated: true, Role: role}, h.State())
		})
	}
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	h := NewHolder("x")
	for _, role := range []Role{"", "nurse", "Admin "} {
		err := h.Login(role)
		require.ErrorIs(t, err, ErrInvalidRole)
	}
	assert.Equal(t, State{}, h.State())
}

func TestLogoutClearsBothFields(t *testing.T) {
	h := NewHolder("x")
	require.NoError(t, h.Login(RoleHospital))
	h.Logout()
	assert.Equal(t, State{}, h.State())

	// logging out twice is harmless
	h.Logout()
	assert.Equal(t, State{}, h.State())
}

func TestReloginSwitchesRole(t *testing.T) {
	h := NewHolder("x")
	require.NoError(t, h.Login(RoleDonor))
	h.Logout()
	require.NoError(t, h.Login(RoleAdmin))
	assert.Equal(t, RoleAdmin, h.State().Role)
}

func TestHolderConcurrentAccess(t *testing.T) {
	h := NewHolder("x")
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = h.Login(Roles()[i%3])
			} else {
				h.Logout()
			}
			st := h.State()
			if st.Authenticated {
				assert.True(t, st.Role.Valid())
			} else {
				assert.Equal(t, RoleNone, st.Role)
			}
		}(i)
	}
	wg.Wait()
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("  Hospital ")
	require.NoError(t, err)
	assert.Equal(t, RoleHospital, r)
	assert.Equal(t, "Hospital", r.Title())

	_, err = ParseRole("superuser")
	require.ErrorIs(t, err, ErrInvalidRole)
	_, err = ParseRole("")
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, ok := HolderFromContext(ctx)
	assert.False(t, ok)
	assert.Equal(t, State{}, StateFromContext(ctx))

	h := NewHolder("x")
	require.NoError(t, h.Login(RoleDonor))
	ctx = ContextWithHolder(ctx, h)
	got, ok := HolderFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, h, got)
	assert.Equal(t, RoleDonor, StateFromContext(ctx).Role)
}
