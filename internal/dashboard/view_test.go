package dashboard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"lifelink.org/internal/dashboard"
	"lifelink.org/internal/dashboard/mocks"
	"lifelink.org/internal/session"
)

func TestBuildPicksViewForRole(t *testing.T) {
	ctx := context.Background()
	for _, role := range session.Roles() {
		v, err := dashboard.Build(ctx, role, dashboard.Seeded())
		require.NoError(t, err)
		assert.Equal(t, role, v.Role())
		switch v.(type) {
		case *dashboard.DonorView:
			assert.Equal(t, session.RoleDonor, role)
		case *dashboard.HospitalView:
			assert.Equal(t, session.RoleHospital, role)
		case *dashboard.AdminView:
			assert.Equal(t, session.RoleAdmin, role)
		default:
			t.Fatalf("unexpected view %T", v)
		}
		for _, a := range v.Actions() {
			assert.Equal(t, role, a.Owner())
		}
	}
}

func TestBuildWithoutRole(t *testing.T) {
	_, err := dashboard.Build(context.Background(), session.RoleNone, dashboard.Seeded())
	require.ErrorIs(t, err, dashboard.ErrNoView)
}

func TestBuildOnlyQueriesOwnDataset(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().Hospital(gomock.Any()).Return(dashboard.HospitalData{
		Requests: []dashboard.OrganRequest{
			{ID: 1, Urgency: dashboard.UrgencyCritical, Status: dashboard.StatusPending},
			{ID: 2, Urgency: dashboard.UrgencyCritical, Status: dashboard.StatusMatched},
		},
	}, nil)

	v, err := dashboard.Build(context.Background(), session.RoleHospital, src)
	require.NoError(t, err)
	hv := v.(*dashboard.HospitalView)
	assert.Equal(t, 2, hv.Critical())
	assert.Equal(t, 1, hv.Matched())
	assert.Equal(t, 0, hv.Completed())
}

func TestBuildPropagatesSourceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	boom := errors.New("catalog offline")
	src.EXPECT().Admin(gomock.Any()).Return(dashboard.AdminData{}, boom)

	_, err := dashboard.Build(context.Background(), session.RoleAdmin, src)
	require.ErrorIs(t, err, boom)
}

func TestHospitalCardsFromSeed(t *testing.T) {
	v, err := dashboard.Build(context.Background(), session.RoleHospital, dashboard.Seeded())
	require.NoError(t, err)

	want := []dashboard.Card{
		{Title: "Total Requests", Value: "3", Note: "Active requests"},
		{Title: "Critical Cases", Value: "1", Note: "Urgent attention needed", Tone: "red"},
		{Title: "Matched Cases", Value: "1", Note: "Ready for transplant", Tone: "green"},
		{Title: "Completed", Value: "1", Note: "This month", Tone: "blue"},
	}
	if diff := cmp.Diff(want, v.Cards()); diff != "" {
		t.Fatalf("cards mismatch (-want +got):\n%s", diff)
	}
}

func TestHospitalInventoryBars(t *testing.T) {
	v, err := dashboard.Build(context.Background(), session.RoleHospital, dashboard.Seeded())
	require.NoError(t, err)

	widths := map[string]string{}
	for _, bar := range v.(*dashboard.HospitalView).InventoryBars() {
		widths[bar.Organ] = bar.Width
	}
	want := map[string]string{"Heart": "40", "Kidney": "50", "Liver": "33.33", "Pancreas": "0"}
	if diff := cmp.Diff(want, widths); diff != "" {
		t.Fatalf("widths mismatch (-want +got):\n%s", diff)
	}
}

func TestDonorAndAdminCards(t *testing.T) {
	ctx := context.Background()
	dv, err := dashboard.Build(ctx, session.RoleDonor, dashboard.Seeded())
	require.NoError(t, err)
	cards := dv.Cards()
	require.Len(t, cards, 3)
	assert.Equal(t, "Active", cards[0].Value)
	assert.Equal(t, "3", cards[1].Value)
	assert.Equal(t, "Heart, Kidneys, Liver", cards[1].Note)
	assert.Equal(t, "O+", cards[2].Value)

	av, err := dashboard.Build(ctx, session.RoleAdmin, dashboard.Seeded())
	require.NoError(t, err)
	cards = av.Cards()
	require.Len(t, cards, 4)
	assert.Equal(t, "15,234", cards[0].Value)
	assert.Equal(t, "↑ 12% from last month", cards[0].Note)
	assert.Equal(t, "8,923", cards[2].Value)
	assert.Equal(t, "94.2%", cards[3].Value)

	bars := av.(*dashboard.AdminView).TrendBars()
	require.Len(t, bars, 6)
	assert.Equal(t, "100", bars[5].DonationsWidth)
}

func TestSelectTab(t *testing.T) {
	v := dashboard.NewHospitalView(dashboard.HospitalData{})
	assert.Equal(t, "inventory", dashboard.SelectTab(v, "inventory"))
	assert.Equal(t, "requests", dashboard.SelectTab(v, ""))
	assert.Equal(t, "requests", dashboard.SelectTab(v, "analytics"))

	keys := []string{}
	for _, tab := range dashboard.NewAdminView(dashboard.AdminData{}).Tabs() {
		keys = append(keys, tab.Key)
	}
	assert.Equal(t, []string{"analytics", "users", "alerts", "security"}, keys)
}

func TestParseAction(t *testing.T) {
	a, err := dashboard.ParseAction(" Run-Matching ")
	require.NoError(t, err)
	assert.Equal(t, dashboard.ActionRunMatching, a)
	assert.Equal(t, session.RoleHospital, a.Owner())
	assert.Equal(t, "Run Matching Algorithm", a.Label())

	_, err = dashboard.ParseAction("delete-everything")
	require.ErrorIs(t, err, dashboard.ErrUnknownAction)
}

func TestOffers(t *testing.T) {
	donor := dashboard.NewDonorView(dashboard.DonorData{})
	assert.True(t, dashboard.Offers(donor, dashboard.ActionUpdateProfile))
	assert.False(t, dashboard.Offers(donor, dashboard.ActionRunMatching))
	assert.False(t, dashboard.Offers(nil, dashboard.ActionRunMatching))
}
