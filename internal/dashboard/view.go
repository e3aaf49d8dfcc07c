package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lifelink.org/internal/session"
)

// ErrNoView is returned when a role has no dashboard.
var ErrNoView = errors.New("dashboard: no view for role")

// Card is one summary metric at the top of a dashboard.
type Card struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Note  string `json:"note,omitempty"`
	Tone  string `json:"tone,omitempty"`
}

// Tab is one panel of the tabbed region.
type Tab struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// View is the shared shape of the three dashboards. The set of
// implementations is closed: *DonorView, *HospitalView and *AdminView.
type View interface {
	Role() session.Role
	Title() string
	Cards() []Card
	Tabs() []Tab
	DefaultTab() string
	Actions() []Action

	isView()
}

// Build loads the dataset for role from src and wraps it in the matching
// view.
func Build(ctx context.Context, role session.Role, src Source) (View, error) {
	switch role {
	case session.RoleDonor:
		data, err := src.Donor(ctx)
		if err != nil {
			return nil, fmt.Errorf("load donor data: %w", err)
		}
		return NewDonorView(data), nil
	case session.RoleHospital:
		data, err := src.Hospital(ctx)
		if err != nil {
			return nil, fmt.Errorf("load hospital data: %w", err)
		}
		return NewHospitalView(data), nil
	case session.RoleAdmin:
		data, err := src.Admin(ctx)
		if err != nil {
			return nil, fmt.Errorf("load admin data: %w", err)
		}
		return NewAdminView(data), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNoView, string(role))
}

// SelectTab returns key when v has such a tab and the default tab otherwise.
func SelectTab(v View, key string) string {
	key = strings.TrimSpace(key)
	for _, t := range v.Tabs() {
		if t.Key == key {
			return key
		}
	}
	return v.DefaultTab()
}

// DonorView is the donor's own profile, history and documents.
type DonorView struct {
	Data DonorData
}

func NewDonorView(data DonorData) *DonorView { return &DonorView{Data: data} }

func (*DonorView) isView() {}
func (*DonorView) Role() session.Role { return session.RoleDonor }
func (*DonorView) Title() string { return "Donor Dashboard" }
func (*DonorView) DefaultTab() string { return "profile" }
func (*DonorView) Actions() []Action { return []Action{ActionUpdateProfile, ActionDownloadDocument} }
func (v *DonorView) Profile() DonorProfile { return v.Data.Profile }

func (*DonorView) Tabs() []Tab {
	return []Tab{
		{Key: "profile", Label: "Profile"},
		{Key: "donations", Label: "Donation History"},
		{Key: "documents", Label: "Documents"},
	}
}

func (v *DonorView) Cards() []Card {
	p := v.Data.Profile
	return []Card{
		{Title: "Donor Status", Value: p.Status, Tone: "green"},
		{Title: "Organs Registered", Value: FormatCount(len(p.Organs)), Note: strings.Join(p.Organs, ", ")},
		{Title: "Blood Type", Value: p.BloodType, Tone: "red"},
	}
}

// HospitalView covers incoming requests, stock levels and the matching
// checklist.
type HospitalView struct {
	Data HospitalData
}

func NewHospitalView(data HospitalData) *HospitalView { return &HospitalView{Data: data} }

func (*HospitalView) isView() {}
func (*HospitalView) Role() session.Role { return session.RoleHospital }
func (*HospitalView) Title() string { return "Hospital Dashboard" }
func (*HospitalView) DefaultTab() string { return "requests" }
func (*HospitalView) Actions() []Action { return []Action{ActionViewRequest, ActionRunMatching} }

func (*HospitalView) Tabs() []Tab {
	return []Tab{
		{Key: "requests", Label: "Organ Requests"},
		{Key: "inventory", Label: "Inventory"},
		{Key: "matching", Label: "Matching Algorithm"},
	}
}

// Critical is the number of requests graded Critical.
func (v *HospitalView) Critical() int { return CountUrgency(v.Data.Requests, UrgencyCritical) }

// Matched is the number of requests already matched.
func (v *HospitalView) Matched() int { return CountStatus(v.Data.Requests, StatusMatched) }

// Completed is the number of finished requests.
func (v *HospitalView) Completed() int { return CountStatus(v.Data.Requests, StatusCompleted) }

func (v *HospitalView) Cards() []Card {
	return []Card{
		{Title: "Total Requests", Value: FormatCount(len(v.Data.Requests)), Note: "Active requests"},
		{Title: "Critical Cases", Value: FormatCount(v.Critical()), Note: "Urgent attention needed", Tone: "red"},
		{Title: "Matched Cases", Value: FormatCount(v.Matched()), Note: "Ready for transplant", Tone: "green"},
		{Title: "Completed", Value: FormatCount(v.Completed()), Note: "This month", Tone: "blue"},
	}
}

// InventoryBar is an inventory item ready for display.
type InventoryBar struct {
	InventoryItem
	Width string
	Empty bool
}

// InventoryBars pairs each item with its bar width.
func (v *HospitalView) InventoryBars() []InventoryBar {
	out := make([]InventoryBar, 0, len(v.Data.Inventory))
	for _, it := range v.Data.Inventory {
		out = append(out, InventoryBar{
			InventoryItem: it,
			Width:         FormatPercent(it.Percent()),
			Empty:         it.Available <= 0,
		})
	}
	return out
}

// UrgencyTone maps an urgency grade to a badge colour.
func UrgencyTone(u Urgency) string {
	switch u {
	case UrgencyCritical:
		return "red"
	case UrgencyHigh:
		return "orange"
	case UrgencyMedium:
		return "yellow"
	}
	return "green"
}

// StatusTone maps a request status to a badge colour.
func StatusTone(s RequestStatus) string {
	switch s {
	case StatusPending:
		return "blue"
	case StatusMatched:
		return "green"
	}
	return "gray"
}

// AlertTone maps an alert level to an icon colour.
func AlertTone(l AlertLevel) string {
	switch l {
	case AlertCritical:
		return "red"
	case AlertWarning:
		return "yellow"
	}
	return "blue"
}

// AdminView is the system-wide analytics and management console.
type AdminView struct {
	Data AdminData
}

func NewAdminView(data AdminData) *AdminView { return &AdminView{Data: data} }

func (*AdminView) isView() {}
func (*AdminView) Role() session.Role { return session.RoleAdmin }
func (*AdminView) Title() string { return "Admin Dashboard" }
func (*AdminView) DefaultTab() string { return "analytics" }
func (*AdminView) Actions() []Action { return []Action{ActionManageUser, ActionViewAuditLog} }

func (*AdminView) Tabs() []Tab {
	return []Tab{
		{Key: "analytics", Label: "Analytics"},
		{Key: "users", Label: "Users"},
		{Key: "alerts", Label: "Alerts"},
		{Key: "security", Label: "Security"},
	}
}

func (v *AdminView) Cards() []Card {
	s := v.Data.Stats
	return []Card{
		{Title: "Total Donors", Value: FormatCount(s.TotalDonors), Note: growthNote(s.DonorGrowth)},
		{Title: "Hospitals", Value: FormatCount(s.TotalHospitals), Note: growthNote(s.HospitalGrowth)},
		{Title: "Transplants", Value: FormatCount(s.TotalTransplants), Note: growthNote(s.TransplantGrowth)},
		{Title: "Success Rate", Value: FormatPercent(s.SuccessRate) + "%", Note: "Overall success rate", Tone: "green"},
	}
}

func growthNote(pct int) string {
	if pct < 0 {
		return fmt.Sprintf("↓ %d%% from last month", -pct)
	}
	return fmt.Sprintf("↑ %d%% from last month", pct)
}

// TrendBar is one month of the trend chart, scaled against the busiest
// month.
type TrendBar struct {
	MonthlyTrend
	DonationsWidth   string
	TransplantsWidth string
}

// TrendBars scales the monthly series for a horizontal bar chart.
func (v *AdminView) TrendBars() []TrendBar {
	peak, ok := TrendPeak(v.Data.Trends)
	if !ok {
		return nil
	}
	out := make([]TrendBar, 0, len(v.Data.Trends))
	for _, t := range v.Data.Trends {
		out = append(out, TrendBar{
			MonthlyTrend:     t,
			DonationsWidth:   FormatPercent(InventoryPercent(t.Donations, peak.Donations)),
			TransplantsWidth: FormatPercent(InventoryPercent(t.Transplants, peak.Donations)),
		})
	}
	return out
}

// DistributionSlice is one organ's share of all transplants.
type DistributionSlice struct {
	OrganDistribution
	Share string
}

// DistributionSlices lists each organ with its share of the total.
func (v *AdminView) DistributionSlices() []DistributionSlice {
	shares := DistributionShare(v.Data.Distribution)
	out := make([]DistributionSlice, 0, len(v.Data.Distribution))
	for _, d := range v.Data.Distribution {
		out = append(out, DistributionSlice{OrganDistribution: d, Share: FormatPercent(shares[d.Name])})
	}
	return out
}
