package dashboard

//go:generate mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks

import (
	"context"
	"slices"
)

// Source supplies the records behind each dashboard. The seeded source is
// the only implementation the UI needs; store/pg provides a database-backed
// one for deployments that load the catalog into Postgres.
type Source interface {
	Donor(ctx context.Context) (DonorData, error)
	Hospital(ctx context.Context) (HospitalData, error)
	Admin(ctx context.Context) (AdminData, error)
}

type seeded struct{}

// Seeded returns the built-in mock dataset. Every call hands out fresh
// copies, so callers may modify what they receive.
func Seeded() Source { return seeded{} }

func (seeded) Donor(context.Context) (DonorData, error) {
	return DonorData{
		Profile: DonorProfile{
			Name:           "John Doe",
			Email:          "john@example.com",
			BloodType:      "O+",
			Organs:         []string{"Heart", "Kidneys", "Liver"},
			Status:         "Active",
			RegisteredDate: "2024-01-15",
		},
		Donations: []DonationRecord{
			{ID: 1, Organ: "Heart", Recipient: "Anonymous", Date: "2024-06-20", Status: "Completed"},
			{ID: 2, Organ: "Kidney", Recipient: "Anonymous", Date: "2024-06-20", Status: "Completed"},
		},
		Documents: []Document{
			{Name: "Donation Certificate"},
			{Name: "Privacy & Consent Form"},
			{Name: "Medical History Report"},
		},
	}, nil
}

func (seeded) Hospital(context.Context) (HospitalData, error) {
	return HospitalData{
		Requests: []OrganRequest{
			{ID: 1, Organ: "Heart", Patient: "Patient A", Urgency: UrgencyCritical, Date: "2024-11-07", Status: StatusPending},
			{ID: 2, Organ: "Kidney", Patient: "Patient B", Urgency: UrgencyHigh, Date: "2024-11-06", Status: StatusMatched},
			{ID: 3, Organ: "Liver", Patient: "Patient C", Urgency: UrgencyMedium, Date: "2024-11-05", Status: StatusCompleted},
		},
		Inventory: []InventoryItem{
			{Organ: "Heart", Available: 2, Total: 5},
			{Organ: "Kidney", Available: 4, Total: 8},
			{Organ: "Liver", Available: 1, Total: 3},
			{Organ: "Pancreas", Available: 0, Total: 2},
		},
		MatchingCriteria: slices.Clone(matchingCriteria),
	}, nil
}

func (seeded) Admin(context.Context) (AdminData, error) {
	return AdminData{
		Stats: AdminStats{
			TotalDonors:      15234,
			TotalHospitals:   342,
			TotalTransplants: 8923,
			SuccessRate:      94.2,
			DonorGrowth:      12,
			HospitalGrowth:   5,
			TransplantGrowth: 8,
		},
		Trends: []MonthlyTrend{
			{Month: "Jan", Donations: 120, Transplants: 95},
			{Month: "Feb", Donations: 145, Transplants: 112},
			{Month: "Mar", Donations: 168, Transplants: 138},
			{Month: "Apr", Donations: 142, Transplants: 125},
			{Month: "May", Donations: 190, Transplants: 165},
			{Month: "Jun", Donations: 210, Transplants: 185},
		},
		Distribution: []OrganDistribution{
			{Name: "Heart", Value: 2340, Color: "#ef4444"},
			{Name: "Kidney", Value: 3890, Color: "#3b82f6"},
			{Name: "Liver", Value: 1560, Color: "#f59e0b"},
			{Name: "Pancreas", Value: 890, Color: "#8b5cf6"},
			{Name: "Lung", Value: 1243, Color: "#10b981"},
		},
		Users: []UserRecord{
			{ID: 1, Name: "John Hospital", Type: "Hospital", Status: "Active", Registered: "2024-01-15"},
			{ID: 2, Name: "Sarah Donor", Type: "Donor", Status: "Active", Registered: "2024-02-20"},
			{ID: 3, Name: "City Medical Center", Type: "Hospital", Status: "Active", Registered: "2024-03-10"},
			{ID: 4, Name: "Mike Donor", Type: "Donor", Status: "Inactive", Registered: "2024-04-05"},
		},
		Alerts: []AlertRecord{
			{ID: 1, Level: AlertCritical, Message: "High urgency case - Heart needed", Time: "2 hours ago"},
			{ID: 2, Level: AlertWarning, Message: "Inventory low for Kidney organs", Time: "4 hours ago"},
			{ID: 3, Level: AlertInfo, Message: "New hospital registered", Time: "1 day ago"},
		},
		Security: []SecurityControl{
			{Name: "SSL/TLS Encryption", State: "Active"},
			{Name: "Data Backup", State: "Daily"},
			{Name: "HIPAA Compliance", State: "Compliant"},
			{Name: "Two-Factor Authentication", State: "Enabled"},
		},
	}, nil
}

// matchingCriteria is the static checklist shown on the matching tab. No
// matching is performed anywhere.
var matchingCriteria = []string{
	"Blood type compatibility",
	"Tissue type matching (HLA)",
	"Organ size compatibility",
	"Waiting time priority",
	"Medical urgency level",
	"Geographic proximity",
}

// MatchingCriteria returns the checklist shown on the matching tab.
func MatchingCriteria() []string { return slices.Clone(matchingCriteria) }
