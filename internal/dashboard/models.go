package dashboard

import (
	"errors"
	"fmt"
)

// Urgency grades an organ request.
type Urgency string

const (
	UrgencyCritical Urgency = "Critical"
	UrgencyHigh     Urgency = "High"
	UrgencyMedium   Urgency = "Medium"
	UrgencyLow      Urgency = "Low"
)

// RequestStatus tracks an organ request through matching.
type RequestStatus string

const (
	StatusPending   RequestStatus = "Pending"
	StatusMatched   RequestStatus = "Matched"
	StatusCompleted RequestStatus = "Completed"
)

// AlertLevel grades a system alert.
type AlertLevel string

const (
	AlertCritical AlertLevel = "Critical"
	AlertWarning  AlertLevel = "Warning"
	AlertInfo     AlertLevel = "Info"
)

type DonorProfile struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	BloodType      string   `json:"blood_type"`
	Organs         []string `json:"organs"`
	Status         string   `json:"status"`
	RegisteredDate string   `json:"registered_date"`
}

type DonationRecord struct {
	ID        int    `json:"id"`
	Organ     string `json:"organ"`
	Recipient string `json:"recipient"`
	Date      string `json:"date"`
	Status    string `json:"status"`
}

// Document is a downloadable file listed on the donor dashboard.
type Document struct {
	Name string `json:"name"`
}

type OrganRequest struct {
	ID      int           `json:"id"`
	Organ   string        `json:"organ"`
	Patient string        `json:"patient"`
	Urgency Urgency       `json:"urgency"`
	Date    string        `json:"date"`
	Status  RequestStatus `json:"status"`
}

type InventoryItem struct {
	Organ     string `json:"organ"`
	Available int    `json:"available"`
	Total     int    `json:"total"`
}

// ErrInvalidInventory reports counts that cannot describe a real stock level.
var ErrInvalidInventory = errors.New("dashboard: invalid inventory item")

// Validate checks that counts are non-negative and available does not exceed
// total.
func (i InventoryItem) Validate() error {
	switch {
	case i.Available < 0 || i.Total < 0:
		return fmt.Errorf("%w: %s has negative count", ErrInvalidInventory, i.Organ)
	case i.Available > i.Total:
		return fmt.Errorf("%w: %s available %d exceeds total %d", ErrInvalidInventory, i.Organ, i.Available, i.Total)
	}
	return nil
}

// Percent is the fill level of the inventory bar.
func (i InventoryItem) Percent() float64 {
	return InventoryPercent(i.Available, i.Total)
}

type AdminStats struct {
	TotalDonors      int     `json:"total_donors"`
	TotalHospitals   int     `json:"total_hospitals"`
	TotalTransplants int     `json:"total_transplants"`
	SuccessRate      float64 `json:"success_rate"`
	DonorGrowth      int     `json:"donor_growth"`
	HospitalGrowth   int     `json:"hospital_growth"`
	TransplantGrowth int     `json:"transplant_growth"`
}

type MonthlyTrend struct {
	Month       string `json:"month"`
	Donations   int    `json:"donations"`
	Transplants int    `json:"transplants"`
}

type OrganDistribution struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

type UserRecord struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	Registered string `json:"registered"`
}

type AlertRecord struct {
	ID      int        `json:"id"`
	Level   AlertLevel `json:"level"`
	Message string     `json:"message"`
	Time    string     `json:"time"`
}

// SecurityControl is one row of the admin security panel.
type SecurityControl struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

// DonorData is everything the donor dashboard displays.
type DonorData struct {
	Profile   DonorProfile     `json:"profile"`
	Donations []DonationRecord `json:"donations"`
	Documents []Document       `json:"documents"`
}

// HospitalData is everything the hospital dashboard displays.
type HospitalData struct {
	Requests         []OrganRequest  `json:"requests"`
	Inventory        []InventoryItem `json:"inventory"`
	MatchingCriteria []string        `json:"matching_criteria"`
}

// AdminData is everything the admin dashboard displays.
type AdminData struct {
	Stats        AdminStats          `json:"stats"`
	Trends       []MonthlyTrend      `json:"trends"`
	Distribution []OrganDistribution `json:"distribution"`
	Users        []UserRecord        `json:"users"`
	Alerts       []AlertRecord       `json:"alerts"`
	Security     []SecurityControl   `json:"security"`
}
