package httpapi

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"lifelink.org/internal/dashboard"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

const (
	brandTitle    = "Organ Donation System"
	brandSubtitle = "Secure & Transparent Donation Management"
)

type pages struct {
	gate      *template.Template
	dashboard *template.Template
}

var templateFuncs = template.FuncMap{
	"urgencyTone": func(u dashboard.Urgency) string { return dashboard.UrgencyTone(u) },
	"statusTone":  func(s dashboard.RequestStatus) string { return dashboard.StatusTone(s) },
	"alertTone":   func(l dashboard.AlertLevel) string { return dashboard.AlertTone(l) },
	"join":        strings.Join,
	"button":      newActionButton,
}

type actionButton struct {
	Action string
	Tab    string
	Class  string
	Label  string
}

// newActionButton backs the "action" template. label overrides the default
// button text.
func newActionButton(action, tab, class string, label ...string) actionButton {
	b := actionButton{Action: action, Tab: tab, Class: class, Label: dashboard.Action(action).Label()}
	if len(label) > 0 && label[0] != "" {
		b.Label = label[0]
	}
	return b
}

func loadPages() (*pages, error) {
	base, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	gate, err := template.Must(base.Clone()).ParseFS(templateFS, "templates/gate.html")
	if err != nil {
		return nil, fmt.Errorf("parse gate: %w", err)
	}
	dash, err := template.Must(base.Clone()).ParseFS(templateFS,
		"templates/dashboard.html",
		"templates/donor.html",
		"templates/hospital.html",
		"templates/admin.html",
	)
	if err != nil {
		return nil, fmt.Errorf("parse dashboard: %w", err)
	}
	return &pages{gate: gate, dashboard: dash}, nil
}

// render executes into a buffer first so a template error never leaves a
// half-written page behind.
func render(w http.ResponseWriter, code int, t *template.Template, data any) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_, err := buf.WriteTo(w)
	return err
}

func assetHandler() http.Handler {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/assets/", http.FileServer(http.FS(sub)))
}

type frame struct {
	Title         string
	Authenticated bool
	RoleTitle     string
}

type roleButton struct {
	Key   string
	Label string
}

type gatePage struct {
	frame
	Subtitle   string
	Hint       string
	Identifier string
	Roles      []roleButton
}

type tabLink struct {
	Key    string
	Label  string
	Active bool
}

type dashboardPage struct {
	frame
	Role     string
	View     dashboard.View
	Cards    []dashboard.Card
	Tabs     []tabLink
	Active   string
	Donor    *dashboard.DonorView
	Hospital *dashboard.HospitalView
	Admin    *dashboard.AdminView
}

func newDashboardPage(v dashboard.View, tab string) dashboardPage {
	active := dashboard.SelectTab(v, tab)
	p := dashboardPage{
		frame: frame{
			Title:         brandTitle,
			Authenticated: true,
			RoleTitle:     v.Role().Title(),
		},
		Role:   v.Role().String(),
		View:   v,
		Cards:  v.Cards(),
		Active: active,
	}
	for _, t := range v.Tabs() {
		p.Tabs = append(p.Tabs, tabLink{Key: t.Key, Label: t.Label, Active: t.Key == active})
	}
	switch view := v.(type) {
	case *dashboard.DonorView:
		p.Donor = view
	case *dashboard.HospitalView:
		p.Hospital = view
	case *dashboard.AdminView:
		p.Admin = view
	}
	return p
}
