package httpapi

import (
	"context"
	"net/http"

	"github.com/graphql-go/graphql"

	"lifelink.org/internal/dashboard"
	"lifelink.org/internal/session"
)

var sessionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Session",
	Fields: graphql.Fields{
		"authenticated": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"role":          &graphql.Field{Type: graphql.String},
	},
})

var cardType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Card",
	Fields: graphql.Fields{
		"title": &graphql.Field{Type: graphql.String},
		"value": &graphql.Field{Type: graphql.String},
		"note":  &graphql.Field{Type: graphql.String},
		"tone":  &graphql.Field{Type: graphql.String},
	},
})

var tabType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Tab",
	Fields: graphql.Fields{
		"key":   &graphql.Field{Type: graphql.String},
		"label": &graphql.Field{Type: graphql.String},
	},
})

var organRequestType = graphql.NewObject(graphql.ObjectConfig{
	Name: "OrganRequest",
	Fields: graphql.Fields{
		"id":      &graphql.Field{Type: graphql.Int},
		"organ":   &graphql.Field{Type: graphql.String},
		"patient": &graphql.Field{Type: graphql.String},
		"urgency": &graphql.Field{Type: graphql.String},
		"date":    &graphql.Field{Type: graphql.String},
		"status":  &graphql.Field{Type: graphql.String},
	},
})

var inventoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "InventoryItem",
	Fields: graphql.Fields{
		"organ":     &graphql.Field{Type: graphql.String},
		"available": &graphql.Field{Type: graphql.Int},
		"total":     &graphql.Field{Type: graphql.Int},
		"percent":   &graphql.Field{Type: graphql.Float},
	},
})

var trendType = graphql.NewObject(graphql.ObjectConfig{
	Name: "MonthlyTrend",
	Fields: graphql.Fields{
		"month":       &graphql.Field{Type: graphql.String},
		"donations":   &graphql.Field{Type: graphql.Int},
		"transplants": &graphql.Field{Type: graphql.Int},
	},
})

var distributionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "OrganDistribution",
	Fields: graphql.Fields{
		"name":  &graphql.Field{Type: graphql.String},
		"value": &graphql.Field{Type: graphql.Int},
		"color": &graphql.Field{Type: graphql.String},
	},
})

type gqlDashboard struct {
	Role         string                        `json:"role"`
	Title        string                        `json:"title"`
	Cards        []dashboard.Card              `json:"cards"`
	Tabs         []dashboard.Tab               `json:"tabs"`
	ActiveTab    string                        `json:"activeTab"`
	Actions      []string                      `json:"actions"`
	Requests     []dashboard.OrganRequest      `json:"requests"`
	Inventory    []gqlInventory                `json:"inventory"`
	Trends       []dashboard.MonthlyTrend      `json:"trends"`
	Distribution []dashboard.OrganDistribution `json:"distribution"`
}

type gqlInventory struct {
	Organ     string  `json:"organ"`
	Available int     `json:"available"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

var dashboardType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Dashboard",
	Fields: graphql.Fields{
		"role":         &graphql.Field{Type: graphql.String},
		"title":        &graphql.Field{Type: graphql.String},
		"cards":        &graphql.Field{Type: graphql.NewList(cardType)},
		"tabs":         &graphql.Field{Type: graphql.NewList(tabType)},
		"activeTab":    &graphql.Field{Type: graphql.String},
		"actions":      &graphql.Field{Type: graphql.NewList(graphql.String)},
		"requests":     &graphql.Field{Type: graphql.NewList(organRequestType)},
		"inventory":    &graphql.Field{Type: graphql.NewList(inventoryType)},
		"trends":       &graphql.Field{Type: graphql.NewList(trendType)},
		"distribution": &graphql.Field{Type: graphql.NewList(distributionType)},
	},
})

func newSchema(src dashboard.Source) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"session": &graphql.Field{
				Type: graphql.NewNonNull(sessionType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return session.StateFromContext(p.Context), nil
				},
			},
			"dashboard": &graphql.Field{
				Type: dashboardType,
				Args: graphql.FieldConfigArgument{
					"tab": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					tab, _ := p.Args["tab"].(string)
					d, err := resolveDashboard(p.Context, src, tab)
					if err != nil || d == nil {
						return nil, err
					}
					return d, nil
				},
			},
		},
	})
	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

// resolveDashboard returns nil for visitors without a session, so the field
// reads as null rather than an error.
func resolveDashboard(ctx context.Context, src dashboard.Source, tab string) (*gqlDashboard, error) {
	st := session.StateFromContext(ctx)
	if !st.Authenticated {
		return nil, nil
	}
	v, err := dashboard.Build(ctx, st.Role, src)
	if err != nil {
		return nil, err
	}
	out := &gqlDashboard{
		Role:      v.Role().String(),
		Title:     v.Title(),
		Cards:     v.Cards(),
		Tabs:      v.Tabs(),
		ActiveTab: dashboard.SelectTab(v, tab),
	}
	for _, a := range v.Actions() {
		out.Actions = append(out.Actions, a.String())
	}
	switch view := v.(type) {
	case *dashboard.HospitalView:
		out.Requests = view.Data.Requests
		for _, it := range view.Data.Inventory {
			out.Inventory = append(out.Inventory, gqlInventory{
				Organ:     it.Organ,
				Available: it.Available,
				Total:     it.Total,
				Percent:   it.Percent(),
			})
		}
	case *dashboard.AdminView:
		out.Trends = view.Data.Trends
		out.Distribution = view.Data.Distribution
	}
	return out, nil
}

type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func (a *API) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req graphQLRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": []map[string]any{{"message": "invalid request body"}},
		})
		return
	}
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": []map[string]any{{"message": "query is required"}},
		})
		return
	}
	result := graphql.Do(graphql.Params{
		Schema:         a.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})
	writeJSON(w, http.StatusOK, result)
}
