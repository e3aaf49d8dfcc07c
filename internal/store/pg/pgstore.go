package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"lifelink.org/internal/dashboard"
	"lifelink.org/internal/obs"
)

// Catalog reads dashboard records from Postgres. It never writes.
type Catalog struct {
	db *sql.DB
}

var _ dashboard.Source = (*Catalog)(nil)

// ErrEmptyCatalog is returned when a singleton row (donor profile, admin
// stats) has not been seeded.
var ErrEmptyCatalog = errors.New("pg: catalog not seeded")

// Options tunes the connection pool and the initial connect retry.
type Options struct {
	MaxOpenConns int
	ConnectWait  time.Duration
}

// Open returns a Catalog once the database answers a ping, retrying with
// exponential backoff for up to opts.ConnectWait. A zero wait pings once.
func Open(ctx context.Context, dsn string, opts Options) (*Catalog, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxOpenConns / 2)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := waitReady(ctx, db, opts.ConnectWait); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Catalog{db: db}, nil
}

// New wraps an existing handle.
func New(db *sql.DB) *Catalog { return &Catalog{db: db} }

func waitReady(ctx context.Context, db *sql.DB, wait time.Duration) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = wait
	var policy backoff.BackOff = bo
	if wait <= 0 {
		policy = &backoff.StopBackOff{}
	}

	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	}, backoff.WithContext(policy, ctx), func(err error, next time.Duration) {
		obs.Logger().Warn("postgres not ready",
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", next),
			zap.Error(err),
		)
	})
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	return nil
}

func (c *Catalog) Close() error { return c.db.Close() }

func (c *Catalog) DB() *sql.DB { return c.db }

func (c *Catalog) Donor(ctx context.Context) (dashboard.DonorData, error) {
	var (
		out    dashboard.DonorData
		organs string
	)
	p := &out.Profile
	err := c.db.QueryRowContext(ctx, `
		select name, email, blood_type, array_to_string(organs, ','), status,
		       to_char(registered_on, 'YYYY-MM-DD')
		from donor_profiles
		order by id
		limit 1
	`).Scan(&p.Name, &p.Email, &p.BloodType, &organs, &p.Status, &p.RegisteredDate)
	if errors.Is(err, sql.ErrNoRows) {
		return dashboard.DonorData{}, fmt.Errorf("%w: donor profile", ErrEmptyCatalog)
	}
	if err != nil {
		return dashboard.DonorData{}, err
	}
	if organs != "" {
		p.Organs = strings.Split(organs, ",")
	}

	out.Donations, err = queryRows(ctx, c.db, `
		select id, organ, recipient, to_char(donated_on, 'YYYY-MM-DD'), status
		from donations
		order by id
	`, func(s scanner) (dashboard.DonationRecord, error) {
		var d dashboard.DonationRecord
		return d, s.Scan(&d.ID, &d.Organ, &d.Recipient, &d.Date, &d.Status)
	})
	if err != nil {
		return dashboard.DonorData{}, err
	}

	out.Documents, err = queryRows(ctx, c.db, `select name from donor_documents order by position`,
		func(s scanner) (dashboard.Document, error) {
			var d dashboard.Document
			return d, s.Scan(&d.Name)
		})
	if err != nil {
		return dashboard.DonorData{}, err
	}
	return out, nil
}

func (c *Catalog) Hospital(ctx context.Context) (dashboard.HospitalData, error) {
	var (
		out dashboard.HospitalData
		err error
	)
	out.Requests, err = queryRows(ctx, c.db, `
		select id, organ, patient, urgency, to_char(requested_on, 'YYYY-MM-DD'), status
		from organ_requests
		order by id
	`, func(s scanner) (dashboard.OrganRequest, error) {
		var r dashboard.OrganRequest
		return r, s.Scan(&r.ID, &r.Organ, &r.Patient, &r.Urgency, &r.Date, &r.Status)
	})
	if err != nil {
		return dashboard.HospitalData{}, err
	}

	out.Inventory, err = queryRows(ctx, c.db, `
		select organ, available, total
		from organ_inventory
		order by position
	`, func(s scanner) (dashboard.InventoryItem, error) {
		var it dashboard.InventoryItem
		if err := s.Scan(&it.Organ, &it.Available, &it.Total); err != nil {
			return it, err
		}
		return it, it.Validate()
	})
	if err != nil {
		return dashboard.HospitalData{}, err
	}

	out.MatchingCriteria, err = queryRows(ctx, c.db, `select criterion from matching_criteria order by position`,
		func(s scanner) (string, error) {
			var v string
			return v, s.Scan(&v)
		})
	if err != nil {
		return dashboard.HospitalData{}, err
	}
	if len(out.MatchingCriteria) == 0 {
		out.MatchingCriteria = dashboard.MatchingCriteria()
	}
	return out, nil
}

func (c *Catalog) Admin(ctx context.Context) (dashboard.AdminData, error) {
	var out dashboard.AdminData
	st := &out.Stats
	err := c.db.QueryRowContext(ctx, `
		select total_donors, total_hospitals, total_transplants, success_rate,
		       donor_growth, hospital_growth, transplant_growth
		from admin_stats
		where id = 1
	`).Scan(&st.TotalDonors, &st.TotalHospitals, &st.TotalTransplants, &st.SuccessRate,
		&st.DonorGrowth, &st.HospitalGrowth, &st.TransplantGrowth)
	if errors.Is(err, sql.ErrNoRows) {
		return dashboard.AdminData{}, fmt.Errorf("%w: admin stats", ErrEmptyCatalog)
	}
	if err != nil {
		return dashboard.AdminData{}, err
	}

	if out.Trends, err = queryRows(ctx, c.db, `
		select month, donations, transplants from monthly_trends order by position
	`, func(s scanner) (dashboard.MonthlyTrend, error) {
		var t dashboard.MonthlyTrend
		return t, s.Scan(&t.Month, &t.Donations, &t.Transplants)
	}); err != nil {
		return dashboard.AdminData{}, err
	}

	if out.Distribution, err = queryRows(ctx, c.db, `
		select name, value, color from organ_distribution order by position
	`, func(s scanner) (dashboard.OrganDistribution, error) {
		var d dashboard.OrganDistribution
		return d, s.Scan(&d.Name, &d.Value, &d.Color)
	}); err != nil {
		return dashboard.AdminData{}, err
	}

	if out.Users, err = queryRows(ctx, c.db, `
		select id, name, kind, status, to_char(registered_on, 'YYYY-MM-DD')
		from platform_users
		order by id
	`, func(s scanner) (dashboard.UserRecord, error) {
		var u dashboard.UserRecord
		return u, s.Scan(&u.ID, &u.Name, &u.Type, &u.Status, &u.Registered)
	}); err != nil {
		return dashboard.AdminData{}, err
	}

	if out.Alerts, err = queryRows(ctx, c.db, `
		select id, level, message, age_label from system_alerts order by id
	`, func(s scanner) (dashboard.AlertRecord, error) {
		var a dashboard.AlertRecord
		return a, s.Scan(&a.ID, &a.Level, &a.Message, &a.Time)
	}); err != nil {
		return dashboard.AdminData{}, err
	}

	if out.Security, err = queryRows(ctx, c.db, `
		select name, state from security_controls order by position
	`, func(s scanner) (dashboard.SecurityControl, error) {
		var sc dashboard.SecurityControl
		return sc, s.Scan(&sc.Name, &sc.State)
	}); err != nil {
		return dashboard.AdminData{}, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func queryRows[T any](ctx context.Context, db *sql.DB, query string, scan func(scanner) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
