package dataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/barhop/internal/domain/model"
	"github.com/okian/barhop/internal/domain/tags"
	"github.com/okian/barhop/pkg/logger"
)

// Querier is the subset of *pgxpool.Pool the source needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Connect opens a pool and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %w", ErrUnavailable, err)
	}
	return pool, nil
}

// PostgresSource reads venues from a table shaped like:
//
//	id text, name text, lat double precision, lng double precision,
//	price_level int NULL, rating double precision NULL, rating_count int NULL,
//	bar_style text NULL, music_type text NULL, vicinity text NULL,
//	price_label text NULL, phone text NULL, top_drinks text NULL
//
// Tag columns hold comma-joined text. Rows with a NULL id, name or coordinate
// are rejected and counted.
type PostgresSource struct {
	db    Querier
	table string
	opts  options
}

// NewPostgresSource creates a source reading table through db.
func NewPostgresSource(db Querier, table string, opts ...Option) *PostgresSource {
	return &PostgresSource{db: db, table: table, opts: buildOptions(opts)}
}

func (s *PostgresSource) query() string {
	return `
		SELECT
		  id, name, lat, lng,
		  price_level, rating, rating_count,
		  bar_style, music_type,
		  vicinity, price_label, phone, top_drinks
		FROM ` + pgx.Identifier(strings.Split(s.table, ".")).Sanitize() + `
		ORDER BY id`
}

// Load runs the query and normalizes each row.
func (s *PostgresSource) Load(ctx context.Context) (Result, error) {
	rows, err := s.db.Query(ctx, s.query())
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	res := Result{Venues: []model.Venue{}}
	seen := map[string]struct{}{}
	for rows.Next() {
		var (
			id, name, style, music      *string
			vicinity, label, phone, top *string
			lat, lng, rating            *float64
			priceLevel, ratingCount     *int32
		)
		if err := rows.Scan(
			&id, &name, &lat, &lng,
			&priceLevel, &rating, &ratingCount,
			&style, &music,
			&vicinity, &label, &phone, &top,
		); err != nil {
			return Result{}, fmt.Errorf("%w: scan: %w", ErrUnavailable, err)
		}

		if reason := missingColumn(id, name, lat, lng); reason != "" {
			res.Rejected++
			s.opts.logger.Warn(ctx, "rejecting venue row", logger.String("id", deref(id)), logger.String("reason", reason))
			continue
		}

		v, err := model.Normalize(model.VenueRecord{
			ID:          *id,
			Name:        *name,
			Location:    model.Coordinate{Lat: *lat, Lng: *lng},
			PriceTier:   widen(priceLevel),
			Rating:      rating,
			RatingCount: widen(ratingCount),
			Styles:      tags.Parse(deref(style)),
			Music:       tags.ParseMusic(deref(music)),
			Address:     text(deref(vicinity)),
			PriceLabel:  text(deref(label)),
			Phone:       text(deref(phone)),
			TopDrinks:   tags.Parse(deref(top)),
		})
		if err != nil {
			res.Rejected++
			s.opts.logger.Warn(ctx, "rejecting venue row", logger.String("id", *id), logger.Error(err))
			continue
		}
		if _, dup := seen[v.ID]; dup {
			res.Rejected++
			s.opts.logger.Warn(ctx, "rejecting duplicate venue", logger.String("id", v.ID))
			continue
		}
		seen[v.ID] = struct{}{}
		res.Venues = append(res.Venues, v)
	}
	if err := rows.Err(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return res, nil
}

// missingColumn names the first required column that is NULL, or "".
func missingColumn(id, name *string, lat, lng *float64) string {
	switch {
	case id == nil:
		return "missing id"
	case name == nil:
		return "missing name"
	case lat == nil || lng == nil:
		return "missing coordinate"
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func widen(v *int32) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}
