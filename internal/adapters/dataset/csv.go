package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/barhop/internal/domain/model"
	"github.com/okian/barhop/internal/domain/tags"
	"github.com/okian/barhop/pkg/logger"
)

// CSV column names.
const (
	ColName        = "final_name"
	ColLat         = "geometry_location_lat"
	ColLng         = "geometry_location_lng"
	ColPriceLevel  = "price_level"
	ColRating      = "rating"
	ColRatingCount = "user_ratings_total"
	ColStyle       = "bar_style"
	ColMusic       = "music_type"
	ColVicinity    = "vicinity"
	ColPriceLabel  = "price_level_monetary"
	ColTopDrinks   = "top_3_selection"
	ColPhone       = "formatted_phone_number"
	ColPlaceID     = "place_id"
)

var requiredColumns = []string{ColName, ColLat, ColLng}

// Option configures a source.
type Option func(*options)

type options struct {
	logger logger.Logger
}

// WithLogger sets the logger used to report rejected rows.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CSVSource reads venues from a CSV file on every Load.
type CSVSource struct {
	path string
	opts options
}

// NewCSVSource creates a source for the file at path.
func NewCSVSource(path string, opts ...Option) *CSVSource {
	return &CSVSource{path: path, opts: buildOptions(opts)}
}

// Load opens and decodes the file.
func (s *CSVSource) Load(ctx context.Context) (Result, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = f.Close() }()

	return decodeCSV(ctx, f, s.opts.logger)
}

// DecodeCSV reads a venue table from r.
func DecodeCSV(ctx context.Context, r io.Reader, opts ...Option) (Result, error) {
	return decodeCSV(ctx, r, buildOptions(opts).logger)
}

func decodeCSV(ctx context.Context, r io.Reader, log logger.Logger) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Result{Venues: []model.Venue{}}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("%w: header: %w", ErrUnavailable, err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		// Spreadsheet exports often carry a BOM on the first header.
		cols[strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	res := Result{Venues: []model.Venue{}}
	seen := map[string]struct{}{}
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return Result{}, fmt.Errorf("%w: line %d: %w", ErrUnavailable, line, err)
		}

		cell := func(name string) string {
			if i, ok := cols[name]; ok && i < len(row) {
				return row[i]
			}
			return ""
		}

		v, err := normalizeRow(cell)
		if err != nil {
			res.Rejected++
			log.Warn(ctx, "rejecting venue row", logger.Int("line", line), logger.Error(err))
			continue
		}
		if _, dup := seen[v.ID]; dup {
			res.Rejected++
			log.Warn(ctx, "rejecting duplicate venue", logger.Int("line", line), logger.String("id", v.ID))
			continue
		}
		seen[v.ID] = struct{}{}
		res.Venues = append(res.Venues, v)
	}

	return res, nil
}

// normalizeRow maps one row, looked up by column name, to a Venue.
func normalizeRow(cell func(string) string) (model.Venue, error) {
	lat, lng := optionalFloat(cell(ColLat)), optionalFloat(cell(ColLng))
	if lat == nil || lng == nil {
		return model.Venue{}, fmt.Errorf("missing coordinate: %w", model.ErrInvalidInput)
	}

	rec := model.VenueRecord{
		ID:          text(cell(ColPlaceID)),
		Name:        text(cell(ColName)),
		Location:    model.Coordinate{Lat: *lat, Lng: *lng},
		PriceTier:   optionalInt(cell(ColPriceLevel)),
		Rating:      optionalFloat(cell(ColRating)),
		RatingCount: optionalInt(cell(ColRatingCount)),
		Styles:      tags.Parse(cell(ColStyle)),
		Music:       tags.ParseMusic(cell(ColMusic)),
		Address:     text(cell(ColVicinity)),
		PriceLabel:  text(cell(ColPriceLabel)),
		Phone:       text(cell(ColPhone)),
		TopDrinks:   tags.Parse(cell(ColTopDrinks)),
	}
	if rec.ID == "" && rec.Name != "" {
		rec.ID = VenueID(strings.TrimSpace(rec.Name), rec.Location)
	}
	return model.Normalize(rec)
}
