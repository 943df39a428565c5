// Package dataset reads the Olympic medal CSV into a model.Dataset.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/okian/mindthegap/internal/domain/model"
	"github.com/okian/mindthegap/pkg/logger"
)

// Column names required in the header row.
const (
	ColYear    = "Year"
	ColCountry = "Country_Name"
	ColAthlete = "Athlete"
	ColSport   = "Sport"
	ColGender  = "Gender"
	ColMedal   = "Medal"
)

// RequiredColumns lists the header names Parse looks up.
var RequiredColumns = []string{ColYear, ColCountry, ColAthlete, ColSport, ColGender, ColMedal}

const (
	defaultTimeout = 15 * time.Second
	utf8BOM        = "\ufeff"
)

// Loader reads the dataset from a file path or an http(s) URL.
type Loader struct {
	client  *http.Client
	timeout time.Duration
	log     logger.Logger
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client:  http.DefaultClient,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logger.Get()
	}
	return l
}

// IsRemote reports whether source is fetched over HTTP.
func IsRemote(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Load reads and parses source.
func (l *Loader) Load(ctx context.Context, source string) (*model.Dataset, error) {
	start := time.Now()

	var (
		ds  *model.Dataset
		err error
	)
	if IsRemote(source) {
		ds, err = l.fetch(ctx, source)
	} else {
		ds, err = l.open(source)
	}
	if err != nil {
		l.log.Error(ctx, "dataset load failed", logger.String("source", source), logger.Error(err))
		return nil, err
	}

	l.log.Info(ctx, "dataset loaded",
		logger.String("source", source),
		logger.Int("rows", ds.Len()),
		logger.Int("years", len(ds.Years())),
		logger.Int("countries", len(ds.Countries())),
		logger.Duration("took", time.Since(start)),
	)
	return ds, nil
}

func (l *Loader) open(path string) (*model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

func (l *Loader) fetch(ctx context.Context, url string) (*model.Dataset, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}
	return Parse(resp.Body)
}

// Parse reads a CSV with a header row. Extra columns are ignored; a missing
// required column or an unparsable Year or Gender fails the whole load.
func Parse(r io.Reader) (*model.Dataset, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformedRow, err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []model.MedalRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
		}
		line, _ := reader.FieldPos(0)

		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	return model.NewDataset(records), nil
}

type columns struct {
	year, country, athlete, sport, gender, medal int
}

func columnIndex(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		pos[strings.TrimSpace(h)] = i
	}

	var missing []string
	lookup := func(name string) int {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
		}
		return i
	}
	c := columns{
		year:    lookup(ColYear),
		country: lookup(ColCountry),
		athlete: lookup(ColAthlete),
		sport:   lookup(ColSport),
		gender:  lookup(ColGender),
		medal:   lookup(ColMedal),
	}
	if len(missing) > 0 {
		return columns{}, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return c, nil
}

func parseRow(row []string, c columns) (model.MedalRecord, error) {
	year, err := strconv.Atoi(strings.TrimSpace(row[c.year]))
	if err != nil {
		return model.MedalRecord{}, fmt.Errorf("year %q: %w", row[c.year], err)
	}
	gender, err := model.ParseGender(row[c.gender])
	if err != nil {
		return model.MedalRecord{}, err
	}
	return model.MedalRecord{
		Year:    year,
		Country: strings.TrimSpace(row[c.country]),
		Athlete: strings.TrimSpace(row[c.athlete]),
		Sport:   strings.TrimSpace(row[c.sport]),
		Gender:  gender,
		Medal:   strings.TrimSpace(row[c.medal]),
	}, nil
}
