package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/mindthegap/internal/adapters/render"
	service "github.com/okian/mindthegap/internal/app"
	"github.com/okian/mindthegap/internal/domain/chart"
	"github.com/okian/mindthegap/internal/domain/model"
	"github.com/okian/mindthegap/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func scenario() *model.Dataset {
	return model.NewDataset([]model.MedalRecord{
		{Year: 1900, Country: "FRA", Athlete: "A1", Sport: "Tennis", Gender: model.Men, Medal: "Gold"},
		{Year: 1900, Country: "FRA", Athlete: "A2", Sport: "Tennis", Gender: model.Women, Medal: "Gold"},
		{Year: 2012, Country: "USA", Athlete: "A3", Sport: "Boxing", Gender: model.Men, Medal: "Silver"},
	})
}

type failingLoader struct{ err error }

func (f failingLoader) Load(context.Context, string) (*model.Dataset, error) {
	return nil, f.err
}

func startedService(opts ...service.Option) *service.Service {
	svc := service.New(append([]service.Option{service.WithDataset(scenario())}, opts...)...)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	So(svc.Start(ctx), ShouldBeNil)
	return svc
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service with a preloaded dataset", t, func() {
		svc := service.New(service.WithDataset(scenario()))
		defer svc.Stop()

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then it should start and report the dataset", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["rows"], ShouldEqual, 3)
				So(stats["yearMin"], ShouldEqual, 1900)
				So(stats["yearMax"], ShouldEqual, 2012)
			})

			Convey("And starting again is a no-op", func() {
				So(svc.Start(context.Background()), ShouldBeNil)
			})
		})
	})

	Convey("Given a dataset file on disk", t, func() {
		path := filepath.Join(t.TempDir(), "medals.csv")
		csv := "Year,Country_Name,Athlete,Sport,Gender,Medal\n1900,FRA,A1,Tennis,Men,Gold\n"
		So(os.WriteFile(path, []byte(csv), 0o600), ShouldBeNil)

		svc := service.New(service.WithDatasetSource(path))
		defer svc.Stop()

		Convey("Then Start loads it with the default loader", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.GetStats()["rows"], ShouldEqual, 1)
		})
	})

	Convey("Given a loader that fails", t, func() {
		boom := errors.New("boom")
		svc := service.New(service.WithLoader(failingLoader{err: boom}))

		Convey("Then Start returns the cause and the service stays stopped", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, boom), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})
}

func TestService_NotStarted(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New(service.WithDataset(scenario()))
		ctx := context.Background()

		Convey("Then every query fails with ErrNotStarted", func() {
			_, err := svc.Bundle(ctx, model.NewFilterState(1896, 2014, nil))
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.Filters(ctx)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.Normalize(model.FilterState{})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})

	Convey("Given a service that was stopped", t, func() {
		svc := startedService()
		svc.Stop()

		Convey("Then it reports stopped", func() {
			So(svc.GetStats()["started"], ShouldEqual, false)
			_, err := svc.Figure(context.Background(), model.FilterState{}, chart.IDGender)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func TestService_Filters(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService()
		defer svc.Stop()

		Convey("Then the filter options describe the dataset", func() {
			opts, err := svc.Filters(context.Background())
			So(err, ShouldBeNil)
			So(opts.Years, ShouldResemble, []int{1900, 2012})
			So(opts.YearMin, ShouldEqual, 1900)
			So(opts.YearMax, ShouldEqual, 2012)
			So(opts.Countries, ShouldResemble, []model.CountryOption{
				{Label: "FRA", Value: "FRA"},
				{Label: "USA", Value: "USA"},
			})
		})
	})
}

func TestService_Bundle(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(service.WithCacheSize(8))
		defer svc.Stop()
		ctx := context.Background()

		Convey("When asking for a range wider than the dataset", func() {
			b, err := svc.Bundle(ctx, model.NewFilterState(1800, 2100, nil))

			Convey("Then the years are clamped to the domain", func() {
				So(err, ShouldBeNil)
				So(b.Filter.YearMin, ShouldEqual, 1900)
				So(b.Filter.YearMax, ShouldEqual, 2012)
				So(b.Gender.Data[0].Values, ShouldResemble, []int{2, 1})
			})
		})

		Convey("When asking twice for the same filters", func() {
			fs := model.NewFilterState(1900, 2012, []string{"FRA"})
			first, err := svc.Bundle(ctx, fs)
			So(err, ShouldBeNil)
			second, err := svc.Bundle(ctx, fs)
			So(err, ShouldBeNil)

			Convey("Then the responses are byte-identical and cached", func() {
				a, _ := json.Marshal(first)
				b, _ := json.Marshal(second)
				So(string(b), ShouldEqual, string(a))
				So(svc.GetStats()["cacheEntries"], ShouldEqual, int64(1))
			})
		})

		Convey("When the filters match nothing", func() {
			b, err := svc.Bundle(ctx, model.NewFilterState(1950, 1960, nil))

			Convey("Then a placeholder bundle is returned without error", func() {
				So(err, ShouldBeNil)
				So(b.Empty, ShouldBeTrue)
				So(b.Gender.Empty, ShouldBeTrue)
			})
		})

		Convey("When the range lies entirely outside the dataset", func() {
			later, err := svc.Bundle(ctx, model.NewFilterState(2013, 2020, nil))
			So(err, ShouldBeNil)
			earlier, err := svc.Bundle(ctx, model.NewFilterState(1800, 1850, nil))
			So(err, ShouldBeNil)

			Convey("Then nothing matches and the requested years are kept", func() {
				So(later.Empty, ShouldBeTrue)
				So(later.Gender.Empty, ShouldBeTrue)
				So(later.Filter.YearMin, ShouldEqual, 2013)
				So(later.Filter.YearMax, ShouldEqual, 2020)
				So(earlier.Empty, ShouldBeTrue)
				So(earlier.Filter.YearMin, ShouldEqual, 1800)
				So(earlier.Filter.YearMax, ShouldEqual, 1850)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := svc.Bundle(cctx, model.NewFilterState(1900, 2012, nil))
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestService_FigureAndRender(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(service.WithRenderer(render.NewRenderer(render.WithSize(400, 300))))
		defer svc.Stop()
		ctx := context.Background()
		fs := model.NewFilterState(1900, 2012, nil)

		Convey("Then known figures are returned by ID", func() {
			f, err := svc.Figure(ctx, fs, chart.IDGenderYear)
			So(err, ShouldBeNil)
			So(f.ID, ShouldEqual, chart.IDGenderYear)
		})

		Convey("Then unknown figures fail with ErrUnknownFigure", func() {
			_, err := svc.Figure(ctx, fs, "radar")
			So(errors.Is(err, service.ErrUnknownFigure), ShouldBeTrue)
		})

		Convey("Then pie figures render as PNG", func() {
			var buf bytes.Buffer
			So(svc.Render(ctx, fs, chart.IDGender, render.PNG, &buf), ShouldBeNil)
			So(bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")), ShouldBeTrue)
		})

		Convey("Then the heatmap cannot be rendered", func() {
			var buf bytes.Buffer
			err := svc.Render(ctx, fs, chart.IDParticipation, render.SVG, &buf)
			So(errors.Is(err, render.ErrUnsupportedFigure), ShouldBeTrue)
		})
	})
}

func TestService_Warmup(t *testing.T) {
	Convey("Given a service started with warm-up workers", t, func() {
		svc := startedService(service.WithWarmup(2))
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When the warm-up drains", func() {
			So(svc.WaitWarmup(ctx), ShouldBeNil)
			stats := svc.GetStats()

			Convey("Then the full range and every country are cached", func() {
				So(stats["warmed"], ShouldEqual, int64(3))
				So(stats["warmupFailed"], ShouldEqual, int64(0))
				So(stats["cacheEntries"], ShouldEqual, int64(3))
				So(stats["warmupWorkers"], ShouldEqual, 2)
			})
		})
	})

	Convey("Given a warm-up bounded by a small cache", t, func() {
		svc := startedService(service.WithWarmup(1), service.WithCacheSize(2))
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("Then no more bundles are queued than the cache holds", func() {
			So(svc.WaitWarmup(ctx), ShouldBeNil)
			So(svc.GetStats()["warmed"], ShouldEqual, int64(2))
		})
	})

	Convey("Given a service without warm-up", t, func() {
		svc := startedService()
		defer svc.Stop()

		Convey("Then WaitWarmup returns at once and nothing is cached", func() {
			So(svc.WaitWarmup(context.Background()), ShouldBeNil)
			So(svc.GetStats()["cacheEntries"], ShouldEqual, int64(0))
		})
	})

	Convey("Given a warming service that is stopped", t, func() {
		svc := startedService(service.WithWarmup(4))
		svc.Stop()

		Convey("Then it stops cleanly and can start again", func() {
			So(svc.GetStats()["started"], ShouldEqual, false)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.WaitWarmup(ctx), ShouldBeNil)
			svc.Stop()
		})
	})
}
