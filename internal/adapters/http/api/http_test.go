package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/mindthegap/internal/adapters/http/api"
	service "github.com/okian/mindthegap/internal/app"
	"github.com/okian/mindthegap/internal/domain/chart"
	"github.com/okian/mindthegap/internal/domain/model"
	"github.com/okian/mindthegap/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
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

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// newHandler returns the full API handler over a started service.
func newHandler() http.Handler {
	svc := service.New(service.WithDataset(scenario()))
	So(svc.Start(context.Background()), ShouldBeNil)

	server := api.NewServer(svc, svc)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return server.Handler(mux)
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) errorBody {
	var body errorBody
	So(json.NewDecoder(w.Body).Decode(&body), ShouldBeNil)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		h := newHandler()

		Convey("Then the health endpoint exposes Prometheus metrics", func() {
			get(h, "/stats")
			w := get(h, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "mindthegap_dashboard_http_requests_total")
		})

		Convey("Then the stats endpoint reports the dataset", func() {
			w := get(h, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)

			var stats map[string]any
			So(json.NewDecoder(w.Body).Decode(&stats), ShouldBeNil)
			So(stats["started"], ShouldEqual, true)
			So(stats["rows"], ShouldEqual, float64(3))
			So(stats, ShouldContainKey, "uptimeSeconds")
			So(w.Header().Get("Cache-Control"), ShouldEqual, "no-store")
		})

		Convey("Then non-GET requests are not routed", func() {
			req := httptest.NewRequest(http.MethodPost, "/stats", strings.NewReader("{}"))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then the filters endpoint lists countries and years", func() {
			w := get(h, "/api/v1/filters")
			So(w.Code, ShouldEqual, http.StatusOK)

			var opts service.FilterOptions
			So(json.NewDecoder(w.Body).Decode(&opts), ShouldBeNil)
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

func TestChartsHandler(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		h := newHandler()

		Convey("When the bundle is requested without filters", func() {
			w := get(h, "/api/v1/charts")
			So(w.Code, ShouldEqual, http.StatusOK)

			var b chart.Bundle
			So(json.NewDecoder(w.Body).Decode(&b), ShouldBeNil)

			Convey("Then the filter defaults to the full year range", func() {
				So(b.Filter.YearMin, ShouldEqual, 1900)
				So(b.Filter.YearMax, ShouldEqual, 2012)
				So(b.Empty, ShouldBeFalse)
				So(b.Gender.Data[0].Values, ShouldResemble, []int{2, 1})
			})
		})

		Convey("When countries are passed in both forms", func() {
			w := get(h, "/api/v1/charts?country=USA&countries=FRA,USA&year_min=1800&year_max=3000")
			So(w.Code, ShouldEqual, http.StatusOK)

			var b chart.Bundle
			So(json.NewDecoder(w.Body).Decode(&b), ShouldBeNil)

			Convey("Then they are merged and the years are clamped", func() {
				So(b.Filter.Countries, ShouldResemble, []string{"FRA", "USA"})
				So(b.Filter.YearMin, ShouldEqual, 1900)
				So(b.Filter.YearMax, ShouldEqual, 2012)
			})
		})

		Convey("When no row matches", func() {
			w := get(h, "/api/v1/charts?year_min=2000&year_max=2010")
			So(w.Code, ShouldEqual, http.StatusOK)

			var b chart.Bundle
			So(json.NewDecoder(w.Body).Decode(&b), ShouldBeNil)

			Convey("Then the bundle carries placeholders", func() {
				So(b.Empty, ShouldBeTrue)
				So(b.Gender.Empty, ShouldBeTrue)
				So(b.Gender.Layout.Annotations[0].Text, ShouldEqual, chart.NoDataText)
			})
		})

		Convey("When a year is not an integer", func() {
			w := get(h, "/api/v1/charts?year_min=abc")

			Convey("Then the request is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w).Code, ShouldEqual, "bad_request")
			})
		})

		Convey("When one figure is requested", func() {
			w := get(h, "/api/v1/charts/gender_year?country=FRA")
			So(w.Code, ShouldEqual, http.StatusOK)

			var fig chart.Figure
			So(json.NewDecoder(w.Body).Decode(&fig), ShouldBeNil)

			Convey("Then only that figure is returned", func() {
				So(fig.ID, ShouldEqual, chart.IDGenderYear)
				So(len(fig.Data), ShouldEqual, 2)
			})
		})

		Convey("When an unknown figure is requested", func() {
			w := get(h, "/api/v1/charts/nope")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decodeError(w).Code, ShouldEqual, "not_found")
		})

		Convey("When a figure id is missing", func() {
			w := get(h, "/api/v1/charts/")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestChartsHandler_Images(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		h := newHandler()

		Convey("When the pie is requested as PNG", func() {
			w := get(h, "/api/v1/charts/gender.png")

			Convey("Then a PNG is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "image/png")
				So(strings.HasPrefix(w.Body.String(), "\x89PNG"), ShouldBeTrue)
			})
		})

		Convey("When the bars are requested as SVG", func() {
			w := get(h, "/api/v1/charts/gender_year.svg")

			Convey("Then an SVG document is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "image/svg+xml")
				So(w.Body.String(), ShouldContainSubstring, "<svg")
			})
		})

		Convey("When the heatmap is requested as an image", func() {
			w := get(h, "/api/v1/charts/participation.png")
			So(w.Code, ShouldEqual, http.StatusUnsupportedMediaType)
			So(decodeError(w).Code, ShouldEqual, "unsupported")
		})

		Convey("When the format is unknown", func() {
			w := get(h, "/api/v1/charts/gender.gif")
			So(w.Code, ShouldEqual, http.StatusUnsupportedMediaType)
		})

		Convey("When the filters match nothing", func() {
			w := get(h, "/api/v1/charts/gender.png?country=GER")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decodeError(w).Code, ShouldEqual, "no_data")
		})
	})
}

func TestMiddleware(t *testing.T) {
	Convey("Given the wrapped handler", t, func() {
		h := newHandler()

		Convey("When no request ID is sent", func() {
			w := get(h, "/api/v1/filters")

			Convey("Then one is generated", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
			})
		})

		Convey("When a request ID is sent", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/filters", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it is echoed back", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
			})
		})

		Convey("When a cross-origin request arrives", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/filters", http.NoBody)
			req.Header.Set("Origin", "http://example.com")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then CORS headers are set", func() {
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
			})
		})
	})

	Convey("Given a request ID in the context", t, func() {
		var seen string
		h := api.RequestIDMiddleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = api.RequestID(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		req.Header.Set(api.RequestIDHeader, "ctx-id")
		h.ServeHTTP(httptest.NewRecorder(), req)
		So(seen, ShouldEqual, "ctx-id")
		So(api.RequestID(context.Background()), ShouldBeEmpty)
	})
}

func TestNotStarted(t *testing.T) {
	Convey("Given a server over a service that was never started", t, func() {
		svc := service.New(service.WithDataset(scenario()))
		server := api.NewServer(svc, svc)
		mux := http.NewServeMux()
		server.Register(context.Background(), mux)

		Convey("Then data endpoints report unavailable", func() {
			for _, target := range []string{"/api/v1/filters", "/api/v1/charts", "/api/v1/charts/gender"} {
				w := get(mux, target)
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(decodeError(w).Code, ShouldEqual, "unavailable")
			}
		})

		Convey("Then registering on a nil mux panics", func() {
			So(func() { server.Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}
