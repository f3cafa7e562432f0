package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/okian/barhop/internal/adapters/dataset"
	"github.com/okian/barhop/internal/adapters/http/api"
	"github.com/okian/barhop/internal/adapters/repository"
	service "github.com/okian/barhop/internal/app"
	"github.com/okian/barhop/internal/domain/model"
	"github.com/okian/barhop/internal/domain/recommend"
	"github.com/okian/barhop/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDeps records the last call and returns canned values.
type mockDeps struct {
	itinerary    model.Itinerary
	recommendErr error
	lastPrefs    model.Preferences
	lastParams   service.RecommendParams

	venues     []model.Venue
	lastFilter repository.Filter
	venuesErr  error

	overview  dataset.Overview
	reloadErr error
	reloads   int
}

func (m *mockDeps) Recommend(_ context.Context, prefs model.Preferences, p service.RecommendParams) (model.Itinerary, error) {
	m.lastPrefs, m.lastParams = prefs, p
	if m.recommendErr != nil {
		return model.Itinerary{}, m.recommendErr
	}
	it := m.itinerary
	it.Preferences = prefs
	return it, nil
}

func (m *mockDeps) Explain(model.Venue, model.Preferences) scoring.Breakdown {
	return scoring.Breakdown{Style: 0.25, Rating: 0.1}
}

func (m *mockDeps) DefaultPricePoint() int { return 500 }

func (m *mockDeps) Venues(_ context.Context, f repository.Filter) ([]model.Venue, error) {
	m.lastFilter = f
	if m.venuesErr != nil {
		return nil, m.venuesErr
	}
	return m.venues, nil
}

func (m *mockDeps) Venue(_ context.Context, id string) (model.Venue, error) {
	for _, v := range m.venues {
		if v.ID == id {
			return v, nil
		}
	}
	return model.Venue{}, repository.ErrNotFound
}

func (m *mockDeps) Overview(context.Context) (dataset.Overview, error) { return m.overview, nil }

func (m *mockDeps) Reload(context.Context) (dataset.Result, error) {
	m.reloads++
	if m.reloadErr != nil {
		return dataset.Result{}, m.reloadErr
	}
	return dataset.Result{Venues: m.venues, Rejected: 2}, nil
}

func (m *mockDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "venues": len(m.venues)}
}

func sampleVenues() []model.Venue {
	return []model.Venue{
		{ID: "a", Name: "Alpha", Location: model.Coordinate{Lat: 25.04, Lng: 121.53}, PriceTier: 1, Rating: 4.5, Styles: model.TagSet{"餐酒館"}},
		{ID: "b", Name: "Beta", Location: model.Coordinate{Lat: 25.05, Lng: 121.53}, PriceTier: 2, Rating: 4.0, Styles: model.TagSet{"立飲酒吧"}},
	}
}

func newDeps() *mockDeps {
	vs := sampleVenues()
	return &mockDeps{
		venues: vs,
		itinerary: model.Itinerary{
			ID:                  "it-1",
			Stops:               []model.ScoredVenue{{Venue: vs[0], Score: 0.8}, {Venue: vs[1], Score: 0.6}},
			Legs:                []model.Leg{{FromID: "a", ToID: "b", DistanceMeters: 1112, WalkingMinutes: 15}},
			TotalDistanceMeters: 1112,
			TotalWalkingMinutes: 15,
			OutingMinutes:       105,
		},
		overview: dataset.Overview{Venues: 2, MeanRating: 4.25, DistinctStyles: 2, MeanPrice: 600},
	}
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Fields  []struct {
		Field string `json:"field"`
		Tag   string `json:"tag"`
	} `json:"fields"`
}

func decodeError(w *httptest.ResponseRecorder) errorBody {
	var e errorBody
	_ = json.Unmarshal(w.Body.Bytes(), &e)
	return e
}

func TestRecommendations(t *testing.T) {
	Convey("Given an API router", t, func() {
		deps := newDeps()
		h := api.NewServer(deps).Router()

		Convey("When a valid request is posted", func() {
			w := do(h, http.MethodPost, "/recommendations",
				`{"price_point":800,"styles":["餐酒館"],"music":["ＥＤＭ"],"time_start":"19:00","time_end":"23:30","count":2}`)

			Convey("Then the itinerary is returned with markers", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					ID    string `json:"id"`
					Stops []struct {
						Order     int             `json:"order"`
						Marker    map[string]any  `json:"marker"`
						Breakdown json.RawMessage `json:"breakdown"`
					} `json:"stops"`
					Legs              []model.Leg      `json:"legs"`
					OutingMinutes     int              `json:"outing_min"`
					StyleDistribution []map[string]any `json:"style_distribution"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.ID, ShouldEqual, "it-1")
				So(resp.Stops, ShouldHaveLength, 2)
				So(resp.Stops[0].Order, ShouldEqual, 1)
				So(resp.Stops[1].Order, ShouldEqual, 2)
				So(resp.Stops[0].Marker["color"], ShouldEqual, "#2ed573")
				So(resp.Stops[0].Breakdown, ShouldBeEmpty)
				So(resp.Legs, ShouldHaveLength, 1)
				So(resp.OutingMinutes, ShouldEqual, 105)
				So(resp.StyleDistribution, ShouldHaveLength, 2)
			})

			Convey("Then preferences and overrides reach the service", func() {
				So(deps.lastPrefs.PricePoint, ShouldEqual, 800)
				So(deps.lastPrefs.Styles, ShouldResemble, model.TagSet{"餐酒館"})
				So(deps.lastPrefs.Music, ShouldResemble, model.TagSet{"EDM"})
				So(deps.lastPrefs.TimeWindow.Start, ShouldEqual, "19:00")
				So(*deps.lastParams.Count, ShouldEqual, 2)
				So(deps.lastParams.MinSeparationM, ShouldBeNil)
			})
		})

		Convey("When the budget is omitted", func() {
			w := do(h, http.MethodPost, "/recommendations", `{"styles":[]}`)

			Convey("Then the default price point is used", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastPrefs.PricePoint, ShouldEqual, 500)
			})
		})

		Convey("When the budget is explicitly zero", func() {
			w := do(h, http.MethodPost, "/recommendations", `{"price_point":0}`)

			Convey("Then price is left out", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastPrefs.PricePoint, ShouldEqual, 0)
			})
		})

		Convey("When explain is set", func() {
			w := do(h, http.MethodPost, "/recommendations", `{"explain":true}`)

			Convey("Then every stop carries a breakdown", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"breakdown":{"price":0,"style":0.25`)
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(h, http.MethodPost, "/recommendations", `{`)

			Convey("Then 400 bad_request is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w).Code, ShouldEqual, "bad_request")
			})
		})

		Convey("When fields fail validation", func() {
			w := do(h, http.MethodPost, "/recommendations", `{"time_start":"7pm","count":0,"walking_speed_kmh":-1}`)

			Convey("Then every failing field is reported", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				e := decodeError(w)
				So(e.Code, ShouldEqual, "validation_error")
				fields := make([]string, len(e.Fields))
				for i, f := range e.Fields {
					fields[i] = f.Field
				}
				So(fields, ShouldContain, "time_start")
				So(fields, ShouldContain, "count")
				So(fields, ShouldContain, "walking_speed_kmh")
			})
		})

		Convey("When the engine rejects the request", func() {
			deps.recommendErr = recommend.ErrInvalidInput

			Convey("Then 400 is returned", func() {
				w := do(h, http.MethodPost, "/recommendations", `{"count":99}`)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the service is not started", func() {
			deps.recommendErr = service.ErrNotStarted

			Convey("Then 503 is returned", func() {
				w := do(h, http.MethodPost, "/recommendations", `{}`)
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(decodeError(w).Code, ShouldEqual, "unavailable")
			})
		})

		Convey("When the service fails unexpectedly", func() {
			deps.recommendErr = errors.New("boom")

			Convey("Then 500 is returned", func() {
				w := do(h, http.MethodPost, "/recommendations", `{}`)
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestRateLimit(t *testing.T) {
	Convey("Given a router limited to two recommendations per minute", t, func() {
		h := api.NewServer(newDeps(), api.WithRateLimit(2, time.Minute)).Router()

		Convey("When a client posts three times", func() {
			codes := make([]int, 3)
			for i := range codes {
				codes[i] = do(h, http.MethodPost, "/recommendations", `{}`).Code
			}

			Convey("Then the third is rejected", func() {
				So(codes, ShouldResemble, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests})
			})
		})
	})
}

func TestVenues(t *testing.T) {
	Convey("Given an API router", t, func() {
		deps := newDeps()
		h := api.NewServer(deps).Router()

		Convey("When venues are listed with filters", func() {
			w := do(h, http.MethodGet, "/venues?style=%E9%A4%90%E9%85%92%E9%A4%A8&music=lofi&limit=5", "")

			Convey("Then the filter reaches the store", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastFilter, ShouldResemble, repository.Filter{Style: "餐酒館", Music: "Lo-fi", Limit: 5})
				So(w.Body.String(), ShouldContainSubstring, `"count":2`)
			})
		})

		Convey("When the limit is not a number", func() {
			w := do(h, http.MethodGet, "/venues?limit=ten", "")

			Convey("Then 400 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the store rejects the limit", func() {
			deps.venuesErr = repository.ErrInvalidLimit
			w := do(h, http.MethodGet, "/venues?limit=-1", "")

			Convey("Then 400 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When one venue is requested", func() {
			w := do(h, http.MethodGet, "/venues/b", "")

			Convey("Then it is returned with its marker", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var v map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
				So(v["name"], ShouldEqual, "Beta")
				So(v["marker"].(map[string]any)["icon"], ShouldEqual, "glass")
			})
		})

		Convey("When an unknown venue is requested", func() {
			w := do(h, http.MethodGet, "/venues/zzz", "")

			Convey("Then 404 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w).Code, ShouldEqual, "not_found")
			})
		})
	})
}

func TestReadEndpoints(t *testing.T) {
	Convey("Given an API router", t, func() {
		deps := newDeps()
		h := api.NewServer(deps).Router()

		Convey("Then /overview summarizes the table", func() {
			w := do(h, http.MethodGet, "/overview", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var o dataset.Overview
			So(json.Unmarshal(w.Body.Bytes(), &o), ShouldBeNil)
			So(o, ShouldResemble, deps.overview)
		})

		Convey("Then /styles lists the palette", func() {
			w := do(h, http.MethodGet, "/styles", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var markers []map[string]string
			So(json.Unmarshal(w.Body.Bytes(), &markers), ShouldBeNil)
			So(markers, ShouldHaveLength, 9)
			So(markers[len(markers)-1]["style"], ShouldEqual, "其他")
		})

		Convey("Then /stats exposes service stats", func() {
			w := do(h, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
		})

		Convey("Then /healthz reports ok", func() {
			w := do(h, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("Then /metrics serves Prometheus text", func() {
			_ = do(h, http.MethodGet, "/healthz", "")
			w := do(h, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "barhop_recommender_http_requests_total")
		})

		Convey("Then /api-docs is mounted", func() {
			So(do(h, http.MethodGet, "/api-docs", "").Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestReload(t *testing.T) {
	Convey("Given an API router", t, func() {
		deps := newDeps()
		h := api.NewServer(deps).Router()

		Convey("When a reload succeeds", func() {
			w := do(h, http.MethodPost, "/admin/reload", "")

			Convey("Then the new sizes are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"rejected":2`)
			})
		})

		Convey("When the dataset is unavailable", func() {
			deps.reloadErr = dataset.ErrUnavailable
			w := do(h, http.MethodPost, "/admin/reload", "")

			Convey("Then 503 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})

		Convey("When a client reloads more often than the reload limit allows", func() {
			limited := api.NewServer(deps, api.WithReloadLimit(2)).Router()
			codes := make([]int, 3)
			for i := range codes {
				codes[i] = do(limited, http.MethodPost, "/admin/reload", "").Code
			}

			Convey("Then the third is rejected without reaching the service", func() {
				So(codes, ShouldResemble, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests})
				So(deps.reloads, ShouldEqual, 2)
			})
		})

		Convey("When the wrong method is used", func() {
			w := do(h, http.MethodGet, "/admin/reload", "")

			Convey("Then chi rejects it", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})
}

func TestCORS(t *testing.T) {
	Convey("Given a router allowing one origin", t, func() {
		h := api.NewServer(newDeps(), api.WithAllowedOrigins([]string{"https://map.example"})).Router()

		Convey("When a preflight arrives from that origin", func() {
			req := httptest.NewRequest(http.MethodOptions, "/recommendations", http.NoBody)
			req.Header.Set("Origin", "https://map.example")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then the origin is allowed", func() {
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "https://map.example")
			})
		})
	})
}
