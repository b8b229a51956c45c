package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/skillboard/internal/adapters/http/api"
	"github.com/okian/skillboard/internal/adapters/repository"
	"github.com/okian/skillboard/internal/domain/types"
	"github.com/okian/skillboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// mockDependencies serves a real board plus canned refresh and stats results.
type mockDependencies struct {
	board      *repository.Board
	refreshErr error
	refreshes  int
	rankErr    error
	topNErr    error
	stats      map[string]interface{}
}

func (m *mockDependencies) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	if m.topNErr != nil {
		return nil, m.topNErr
	}
	return m.board.TopN(ctx, n)
}

func (m *mockDependencies) Count(ctx context.Context) int { return m.board.Count(ctx) }

func (m *mockDependencies) Rank(ctx context.Context, teamID int) (types.Entry, error) {
	if m.rankErr != nil {
		return types.Entry{}, m.rankErr
	}
	return m.board.Rank(ctx, teamID)
}

func (m *mockDependencies) Refresh() error {
	m.refreshes++
	return m.refreshErr
}

func (m *mockDependencies) GetStats() map[string]interface{} { return m.stats }

func newDeps(n int) *mockDependencies {
	b := repository.NewBoard()
	entries := make([]types.Entry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, types.Entry{
			Rank:       i + 1,
			TeamID:     100 + i,
			TeamNumber: fmt.Sprintf("%dA", 100+i),
			TotalScore: 300 - i,
		})
	}
	_ = b.Replace(context.Background(), entries)
	return &mockDependencies{board: b, stats: map[string]interface{}{"started": true}}
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	_ = json.NewDecoder(w.Body).Decode(&body)
	return body
}

func TestServer_Routes(t *testing.T) {
	Convey("Given an API server over a board of five teams", t, func() {
		deps := newDeps(5)
		h := api.NewServer(deps, api.WithMaxLimit(3), api.WithLogger(logger.Get())).Handler(context.Background())

		Convey("When requesting health", func() {
			w := serve(h, http.MethodGet, "/healthz")

			Convey("Then metrics are exposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "skillboard_collector_leaderboard_size")
			})
		})

		Convey("When requesting stats", func() {
			w := serve(h, http.MethodGet, "/stats")

			Convey("Then the provider's stats are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
				So(w.Body.String(), ShouldContainSubstring, `"started":true`)
			})
		})

		Convey("When requesting the API document", func() {
			w := serve(h, http.MethodGet, "/openapi.yaml")

			Convey("Then it is served alongside the API", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "Skillboard API")
			})
		})

		Convey("When requesting an unknown path", func() {
			w := serve(h, http.MethodGet, "/unknown")

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When using the wrong method", func() {
			w := serve(h, http.MethodPost, "/leaderboard")

			Convey("Then it is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})

		Convey("When a browser sends a CORS preflight", func() {
			req := httptest.NewRequest(http.MethodOptions, "/refresh", nil)
			req.Header.Set("Origin", "https://skills.example.org")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then any origin is allowed", func() {
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
			})
		})
	})
}

func TestLeaderboardHandler(t *testing.T) {
	Convey("Given a leaderboard capped at three rows", t, func() {
		deps := newDeps(5)
		h := api.NewServer(deps, api.WithMaxLimit(3)).Handler(context.Background())

		Convey("When a valid limit is given", func() {
			w := serve(h, http.MethodGet, "/leaderboard?limit=2")

			Convey("Then that many entries come back in rank order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var entries []types.Entry
				So(json.NewDecoder(w.Body).Decode(&entries), ShouldBeNil)
				So(len(entries), ShouldEqual, 2)
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[0].TeamNumber, ShouldEqual, "100A")
			})
		})

		Convey("When no limit is given", func() {
			w := serve(h, http.MethodGet, "/leaderboard")

			Convey("Then the board is returned up to the cap", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var entries []types.Entry
				So(json.NewDecoder(w.Body).Decode(&entries), ShouldBeNil)
				So(len(entries), ShouldEqual, 3)
			})
		})

		Convey("When the limit is not a positive number", func() {
			for _, q := range []string{"0", "-1", "abc"} {
				w := serve(h, http.MethodGet, "/leaderboard?limit="+q)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			}
		})

		Convey("When the limit exceeds the cap", func() {
			w := serve(h, http.MethodGet, "/leaderboard?limit=4")

			Convey("Then limit_exceeded is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "limit_exceeded")
			})
		})

		Convey("When the store fails", func() {
			deps.topNErr = errors.New("boom")
			w := serve(h, http.MethodGet, "/leaderboard?limit=1")

			Convey("Then an internal error is returned", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decodeError(w)["message"], ShouldContainSubstring, "api.get_leaderboard")
			})
		})
	})

	Convey("Given an empty leaderboard", t, func() {
		h := api.NewServer(newDeps(0)).Handler(context.Background())

		Convey("When no limit is given", func() {
			w := serve(h, http.MethodGet, "/leaderboard")

			Convey("Then an empty list is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
			})
		})
	})
}

func TestRankHandler(t *testing.T) {
	Convey("Given a rank endpoint", t, func() {
		deps := newDeps(3)
		h := api.NewServer(deps).Handler(context.Background())

		Convey("When the team is on the board", func() {
			w := serve(h, http.MethodGet, "/rank/101")

			Convey("Then its entry is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var e types.Entry
				So(json.NewDecoder(w.Body).Decode(&e), ShouldBeNil)
				So(e.Rank, ShouldEqual, 2)
				So(e.TeamID, ShouldEqual, 101)
			})
		})

		Convey("When the team is unknown", func() {
			w := serve(h, http.MethodGet, "/rank/999")

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When the id is not numeric", func() {
			w := serve(h, http.MethodGet, "/rank/abc")

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the store fails", func() {
			deps.rankErr = errors.New("boom")
			w := serve(h, http.MethodGet, "/rank/100")

			Convey("Then an internal error is returned", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestRefreshHandler(t *testing.T) {
	Convey("Given a refresh endpoint", t, func() {
		deps := newDeps(0)
		h := api.NewServer(deps).Handler(context.Background())

		Convey("When no collection is running", func() {
			w := serve(h, http.MethodPost, "/refresh")

			Convey("Then the refresh is accepted", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(w.Body.String(), ShouldContainSubstring, `"status":"accepted"`)
				So(deps.refreshes, ShouldEqual, 1)
			})
		})

		Convey("When a collection is already running", func() {
			deps.refreshErr = fmt.Errorf("%w: collection running", api.ErrBackpressure)
			w := serve(h, http.MethodPost, "/refresh")

			Convey("Then backpressure is signalled", func() {
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)
				So(decodeError(w)["code"], ShouldEqual, "backpressure")
			})
		})

		Convey("When the refresh cannot start", func() {
			deps.refreshErr = errors.New("no fetcher configured")
			w := serve(h, http.MethodPost, "/refresh")

			Convey("Then an internal error is returned", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("Given an op-scoped error", t, func() {
		cause := errors.New("disk full")
		err := api.WrapKind("api.op", api.ErrInternal, cause)

		Convey("Then both the kind and the cause match", func() {
			So(errors.Is(err, api.ErrInternal), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: internal error: disk full")
		})

		Convey("And NewKind and Wrap format without missing parts", func() {
			So(api.NewKind("api.op", api.ErrBadRequest).Error(), ShouldEqual, "api.op: bad request")
			So(api.Wrap("api.op", cause).Error(), ShouldEqual, "api.op: disk full")
			So(api.Wrap("api.op", nil), ShouldBeNil)
		})
	})
}
