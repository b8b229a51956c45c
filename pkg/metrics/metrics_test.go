package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "skillboard")
				So(manager.subsystem, ShouldEqual, "collector")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("robotics"),
				WithSubsystem("skills"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithConstLabels(map[string]string{"season": "190"}),
				WithPrometheusRegistry(registry),
			)
			manager.RecordRunsFolded(4)

			Convey("Then metric names and labels follow the options", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				found := false
				for _, f := range families {
					if f.GetName() != "robotics_skills_skills_runs_folded_total" {
						continue
					}
					found = true
					labels := f.GetMetric()[0].GetLabel()
					So(len(labels), ShouldEqual, 1)
					So(labels[0].GetName(), ShouldEqual, "season")
					So(labels[0].GetValue(), ShouldEqual, "190")
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty options are given", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "skillboard")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given an isolated manager", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording collection metrics", func() {
			m.RecordTeamFetched(12)
			m.RecordTeamFetched(30)
			m.RecordTeamSkipped(SkipNoData)
			m.RecordTeamSkipped(SkipNoData)
			m.RecordTeamSkipped(SkipError)
			m.RecordFetchError(5)
			m.RecordRunsFolded(17)
			m.RecordCollection(StatusOK, 2500)
			m.SetLastSuccess(1_700_000_000)

			Convey("Then counters reflect the calls", func() {
				So(testutil.ToFloat64(m.teamsFetched), ShouldEqual, 2)
				So(testutil.ToFloat64(m.teamsSkipped.WithLabelValues(SkipNoData)), ShouldEqual, 2)
				So(testutil.ToFloat64(m.teamsSkipped.WithLabelValues(SkipError)), ShouldEqual, 1)
				So(testutil.ToFloat64(m.fetchErrors), ShouldEqual, 1)
				So(testutil.ToFloat64(m.runsFolded), ShouldEqual, 17)
				So(testutil.ToFloat64(m.collections.WithLabelValues(StatusOK)), ShouldEqual, 1)
				So(testutil.ToFloat64(m.lastSuccessUnix), ShouldEqual, 1_700_000_000)
			})
		})

		Convey("When recording sink metrics", func() {
			m.RecordSinkWrite("file", 3)
			m.RecordSinkWrite("file", 4)
			m.RecordSinkError("s3")
			m.UpdateLeaderboardSize(42)

			Convey("Then they are labelled by sink", func() {
				So(testutil.ToFloat64(m.sinkWrites.WithLabelValues("file")), ShouldEqual, 2)
				So(testutil.ToFloat64(m.sinkErrors.WithLabelValues("s3")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.leaderboardSize), ShouldEqual, 42)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global registry", t, func() {
		Convey("When recording through package helpers", func() {
			So(func() {
				RecordTeamFetched(10)
				RecordTeamSkipped(SkipEmpty)
				RecordFetchError(3)
				RecordRunsFolded(2)
				RecordCollection(StatusFailed, 100)
				SetLastSuccess(1)
				RecordSinkWrite("redis", 1)
				RecordSinkError("redis")
				UpdateLeaderboardSize(3)
				RecordHTTPRequest("leaderboard", "GET", "200")
				RecordHTTPRequestDuration("leaderboard", "GET", "200", 1.5)
				RecordErrorByType("not_found", "medium")
				RecordErrorByEndpoint("rank", "GET", "not_found")
				RecordErrorLatency("http", "not_found", 0.4)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
				RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)

			Convey("Then the custom registry exposes them", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				joined := strings.Join(names, ",")
				So(joined, ShouldContainSubstring, "skillboard_collector_teams_fetched_total")
				So(joined, ShouldContainSubstring, "skillboard_collector_http_requests_total")
				So(joined, ShouldNotContainSubstring, "go_goroutines")
			})
		})
	})
}
