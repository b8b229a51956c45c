package scoring_test

import (
	"math/rand"
	"testing"

	"github.com/okian/skillboard/internal/domain/model"
	scoring "github.com/okian/skillboard/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func run(eventID int, t model.RunType, score int) model.SkillsRun {
	return model.SkillsRun{
		EventID:   eventID,
		EventName: eventName(eventID),
		Type:      t,
		Score:     score,
		TeamName:  "Gear Grinders",
	}
}

func eventName(id int) string {
	names := map[int]string{1: "Regional Qualifier", 2: "State Championship", 3: "League Night"}
	return names[id]
}

func TestBestEvent(t *testing.T) {
	Convey("Given skills runs across two events", t, func() {
		runs := []model.SkillsRun{
			run(1, model.RunProgramming, 40),
			run(1, model.RunDriver, 30),
			run(2, model.RunProgramming, 35),
			run(2, model.RunDriver, 50),
		}

		Convey("When selecting the best event", func() {
			res, ok := scoring.BestEvent(121849, runs)

			Convey("Then the event with the higher total wins", func() {
				So(ok, ShouldBeTrue)
				So(res.Best.EventID, ShouldEqual, 2)
				So(res.Best.EventName, ShouldEqual, "State Championship")
				So(res.Best.ProgrammingScore, ShouldEqual, 35)
				So(res.Best.DriverScore, ShouldEqual, 50)
				So(res.Best.TotalScore, ShouldEqual, 85)
				So(res.Best.TeamNumber, ShouldEqual, 121849)
				So(res.Best.TeamName, ShouldEqual, "Gear Grinders")
			})

			Convey("And global maxima span all events", func() {
				So(res.HighestAuto, ShouldEqual, 40)
				So(res.HighestDriver, ShouldEqual, 50)
			})
		})
	})

	Convey("Given no runs", t, func() {
		Convey("When selecting the best event", func() {
			res, ok := scoring.BestEvent(1, nil)

			Convey("Then there is no result", func() {
				So(ok, ShouldBeFalse)
				So(res, ShouldResemble, scoring.Result{})
			})
		})
	})

	Convey("Given two events with the same total", t, func() {
		runs := []model.SkillsRun{
			run(3, model.RunProgramming, 45),
			run(2, model.RunDriver, 50),
			run(3, model.RunDriver, 40),
			run(2, model.RunProgramming, 35),
		}

		Convey("When selecting the best event", func() {
			res, ok := scoring.BestEvent(7, runs)

			Convey("Then the event folded first wins", func() {
				So(ok, ShouldBeTrue)
				So(res.Best.EventID, ShouldEqual, 3)
				So(res.Best.TotalScore, ShouldEqual, 85)
			})
		})
	})

	Convey("Given repeated attempts of the same run type", t, func() {
		runs := []model.SkillsRun{
			run(1, model.RunDriver, 12),
			run(1, model.RunDriver, 61),
			run(1, model.RunDriver, 33),
			run(1, model.RunProgramming, 8),
		}

		Convey("Then only the best attempt counts", func() {
			res, ok := scoring.BestEvent(1, runs)
			So(ok, ShouldBeTrue)
			So(res.Best.DriverScore, ShouldEqual, 61)
			So(res.Best.ProgrammingScore, ShouldEqual, 8)
			So(res.Best.TotalScore, ShouldEqual, 69)
		})
	})

	Convey("Given runs of an unscored type", t, func() {
		runs := []model.SkillsRun{
			run(1, model.RunType("package_driver"), 90),
		}

		Convey("Then the event exists with zero scores", func() {
			res, ok := scoring.BestEvent(1, runs)
			So(ok, ShouldBeTrue)
			So(res.Best.EventID, ShouldEqual, 1)
			So(res.Best.TotalScore, ShouldEqual, 0)
			So(res.HighestAuto, ShouldEqual, 0)
			So(res.HighestDriver, ShouldEqual, 0)
		})
	})

	Convey("Given a negative score", t, func() {
		runs := []model.SkillsRun{
			run(1, model.RunDriver, -5),
		}

		Convey("Then it is treated as zero", func() {
			res, ok := scoring.BestEvent(1, runs)
			So(ok, ShouldBeTrue)
			So(res.Best.DriverScore, ShouldEqual, 0)
		})
	})
}

func TestAccumulator_Invariants(t *testing.T) {
	Convey("Given a random sequence of runs", t, func() {
		rng := rand.New(rand.NewSource(42)) //nolint:gosec // deterministic seed for reproducible testing
		runs := make([]model.SkillsRun, 0, 200)
		for i := 0; i < 200; i++ {
			typ := model.RunProgramming
			if rng.Intn(2) == 0 {
				typ = model.RunDriver
			}
			runs = append(runs, run(1+rng.Intn(3), typ, rng.Intn(120)))
		}

		Convey("When folding one run at a time", func() {
			acc := scoring.NewAccumulator(99)
			prev := map[int]model.EventAggregate{}

			for _, r := range runs {
				acc.Add(r)
				agg, ok := acc.Aggregate(r.EventID)
				So(ok, ShouldBeTrue)

				before := prev[r.EventID]
				So(agg.ProgrammingScore, ShouldBeGreaterThanOrEqualTo, before.ProgrammingScore)
				So(agg.DriverScore, ShouldBeGreaterThanOrEqualTo, before.DriverScore)
				So(agg.TotalScore, ShouldEqual, agg.ProgrammingScore+agg.DriverScore)
				prev[r.EventID] = agg
			}

			Convey("Then the winner carries the max of each run type at its event", func() {
				res, ok := acc.Best()
				So(ok, ShouldBeTrue)
				wantP, wantD := 0, 0
				for _, r := range runs {
					if r.EventID != res.Best.EventID {
						continue
					}
					switch r.Type {
					case model.RunProgramming:
						wantP = max(wantP, r.Score)
					case model.RunDriver:
						wantD = max(wantD, r.Score)
					}
				}
				So(res.Best.ProgrammingScore, ShouldEqual, wantP)
				So(res.Best.DriverScore, ShouldEqual, wantD)
				So(res.Best.TotalScore, ShouldEqual, wantP+wantD)
				So(acc.Events(), ShouldEqual, 3)

				for _, agg := range prev {
					So(res.Best.TotalScore, ShouldBeGreaterThanOrEqualTo, agg.TotalScore)
				}
			})
		})
	})
}

func TestBestEvent_OrderIndependence(t *testing.T) {
	Convey("Given runs whose best event is unique", t, func() {
		runs := []model.SkillsRun{
			run(1, model.RunProgramming, 40),
			run(1, model.RunDriver, 30),
			run(2, model.RunProgramming, 35),
			run(2, model.RunDriver, 50),
			run(3, model.RunDriver, 20),
		}
		want, _ := scoring.BestEvent(5, runs)

		Convey("When the input is shuffled", func() {
			rng := rand.New(rand.NewSource(7)) //nolint:gosec // deterministic seed for reproducible testing
			for i := 0; i < 20; i++ {
				shuffled := append([]model.SkillsRun(nil), runs...)
				rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

				got, ok := scoring.BestEvent(5, shuffled)
				So(ok, ShouldBeTrue)
				So(got, ShouldResemble, want)
			}
		})
	})
}

func TestResult_Record(t *testing.T) {
	Convey("Given a selection result", t, func() {
		res := scoring.Result{
			Best: model.EventAggregate{
				EventID: 2, EventName: "State Championship", TeamNumber: 46465, TeamName: "Gear Grinders",
				ProgrammingScore: 35, DriverScore: 50, TotalScore: 85,
			},
			HighestAuto:   40,
			HighestDriver: 50,
		}

		Convey("When converting without global maxima", func() {
			rec := res.Record(false)

			Convey("Then the optional fields are absent", func() {
				So(rec.TeamNumber, ShouldEqual, 46465)
				So(rec.TotalScore, ShouldEqual, 85)
				So(rec.HighestAuto, ShouldBeNil)
				So(rec.HighestDriver, ShouldBeNil)
				So(rec.Auto(), ShouldEqual, 35)
			})
		})

		Convey("When converting with global maxima", func() {
			rec := res.Record(true)

			Convey("Then they are attached", func() {
				So(*rec.HighestAuto, ShouldEqual, 40)
				So(*rec.HighestDriver, ShouldEqual, 50)
				So(rec.Auto(), ShouldEqual, 40)
			})
		})
	})
}
