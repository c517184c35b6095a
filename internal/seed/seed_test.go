package seed_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/persona/internal/adapters/http/api"
	service "github.com/okian/persona/internal/app"
	"github.com/okian/persona/internal/seed"
	"github.com/okian/persona/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func personaServer(t *testing.T) (*httptest.Server, *service.Service) {
	t.Helper()
	svc := service.New(service.WithRolesPath("../../roles.yaml"), service.WithRegistryMetricsInterval(0))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return httptest.NewServer(mux), svc
}

func TestRun(t *testing.T) {
	Convey("Given a running persona service", t, func() {
		ts, svc := personaServer(t)
		defer ts.Close()
		defer svc.Stop()

		out := filepath.Join(t.TempDir(), "nested", "subs.json")
		cfg := &seed.Config{
			BaseURL:    ts.URL,
			Members:    40,
			Groups:     4,
			Repeats:    10,
			Workers:    8,
			Timeout:    5 * time.Second,
			OutputFile: out,
		}

		Convey("When a seed run completes", func() {
			stats, err := seed.Run(context.Background(), cfg)

			Convey("Then every member is created once and resubmissions update", func() {
				So(err, ShouldBeNil)
				So(stats.Generated, ShouldEqual, 50)
				So(stats.Submitted, ShouldEqual, 50)
				So(stats.Created, ShouldEqual, 40)
				So(stats.Updated, ShouldEqual, 10)
				So(stats.Failed, ShouldEqual, 0)
				So(stats.GroupsChecked, ShouldEqual, 4)
				So(svc.GetStats()["members"], ShouldEqual, 40)
			})

			Convey("And the submissions are saved", func() {
				data, err := os.ReadFile(out)
				So(err, ShouldBeNil)
				var subs []seed.Submission
				So(json.Unmarshal(data, &subs), ShouldBeNil)
				So(len(subs), ShouldEqual, 50)
				for _, s := range subs {
					So(s.Traits.Validate(), ShouldBeNil)
				}
			})
		})
	})
}

func TestRunFailures(t *testing.T) {
	Convey("Given an invalid config", t, func() {
		cases := []seed.Config{
			{Members: 1, Groups: 1, Workers: 1},
			{BaseURL: "http://x", Members: 0, Groups: 1, Workers: 1},
			{BaseURL: "http://x", Members: 1, Groups: 0, Workers: 1},
			{BaseURL: "http://x", Members: 1, Groups: 1, Repeats: -1, Workers: 1},
			{BaseURL: "http://x", Members: 1, Groups: 1, Workers: 0},
		}

		Convey("Then Run refuses to start", func() {
			for _, c := range cases {
				_, err := seed.Run(context.Background(), &c)
				So(errors.Is(err, seed.ErrInvalidConfig), ShouldBeTrue)
			}
		})
	})

	Convey("Given a service that reports unhealthy", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer ts.Close()

		Convey("Then Run stops at the health check", func() {
			_, err := seed.Run(context.Background(), &seed.Config{
				BaseURL: ts.URL, Members: 1, Groups: 1, Workers: 1, Timeout: time.Second,
			})
			So(errors.Is(err, seed.ErrUnhealthy), ShouldBeTrue)
		})
	})

	Convey("Given a service that accepts writes but loses them", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {})
		mux.HandleFunc("PUT /groups/{group}/members/{member}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})
		mux.HandleFunc("GET /groups/{group}/summary", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"member_count":0}`))
		})
		ts := httptest.NewServer(mux)
		defer ts.Close()

		Convey("Then verification fails", func() {
			stats, err := seed.Run(context.Background(), &seed.Config{
				BaseURL: ts.URL, Members: 3, Groups: 1, Workers: 2, Timeout: time.Second,
			})
			So(errors.Is(err, seed.ErrVerification), ShouldBeTrue)
			So(stats.Created, ShouldEqual, 3)
		})
	})
}
