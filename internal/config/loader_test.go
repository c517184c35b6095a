package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/persona/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"PERSONA_CONFIG",
	"PERSONA_ADDR",
	"PERSONA_LOG_LEVEL",
	"PERSONA_LOG_FORMAT",
	"PERSONA_ROLES_PATH",
	"PERSONA_MAX_BODY_BYTES",
	"PERSONA_DEFAULT_SUMMARY_MODE",
	"PERSONA_SHUTDOWN_TIMEOUT",
}

func TestConfigNew(t *testing.T) {
	convey.Convey("Given a new config", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it has sensible, valid defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.RolesPath, convey.ShouldEqual, "roles.yaml")
			convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, int64(64<<10))
			convey.So(cfg.DefaultSummaryMode, convey.ShouldEqual, config.SummaryConcise)
			convey.So(cfg.ShutdownTimeout, convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars(t)

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load(ctx, "")

			convey.Convey("Then defaults are returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.RolesPath, convey.ShouldEqual, "roles.yaml")
			})
		})

		convey.Convey("When loading with environment variables", func() {
			t.Setenv("PERSONA_ADDR", ":8080")
			t.Setenv("PERSONA_ROLES_PATH", "/etc/persona/roles.yaml")
			t.Setenv("PERSONA_MAX_BODY_BYTES", "1024")
			t.Setenv("PERSONA_DEFAULT_SUMMARY_MODE", "detailed")
			t.Setenv("PERSONA_SHUTDOWN_TIMEOUT", "5s")

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then env overrides defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RolesPath, convey.ShouldEqual, "/etc/persona/roles.yaml")
				convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, int64(1024))
				convey.So(cfg.DefaultSummaryMode, convey.ShouldEqual, config.SummaryDetailed)
				convey.So(cfg.ShutdownTimeout, convey.ShouldEqual, 5*time.Second)
			})
		})

		convey.Convey("When loading from a YAML file named by PERSONA_CONFIG", func() {
			path := writeConfig(t, `
addr: ":9090"
log_format: json
roles_path: custom.yaml
`)
			t.Setenv("PERSONA_CONFIG", path)

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then file values are applied", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.RolesPath, convey.ShouldEqual, "custom.yaml")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			})
		})

		convey.Convey("When both file and env are set", func() {
			path := writeConfig(t, "addr: \":9090\"\nroles_path: from-file.yaml\n")
			t.Setenv("PERSONA_ADDR", ":7070")

			cfg, err := config.Load(ctx, path)

			convey.Convey("Then env wins over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.RolesPath, convey.ShouldEqual, "from-file.yaml")
			})
		})

		convey.Convey("When the file is malformed", func() {
			path := writeConfig(t, "invalid: yaml: content: [")

			cfg, err := config.Load(ctx, path)

			convey.Convey("Then loading fails", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the file does not exist", func() {
			cfg, err := config.Load(ctx, filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then loading fails", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a numeric variable is not a number", func() {
			t.Setenv("PERSONA_MAX_BODY_BYTES", "lots")

			_, err := config.Load(ctx, "")

			convey.Convey("Then the config is rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestConfigValidate(t *testing.T) {
	convey.Convey("Given invalid settings", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = " " }},
			{"empty roles path", func(c *config.Config) { c.RolesPath = "" }},
			{"zero body limit", func(c *config.Config) { c.MaxBodyBytes = 0 }},
			{"negative shutdown", func(c *config.Config) { c.ShutdownTimeout = -time.Second }},
			{"unknown log format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"unknown summary mode", func(c *config.Config) { c.DefaultSummaryMode = "verbose" }},
		}
		for _, tc := range cases {
			mutate := tc.mutate
			convey.Convey("When the config has "+tc.name, func() {
				cfg := config.New(context.Background())
				mutate(cfg)

				convey.Convey("Then validation fails with ErrInvalidConfig", func() {
					convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}

func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	for _, k := range configEnvVars {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
