package config_test

import (
	"context"
	"errors"
	"os"
	"runtime"
	"testing"

	"github.com/okian/rinkstats/internal/config"
	"github.com/okian/rinkstats/internal/domain/model"
	"github.com/okian/rinkstats/internal/domain/rolling"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverMemory)
			convey.So(cfg.IncludeFightingMajors, convey.ShouldBeTrue)
			convey.So(cfg.MaxPeriod, convey.ShouldEqual, 12)
			convey.So(cfg.Weights(), convey.ShouldResemble, rolling.DefaultWeights())
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs the service cannot run with", t, func() {
		ctx := context.Background()
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = "" }},
			{"zero queue", func(c *config.Config) { c.QueueSize = 0 }},
			{"no workers", func(c *config.Config) { c.WorkerCount = -1 }},
			{"no dedupe", func(c *config.Config) { c.DedupeSize = 0 }},
			{"shallow period", func(c *config.Config) { c.MaxPeriod = 2 }},
			{"unknown driver", func(c *config.Config) { c.StoreDriver = "postgres" }},
			{"sqlite sans dsn", func(c *config.Config) { c.StoreDriver = config.DriverSQLite }},
			{"negative weight", func(c *config.Config) { c.MomentumWeights["hit"] = -1 }},
			{"nameless team", func(c *config.Config) { c.Teams = append(c.Teams, modelTeam("", "TBL")) }},
			{"duplicate abbrev", func(c *config.Config) { c.Teams = append(c.Teams, modelTeam("A", "TBL"), modelTeam("B", "TBL")) }},
		}
		for _, c := range cases {
			convey.Convey("When the config has "+c.name, func() {
				cfg := config.New(ctx)
				c.mutate(cfg)

				convey.Convey("Then validation fails with ErrInvalidConfig", func() {
					convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1_000)
				convey.So(cfg.Teams, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("RINKSTATS_ADDR", ":8080")
			_ = os.Setenv("RINKSTATS_QUEUE_SIZE", "64")
			_ = os.Setenv("RINKSTATS_WORKER_COUNT", "3")
			_ = os.Setenv("RINKSTATS_INCLUDE_FIGHTING_MAJORS", "false")
			_ = os.Setenv("RINKSTATS_STORE_DRIVER", "sqlite")
			_ = os.Setenv("RINKSTATS_STORE_DSN", "/tmp/rinkstats.db")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
				convey.So(cfg.IncludeFightingMajors, convey.ShouldBeFalse)
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverSQLite)
				convey.So(cfg.StoreDSN, convey.ShouldEqual, "/tmp/rinkstats.db")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			tmpFile := createTempConfigFile(`
# playoff night
addr: ":9090"
worker_count: 8
data_dir: /srv/nhl
momentum_weights:
  goal: 6
  attempt: 0.5
teams:
  - name: Tampa Bay Lightning
    abbrev: TBL
    normal_direction: true
  - name: Montréal Canadiens
    abbrev: MTL
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("RINKSTATS_CONFIG", tmpFile)
			_ = os.Setenv("RINKSTATS_WORKER_COUNT", "16")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values apply and env still wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.DataDir, convey.ShouldEqual, "/srv/nhl")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1_000)
			})

			convey.Convey("Then weights merge with defaults", func() {
				w := cfg.Weights()
				convey.So(w.Goal, convey.ShouldEqual, 6.0)
				convey.So(w.Attempt, convey.ShouldEqual, 0.5)
				convey.So(w.Shot, convey.ShouldEqual, 3.0)
			})

			convey.Convey("Then the team directory is read", func() {
				convey.So(cfg.Teams, convey.ShouldHaveLength, 2)
				convey.So(cfg.Teams[0].Abbrev, convey.ShouldEqual, "TBL")
				convey.So(cfg.Teams[0].NormalDirection, convey.ShouldBeTrue)
				convey.So(cfg.Teams[1].NormalDirection, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("RINKSTATS_CONFIG", "/non/existent/rinkstats.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the YAML is invalid", func() {
			tmpFile := createTempConfigFile("addr: [unclosed\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("RINKSTATS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a numeric env var is not a number", func() {
			_ = os.Setenv("RINKSTATS_QUEUE_SIZE", "lots")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the loaded values fail validation", func() {
			_ = os.Setenv("RINKSTATS_STORE_DRIVER", "sqlite")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

// Helper functions.

func modelTeam(name, abbrev string) model.Team {
	return model.Team{Name: name, Abbrev: abbrev}
}

func clearConfigEnvVars() {
	for _, envVar := range []string{
		"RINKSTATS_CONFIG",
		"RINKSTATS_ADDR",
		"RINKSTATS_QUEUE_SIZE",
		"RINKSTATS_WORKER_COUNT",
		"RINKSTATS_INCLUDE_FIGHTING_MAJORS",
		"RINKSTATS_STORE_DRIVER",
		"RINKSTATS_STORE_DSN",
	} {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "rinkstats-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
