package config

import (
	"fmt"
	"strings"

	"github.com/pior/platypus"
	"github.com/pior/platypus/source"
	"github.com/rs/zerolog"
)

// BuildSources constructs a platypus.Sources registry from cfg's Sources
// map, one concrete source per entry according to its Type.
func BuildSources(cfg Config, log zerolog.Logger) (platypus.Sources, error) {
	sources := make(platypus.Sources, len(cfg.Sources))

	for name, sc := range cfg.Sources {
		src, err := buildSource(sc, log)
		if err != nil {
			return nil, fmt.Errorf("building source %q: %w", name, err)
		}
		sources[name] = src
	}
	return sources, nil
}

func buildSource(sc SourceConfig, log zerolog.Logger) (platypus.Source, error) {
	switch sc.Type {
	case "echo":
		echo := source.NewEcho(sc.Args["template"])
		applyDurations(sc.Args, &echo.MonitorConfig)
		return echo, nil

	case "file":
		file := source.NewFile(sc.Args["path"], log)
		applyDurations(sc.Args, &file.MonitorConfig)
		return file, nil

	case "http":
		h := source.NewHttp(sc.Args["base_url"], log)
		applyDurations(sc.Args, &h.MonitorConfig)
		return h, nil

	case "secretstore":
		store := source.NewSecretStore(sc.Args["secret_id"], log)
		applyDurations(sc.Args, &store.MonitorConfig)
		return store, nil

	case "merge":
		return buildMerge(sc, log)

	default:
		return nil, fmt.Errorf("unknown source type %q", sc.Type)
	}
}

// buildMerge builds a Merge source's ttl/expiry from the flat args map
// and attaches its fan-out rules from the dedicated Rules field (a
// nested structure the flat string-keyed Args can't carry).
func buildMerge(sc SourceConfig, log zerolog.Logger) (platypus.Source, error) {
	merge := source.NewMerge()
	applyDurations(sc.Args, &merge.MonitorConfig)

	for _, rc := range sc.Rules {
		if rc.Source == "" || len(rc.Key) == 0 {
			return nil, fmt.Errorf("merge rule missing key or source: %+v", rc)
		}
		args := source.InheritArgs
		if len(rc.Args) > 0 {
			args = source.ReplaceArgs(rc.Args)
		}
		merge.WithRule(strings.Join(rc.Key, "."), rc.Source, args)
	}
	return merge, nil
}

func applyDurations(args map[string]string, cfg *source.MonitorConfig) {
	cfg.TTL = durationSeconds(args["ttl"], cfg.TTL)
	cfg.Expiry = durationSeconds(args["expiry"], cfg.Expiry)
}

// BuildRouter constructs a platypus.Router from cfg.Routes.
func BuildRouter(cfg Config, sources platypus.Sources) (*platypus.Router, error) {
	router := platypus.NewRouter()

	for _, rc := range cfg.Routes {
		src, ok := sources[rc.Source]
		if !ok {
			return nil, fmt.Errorf("route %q references unknown source %q", rc.Pattern, rc.Source)
		}
		if _, err := router.Route(rc.Pattern, src); err != nil {
			return nil, fmt.Errorf("route %q: %w", rc.Pattern, err)
		}
	}
	return router, nil
}
