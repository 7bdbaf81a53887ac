// Package health exposes liveness checks for the server's dependencies.
package health

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Checker reports whether a dependency is able to serve requests. It is
// implemented by backends that can fail at runtime, like the activity
// datastore.
type Checker interface {
	HealthCheck() error
}

// Handler returns an http.Handler reporting the health of the given checkers.
// It responds 200 with a JSON status per check when every dependency is
// healthy, and 500 when any of them report an error. One or more check query
// parameters restrict the run to the named checkers.
func Handler(logger log.Logger, checkers map[string]Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		selected := checkers
		if names, ok := r.URL.Query()["check"]; ok {
			selected = make(map[string]Checker, len(names))
			for _, name := range names {
				checker, ok := checkers[name]
				if !ok {
					http.Error(w, fmt.Sprintf("unknown health check %q", name), http.StatusBadRequest)
					return
				}
				selected[name] = checker
			}
		}

		results, healthy := RunChecks(logger, selected)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if !healthy {
			w.WriteHeader(http.StatusInternalServerError)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(results)
	}
}

// RunChecks runs every checker, logging any failures. It returns the status
// of each check keyed by name, and whether all of them passed.
func RunChecks(logger log.Logger, checkers map[string]Checker) (map[string]string, bool) {
	healthy := true
	results := make(map[string]string, len(checkers))
	for name, checker := range checkers {
		if err := checker.HealthCheck(); err != nil {
			level.Error(log.With(logger, "component", "healthz")).Log("check", name, "err", err)
			results[name] = "fail"
			healthy = false
			continue
		}
		results[name] = "pass"
	}
	return results, healthy
}

// Nop creates a noop checker. Useful in tests.
func Nop() Checker {
	return nop{}
}

type nop struct{}

func (c nop) HealthCheck() error {
	return nil
}
