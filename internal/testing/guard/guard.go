// Package guard flips the runtime into test mode as a side effect of being
// imported from test binaries, so package init code never starts servers or
// workers under `go test`.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("TALLER_TEST_MODE") == "" {
			_ = os.Setenv("TALLER_TEST_MODE", "1")
		}
	})
}
