package config

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/google/uuid"
)

// NewGenerated builds fresh resource prefixes for one target run.
func NewGenerated() Generated {
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	return Generated{
		ResourcePrefix: ResourcePrefix(host, rand.IntN(90000000)+10000000),
		TinyPrefix:     TinyPrefix(uuid.New()),
	}
}

// ResourcePrefix formats ansible-test-<number>-<short hostname>.
func ResourcePrefix(hostname string, n int) string {
	short, _, _ := strings.Cut(hostname, ".")
	return fmt.Sprintf("ansible-test-%d-%s", n, short)
}

// TinyPrefix returns the first 12 hex characters of id.
func TinyPrefix(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")[:12]
}
