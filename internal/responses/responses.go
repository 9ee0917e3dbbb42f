// Package responses serves the client-facing error bodies from an
// embedded YAML catalog, keeping wording in one place instead of
// scattered string literals per endpoint.
package responses

import (
	_ "embed"
	"fmt"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

//go:embed responses.yaml
var catalogYAML []byte

var catalog map[string]string

func init() {
	if err := yaml.Unmarshal(catalogYAML, &catalog); err != nil {
		panic(fmt.Sprintf("responses: malformed catalog: %v", err))
	}
}

// Message returns the catalog text for a key. Unknown keys fall back to
// the key itself so a missing entry degrades to something greppable
// rather than an empty body.
func Message(key string) string {
	if msg, ok := catalog[key]; ok {
		return msg
	}
	return key
}

// Error writes a JSON error body for the given status code and catalog key.
func Error(c *gin.Context, status int, key string) {
	c.JSON(status, gin.H{"error": Message(key)})
}
