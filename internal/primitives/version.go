// Package primitives provides versioning utilities for configs.
package primitives

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// ComputeVersion computes a deterministic version for a config value.
// Priority: explicit version, else SHA256(config JSON)[:8].
func ComputeVersion(explicit string, config any) string {
	if explicit != "" {
		return explicit
	}

	data, err := json.Marshal(config)
	if err != nil {
		return "unversioned"
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash[:8])
}
