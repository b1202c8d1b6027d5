package bootstrap

import (
	_ "embed"
	"encoding/json"

	"go.uber.org/zap"
)

//go:embed seed_users.json
var fallbackSeedData []byte

// fallbackSeedUsers decodes the embedded seed set. The fixture is part of
// the build, so a decode failure means a broken release; it is logged and
// an empty set returned rather than taking the process down.
func fallbackSeedUsers(log *zap.Logger) []seedUser {
	var seeds []seedUser
	if err := json.Unmarshal(fallbackSeedData, &seeds); err != nil {
		log.Error("failed to decode embedded seed fixture", zap.Error(err))
		return nil
	}
	return seeds
}
