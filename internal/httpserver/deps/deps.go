package deps

import (
	"time"

	"github.com/MrSnakeDoc/bugtrack/internal/bugs"
	"github.com/MrSnakeDoc/bugtrack/internal/logger"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	Bugs      *bugs.Service // orchestrates validation, queries and the store
	Store     bugs.Store    // raw store handle, used by readiness checks
	StoreName string        // "redis" | "memory"
}
