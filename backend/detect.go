package backend

import (
	"log/slog"
	"os"
	"strings"
)

// EnvOverride is the environment variable that forces a backend choice
// ("sequential" or "accelerated"). An unavailable or unknown value falls
// through to auto-detection.
const EnvOverride = "TERNGO_BACKEND"

// Detect selects the compute backend once at startup: it attempts to
// initialize the accelerated backend and falls back to the sequential
// reference on any failure. Fallback is never an error; it is observable
// only through the returned Status. Selection is not re-evaluated per call.
func Detect(logger *slog.Logger) (Backend, Status) {
	if logger == nil {
		logger = slog.Default()
	}

	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvOverride))) {
	case "sequential":
		logger.Debug("backend forced by environment", "backend", "sequential")
		return NewSequential(), Status{Name: "sequential"}
	case "accelerated":
		if be, err := NewAccelerated(); err == nil {
			logger.Debug("backend forced by environment", "backend", "accelerated")
			return be, Status{Name: be.Name(), Accelerated: true}
		}
		// Forced backend unavailable - fall through to auto-detection.
	}

	be, err := NewAccelerated()
	if err != nil {
		logger.Info("accelerated backend unavailable, using sequential",
			"reason", err.Error(),
		)
		return NewSequential(), Status{
			Name:     "sequential",
			FellBack: true,
			Reason:   err.Error(),
		}
	}

	logger.Debug("accelerated backend selected", "workers", be.Workers())
	return be, Status{Name: be.Name(), Accelerated: true}
}
