package cli

import (
	"math"

	"github.com/okian/clubperf/internal/domain/model"
	"github.com/okian/clubperf/pkg/logger"
)

// validateRootFlags validates the flags of the root command.
func validateRootFlags() string {
	if rootLogFormat != logger.FormatText && rootLogFormat != logger.FormatJSON {
		return "Log format must be text or json."
	}
	return ""
}

// validateBuildFlags validates the flags of the build command.
func validateBuildFlags() string {
	if _, ok := model.ParseLanguage(buildLanguage); !ok {
		return "Language must be en or sv."
	}

	if math.IsNaN(buildYThreshold) || math.IsInf(buildYThreshold, 0) || buildYThreshold < 0 {
		return "Asymmetry threshold must be a non-negative number."
	}

	return validateFormat(buildFormat)
}

// validateGenerateFlags validates the flags of the generate command.
func validateGenerateFlags() string {
	if generateAthletes < 0 {
		return "Athlete count must not be negative."
	}

	if generateAttempts <= 0 {
		return "Attempts per side must be greater than 0."
	}

	if generateMissingRate < 0 || generateMissingRate > 1 {
		return "Missing rate must be between 0 and 1."
	}

	if generateClub == "" {
		return "Club id is required."
	}

	return ""
}

// validateBenchmarkFlags validates the flags of the benchmark command.
func validateBenchmarkFlags() string {
	if benchBins <= 0 {
		return "Bin count must be greater than 0."
	}
	return validateStationFlags()
}

// validateLeaderboardFlags validates the flags of the leaderboard command.
func validateLeaderboardFlags() string {
	if benchTop <= 0 {
		return "Top must be greater than 0."
	}
	return validateStationFlags()
}

// validateStationFlags validates the flags shared by benchmark and leaderboard.
func validateStationFlags() string {
	if _, ok := model.StationByID(benchStation); !ok {
		return "Unknown station: " + benchStation
	}
	return validateFormat(benchFormat)
}

func validateFormat(format string) string {
	if format != formatJSON && format != formatTable {
		return "Format must be json or table."
	}
	return ""
}

// validateSubmitFlags validates the flags of the submit command.
func validateSubmitFlags() string {
	if submitServer == "" {
		return "Server URL is required."
	}

	if submitClub == "" {
		return "Club id is required."
	}

	if submitBatchSize <= 0 {
		return "Batch size must be greater than 0."
	}

	if submitWorkers <= 0 {
		return "Workers must be greater than 0."
	}

	if submitAthletes < 0 {
		return "Athlete count must not be negative."
	}

	if submitTimeout <= 0 || submitWait < 0 {
		return "Timeouts must be positive."
	}

	return ""
}
