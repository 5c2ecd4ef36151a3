package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

// Importance label constants.
const (
	CriticalValue = "Critical" // Top of the score distribution
	HighValue     = "High"     // Clearly above the mean
	ModerateValue = "Moderate" // Around the mean
	LowValue      = "Low"      // Bottom of the score distribution
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)
	HighColor     = color.New(color.FgMagenta, color.Bold)
	ModerateColor = color.New(color.FgYellow)
	LowColor      = color.New(color.FgCyan)
)

// GetPlainLabel returns a plain text label for a node's importance score,
// relative to the score distribution [min, max] of the ranked graph.
func GetPlainLabel(score, min, max float64) string {
	span := max - min
	if span <= 0 {
		return ModerateValue
	}
	switch frac := (score - min) / span; {
	case frac >= 0.8:
		return CriticalValue
	case frac >= 0.6:
		return HighValue
	case frac >= 0.4:
		return ModerateValue
	default:
		return LowValue
	}
}

// GetColorLabel returns a colored label for console output. It uses
// GetPlainLabel to determine the string, then applies the matching color.
func GetColorLabel(score, min, max float64) string {
	text := GetPlainLabel(score, min, max)
	switch text {
	case CriticalValue:
		return CriticalColor.Sprint(text)
	case HighValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// TruncateLabel shortens a label to maxLen runes, keeping the tail, which
// carries the distinguishing part of a path-like name.
func TruncateLabel(label string, maxLen int) string {
	runes := []rune(label)
	if maxLen <= 3 || len(runes) <= maxLen {
		return label
	}
	return "..." + string(runes[len(runes)-maxLen+3:])
}

// SelectOutputFile returns the file handle for output, falling back to
// stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetRunDBFilePath returns the path to the SQLite DB file for run tracking.
func GetRunDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".provscope_runs.db"
	}
	return filepath.Join(homeDir, ".provscope_runs.db")
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s\n", msg)
}
