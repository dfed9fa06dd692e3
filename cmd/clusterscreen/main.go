package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess        = 0 // Every detector produced a result
	ExitDetectorFailed = 1 // One or more detectors produced no result
	ExitError          = 2 // Configuration or runtime error
)

// DetectorFailureError indicates that the suite ran to completion but
// one or more detectors found no valid configuration.
type DetectorFailureError struct {
	Message string
}

func (e *DetectorFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var detectorErr *DetectorFailureError
		if errors.As(err, &detectorErr) {
			os.Exit(ExitDetectorFailed)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
