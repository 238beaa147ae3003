package config

import "time"

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
	}
}

// NewStorageForTest creates a Storage config for testing purposes
func NewStorageForTest(backend, sqlitePath string) *Storage {
	return &Storage{
		backend:    backend,
		sqlitePath: sqlitePath,
	}
}

// NewCaptureForTest creates a Capture config for testing purposes
func NewCaptureForTest(backend, webhookURL string) *Capture {
	return &Capture{
		backend:        backend,
		webhookURL:     webhookURL,
		webhookTimeout: time.Second,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}
