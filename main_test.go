package main

import (
	"testing"

	"github.com/fatih/color"
)

func TestNewLogger(t *testing.T) {
	defer func(f, l string) { logFormat, logLevel = f, l }(logFormat, logLevel)

	for _, f := range []string{"text", "json"} {
		logFormat, logLevel = f, "debug"
		if _, err := newLogger(); err != nil {
			t.Errorf("Expected %s logger, got error %v", f, err)
		}
	}

	logFormat, logLevel = "xml", "info"
	if _, err := newLogger(); err == nil {
		t.Error("Expected error for unknown log format")
	}
	logFormat, logLevel = "text", "loud"
	if _, err := newLogger(); err == nil {
		t.Error("Expected error for unknown log level")
	}
}

func TestStatusColor(t *testing.T) {
	if !statusColor(" Done ").Equals(color.New(color.FgGreen)) {
		t.Error("Expected done to be green")
	}
	if !statusColor("Blocked").Equals(color.New(color.FgRed)) {
		t.Error("Expected blocked to be red")
	}
	if !statusColor("In Progress").Equals(color.New(color.FgYellow)) {
		t.Error("Expected other statuses to be yellow")
	}
}
