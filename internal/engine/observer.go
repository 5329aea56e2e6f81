package engine

import "log"

// Observer receives progress output during planning and apply.
type Observer interface {
	Printf(format string, v ...any)
}

// ConsoleObserver writes progress through the standard log package.
type ConsoleObserver struct{}

// NewConsoleObserver creates a console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{}
}

// Printf implements Observer.
func (o *ConsoleObserver) Printf(format string, v ...any) {
	log.Printf(format, v...)
}

// NopObserver discards all output. Used in tests.
type NopObserver struct{}

// Printf implements Observer.
func (NopObserver) Printf(string, ...any) {}
