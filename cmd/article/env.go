package main

import (
	"io"
	"os"
	"time"
)

// Environment holds the process dependencies of a command.
// Tests replace them to run commands in parallel without touching the
// real environment.
type Environment struct {
	Now       func() time.Time
	Stdout    io.Writer
	Stderr    io.Writer
	LookupEnv func(string) (string, bool)
	Environ   func() []string
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:       time.Now,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		LookupEnv: os.LookupEnv,
		Environ:   os.Environ,
	}
}

// getenv returns the value of an environment variable, or "".
func (e *Environment) getenv(name string) string {
	v, _ := e.LookupEnv(name)
	return v
}
