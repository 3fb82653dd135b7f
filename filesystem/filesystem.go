// Package filesystem routes all file access through a swappable afero backend.
//
// Production code runs on the real disk; tests swap in afero's MemMapFs, so
// every disk touch in the app (registry, snapshots, logs, caches) can run in
// memory.
package filesystem

import "github.com/spf13/afero"

var active = afero.Afero{Fs: afero.NewOsFs()}

// API hands back the live afero wrapper.
func API() afero.Afero {
	return active
}

// SetOsFs points the backend at the real disk.
func SetOsFs() {
	active = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs swaps in a fresh in-memory backend. Tests call this from init.
func SetMemMapFs() {
	active = afero.Afero{Fs: afero.NewMemMapFs()}
}
