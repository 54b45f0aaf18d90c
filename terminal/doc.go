// Package terminal adapts tcell key and focus events to the input manager.
//
// Terminals report key presses (and auto-repeat) but never key releases, so the
// host synthesizes a release once a key has not been reported for the release
// timeout. Uppercase letters imply a held Shift.
package terminal
