// Package keytracker reports keys that went down this tick.
package keytracker

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// KeyStateTracker tracks the previous state of a key.
type KeyStateTracker struct {
	prevPressed bool
}

// Update records the current state and reports a released-to-pressed edge.
func (k *KeyStateTracker) Update(pressed bool) bool {
	justPressed := pressed && !k.prevPressed
	k.prevPressed = pressed
	return justPressed
}

// IsKeyJustPressed returns true if the key was not pressed last frame but is pressed this frame.
func (k *KeyStateTracker) IsKeyJustPressed(key ebiten.Key) bool {
	return k.Update(ebiten.IsKeyPressed(key))
}

// Set keeps one tracker per key.
type Set struct {
	trackers map[ebiten.Key]*KeyStateTracker
	pressed  func(ebiten.Key) bool
}

func NewSet() *Set {
	return &Set{trackers: make(map[ebiten.Key]*KeyStateTracker), pressed: ebiten.IsKeyPressed}
}

// JustPressed reports whether any of keys went down this tick. Every key is
// updated even after a match so no edge is reported twice.
func (s *Set) JustPressed(keys ...ebiten.Key) bool {
	hit := false
	for _, key := range keys {
		k, ok := s.trackers[key]
		if !ok {
			k = &KeyStateTracker{}
			s.trackers[key] = k
		}
		if k.Update(s.pressed(key)) {
			hit = true
		}
	}
	return hit
}
