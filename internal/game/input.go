package game

import (
	"mazecaster/internal/game/keytracker"

	"github.com/hajimehoshi/ebiten/v2"
)

// InputHandler turns keyboard state into camera movement and view toggles.
type InputHandler struct {
	game *MazeGame
	keys *keytracker.Set
}

// NewInputHandler creates a new input handler
func NewInputHandler(game *MazeGame) *InputHandler {
	return &InputHandler{game: game, keys: keytracker.NewSet()}
}

// HandleInput processes all input for the current frame
func (ih *InputHandler) HandleInput() {
	ih.handleMovementInput()
	ih.handleUIInput()
}

// handleMovementInput processes movement and camera controls
func (ih *InputHandler) handleMovementInput() {
	rot := ih.game.config.GetRotSpeed()
	speed := ih.game.config.GetMoveSpeed()
	cam := ih.game.camera

	// Rotation
	if ebiten.IsKeyPressed(ebiten.KeyLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		cam.Rotate(-rot)
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		cam.Rotate(rot)
	}

	forward, strafe := 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		forward += speed
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		forward -= speed
	}
	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		strafe -= speed
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		strafe += speed
	}
	if forward != 0 || strafe != 0 {
		cam.Move(forward, strafe)
	}
}

// handleUIInput processes one-shot toggles
func (ih *InputHandler) handleUIInput() {
	g := ih.game
	maze := g.level.Maze

	if ih.keys.JustPressed(ebiten.KeyEscape) {
		g.exitRequested = true
	}
	if ih.keys.JustPressed(ebiten.KeyM) {
		g.composer.Overview = !g.composer.Overview
	}
	if ih.keys.JustPressed(ebiten.KeyEqual, ebiten.KeyNumpadAdd) {
		g.composer.Zoom(-1, maze.Width(), maze.Height())
	}
	if ih.keys.JustPressed(ebiten.KeyMinus, ebiten.KeyNumpadSubtract) {
		g.composer.Zoom(1, maze.Width(), maze.Height())
	}
	if ih.keys.JustPressed(ebiten.KeyN) {
		g.NextTheme()
	}
	if ih.keys.JustPressed(ebiten.KeyF1) {
		g.showStatus = !g.showStatus
	}
	if ih.keys.JustPressed(ebiten.KeyP) {
		g.perfDebugEnabled = !g.perfDebugEnabled
		g.threading.PerformanceMonitor.EnableAverages(g.perfDebugEnabled)
	}
}
