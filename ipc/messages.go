package ipc

import (
	"errors"

	"github.com/nstehr/rampart/model"
)

// Frame kinds. The game engine sends the config once, then one state frame
// per phase: turnInfo[0] is 0 for deploy, 1 for action, 2 for end of game.
const (
	KindConfig = "config"
	KindDeploy = "deploy"
	KindAction = "action"
	KindEnd    = "end"
)

var phaseKinds = [...]string{
	model.PhaseDeploy: KindDeploy,
	model.PhaseAction: KindAction,
	model.PhaseEnd:    KindEnd,
}

// ErrMalformedFrame marks a line that is not a frame; the loop skips it.
var ErrMalformedFrame = errors.New("malformed frame")

// ErrEndOfGame is returned by a handler to stop the read loop cleanly.
var ErrEndOfGame = errors.New("end of game")
