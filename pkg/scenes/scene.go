package scenes

import (
	"github.com/gonewx/clubhero/pkg/game"
)

// Scene is a type alias for game.Scene.
type Scene = game.Scene

var (
	_ Scene            = (*BackdropScene)(nil)
	_ game.Resizable   = (*BackdropScene)(nil)
	_ game.Unmountable = (*BackdropScene)(nil)
)
