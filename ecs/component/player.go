package component

import "github.com/milk9111/trackanim/compose"

// Player is a rig placed by one track's static values.
type Player struct {
	Track string
	Start compose.Pose
	Pose  compose.Pose
}

var PlayerComponent = NewComponent[Player]()
