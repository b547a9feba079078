package compose

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/trackanim/track"
)

// Pose is a position and orientation in the parent's space.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// PlayerTransform places a rig driven by one track's static values. The
// track's rotation turns the whole rig around the origin, its position is
// added in grid units before that turn, and its local rotation is applied
// last, after the rig's own starting rotation.
func PlayerTransform(src Source, start Pose, gridUnit float32, leftHanded bool) Pose {
	rotation := src.Rotation(track.Rotation)
	position := src.Vector3(track.Position)
	localRotation := src.Rotation(track.LocalRotation)
	if leftHanded {
		rotation = mirrorQuat(rotation)
		position = mirrorVec(position)
		localRotation = mirrorQuat(localRotation)
	}

	world := mgl32.QuatIdent()
	pos := start.Position
	if rotation != nil || position != nil {
		if rotation != nil {
			world = world.Mul(*rotation)
		}
		var offset mgl32.Vec3
		if position != nil {
			offset = *position
		}
		pos = world.Rotate(offset.Mul(gridUnit).Add(start.Position))
	}

	world = world.Mul(start.Rotation)
	if localRotation != nil {
		world = world.Mul(*localRotation)
	}
	return Pose{Position: pos, Rotation: world}
}
