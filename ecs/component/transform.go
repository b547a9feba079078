package component

import "github.com/go-gl/mathgl/mgl32"

// Transform is the state an object is drawn with.
type Transform struct {
	Position      mgl32.Vec3
	Rotation      mgl32.Quat
	Scale         mgl32.Vec3
	LocalRotation mgl32.Quat
	Dissolve      float32
	DissolveArrow float32
	Interactable  bool
}

// IdentityTransform is a transform nothing has been applied to.
func IdentityTransform() Transform {
	return Transform{
		Rotation:      mgl32.QuatIdent(),
		Scale:         mgl32.Vec3{1, 1, 1},
		LocalRotation: mgl32.QuatIdent(),
		Dissolve:      1,
		DissolveArrow: 1,
		Interactable:  true,
	}
}

// WorldRotation is the rotation applied to the object's mesh.
func (t Transform) WorldRotation() mgl32.Quat {
	return t.Rotation.Mul(t.LocalRotation)
}

var (
	// TransformComponent holds the resolved transform.
	TransformComponent = NewComponent[Transform]()
	// BaseComponent holds the authored transform offsets are applied to.
	BaseComponent = NewComponent[Transform]()
)
