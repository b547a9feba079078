package compose

import "github.com/go-gl/mathgl/mgl32"

// MirrorVector3 negates the lateral axis.
func MirrorVector3(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{-v[0], v[1], v[2]}
}

// MirrorRotation reflects q across the YZ plane by negating its Y and Z
// imaginary components directly.
func MirrorRotation(q mgl32.Quat) mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.V[0], -q.V[1], -q.V[2]}}
}

func mirrorVec(v *mgl32.Vec3) *mgl32.Vec3 {
	if v == nil {
		return nil
	}
	m := MirrorVector3(*v)
	return &m
}

func mirrorQuat(q *mgl32.Quat) *mgl32.Quat {
	if q == nil {
		return nil
	}
	m := MirrorRotation(*q)
	return &m
}
