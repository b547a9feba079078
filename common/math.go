package common

import "github.com/go-gl/mathgl/mgl32"

// Lerp is unclamped; t outside [0,1] extrapolates.
func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func LerpVec4(a, b mgl32.Vec4, t float32) mgl32.Vec4 {
	return a.Add(b.Sub(a).Mul(t))
}

// Euler converts degrees to a rotation applied Z first, then X, then Y.
func Euler(deg mgl32.Vec3) mgl32.Quat {
	qx := mgl32.QuatRotate(mgl32.DegToRad(deg[0]), mgl32.Vec3{1, 0, 0})
	qy := mgl32.QuatRotate(mgl32.DegToRad(deg[1]), mgl32.Vec3{0, 1, 0})
	qz := mgl32.QuatRotate(mgl32.DegToRad(deg[2]), mgl32.Vec3{0, 0, 1})
	return qy.Mul(qx).Mul(qz)
}

// Slerp takes the shorter arc and does not clamp t.
func Slerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatSlerp(a, b, t)
}

// SameRotation reports whether a and b describe the same orientation; q and
// -q are equal.
func SameRotation(a, b mgl32.Quat, eps float32) bool {
	d := a.Normalize().Dot(b.Normalize())
	if d < 0 {
		d = -d
	}
	return d >= 1-eps
}

func Clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}
