package mathutil

import "math"

// Camera matrices for model space (Z-up, left-handed) to view space
// (X right, Y up, Z towards the viewer).
var (
	// ModelFlip converts Z-up (DirectX) to Y-up (OpenGL): Rx(-90°)
	ModelFlip = RotX(math.Pi / -2)

	// MirrorX converts left-handed to right-handed: diag(-1, 1, 1)
	MirrorX = Mat3Diag(-1, 1, 1)

	// FrontView looks at the avatar face-on from slightly above:
	// MIRROR_X @ Rx(-10°) @ MODEL_FLIP
	FrontView = Mat3Mul(Mat3Mul(MirrorX, RotX(Deg2Rad(-10))), ModelFlip)
)

// Turntable returns FrontView rotated about the model's vertical axis by deg.
func Turntable(deg float64) Mat3 {
	return Mat3Mul(FrontView, RotZ(Deg2Rad(deg)))
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 { return d * math.Pi / 180 }
