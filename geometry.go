package fakeinv

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// holderOffset is the vertical offset between the computed chest position and
// the position the illusion is drawn at.
var holderOffset = cube.Pos{0, 2, 0}

// BehindPosition returns the block two units away from pos along the
// horizontal axis selected by yaw.
//
// The yaw is shifted by -90° and normalised into [0, 360). The result is split
// into four 90° sectors centred on 0°, 90°, 180° and 270°, each mapped to one
// cardinal offset. A yaw that falls in no sector (NaN) yields floor(pos).
func BehindPosition(pos mgl64.Vec3, yaw float64) cube.Pos {
	base := cube.PosFromVec3(pos)

	rotation := math.Mod(yaw-90, 360)
	if rotation < 0 {
		rotation += 360
		if rotation >= 360 {
			// -tiny + 360 rounds up to 360.
			rotation = 0
		}
	}

	switch {
	case (0 <= rotation && rotation < 45) || (315 <= rotation && rotation < 360):
		return base.Add(cube.Pos{2, 0, 0})
	case 45 <= rotation && rotation < 135:
		return base.Add(cube.Pos{0, 0, 2})
	case 135 <= rotation && rotation < 225:
		return base.Sub(cube.Pos{2, 0, 0})
	case 225 <= rotation && rotation < 315:
		return base.Sub(cube.Pos{0, 0, 2})
	default:
		return base
	}
}

// ChestPosition returns the position the chest for viewers is computed from.
//
// With no viewers the origin is returned. A single viewer gets the block
// behind them, or their own block if behind is false. Two or more viewers get
// the midpoint of the first two, each coordinate rounded half away from zero
// and then floored.
func ChestPosition(viewers []Viewer, behind bool) cube.Pos {
	switch len(viewers) {
	case 0:
		return cube.Pos{}
	case 1:
		v := viewers[0]
		if !behind {
			return cube.PosFromVec3(v.Position())
		}
		return BehindPosition(v.Position(), v.Rotation().Yaw())
	default:
		a, b := viewers[0].Position(), viewers[1].Position()
		return cube.PosFromVec3(mgl64.Vec3{
			math.Round((a[0] + b[0]) / 2),
			math.Round((a[1] + b[1]) / 2),
			math.Round((a[2] + b[2]) / 2),
		})
	}
}
