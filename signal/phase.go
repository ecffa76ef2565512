package signal

import (
	"math"

	"github.com/ttpr0/go-hdmap/attr"
	"github.com/ttpr0/go-hdmap/geo"
	"github.com/ttpr0/go-hdmap/structs"
)

// Classifies a turn by its heading change in degrees (counter-clockwise positive).
//
//	|dyaw| < 45         -> T
//	45 <= dyaw < 150    -> L
//	150 <= dyaw <= 180  -> L0
//	-150 < dyaw <= -45  -> R
//	otherwise           -> R0
func ClassifyPhase(dyaw float64) attr.PhaseType {
	dyaw = geo.NormalizeAngle(dyaw)
	switch {
	case math.Abs(dyaw) < 45:
		return attr.PHASE_THROUGH
	case dyaw >= 45 && dyaw < 150:
		return attr.PHASE_LEFT
	case dyaw >= 150 && dyaw <= 180:
		return attr.PHASE_LEFT_HARD
	case dyaw > -150 && dyaw <= -45:
		return attr.PHASE_RIGHT
	default:
		return attr.PHASE_RIGHT_HARD
	}
}

// Heading change between the start and the end of a lane link.
func TurnAngle(link *structs.LaneLink) float64 {
	return geo.NormalizeAngle(link.Centerline.EndYaw() - link.Centerline.StartYaw())
}

func ClassifyLaneLink(link *structs.LaneLink) attr.PhaseType {
	return ClassifyPhase(TurnAngle(link))
}
