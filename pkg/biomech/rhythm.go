package biomech

import (
	"math"
	"time"

	"github.com/biomechlab/go-biomech/pkg/anatomy"
)

// Coupling links a girdle joint to the limb joint it supports: above
// Threshold radians of total elevation, motion redistributes
// distal:proximal at Ratio:1; below it the proximal joint stays put.
// Coupling runs after the primary update pass, reads the already-updated
// snapshot, and writes only the proximal joint.
type Coupling struct {
	Proximal           anatomy.JointID
	ProximalCoordinate string
	Distal             anatomy.JointID
	DistalCoordinate   string
	Threshold          float64
	Ratio              float64
}

// DefaultCouplings returns the built-in scapulohumeral rhythm: above 30°
// of arm elevation the glenohumeral and scapulothoracic joints share
// motion 2:1.
func DefaultCouplings() []Coupling {
	rhythm := func(prox, dist anatomy.JointID) Coupling {
		return Coupling{
			Proximal:           prox,
			ProximalCoordinate: "upward_rotation",
			Distal:             dist,
			DistalCoordinate:   "abduction",
			Threshold:          deg30,
			Ratio:              2,
		}
	}
	return []Coupling{
		rhythm(anatomy.JointScapulothoracicL, anatomy.JointGlenohumeralL),
		rhythm(anatomy.JointScapulothoracicR, anatomy.JointGlenohumeralR),
	}
}

const deg30 = 30 * math.Pi / 180

// couplingEps is the proximal delta below which a coupling write is
// skipped, so settled pairs do not churn the rig every tick.
const couplingEps = 1e-9

// applyCouplings runs the secondary rhythm pass. The distal segment's
// world orientation is preserved across the proximal write: the limb
// stays where it is, the joints just re-share the motion. Both joints'
// states are recomputed in place; Update is never re-entered.
func (e *Engine) applyCouplings(now time.Time) []Violation {
	var violations []Violation
	for _, c := range e.couplings {
		pj, ok := e.byID[c.Proximal]
		if !ok || !pj.calibrated || !pj.hasState {
			continue
		}
		dj, ok := e.byID[c.Distal]
		if !ok || !dj.calibrated || !dj.hasState {
			continue
		}
		pi := pj.def.CoordinateIndex(c.ProximalCoordinate)
		di := dj.def.CoordinateIndex(c.DistalCoordinate)
		if pi < 0 || di < 0 {
			continue
		}

		p := e.currentValue(pj, pi)
		d := e.currentValue(dj, di)
		total := p + d

		target := 0.0
		if total > c.Threshold {
			target = (total - c.Threshold) / (c.Ratio + 1)
		}
		if math.Abs(target-p) <= couplingEps {
			continue
		}

		distalWorld, haveDistal := e.worldOf(dj.def.Child)

		vals := make([]float64, len(pj.def.Coordinates))
		for i := range pj.def.Coordinates {
			vals[i] = e.currentValue(pj, i)
		}
		vals[pi] = target
		if err := e.writeJoint(pj, vals); err != nil {
			continue
		}
		if haveDistal {
			// Pin the limb segment back to its pre-write world pose so the
			// distal joint absorbs the remainder.
			if err := e.reg.setWorldOrientation(dj.def.Child, distalWorld); err == nil {
				e.lastWorld[dj.def.Child] = distalWorld
			}
		}

		if v, ok := e.refreshJoint(pj, now); ok {
			violations = append(violations, v...)
		}
		if v, ok := e.refreshJoint(dj, now); ok {
			violations = append(violations, v...)
		}
	}
	return violations
}
