// Package egress evaluates fire-egress travel distances for a generated
// bar building. The verdict is advisory: the generator reports pass/fail
// and never refuses to produce a layout over it.
package egress

import "github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"

// IBC-style distance limits in meters, by sprinkler status.
const (
	SprinkleredDeadEndLimit    = 15.24 // 50 ft
	SprinkleredTravelLimit     = 76.20 // 250 ft
	SprinkleredCommonPathLimit = 38.10 // 125 ft

	UnsprinkleredDeadEndLimit    = 6.10  // 20 ft
	UnsprinkleredTravelLimit     = 60.96 // 200 ft
	UnsprinkleredCommonPathLimit = 22.86 // 75 ft
)

// DefaultLimits returns the default egress limits for the sprinkler status.
func DefaultLimits(sprinklered bool) plan.EgressConfig {
	if sprinklered {
		return plan.EgressConfig{
			Sprinklered:         true,
			DeadEndLimit:        SprinkleredDeadEndLimit,
			TravelDistanceLimit: SprinkleredTravelLimit,
			CommonPathLimit:     SprinkleredCommonPathLimit,
		}
	}
	return plan.EgressConfig{
		DeadEndLimit:        UnsprinkleredDeadEndLimit,
		TravelDistanceLimit: UnsprinkleredTravelLimit,
		CommonPathLimit:     UnsprinkleredCommonPathLimit,
	}
}

// NeedsMidCore reports whether two end cores leave the worst-case half
// travel distance over the limit, forcing a third mid-span core. The worst
// case assumes cores pushed to the building corners, so the decision can be
// made before the corner bays are sized. The measured distance is returned
// for event reporting.
func NeedsMidCore(length, coreWidth float64, cfg plan.EgressConfig) (bool, float64) {
	if cfg.TravelDistanceLimit <= 0 {
		return false, 0
	}
	halfTravel := (length - coreWidth) / 2
	return halfTravel > cfg.TravelDistanceLimit, halfTravel
}

// Evaluate measures the worst-case dead-end and travel distances along the
// corridor for the given core center positions (ascending) and grades them
// against the configured limits.
func Evaluate(length float64, coreCenters []float64, cfg plan.EgressConfig) plan.EgressResult {
	res := plan.EgressResult{
		DeadEndStatus:        plan.EgressPass,
		TravelDistanceStatus: plan.EgressPass,
	}
	if len(coreCenters) == 0 {
		res.MaxDeadEnd = length
		res.MaxTravelDistance = length
		res.DeadEndStatus = plan.EgressFail
		res.TravelDistanceStatus = plan.EgressFail
		return res
	}

	// Dead ends are the corridor stubs past the outermost cores.
	res.MaxDeadEnd = coreCenters[0]
	if d := length - coreCenters[len(coreCenters)-1]; d > res.MaxDeadEnd {
		res.MaxDeadEnd = d
	}

	// Travel distance peaks at the building ends or midway between two
	// adjacent cores.
	critical := []float64{0, length}
	for i := 0; i+1 < len(coreCenters); i++ {
		critical = append(critical, (coreCenters[i]+coreCenters[i+1])/2)
	}
	for _, x := range critical {
		nearest := length
		for _, c := range coreCenters {
			if d := abs(x - c); d < nearest {
				nearest = d
			}
		}
		if nearest > res.MaxTravelDistance {
			res.MaxTravelDistance = nearest
		}
	}

	if cfg.DeadEndLimit > 0 && res.MaxDeadEnd > cfg.DeadEndLimit {
		res.DeadEndStatus = plan.EgressFail
	}
	if cfg.TravelDistanceLimit > 0 && res.MaxTravelDistance > cfg.TravelDistanceLimit {
		res.TravelDistanceStatus = plan.EgressFail
	}
	return res
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
