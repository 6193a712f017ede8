// Package swell picks the wave train that drives surf at a spot and converts
// its open-ocean height into an estimated breaking height.
package swell

import "github.com/couchcryptid/surf-forecast-service/internal/domain"

// minOrganizedPeriod is the period below which a component is considered
// disorganized wind chop. Such components only compete when nothing longer exists.
const minOrganizedPeriod = 5.0

// SelectDominant returns the component with the greatest H²·T energy.
//
// Components with a missing or non-positive height or period are ignored.
// Components shorter than 5 s compete only when no component at or above
// 5 s is present. Ties go to primary, then secondary, then wind-generated.
// Direction never disqualifies a component. The bool is false when no
// component is present at all.
func SelectDominant(components []domain.SwellComponent) (domain.SwellComponent, bool) {
	organized := make([]domain.SwellComponent, 0, len(components))
	chop := make([]domain.SwellComponent, 0, len(components))
	for _, c := range components {
		if !c.Present() {
			continue
		}
		if *c.Period >= minOrganizedPeriod {
			organized = append(organized, c)
		} else {
			chop = append(chop, c)
		}
	}

	if best, ok := maxEnergy(organized); ok {
		return best, true
	}
	return maxEnergy(chop)
}

func maxEnergy(cs []domain.SwellComponent) (domain.SwellComponent, bool) {
	var (
		best  domain.SwellComponent
		found bool
	)
	for _, c := range cs {
		if !found {
			best, found = c, true
			continue
		}
		e, be := c.Energy(), best.Energy()
		if e > be || (e == be && c.Type < best.Type) {
			best = c
		}
	}
	return best, found
}

// SelectBuoyDominant applies the buoy rule to a separated swell and wind-wave
// pair: wind-wave shorter than 5 s never competes and ties favor the swell.
func SelectBuoyDominant(swell, windWave domain.SwellComponent) (domain.SwellComponent, bool) {
	swellOK := swell.Present()
	windOK := windWave.Present() && *windWave.Period >= minOrganizedPeriod

	switch {
	case swellOK && windOK:
		if windWave.Energy() > swell.Energy() {
			return windWave, true
		}
		return swell, true
	case swellOK:
		return swell, true
	case windOK:
		return windWave, true
	default:
		return domain.SwellComponent{}, false
	}
}
