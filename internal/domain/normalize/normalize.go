// Package normalize converts heterogeneous raw spin records into canonical spins.
//
// Live feeds drift: fields go missing, numbers arrive as strings, bonus
// lists contain junk. A record whose winning number cannot be read is dropped,
// a lightning entry whose number cannot be read is dropped from its spin, and
// nothing is ever reported as an error.
package normalize

import (
	"github.com/okian/spinlens/internal/domain/locator"
	"github.com/okian/spinlens/internal/domain/model"
	"github.com/okian/spinlens/internal/domain/wheel"
)

// Report summarizes one normalization pass.
type Report struct {
	Records          int `json:"records"`
	Accepted         int `json:"accepted"`
	DroppedRecords   int `json:"dropped_records"`
	DroppedLightning int `json:"dropped_lightning"`
}

// Normalize converts records into spins, preserving input order.
func Normalize(records []any, mapping model.FieldMapping) []model.Spin {
	spins, _ := NormalizeWithReport(records, mapping)
	return spins
}

// NormalizeWithReport is Normalize plus counts of what was kept and dropped.
func NormalizeWithReport(records []any, mapping model.FieldMapping) ([]model.Spin, Report) {
	rep := Report{Records: len(records)}
	spins := make([]model.Spin, 0, len(records))

	for _, rec := range records {
		spin, dropped, ok := normalizeRecord(rec, mapping)
		if !ok {
			rep.DroppedRecords++
			continue
		}
		rep.DroppedLightning += dropped
		spins = append(spins, spin)
	}
	rep.Accepted = len(spins)
	return spins, rep
}

// normalizeRecord returns the spin, the number of lightning entries dropped
// from it, and whether the record produced a spin at all.
func normalizeRecord(rec any, mapping model.FieldMapping) (model.Spin, int, bool) {
	n, ok := outcome(locator.Resolve(rec, mapping.Number, nil))
	if !ok {
		return model.Spin{}, 0, false
	}

	spin := model.Spin{Number: n, Lightning: []model.Lightning{}}
	if mapping.Time != "" {
		spin.Time = locator.Resolve(rec, mapping.Time, nil)
	}

	if mapping.LightningList == "" {
		return spin, 0, true
	}
	items, isList := locator.Resolve(rec, mapping.LightningList, []any{}).([]any)
	if !isList {
		return spin, 0, true
	}

	dropped := 0
	for _, item := range items {
		ln, ok := lightningNumber(item, mapping.LightningNumber)
		if !ok {
			dropped++
			continue
		}
		var mult any
		if mapping.LightningMultiplier != "" {
			mult = locator.Resolve(item, mapping.LightningMultiplier, nil)
		}
		spin.Lightning = append(spin.Lightning, model.Lightning{Number: ln, Multiplier: mult})
	}
	return spin, dropped, true
}

func lightningNumber(item any, loc string) (int, bool) {
	return outcome(locator.Resolve(item, loc, nil))
}

// outcome coerces v and keeps it only when it is a pocket on the wheel.
func outcome(v any) (int, bool) {
	n, ok := ToInt(v)
	if !ok || !wheel.Valid(n) {
		return 0, false
	}
	return n, true
}
