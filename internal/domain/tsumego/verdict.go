package tsumego

import (
	"github.com/pkg/errors"

	"tsumego_lab/internal/domain/board"
	errs "tsumego_lab/internal/errors"
)

// IsOwnedBy reports whether the engine is confident that color owns every
// point of mask: each estimate must lie strictly beyond +threshold for Black
// or -threshold for White. An empty mask is trivially owned.
func IsOwnedBy(own *Ownership, mask *Mask, color board.Color, threshold float64) bool {
	for _, p := range mask.Points() {
		v := own.At(p) * float64(color)
		if !(v > threshold) {
			return false
		}
	}
	return true
}

// Evaluate judges whether the claimed status of the framed group holds under
// the frame's ko regime. toKill claims that Attacker kills the group,
// otherwise it claims that the group survives Defender.
func Evaluate(f *Frame, own *Ownership, toKill bool, threshold float64) (bool, error) {
	if own.Width() != f.Width() || own.Height() != f.Height() {
		return false, errors.WithMessagef(errs.ErrShapeMismatch,
			"ownership %dx%d, frame %dx%d", own.Width(), own.Height(), f.Width(), f.Height())
	}
	if !(threshold > 0 && threshold < 1) {
		return false, errors.WithMessagef(errs.ErrMalformedInput, "ownership threshold %v", threshold)
	}

	groupAttacker := IsOwnedBy(own, f.Inside, Attacker, threshold)
	groupDefender := IsOwnedBy(own, f.Inside, Defender, threshold)
	koAttacker := IsOwnedBy(own, f.KoCheck, Attacker, threshold)
	koDefender := IsOwnedBy(own, f.KoCheck, Defender, threshold)

	switch {
	case toKill && f.KoAllowed:
		return groupAttacker || !koDefender, nil
	case toKill:
		return groupAttacker && koAttacker, nil
	case f.KoAllowed:
		return !groupDefender || koAttacker, nil
	default:
		return !groupDefender && !koDefender, nil
	}
}
