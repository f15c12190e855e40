package tsumego

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsumego_lab/internal/domain/board"
	errs "tsumego_lab/internal/errors"
)

// paint builds an ownership map for f: inside gets in, the ko-check region
// gets ko and everything else rest.
func paint(t *testing.T, f *Frame, in, ko, rest float64) *Ownership {
	t.Helper()
	w, h := f.Width(), f.Height()
	values := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := board.Point{X: x, Y: y}
			switch {
			case f.Inside.Get(p):
				values[y*w+x] = in
			case f.KoCheck.Get(p):
				values[y*w+x] = ko
			default:
				values[y*w+x] = rest
			}
		}
	}
	own, err := NewOwnership(values, w, h)
	require.NoError(t, err)
	return own
}

func TestNewOwnership(t *testing.T) {
	own, err := NewOwnership([]float64{0.1, 0.2, 0.3, -0.4, -0.5, -0.6}, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, own.Width())
	assert.Equal(t, 2, own.Height())
	assert.Equal(t, 0.3, own.At(board.Point{2, 0}))
	assert.Equal(t, -0.4, own.At(board.Point{0, 1}))
	assert.Equal(t, 0.0, own.At(board.Point{3, 0}))
	assert.Equal(t, []float64{0.1, 0.2, 0.3, -0.4, -0.5, -0.6}, own.Values())

	_, err = NewOwnership([]float64{1, 2, 3}, 2, 2)
	assert.True(t, errors.Is(err, errs.ErrShapeMismatch))
}

func TestIsOwnedBy(t *testing.T) {
	own, err := NewOwnership([]float64{0.9, 0.7, -0.9, 0.5}, 2, 2)
	require.NoError(t, err)

	top := Rect(2, 2, 0, 0, 2, 1)
	assert.True(t, IsOwnedBy(own, top, board.Black, 0.6))
	assert.False(t, IsOwnedBy(own, top, board.Black, 0.7), "strictly beyond the threshold")
	assert.False(t, IsOwnedBy(own, top, board.White, 0.6))
	assert.True(t, IsOwnedBy(own, Rect(2, 2, 0, 1, 1, 2), board.White, 0.6))
	assert.True(t, IsOwnedBy(own, Rect(2, 2, 0, 0, 0, 0), board.White, 0.6), "empty mask")
}

var evaluateTests = []struct {
	name   string
	in, ko float64 // ownership in the white frame's group and ko region
	killKo bool
	kill   bool
	liveKo bool
	live   bool
}{
	{"black owns all", 1, 1, true, true, true, true},
	{"white owns all", -1, -1, false, false, false, false},
	{"black group, white ko", 1, -1, true, false, true, false},
	{"white group, black ko", -1, 1, true, false, true, false},
	{"unresolved", 0, 0, true, false, true, true},
}

func TestEvaluate(t *testing.T) {
	noKo, err := Synthesize(cornerGroup(t), Options{WallDistance: DefaultWallDistance})
	require.NoError(t, err)
	withKo, err := Synthesize(cornerGroup(t), Options{KoAllowed: true, WallDistance: DefaultWallDistance})
	require.NoError(t, err)
	require.Equal(t, board.White, noKo.FrameColor)

	check := func(f *Frame, own *Ownership, toKill, want bool, name string) {
		got, err := Evaluate(f, own, toKill, DefaultOwnershipThreshold)
		require.NoError(t, err)
		assert.Equal(t, want, got, "%s toKill=%v ko=%v", name, toKill, f.KoAllowed)
	}
	for _, tc := range evaluateTests {
		check(withKo, paint(t, withKo, tc.in, tc.ko, 0), true, tc.killKo, tc.name)
		check(noKo, paint(t, noKo, tc.in, tc.ko, 0), true, tc.kill, tc.name)
		check(withKo, paint(t, withKo, tc.in, tc.ko, 0), false, tc.liveKo, tc.name)
		check(noKo, paint(t, noKo, tc.in, tc.ko, 0), false, tc.live, tc.name)
	}
}

func TestEvaluate_LivingGroup(t *testing.T) {
	for _, ko := range []bool{false, true} {
		f, err := Synthesize(cornerGroup(t), Options{KoAllowed: ko, WallDistance: DefaultWallDistance})
		require.NoError(t, err)
		require.Equal(t, board.White, f.FrameColor)
		require.False(t, f.ToKill())

		// the black group is certainly alive, nothing else is decided
		own := paint(t, f, 1, DefaultOwnershipThreshold, DefaultOwnershipThreshold)
		ok, err := Evaluate(f, own, f.ToKill(), DefaultOwnershipThreshold)
		require.NoError(t, err)
		assert.True(t, ok, "ko=%v", ko)
	}
}

// whiteCorner is a white group in the top-left corner, framed by Black.
func whiteCorner(t *testing.T) *board.Grid {
	return place(t, emptyGrid(t, 19, 19), board.White, board.Point{0, 2}, board.Point{1, 2}, board.Point{2, 1})
}

var framedGroupTests = []struct {
	frame  board.Color
	alive  bool // the framed group owns its region, otherwise the frame does
	koWon  bool // Black owns the ko region, otherwise White does
	noKo   bool
	withKo bool
}{
	{board.White, true, true, true, true},
	{board.White, true, false, false, true},
	{board.White, false, true, false, true},
	{board.White, false, false, false, false},
	{board.Black, true, true, false, true},
	{board.Black, true, false, false, false},
	{board.Black, false, true, true, true},
	{board.Black, false, false, false, true},
}

func TestEvaluate_FramedGroups(t *testing.T) {
	problems := map[board.Color]func(*testing.T) *board.Grid{
		board.White: cornerGroup,
		board.Black: whiteCorner,
	}
	for _, tc := range framedGroupTests {
		for _, ko := range []bool{false, true} {
			f, err := Synthesize(problems[tc.frame](t), Options{KoAllowed: ko, WallDistance: DefaultWallDistance})
			require.NoError(t, err)
			require.Equal(t, tc.frame, f.FrameColor)

			in := float64(f.FrameColor)
			if tc.alive {
				in = float64(f.GroupColor())
			}
			koOwner := float64(Defender)
			if tc.koWon {
				koOwner = float64(Attacker)
			}
			got, err := Evaluate(f, paint(t, f, in, koOwner, 0), f.ToKill(), DefaultOwnershipThreshold)
			require.NoError(t, err)

			want := tc.noKo
			if ko {
				want = tc.withKo
			}
			assert.Equal(t, want, got, "frame %v alive=%v koWon=%v ko=%v", tc.frame.String(), tc.alive, tc.koWon, ko)
		}
	}
}

func TestEvaluate_Errors(t *testing.T) {
	f, err := Synthesize(cornerGroup(t), Options{WallDistance: DefaultWallDistance})
	require.NoError(t, err)

	small, err := NewOwnership(make([]float64, 9*9), 9, 9)
	require.NoError(t, err)
	_, err = Evaluate(f, small, true, DefaultOwnershipThreshold)
	assert.True(t, errors.Is(err, errs.ErrShapeMismatch))

	own := paint(t, f, 0, 0, 0)
	for _, thr := range []float64{0, 1, -0.5, 1.5} {
		_, err = Evaluate(f, own, true, thr)
		assert.True(t, errors.Is(err, errs.ErrMalformedInput), "threshold %v", thr)
	}
}
