package windower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/vidseq/pkg/frame"
)

var testShape = frame.Shape{Height: 2, Width: 3, Channels: 3}

// numbered returns a frame whose first sample carries its index.
func numbered(i int) frame.Frame {
	data := make([]uint8, testShape.Elements())
	data[0] = uint8(i)
	data[1] = uint8(i >> 8)
	f, err := frame.Wrap(testShape, data)
	if err != nil {
		panic(err)
	}
	return f
}

func indexOf(f frame.Frame) int {
	return int(f.At(0, 0, 0)) | int(f.At(0, 0, 1))<<8
}

// pushAll pushes count frames and returns every emitted window.
func pushAll(t *testing.T, w *Windower, start, count int) []Sequence {
	t.Helper()
	var out []Sequence
	for i := start; i < start+count; i++ {
		seq, ok, err := w.Push(numbered(i))
		require.NoError(t, err)
		if ok {
			out = append(out, seq)
		}
	}
	return out
}

func TestNew_InvalidConfig(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		w, err := New(n)
		assert.Nil(t, w)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	}
}

func TestNew_Initial(t *testing.T) {
	w, err := New(5)
	require.NoError(t, err)
	assert.Equal(t, 5, w.FramesPerSequence())
	assert.Equal(t, 0, w.Pending())
	assert.Equal(t, 0, w.TotalEmitted())
	_, locked := w.Signature()
	assert.False(t, locked)
}

func TestPush_FortyFramesFiveWide(t *testing.T) {
	w, err := New(5)
	require.NoError(t, err)

	seqs := pushAll(t, w, 0, 40)
	require.Len(t, seqs, 8)
	for k, seq := range seqs {
		require.Len(t, seq, 5)
		for j, f := range seq {
			assert.Equal(t, 5*k+j, indexOf(f), "window %d frame %d", k, j)
		}
	}
	assert.Equal(t, 8, w.TotalEmitted())
	assert.Equal(t, 0, w.Pending())
}

func TestPush_FewerThanWindow(t *testing.T) {
	w, err := New(5)
	require.NoError(t, err)

	seqs := pushAll(t, w, 0, 3)
	assert.Empty(t, seqs)
	assert.Equal(t, 3, w.Pending())
	assert.Equal(t, 0, w.TotalEmitted())
}

func TestPush_RemainderDropped(t *testing.T) {
	w, err := New(5)
	require.NoError(t, err)

	seqs := pushAll(t, w, 0, 13)
	require.Len(t, seqs, 2)
	assert.Equal(t, 0, indexOf(seqs[0][0]))
	assert.Equal(t, 4, indexOf(seqs[0][4]))
	assert.Equal(t, 5, indexOf(seqs[1][0]))
	assert.Equal(t, 9, indexOf(seqs[1][4]))
	assert.Equal(t, 3, w.Pending())

	assert.Equal(t, 3, w.Flush())
	assert.Equal(t, 0, w.Pending())
	assert.Equal(t, 2, w.TotalEmitted())
}

func TestPush_SingleFrameWindows(t *testing.T) {
	w, err := New(1)
	require.NoError(t, err)

	for i := 0; i < 7; i++ {
		seq, ok, err := w.Push(numbered(i))
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, seq, 1)
		assert.Equal(t, i, indexOf(seq[0]))
		assert.Equal(t, 0, w.Pending())
	}
	assert.Equal(t, 7, w.TotalEmitted())
}

func TestPush_Completeness(t *testing.T) {
	for n := 1; n <= 9; n++ {
		for f := 0; f <= 50; f++ {
			w, err := New(n)
			require.NoError(t, err)

			seqs := pushAll(t, w, 0, f)
			require.Len(t, seqs, f/n, "n=%d f=%d", n, f)

			next := 0
			for _, seq := range seqs {
				require.Len(t, seq, n)
				for _, fr := range seq {
					require.Equal(t, next, indexOf(fr), "n=%d f=%d", n, f)
					next++
				}
			}
			assert.Equal(t, n*(f/n), next)
			assert.Equal(t, f%n, w.Pending())
			assert.Equal(t, f%n, w.Flush())
		}
	}
}

func TestEmittedWindowIsNotAliased(t *testing.T) {
	w, err := New(2)
	require.NoError(t, err)

	seqs := pushAll(t, w, 0, 4)
	require.Len(t, seqs, 2)
	assert.Equal(t, 0, indexOf(seqs[0][0]))
	assert.Equal(t, 1, indexOf(seqs[0][1]))
	assert.Equal(t, 2, indexOf(seqs[1][0]))
}

func TestReset_Idempotent(t *testing.T) {
	fresh, err := New(4)
	require.NoError(t, err)
	want := pushAll(t, fresh, 100, 11)

	reused, err := New(4)
	require.NoError(t, err)
	pushAll(t, reused, 0, 6)
	reused.Reset()
	reused.Reset()

	assert.Equal(t, 0, reused.Pending())
	assert.Equal(t, 0, reused.TotalEmitted())
	assert.Equal(t, 4, reused.FramesPerSequence())

	got := pushAll(t, reused, 100, 11)
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "window %d", i)
	}
	assert.Equal(t, fresh.Pending(), reused.Pending())
	assert.Equal(t, fresh.TotalEmitted(), reused.TotalEmitted())
}

func TestReset_AllowsNewShape(t *testing.T) {
	w, err := New(2)
	require.NoError(t, err)
	pushAll(t, w, 0, 1)

	other, err := frame.Wrap(frame.Shape{Height: 4, Width: 4, Channels: 3}, make([]uint8, 48))
	require.NoError(t, err)

	_, _, err = w.Push(other)
	require.ErrorIs(t, err, ErrInvalidFrame)

	w.Reset()
	_, ok, err := w.Push(other)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFlush_KeepsSignature(t *testing.T) {
	w, err := New(3)
	require.NoError(t, err)
	pushAll(t, w, 0, 4)

	assert.Equal(t, 1, w.Flush())
	sig, locked := w.Signature()
	require.True(t, locked)
	assert.Equal(t, frame.Signature{Shape: testShape, DType: frame.Uint8}, sig)

	other, err := frame.Wrap(frame.Shape{Height: 4, Width: 4, Channels: 3}, make([]uint8, 48))
	require.NoError(t, err)
	_, _, err = w.Push(other)
	require.ErrorIs(t, err, ErrInvalidFrame)
	assert.Equal(t, 0, w.Pending())

	// The session continues with the original shape.
	seqs := pushAll(t, w, 10, 3)
	require.Len(t, seqs, 1)
	assert.Equal(t, 10, indexOf(seqs[0][0]))
	assert.Equal(t, 2, w.TotalEmitted())
}

func TestPush_ShapeChangeRejected(t *testing.T) {
	w, err := New(5)
	require.NoError(t, err)
	pushAll(t, w, 0, 7)

	pendingBefore := w.Pending()
	emittedBefore := w.TotalEmitted()

	wrong, err := frame.Wrap(frame.Shape{Height: 3, Width: 2, Channels: 3}, make([]uint8, 18))
	require.NoError(t, err)

	seq, ok, err := w.Push(wrong)
	require.ErrorIs(t, err, ErrInvalidFrame)
	assert.Nil(t, seq)
	assert.False(t, ok)
	assert.Equal(t, pendingBefore, w.Pending())
	assert.Equal(t, emittedBefore, w.TotalEmitted())

	// The stream continues as if the bad frame never arrived.
	seqs := pushAll(t, w, 7, 3)
	require.Len(t, seqs, 1)
	assert.Equal(t, 5, indexOf(seqs[0][0]))
	assert.Equal(t, 9, indexOf(seqs[0][4]))
}

func TestPush_MalformedRejected(t *testing.T) {
	w, err := New(3)
	require.NoError(t, err)

	_, _, err = w.Push(frame.Frame{})
	require.ErrorIs(t, err, ErrInvalidFrame)
	assert.ErrorIs(t, err, frame.ErrMalformed)
	assert.Equal(t, 0, w.Pending())

	// A malformed first frame must not lock the session signature.
	_, locked := w.Signature()
	assert.False(t, locked)
}

func TestSequence_Shape(t *testing.T) {
	w, err := New(3)
	require.NoError(t, err)
	seqs := pushAll(t, w, 0, 3)
	require.Len(t, seqs, 1)
	assert.Equal(t, [4]int{3, 2, 3, 3}, seqs[0].Shape())
	assert.Equal(t, [4]int{}, Sequence(nil).Shape())
}
