package recording_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/aretw0/ltree/pkg/adapters/recording"
	"github.com/aretw0/ltree/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drawSample(s ports.Surface) {
	s.Translate(10, 20)
	s.Save()
	s.Rotate(math.Pi / 2)
	s.BeginPath()
	s.MoveTo(0, 0)
	s.LineTo(0, 5)
	s.SetStrokeStyle(ports.RGBA{R: 1, G: 2, B: 3, A: 0.5})
	s.SetLineWidth(2)
	s.SetLineCap(ports.LineCapRound)
	s.Stroke()
	s.Arc(0, 0, 3, 0, 2*math.Pi, true)
	s.SetFillStyle(ports.RGBA{G: 100, A: 1})
	s.Fill()
	s.Scale(1, 2)
	s.Restore()
	s.SetTransformIdentity()
}

func TestRecorder_RecordsCalls(t *testing.T) {
	rec := recording.NewRecorder(640, 480)
	drawSample(rec)

	cmds := rec.Commands()
	require.Len(t, cmds, 16)
	assert.Equal(t, recording.Command{Op: recording.OpTranslate, Args: []float64{10, 20}}, cmds[0])
	assert.Equal(t, recording.OpSave, cmds[1].Op)
	assert.Equal(t, ports.LineCapRound, cmds[8].Cap)
	assert.True(t, cmds[10].CCW)
	assert.Equal(t, recording.OpSetTransformIdentity, cmds[15].Op)
	assert.Equal(t, 0, rec.Depth())
	assert.Equal(t, 640.0, rec.Width())
	assert.Equal(t, 480.0, rec.Height())
}

func TestRecorder_DepthNeverNegative(t *testing.T) {
	rec := recording.NewRecorder(1, 1)
	rec.Restore()
	assert.Equal(t, 0, rec.Depth())
	rec.Save()
	rec.Save()
	assert.Equal(t, 2, rec.Depth())

	rec.Reset()
	assert.Equal(t, 0, rec.Len())
	assert.Equal(t, 0, rec.Depth())
}

func TestPlayback_RoundTripsThroughJSON(t *testing.T) {
	src := recording.NewRecorder(100, 100)
	drawSample(src)

	data, err := json.Marshal(src.Commands())
	require.NoError(t, err)

	var decoded []recording.Command
	require.NoError(t, json.Unmarshal(data, &decoded))

	dst := recording.NewRecorder(100, 100)
	require.NoError(t, recording.Playback(decoded, dst))
	assert.Equal(t, src.Commands(), dst.Commands())
}

func TestPlayback_RejectsMalformed(t *testing.T) {
	dst := recording.NewRecorder(1, 1)

	err := recording.Playback([]recording.Command{{Op: recording.OpLineTo, Args: []float64{1}}}, dst)
	assert.Error(t, err)

	err = recording.Playback([]recording.Command{{Op: recording.OpFillStyle}}, dst)
	assert.Error(t, err)

	err = recording.Playback([]recording.Command{{Op: "bezierCurveTo"}}, dst)
	assert.ErrorContains(t, err, "unknown op")
}
