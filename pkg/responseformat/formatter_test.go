package responseformat

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type sample struct {
	Step      string  `json:"step"`
	GlareRisk float64 `json:"glare_risk"`
	DayOpen   int     `json:"day_open"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", JSON, false},
		{"json", JSON, false},
		{" MsgPack ", MsgPack, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(JSON).Write(&buf, sample{Step: "high", GlareRisk: 71.5, DayOpen: 45}))
	require.Equal(t, "{\n  \"step\": \"high\",\n  \"glare_risk\": 71.5,\n  \"day_open\": 45\n}\n", buf.String())
}

func TestWriteMsgPackUsesJSONKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(MsgPack).Write(&buf, sample{Step: "low", GlareRisk: 22.4, DayOpen: 97}))

	var decoded map[string]any
	require.NoError(t, msgpack.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "low", decoded["step"])
	require.EqualValues(t, 22.4, decoded["glare_risk"])
	require.EqualValues(t, 97, decoded["day_open"])
}
