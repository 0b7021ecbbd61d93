package bmff

import (
	"testing"

	"github.com/bluenviron/mediacommon/v2/pkg/codecs/h265"
	"github.com/stretchr/testify/require"
)

var casesHEVCConfig = []struct {
	name string
	buf  []byte
	conf HEVCConfig
}{
	{
		"standard",
		mergeBytes(
			[]byte{
				0x01,                   // configuration version
				0x01,                   // profile space, tier, profile idc
				0x60, 0x00, 0x00, 0x00, // profile compatibility flags
				0x90, 0x00, 0x00, 0x00, 0x00, 0x00, // constraint indicator flags
				0x5d,       // level idc
				0xf0, 0x00, // min spatial segmentation idc
				0xfc,       // parallelism type
				0xfd,       // chroma format idc
				0xf8,       // bit depth luma
				0xf8,       // bit depth chroma
				0x00, 0x00, // average frame rate
				0x0f, // num temporal layers, temporal id nested, length size
				0x03, // num of arrays
			},
			[]byte{0xa0, 0x00, 0x01, 0x00, 0x03}, []byte{0x40, 0x01, 0x0c},
			[]byte{0xa1, 0x00, 0x01, 0x00, 0x04}, []byte{0x42, 0x01, 0x01, 0x01},
			[]byte{0xa2, 0x00, 0x01, 0x00, 0x02}, []byte{0x44, 0x01},
		),
		HEVCConfig{
			ConfigurationVersion:             1,
			GeneralProfileIdc:                1,
			GeneralProfileCompatibilityFlags: 0x60000000,
			GeneralConstraintIndicatorFlags:  0x900000000000,
			GeneralLevelIdc:                  93,
			ChromaFormatIdc:                  1,
			NumTemporalLayers:                1,
			TemporalIDNested:                 true,
			LengthSizeMinusOne:               3,
			Arrays: []*HEVCNALUnitArray{
				{
					Completeness: true,
					NALUnitType:  h265.NALUType_VPS_NUT,
					Units:        [][]byte{{0x40, 0x01, 0x0c}},
				},
				{
					Completeness: true,
					NALUnitType:  h265.NALUType_SPS_NUT,
					Units:        [][]byte{{0x42, 0x01, 0x01, 0x01}},
				},
				{
					Completeness: true,
					NALUnitType:  h265.NALUType_PPS_NUT,
					Units:        [][]byte{{0x44, 0x01}},
				},
			},
		},
	},
}

func TestHEVCConfigUnmarshal(t *testing.T) {
	for _, ca := range casesHEVCConfig {
		t.Run(ca.name, func(t *testing.T) {
			var conf HEVCConfig
			err := conf.Unmarshal(ca.buf)
			require.NoError(t, err)
			require.Equal(t, ca.conf, conf)
		})
	}
}

func TestHEVCConfigSPS(t *testing.T) {
	var conf HEVCConfig
	err := conf.Unmarshal(casesHEVCConfig[0].buf)
	require.NoError(t, err)
	require.Equal(t, []byte{0x42, 0x01, 0x01, 0x01}, conf.SPS())

	require.Nil(t, (&HEVCConfig{}).SPS())
}

func TestHEVCConfigNALStream(t *testing.T) {
	var conf HEVCConfig
	err := conf.Unmarshal(casesHEVCConfig[0].buf)
	require.NoError(t, err)

	require.Equal(t, mergeBytes(
		[]byte{0x00, 0x00, 0x00, 0x03}, []byte{0x40, 0x01, 0x0c},
		[]byte{0x00, 0x00, 0x00, 0x04}, []byte{0x42, 0x01, 0x01, 0x01},
		[]byte{0x00, 0x00, 0x00, 0x02}, []byte{0x44, 0x01},
	), conf.NALStream())
}

func TestHEVCConfigErrors(t *testing.T) {
	for _, ca := range []struct {
		name string
		buf  []byte
	}{
		{
			"empty",
			nil,
		},
		{
			"truncated record",
			[]byte{0x01, 0x01, 0x60},
		},
		{
			"truncated array",
			mergeBytes(
				casesHEVCConfig[0].buf[:22],
				[]byte{0x01},
				[]byte{0xa0, 0x00, 0x01, 0x00, 0x10, 0x42},
			),
		},
	} {
		t.Run(ca.name, func(t *testing.T) {
			var conf HEVCConfig
			err := conf.Unmarshal(ca.buf)
			require.Error(t, err)
		})
	}
}

func FuzzHEVCConfigUnmarshal(f *testing.F) {
	for _, ca := range casesHEVCConfig {
		f.Add(ca.buf)
	}

	f.Fuzz(func(_ *testing.T, buf []byte) {
		var conf HEVCConfig
		conf.Unmarshal(buf) //nolint:errcheck
	})
}
