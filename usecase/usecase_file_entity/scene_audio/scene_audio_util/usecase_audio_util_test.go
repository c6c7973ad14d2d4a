package usercase_audio_util

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/riddim-exe/riddim/domain"
	"github.com/riddim-exe/riddim/domain/domain_file_entity"
	"github.com/riddim-exe/riddim/util/audio/audio_wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTone(t *testing.T, dir string, sr int, seconds float64) string {
	t.Helper()
	n := int(float64(sr) * seconds)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(sr))
	}
	path := filepath.Join(dir, "tone.wav")
	require.NoError(t, audio_wav.WriteMono(path, samples, sr))
	return path
}

func TestDecodeWAVResamples(t *testing.T) {
	path := writeTone(t, t.TempDir(), 44100, 1)

	sig, err := DecodeFile(context.Background(), path, domain_file_entity.FormatWAV, 22050)
	require.NoError(t, err)
	assert.Equal(t, 22050, sig.SampleRate)
	assert.InDelta(t, 22050, len(sig.Samples), 2)
	assert.InDelta(t, 1.0, sig.Duration(), 0.01)
}

func TestDecodeRejectsUnknownFormat(t *testing.T) {
	_, err := DecodeFile(context.Background(), "x.aiff", "aiff", 22050)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestDecodeCorruptedOGG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.ogg")
	require.NoError(t, os.WriteFile(path, []byte("not an ogg stream"), 0o644))

	_, err := DecodeFile(context.Background(), path, domain_file_entity.FormatOGG, 22050)
	assert.ErrorIs(t, err, domain.ErrCorruptedFile)
}

func TestReadAudioInfoFromWAVHeader(t *testing.T) {
	path := writeTone(t, t.TempDir(), 22050, 0.5)

	info := ReadAudioInfo(context.Background(), path, domain_file_entity.FormatWAV)
	assert.Equal(t, 22050, info.SampleRate)
	assert.Equal(t, 1, info.Channels)
	assert.InDelta(t, 0.5, info.Duration, 0.01)
}

func TestChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bin")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	sum, size, err := Checksum(path)
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", sum)
}

func TestSortKey(t *testing.T) {
	key, py := SortKey("电子 Beat")
	assert.Equal(t, "dian zi beat", key)
	assert.Equal(t, []string{"dian", "zi"}, py)

	key, py = SortKey("Metre_Fault_Line.mp3")
	assert.Equal(t, "metre_fault_line.mp3", key)
	assert.Empty(t, py)
}

func TestConvertToUTF8(t *testing.T) {
	gbk := string([]byte{0xD6, 0xD0, 0xCE, 0xC4})
	assert.Equal(t, "中文", convertToUTF8(gbk))
	assert.Equal(t, "riddim", convertToUTF8("riddim"))
}

func TestParseProbe(t *testing.T) {
	data := `{
        "streams": [
            {"codec_type": "video", "codec_name": "mjpeg"},
            {"codec_type": "audio", "codec_name": "mp3", "channels": 2, "sample_rate": "44100"}
        ],
        "format": {"duration": "215.5", "bit_rate": "320000", "tags": {"title": "Fault Line", "artist": "Metre"}}
    }`
	info := parseProbe(data)
	assert.Equal(t, "mp3", info.CodecName)
	assert.Equal(t, 2, info.Channels)
	assert.Equal(t, 44100, info.SampleRate)
	assert.Equal(t, 320000, info.BitRate)
	assert.InDelta(t, 215.5, info.Duration, 1e-9)
	assert.Equal(t, "Metre", info.Tags["artist"])
}
