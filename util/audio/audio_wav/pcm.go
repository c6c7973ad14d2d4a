package audio_wav

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var ErrInvalidWAV = errors.New("invalid WAV file")

// PCM is decoded, interleaved audio scaled to [-1, 1].
type PCM struct {
	Samples    []float64
	SampleRate int
	Channels   int
	BitDepth   int
}

// Decode reads a whole WAV stream.
func Decode(r io.ReadSeeker) (*PCM, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("读取PCM数据失败: %w", err)
	}
	if buf == nil || buf.Format == nil {
		return nil, ErrInvalidWAV
	}

	bitDepth := int(d.BitDepth)
	if buf.SourceBitDepth > 0 {
		bitDepth = buf.SourceBitDepth
	}

	return &PCM{
		Samples:    scaleInts(buf.Data, bitDepth),
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
		BitDepth:   bitDepth,
	}, nil
}

// DecodeFile opens and decodes path.
func DecodeFile(path string) (*PCM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开WAV文件失败: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// WriteMono writes samples as 16-bit mono PCM.
func WriteMono(path string, samples []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建WAV文件失败: %w", err)
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	data := make([]int, len(samples))
	for i, s := range samples {
		s = math.Max(-1, math.Min(1, s))
		data[i] = int(math.Round(s * math.MaxInt16))
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("写入PCM数据失败: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("关闭WAV编码器失败: %w", err)
	}
	return f.Close()
}

func scaleInts(data []int, bitDepth int) []float64 {
	out := make([]float64, len(data))
	if bitDepth == 8 {
		// 8位WAV为无符号样本
		for i, v := range data {
			out[i] = float64(v-128) / 128
		}
		return out
	}
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := math.Pow(2, float64(bitDepth-1))
	for i, v := range data {
		out[i] = float64(v) / scale
	}
	return out
}
