package audio_wav

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
)

// Metadata is the subset of a RIFF INFO chunk plus format header shown next to an analysis.
type Metadata struct {
	Title  string
	Artist string
	Genre  string

	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

// ReadMetadata reads the header and INFO chunk without decoding PCM data.
func ReadMetadata(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开WAV文件失败: %w", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	md := &Metadata{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
	}
	if dur, err := d.Duration(); err == nil {
		md.Duration = dur
	}

	d.ReadMetadata()
	if d.Metadata != nil {
		md.Title = d.Metadata.Title
		md.Artist = d.Metadata.Artist
		md.Genre = d.Metadata.Genre
	}
	return md, nil
}
