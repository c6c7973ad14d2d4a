package usercase_audio_util

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/dhowden/tag"
	"github.com/riddim-exe/riddim/domain/domain_file_entity"
	"github.com/riddim-exe/riddim/util/audio/audio_wav"
	"go.senan.xyz/taglib"
)

// AudioInfo 标签与流属性
type AudioInfo struct {
	Title      string
	Artist     string
	Album      string
	Genre      string
	SampleRate int
	Channels   int
	BitRate    int
	Duration   float64
}

// ReadAudioInfo 读取标签元数据；任何一步失败都只降级，不返回错误
func ReadAudioInfo(ctx context.Context, path, format string) *AudioInfo {
	info := &AudioInfo{}

	// 1. taglib
	if tags, err := taglib.ReadTags(path); err == nil {
		info.Title = getTagString(tags, taglib.Title)
		info.Artist = getTagString(tags, taglib.Artist)
		info.Album = getTagString(tags, taglib.Album)
		info.Genre = getTagString(tags, taglib.Genre)
	}
	if props, err := taglib.ReadProperties(path); err == nil {
		info.SampleRate = int(props.SampleRate)
		info.Channels = int(props.Channels)
		info.BitRate = int(props.Bitrate)
		info.Duration = props.Length.Seconds()
	}

	// 2. dhowden/tag 补全文本标签
	if info.Title == "" || info.Artist == "" {
		readTagFallback(path, info)
	}

	// 3. WAV 头与 INFO 块
	if format == domain_file_entity.FormatWAV && (info.SampleRate == 0 || info.Title == "") {
		if md, err := audio_wav.ReadMetadata(path); err == nil {
			fillString(&info.Title, convertToUTF8(md.Title))
			fillString(&info.Artist, convertToUTF8(md.Artist))
			fillString(&info.Genre, convertToUTF8(md.Genre))
			if info.SampleRate == 0 {
				info.SampleRate = md.SampleRate
				info.Channels = md.Channels
				info.BitRate = md.SampleRate * md.Channels * md.BitDepth
				info.Duration = md.Duration.Seconds()
			}
		}
	}

	// 4. ffprobe
	if info.SampleRate == 0 || format == domain_file_entity.FormatM4A {
		probe, err := ProbeMedia(ctx, path)
		if err != nil {
			log.Printf("ffprobe读取失败[%s]: %v", path, err)
			return info
		}
		fillString(&info.Title, probe.Tags["title"])
		fillString(&info.Artist, probe.Tags["artist"])
		fillString(&info.Album, probe.Tags["album"])
		fillString(&info.Genre, probe.Tags["genre"])
		if info.SampleRate == 0 {
			info.SampleRate = probe.SampleRate
			info.Channels = probe.Channels
			info.BitRate = probe.BitRate
			info.Duration = probe.Duration
		}
	}
	return info
}

func readTagFallback(path string, info *AudioInfo) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			log.Printf("文件关闭失败[%s]: %v", path, err)
		}
	}(file)

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		return
	}
	fillString(&info.Title, metadata.Title())
	fillString(&info.Artist, metadata.Artist())
	fillString(&info.Album, metadata.Album())
	fillString(&info.Genre, metadata.Genre())
}

func fillString(dst *string, v string) {
	v = strings.TrimSpace(v)
	if *dst == "" && v != "" {
		*dst = v
	}
}

func getTagString(tags map[string][]string, key string) string {
	if values, ok := tags[key]; ok && len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}
