package scene_audio_analysis_repository

import (
	"regexp"
	"strings"

	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_models"
	"github.com/siongui/gojianfan"
)

// searchVariants 生成简繁体四重匹配的关键字（去重）
func searchVariants(input string) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	t2s := gojianfan.T2S(input)         // 繁体转简体
	s2t := gojianfan.S2T(input)         // 简体转繁体
	doubleConvert := gojianfan.S2T(t2s) // 双重转换

	seen := make(map[string]struct{}, 4)
	var out []string
	for _, v := range []string{input, t2s, s2t, doubleConvert} {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// buildSearchRegex 对每个变体进行正则转义并组合
func buildSearchRegex(input string) string {
	variants := searchVariants(input)
	patterns := make([]string, len(variants))
	for i, v := range variants {
		patterns[i] = regexp.QuoteMeta(v)
	}
	return strings.Join(patterns, "|")
}

// searchableFields 参与搜索的文本字段
var searchableFields = []string{"name", "title", "artist", "album"}

func searchableText(a *scene_audio_analysis_models.AudioAnalysis) []string {
	return []string{a.Name, a.Title, a.Artist, a.Album}
}

func matchesSearch(a *scene_audio_analysis_models.AudioAnalysis, variants []string) bool {
	if len(variants) == 0 {
		return true
	}
	for _, text := range searchableText(a) {
		lower := strings.ToLower(text)
		for _, v := range variants {
			if strings.Contains(lower, strings.ToLower(v)) {
				return true
			}
		}
	}
	return false
}
