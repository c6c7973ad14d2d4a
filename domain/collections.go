package domain

const (
	CollectionFileEntityAudioSceneAnalysis = "file_entity_audio_scene_analysis"
)
const (
	CollectionFileEntityAudioSceneGeneration = "file_entity_audio_scene_generation"
)
