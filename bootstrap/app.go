package bootstrap

import (
	"time"

	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_interface"
	"github.com/riddim-exe/riddim/usecase/usecase_file_entity/scene_audio/scene_audio_analysis_usecase"
	"github.com/riddim-exe/riddim/util/generative"
)

type Application struct {
	Env        *Env
	Store      *Store
	Analysis   scene_audio_analysis_interface.AnalysisUsecase
	Generation scene_audio_analysis_interface.GenerationUsecase
}

// App 组装配置、存储与用例；driver 非空时覆盖 DB_DRIVER
func App(configFile, driver string) (*Application, error) {
	env := NewEnv(configFile)
	if driver != "" {
		env.DBDriver = driver
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}

	store, err := NewStore(env)
	if err != nil {
		return nil, err
	}
	return NewApplication(env, store), nil
}

func NewApplication(env *Env, store *Store) *Application {
	timeout := time.Duration(env.ContextTimeout) * time.Second

	analysis := scene_audio_analysis_usecase.NewAnalysisUsecase(
		store.Analyses,
		scene_audio_analysis_usecase.AnalysisConfig{
			DefaultAudioPath: env.DefaultAudioPath,
			UploadDir:        env.UploadDir,
			MaxUploadBytes:   env.MaxUploadBytes(),
			SampleRate:       env.AnalysisSampleRate,
		},
		timeout,
	)

	generation := scene_audio_analysis_usecase.NewGenerationUsecase(
		store.Analyses,
		store.Generations,
		generative.NewSequenceModelGenerator(env.GeneratorCommand, ""),
		scene_audio_analysis_usecase.GenerationConfig{
			OutputDir:   env.GeneratorOutputDir,
			Steps:       env.GeneratorSteps,
			Temperature: env.GeneratorTemperature,
		},
		time.Duration(env.GeneratorTimeoutSecond)*time.Second,
	)

	return &Application{
		Env:        env,
		Store:      store,
		Analysis:   analysis,
		Generation: generation,
	}
}

func (app *Application) Close() {
	app.Store.Close()
}
