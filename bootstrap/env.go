package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/riddim-exe/riddim/util/audio/audio_feature"
	"github.com/spf13/viper"
)

type Env struct {
	AppEnv                 string  `mapstructure:"APP_ENV"`
	ServerAddress          string  `mapstructure:"SERVER_ADDRESS"`
	ContextTimeout         int     `mapstructure:"CONTEXT_TIMEOUT"`
	DBDriver               string  `mapstructure:"DB_DRIVER"`
	DBHost                 string  `mapstructure:"DB_HOST"`
	DBPort                 string  `mapstructure:"DB_PORT"`
	DBUser                 string  `mapstructure:"DB_USER"`
	DBPass                 string  `mapstructure:"DB_PASS"`
	DBName                 string  `mapstructure:"DB_NAME"`
	SQLitePath             string  `mapstructure:"SQLITE_PATH"`
	AccessTokenSecret      string  `mapstructure:"ACCESS_TOKEN_SECRET"`
	AccessTokenExpiryHour  int     `mapstructure:"ACCESS_TOKEN_EXPIRY_HOUR"`
	DefaultAudioPath       string  `mapstructure:"DEFAULT_AUDIO_PATH"`
	UploadDir              string  `mapstructure:"UPLOAD_DIR"`
	MaxUploadMB            int64   `mapstructure:"MAX_UPLOAD_MB"`
	AnalysisSampleRate     int     `mapstructure:"ANALYSIS_SAMPLE_RATE"`
	GeneratorCommand       string  `mapstructure:"GENERATOR_COMMAND"`
	GeneratorOutputDir     string  `mapstructure:"GENERATOR_OUTPUT_DIR"`
	GeneratorSteps         int     `mapstructure:"GENERATOR_STEPS"`
	GeneratorTemperature   float64 `mapstructure:"GENERATOR_TEMPERATURE"`
	GeneratorTimeoutSecond int     `mapstructure:"GENERATOR_TIMEOUT_SECONDS"`
}

var envDefaults = map[string]interface{}{
	"APP_ENV":                   "development",
	"SERVER_ADDRESS":            ":8080",
	"CONTEXT_TIMEOUT":           120,
	"DB_DRIVER":                 "sqlite",
	"DB_HOST":                   "localhost",
	"DB_PORT":                   "27017",
	"DB_USER":                   "",
	"DB_PASS":                   "",
	"DB_NAME":                   "riddim",
	"SQLITE_PATH":               filepath.Join("data", "riddim.db"),
	"ACCESS_TOKEN_SECRET":       "",
	"ACCESS_TOKEN_EXPIRY_HOUR":  2,
	"DEFAULT_AUDIO_PATH":        filepath.Join("music_files", "Metre_Fault_Line.mp3"),
	"UPLOAD_DIR":                filepath.Join("data", "uploads"),
	"MAX_UPLOAD_MB":             50,
	"ANALYSIS_SAMPLE_RATE":      22050,
	"GENERATOR_COMMAND":         "",
	"GENERATOR_OUTPUT_DIR":      filepath.Join("data", "generated"),
	"GENERATOR_STEPS":           128,
	"GENERATOR_TEMPERATURE":     1.0,
	"GENERATOR_TIMEOUT_SECONDS": 300,
}

// NewEnv 读取 .env，环境变量优先
func NewEnv(configFile string) *Env {
	v := viper.New()
	for key, value := range envDefaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if configFile == "" {
		configFile = ".env"
	}
	v.SetConfigFile(configFile)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		// 配置文件不存在时静默使用默认值
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("未读取到配置文件 %s，使用默认值与环境变量: %v", configFile, err)
		}
	}

	env := Env{}
	if err := v.Unmarshal(&env); err != nil {
		log.Fatal("Environment can't be loaded: ", err)
	}

	if env.AppEnv == "development" {
		log.Println("The App is running in development env")
	}
	return &env
}

func (e *Env) MaxUploadBytes() int64 {
	return e.MaxUploadMB << 20
}

// Validate 启动前校验配置
func (e *Env) Validate() error {
	if minRate := audio_feature.DefaultOptions().MinSampleRate(); e.AnalysisSampleRate <= minRate {
		return fmt.Errorf("ANALYSIS_SAMPLE_RATE 必须大于 %d，当前为 %d", minRate, e.AnalysisSampleRate)
	}
	return nil
}
