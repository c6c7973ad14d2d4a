package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_interface"
	"github.com/riddim-exe/riddim/mongo"
	"github.com/riddim-exe/riddim/repository/repository_file_entity/scene_audio/scene_audio_analysis_repository"
)

const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Store 按 DB_DRIVER 选择的存储后端
type Store struct {
	Driver      string
	Analyses    scene_audio_analysis_interface.AnalysisRepository
	Generations scene_audio_analysis_interface.GenerationRepository

	mongoClient mongo.Client
	sqliteDB    *sql.DB
}

func NewStore(env *Env) (*Store, error) {
	switch env.DBDriver {
	case DriverMongo:
		client, err := NewMongoDatabase(env)
		if err != nil {
			return nil, err
		}
		db := client.Database(env.DBName)
		mongo.CreateIndexes(db)
		return &Store{
			Driver:      DriverMongo,
			Analyses:    scene_audio_analysis_repository.NewAnalysisMongoRepository(db),
			Generations: scene_audio_analysis_repository.NewGenerationMongoRepository(db),
			mongoClient: client,
		}, nil
	case DriverSQLite:
		if dir := filepath.Dir(env.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("创建数据目录失败: %w", err)
			}
		}
		db, err := scene_audio_analysis_repository.OpenSQLite(env.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver:      DriverSQLite,
			Analyses:    scene_audio_analysis_repository.NewAnalysisSQLiteRepository(db),
			Generations: scene_audio_analysis_repository.NewGenerationSQLiteRepository(db),
			sqliteDB:    db,
		}, nil
	case DriverMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("未知的 DB_DRIVER: %q", env.DBDriver)
}

func NewMemoryStore() *Store {
	return &Store{
		Driver:      DriverMemory,
		Analyses:    scene_audio_analysis_repository.NewAnalysisMemoryRepository(),
		Generations: scene_audio_analysis_repository.NewGenerationMemoryRepository(),
	}
}

func (s *Store) Close() {
	if s.mongoClient != nil {
		CloseMongoDBConnection(s.mongoClient)
	}
	if s.sqliteDB != nil {
		if err := s.sqliteDB.Close(); err != nil {
			log.Printf("关闭SQLite失败: %v", err)
		}
	}
}

func NewMongoDatabase(env *Env) (mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongodbURI := fmt.Sprintf("mongodb://%s:%s@%s:%s", env.DBUser, env.DBPass, env.DBHost, env.DBPort)
	if env.DBUser == "" || env.DBPass == "" {
		mongodbURI = fmt.Sprintf("mongodb://%s:%s", env.DBHost, env.DBPort)
	}

	client, err := mongo.NewClient(mongodbURI)
	if err != nil {
		return nil, fmt.Errorf("创建MongoDB客户端失败: %w", err)
	}
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("连接MongoDB失败: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("MongoDB不可达: %w", err)
	}
	return client, nil
}

func CloseMongoDBConnection(client mongo.Client) {
	if client == nil {
		return
	}
	if err := client.Disconnect(context.TODO()); err != nil {
		log.Printf("关闭MongoDB连接失败: %v", err)
		return
	}
	log.Println("Connection to MongoDB closed.")
}
