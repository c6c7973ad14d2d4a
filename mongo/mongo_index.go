package mongo

import (
	"context"
	"log"
	"time"

	"github.com/riddim-exe/riddim/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func CreateIndexes(db Database) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Analysis Collection
	analysisCollection := db.Collection(domain.CollectionFileEntityAudioSceneAnalysis)
	createUniqueIndex(ctx, analysisCollection, bson.D{
		{Key: "checksum", Value: 1},
		{Key: "analyzer_version", Value: 1}}, "checksum_version_unique")
	createIndex(ctx, analysisCollection, bson.D{{Key: "created_at", Value: -1}}, "created_at")
	createIndex(ctx, analysisCollection, bson.D{{Key: "sort_name", Value: 1}}, "sort_name")
	createIndex(ctx, analysisCollection, bson.D{{Key: "tempo", Value: -1}}, "tempo")
	createIndex(ctx, analysisCollection, bson.D{{Key: "duration", Value: -1}}, "duration")

	// Generation Collection
	generationCollection := db.Collection(domain.CollectionFileEntityAudioSceneGeneration)
	createIndex(ctx, generationCollection, bson.D{
		{Key: "analysis_id", Value: 1},
		{Key: "created_at", Value: -1}}, "analysis_created_compound")
	createIndex(ctx, generationCollection, bson.D{{Key: "status", Value: 1}}, "status")
}

func createIndex(
	ctx context.Context,
	collection Collection,
	keys bson.D,
	name string,
) {
	ensureIndex(ctx, collection, mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetName(name),
	}, name)
}

func createUniqueIndex(
	ctx context.Context,
	collection Collection,
	keys bson.D,
	name string,
) {
	ensureIndex(ctx, collection, mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetName(name).SetUnique(true),
	}, name)
}

// 已存在同名索引时跳过
func ensureIndex(ctx context.Context, collection Collection, model mongo.IndexModel, name string) {
	specs, err := collection.Indexes().ListSpecifications(ctx)
	if err != nil {
		log.Printf("检查索引失败: %v", err)
	}
	for _, spec := range specs {
		if spec.Name == name {
			return
		}
	}

	if _, err := collection.Indexes().CreateOne(ctx, model); err != nil {
		log.Printf("创建索引 '%s' 失败: %v", name, err)
	} else {
		log.Printf("索引 '%s' 创建成功", name)
	}
}
