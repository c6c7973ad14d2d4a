package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/riddim-exe/riddim/domain"
	"github.com/riddim-exe/riddim/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BaseMongoRepository MongoDB通用Repository实现
type BaseMongoRepository[T any] struct {
	db         mongo.Database
	collection string
}

// NewBaseMongoRepository 创建新的MongoDB Repository实例
func NewBaseMongoRepository[T any](db mongo.Database, collection string) *BaseMongoRepository[T] {
	return &BaseMongoRepository[T]{
		db:         db,
		collection: collection,
	}
}

var _ domain.BaseRepository[struct{}] = (*BaseMongoRepository[struct{}])(nil)

// Create 创建新实体
func (r *BaseMongoRepository[T]) Create(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.New("entity cannot be nil")
	}

	if r.getEntityID(entity).IsZero() {
		r.setEntityID(entity, primitive.NewObjectID())
	}
	r.setTimestamps(entity, true)

	coll := r.db.Collection(r.collection)
	resultID, err := coll.InsertOne(ctx, entity)
	if err != nil {
		return fmt.Errorf("failed to create entity: %w", err)
	}

	if oid, ok := resultID.(primitive.ObjectID); ok {
		r.setEntityID(entity, oid)
	}
	return nil
}

// GetByID 根据ID获取实体
func (r *BaseMongoRepository[T]) GetByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	if id.IsZero() {
		return nil, domain.ErrInvalidID
	}

	coll := r.db.Collection(r.collection)
	var entity T
	err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&entity)
	if err != nil {
		if errors.Is(err, driver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", id.Hex(), domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}
	return &entity, nil
}

// Update 更新实体（支持 Upsert）
func (r *BaseMongoRepository[T]) Update(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.New("entity cannot be nil")
	}

	id := r.getEntityID(entity)
	if id.IsZero() {
		return errors.New("entity ID cannot be empty")
	}

	r.setTimestamps(entity, false)

	coll := r.db.Collection(r.collection)
	opts := options.Update().SetUpsert(true)
	if _, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": entity}, opts); err != nil {
		return fmt.Errorf("failed to update or insert entity: %w", err)
	}
	return nil
}

// Delete 删除实体
func (r *BaseMongoRepository[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	if id.IsZero() {
		return domain.ErrInvalidID
	}

	coll := r.db.Collection(r.collection)
	count, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete entity: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%s: %w", id.Hex(), domain.ErrNotFound)
	}
	return nil
}

// GetByFilter 根据过滤条件获取实体列表
func (r *BaseMongoRepository[T]) GetByFilter(ctx context.Context, filter interface{}, sort interface{}) ([]*T, error) {
	opts := options.Find()
	if sort != nil {
		opts.SetSort(sort)
	}
	return r.find(ctx, filter, opts)
}

// GetOneByFilter 查询不到时返回 nil, nil
func (r *BaseMongoRepository[T]) GetOneByFilter(ctx context.Context, filter interface{}) (*T, error) {
	coll := r.db.Collection(r.collection)
	var entity T
	err := coll.FindOne(ctx, filter).Decode(&entity)
	if err != nil {
		if errors.Is(err, driver.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get entity by filter: %w", err)
	}
	return &entity, nil
}

// Count 统计数量
func (r *BaseMongoRepository[T]) Count(ctx context.Context, filter interface{}) (int64, error) {
	coll := r.db.Collection(r.collection)
	count, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count entities: %w", err)
	}
	return count, nil
}

// GetPaginated 分页查询
func (r *BaseMongoRepository[T]) GetPaginated(ctx context.Context, filter interface{}, sort interface{}, skip, limit int64) ([]*T, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit)
	if sort != nil {
		opts.SetSort(sort)
	}
	return r.find(ctx, filter, opts)
}

func (r *BaseMongoRepository[T]) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]*T, error) {
	coll := r.db.Collection(r.collection)
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer cursor.Close(ctx)

	var entities []*T
	for cursor.Next(ctx) {
		var entity T
		if err := cursor.Decode(&entity); err != nil {
			return nil, fmt.Errorf("failed to decode entity: %w", err)
		}
		entities = append(entities, &entity)
	}
	return entities, nil
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	dateTimeType = reflect.TypeOf(primitive.DateTime(0))
)

// 辅助方法：设置时间戳，兼容 time.Time 与 primitive.DateTime
func (r *BaseMongoRepository[T]) setTimestamps(entity *T, isCreate bool) {
	val := reflect.ValueOf(entity).Elem()
	typ := val.Type()
	now := time.Now()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanSet() {
			continue
		}

		fieldName, _, _ := strings.Cut(typ.Field(i).Tag.Get("bson"), ",")
		switch fieldName {
		case "created_at":
			// 更新时仅补齐缺失的创建时间
			if isCreate || field.IsZero() {
				setTime(field, now)
			}
		case "updated_at":
			setTime(field, now)
		}
	}
}

func setTime(field reflect.Value, t time.Time) {
	switch field.Type() {
	case timeType:
		field.Set(reflect.ValueOf(t))
	case dateTimeType:
		field.Set(reflect.ValueOf(primitive.NewDateTimeFromTime(t)))
	}
}

// 获取实体ID
func (r *BaseMongoRepository[T]) getEntityID(entity *T) primitive.ObjectID {
	if field, ok := idField(entity); ok {
		return field.Interface().(primitive.ObjectID)
	}
	return primitive.NilObjectID
}

// 设置实体ID
func (r *BaseMongoRepository[T]) setEntityID(entity *T, id primitive.ObjectID) {
	if field, ok := idField(entity); ok && field.CanSet() {
		field.Set(reflect.ValueOf(id))
	}
}

// idField 按 bson 标签 "_id" 或字段名 ID 查找 ObjectID 字段
func idField[T any](entity *T) (reflect.Value, bool) {
	if entity == nil {
		return reflect.Value{}, false
	}
	val := reflect.ValueOf(entity).Elem()
	if val.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		fieldType := typ.Field(i)
		if !fieldType.IsExported() {
			continue
		}
		fieldName, _, _ := strings.Cut(fieldType.Tag.Get("bson"), ",")
		if fieldName == "" {
			fieldName = fieldType.Name
		}
		if (fieldName == "_id" || fieldName == "ID") && fieldType.Type == reflect.TypeOf(primitive.ObjectID{}) {
			return val.Field(i), true
		}
	}
	return reflect.Value{}, false
}
