package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/nekruzvatanshoev/carlot/pkg/carlot/config"
	"github.com/nekruzvatanshoev/carlot/pkg/carlot/dal"
)

// carDocument is the shape of a car in the cars collection.
type carDocument struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Make             string             `bson:"make"`
	Model            string             `bson:"model"`
	Price            float64            `bson:"price"`
	ReleaseDate      string             `bson:"release_date"`
	Size             string             `bson:"size"`
	Style            string             `bson:"style"`
	TransmissionType string             `bson:"transmission_type"`
	IsDeleted        bool               `bson:"isDeleted"`
}

func newCarDocument(car dal.Car) carDocument {
	return carDocument{
		Make:             car.Make,
		Model:            car.Model,
		Price:            car.Price,
		ReleaseDate:      string(car.ReleaseDate),
		Size:             car.Size,
		Style:            car.Style,
		TransmissionType: car.TransmissionType,
		IsDeleted:        car.IsDeleted,
	}
}

func (d carDocument) car() dal.Car {
	return dal.Car{
		ID:               d.ID.Hex(),
		Make:             d.Make,
		Model:            d.Model,
		Price:            d.Price,
		ReleaseDate:      dal.ReleaseDate(d.ReleaseDate),
		Size:             d.Size,
		Style:            d.Style,
		TransmissionType: d.TransmissionType,
		IsDeleted:        d.IsDeleted,
	}
}

// MongoRepository stores cars as documents in a MongoDB collection.
type MongoRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeout    time.Duration
	logger     *slog.Logger
}

// NewMongoRepository connects to cfg.URI and verifies the connection.
func NewMongoRepository(ctx context.Context, cfg config.MongoConfig, timeout time.Duration, logger *slog.Logger) (*MongoRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	opts := options.Client().ApplyURI(cfg.URI).SetTimeout(timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	repo := &MongoRepository{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		timeout:    timeout,
		logger:     logger.With("component", "mongo", "collection", cfg.Collection),
	}
	if err := repo.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	repo.logger.Info("connected to mongo", "database", cfg.Database)
	return repo, nil
}

func (r *MongoRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *MongoRepository) Create(ctx context.Context, car dal.Car) (dal.Car, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	doc := newCarDocument(car)
	doc.ID = primitive.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return dal.Car{}, fmt.Errorf("insert car: %w", err)
	}
	return doc.car(), nil
}

func (r *MongoRepository) FindAll(ctx context.Context, filter Filter) ([]dal.Car, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := bson.M{}
	for key, value := range filter.pairs() {
		query[key] = value
	}
	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find cars: %w", err)
	}
	var docs []carDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode cars: %w", err)
	}
	cars := make([]dal.Car, 0, len(docs))
	for _, d := range docs {
		cars = append(cars, d.car())
	}
	return cars, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*dal.Car, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var doc carDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find car %s: %w", id, err)
	}
	car := doc.car()
	return &car, nil
}

func (r *MongoRepository) UpdateByID(ctx context.Context, id string, update Update) (*dal.Car, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	set := bson.M{}
	if update.Car != nil {
		doc := newCarDocument(*update.Car)
		set["make"] = doc.Make
		set["model"] = doc.Model
		set["price"] = doc.Price
		set["release_date"] = doc.ReleaseDate
		set["size"] = doc.Size
		set["style"] = doc.Style
		set["transmission_type"] = doc.TransmissionType
	}
	if update.IsDeleted != nil {
		set["isDeleted"] = *update.IsDeleted
	}

	query := bson.M{"_id": oid}
	if update.ActiveOnly {
		query["isDeleted"] = bson.M{"$ne": true}
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if len(set) == 0 {
		car, err := r.FindByID(ctx, id)
		if err != nil || car == nil || (update.ActiveOnly && car.IsDeleted) {
			return nil, err
		}
		return car, nil
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc carDocument
	err = r.collection.FindOneAndUpdate(ctx, query, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update car %s: %w", id, err)
	}
	car := doc.car()
	return &car, nil
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	return nil
}

func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

var _ Repository = (*MongoRepository)(nil)
