package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahsanfayaz52/notesservice/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InitMongo connects to MongoDB and ensures the indexes the stores rely on.
func InitMongo(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	database := client.Database(dbName)

	_, err = database.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("create users index: %w", err)
	}

	_, err = database.Collection("notes").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}},
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("create notes index: %w", err)
	}

	return client, database, nil
}

type noteDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	User        string             `bson:"user"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Tag         string             `bson:"tag"`
	Date        time.Time          `bson:"date"`
}

func (d noteDocument) toModel() models.Note {
	return models.Note{
		ID:          d.ID.Hex(),
		UserID:      d.User,
		Title:       d.Title,
		Description: d.Description,
		Tag:         d.Tag,
		CreatedAt:   d.Date,
	}
}

// MongoNoteStore persists notes in the "notes" collection.
type MongoNoteStore struct {
	coll *mongo.Collection
}

func NewMongoNoteStore(database *mongo.Database) *MongoNoteStore {
	return &MongoNoteStore{coll: database.Collection("notes")}
}

func (s *MongoNoteStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Note, error) {
	cur, err := s.coll.Find(ctx, bson.M{"user": ownerID})
	if err != nil {
		return nil, fmt.Errorf("find notes: %w", err)
	}
	var docs []noteDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}

	notes := make([]models.Note, 0, len(docs))
	for _, d := range docs {
		notes = append(notes, d.toModel())
	}
	return notes, nil
}

func (s *MongoNoteStore) Insert(ctx context.Context, n models.Note) (models.Note, error) {
	doc := noteDocument{
		ID:          primitive.NewObjectID(),
		User:        n.UserID,
		Title:       n.Title,
		Description: n.Description,
		Tag:         n.Tag,
		Date:        time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return models.Note{}, fmt.Errorf("insert note: %w", err)
	}
	return doc.toModel(), nil
}

func (s *MongoNoteStore) FindByID(ctx context.Context, id string) (models.Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Note{}, models.ErrRecordNotFound
	}
	var doc noteDocument
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		return models.Note{}, mongoError("find note", err)
	}
	return doc.toModel(), nil
}

func (s *MongoNoteStore) Update(ctx context.Context, id string, patch models.NotePatch) (models.Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Note{}, models.ErrRecordNotFound
	}

	set := bson.M{}
	if patch.Title != "" {
		set["title"] = patch.Title
	}
	if patch.Description != "" {
		set["description"] = patch.Description
	}
	if patch.Tag != "" {
		set["tag"] = patch.Tag
	}
	if len(set) == 0 {
		return s.FindByID(ctx, id)
	}

	var doc noteDocument
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		return models.Note{}, mongoError("update note", err)
	}
	return doc.toModel(), nil
}

func (s *MongoNoteStore) Delete(ctx context.Context, id string) (models.Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Note{}, models.ErrRecordNotFound
	}
	var doc noteDocument
	if err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return models.Note{}, mongoError("delete note", err)
	}
	return doc.toModel(), nil
}

type userDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
	Date     time.Time          `bson:"date"`
}

func (d userDocument) toModel() models.User {
	return models.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Password:  d.Password,
		CreatedAt: d.Date,
	}
}

// MongoUserStore persists users in the "users" collection.
type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(database *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: database.Collection("users")}
}

func (s *MongoUserStore) Insert(ctx context.Context, u models.User) (models.User, error) {
	doc := userDocument{
		ID:       primitive.NewObjectID(),
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
		Date:     time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, models.ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return doc.toModel(), nil
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var doc userDocument
	if err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		return models.User{}, mongoError("find user", err)
	}
	return doc.toModel(), nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id string) (models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, models.ErrRecordNotFound
	}
	var doc userDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return models.User{}, mongoError("find user", err)
	}
	return doc.toModel(), nil
}

func mongoError(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrRecordNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
