package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/madiallo/carbontrack/internal/domain/models"
)

// ErrActivityNotFound signals a delete for a record that does not exist or
// belongs to another user.
var ErrActivityNotFound = errors.New("activity not found")

// Store defines the document-store contract consumed by the services:
// activity append/query/delete, current profile with history snapshots, and
// weekly digest persistence.
type Store interface {
	AppendActivity(ctx context.Context, activity models.Activity) (models.Activity, error)
	QueryActivities(ctx context.Context, userID string, start, end time.Time) ([]models.Activity, error)
	DeleteActivity(ctx context.Context, userID, activityID string) error
	GetCurrentProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	SetCurrentProfile(ctx context.Context, profile models.UserProfile) error
	GetProfileHistory(ctx context.Context, userID string) ([]models.UserProfile, error)
	ListUserIDs(ctx context.Context) ([]string, error)
	SaveWeeklyDigest(ctx context.Context, digest models.WeeklyDigest) error
}

// MongoDBStore implements Store on top of MongoDB collections keyed by user ID.
type MongoDBStore struct {
	client *mongo.Client
	dbName string
	logger *zap.Logger
}

const (
	activitiesColl = "activities"
	profilesColl   = "profiles"
	historyColl    = "profile_history"
	digestsColl    = "weekly_digests"
)

// NewMongoDBStore connects to MongoDB and verifies the connection.
func NewMongoDBStore(ctx context.Context, uri, dbName string, logger *zap.Logger) (*MongoDBStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBStore{client: client, dbName: dbName, logger: logger}, nil
}

// activityDoc is the stored representation; the hex _id is surfaced as the
// Activity.ID string.
type activityDoc struct {
	ID          primitive.ObjectID      `bson:"_id,omitempty"`
	UserID      string                  `bson:"user_id"`
	Category    models.EmissionCategory `bson:"category"`
	Emissions   float64                 `bson:"emissions"`
	Description string                  `bson:"description"`
	OccurredAt  time.Time               `bson:"occurred_at"`
	CreatedAt   time.Time               `bson:"created_at"`
}

func (d activityDoc) toModel() models.Activity {
	return models.Activity{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Category:    d.Category,
		Emissions:   d.Emissions,
		Description: d.Description,
		OccurredAt:  d.OccurredAt,
		CreatedAt:   d.CreatedAt,
	}
}

// AppendActivity inserts one immutable activity record and returns it with
// its assigned ID.
func (s *MongoDBStore) AppendActivity(ctx context.Context, activity models.Activity) (models.Activity, error) {
	doc := activityDoc{
		UserID:      activity.UserID,
		Category:    activity.Category,
		Emissions:   activity.Emissions,
		Description: activity.Description,
		OccurredAt:  activity.OccurredAt,
		CreatedAt:   time.Now().UTC(),
	}

	res, err := s.collection(activitiesColl).InsertOne(ctx, doc)
	if err != nil {
		return models.Activity{}, fmt.Errorf("failed to insert activity: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toModel(), nil
}

// QueryActivities returns all records for the user whose occurrence timestamp
// falls within [start, end], newest first.
func (s *MongoDBStore) QueryActivities(ctx context.Context, userID string, start, end time.Time) ([]models.Activity, error) {
	filter := bson.M{
		"user_id":     userID,
		"occurred_at": bson.M{"$gte": start, "$lte": end},
	}
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: -1}})

	cursor, err := s.collection(activitiesColl).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []activityDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %w", err)
	}

	activities := make([]models.Activity, 0, len(docs))
	for _, doc := range docs {
		activities = append(activities, doc.toModel())
	}
	return activities, nil
}

// DeleteActivity removes one record owned by the user.
func (s *MongoDBStore) DeleteActivity(ctx context.Context, userID, activityID string) error {
	oid, err := primitive.ObjectIDFromHex(activityID)
	if err != nil {
		return fmt.Errorf("%w: invalid id %q", ErrActivityNotFound, activityID)
	}

	res, err := s.collection(activitiesColl).DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrActivityNotFound
	}
	return nil
}

// GetCurrentProfile fetches the user's current profile, or nil when the user
// has not completed the survey yet.
func (s *MongoDBStore) GetCurrentProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.collection(profilesColl).FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// SetCurrentProfile replaces the current profile wholesale and appends a
// history snapshot. The two writes are best-effort sequential: a failed
// snapshot is logged but never corrupts the current profile.
func (s *MongoDBStore) SetCurrentProfile(ctx context.Context, profile models.UserProfile) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection(profilesColl).ReplaceOne(ctx, bson.M{"user_id": profile.UserID}, profile, opts); err != nil {
		return fmt.Errorf("failed to replace profile: %w", err)
	}

	if _, err := s.collection(historyColl).InsertOne(ctx, profile); err != nil {
		s.logger.Warn("profile history snapshot failed",
			zap.String("user_id", profile.UserID), zap.Error(err))
	}
	return nil
}

// GetProfileHistory returns the user's survey snapshots, newest first.
func (s *MongoDBStore) GetProfileHistory(ctx context.Context, userID string) ([]models.UserProfile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := s.collection(historyColl).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query profile history: %w", err)
	}
	defer cursor.Close(ctx)

	var history []models.UserProfile
	if err := cursor.All(ctx, &history); err != nil {
		return nil, fmt.Errorf("failed to decode profile history: %w", err)
	}
	return history, nil
}

// ListUserIDs returns the distinct users with logged activity, for the
// digest sweep.
func (s *MongoDBStore) ListUserIDs(ctx context.Context) ([]string, error) {
	values, err := s.collection(activitiesColl).Distinct(ctx, "user_id", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// SaveWeeklyDigest stores one digest document.
func (s *MongoDBStore) SaveWeeklyDigest(ctx context.Context, digest models.WeeklyDigest) error {
	if _, err := s.collection(digestsColl).InsertOne(ctx, digest); err != nil {
		return fmt.Errorf("failed to insert weekly digest: %w", err)
	}
	return nil
}

func (s *MongoDBStore) collection(name string) *mongo.Collection {
	return s.client.Database(s.dbName).Collection(name)
}

// Close closes the MongoDB connection.
func (s *MongoDBStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
