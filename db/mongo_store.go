package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learnwords/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"

// MongoStore keeps one document per user with progress embedded. Marks are
// applied with conditional update operators so concurrent marks on the same
// day never overwrite each other.
type MongoStore struct {
	client  *mongo.Client
	users   *mongo.Collection
	timeout time.Duration
}

func NewMongoStore(client *mongo.Client, database *mongo.Database, timeout time.Duration) *MongoStore {
	return &MongoStore{
		client:  client,
		users:   database.Collection(usersCollection),
		timeout: timeout,
	}
}

// EnsureIndexes creates the unique email index
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prepareNewUser(user)
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", user.Email, models.ErrEmailTaken)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *MongoStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", userID, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// MarkWordRead runs three single-document atomic updates: push an empty entry
// for day unless one exists, add the word to the entry's set, and flip
// completed once the set holds at least required words. wordsRead.<required-1>
// existing is how the last step tests len(wordsRead) >= required.
func (s *MongoStore) MarkWordRead(ctx context.Context, userID string, day int, word string, required int) (*models.MarkResult, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err = s.users.UpdateOne(ctx,
		bson.M{"_id": oid, "progress.day": bson.M{"$ne": day}},
		bson.M{
			"$push": bson.M{"progress": models.NewDayProgress(day)},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create day progress: %w", err)
	}

	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": oid, "progress.day": day},
		bson.M{"$addToSet": bson.M{"progress.$.wordsRead": word}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add word: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("%s: %w", userID, models.ErrUserNotFound)
	}
	added := res.ModifiedCount > 0

	elem := bson.M{"day": day, "completed": false}
	if required > 0 {
		elem[fmt.Sprintf("wordsRead.%d", required-1)] = bson.M{"$exists": true}
	}
	res, err = s.users.UpdateOne(ctx,
		bson.M{"_id": oid, "progress": bson.M{"$elemMatch": elem}},
		bson.M{"$set": bson.M{"progress.$.completed": true}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update completion: %w", err)
	}
	newlyCompleted := res.ModifiedCount > 0

	var doc struct {
		Progress []models.DayProgress `bson:"progress"`
	}
	opts := options.FindOne().SetProjection(bson.M{"progress": bson.M{"$elemMatch": bson.M{"day": day}}})
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", userID, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to read day progress: %w", err)
	}
	if len(doc.Progress) == 0 {
		return nil, fmt.Errorf("day %d missing after update for user %s", day, userID)
	}

	return &models.MarkResult{
		Progress:       doc.Progress[0],
		Added:          added,
		NewlyCompleted: newlyCompleted,
	}, nil
}

func (s *MongoStore) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error {
	if update.IsEmpty() {
		_, err := s.GetUser(ctx, userID)
		return err
	}

	set := bson.M{"updatedAt": time.Now()}
	if update.Name != "" {
		set["name"] = update.Name
	}
	if update.ProfilePic != "" {
		set["profilePic"] = update.ProfilePic
	}
	return s.setFields(ctx, userID, bson.M{"$set": set})
}

func (s *MongoStore) SetStreak(ctx context.Context, userID string, streak int) error {
	return s.setFields(ctx, userID, bson.M{"$set": bson.M{"streak": streak, "updatedAt": time.Now()}})
}

// AddBadge is a no-op when the user already holds badge
func (s *MongoStore) AddBadge(ctx context.Context, userID string, badge string) error {
	return s.setFields(ctx, userID, bson.M{
		"$addToSet": bson.M{"badges": badge},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
}

func (s *MongoStore) setFields(ctx context.Context, userID string, update bson.M) error {
	oid, err := parseUserID(userID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.users.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", userID, models.ErrUserNotFound)
	}
	return nil
}

// parseUserID treats a malformed id like an unknown one
func parseUserID(userID string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%q: %w", userID, models.ErrUserNotFound)
	}
	return oid, nil
}

// prepareNewUser fills the defaults every stored user carries
func prepareNewUser(user *models.User) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Progress == nil {
		user.Progress = []models.DayProgress{}
	}
	if user.Badges == nil {
		user.Badges = []string{}
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
}
