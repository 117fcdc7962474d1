package mongostore

import (
	"context"
	"errors"
	"regexp"

	"github.com/mvjl000/socnet-backend/src/models"
	"github.com/mvjl000/socnet-backend/src/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userRepository struct {
	coll *mongo.Collection
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.Posts == nil {
		user.Posts = []primitive.ObjectID{}
	}
	_, err := r.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) SearchUsernames(ctx context.Context, query string) ([]string, error) {
	filter := bson.M{"username": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}}
	opts := options.Find().
		SetProjection(bson.M{"username": 1}).
		SetSort(bson.M{"username": 1})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var found []struct {
		Username string `bson:"username"`
	}
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}

	usernames := make([]string, 0, len(found))
	for _, u := range found {
		usernames = append(usernames, u.Username)
	}
	return usernames, nil
}

func (r *userRepository) PushPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	return r.updateExisting(ctx, userID, bson.M{"$push": bson.M{"posts": postID}})
}

func (r *userRepository) PullPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$pull": bson.M{"posts": postID}})
	return err
}

func (r *userRepository) ClearPosts(ctx context.Context, userID primitive.ObjectID) error {
	return r.updateExisting(ctx, userID, bson.M{"$set": bson.M{"posts": []primitive.ObjectID{}}})
}

func (r *userRepository) UpdateDescription(ctx context.Context, userID primitive.ObjectID, description string) error {
	return r.updateExisting(ctx, userID, bson.M{"$set": bson.M{"description": description}})
}

func (r *userRepository) updateExisting(ctx context.Context, userID primitive.ObjectID, update bson.M) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, userID primitive.ObjectID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
