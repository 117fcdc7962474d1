package mongostore

import (
	"context"
	"errors"

	"github.com/mvjl000/socnet-backend/src/models"
	"github.com/mvjl000/socnet-backend/src/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type postRepository struct {
	coll *mongo.Collection
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	_, err := r.coll.InsertOne(ctx, post)
	return err
}

func (r *postRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindAll(ctx context.Context) ([]models.Post, error) {
	return r.find(ctx, bson.M{})
}

func (r *postRepository) FindByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.Post, error) {
	return r.find(ctx, bson.M{"creatorId": creatorID})
}

func (r *postRepository) FindReported(ctx context.Context) ([]models.Post, error) {
	return r.find(ctx, bson.M{"isPostReported": true})
}

func (r *postRepository) find(ctx context.Context, filter bson.M) ([]models.Post, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *postRepository) DeleteByCreator(ctx context.Context, creatorID primitive.ObjectID) (int64, error) {
	result, err := r.coll.DeleteMany(ctx, bson.M{"creatorId": creatorID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *postRepository) AddLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	filter := bson.M{"_id": postID, "likedBy": bson.M{"$ne": userID}}
	update := bson.M{
		"$push": bson.M{"likedBy": userID},
		"$inc":  bson.M{"likesCount": 1},
	}
	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *postRepository) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	filter := bson.M{"_id": postID, "likedBy": userID}
	update := bson.M{
		"$pull": bson.M{"likedBy": userID},
		"$inc":  bson.M{"likesCount": -1},
	}
	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *postRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNoMatch
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) PushComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) error {
	update := bson.M{
		"$push": bson.M{"comments": comment},
		"$inc":  bson.M{"commentsCount": 1},
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": postID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *postRepository) PullComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	filter := bson.M{"_id": postID, "comments._id": commentID}
	update := bson.M{
		"$pull": bson.M{"comments": bson.M{"_id": commentID}},
		"$inc":  bson.M{"commentsCount": -1},
	}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNoMatch
	}
	return nil
}

func (r *postRepository) MarkReported(ctx context.Context, postID primitive.ObjectID) error {
	filter := bson.M{"_id": postID, "isPostReported": bson.M{"$ne": true}}
	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"isPostReported": true}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNoMatch
	}
	return nil
}

func (r *postRepository) UpdateContent(ctx context.Context, postID primitive.ObjectID, content string) error {
	update := bson.M{"$set": bson.M{"content": content, "edited": true}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": postID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
