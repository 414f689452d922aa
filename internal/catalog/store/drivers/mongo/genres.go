package mongo

import (
	"context"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"github.com/aussiebroadwan/bookworm/internal/catalog/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type genreDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Genre     string             `bson:"genre"`
	Icon      string             `bson:"icon"`
	CreatedAt primitive.DateTime `bson:"createdAt"`
}

func (d genreDoc) toDomain() domain.Genre {
	return domain.Genre{
		ID:        d.ID.Hex(),
		Name:      d.Genre,
		Icon:      d.Icon,
		CreatedAt: d.CreatedAt.Time().UTC(),
	}
}

type genresRepo struct {
	coll *mongo.Collection
}

func (r *genresRepo) CreateGenre(ctx context.Context, g domain.Genre) (string, error) {
	res, err := r.coll.InsertOne(ctx, genreDoc{
		Genre:     g.Name,
		Icon:      g.Icon,
		CreatedAt: primitive.NewDateTimeFromTime(createdAt(g.CreatedAt)),
	})
	if err != nil {
		return "", mapErr(err)
	}
	return insertedID(res), nil
}

func (r *genresRepo) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	var docs []genreDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.Genre, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *genresRepo) GetGenreByID(ctx context.Context, id string) (domain.Genre, error) {
	oid, err := objectID(id)
	if err != nil {
		return domain.Genre{}, err
	}
	var doc genreDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return domain.Genre{}, mapErr(err)
	}
	return doc.toDomain(), nil
}

func (r *genresRepo) UpdateGenre(
	ctx context.Context,
	id, name, icon string,
) (domain.UpdateResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return domain.UpdateResult{}, err
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"genre": name, "icon": icon}})
	if err != nil {
		return domain.UpdateResult{}, mapErr(err)
	}
	if res.MatchedCount == 0 {
		return domain.UpdateResult{}, store.ErrNotFound
	}
	return domain.UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (r *genresRepo) DeleteGenre(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
