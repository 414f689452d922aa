package mongo

import (
	"context"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type bookDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"title"`
	Author       string             `bson:"author"`
	Genre        string             `bson:"genre"`
	Description  string             `bson:"description"`
	Cover        string             `bson:"cover"`
	PDF          string             `bson:"pdf"`
	Rating       float64            `bson:"rating"`
	RatingCount  int                `bson:"ratingCount"`
	ShelvedCount int                `bson:"shelvedCount"`
	CreatedAt    primitive.DateTime `bson:"createdAt"`
}

func (d bookDoc) toDomain() domain.Book {
	return domain.Book{
		ID:           d.ID.Hex(),
		Title:        d.Title,
		Author:       d.Author,
		Genre:        d.Genre,
		Description:  d.Description,
		Cover:        d.Cover,
		PDF:          d.PDF,
		Rating:       d.Rating,
		RatingCount:  d.RatingCount,
		ShelvedCount: d.ShelvedCount,
		CreatedAt:    d.CreatedAt.Time().UTC(),
	}
}

type booksRepo struct {
	coll *mongo.Collection
}

func (r *booksRepo) CreateBook(ctx context.Context, b domain.Book) (string, error) {
	res, err := r.coll.InsertOne(ctx, bookDoc{
		Title:        b.Title,
		Author:       b.Author,
		Genre:        b.Genre,
		Description:  b.Description,
		Cover:        b.Cover,
		PDF:          b.PDF,
		Rating:       b.Rating,
		RatingCount:  b.RatingCount,
		ShelvedCount: b.ShelvedCount,
		CreatedAt:    primitive.NewDateTimeFromTime(createdAt(b.CreatedAt)),
	})
	if err != nil {
		return "", mapErr(err)
	}
	return insertedID(res), nil
}

func (r *booksRepo) ListBooks(ctx context.Context, genre string) ([]domain.Book, error) {
	filter := bson.M{}
	if genre != "" {
		filter["genre"] = genre
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []bookDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.Book, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *booksRepo) GetBookByID(ctx context.Context, id string) (domain.Book, error) {
	oid, err := objectID(id)
	if err != nil {
		return domain.Book{}, err
	}
	var doc bookDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return domain.Book{}, mapErr(err)
	}
	return doc.toDomain(), nil
}
