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

// userDoc keeps the secrets as top-level fields, as the Node service did.
type userDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Email         string             `bson:"email"`
	Password      string             `bson:"password"`
	Role          string             `bson:"role"`
	Photo         string             `bson:"photo"`
	AccessSecret  string             `bson:"accessSecret"`
	RefreshSecret string             `bson:"refreshSecret"`
	CreatedAt     primitive.DateTime `bson:"createdAt"`
}

func (d userDoc) toDomain() domain.User {
	return domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         domain.Role(d.Role),
		Photo:        d.Photo,
		Credentials: domain.Credentials{
			AccessSecret:  d.AccessSecret,
			RefreshSecret: d.RefreshSecret,
		},
		CreatedAt: d.CreatedAt.Time().UTC(),
	}
}

type usersRepo struct {
	coll *mongo.Collection
}

func (r *usersRepo) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		return domain.User{}, mapErr(err)
	}
	return doc.toDomain(), nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return domain.User{}, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, options.FindOne().SetCollation(emailCollation))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (string, error) {
	res, err := r.coll.InsertOne(ctx, userDoc{
		Name:          u.Name,
		Email:         u.Email,
		Password:      u.PasswordHash,
		Role:          string(u.Role),
		Photo:         u.Photo,
		AccessSecret:  u.Credentials.AccessSecret,
		RefreshSecret: u.Credentials.RefreshSecret,
		CreatedAt:     primitive.NewDateTimeFromTime(createdAt(u.CreatedAt)),
	})
	if err != nil {
		return "", mapErr(err)
	}
	return insertedID(res), nil
}

// UpdateCredentials sets both secrets in one $set on one document, which
// MongoDB applies atomically.
func (r *usersRepo) UpdateCredentials(
	ctx context.Context,
	userID string,
	creds domain.Credentials,
) error {
	return r.set(ctx, userID, bson.M{
		"accessSecret":  creds.AccessSecret,
		"refreshSecret": creds.RefreshSecret,
	})
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	return r.set(ctx, userID, bson.M{"password": hash})
}

func (r *usersRepo) UpdateRole(ctx context.Context, userID string, role domain.Role) error {
	return r.set(ctx, userID, bson.M{"role": string(role)})
}

func (r *usersRepo) set(ctx context.Context, userID string, fields bson.M) error {
	oid, err := objectID(userID)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": fields})
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"role": string(role)})
}
