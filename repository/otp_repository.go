package repository

import (
	"context"
	"time"

	"otp-gateway/models/otp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OTPRepository is the storage contract consumed by the OTP engine. All
// mutations are single atomic conditional updates so that concurrent
// requests for the same user cannot violate the one-active-record or
// bounded-attempts invariants.
type OTPRepository interface {
	// Replace upserts the record keyed on its userId, superseding any
	// previous record for that user in one atomic operation. The stored
	// record (with its storage ID) is written back into rec.
	Replace(ctx context.Context, rec *otp.OTP) error
	// FindActiveByUserID returns the record that is neither used nor
	// expired, or nil when the user has none.
	FindActiveByUserID(ctx context.Context, userID string) (*otp.OTP, error)
	// FindByUserID returns the user's record regardless of its state, or
	// nil when none exists. Verification needs the raw record so it can
	// tell "expired" and "already used" apart from "never issued".
	FindByUserID(ctx context.Context, userID string) (*otp.OTP, error)
	// IncrementAttempts atomically bumps the attempt counter of a record
	// that is still unused and returns the updated record, or nil when no
	// live record matched.
	IncrementAttempts(ctx context.Context, id primitive.ObjectID) (*otp.OTP, error)
	// MarkUsed consumes a record. It reports false when the record was
	// already used by a concurrent request.
	MarkUsed(ctx context.Context, id primitive.ObjectID) (bool, error)
	CountTotal(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
	CountExpired(ctx context.Context) (int64, error)
	CountUsed(ctx context.Context) (int64, error)
	// DeleteExpiredOrUsed removes every expired or consumed record and
	// returns how many were deleted.
	DeleteExpiredOrUsed(ctx context.Context) (int64, error)
}

type mongoOTPRepo struct {
	col *mongo.Collection
}

// NewMongoOTPRepository creates the Mongo-backed repository. The TTL index
// on expiryTime makes the store drop records on its own once they pass
// expiry; the active cleanup sweep exists because TTL deletion is only
// eventual.
func NewMongoOTPRepository(db *mongo.Database) OTPRepository {
	col := db.Collection("otps")
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expiryTime", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "isUsed", Value: 1},
				{Key: "expiryTime", Value: 1},
			},
		},
	})
	return &mongoOTPRepo{col: col}
}

func (r *mongoOTPRepo) Replace(ctx context.Context, rec *otp.OTP) error {
	opts := options.FindOneAndReplace().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored otp.OTP
	err := r.col.FindOneAndReplace(ctx, bson.M{"userId": rec.UserID}, rec, opts).Decode(&stored)
	if err != nil {
		return err
	}
	*rec = stored
	return nil
}

func (r *mongoOTPRepo) FindActiveByUserID(ctx context.Context, userID string) (*otp.OTP, error) {
	filter := bson.M{
		"userId":     userID,
		"isUsed":     false,
		"expiryTime": bson.M{"$gt": time.Now()},
	}

	var rec otp.OTP
	err := r.col.FindOne(ctx, filter).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *mongoOTPRepo) FindByUserID(ctx context.Context, userID string) (*otp.OTP, error) {
	var rec otp.OTP
	err := r.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *mongoOTPRepo) IncrementAttempts(ctx context.Context, id primitive.ObjectID) (*otp.OTP, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rec otp.OTP
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "isUsed": false},
		bson.M{"$inc": bson.M{"attempts": 1}},
		opts,
	).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *mongoOTPRepo) MarkUsed(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "isUsed": false},
		bson.M{"$set": bson.M{"isUsed": true}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *mongoOTPRepo) CountTotal(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *mongoOTPRepo) CountActive(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{
		"isUsed":     false,
		"expiryTime": bson.M{"$gt": time.Now()},
	})
}

func (r *mongoOTPRepo) CountExpired(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{
		"expiryTime": bson.M{"$lte": time.Now()},
	})
}

func (r *mongoOTPRepo) CountUsed(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"isUsed": true})
}

func (r *mongoOTPRepo) DeleteExpiredOrUsed(ctx context.Context) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{
		"$or": bson.A{
			bson.M{"expiryTime": bson.M{"$lte": time.Now()}},
			bson.M{"isUsed": true},
		},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
