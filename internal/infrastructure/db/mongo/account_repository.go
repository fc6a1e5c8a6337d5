package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/uventlo/event-platform/internal/core/domain"
	"github.com/uventlo/event-platform/internal/core/ports"
)

const accountCollection = "accounts"

// AccountRepository persists accounts in MongoDB. Counter and one-time code
// mutations are single atomic update statements, never read-modify-write
// document saves.
type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountCollection)}
}

type mongoAccount struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	Email             string             `bson:"email"`
	PasswordHash      string             `bson:"password_hash"`
	Role              string             `bson:"role"`
	Plan              string             `bson:"plan"`
	IsActive          bool               `bson:"is_active"`
	ActivationCode    string             `bson:"activation_code,omitempty"`
	ResetOTP          string             `bson:"reset_otp,omitempty"`
	ResetOTPExpiresAt *time.Time         `bson:"reset_otp_expires_at,omitempty"`
	LoginAttempts     int                `bson:"login_attempts"`
	LastFailedLoginAt *time.Time         `bson:"last_failed_login_at,omitempty"`
	ProfilePictureURL string             `bson:"profile_picture_url,omitempty"`
	OrganizedEvents   []string           `bson:"organized_events,omitempty"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

func toDomainAccount(m *mongoAccount) *domain.Account {
	return &domain.Account{
		ID:                m.ID.Hex(),
		Name:              m.Name,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Role:              m.Role,
		Plan:              domain.Plan(m.Plan),
		IsActive:          m.IsActive,
		ActivationCode:    m.ActivationCode,
		ResetOTP:          m.ResetOTP,
		ResetOTPExpiresAt: m.ResetOTPExpiresAt,
		LoginAttempts:     m.LoginAttempts,
		LastFailedLoginAt: m.LastFailedLoginAt,
		ProfilePictureURL: m.ProfilePictureURL,
		OrganizedEvents:   m.OrganizedEvents,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func accountID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrAccountNotFound
	}
	return oid, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAccount{
		Name:              account.Name,
		Email:             account.Email,
		PasswordHash:      account.PasswordHash,
		Role:              account.Role,
		Plan:              string(account.Plan),
		IsActive:          account.IsActive,
		ActivationCode:    account.ActivationCode,
		ResetOTP:          account.ResetOTP,
		ResetOTPExpiresAt: account.ResetOTPExpiresAt,
		LoginAttempts:     account.LoginAttempts,
		LastFailedLoginAt: account.LastFailedLoginAt,
		ProfilePictureURL: account.ProfilePictureURL,
		OrganizedEvents:   account.OrganizedEvents,
		CreatedAt:         account.CreatedAt,
		UpdatedAt:         account.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	created := *account
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := accountID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return toDomainAccount(&m), nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return toDomainAccount(&m), nil
}

func (r *AccountRepository) FindAll(ctx context.Context) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Account
	for cur.Next(ctx) {
		var m mongoAccount
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}
		out = append(out, toDomainAccount(&m))
	}
	return out, cur.Err()
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	oid, err := accountID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) UpdateFields(ctx context.Context, id string, update ports.AccountUpdate) (*domain.Account, error) {
	oid, err := accountID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.PasswordHash != nil {
		set["password_hash"] = *update.PasswordHash
	}
	if update.Plan != nil {
		set["plan"] = string(*update.Plan)
	}
	if update.ProfilePictureURL != nil {
		set["profile_picture_url"] = *update.ProfilePictureURL
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoAccount
	err = r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	return toDomainAccount(&m), nil
}

// RecordLoginFailure bumps the attempt counter with an atomic $inc so
// concurrent failures cannot undercount.
func (r *AccountRepository) RecordLoginFailure(ctx context.Context, id string, at time.Time) error {
	oid, err := accountID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$inc": bson.M{"login_attempts": 1},
		"$set": bson.M{"last_failed_login_at": at},
	})
	if err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) ClearLoginFailures(ctx context.Context, id string) error {
	oid, err := accountID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set":   bson.M{"login_attempts": 0},
		"$unset": bson.M{"last_failed_login_at": ""},
	})
	if err != nil {
		return fmt.Errorf("clear login failures: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// Activate is a compare-and-clear: the update only matches while the stored
// code equals the supplied one, so a code can be consumed exactly once.
func (r *AccountRepository) Activate(ctx context.Context, id, code string) error {
	oid, err := accountID(id)
	if err != nil {
		return err
	}
	if code == "" {
		return domain.ErrInvalidCode
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "activation_code": code},
		bson.M{
			"$set":   bson.M{"is_active": true, "updated_at": time.Now().UTC()},
			"$unset": bson.M{"activation_code": ""},
		})
	if err != nil {
		return fmt.Errorf("activate account: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvalidCode
	}
	return nil
}

func (r *AccountRepository) Deactivate(ctx context.Context, id string) error {
	oid, err := accountID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("deactivate account: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) SetResetOTP(ctx context.Context, email, otp string, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"email": email}, bson.M{
		"$set": bson.M{"reset_otp": otp, "reset_otp_expires_at": expiresAt},
	})
	if err != nil {
		return fmt.Errorf("set reset otp: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// ConsumeResetOTP replaces the password hash and clears the OTP in one
// conditional update: the filter requires the stored OTP to match and to be
// unexpired, so two concurrent consumptions cannot both succeed.
func (r *AccountRepository) ConsumeResetOTP(ctx context.Context, email, otp, newHash string, now time.Time) error {
	if otp == "" {
		return domain.ErrInvalidOTP
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"email":                email,
			"reset_otp":            otp,
			"reset_otp_expires_at": bson.M{"$gt": now},
		},
		bson.M{
			"$set":   bson.M{"password_hash": newHash, "updated_at": now},
			"$unset": bson.M{"reset_otp": "", "reset_otp_expires_at": ""},
		})
	if err != nil {
		return fmt.Errorf("consume reset otp: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvalidOTP
	}
	return nil
}

func (r *AccountRepository) AppendOrganizedEvent(ctx context.Context, id, eventID string) error {
	oid, err := accountID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$push": bson.M{"organized_events": eventID},
	})
	if err != nil {
		return fmt.Errorf("append organized event: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index duplicate registration relies on.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
