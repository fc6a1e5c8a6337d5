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
)

const contactCollection = "contacts"

type ContactRepository struct {
	coll *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{coll: db.Collection(contactCollection)}
}

type mongoContact struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID   string             `bson:"owner_id"`
	ContactID string             `bson:"contact_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

func toDomainContact(m *mongoContact) *domain.Contact {
	return &domain.Contact{
		ID:        m.ID.Hex(),
		OwnerID:   m.OwnerID,
		ContactID: m.ContactID,
		CreatedAt: m.CreatedAt,
	}
}

func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoContact{
		OwnerID:   contact.OwnerID,
		ContactID: contact.ContactID,
		CreatedAt: contact.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrContactExists
		}
		return nil, fmt.Errorf("insert contact: %w", err)
	}

	created := *contact
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *ContactRepository) Find(ctx context.Context, ownerID, contactID string) (*domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoContact
	err := r.coll.FindOne(ctx, bson.M{"owner_id": ownerID, "contact_id": contactID}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("find contact: %w", err)
	}
	return toDomainContact(&m), nil
}

func (r *ContactRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Contact
	for cur.Next(ctx) {
		var m mongoContact
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode contact: %w", err)
		}
		out = append(out, toDomainContact(&m))
	}
	return out, cur.Err()
}

// EnsureIndexes enforces one link per direction between two accounts.
func (r *ContactRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "contact_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
