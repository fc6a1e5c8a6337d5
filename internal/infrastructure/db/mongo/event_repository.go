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

const eventCollection = "events"

type EventRepository struct {
	coll *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{coll: db.Collection(eventCollection)}
}

type mongoEvent struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Location    string             `bson:"location,omitempty"`
	OwnerID     string             `bson:"owner_id"`
	Date        time.Time          `bson:"date"`
	Tasks       []domain.Task      `bson:"tasks,omitempty"`
	Attendees   []domain.Attendee  `bson:"attendees,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func toMongoEvent(e *domain.Event) mongoEvent {
	return mongoEvent{
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		OwnerID:     e.OwnerID,
		Date:        e.Date,
		Tasks:       e.Tasks,
		Attendees:   e.Attendees,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toDomainEvent(m *mongoEvent) *domain.Event {
	return &domain.Event{
		ID:          m.ID.Hex(),
		Title:       m.Title,
		Description: m.Description,
		Location:    m.Location,
		OwnerID:     m.OwnerID,
		Date:        m.Date,
		Tasks:       m.Tasks,
		Attendees:   m.Attendees,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func eventID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrEventNotFound
	}
	return oid, nil
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, toMongoEvent(event))
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	created := *event
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := eventID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoEvent
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return toDomainEvent(&m), nil
}

func (r *EventRepository) FindAll(ctx context.Context) ([]*domain.Event, error) {
	return r.find(ctx, bson.M{}, nil)
}

func (r *EventRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID}, nil)
}

func (r *EventRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = r.coll.Find(ctx, filter, opts)
	} else {
		cur, err = r.coll.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Event
	for cur.Next(ctx) {
		var m mongoEvent
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		out = append(out, toDomainEvent(&m))
	}
	return out, cur.Err()
}

func (r *EventRepository) FindLatest(ctx context.Context) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoEvent
	err := r.coll.FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("find latest event: %w", err)
	}
	return toDomainEvent(&m), nil
}

func (r *EventRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

func (r *EventRepository) Update(ctx context.Context, id string, event *domain.Event) (*domain.Event, error) {
	oid, err := eventID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoEvent(event)
	var m mongoEvent
	err = r.coll.FindOneAndReplace(
		ctx,
		bson.M{"_id": oid},
		doc,
		options.FindOneAndReplace().SetReturnDocument(options.After),
	).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return toDomainEvent(&m), nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	oid, err := eventID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// EnsureIndexes creates the owner index used by quota counting and listing.
func (r *EventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
