package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"concierge/database"
	"concierge/models"
	"concierge/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoBookingRepo implements Repository on the bookings collection.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

func NewMongoBookingRepo() *MongoBookingRepo {
	coll := database.MongoClient.Database(database.DBName).Collection("bookings")
	return &MongoBookingRepo{coll: coll}
}

// EnsureIndexes creates the necessary indexes on the bookings collection.
// The unique index on slot_key is what makes Reserve a conditional insert:
// double-booking is rejected by the index, not by a read-then-write check.
// Both unique indexes are partial on confirmed status, so a cancelled
// booking releases its slot key and its booking-<epoch> ID for rebooking.
func (r *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	confirmedOnly := bson.D{{Key: "status", Value: models.BookingStatusConfirmed}}
	indexModels := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "slot_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_confirmed_slot_key").
				SetPartialFilterExpression(confirmedOnly),
		},
		{
			Keys: bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_confirmed_id").
				SetPartialFilterExpression(confirmedOnly),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("status_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}

// BookedKeys returns the slot keys of all confirmed bookings. Store errors
// are logged and swallowed so that slot listing keeps working before the
// first booking ever lands.
func (r *MongoBookingRepo) BookedKeys(ctx context.Context) (map[string]struct{}, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	keys := make(map[string]struct{})
	cursor, err := r.coll.Find(ctxWithTimeout,
		bson.M{"status": models.BookingStatusConfirmed},
		options.Find().SetProjection(bson.M{"slot_key": 1}),
	)
	if err != nil {
		utils.GetLogger().Warn("BookedKeys: falling back to empty set", zap.Error(err))
		return keys, nil
	}
	defer cursor.Close(ctxWithTimeout)

	for cursor.Next(ctxWithTimeout) {
		var doc struct {
			SlotKey string `bson:"slot_key"`
		}
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		keys[doc.SlotKey] = struct{}{}
	}
	return keys, nil
}

// Reserve inserts a new confirmed booking. A duplicate slot key trips the
// unique index and surfaces as ErrSlotTaken.
func (r *MongoBookingRepo) Reserve(ctx context.Context, booking *models.Booking) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctxWithTimeout, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its identifier. Cancel-then-rebook can
// leave a cancelled record under the same ID; the newest record is the
// current one.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctxWithTimeout, bson.M{"id": id},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking %s: %w", id, err)
	}
	return &booking, nil
}

// Cancel flips a confirmed booking to cancelled. The filter on the current
// status makes the transition conditional, matching Reserve's discipline.
func (r *MongoBookingRepo) Cancel(ctx context.Context, id string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.BookingStatusConfirmed}
	update := bson.M{"$set": bson.M{"status": models.BookingStatusCancelled}}
	res, err := r.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return fmt.Errorf("error cancelling booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
