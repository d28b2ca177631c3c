package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BookingRepo is the persistence collaborator of the escrow ledger. The
// transition methods perform conditional updates keyed on the expected prior
// state, so two racing transitions against the same booking can never both
// succeed. A transition that matched no document returns (nil, nil); the
// caller decides whether that means not-found or a lost precondition.
type BookingRepo interface {
	CreateBooking(ctx context.Context, booking *Booking) (*Booking, error)
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	TransitionPayment(ctx context.Context, id uuid.UUID, from []PaymentStatus, set map[string]interface{}) (*Booking, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from []BookingStatus, set map[string]interface{}) (*Booking, error)
	TransitionPaymentAndStatus(ctx context.Context, id uuid.UUID, fromPayment PaymentStatus, fromStatus BookingStatus, set map[string]interface{}) (*Booking, error)
	ListBookingsByStudent(ctx context.Context, studentId uuid.UUID, offset, limit int) ([]*Booking, int, error)
	ListBookingsByTutor(ctx context.Context, tutorId uuid.UUID, offset, limit int) ([]*Booking, int, error)
	ListAutoReleasable(ctx context.Context, endedBefore time.Time) ([]*Booking, error)
	GetEscrowStats(ctx context.Context) ([]EscrowStat, error)
}

func (mdb *MongodbRepo) CreateBooking(ctx context.Context, booking *Booking) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, BookingDbName, BookingColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if _, err := col.InsertOne(ctx, booking); err != nil {
		return nil, fmt.Errorf("error inserting booking: %v", err)
	}

	return booking, nil
}

func (mdb *MongodbRepo) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, BookingDbName, BookingColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var booking Booking
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding booking: %v", err)
	}

	return &booking, nil
}

func (mdb *MongodbRepo) TransitionPayment(ctx context.Context, id uuid.UUID, from []PaymentStatus, set map[string]interface{}) (*Booking, error) {
	filter := bson.M{
		"_id":            id,
		"payment_status": bson.M{"$in": from},
	}
	return mdb.findOneAndUpdateBooking(ctx, filter, set)
}

func (mdb *MongodbRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from []BookingStatus, set map[string]interface{}) (*Booking, error) {
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": from},
	}
	return mdb.findOneAndUpdateBooking(ctx, filter, set)
}

func (mdb *MongodbRepo) TransitionPaymentAndStatus(ctx context.Context, id uuid.UUID, fromPayment PaymentStatus, fromStatus BookingStatus, set map[string]interface{}) (*Booking, error) {
	filter := bson.M{
		"_id":            id,
		"payment_status": fromPayment,
		"status":         fromStatus,
	}
	return mdb.findOneAndUpdateBooking(ctx, filter, set)
}

func (mdb *MongodbRepo) findOneAndUpdateBooking(ctx context.Context, filter bson.M, set map[string]interface{}) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, BookingDbName, BookingColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	fields := bson.M{"updated_at": time.Now()}
	for key, value := range set {
		fields[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Booking
	err = col.FindOneAndUpdate(ctx, filter, bson.M{"$set": fields}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// No document matched the conditional filter. The booking is either
		// missing or no longer in the expected prior state.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error updating booking: %v", err)
	}

	return &updated, nil
}

func (mdb *MongodbRepo) ListBookingsByStudent(ctx context.Context, studentId uuid.UUID, offset, limit int) ([]*Booking, int, error) {
	return mdb.listBookings(ctx, bson.M{"student_id": studentId}, offset, limit)
}

func (mdb *MongodbRepo) ListBookingsByTutor(ctx context.Context, tutorId uuid.UUID, offset, limit int) ([]*Booking, int, error) {
	return mdb.listBookings(ctx, bson.M{"tutor_id": tutorId}, offset, limit)
}

func (mdb *MongodbRepo) listBookings(ctx context.Context, filter bson.M, offset, limit int) ([]*Booking, int, error) {
	col, err := mdb.GetCollection(ctx, BookingDbName, BookingColName)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting collection: %v", err)
	}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting bookings: %v", err)
	}

	opts := options.Find().
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"created_at": -1})

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error finding bookings: %v", err)
	}
	defer cursor.Close(ctx)

	var bookings []*Booking
	for cursor.Next(ctx) {
		var booking Booking
		if err := cursor.Decode(&booking); err != nil {
			return nil, 0, fmt.Errorf("error decoding booking: %v", err)
		}
		bookings = append(bookings, &booking)
	}

	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %v", err)
	}

	return bookings, int(total), nil
}

func (mdb *MongodbRepo) ListAutoReleasable(ctx context.Context, endedBefore time.Time) ([]*Booking, error) {
	col, err := mdb.GetCollection(ctx, BookingDbName, BookingColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{
		"payment_status": PaymentHeld,
		"status":         BookingCompleted,
		"scheduled_end":  bson.M{"$lte": endedBefore},
	}

	cursor, err := col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error finding releasable bookings: %v", err)
	}
	defer cursor.Close(ctx)

	var bookings []*Booking
	for cursor.Next(ctx) {
		var booking Booking
		if err := cursor.Decode(&booking); err != nil {
			return nil, fmt.Errorf("error decoding booking: %v", err)
		}
		bookings = append(bookings, &booking)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return bookings, nil
}

func (mdb *MongodbRepo) GetEscrowStats(ctx context.Context) ([]EscrowStat, error) {
	col, err := mdb.GetCollection(ctx, BookingDbName, BookingColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":          "$payment_status",
			"count":        bson.M{"$sum": 1},
			"total_amount": bson.M{"$sum": "$escrow_amount"},
		}}},
	}

	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating escrow stats: %v", err)
	}
	defer cursor.Close(ctx)

	var stats []EscrowStat
	for cursor.Next(ctx) {
		var stat EscrowStat
		if err := cursor.Decode(&stat); err != nil {
			return nil, fmt.Errorf("error decoding escrow stat: %v", err)
		}
		stats = append(stats, stat)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return stats, nil
}
