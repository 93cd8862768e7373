package bookingRepo

import (
	"fmt"
	"time"

	"skybook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Stats aggregates booking totals by status, revenue figures rounded to two
// decimals, and a per-calendar-month breakdown of creation volume.
func (r *MongoBookingRepo) Stats() (*models.BookingStats, []models.MonthlyBookingStat, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	statusCond := func(status string) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{"$status", status}}, 1, 0,
		}}}
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":               nil,
			"totalBookings":     bson.M{"$sum": 1},
			"totalRevenue":      bson.M{"$sum": "$total_amount"},
			"avgBookingValue":   bson.M{"$avg": "$total_amount"},
			"pendingBookings":   statusCond(models.BookingStatusPending),
			"confirmedBookings": statusCond(models.BookingStatusConfirmed),
			"cancelledBookings": statusCond(models.BookingStatusCancelled),
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"totalRevenue":    bson.M{"$round": bson.A{"$totalRevenue", 2}},
			"avgBookingValue": bson.M{"$round": bson.A{"$avgBookingValue", 2}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate booking stats: %w", err)
	}
	var totals []models.BookingStats
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, nil, fmt.Errorf("failed to decode booking stats: %w", err)
	}

	monthlyPipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":     bson.M{"$month": "$created_at"},
			"count":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$total_amount"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"month":   "$_id",
			"revenue": bson.M{"$round": bson.A{"$revenue", 2}},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"month": 1}}},
	}

	monthlyCursor, err := r.coll.Aggregate(ctx, monthlyPipeline)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate monthly booking stats: %w", err)
	}
	monthly := []models.MonthlyBookingStat{}
	if err := monthlyCursor.All(ctx, &monthly); err != nil {
		return nil, nil, fmt.Errorf("failed to decode monthly booking stats: %w", err)
	}

	stats := &models.BookingStats{}
	if len(totals) > 0 {
		stats = &totals[0]
	}
	return stats, monthly, nil
}
