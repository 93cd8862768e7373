package paymentRepo

import (
	"fmt"
	"time"

	"skybook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Stats aggregates payment counts by status, revenue over successful
// payments, the success rate, and daily revenue for the trailing week.
func (r *MongoPaymentRepo) Stats() (*models.PaymentStats, []models.DailyRevenueStat, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	statusCond := func(status string) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{"$status", status}}, 1, 0,
		}}}
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"totalPayments": bson.M{"$sum": 1},
			"totalRevenue": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", models.PaymentStatusSuccess}}, "$amount", 0,
			}}},
			"successfulPayments": statusCond(models.PaymentStatusSuccess),
			"failedPayments":     statusCond(models.PaymentStatusFailed),
			"refundedPayments":   statusCond(models.PaymentStatusRefunded),
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"totalRevenue": bson.M{"$round": bson.A{"$totalRevenue", 2}},
			"successRate": bson.M{"$round": bson.A{
				bson.M{"$multiply": bson.A{
					bson.M{"$divide": bson.A{"$successfulPayments", "$totalPayments"}},
					100,
				}},
				2,
			}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate payment stats: %w", err)
	}
	var totals []models.PaymentStats
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, nil, fmt.Errorf("failed to decode payment stats: %w", err)
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	dailyPipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"status":       models.PaymentStatusSuccess,
			"completed_at": bson.M{"$gte": weekAgo},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$completed_at",
			}},
			"revenue": bson.M{"$sum": "$amount"},
			"count":   bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"date":    "$_id",
			"revenue": bson.M{"$round": bson.A{"$revenue", 2}},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"date": 1}}},
	}

	dailyCursor, err := r.coll.Aggregate(ctx, dailyPipeline)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate daily revenue: %w", err)
	}
	daily := []models.DailyRevenueStat{}
	if err := dailyCursor.All(ctx, &daily); err != nil {
		return nil, nil, fmt.Errorf("failed to decode daily revenue: %w", err)
	}

	stats := &models.PaymentStats{}
	if len(totals) > 0 {
		stats = &totals[0]
	}
	return stats, daily, nil
}
