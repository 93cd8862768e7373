package flightRepo

import (
	"fmt"
	"time"

	"skybook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Stats aggregates flight counts, total seats and base price spread.
func (r *MongoFlightRepo) Stats() (*models.FlightStats, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"totalFlights": bson.M{"$sum": 1},
			"totalSeats":   bson.M{"$sum": "$seats_available"},
			"avgPrice":     bson.M{"$avg": "$base_price"},
			"minPrice":     bson.M{"$min": "$base_price"},
			"maxPrice":     bson.M{"$max": "$base_price"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"avgPrice": bson.M{"$round": bson.A{"$avgPrice", 2}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate flight stats: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.FlightStats
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode flight stats: %w", err)
	}
	if len(results) == 0 {
		return &models.FlightStats{}, nil
	}
	return &results[0], nil
}
