package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"flightsurety-relay/internal/domain/entity"
	"flightsurety-relay/internal/domain/repository"
	"flightsurety-relay/pkg/logger"
)

// MongoSnapshotRepository mirrors rebuilt state into MongoDB for read-side
// consumers. Documents are keyed on the domain identifiers so repeated
// mirrors upsert instead of duplicating.
type MongoSnapshotRepository struct {
	airlines *mongo.Collection
	flights  *mongo.Collection
	wallets  *mongo.Collection
	logger   logger.Logger
}

// NewMongoSnapshotRepository creates a new MongoDB snapshot repository
func NewMongoSnapshotRepository(db *mongo.Database, logger logger.Logger) repository.SnapshotRepository {
	return &MongoSnapshotRepository{
		airlines: db.Collection("airlines"),
		flights:  db.Collection("flights"),
		wallets:  db.Collection("passenger_wallets"),
		logger:   logger,
	}
}

type airlineDoc struct {
	Address string `bson:"_id"`
	IsFirst bool   `bson:"isFirst"`
	FeePaid bool   `bson:"feePaid"`
}

type passengerDoc struct {
	Address       string `bson:"address"`
	FlightNumber  string `bson:"flightNumber"`
	InsuredAmount string `bson:"insuredAmount"`
}

type flightDoc struct {
	Key          string         `bson:"_id"`
	Airline      string         `bson:"airline"`
	FlightNumber string         `bson:"flightNumber"`
	Timestamp    string         `bson:"timestamp"`
	StatusCode   uint8          `bson:"statusCode"`
	Status       string         `bson:"status"`
	Passengers   []passengerDoc `bson:"passengers"`
	PaidOut      bool           `bson:"paidOut"`
}

type walletDoc struct {
	Address string `bson:"_id"`
	Balance string `bson:"balance"`
}

// SaveSnapshot upserts every entity of the snapshot into its collection
func (r *MongoSnapshotRepository) SaveSnapshot(ctx context.Context, snapshot *entity.Snapshot) error {
	for _, airline := range snapshot.Airlines {
		doc := airlineDoc{
			Address: airline.Address.Hex(),
			IsFirst: airline.IsFirst,
			FeePaid: airline.FeePaid,
		}
		if err := r.upsert(ctx, r.airlines, doc.Address, doc); err != nil {
			return fmt.Errorf("mirroring airline %s: %w", doc.Address, err)
		}
	}

	for _, flight := range snapshot.Flights {
		doc := flightDoc{
			Key:          flight.Key.Hex(),
			Airline:      flight.AirlineAddress.Hex(),
			FlightNumber: flight.FlightNumber,
			Timestamp:    flight.Timestamp.String(),
			StatusCode:   uint8(flight.StatusCode),
			Status:       flight.StatusCode.String(),
			Passengers:   toPassengerDocs(flight.Passengers),
			PaidOut:      flight.PaidOut,
		}
		if err := r.upsert(ctx, r.flights, doc.Key, doc); err != nil {
			return fmt.Errorf("mirroring flight %s: %w", flight.FlightNumber, err)
		}
	}

	for _, wallet := range snapshot.Wallets {
		doc := walletDoc{
			Address: wallet.Address.Hex(),
			Balance: wallet.Balance.String(),
		}
		if err := r.upsert(ctx, r.wallets, doc.Address, doc); err != nil {
			return fmt.Errorf("mirroring wallet %s: %w", doc.Address, err)
		}
	}

	return nil
}

func (r *MongoSnapshotRepository) upsert(ctx context.Context, collection *mongo.Collection, id string, doc interface{}) error {
	_, err := collection.ReplaceOne(ctx,
		bson.M{"_id": id},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

func toPassengerDocs(passengers []*entity.Passenger) []passengerDoc {
	docs := make([]passengerDoc, len(passengers))
	for i, p := range passengers {
		docs[i] = passengerDoc{
			Address:       p.Address.Hex(),
			FlightNumber:  p.FlightNumber,
			InsuredAmount: p.InsuredAmount.String(),
		}
	}
	return docs
}
