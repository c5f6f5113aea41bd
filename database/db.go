package database

import (
	"context"
	"os"
	"time"

	"otp-gateway/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InitDB connects to MongoDB using MONGO_URI and MONGO_DB from the
// environment and verifies the connection with a ping.
func InitDB() (*mongo.Database, *mongo.Client, error) {
	uri := os.Getenv("MONGO_URI")
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "otp_gateway"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logger.Error("MongoDB connection failed", err)
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		logger.Error("MongoDB ping failed", err)
		return nil, nil, err
	}

	logger.Success("🚀 Connected to MongoDB successfully")
	return client.Database(dbName), client, nil
}
