package logger

import (
	"context"
	"log"
	"time"

	log_model "otp-gateway/models/log"

	"go.mongodb.org/mongo-driver/mongo"
)

// AsyncLogger drains request-audit entries from a buffered channel into
// the request_logs collection so that handlers never block on the store.
type AsyncLogger struct {
	col     *mongo.Collection
	channel chan log_model.Log
}

func NewAsyncLogger(db *mongo.Database) *AsyncLogger {
	return &AsyncLogger{
		col:     db.Collection("request_logs"),
		channel: make(chan log_model.Log, 100),
	}
}

func (logger *AsyncLogger) ProcessLog() {
	log.Println("Starting asynchronous request logger...")

	for entry := range logger.channel {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if _, err := logger.col.InsertOne(ctx, entry); err != nil {
			log.Printf("Failed to insert request log entry: %v", err)
		}
		cancel()
	}
}

// Log pushes an entry into the channel, dropping it when the buffer is
// full rather than stalling the request path.
func (logger *AsyncLogger) Log(entry log_model.Log) {
	select {
	case logger.channel <- entry:
	default:
	}
}
