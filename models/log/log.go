package log

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Log represents an HTTP request/response log entry.
type Log struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Method     string             `bson:"method" json:"method"`
	URL        string             `bson:"url" json:"url"`
	ClientIP   string             `bson:"clientIp" json:"client_ip"`
	StatusCode int                `bson:"statusCode" json:"status_code"`
	LatencyMS  int64              `bson:"latencyMs" json:"latency_ms"`
	CreatedAt  time.Time          `bson:"createdAt" json:"created_at"`
}
