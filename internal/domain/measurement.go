package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BodyMeasurement is a timestamped body-weight / body-fat data point.
type BodyMeasurement struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            string             `bson:"userId" json:"userId"`
	MeasurementDate   time.Time          `bson:"measurementDate" json:"measurement_date"`
	Weight            float64            `bson:"weight" json:"weight"`
	BodyFatPercentage *float64           `bson:"bodyFatPercentage,omitempty" json:"body_fat_percentage"`
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"created_at"`
}
