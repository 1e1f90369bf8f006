// AngelaMos | 2026
// entity.go

package review

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Review    string             `bson:"review"        json:"review"`
	Rating    int                `bson:"rating"        json:"rating"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
	Tour      primitive.ObjectID `bson:"tour"          json:"tour"`
	User      primitive.ObjectID `bson:"user"          json:"user"`
}
