package utils

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerateETag derives a weak validator from a document's id and last write.
func GenerateETag(id primitive.ObjectID, updatedAt time.Time) string {
	return fmt.Sprintf(`W/"%s-%d"`, id.Hex(), updatedAt.UnixNano())
}

// GenerateListETag also folds in the list length so removals change it.
func GenerateListETag(latestID primitive.ObjectID, latestUpdate time.Time, n int) string {
	return fmt.Sprintf(`W/"%s-%d-%d"`, latestID.Hex(), latestUpdate.UnixNano(), n)
}
