package quiz

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Revision returns a content hash of the definition. Two quizzes with the
// same questions, options, weights and thresholds share a revision.
func Revision(q *Quiz) (string, error) {
	b, err := json.Marshal(q)
	if err != nil {
		return "", fmt.Errorf("marshal quiz %s: %w", q.ID, err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8]), nil
}
