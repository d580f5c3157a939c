package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient is one record of the patient collection. The JSON form is both the
// API representation and the stored document body.
type Patient struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Condition string    `json:"condition"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateRequest is the accepted body of POST /patients. Age is a pointer so
// that an absent field can be told apart from zero.
type CreateRequest struct {
	Name      string `json:"name"`
	Age       *int   `json:"age"`
	Condition string `json:"condition"`
}

// DeleteResponse acknowledges a successful delete.
type DeleteResponse struct {
	Success bool `json:"success"`
}

// newID returns a time-ordered identifier, so descending id order is newest
// first.
func newID() (uuid.UUID, error) {
	return uuid.NewV7()
}
