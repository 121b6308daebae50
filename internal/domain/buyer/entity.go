// internal/domain/buyer/entity.go
package buyer

import (
	"database/sql"
	"time"
)

// Buyer is a client's customer. Phone is unique per client, not globally:
// lookups are always scoped by (client_id, phone).
type Buyer struct {
	ID       int64  `json:"id" db:"id"`
	ClientID int64  `json:"client_id" db:"client_id"`
	Name     string `json:"name" db:"name"`
	Phone    string `json:"phone" db:"phone"`

	Email   sql.NullString `json:"email,omitempty" db:"email"`
	Address sql.NullString `json:"address,omitempty" db:"address"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
