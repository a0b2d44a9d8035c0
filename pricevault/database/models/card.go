package models

import (
	"github.com/uptrace/bun"
)

// Card is the slice of the reference cards table the pipeline reads. The
// table itself is owned by the reference dataset and carries many more
// columns.
type Card struct {
	bun.BaseModel `bun:"table:cards,alias:c"`

	UUID    string `bun:"uuid,pk"`
	Name    string `bun:"name"`
	SetCode string `bun:"setCode"`
	Number  string `bun:"number"`
}
