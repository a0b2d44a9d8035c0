package models

import (
	"github.com/uptrace/bun"
)

// PriceHistory is one printing's accumulated price tree. PriceJSON always
// holds the canonical encoding, so equal trees are equal strings.
type PriceHistory struct {
	bun.BaseModel `bun:"table:price_history,alias:ph"`

	UUID      string `bun:"uuid,pk,type:text"`
	PriceJSON string `bun:"price_json,notnull,type:text"`
}
