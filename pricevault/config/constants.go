package config

import "time"

// Store layout
const (
	HistoryTable = "price_history"
	CardsTable   = "cards"

	// ReferenceSchema is the alias a reference dataset is attached under
	// during a refresh.
	ReferenceSchema = "refdata"

	CardsSetNumberIndex = "idx_cards_set_number"
)

// Default locations, matching the MTGJSON file names
const (
	DefaultDataDir     = "data"
	DefaultStoreFile   = "AllData.sqlite"
	DefaultBulkPrices  = "AllPrices.json"
	DefaultDailyPrices = "AllPricesToday.json"
	DefaultReference   = "AllPrintings.sqlite"
)

const (
	SourceKindFile   = "file"
	SourceKindSpaces = "spaces"
)

// Pipeline tuning
const (
	DefaultBatchSize         = 500
	DefaultProgressEvery     = 50000
	DefaultResolverCacheSize = 10000
	DefaultBusyTimeoutMS     = 5000
)

// Timeouts
const (
	DefaultQueryTimeout  = 10 * time.Second
	NotifyTimeout        = 10 * time.Second
	SpacesRequestTimeout = 30 * time.Minute
)
