package domain

import "time"

// CandidateRecord is a single listing observation as reported by one
// source, before deduplication.
type CandidateRecord struct {
	Exchange    string      // source exchange identifier (Binance | Bybit | ...)
	RawSymbol   string      // ticker/pair as given by the source, arbitrary casing
	MarketClass MarketClass // spot | perp | unknown
	SourceKind  SourceKind  // api | cms
	EffectiveAt *time.Time  // cms only: when the listing takes effect; nil means unknown/immediate
	DetailsURL  string      // optional human-readable reference link
}

// ListingKey is the canonical identity of a listing event. Two records
// with equal keys refer to the same listing and collapse to a single
// stored/notified occurrence. Symbol is expected in normalized form
// (see internal/symbol); stores normalize defensively.
type ListingKey struct {
	Exchange string
	Symbol   string
	Market   MarketClass
}

// SeenListing is one persisted row per distinct ListingKey.
// Corresponds to the seen_listings table in PostgreSQL. Rows are created
// exactly once and never updated or deleted.
type SeenListing struct {
	Exchange    string
	Symbol      string // normalized
	Market      MarketClass
	Source      SourceKind // which ingestion path first recorded it
	FirstSeenAt time.Time
}
