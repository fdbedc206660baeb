package domain

// SourceKind distinguishes the two ingestion paths.
type SourceKind string

const (
	// SourceAPI is a structured REST catalog: a poll returns the complete
	// current set of tradable pairs, all implicitly listed right now.
	SourceAPI SourceKind = "api"

	// SourceCMS is an announcement page/feed: a poll returns recently
	// published items which may reference future-dated listings.
	SourceCMS SourceKind = "cms"
)

// String returns the string representation of SourceKind.
func (k SourceKind) String() string {
	return string(k)
}

// IsValid checks if the kind is a valid value.
func (k SourceKind) IsValid() bool {
	return k == SourceAPI || k == SourceCMS
}
