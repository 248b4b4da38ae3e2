package core

// Searchable is implemented by every index family: given a query
// vector and a k, it returns up to k FeatureRecords ordered ascending
// by the index's configured distance.
type Searchable interface {
	Query(query []float32, k int) ([]FeatureRecord, error)
}

// Buildable is implemented by every index family: build replaces any
// prior contents atomically with the supplied records.
type Buildable interface {
	Build(records []FeatureRecord) error
}

// Insertable is implemented only by index families that support
// appending a single record without a full rebuild.
type Insertable interface {
	Insert(record FeatureRecord) error
}

// Capabilities is a static, compile-time-checkable descriptor of which
// operations an index type supports, so callers can pick a strategy
// at runtime without probing via type assertion or reflection.
type Capabilities struct {
	Insertable bool
	Buildable  bool
	Searchable bool
}
