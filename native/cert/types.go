package cert

// Certificate represents one unit of sequestered-carbon credit. Expiry is a
// read-time predicate only: an expired certificate still exists and remains
// transferable until it is burned.
type Certificate struct {
	ID           uint64
	Owner        [20]byte
	CarbonAmount uint64 // tonnes
	IssuedAt     int64
	ExpiresAt    int64 // unix seconds, 0 = never expires
}

// Copy returns a value copy so callers cannot mutate registry state through a
// returned snapshot.
func (c *Certificate) Copy() *Certificate {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

type storedCertificate struct {
	Owner        [20]byte
	CarbonAmount uint64
	IssuedAt     uint64
	ExpiresAt    uint64
}

func toStored(c *Certificate) storedCertificate {
	stored := storedCertificate{Owner: c.Owner, CarbonAmount: c.CarbonAmount}
	if c.IssuedAt > 0 {
		stored.IssuedAt = uint64(c.IssuedAt)
	}
	if c.ExpiresAt > 0 {
		stored.ExpiresAt = uint64(c.ExpiresAt)
	}
	return stored
}

func fromStored(id uint64, stored *storedCertificate) *Certificate {
	return &Certificate{
		ID:           id,
		Owner:        stored.Owner,
		CarbonAmount: stored.CarbonAmount,
		IssuedAt:     int64(stored.IssuedAt),
		ExpiresAt:    int64(stored.ExpiresAt),
	}
}
