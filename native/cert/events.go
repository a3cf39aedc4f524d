package cert

import (
	"strconv"

	gethcommon "github.com/ethereum/go-ethereum/common"

	"karvachain/core/events"
)

// Event types emitted by the certificate registry.
const (
	TypeIssued      = "cert.issued"
	TypeTransferred = "cert.transferred"
	TypeBurned      = "cert.burned"
)

func issuedEvent(c *Certificate) events.Event {
	return events.Event{
		Type: TypeIssued,
		Attributes: map[string]string{
			"id":           strconv.FormatUint(c.ID, 10),
			"owner":        gethcommon.BytesToAddress(c.Owner[:]).Hex(),
			"carbonAmount": strconv.FormatUint(c.CarbonAmount, 10),
			"issuedAt":     strconv.FormatInt(c.IssuedAt, 10),
			"expiresAt":    strconv.FormatInt(c.ExpiresAt, 10),
		},
	}
}

func transferredEvent(id uint64, from, to [20]byte) events.Event {
	return events.Event{
		Type: TypeTransferred,
		Attributes: map[string]string{
			"id":   strconv.FormatUint(id, 10),
			"from": gethcommon.BytesToAddress(from[:]).Hex(),
			"to":   gethcommon.BytesToAddress(to[:]).Hex(),
		},
	}
}

func burnedEvent(id uint64, owner [20]byte) events.Event {
	return events.Event{
		Type: TypeBurned,
		Attributes: map[string]string{
			"id":    strconv.FormatUint(id, 10),
			"owner": gethcommon.BytesToAddress(owner[:]).Hex(),
		},
	}
}
