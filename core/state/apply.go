package state

// Apply runs a single engine operation against the manager and settles its
// staged writes: a nil result commits the whole overlay in one batch, any
// error discards it. This is the host-side contract that makes every
// operation all-or-nothing, including compound ones that stage across
// engines (order settlement, batch issuance).
func Apply(m *Manager, op func() error) error {
	if err := op(); err != nil {
		m.Discard()
		return err
	}
	if err := m.Commit(); err != nil {
		m.Discard()
		return err
	}
	return nil
}
