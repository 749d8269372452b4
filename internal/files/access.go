package files

// CanRead grants read access to public records and to their owner.
// Everything else is ErrNotFound.
func CanRead(rec Record, viewer string) error {
	if rec.IsPublic {
		return nil
	}
	if viewer != "" && viewer == rec.OwnerID {
		return nil
	}
	return ErrNotFound
}

// CanWrite grants write access to the owner only.
// A missing viewer is ErrUnauthorized; a wrong one is ErrNotFound.
func CanWrite(rec Record, viewer string) error {
	if viewer == "" {
		return ErrUnauthorized
	}
	if viewer != rec.OwnerID {
		return ErrNotFound
	}
	return nil
}
