package store

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func nullableString(p *string) any {
	if p == nil || *p == "" {
		return nil
	}
	return *p
}
