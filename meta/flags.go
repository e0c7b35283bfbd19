package meta

// Flags is an ordered list of response flags, preserving wire order.
type Flags []Flag

// Has reports whether flags contains a flag of the given type.
func (f Flags) Has(flagType FlagType) bool {
	for _, flag := range f {
		if flag.Type == flagType {
			return true
		}
	}
	return false
}

// Get returns the token for the first flag of the given type.
// ok is true if the flag is present; token is nil if present without a token.
func (f Flags) Get(flagType FlagType) (token []byte, ok bool) {
	for _, flag := range f {
		if flag.Type == flagType {
			if flag.Token == "" {
				return nil, true
			}
			return []byte(flag.Token), true
		}
	}
	return nil, false
}
