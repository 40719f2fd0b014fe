package types

// UIState is the view state shown to the user. Only user input and the
// terminal transitions of an attempt mutate it.
type UIState struct {
	PackageID       string `json:"package_id"`
	CounterID       string `json:"counter_id"`
	InitValue       uint64 `json:"init_value"`
	IncrementAmount uint64 `json:"increment_amount"`
	LastDigest      string `json:"last_digest,omitempty"`
	ErrorMessage    string `json:"error_message,omitempty"`
}

// DefaultUIState returns the initial view state for packageID.
func DefaultUIState(packageID string) UIState {
	return UIState{
		PackageID:       packageID,
		InitValue:       0,
		IncrementAmount: 1,
	}
}
