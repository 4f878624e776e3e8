package credentials

// Keys used in the shared key-value storage area.
const (
	TokenKey = "token"
	UserKey  = "user"
)

// Storage is a process-wide key-value persistence surface. Implementations
// must apply SetAll and Delete atomically: after a call either every entry
// changed or none did.
type Storage interface {
	// Get returns the value stored under key, and whether it exists
	Get(key string) (string, bool, error)

	// SetAll writes every entry in a single atomic step
	SetAll(entries map[string]string) error

	// Delete removes the keys; missing keys are not an error
	Delete(keys ...string) error
}

// Inert is the Storage used where nothing may be persisted, such as a
// server-side render. Reads always come back empty and writes succeed without
// effect.
type Inert struct{}

var _ Storage = Inert{}

func (Inert) Get(string) (string, bool, error) { return "", false, nil }

func (Inert) SetAll(map[string]string) error { return nil }

func (Inert) Delete(...string) error { return nil }

// IsInert reports whether s never persists anything.
func IsInert(s Storage) bool {
	switch s.(type) {
	case Inert, *Inert:
		return true
	default:
		return false
	}
}
