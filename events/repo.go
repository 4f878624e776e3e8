package events

type EventRepo interface {
	Upsert(event *Event) error
	GetByID(id string) (*Event, error)
	List() ([]*Event, error)
	Delete(id string) error
	// Update applies fn to the stored event under the repo's write lock and
	// saves the result unless fn returns an error.
	Update(id string, fn func(*Event) error) (*Event, error)
}
