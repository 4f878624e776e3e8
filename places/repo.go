package places

type PlaceRepo interface {
	Upsert(place *Place) error
	GetByID(id string) (*Place, error)
	List() ([]*Place, error)
	Delete(id string) error
}
