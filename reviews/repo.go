package reviews

type ReviewRepo interface {
	Upsert(review *Review) error
	GetByID(id string) (*Review, error)
	List() ([]*Review, error)
	Delete(id string) error
}
