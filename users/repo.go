package users

type UserRepo interface {
	Upsert(user *User) error
	GetByID(id string) (*User, error)
	GetByUsername(username string) (*User, error)
	List(offset, limit int) ([]*User, error)
	SetActive(id string, active bool) error
}
