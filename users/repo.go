package users

type UserRepo interface {
	Upsert(user *User) error
	GetByLogin(role Role, userID string) (*User, error)
	GetByID(id ID) (*User, error)
	List(role Role) ([]*User, error)
	SetBlocked(id ID, blocked bool) error
}
