package fakeuserrepo

import (
	"sort"
	"strconv"
	"sync"

	autherrors "github.com/jrsteele09/homecare-session/internal/errors"
	"github.com/jrsteele09/homecare-session/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type loginKey struct {
	role   users.Role
	userID string
}

type FakeUserRepo struct {
	users  map[users.ID]*users.User
	logins map[loginKey]users.ID
	nextID int64
	lock   sync.RWMutex
}

func NewFakeUserRepo() users.UserRepo {
	return &FakeUserRepo{
		users:  make(map[users.ID]*users.User),
		logins: make(map[loginKey]users.ID),
	}
}

// Upsert stores a copy of user, assigning a numeric id when none is set
func (ur *FakeUserRepo) Upsert(user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if user.ID == "" {
		ur.nextID++
		user.ID = users.ID(strconv.FormatInt(ur.nextID, 10))
	}
	stored := *user
	ur.users[user.ID] = &stored
	ur.logins[loginKey{role: user.Role, userID: user.UserID}] = user.ID
	return nil
}

func (ur *FakeUserRepo) GetByLogin(role users.Role, userID string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.logins[loginKey{role: role, userID: userID}]
	if !ok {
		return nil, autherrors.ErrUserNotFound
	}
	u := *ur.users[id]
	return &u, nil
}

func (ur *FakeUserRepo) GetByID(id users.ID) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	u, ok := ur.users[id]
	if !ok {
		return nil, autherrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// List returns the accounts of one role ordered by id. An empty role lists everyone.
func (ur *FakeUserRepo) List(role users.Role) ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userList := make([]*users.User, 0, len(ur.users))
	for _, v := range ur.users {
		if role != "" && v.Role != role {
			continue
		}
		cp := *v
		userList = append(userList, &cp)
	}

	sort.Slice(userList, func(i, j int) bool {
		a, _ := strconv.ParseInt(string(userList[i].ID), 10, 64)
		b, _ := strconv.ParseInt(string(userList[j].ID), 10, 64)
		return a < b
	})
	return userList, nil
}

func (ur *FakeUserRepo) SetBlocked(id users.ID, blocked bool) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	u, ok := ur.users[id]
	if !ok {
		return autherrors.ErrUserNotFound
	}
	u.Blocked = blocked
	return nil
}
