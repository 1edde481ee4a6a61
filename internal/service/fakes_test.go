package service

import (
	"context"

	"github.com/homeward-labs/homegate-server/internal/model"
)

// In-memory store fakes. Err* fields force a failure on the matching call.

type fakeUserStore struct {
	users  map[string]model.User
	nextID int64

	errCreate error
	errGet    error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]model.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	if f.errCreate != nil {
		return model.User{}, f.errCreate
	}
	if _, ok := f.users[user.Username]; ok {
		return model.User{}, model.ErrConflict
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.Username] = user
	return user, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	if f.errGet != nil {
		return model.User{}, f.errGet
	}
	user, ok := f.users[username]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (model.User, error) {
	if f.errGet != nil {
		return model.User{}, f.errGet
	}
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

type fakeSessionStore struct {
	sessions map[string]model.Session
	byUser   map[int64]model.SessionUser

	errCreate  error
	errResolve error
	errDelete  error
	deletes    int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[string]model.Session),
		byUser:   make(map[int64]model.SessionUser),
	}
}

func (f *fakeSessionStore) Create(_ context.Context, userID int64, sessionID string) (model.Session, error) {
	if f.errCreate != nil {
		return model.Session{}, f.errCreate
	}
	session := model.Session{ID: sessionID, UserID: userID}
	f.sessions[sessionID] = session
	return session, nil
}

func (f *fakeSessionStore) Get(_ context.Context, sessionID string) (model.Session, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return model.Session{}, model.ErrNotFound
	}
	return session, nil
}

func (f *fakeSessionStore) GetUserBySession(_ context.Context, sessionID string) (model.SessionUser, error) {
	if f.errResolve != nil {
		return model.SessionUser{}, f.errResolve
	}
	session, ok := f.sessions[sessionID]
	if !ok {
		return model.SessionUser{}, model.ErrNotFound
	}
	user, ok := f.byUser[session.UserID]
	if !ok {
		return model.SessionUser{}, model.ErrNotFound
	}
	return user, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, sessionID string) error {
	if f.errDelete != nil {
		return f.errDelete
	}
	f.deletes++
	delete(f.sessions, sessionID)
	return nil
}

type fakeDeviceStore struct {
	devices []model.Device
	nextID  int64

	errCreate error
	errList   error
}

func (f *fakeDeviceStore) Create(_ context.Context, userID int64, name, serial string) (model.Device, error) {
	if f.errCreate != nil {
		return model.Device{}, f.errCreate
	}
	for _, d := range f.devices {
		if d.Serial == serial {
			return model.Device{}, model.ErrConflict
		}
	}
	f.nextID++
	device := model.Device{ID: f.nextID, Name: name, Serial: serial, UserID: userID}
	f.devices = append(f.devices, device)
	return device, nil
}

func (f *fakeDeviceStore) GetByUserID(_ context.Context, userID int64) ([]model.Device, error) {
	if f.errList != nil {
		return nil, f.errList
	}
	owned := make([]model.Device, 0)
	for _, d := range f.devices {
		if d.UserID == userID {
			owned = append(owned, d)
		}
	}
	return owned, nil
}
