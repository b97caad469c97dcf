package auth

import (
	"context"
	"errors"

	"github.com/dropDatabas3/gatejohn/internal/identity"
	"github.com/dropDatabas3/gatejohn/internal/store/core"
)

// fakeProvider implementa Provider con respuestas programables.
type fakeProvider struct {
	signUpSession  *identity.Session
	signUpErr      error
	signInSession  *identity.Session
	signInErr      error
	refreshSession *identity.Session
	refreshErr     error
	getUserUser    *identity.User
	getUserErr     error
	signOutErr     error
	resetErr       error
	verifySession  *identity.Session
	verifyErr      error
	updatePassErr  error
	deletedIDs     []string
	deleteErr      error

	signInCalls     int
	updatePassCalls int
}

func (f *fakeProvider) SignUp(context.Context, string, string, map[string]any) (*identity.Session, error) {
	return f.signUpSession, f.signUpErr
}

func (f *fakeProvider) SignInWithPassword(context.Context, string, string) (*identity.Session, error) {
	f.signInCalls++
	return f.signInSession, f.signInErr
}

func (f *fakeProvider) RefreshSession(context.Context, string) (*identity.Session, error) {
	return f.refreshSession, f.refreshErr
}

func (f *fakeProvider) GetUser(context.Context, string) (*identity.User, error) {
	return f.getUserUser, f.getUserErr
}

func (f *fakeProvider) SignOut(context.Context, string) error { return f.signOutErr }

func (f *fakeProvider) ResetPasswordForEmail(context.Context, string, string) error {
	return f.resetErr
}

func (f *fakeProvider) VerifyRecoveryToken(context.Context, string) (*identity.Session, error) {
	return f.verifySession, f.verifyErr
}

func (f *fakeProvider) UpdateUserPassword(context.Context, string, string) (*identity.User, error) {
	f.updatePassCalls++
	return nil, f.updatePassErr
}

func (f *fakeProvider) AdminDeleteUser(_ context.Context, id string) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return f.deleteErr
}

// fakeRepo implementa core.ProfileRepository en memoria.
type fakeRepo struct {
	profiles  map[string]*core.Profile
	createErr error
	updateErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{profiles: map[string]*core.Profile{}}
}

func (f *fakeRepo) Create(_ context.Context, p *core.Profile) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*core.Profile, error) {
	if p, ok := f.profiles[id]; ok {
		return p, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) Update(_ context.Context, id string, upd core.ProfileUpdate) (*core.Profile, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Phone != nil {
		p.Phone = *upd.Phone
	}
	return p, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.profiles[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.profiles, id)
	return nil
}

var errProfileInsert = errors.New("insert failed")
