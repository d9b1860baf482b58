package store

import (
	"io"
	"sync"

	"github.com/akeil/bizgen/pkg/api"
)

// ProfileClient is the part of the API used by Profile.
type ProfileClient interface {
	Profile() (api.Profile, error)
	UpdateProfile(r api.UpdateProfileRequest) (api.Profile, error)
	UploadProfileImage(name string, r io.Reader) (api.Profile, error)
}

// Profile caches the profile of the signed in user.
type Profile struct {
	client ProfileClient

	mx      sync.RWMutex
	profile *api.Profile
	loading bool
	err     error
}

func NewProfile(c ProfileClient) *Profile {
	return &Profile{client: c}
}

// Get returns the cached profile.
func (p *Profile) Get() (api.Profile, bool) {
	p.mx.RLock()
	defer p.mx.RUnlock()
	if p.profile == nil {
		return api.Profile{}, false
	}
	return *p.profile, true
}

func (p *Profile) Set(profile api.Profile) {
	p.mx.Lock()
	defer p.mx.Unlock()
	p.profile = &profile
}

// Err is the error from the last failed operation.
func (p *Profile) Err() error {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return p.err
}

func (p *Profile) Loading() bool {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return p.loading
}

// Fetch loads the profile.
// A failure is also kept in Err.
func (p *Profile) Fetch() error {
	return p.run(p.client.Profile)
}

// Update changes the profile.
func (p *Profile) Update(r api.UpdateProfileRequest) error {
	return p.run(func() (api.Profile, error) {
		return p.client.UpdateProfile(r)
	})
}

// UploadImage replaces the profile picture.
func (p *Profile) UploadImage(name string, r io.Reader) error {
	return p.run(func() (api.Profile, error) {
		return p.client.UploadProfileImage(name, r)
	})
}

func (p *Profile) Clear() {
	p.mx.Lock()
	defer p.mx.Unlock()
	p.profile = nil
	p.loading = false
	p.err = nil
}

func (p *Profile) run(fn func() (api.Profile, error)) error {
	p.mx.Lock()
	p.loading = true
	p.err = nil
	p.mx.Unlock()

	profile, err := fn()

	p.mx.Lock()
	defer p.mx.Unlock()
	p.loading = false
	if err != nil {
		p.err = err
		return err
	}
	p.profile = &profile
	return nil
}
