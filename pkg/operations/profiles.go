package operations

import (
	"github.com/vivtool/vivtool/pkg/errors"
	"github.com/vivtool/vivtool/pkg/profile"
	"github.com/vivtool/vivtool/pkg/types"
)

// ListProfilesResult holds the registered profiles in display order
type ListProfilesResult struct {
	Profiles []profile.Entry
}

// ListProfiles reads the registry and returns all known profiles
func ListProfiles(env *Env) (*ListProfilesResult, error) {
	entries, err := env.registry().List()
	if err != nil {
		return nil, err
	}
	return &ListProfilesResult{Profiles: entries}, nil
}

// CreateProfileOptions names the new profile
type CreateProfileOptions struct {
	Name string
}

// CreateProfileResult identifies the created profile
type CreateProfileResult struct {
	Profile types.Profile
}

// CreateProfile registers a new profile and creates its directory. The
// registry is backed up before its first mutation.
func CreateProfile(env *Env, opts CreateProfileOptions) (*CreateProfileResult, error) {
	if opts.Name == "" {
		return nil, errors.New(errors.ErrInvalidInput, "profile name must not be empty")
	}
	created, err := env.registry().Create(opts.Name)
	if err != nil {
		return nil, err
	}
	return &CreateProfileResult{Profile: created}, nil
}

// DeleteProfileOptions selects the profile to delete
type DeleteProfileOptions struct {
	Profile types.Profile
}

// DeleteProfileResult identifies the removed profile
type DeleteProfileResult struct {
	Profile types.Profile
}

// DeleteProfile removes a profile from the registry and deletes its
// directory with everything in it. Confirmation-gated; the default
// profile cannot be deleted.
func DeleteProfile(env *Env, opts DeleteProfileOptions) (*DeleteProfileResult, error) {
	if opts.Profile.Dir == "Default" {
		return nil, errors.New(errors.ErrInvalidInput, "the default profile cannot be deleted")
	}

	ok, err := env.Confirm.Confirm(
		"Delete profile " + opts.Profile.Dir + " and all of its data?")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Newf(errors.ErrDeclined, "delete of %s aborted", opts.Profile.Dir)
	}

	if err := env.registry().Delete(opts.Profile); err != nil {
		return nil, err
	}
	return &DeleteProfileResult{Profile: opts.Profile}, nil
}
