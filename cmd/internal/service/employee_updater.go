package service

import (
	"pontodigital/cmd/internal/credentials"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

// employeeUpdater acts as a "Change Set" context.
// It accumulates errors and tracks if a save is actually needed.
type employeeUpdater struct {
	target *entity.Employee
	hasher credentials.Hasher

	// State
	err         apierror.ErrorResponse
	dirty       bool
	deactivated bool
}

// setString handles plain profile fields (name, email, function, shift).
func (u *employeeUpdater) setString(newVal *string, targetField *string) {
	if u.err != nil || newVal == nil {
		return
	}

	if *newVal == *targetField {
		return
	}

	*targetField = *newVal
	u.dirty = true
}

// setPassword re-hashes the password. The old hash is never compared to
// the new plain text: every provided password produces a new hash.
func (u *employeeUpdater) setPassword(newVal *string) {
	if u.err != nil || newVal == nil {
		return
	}

	hash, err := u.hasher.Hash(*newVal)
	if err != nil {
		log.Errorf("failed to hash password of employee %d: %v", u.target.ID, err)
		u.err = apierror.InternalServerError
		return
	}

	u.target.PasswordHash = hash
	u.dirty = true
}

func (u *employeeUpdater) setActive(newVal *bool) {
	if u.err != nil || newVal == nil {
		return
	}

	if u.target.Active == *newVal {
		return
	}

	u.deactivated = u.target.Active && !*newVal
	u.target.Active = *newVal
	u.dirty = true
}

func (u *employeeUpdater) setPhotoURL(url string) {
	if u.err != nil || url == "" || url == u.target.PhotoURL {
		return
	}

	u.target.PhotoURL = url
	u.dirty = true
}
