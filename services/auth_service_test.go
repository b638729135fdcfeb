package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"duospace/auth"
	"duospace/domain"
	"duospace/errors"
)

func Test_Login_CreatesUserOnFirstVisit(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	session, err := f.auth.Login("mira")
	req.NoError(err)
	req.Equal("mira", session.User.Username)
	req.Equal(domain.DefaultSettings(), session.User.Settings)
	req.NotEmpty(session.Token)

	claims, err := auth.ValidateToken(session.Token)
	req.NoError(err)
	req.Equal(session.User.ID, claims.UserID)
}

func Test_Login_ResumesExistingUser_IgnoringCase(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	first, err := f.auth.Login("Mira")
	req.NoError(err)

	second, err := f.auth.Login("  mira ")
	req.NoError(err)
	req.Equal(first.User.ID, second.User.ID)
}

func Test_Login_RejectsMalformedUsername(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	_, err := f.auth.Login("m!")
	req.ErrorIs(err, errors.ErrInvalidUsername)
}

func Test_CheckUsernameAvailability(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	free, err := f.auth.CheckUsernameAvailability("mira")
	req.NoError(err)
	req.True(free)

	_, err = f.auth.Login("mira")
	req.NoError(err)

	taken, err := f.auth.CheckUsernameAvailability("MIRA")
	req.NoError(err)
	req.False(taken)
}

func Test_UpdateSettings_PersistsAcrossLogins(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	session, err := f.auth.Login("mira")
	req.NoError(err)

	updated, err := f.auth.UpdateSettings(session.User.ID, domain.Settings{
		ReadReceipts: true,
		LastSeen:     false,
		Theme:        domain.ThemeDark,
	})
	req.NoError(err)
	req.Equal(domain.ThemeDark, updated.Settings.Theme)

	resumed, err := f.auth.Login("mira")
	req.NoError(err)
	req.Equal(domain.ThemeDark, resumed.User.Settings.Theme)
	req.False(resumed.User.Settings.LastSeen)
}
