package app

import (
	"context"

	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/errors"
)

// SignIn exchanges credentials for a token, loads the profile with it and
// records both. Nothing is stored if either call fails.
func (a *App) SignIn(ctx context.Context, email, password string) (domain.User, error) {
	token, err := a.API.Login(ctx, email, password)
	if err != nil {
		return domain.User{}, err
	}
	user, err := a.API.WithToken(token.AccessToken).Me(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if err := a.Session.Login(user, token.AccessToken); err != nil {
		return domain.User{}, err
	}
	a.Logger.Info("signed in", "user_id", user.ID)
	return user, nil
}

// Register creates an account and signs in with it. The passwords are
// compared before any request is sent.
func (a *App) Register(ctx context.Context, reg domain.Registration, confirmPassword string) (domain.User, error) {
	if reg.Password != confirmPassword {
		return domain.User{}, errors.NewPasswordMismatchError()
	}
	if _, err := a.API.Register(ctx, reg); err != nil {
		return domain.User{}, err
	}
	return a.SignIn(ctx, reg.Email, reg.Password)
}

// SignOut ends the session.
func (a *App) SignOut() error {
	return a.Session.Logout()
}

// RefreshProfile reloads the profile from the API.
func (a *App) RefreshProfile(ctx context.Context) (domain.User, error) {
	if err := a.Session.RequireAuth(); err != nil {
		return domain.User{}, err
	}
	user, err := a.API.Me(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if err := a.Session.UpdateUser(user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// UpdateProfile edits the profile and stores the result.
func (a *App) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.User, error) {
	if err := a.Session.RequireAuth(); err != nil {
		return domain.User{}, err
	}
	user, err := a.API.UpdateMe(ctx, update)
	if err != nil {
		return domain.User{}, err
	}
	if err := a.Session.UpdateUser(user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
