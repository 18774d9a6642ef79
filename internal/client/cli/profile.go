package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/dmitrijs2005/profilekeeper/internal/client/services"
)

// Home shows the profile looked up by the stored user id.
func (a *App) Home(ctx context.Context) error {
	a.visit(services.RouteHome)
	p, err := a.profile.Home(ctx)
	if err != nil {
		return a.report(ctx, err)
	}
	printProfile(p)
	return nil
}

// Details shows the profile looked up by the stored token.
func (a *App) Details(ctx context.Context) error {
	a.visit(services.RouteTokenWithUserDetails)
	p, err := a.profile.Details(ctx)
	if err != nil {
		return a.report(ctx, err)
	}
	printProfile(p)
	return nil
}

func editRoute(v services.UpdateVariant) services.Route {
	if v == services.ViaToken {
		return services.RouteTokenWithUpdate
	}
	return services.RouteUpdateWithoutToken
}

// Edit loads the edit form for the given variant, lets the user change any
// field and submits the result. Empty answers keep the current value and
// ClearValue empties it.
func (a *App) Edit(ctx context.Context, v services.UpdateVariant) error {
	a.visit(editRoute(v))

	form, err := a.profile.EditForm(ctx, v)
	if err != nil {
		return a.report(ctx, err)
	}

	p := *form
	printlnFn(fmt.Sprintf("Press Enter to keep a value, %q to clear it.", ClearValue))
	for _, field := range models.ProfileFields {
		val, err := GetWithDefault(a.reader, field, p.Get(field), a.writer())
		if err != nil {
			return err
		}
		p.Set(field, val)
	}

	var out services.Outcome
	if v == services.ViaToken {
		out, err = a.profile.UpdateWithToken(ctx, p)
	} else {
		out, err = a.profile.UpdateByUserID(ctx, p)
	}
	if err != nil {
		return a.report(ctx, err)
	}
	a.apply(out)
	if out.Profile != nil {
		printProfile(out.Profile)
	}
	return nil
}

// Photo selects the image at path and uploads it as the profile photo.
// A rejected selection leaves any earlier selection in place.
func (a *App) Photo(ctx context.Context, path string) error {
	a.visit(services.RouteHome)

	f, err := models.LoadImageFile(path)
	if err != nil {
		return a.report(ctx, err)
	}
	if err := a.photo.Select(f); err != nil {
		return a.report(ctx, err)
	}

	out, err := a.profile.UpdatePhoto(ctx, a.photo.Selected())
	if err != nil {
		return a.report(ctx, err)
	}
	a.photo.Reset()
	a.apply(out)
	if out.Profile != nil {
		printProfile(out.Profile)
	}
	return nil
}

// DeleteAccount asks for confirmation and deletes the account.
func (a *App) DeleteAccount(ctx context.Context) error {
	a.visit(services.RouteHome)

	out, err := a.profile.DeleteAccount(ctx, promptConfirmer{reader: a.reader, w: a.writer()})
	if err != nil {
		return a.report(ctx, err)
	}
	a.photo.Reset()
	a.apply(out)
	return nil
}

func printProfile(p *models.UserProfile) {
	if p == nil {
		return
	}
	for _, field := range models.ProfileFields {
		printlnFn(fmt.Sprintf("%-8s %s", field+":", p.Get(field)))
	}
	if url := p.AvatarURL(); url != "" {
		printlnFn(fmt.Sprintf("%-8s %s", "photo:", shorten(url, 60)))
	}
}

// shorten trims long values such as data URLs for display.
func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
