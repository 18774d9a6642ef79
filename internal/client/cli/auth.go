package cli

import (
	"context"

	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/dmitrijs2005/profilekeeper/internal/client/services"
	"github.com/dmitrijs2005/profilekeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// registerPrompts lists the sign-up form in display order.
var registerPrompts = []struct {
	label string
	set   func(*models.RegisterRequest, string)
}{
	{"Name", func(r *models.RegisterRequest, v string) { r.Name = v }},
	{"Email", func(r *models.RegisterRequest, v string) { r.Email = v }},
	{"Mobile", func(r *models.RegisterRequest, v string) { r.Mobile = models.Numeric(v) }},
	{"Address", func(r *models.RegisterRequest, v string) { r.Address = v }},
	{"Pincode", func(r *models.RegisterRequest, v string) { r.Pincode = models.Numeric(v) }},
	{"City", func(r *models.RegisterRequest, v string) { r.City = v }},
	{"State", func(r *models.RegisterRequest, v string) { r.State = v }},
	{"Country", func(r *models.RegisterRequest, v string) { r.Country = v }},
	{"Gender [" + models.DefaultGender + "]", func(r *models.RegisterRequest, v string) { r.Gender = v }},
	{"Date of birth (YYYY-MM-DD)", func(r *models.RegisterRequest, v string) { r.Dob = v }},
}

// Register walks the sign-up form and submits it. On success the app moves
// to the login page.
func (a *App) Register(ctx context.Context) error {
	a.visit(services.RouteRegister)

	var req models.RegisterRequest
	for i, p := range registerPrompts {
		v, err := getSimpleText(a.reader, p.label, a.writer())
		if err != nil {
			return err
		}
		p.set(&req, v)

		// password goes right after the email
		if i == 1 {
			password, err := getPassword(a.writer())
			if err != nil {
				return err
			}
			req.Password = string(password)
			common.WipeByteArray(password)
		}
	}

	out, err := a.auth.Register(ctx, req)
	if err != nil {
		return a.report(ctx, err)
	}
	a.apply(out)
	return nil
}

// Login prompts the user for credentials and signs in. On success the app
// moves to the home page.
//
// The password byte slice is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	a.visit(services.RouteLogin)

	email, err := getSimpleText(a.reader, "Enter email", a.writer())
	if err != nil {
		return err
	}

	password, err := getPassword(a.writer())
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	out, err := a.auth.Login(ctx, models.Credentials{Email: email, Password: string(password)})
	if err != nil {
		return a.report(ctx, err)
	}
	a.apply(out)
	return nil
}

// Logout clears the stored session and returns to the login page.
func (a *App) Logout(ctx context.Context) error {
	out, err := a.auth.Logout(ctx)
	if err != nil {
		return a.report(ctx, err)
	}
	a.photo.Reset()
	a.apply(out)
	return nil
}
