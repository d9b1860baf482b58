package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/akeil/bizgen/pkg/api"
	"github.com/akeil/bizgen/pkg/store"
)

func doLogin(e *env, email, password string) error {
	token, err := e.client.Signin(api.SigninRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	err = e.tokens.Save(token)
	if err != nil {
		return fmt.Errorf("signed in, but could not store the access token: %v", err)
	}
	e.auth.SetAuthenticated(true)

	fmt.Printf("%v signed in as %q\n", checkmark, email)
	return nil
}

func doSignup(e *env, name, email, password string) error {
	u, err := e.client.Signup(api.SignupRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return err
	}
	fmt.Printf("%v account %q created (id %d), use 'bizgen login' to sign in\n", checkmark, u.Email, u.ID)
	return nil
}

func doLogout(e *env) error {
	err := e.auth.SignOut()
	if err != nil {
		return err
	}
	e.client.SetToken("")
	fmt.Printf("%v signed out\n", checkmark)
	return nil
}

func doWhoami(e *env) error {
	uid, err := e.userID()
	if err != nil {
		return err
	}

	claims, err := e.client.Claims()
	if err != nil {
		return err
	}

	profile := store.NewProfile(e.client)
	err = profile.Fetch()
	if err != nil {
		return err
	}
	p, _ := profile.Get()

	fmt.Printf("User:    %v (id %d)\n", p.Name, uid)
	fmt.Printf("Email:   %v\n", p.Email)
	if p.ImageURL != "" {
		fmt.Printf("Image:   %v\n", e.client.ResolveAsset(p.ImageURL))
	}
	if !claims.Expires.IsZero() {
		fmt.Printf("Expires: %v\n", claims.Expires.Local().Format(dateFormat))
	}
	return nil
}

func doForgotPassword(e *env, email string) error {
	msg, err := e.client.ForgotPassword(email)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "reset token sent"
	}
	fmt.Printf("%v %v\n", checkmark, msg)
	return nil
}

func doResetPassword(e *env, token, password string) error {
	v, err := e.client.ValidateResetToken(token)
	if err != nil {
		return err
	}
	if !v.Valid {
		return fmt.Errorf("invalid reset token: %v", v.Message)
	}

	res, err := e.client.ResetPassword(token, password)
	if err != nil {
		return err
	}
	fmt.Printf("%v password changed for %q\n", checkmark, res.User.Email)
	return nil
}

func doChangePassword(e *env, password string) error {
	err := e.client.UpdatePassword(password)
	if err != nil {
		return err
	}
	fmt.Printf("%v password changed\n", checkmark)
	return nil
}

func doProfileUpdate(e *env, name, email string) error {
	var r api.UpdateProfileRequest
	if name != "" {
		r.Name = &name
	}
	if email != "" {
		r.Email = &email
	}
	if r.Name == nil && r.Email == nil {
		return fmt.Errorf("nothing to update, set --name or --email")
	}

	profile := store.NewProfile(e.client)
	err := profile.Update(r)
	if err != nil {
		return err
	}
	p, _ := profile.Get()
	fmt.Printf("%v profile updated: %v <%v>\n", checkmark, p.Name, p.Email)
	return nil
}

func doProfileImage(e *env, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	profile := store.NewProfile(e.client)
	err = profile.UploadImage(filepath.Base(path), f)
	if err != nil {
		return err
	}
	p, _ := profile.Get()
	fmt.Printf("%v profile image: %v\n", checkmark, e.client.ResolveAsset(p.ImageURL))
	return nil
}
