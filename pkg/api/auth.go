package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/akeil/bizgen"
	"github.com/akeil/bizgen/internal/logging"
)

const (
	epSignup        = "/auth/signup"
	epSignin        = "/auth/signin"
	epProfile       = "/auth/profile"
	epForgot        = "/auth/forgot-password"
	epValidateReset = "/auth/validate-reset-token"
	epReset         = "/auth/reset-password"
	epUploadImage   = "/auth/upload-image"
)

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (s SignupRequest) Validate() error {
	if len(strings.TrimSpace(s.Name)) < 2 {
		return bizgen.NewValidationError("Full name must be at least 2 characters")
	}
	if !validEmail(s.Email) {
		return bizgen.NewValidationError("Enter a valid email")
	}
	if len(s.Password) < 6 {
		return bizgen.NewValidationError("Password must be at least 6 characters")
	}
	return nil
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s SigninRequest) Validate() error {
	if !validEmail(s.Email) {
		return bizgen.NewValidationError("Enter a valid email")
	}
	if s.Password == "" {
		return bizgen.NewValidationError("Password is required")
	}
	return nil
}

type SigninResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type User struct {
	ID        int      `json:"id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	ImageURL  string   `json:"image_url"`
	Active    bool     `json:"is_active"`
	CreatedAt DateTime `json:"created_at"`
	UpdatedAt DateTime `json:"updated_at"`
}

// Profile is the user profile.
//
// Older backends send the name as "fullname" or "full_name" and the image
// as "photo"; these are accepted as well.
type Profile struct {
	ID       int
	Email    string
	Name     string
	ImageURL string
}

type profileResponse struct {
	ID       int     `json:"id"`
	Email    string  `json:"email"`
	Name     *string `json:"name"`
	Fullname *string `json:"fullname"`
	FullName *string `json:"full_name"`
	ImageURL *string `json:"image_url"`
	Photo    *string `json:"photo"`
}

func (p profileResponse) toProfile() Profile {
	return Profile{
		ID:       p.ID,
		Email:    p.Email,
		Name:     firstOf(p.Name, p.Fullname, p.FullName),
		ImageURL: firstOf(p.ImageURL, p.Photo),
	}
}

func firstOf(v ...*string) string {
	for _, s := range v {
		if s != nil {
			return *s
		}
	}
	return ""
}

type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

type ResetUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type ValidateResetResponse struct {
	Valid   bool      `json:"valid"`
	Message string    `json:"message"`
	User    ResetUser `json:"user"`
}

type ResetPasswordResponse struct {
	Message string    `json:"message"`
	User    ResetUser `json:"user"`
}

// Signup registers a new user.
func (c *Client) Signup(r SignupRequest) (User, error) {
	var u User
	err := r.Validate()
	if err != nil {
		return u, err
	}
	err = c.request(http.MethodPost, epSignup, r, &u)
	return u, err
}

// Signin authenticates with email and password.
//
// On success, the access token is stored in the client and returned.
func (c *Client) Signin(r SigninRequest) (string, error) {
	err := r.Validate()
	if err != nil {
		return "", err
	}

	var res SigninResponse
	err = c.request(http.MethodPost, epSignin, r, &res)
	if err != nil {
		return "", err
	}
	if res.AccessToken == "" {
		return "", bizgen.NewUnauthorized("sign in returned no access token")
	}

	logging.Debug("Signed in as %q", r.Email)
	c.SetToken(res.AccessToken)
	return res.AccessToken, nil
}

// Profile fetches the profile of the signed in user.
func (c *Client) Profile() (Profile, error) {
	var p profileResponse
	err := c.request(http.MethodGet, epProfile, nil, &p)
	if err != nil {
		return Profile{}, err
	}
	return p.toProfile(), nil
}

// UpdateProfile changes name and/or email.
func (c *Client) UpdateProfile(r UpdateProfileRequest) (Profile, error) {
	var p profileResponse
	err := c.request(http.MethodPut, epProfile, r, &p)
	if err != nil {
		return Profile{}, err
	}
	profile := p.toProfile()
	if profile.Name == "" && r.Name != nil {
		profile.Name = *r.Name
	}
	return profile, nil
}

// UpdatePassword sets a new password for the signed in user.
func (c *Client) UpdatePassword(password string) error {
	err := ValidatePassword(password)
	if err != nil {
		return err
	}
	payload := struct {
		Password string `json:"password"`
	}{password}
	return c.request(http.MethodPut, epProfile, payload, nil)
}

// ForgotPassword requests a reset token by email.
func (c *Client) ForgotPassword(email string) (string, error) {
	if !validEmail(email) {
		return "", bizgen.NewValidationError("Enter a valid email")
	}
	payload := struct {
		Email string `json:"email"`
	}{email}
	var res struct {
		Msg string `json:"msg"`
	}
	err := c.request(http.MethodPost, epForgot, payload, &res)
	return res.Msg, err
}

// ValidateResetToken checks a 4-digit reset token.
func (c *Client) ValidateResetToken(token string) (ValidateResetResponse, error) {
	var res ValidateResetResponse
	err := ValidateResetToken(token)
	if err != nil {
		return res, err
	}
	payload := struct {
		Token string `json:"token"`
	}{token}
	err = c.request(http.MethodPost, epValidateReset, payload, &res)
	return res, err
}

// ResetPassword sets a new password using a reset token.
func (c *Client) ResetPassword(token, password string) (ResetPasswordResponse, error) {
	var res ResetPasswordResponse
	if len(password) < 6 {
		return res, bizgen.NewValidationError("Password must be at least 6 characters")
	}
	payload := struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}{token, password}
	err := c.request(http.MethodPost, epReset, payload, &res)
	return res, err
}

// UploadProfileImage uploads a profile picture and returns the updated
// profile.
func (c *Client) UploadProfileImage(name string, r io.Reader) (Profile, error) {
	f := &File{Field: "file", Name: name, Content: r}
	err := c.form(http.MethodPost, epUploadImage, nil, f, nil)
	if err != nil {
		return Profile{}, err
	}
	return c.Profile()
}
