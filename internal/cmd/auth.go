package cmd

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/errors"
	"github.com/felixgeelhaar/maison/internal/session"
	"github.com/felixgeelhaar/maison/internal/tui"
	"github.com/felixgeelhaar/maison/internal/ux"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in, sign out and manage your account",
	Long: `Manage your Maison account.

Examples:
  # Sign in interactively
  maison auth login

  # Sign in from a script
  echo "$PASSWORD" | maison auth login --email you@example.com --password-stdin

  # Show who is signed in
  maison auth status
`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to your account",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogin,
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Args:  cobra.NoArgs,
	RunE:  runAuthRegister,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored token",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

var authMeCmd = &cobra.Command{
	Use:   "me",
	Short: "Reload your profile from the storefront",
	Args:  cobra.NoArgs,
	RunE:  runAuthMe,
}

var authUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Edit your name or phone number",
	Args:  cobra.NoArgs,
	RunE:  runAuthUpdate,
}

var authPasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change your password",
	Args:  cobra.NoArgs,
	RunE:  runAuthPassword,
}

var authAddressCmd = &cobra.Command{
	Use:   "add-address",
	Short: "Save a shipping address to your profile",
	Args:  cobra.NoArgs,
	RunE:  runAuthAddAddress,
}

var (
	authEmail         string
	authPassword      string
	authPasswordStdin bool
	authFirstName     string
	authLastName      string
	authPhone         string
	authCurrent       string
	authNew           string
	addrLabel         string
	addrLine          string
	addrApartment     string
	addrCity          string
	addrPostalCode    string
	addrCountry       string
	addrDefault       bool
)

func init() {
	authLoginCmd.Flags().StringVar(&authEmail, "email", "", "account email")
	authLoginCmd.Flags().StringVar(&authPassword, "password", "", "account password")
	authLoginCmd.Flags().BoolVar(&authPasswordStdin, "password-stdin", false, "read the password from stdin")

	authRegisterCmd.Flags().StringVar(&authEmail, "email", "", "account email")
	authRegisterCmd.Flags().StringVar(&authFirstName, "first-name", "", "first name")
	authRegisterCmd.Flags().StringVar(&authLastName, "last-name", "", "last name")
	authRegisterCmd.Flags().StringVar(&authPhone, "phone", "", "phone number")
	authRegisterCmd.Flags().BoolVar(&authPasswordStdin, "password-stdin", false,
		"read the password and its confirmation from the first two lines of stdin")

	authUpdateCmd.Flags().StringVar(&authFirstName, "first-name", "", "new first name")
	authUpdateCmd.Flags().StringVar(&authLastName, "last-name", "", "new last name")
	authUpdateCmd.Flags().StringVar(&authPhone, "phone", "", "new phone number")

	authPasswordCmd.Flags().StringVar(&authCurrent, "current", "", "current password")
	authPasswordCmd.Flags().StringVar(&authNew, "new", "", "new password")
	_ = authPasswordCmd.MarkFlagRequired("current")
	_ = authPasswordCmd.MarkFlagRequired("new")

	authAddressCmd.Flags().StringVar(&addrLabel, "label", "", "name for the address, e.g. Home")
	authAddressCmd.Flags().StringVar(&addrLine, "address", "", "street address")
	authAddressCmd.Flags().StringVar(&addrApartment, "apartment", "", "apartment or suite")
	authAddressCmd.Flags().StringVar(&addrCity, "city", "", "city")
	authAddressCmd.Flags().StringVar(&addrPostalCode, "postal-code", "", "postal code")
	authAddressCmd.Flags().StringVar(&addrCountry, "country", "Pakistan", "country")
	authAddressCmd.Flags().BoolVar(&addrDefault, "default", false, "use as the default shipping address")
	_ = authAddressCmd.MarkFlagRequired("address")
	_ = authAddressCmd.MarkFlagRequired("city")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authMeCmd)
	authCmd.AddCommand(authUpdateCmd)
	authCmd.AddCommand(authPasswordCmd)
	authCmd.AddCommand(authAddressCmd)

	rootCmd.AddCommand(authCmd)
}

func readSecrets(cmd *cobra.Command, n int) ([]string, error) {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	lines := make([]string, 0, n)
	for len(lines) < n && scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(lines) < n {
		return nil, fmt.Errorf("expected %d line(s) on stdin, got %d", n, len(lines))
	}
	return lines, nil
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}

	creds := tui.Credentials{Email: authEmail, Password: authPassword}
	if authPasswordStdin {
		lines, err := readSecrets(cmd, 1)
		if err != nil {
			return err
		}
		creds.Password = lines[0]
	}
	if creds.Email == "" || creds.Password == "" {
		if !interactive() {
			return fmt.Errorf("--email and a password are required when not running in a terminal")
		}
		if err := tui.LoginForm(&creds).RunWithContext(cmd.Context()); err != nil {
			return err
		}
	}

	user, err := a.SignIn(cmd.Context(), strings.TrimSpace(creds.Email), creds.Password)
	if err != nil {
		return ux.FormatError(err, "sign in")
	}
	return e.done("Signed in as "+user.Email, ux.ProfileView{User: user})
}

func runAuthRegister(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}

	signup := tui.Signup{Registration: domain.Registration{
		Email:     authEmail,
		FirstName: authFirstName,
		LastName:  authLastName,
		Phone:     authPhone,
	}}
	if authPasswordStdin {
		lines, err := readSecrets(cmd, 2)
		if err != nil {
			return err
		}
		signup.Password, signup.ConfirmPassword = lines[0], lines[1]
	}
	if signup.Email == "" || signup.FirstName == "" || signup.LastName == "" || signup.Password == "" {
		if !interactive() {
			return fmt.Errorf("--email, --first-name, --last-name and --password-stdin are required when not running in a terminal")
		}
		if err := tui.RegisterForm(&signup).RunWithContext(cmd.Context()); err != nil {
			return err
		}
	}

	user, err := a.Register(cmd.Context(), signup.Registration, signup.ConfirmPassword)
	if err != nil {
		return ux.FormatError(err, "create account")
	}
	return e.done("Welcome to Maison, "+user.FullName(), ux.ProfileView{User: user})
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	if err := a.SignOut(); err != nil {
		return ux.FormatError(err, "sign out")
	}
	return e.done("Signed out", nil)
}

// statusView is the output of auth status.
type statusView struct {
	Authenticated bool            `json:"authenticated" yaml:"authenticated"`
	User          *domain.User    `json:"user,omitempty" yaml:"user,omitempty"`
	Token         *session.Claims `json:"token,omitempty" yaml:"token,omitempty"`
}

func (v statusView) Data() any { return v }

func (v statusView) Text(s ux.Styles) string {
	if !v.Authenticated {
		return s.Muted.Render("Not signed in. Run 'maison auth login'.")
	}
	out := ux.ProfileView{User: *v.User}.Text(s)
	if v.Token != nil && v.Token.ExpiresAt != nil {
		exp := *v.Token.ExpiresAt
		if v.Token.Expired(time.Now()) {
			out += "\n" + s.Warning.Render("Token expired "+exp.Local().Format(time.RFC1123))
		} else {
			out += "\n" + s.Muted.Render("Token expires "+exp.Local().Format(time.RFC1123))
		}
	}
	return out
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}

	view := statusView{}
	if user, ok := a.Session.User(); ok {
		view.Authenticated = true
		view.User = &user
		if claims, err := session.ParseClaims(a.Session.Token()); err == nil {
			view.Token = &claims
		} else {
			e.logger.Debug("token is not a JWT", "error", err)
		}
	}
	return e.print(view)
}

func runAuthMe(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	user, err := a.RefreshProfile(cmd.Context())
	if err != nil {
		return ux.FormatError(err, "load profile")
	}
	return e.print(ux.ProfileView{User: user})
}

func runAuthUpdate(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	update := domain.ProfileUpdate{FirstName: authFirstName, LastName: authLastName, Phone: authPhone}
	if update == (domain.ProfileUpdate{}) {
		return fmt.Errorf("nothing to update: pass --first-name, --last-name or --phone")
	}
	user, err := a.UpdateProfile(cmd.Context(), update)
	if err != nil {
		return ux.FormatError(err, "update profile")
	}
	return e.done("Profile updated", ux.ProfileView{User: user})
}

func runAuthPassword(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	if err := a.Session.RequireAuth(); err != nil {
		return err
	}
	msg, err := a.API.ChangePassword(cmd.Context(), authCurrent, authNew)
	if err != nil {
		return ux.FormatError(err, "change password")
	}
	return e.done("Password changed", msg)
}

func runAuthAddAddress(cmd *cobra.Command, args []string) error {
	e, a, err := setup(cmd)
	if err != nil {
		return err
	}
	current, ok := a.Session.User()
	if !ok {
		return errors.NewAuthRequiredError()
	}
	addr := domain.Address{
		Label:      addrLabel,
		FirstName:  current.FirstName,
		LastName:   current.LastName,
		Address:    addrLine,
		Apartment:  addrApartment,
		City:       addrCity,
		PostalCode: addrPostalCode,
		Country:    addrCountry,
		Phone:      current.Phone,
		IsDefault:  addrDefault,
	}
	user, err := a.API.AddAddress(cmd.Context(), addr)
	if err != nil {
		return ux.FormatError(err, "save address")
	}
	if err := a.Session.UpdateUser(user); err != nil {
		return err
	}
	return e.done("Address saved", ux.ProfileView{User: user})
}
