// Package account handles registration, login and profile changes.
package account

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/app"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/auth"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/logger"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/repository"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/upload"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/view"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

const (
	minPasswordLen = 8
	// bcrypt ignores bytes past 72.
	maxPasswordLen = 72
)

// errInvalidCredentials is the only answer a failed login gets.
var errInvalidCredentials = svcErr.Wrap(svcErr.KindUnauthenticated, "invalid credentials", nil)

// Issuer mints a session for a user that has proven its identity.
type Issuer interface {
	Issue(ctx context.Context, userID string) (auth.Pair, error)
}

type Service struct {
	appCtx   *app.AppContext
	users    *repository.UserRepository
	hasher   auth.PasswordHasher
	sessions Issuer
	uploads  upload.Store

	// dummyDigest is compared against when the login names no user, so
	// both failure paths pay for one bcrypt comparison.
	dummyDigest string
}

func NewService(appCtx *app.AppContext, hasher auth.PasswordHasher, sessions Issuer) (*Service, error) {
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, err
	}
	return &Service{
		appCtx:      appCtx,
		users:       repository.NewUserRepository(appCtx.DB),
		hasher:      hasher,
		sessions:    sessions,
		uploads:     appCtx.Uploads,
		dummyDigest: dummy,
	}, nil
}

// Registration is the input of Register. Avatar is required, Cover is not.
type Registration struct {
	Username string
	Email    string
	Password string
	FullName string
	Avatar   *upload.File
	Cover    *upload.File
}

// Register creates an account.
//
// Behavior:
//   - Username and email are stored lowercased and must both be unused
//     (Conflict otherwise).
//   - Field checks run before any upload is stored.
func (s *Service) Register(ctx context.Context, in Registration) (view.UserView, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email, emailErr := normalizeEmail(in.Email)
	fullName := strings.TrimSpace(in.FullName)

	var details []string
	if !usernamePattern.MatchString(username) {
		details = append(details, "username must be 3-30 characters of a-z, 0-9 or _")
	}
	if emailErr != nil {
		details = append(details, emailErr.Error())
	}
	if err := checkPassword(in.Password); err != nil {
		details = append(details, err.Error())
	}
	if n := utf8.RuneCountInString(fullName); n < 2 || n > 60 {
		details = append(details, "fullName must be 2-60 characters")
	}
	if in.Avatar == nil || in.Avatar.Body == nil {
		details = append(details, "avatar image is required")
	}
	if len(details) > 0 {
		return view.UserView{}, svcErr.Validation("invalid registration", details...)
	}

	if err := s.ensureUnused(ctx, username, email); err != nil {
		return view.UserView{}, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return view.UserView{}, svcErr.Internal(err)
	}
	avatar, err := s.uploads.Store(ctx, *in.Avatar, upload.CategoryAvatar)
	if err != nil {
		return view.UserView{}, svcErr.Map(err)
	}
	u := &db.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: digest,
		AvatarURL:    avatar.URL,
	}
	if in.Cover != nil && in.Cover.Body != nil {
		cover, err := s.uploads.Store(ctx, *in.Cover, upload.CategoryCover)
		if err != nil {
			return view.UserView{}, svcErr.Map(err)
		}
		u.CoverURL = cover.URL
	}

	if err := s.users.Create(ctx, u); err != nil {
		if repository.IsDuplicate(err) {
			return view.UserView{}, svcErr.Conflict("user already exists with this email or username")
		}
		return view.UserView{}, svcErr.Map(err)
	}
	logger.FromContext(ctx).Info("user registered", "user_id", u.ID, "username", u.Username)
	return view.NewUserView(*u), nil
}

func (s *Service) ensureUnused(ctx context.Context, username, email string) error {
	for _, key := range []string{username, email} {
		_, err := s.users.FindByLogin(ctx, key)
		if err == nil {
			return svcErr.Conflict("user already exists with this email or username")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return svcErr.Map(err)
		}
	}
	return nil
}

// Login checks the password of the user named by email or username and
// issues a session. Every failure is the same Unauthenticated error.
func (s *Service) Login(ctx context.Context, login, password string) (view.UserView, auth.Pair, error) {
	log := logger.FromContext(ctx)
	if strings.TrimSpace(login) == "" || password == "" {
		return view.UserView{}, auth.Pair{}, svcErr.Validation("email or username and password are required")
	}

	u, err := s.users.FindByLogin(ctx, login)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.hasher.Verify(password, s.dummyDigest)
		log.Debug("login refused", "reason", auth.ReasonUserNotFound)
		return view.UserView{}, auth.Pair{}, errInvalidCredentials
	}
	if err != nil {
		return view.UserView{}, auth.Pair{}, svcErr.Map(err)
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		log.Debug("login refused", "reason", "bad_password", "user_id", u.ID)
		return view.UserView{}, auth.Pair{}, errInvalidCredentials
	}

	pair, err := s.sessions.Issue(ctx, u.ID)
	if err != nil {
		return view.UserView{}, auth.Pair{}, err
	}
	log.Info("user logged in", "user_id", u.ID)
	return view.NewUserView(*u), pair, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	u, err := s.user(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(oldPassword, u.PasswordHash) {
		return svcErr.Validation("invalid old password")
	}
	if err := checkPassword(newPassword); err != nil {
		return svcErr.Validation(err.Error())
	}
	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return svcErr.Internal(err)
	}
	return svcErr.Map(s.users.Update(ctx, userID, map[string]any{"password_hash": digest}))
}

// ProfilePatch changes the fields that are set.
type ProfilePatch struct {
	FullName *string
	Email    *string
	Bio      *string
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, p ProfilePatch) (view.UserView, error) {
	if p.FullName == nil && p.Email == nil && p.Bio == nil {
		return view.UserView{}, svcErr.Validation("at least one field is required to update")
	}
	if _, err := s.user(ctx, userID); err != nil {
		return view.UserView{}, err
	}

	fields := map[string]any{}
	if p.FullName != nil {
		name := strings.TrimSpace(*p.FullName)
		if n := utf8.RuneCountInString(name); n < 2 || n > 60 {
			return view.UserView{}, svcErr.Validation("fullName must be 2-60 characters")
		}
		fields["full_name"] = name
	}
	if p.Email != nil {
		email, err := normalizeEmail(*p.Email)
		if err != nil {
			return view.UserView{}, svcErr.Validation(err.Error())
		}
		fields["email"] = email
	}
	if p.Bio != nil {
		bio := strings.TrimSpace(*p.Bio)
		if utf8.RuneCountInString(bio) > 200 {
			return view.UserView{}, svcErr.Validation("bio must be at most 200 characters")
		}
		fields["bio"] = bio
	}

	if err := s.users.Update(ctx, userID, fields); err != nil {
		if repository.IsDuplicate(err) {
			return view.UserView{}, svcErr.Conflict("email is already in use")
		}
		return view.UserView{}, svcErr.Map(err)
	}
	return s.CurrentUser(ctx, userID)
}

func (s *Service) UpdateAvatar(ctx context.Context, userID string, f *upload.File) (view.UserView, error) {
	return s.replaceImage(ctx, userID, f, upload.CategoryAvatar, "avatar_url")
}

func (s *Service) UpdateCover(ctx context.Context, userID string, f *upload.File) (view.UserView, error) {
	return s.replaceImage(ctx, userID, f, upload.CategoryCover, "cover_url")
}

func (s *Service) replaceImage(ctx context.Context, userID string, f *upload.File, category, column string) (view.UserView, error) {
	if f == nil || f.Body == nil {
		return view.UserView{}, svcErr.Validation("image file is required")
	}
	if _, err := s.user(ctx, userID); err != nil {
		return view.UserView{}, err
	}
	res, err := s.uploads.Store(ctx, *f, category)
	if err != nil {
		return view.UserView{}, svcErr.Map(err)
	}
	if err := s.users.Update(ctx, userID, map[string]any{column: res.URL}); err != nil {
		return view.UserView{}, svcErr.Map(err)
	}
	return s.CurrentUser(ctx, userID)
}

// CurrentUser returns the caller's own account.
func (s *Service) CurrentUser(ctx context.Context, userID string) (view.UserView, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return view.UserView{}, err
	}
	return view.NewUserView(*u), nil
}

func (s *Service) user(ctx context.Context, userID string) (*db.User, error) {
	if userID == "" {
		return nil, svcErr.Unauthenticated(auth.ReasonMissing)
	}
	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("user not found")
	}
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return u, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("email %q is not a valid address", raw)
	}
	return email, nil
}

func checkPassword(p string) error {
	if len(p) < minPasswordLen || len(p) > maxPasswordLen {
		return fmt.Errorf("password must be %d-%d bytes", minPasswordLen, maxPasswordLen)
	}
	return nil
}
