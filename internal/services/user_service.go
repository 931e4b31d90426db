package services

import (
	"database/sql"
	"fmt"

	"github.com/dmarquez/inkwell-be/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user and profile services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	CreateUser(username, email, password string) (models.User, error)
	UpdateUser(id, username, email string) (models.User, error)
	UpdatePassword(id, currentPassword, newPassword string) error
	AuthenticateUser(username, password string) (models.User, error)
	EnsureProfile(userID string) (models.Profile, error)
	GetProfile(userID string) (models.Profile, error)
	UpdateProfile(userID, bio, avatarPath string) (models.Profile, error)
}

// UserService provides business logic for user accounts and their
// attached profiles.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, email, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user with ID %s: %w", id, models.ErrNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByUsername retrieves a single user by name, including the password hash.
func (s *UserService) GetUserByUsername(username string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user %s: %w", username, models.ErrNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// CreateUser creates a new user, hashing their password. The email must
// not already be registered, matching case-insensitively. The user's
// profile row is created in the same transaction, so the one-profile-
// per-user invariant holds the moment the account exists.
func (s *UserService) CreateUser(username, email, password string) (models.User, error) {
	var taken int
	if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower(?))", email).Scan(&taken); err != nil {
		return models.User{}, err
	}
	if taken == 1 {
		return models.User{}, fmt.Errorf("a user with that email already exists: %w", models.ErrValidation)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.User{}, err
	}
	defer tx.Rollback()

	_, err = tx.Exec("INSERT INTO users(id, username, email, password_hash) VALUES(?, ?, ?, ?)",
		user.ID, user.Username, user.Email, user.PasswordHash)
	if err != nil {
		return models.User{}, err
	}
	if _, err = tx.Exec("INSERT INTO profiles(user_id) VALUES(?)", user.ID); err != nil {
		return models.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// UpdateUser updates a user's non-sensitive information. EnsureProfile
// runs after the save, closing the gap for accounts that predate the
// profiles table.
func (s *UserService) UpdateUser(id, username, email string) (models.User, error) {
	res, err := s.db.Exec("UPDATE users SET username = ?, email = ? WHERE id = ?", username, email, id)
	if err != nil {
		return models.User{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.User{}, fmt.Errorf("user with ID %s: %w", id, models.ErrNotFound)
	}
	if _, err := s.EnsureProfile(id); err != nil {
		return models.User{}, err
	}
	return s.GetUserByID(id)
}

// UpdatePassword verifies the current password, then hashes and sets a new password for a user.
func (s *UserService) UpdatePassword(id, currentPassword, newPassword string) error {
	var hash string
	row := s.db.QueryRow("SELECT password_hash FROM users WHERE id = ?", id)
	if err := row.Scan(&hash); err != nil {
		return fmt.Errorf("user with ID %s: %w", id, models.ErrNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(currentPassword)); err != nil {
		return fmt.Errorf("current password is incorrect: %w", models.ErrValidation)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if _, err := s.db.Exec("UPDATE users SET password_hash = ? WHERE id = ?", string(hashedPassword), id); err != nil {
		return err
	}
	_, err = s.EnsureProfile(id)
	return err
}

// AuthenticateUser verifies a user's credentials.
func (s *UserService) AuthenticateUser(username, password string) (models.User, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		return models.User{}, fmt.Errorf("authentication failed: user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, fmt.Errorf("authentication failed: invalid password")
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// EnsureProfile guarantees a profile row exists for the user, creating
// an empty one if absent and leaving an existing one untouched. It is
// called after every user save.
func (s *UserService) EnsureProfile(userID string) (models.Profile, error) {
	_, err := s.db.Exec("INSERT INTO profiles(user_id) VALUES(?) ON CONFLICT(user_id) DO NOTHING", userID)
	if err != nil {
		return models.Profile{}, err
	}
	return s.GetProfile(userID)
}

// GetProfile retrieves the profile attached to a user.
func (s *UserService) GetProfile(userID string) (models.Profile, error) {
	var profile models.Profile
	var avatar, bio sql.NullString
	row := s.db.QueryRow("SELECT user_id, avatar_path, bio FROM profiles WHERE user_id = ?", userID)
	err := row.Scan(&profile.UserID, &avatar, &bio)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Profile{}, fmt.Errorf("profile for user %s: %w", userID, models.ErrNotFound)
		}
		return models.Profile{}, err
	}
	profile.AvatarPath = avatar.String
	profile.Bio = bio.String
	return profile, nil
}

// UpdateProfile sets the bio and, when avatarPath is non-empty, the
// avatar image. The profile row is created first if it is missing.
func (s *UserService) UpdateProfile(userID, bio, avatarPath string) (models.Profile, error) {
	if _, err := s.EnsureProfile(userID); err != nil {
		return models.Profile{}, err
	}

	var err error
	if avatarPath != "" {
		_, err = s.db.Exec("UPDATE profiles SET bio = ?, avatar_path = ? WHERE user_id = ?", bio, avatarPath, userID)
	} else {
		_, err = s.db.Exec("UPDATE profiles SET bio = ? WHERE user_id = ?", bio, userID)
	}
	if err != nil {
		return models.Profile{}, err
	}
	return s.GetProfile(userID)
}
