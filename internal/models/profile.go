package models

// Profile holds the presentation data attached to a user account, as
// opposed to the identity credentials on User. Exactly one exists per
// user once the account has been saved.
type Profile struct {
	UserID     string `json:"userId"`
	AvatarPath string `json:"avatarPath,omitempty"`
	Bio        string `json:"bio,omitempty"`
}
