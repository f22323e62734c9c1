// Package models holds the wishlist entities shared by store, services and the bot.
package models

import "time"

// User is a Telegram account known to the bot.
type User struct {
	ID        int64     `db:"id"`
	Username  *string   `db:"username"`
	FirstName string    `db:"first_name"`
	IsPublic  bool      `db:"is_public"`
	ShareCode string    `db:"share_code"`
	CreatedAt time.Time `db:"created_at"`
}

// DisplayName prefers the first name and falls back to @username.
func (u User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != nil && *u.Username != "" {
		return "@" + *u.Username
	}
	return "User"
}

// Wish is one item on a user's list. Optional fields are nil when absent.
type Wish struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	URL         *string   `db:"url"`
	Price       *string   `db:"price"`
	ImageFileID *string   `db:"image_file_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// NewWish carries the fields collected for a wish before it is stored.
type NewWish struct {
	Title       string
	Description *string
	URL         *string
	Price       *string
	ImageFileID *string
}

// WishUpdate lists the mutable fields of a wish. A nil field is left untouched;
// a pointer to an empty string clears an optional field.
type WishUpdate struct {
	Title       *string
	Description *string
	URL         *string
	Price       *string
	ImageFileID *string
}

// Empty reports whether the update changes nothing.
func (u WishUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.URL == nil && u.Price == nil && u.ImageFileID == nil
}

// Field names a mutable wish attribute.
type Field string

// Mutable wish fields, in menu order.
const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldURL         Field = "url"
	FieldPrice       Field = "price"
	FieldImage       Field = "image"
)

// Fields lists every editable field.
var Fields = []Field{FieldTitle, FieldDescription, FieldURL, FieldPrice, FieldImage}

// ParseField validates a field name.
func ParseField(s string) (Field, bool) {
	for _, f := range Fields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// Set returns an update that changes only f to value.
func (f Field) Set(value string) WishUpdate {
	v := value
	var u WishUpdate
	switch f {
	case FieldTitle:
		u.Title = &v
	case FieldDescription:
		u.Description = &v
	case FieldURL:
		u.URL = &v
	case FieldPrice:
		u.Price = &v
	case FieldImage:
		u.ImageFileID = &v
	}
	return u
}

// Ptr returns a pointer to s, or nil when s is empty.
func Ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
