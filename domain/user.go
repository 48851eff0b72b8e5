package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`
	Email    string `json:"email" gorm:"size:255;notNull;uniqueIndex"`
	Nickname string `json:"nickname" gorm:"size:30;notNull;uniqueIndex"`

	// Password only carries the plaintext password between the request and
	// the hashing validation. It is never stored or serialized.
	Password     string `json:"-" gorm:"-"`
	PasswordHash string `json:"-" gorm:"notNull"`

	Products []Product `json:"products,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Reviews  []Review  `json:"reviews,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Likes    []Like    `json:"likes,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserService is a set of methods to manipulate and work with the User model.
// It also backs the authentication system.
type UserService interface {
	FindUserByID(ctx context.Context, id string) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, user *User) error
	Authenticate(ctx context.Context, email, password string) (*User, error)
}
