package crud

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"wtfCatalog/domain"
	"wtfCatalog/errs"
)

// UserService manages Users. It also contains the part of the authentication
// system that handles database interactions and password hashing. It's
// basically the "backend" of the auth system, with http/auth.go dealing with
// requests, middleware and tokens being the "frontend".
// It implements the domain.UserService interface.
type UserService struct {
	userValidator
}

// userValidator runs validations on incoming User data.
// On success, it passes the data on to userGorm.
// Otherwise, it returns the error of the validation that has failed.
type userValidator struct {
	pepper     string
	emailRegex *regexp.Regexp
	userGorm
}

// userGorm runs CRUD operations on the database using incoming User data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type userGorm struct {
	db *gorm.DB
}

// NewUserService returns an instance of UserService.
func NewUserService(db *gorm.DB, pepper string) *UserService {
	return &UserService{
		userValidator{
			pepper:     pepper,
			emailRegex: regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,16}$`),
			userGorm: userGorm{
				db: db,
			},
		},
	}
}

// Ensure the UserService struct properly implements the domain.UserService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.UserService = &UserService{}

// Authenticate checks a submitted email address and password for existence and
// correctness. Both a wrong email and a wrong password come back as the same
// errs.EUNAUTHORIZED, so the response doesn't reveal which part was wrong.
func (uv *userValidator) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	found, err := uv.userGorm.FindUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			return nil, errs.Errorf(errs.EUNAUTHORIZED, "The email or password is incorrect.")
		}
		return nil, err
	}
	err = bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password+uv.pepper))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, errs.Errorf(errs.EUNAUTHORIZED, "The email or password is incorrect.")
		}
		return nil, err
	}
	return found, nil
}

// CreateUser runs validations needed for creating new User database records.
func (uv *userValidator) CreateUser(ctx context.Context, user *domain.User) error {
	err := runUserValFns(user,
		uv.emailNormalize,
		uv.emailRequired,
		uv.emailFormat,
		uv.nicknameMinLength,
		uv.nicknameMaxLength,
		uv.passwordRequired,
		uv.passwordComplexity,
		uv.passwordBcrypt,
		uv.passwordHashRequired)
	if err != nil {
		return err
	}
	if err := uv.emailIsAvail(ctx, user); err != nil {
		return err
	}
	if err := uv.nicknameIsAvail(ctx, user); err != nil {
		return err
	}
	return uv.userGorm.CreateUser(ctx, user)
}

// runUserValFns runs any number of functions of type userValFn on the passed in User object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runUserValFns(user *domain.User, fns ...userValFn) error {
	for _, fn := range fns {
		if err := fn(user); err != nil {
			return err
		}
	}
	return nil
}

// A userValFn is any function that takes in a pointer to a domain.User object and returns an error.
type userValFn = func(user *domain.User) error

// emailNormalize trims whitespace off the user's email address and lowercases it.
func (uv *userValidator) emailNormalize(user *domain.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return nil
}

// emailRequired makes sure that the user's email address is not empty.
func (uv *userValidator) emailRequired(user *domain.User) error {
	if user.Email == "" {
		return errs.Errorf(errs.EINVALID, "Email address is required.")
	}
	return nil
}

// emailFormat makes sure that the user's email address looks like one.
func (uv *userValidator) emailFormat(user *domain.User) error {
	if !uv.emailRegex.MatchString(user.Email) {
		return errs.Errorf(errs.EINVALID, "Email address is not valid.")
	}
	return nil
}

// nicknameMinLength makes sure that the user's nickname has at least 2 characters.
func (uv *userValidator) nicknameMinLength(user *domain.User) error {
	if utf8.RuneCountInString(strings.TrimSpace(user.Nickname)) < 2 {
		return errs.Errorf(errs.EINVALID, "Nickname must have at least 2 characters.")
	}
	return nil
}

// nicknameMaxLength makes sure that the user's nickname has at most 30 characters.
func (uv *userValidator) nicknameMaxLength(user *domain.User) error {
	if utf8.RuneCountInString(user.Nickname) > 30 {
		return errs.Errorf(errs.EINVALID, "Nickname must have at most 30 characters.")
	}
	return nil
}

// passwordRequired makes sure that a password was submitted.
func (uv *userValidator) passwordRequired(user *domain.User) error {
	if user.Password == "" {
		return errs.Errorf(errs.EINVALID, "Password is required.")
	}
	return nil
}

// passwordComplexity makes sure that the password has at least 8 characters
// and contains an uppercase letter, a lowercase letter, a digit and one of
// the special characters @$!%*?&.
func (uv *userValidator) passwordComplexity(user *domain.User) error {
	var upper, lower, digit, special bool
	for _, r := range user.Password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune("@$!%*?&", r):
			special = true
		}
	}
	if utf8.RuneCountInString(user.Password) < 8 || !upper || !lower || !digit || !special {
		return errs.Errorf(errs.EINVALID, "Password must have at least 8 characters and contain an uppercase letter, a lowercase letter, a digit and a special character.")
	}
	return nil
}

// passwordBcrypt hashes the peppered password and wipes the plaintext.
func (uv *userValidator) passwordBcrypt(user *domain.User) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password+uv.pepper), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.Password = ""
	return nil
}

// passwordHashRequired makes sure that the password hash was actually set.
func (uv *userValidator) passwordHashRequired(user *domain.User) error {
	if user.PasswordHash == "" {
		return errs.Errorf(errs.EINVALID, "Password hash is required.")
	}
	return nil
}

// emailIsAvail makes sure that the email address is not taken yet.
func (uv *userValidator) emailIsAvail(ctx context.Context, user *domain.User) error {
	_, err := uv.userGorm.FindUserByEmail(ctx, user.Email)
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "Email address is already taken.")
	}
	if errs.ErrorCode(err) == errs.ENOTFOUND {
		return nil
	}
	return err
}

// nicknameIsAvail makes sure that the nickname is not taken yet.
func (uv *userValidator) nicknameIsAvail(ctx context.Context, user *domain.User) error {
	err := uv.db.WithContext(ctx).First(&domain.User{}, "nickname = ?", user.Nickname).Error
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "Nickname is already taken.")
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// FindUserByID retrieves a single User by ID, along with their reviews and
// likes. If the record doesn't exist, it returns errs.ENOTFOUND.
func (ug *userGorm) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := ug.db.WithContext(ctx).
		Preload("Reviews").
		Preload("Likes").
		First(&user, "id = ?", id).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The user does not exist.")
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByEmail retrieves a single User by email address.
// If the record doesn't exist, it returns errs.ENOTFOUND.
func (ug *userGorm) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := ug.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The user does not exist.")
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser stores the data from the User object in a new database record.
func (ug *userGorm) CreateUser(ctx context.Context, user *domain.User) error {
	if err := ug.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.Errorf(errs.ECONFLICT, "Email address or nickname is already taken.")
		}
		return err
	}
	return nil
}
