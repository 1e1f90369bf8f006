// AngelaMos | 2026
// entity.go

package user

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is a closed enumeration. Authorization allow-lists take Role
// values, never raw strings.
type Role string

const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

var AllRoles = []Role{RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin}

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role %q", s)
}

func (r Role) String() string {
	return string(r)
}

// User's password hash and reset-token state never serialize to JSON;
// the active flag is a soft-delete marker excluded from default queries.
type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"          json:"id"`
	Name                 string             `bson:"name"                   json:"name"`
	Email                string             `bson:"email"                  json:"email"`
	Photo                string             `bson:"photo,omitempty"        json:"photo,omitempty"`
	Role                 Role               `bson:"role"                   json:"role"`
	Password             string             `bson:"password"               json:"-"`
	PasswordChangedAt    *time.Time         `bson:"passwordChangedAt,omitempty"    json:"-"`
	PasswordResetToken   string             `bson:"passwordResetToken,omitempty"   json:"-"`
	PasswordResetExpires *time.Time         `bson:"passwordResetExpires,omitempty" json:"-"`
	Active               bool               `bson:"active"                 json:"-"`
	CreatedAt            time.Time          `bson:"createdAt"              json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ChangedPasswordAfter reports whether the password changed after the
// given token issue time. Comparison is at second granularity to match
// the token's iat claim.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}

// HasValidResetToken reports whether a stored reset hash exists and has
// not expired.
func (u *User) HasValidResetToken(now time.Time) bool {
	return u.PasswordResetToken != "" &&
		u.PasswordResetExpires != nil &&
		now.Before(*u.PasswordResetExpires)
}
