// Package auth implements SDSQL's session and authorization layer
// (component C4): credential verification, session-token issuance,
// token-to-identity lookup, and operation×object permission checks.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ObjectType names the kind of object a Permission governs.
type ObjectType string

const (
	ObjectDatabase ObjectType = "DATABASE"
	ObjectTable    ObjectType = "TABLE"
	ObjectSystem   ObjectType = "SYSTEM"
)

// Op names an authorizable action. It mirrors wire.Operation but is
// kept independent of the wire package: authorization is a property of
// the engine/session layer, not of the byte encoding.
type Op string

const (
	OpCreateDatabase Op = "CREATE_DATABASE"
	OpDropDatabase   Op = "DROP_DATABASE"
	OpCreateTable    Op = "CREATE_TABLE"
	OpDropTable      Op = "DROP_TABLE"
	OpSelect         Op = "SELECT"
	OpInsert         Op = "INSERT"
	OpUpdate         Op = "UPDATE"
	OpDelete         Op = "DELETE"
)

// Permission is a triple `(op, object_type, object_name)`; an empty
// ObjectName is a wildcard matching every object of ObjectType.
type Permission struct {
	Op         Op
	ObjectType ObjectType
	ObjectName string
}

// Allows reports whether p authorizes performing op on
// (objectType, objectName).
func (p Permission) Allows(op Op, objectType ObjectType, objectName string) bool {
	if p.Op != op || p.ObjectType != objectType {
		return false
	}
	return p.ObjectName == "" || p.ObjectName == objectName
}

// AdminUsername is the one built-in user created if absent on startup,
// per spec.md §6.
const AdminUsername = "admin"

// DefaultAdminPassword is the reference default password for the
// built-in admin user. Operators are expected to change it.
const DefaultAdminPassword = "123456"

// User is a named identity with a hashed password and a permission
// set.
type User struct {
	ID           uint32
	Name         string
	PasswordHash []byte
	Permissions  []Permission
}

// IsAdmin reports whether u is the built-in admin user, which
// authorizes every request unconditionally per spec.md §4.4.
func (u *User) IsAdmin() bool { return u.Name == AdminUsername }

// CheckPassword reports whether password matches u's stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) == nil
}

// Authorized reports whether u may perform op on (objectType, objectName).
func (u *User) Authorized(op Op, objectType ObjectType, objectName string) bool {
	if u.IsAdmin() {
		return true
	}
	for _, p := range u.Permissions {
		if p.Allows(op, objectType, objectName) {
			return true
		}
	}
	return false
}

func hashPassword(password string) ([]byte, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

// fullPermissionSet returns the permission set held by the built-in
// admin user. It is informative only — IsAdmin/Authorized bypass it —
// but keeping it explicit documents spec.md §3's "admin holds the full
// permission set" invariant for anything that enumerates permissions.
func fullPermissionSet() []Permission {
	ops := []Op{OpCreateDatabase, OpDropDatabase, OpCreateTable, OpDropTable, OpSelect, OpInsert, OpUpdate, OpDelete}
	types := []ObjectType{ObjectDatabase, ObjectTable, ObjectSystem}
	perms := make([]Permission, 0, len(ops)*len(types))
	for _, op := range ops {
		for _, t := range types {
			perms = append(perms, Permission{Op: op, ObjectType: t})
		}
	}
	return perms
}
