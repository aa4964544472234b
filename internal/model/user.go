package model

import "go.mongodb.org/mongo-driver/bson/primitive"

const RoleAdmin = "admin"

// User is keyed by email. Role is empty for regular users.
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email string             `bson:"email" json:"email"`
	Name  string             `bson:"name,omitempty" json:"name,omitempty"`
	Role  string             `bson:"role,omitempty" json:"role,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type UpsertUserRequest struct {
	Name string `json:"name"`
}

// UpsertUserResponse carries the write acknowledgment plus a freshly signed
// token. The upsert is the only token-issuance path.
type UpsertUserResponse struct {
	Result interface{} `json:"result"`
	Token  string      `json:"token"`
}
