package users

import "time"

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Age          int       `json:"age"`
	HeightFt     int       `json:"heightFt"`
	HeightIn     int       `json:"heightIn"`
	Weight       float64   `json:"weight"`
	Goal         string    `json:"goal"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
