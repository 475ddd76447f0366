package models

type Territory struct {
	ID   int64
	Name string
}
