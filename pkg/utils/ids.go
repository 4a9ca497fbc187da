package utils

import (
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewClientID gera o identificador de um novo cliente
func NewClientID() string {
	return uuid.NewString()
}

// GenerateID gera um identificador curto alfanumérico
func GenerateID(size int) (string, error) {
	return gonanoid.Generate(characters, size)
}
