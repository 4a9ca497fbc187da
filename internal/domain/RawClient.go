package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedRecord indica que um registro bruto não possui os campos obrigatórios
var ErrMalformedRecord = errors.New("malformed client record")

// MalformedRecordError identifica o campo ausente ou inválido no registro bruto
type MalformedRecordError struct {
	Field string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s: missing or empty field %q", ErrMalformedRecord.Error(), e.Field)
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

// RawClientRecord é o formato aninhado em que os clientes são persistidos e recebidos pela API
type RawClientRecord struct {
	ID         string               `json:"id,omitempty"`
	Info       *RawClientInfo       `json:"info"`
	Statistics *RawClientStatistics `json:"statistics,omitempty"`
}

type RawClientInfo struct {
	FullName *string           `json:"fullName"`
	Details  *RawClientDetails `json:"details"`
}

type RawClientDetails struct {
	Email     *string `json:"email"`
	BirthDate *string `json:"birthDate"`
}

type RawClientStatistics struct {
	Sales []Sale `json:"sales"`
}

// NormalizeClient converte o registro bruto no cliente canônico.
// Quando o registro não tem ID, newID é usado para gerar um.
func NormalizeClient(raw RawClientRecord, newID func() string) (*Client, error) {
	if raw.Info == nil {
		return nil, &MalformedRecordError{Field: "info"}
	}

	if raw.Info.FullName == nil || strings.TrimSpace(*raw.Info.FullName) == "" {
		return nil, &MalformedRecordError{Field: "info.fullName"}
	}

	details := raw.Info.Details
	if details == nil {
		return nil, &MalformedRecordError{Field: "info.details"}
	}

	if details.Email == nil {
		return nil, &MalformedRecordError{Field: "info.details.email"}
	}

	if details.BirthDate == nil {
		return nil, &MalformedRecordError{Field: "info.details.birthDate"}
	}

	id := raw.ID
	if id == "" {
		id = newID()
	}

	sales := make([]Sale, 0)
	if raw.Statistics != nil {
		sales = append(sales, raw.Statistics.Sales...)
	}

	return &Client{
		ID:        id,
		FullName:  strings.TrimSpace(*raw.Info.FullName),
		Email:     *details.Email,
		BirthDate: *details.BirthDate,
		Sales:     sales,
	}, nil
}

// DenormalizeClient converte o cliente canônico de volta para o formato persistido
func DenormalizeClient(client *Client) RawClientRecord {
	fullName := client.FullName
	email := client.Email
	birthDate := client.BirthDate

	sales := make([]Sale, len(client.Sales))
	copy(sales, client.Sales)

	return RawClientRecord{
		ID: client.ID,
		Info: &RawClientInfo{
			FullName: &fullName,
			Details: &RawClientDetails{
				Email:     &email,
				BirthDate: &birthDate,
			},
		},
		Statistics: &RawClientStatistics{
			Sales: sales,
		},
	}
}
