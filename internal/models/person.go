package models

import "time"

type Person struct {
	ID               int64      `json:"id" db:"id"`
	FullName         string     `json:"full_name" db:"full_name"`
	Nickname         *string    `json:"nickname,omitempty" db:"nickname"`
	CPF              *string    `json:"cpf,omitempty" db:"cpf"`
	RG               *string    `json:"rg,omitempty" db:"rg"`
	VoterID          *string    `json:"voter_id,omitempty" db:"voter_id"`
	AddressPrimary   string     `json:"address_primary" db:"address_primary"`
	AddressSecondary *string    `json:"address_secondary,omitempty" db:"address_secondary"`
	Latitude         float64    `json:"latitude" db:"latitude"`
	Longitude        float64    `json:"longitude" db:"longitude"`
	MotherName       *string    `json:"mother_name,omitempty" db:"mother_name"`
	FatherName       *string    `json:"father_name,omitempty" db:"father_name"`
	WarrantStatus    *string    `json:"warrant_status,omitempty" db:"warrant_status"`
	WarrantFileURL   *string    `json:"warrant_file_url,omitempty" db:"warrant_file_url"`
	Notes            *string    `json:"notes,omitempty" db:"notes"`
	IsConfidential   bool       `json:"is_confidential" db:"is_confidential"`
	CreatedBy        string     `json:"created_by" db:"created_by"`
	UpdatedBy        *string    `json:"updated_by,omitempty" db:"updated_by"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}
