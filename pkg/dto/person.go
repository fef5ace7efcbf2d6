package dto

type CreatePersonRequest struct {
	FullName         string  `json:"full_name" binding:"required"`
	Nickname         *string `json:"nickname,omitempty"`
	CPF              *string `json:"cpf,omitempty"`
	RG               *string `json:"rg,omitempty"`
	VoterID          *string `json:"voter_id,omitempty"`
	AddressPrimary   string  `json:"address_primary" binding:"required"`
	AddressSecondary *string `json:"address_secondary,omitempty"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	MotherName       *string `json:"mother_name,omitempty"`
	FatherName       *string `json:"father_name,omitempty"`
	WarrantStatus    *string `json:"warrant_status,omitempty"`
	WarrantFileURL   *string `json:"warrant_file_url,omitempty"`
	Notes            *string `json:"notes,omitempty"`
	IsConfidential   bool    `json:"is_confidential"`
}

type PersonQuery struct {
	FullName       string `form:"full_name"`
	CPF            string `form:"cpf"`
	MotherName     string `form:"mother_name"`
	IsConfidential *bool  `form:"is_confidential"`
	Page           int    `form:"page"`
	Limit          int    `form:"limit"`
}

type PersonResponse struct {
	ID               int64   `json:"id"`
	FullName         string  `json:"full_name"`
	Nickname         *string `json:"nickname,omitempty"`
	CPF              *string `json:"cpf,omitempty"`
	RG               *string `json:"rg,omitempty"`
	VoterID          *string `json:"voter_id,omitempty"`
	AddressPrimary   string  `json:"address_primary"`
	AddressSecondary *string `json:"address_secondary,omitempty"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	MotherName       *string `json:"mother_name,omitempty"`
	FatherName       *string `json:"father_name,omitempty"`
	WarrantStatus    *string `json:"warrant_status,omitempty"`
	WarrantFileURL   *string `json:"warrant_file_url,omitempty"`
	Notes            *string `json:"notes,omitempty"`
	IsConfidential   bool    `json:"is_confidential"`
	CreatedAt        string  `json:"created_at"`
}

type FaceSearchResult struct {
	Person     PersonResponse `json:"person"`
	Similarity float64        `json:"similarity"`
	Distance   float64        `json:"distance"`
	PhotoURL   string         `json:"face_photo_url,omitempty"`
}
